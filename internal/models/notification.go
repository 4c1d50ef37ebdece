package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
)

// HabitNotification is the reminder configuration attached to a habit
type HabitNotification struct {
	ID        string     `json:"id"`
	HabitID   string     `json:"habit_id"`
	Time      string     `json:"time"` // HH:MM format
	LastSent  *time.Time `json:"last_sent,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (n *HabitNotification) Validate() error {
	if n.HabitID == "" {
		return fmt.Errorf("notification must reference a habit")
	}
	if n.Time == "" {
		return fmt.Errorf("notification time cannot be empty")
	}
	if _, err := time.Parse(constants.TimeFormat, n.Time); err != nil {
		return fmt.Errorf("invalid time format (expected HH:MM): %w", err)
	}
	return nil
}

// HourMinute returns the reminder time of day.
func (n *HabitNotification) HourMinute() (int, int, error) {
	t, err := time.Parse(constants.TimeFormat, n.Time)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}

// SentOn reports whether the reminder already went out on the calendar day of date.
func (n *HabitNotification) SentOn(date time.Time) bool {
	if n.LastSent == nil {
		return false
	}
	return n.LastSent.In(date.Location()).Format(constants.DateFormat) == date.Format(constants.DateFormat)
}
