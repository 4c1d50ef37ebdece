package models

import (
	"fmt"
	"time"
)

// HabitRecord is a single completion of a habit
type HabitRecord struct {
	ID          string    `json:"id"`
	HabitID     string    `json:"habit_id"`
	CompletedAt time.Time `json:"completed_at"`
	DurationMin int       `json:"duration_min"` // 0 when untimed
	Note        string    `json:"note,omitempty"`
}

func (r *HabitRecord) Validate() error {
	if r.HabitID == "" {
		return fmt.Errorf("record must reference a habit")
	}
	if r.CompletedAt.IsZero() {
		return fmt.Errorf("completion time cannot be empty")
	}
	if r.DurationMin < 0 {
		return fmt.Errorf("duration cannot be negative")
	}
	return nil
}

// Day returns the completion date (YYYY-MM-DD) in loc.
func (r *HabitRecord) Day(loc *time.Location) string {
	return r.CompletedAt.In(loc).Format("2006-01-02")
}
