// Package reminder turns habit notifications into cron schedules and
// delivers the reminders that fall due.
package reminder

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

// Job is one cron entry for a habit reminder.
type Job struct {
	ID   string
	Spec string
}

// Jobs expands a habit's reminder into cron jobs keyed by
// "<habitID>:daily", "<habitID>:weekly:<day>" or "<habitID>:every:<N>d".
// Interval habits get a daily job that checks IsScheduled when it fires.
func Jobs(h models.Habit, n models.HabitNotification) ([]Job, error) {
	hour, minute, err := n.HourMinute()
	if err != nil {
		return nil, fmt.Errorf("invalid reminder time %q: %w", n.Time, err)
	}

	switch h.Recurrence.Type {
	case constants.RecurrenceDaily:
		return []Job{{
			ID:   h.ID + ":daily",
			Spec: fmt.Sprintf("%d %d * * *", minute, hour),
		}}, nil
	case constants.RecurrenceWeekly:
		rec := h.Recurrence
		rec.Normalize()
		jobs := make([]Job, 0, len(rec.Weekdays))
		for _, wd := range rec.Weekdays {
			jobs = append(jobs, Job{
				ID:   fmt.Sprintf("%s:weekly:%s", h.ID, utils.ShortWeekday(wd)),
				Spec: fmt.Sprintf("%d %d * * %d", minute, hour, int(wd)),
			})
		}
		return jobs, nil
	case constants.RecurrenceNDays:
		return []Job{{
			ID:   fmt.Sprintf("%s:every:%dd", h.ID, h.Recurrence.IntervalDays),
			Spec: fmt.Sprintf("%d %d * * *", minute, hour),
		}}, nil
	default:
		return nil, fmt.Errorf("unknown recurrence type %q", h.Recurrence.Type)
	}
}

// HabitIDOf returns the habit part of a job identifier.
func HabitIDOf(jobID string) string {
	id, _, _ := strings.Cut(jobID, ":")
	return id
}

// Due reports whether the reminder should go out at now: the habit is
// active and scheduled today, the reminder time has passed by less than
// the grace period, and nothing was sent yet today.
func Due(h models.Habit, n models.HabitNotification, now time.Time) bool {
	if h.IsArchived() || !h.IsScheduled(now) || n.SentOn(now) {
		return false
	}
	hour, minute, err := n.HourMinute()
	if err != nil {
		return false
	}
	at := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	return !now.Before(at) && now.Sub(at) < constants.ReminderGracePeriod
}
