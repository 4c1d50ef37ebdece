package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
)

// Category is the closed set of tags a habit can belong to
type Category string

const (
	CategoryHealth       Category = "health"
	CategoryFitness      Category = "fitness"
	CategoryLearning     Category = "learning"
	CategoryMindfulness  Category = "mindfulness"
	CategoryProductivity Category = "productivity"
)

// Categories lists every category in canonical order.
var Categories = []Category{
	CategoryHealth,
	CategoryFitness,
	CategoryLearning,
	CategoryMindfulness,
	CategoryProductivity,
}

// ParseCategory converts a user supplied string to a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q (expected one of %s)", s, categoryList())
	}
	return c, nil
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// Index returns the canonical position of c, or -1 when unknown.
func (c Category) Index() int {
	return slices.Index(Categories, c)
}

func categoryList() string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

type Recurrence struct {
	Type         constants.RecurrenceType `json:"type"`
	IntervalDays int                      `json:"interval_days,omitempty"`
	Weekdays     []time.Weekday           `json:"weekdays,omitempty"`
}

// Normalize sorts and de-duplicates the weekday set.
func (r *Recurrence) Normalize() {
	if len(r.Weekdays) == 0 {
		return
	}
	slices.Sort(r.Weekdays)
	r.Weekdays = slices.Compact(r.Weekdays)
}

// Validate checks the recurrence invariants.
func (r Recurrence) Validate() error {
	switch r.Type {
	case constants.RecurrenceDaily:
	case constants.RecurrenceWeekly:
		if len(r.Weekdays) == 0 {
			return fmt.Errorf("weekdays must be specified for weekly recurrence")
		}
		for _, wd := range r.Weekdays {
			if wd < time.Sunday || wd > time.Saturday {
				return fmt.Errorf("invalid weekday %d", wd)
			}
		}
	case constants.RecurrenceNDays:
		if r.IntervalDays < 1 {
			return fmt.Errorf("interval must be at least 1 for n_days recurrence")
		}
	default:
		return fmt.Errorf("unknown recurrence type %q", r.Type)
	}
	return nil
}

// Equal reports whether two recurrences produce the same schedule.
func (r Recurrence) Equal(o Recurrence) bool {
	if r.Type != o.Type {
		return false
	}
	switch r.Type {
	case constants.RecurrenceWeekly:
		a, b := slices.Clone(r.Weekdays), slices.Clone(o.Weekdays)
		slices.Sort(a)
		slices.Sort(b)
		return slices.Equal(slices.Compact(a), slices.Compact(b))
	case constants.RecurrenceNDays:
		return r.IntervalDays == o.IntervalDays
	}
	return true
}

// String returns a human-readable description of the recurrence
func (r Recurrence) String() string {
	switch r.Type {
	case constants.RecurrenceDaily:
		return "Daily"
	case constants.RecurrenceWeekly:
		days := make([]string, len(r.Weekdays))
		for i, wd := range r.Weekdays {
			days[i] = wd.String()[:3]
		}
		return fmt.Sprintf("Weekly: %s", strings.Join(days, ", "))
	case constants.RecurrenceNDays:
		if r.IntervalDays == 1 {
			return "Daily"
		}
		return fmt.Sprintf("Every %d days", r.IntervalDays)
	default:
		return "Unknown"
	}
}

// Habit represents a recurring practice to track
type Habit struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Category    Category   `json:"category"`
	CreatedAt   time.Time  `json:"created_at"`
	Recurrence  Recurrence `json:"recurrence"`
	GoalMinutes *int       `json:"goal_minutes,omitempty"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
}

func (h *Habit) Validate() error {
	if strings.TrimSpace(h.Title) == "" {
		return fmt.Errorf("habit title cannot be empty")
	}
	if !h.Category.Valid() {
		return fmt.Errorf("unknown category %q (expected one of %s)", h.Category, categoryList())
	}
	if h.GoalMinutes != nil && *h.GoalMinutes <= 0 {
		return fmt.Errorf("goal must be a positive number of minutes")
	}
	return h.Recurrence.Validate()
}

// IsArchived reports whether the habit has been archived
func (h *Habit) IsArchived() bool {
	return h.ArchivedAt != nil
}

// IsScheduled reports whether the habit is due on the calendar day of date.
// Interval habits are due on the creation day and every IntervalDays after it,
// with days counted in date's location.
func (h *Habit) IsScheduled(date time.Time) bool {
	switch h.Recurrence.Type {
	case constants.RecurrenceDaily:
		return true
	case constants.RecurrenceWeekly:
		return slices.Contains(h.Recurrence.Weekdays, date.Weekday())
	case constants.RecurrenceNDays:
		interval := h.Recurrence.IntervalDays
		if interval < 1 {
			return false
		}
		daysSince := DaysBetween(h.CreatedAt.In(date.Location()), date)
		if daysSince < 0 {
			return false
		}
		return daysSince%interval == 0
	default:
		return false
	}
}

// DaysBetween returns the number of calendar days from a to b, ignoring the
// time of day. Both values are read in their own locations.
func DaysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// GoalLabel returns the goal as text, or "-" when none is set.
func (h *Habit) GoalLabel() string {
	if h.GoalMinutes == nil {
		return "-"
	}
	return fmt.Sprintf("%d min", *h.GoalMinutes)
}
