package models

import (
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestHabit_Validate(t *testing.T) {
	goal := 20
	badGoal := 0
	tests := []struct {
		name    string
		habit   Habit
		wantErr bool
	}{
		{
			name: "valid daily habit",
			habit: Habit{
				Title:      "Read",
				Category:   CategoryLearning,
				Recurrence: Recurrence{Type: constants.RecurrenceDaily},
			},
		},
		{
			name: "valid interval habit with goal",
			habit: Habit{
				Title:       "Run",
				Category:    CategoryFitness,
				Recurrence:  Recurrence{Type: constants.RecurrenceNDays, IntervalDays: 2},
				GoalMinutes: &goal,
			},
		},
		{
			name: "empty title",
			habit: Habit{
				Title:      "  ",
				Category:   CategoryHealth,
				Recurrence: Recurrence{Type: constants.RecurrenceDaily},
			},
			wantErr: true,
		},
		{
			name: "unknown category",
			habit: Habit{
				Title:      "Read",
				Category:   Category("hobby"),
				Recurrence: Recurrence{Type: constants.RecurrenceDaily},
			},
			wantErr: true,
		},
		{
			name: "weekly without weekdays",
			habit: Habit{
				Title:      "Swim",
				Category:   CategoryFitness,
				Recurrence: Recurrence{Type: constants.RecurrenceWeekly},
			},
			wantErr: true,
		},
		{
			name: "interval of zero",
			habit: Habit{
				Title:      "Stretch",
				Category:   CategoryHealth,
				Recurrence: Recurrence{Type: constants.RecurrenceNDays},
			},
			wantErr: true,
		},
		{
			name: "non-positive goal",
			habit: Habit{
				Title:       "Meditate",
				Category:    CategoryMindfulness,
				Recurrence:  Recurrence{Type: constants.RecurrenceDaily},
				GoalMinutes: &badGoal,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.habit.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHabit_IsScheduled_Daily(t *testing.T) {
	h := Habit{CreatedAt: date(2026, 1, 1), Recurrence: Recurrence{Type: constants.RecurrenceDaily}}
	for d := 0; d < 14; d++ {
		day := date(2026, 1, 1).AddDate(0, 0, d)
		if !h.IsScheduled(day) {
			t.Errorf("daily habit should be scheduled on %s", day.Format(constants.DateFormat))
		}
	}
}

func TestHabit_IsScheduled_Weekly(t *testing.T) {
	h := Habit{
		CreatedAt: date(2026, 1, 1),
		Recurrence: Recurrence{
			Type:     constants.RecurrenceWeekly,
			Weekdays: []time.Weekday{time.Monday, time.Wednesday, time.Friday},
		},
	}
	// 2026-01-05 is a Monday
	for d := 0; d < 14; d++ {
		day := date(2026, 1, 5).AddDate(0, 0, d)
		wd := day.Weekday()
		want := wd == time.Monday || wd == time.Wednesday || wd == time.Friday
		if got := h.IsScheduled(day); got != want {
			t.Errorf("IsScheduled(%s %s) = %v, want %v", day.Format(constants.DateFormat), wd, got, want)
		}
	}
}

func TestHabit_IsScheduled_Interval(t *testing.T) {
	created := time.Date(2026, 1, 10, 21, 30, 0, 0, time.UTC)
	for _, n := range []int{1, 2, 3, 7} {
		h := Habit{CreatedAt: created, Recurrence: Recurrence{Type: constants.RecurrenceNDays, IntervalDays: n}}
		if !h.IsScheduled(date(2026, 1, 10)) {
			t.Errorf("interval %d: habit should be scheduled on its creation day", n)
		}
		if h.IsScheduled(date(2026, 1, 9)) {
			t.Errorf("interval %d: habit should not be scheduled before creation", n)
		}
		for d := 0; d < 30; d++ {
			day := date(2026, 1, 10).AddDate(0, 0, d)
			want := d%n == 0
			if got := h.IsScheduled(day); got != want {
				t.Errorf("interval %d: IsScheduled(+%d days) = %v, want %v", n, d, got, want)
			}
		}
	}
}

func TestHabit_IsScheduled_IntervalAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	// DST starts 2026-03-08 in New York
	h := Habit{
		CreatedAt:  time.Date(2026, 3, 6, 8, 0, 0, 0, loc),
		Recurrence: Recurrence{Type: constants.RecurrenceNDays, IntervalDays: 2},
	}
	if !h.IsScheduled(time.Date(2026, 3, 10, 0, 30, 0, 0, loc)) {
		t.Error("habit should be scheduled four days after creation across the DST change")
	}
	if h.IsScheduled(time.Date(2026, 3, 9, 23, 30, 0, 0, loc)) {
		t.Error("habit should not be scheduled three days after creation")
	}
}

func TestRecurrence_Normalize(t *testing.T) {
	r := Recurrence{
		Type:     constants.RecurrenceWeekly,
		Weekdays: []time.Weekday{time.Friday, time.Monday, time.Friday},
	}
	r.Normalize()
	if len(r.Weekdays) != 2 || r.Weekdays[0] != time.Monday || r.Weekdays[1] != time.Friday {
		t.Errorf("Normalize() = %v, want [Monday Friday]", r.Weekdays)
	}
}

func TestRecurrence_Equal(t *testing.T) {
	weekly := Recurrence{Type: constants.RecurrenceWeekly, Weekdays: []time.Weekday{time.Monday, time.Friday}}
	reordered := Recurrence{Type: constants.RecurrenceWeekly, Weekdays: []time.Weekday{time.Friday, time.Monday}}
	if !weekly.Equal(reordered) {
		t.Error("weekday order should not matter")
	}
	if weekly.Equal(Recurrence{Type: constants.RecurrenceDaily}) {
		t.Error("weekly and daily should differ")
	}
	a := Recurrence{Type: constants.RecurrenceNDays, IntervalDays: 2}
	b := Recurrence{Type: constants.RecurrenceNDays, IntervalDays: 3}
	if a.Equal(b) {
		t.Error("different intervals should differ")
	}
}

func TestRecurrence_String(t *testing.T) {
	tests := []struct {
		r    Recurrence
		want string
	}{
		{Recurrence{Type: constants.RecurrenceDaily}, "Daily"},
		{Recurrence{Type: constants.RecurrenceWeekly, Weekdays: []time.Weekday{time.Monday, time.Thursday}}, "Weekly: Mon, Thu"},
		{Recurrence{Type: constants.RecurrenceNDays, IntervalDays: 1}, "Daily"},
		{Recurrence{Type: constants.RecurrenceNDays, IntervalDays: 3}, "Every 3 days"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Fitness ")
	if err != nil {
		t.Fatalf("ParseCategory() unexpected error: %v", err)
	}
	if c != CategoryFitness {
		t.Errorf("ParseCategory() = %q, want %q", c, CategoryFitness)
	}
	if _, err := ParseCategory("gardening"); err == nil {
		t.Error("ParseCategory() should reject unknown categories")
	}
}

func TestDaysBetween(t *testing.T) {
	if got := DaysBetween(date(2026, 1, 1), date(2026, 1, 5)); got != 4 {
		t.Errorf("DaysBetween() = %d, want 4", got)
	}
	if got := DaysBetween(date(2026, 1, 5), date(2026, 1, 1)); got != -4 {
		t.Errorf("DaysBetween() = %d, want -4", got)
	}
	if got := DaysBetween(date(2025, 12, 31), date(2026, 3, 1)); got != 60 {
		t.Errorf("DaysBetween() = %d, want 60", got)
	}
}

func TestHabitNotification_Validate(t *testing.T) {
	valid := HabitNotification{HabitID: "h1", Time: "07:30"}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
	for _, tm := range []string{"", "25:00", "7pm"} {
		n := HabitNotification{HabitID: "h1", Time: tm}
		if err := n.Validate(); err == nil {
			t.Errorf("Validate() should reject time %q", tm)
		}
	}
}

func TestHabitNotification_SentOn(t *testing.T) {
	sent := time.Date(2026, 2, 3, 7, 30, 0, 0, time.UTC)
	n := HabitNotification{HabitID: "h1", Time: "07:30", LastSent: &sent}
	if !n.SentOn(date(2026, 2, 3)) {
		t.Error("SentOn() should be true on the day it was sent")
	}
	if n.SentOn(date(2026, 2, 4)) {
		t.Error("SentOn() should be false on the following day")
	}
}

func TestSettingsRoundTripDefaults(t *testing.T) {
	s, err := MapToSettings(map[string]string{
		constants.SettingTimezone: "Europe/London",
		constants.SettingTopN:     "5",
	})
	if err != nil {
		t.Fatalf("MapToSettings() error: %v", err)
	}
	ApplyDefaultSettings(&s)
	if s.Timezone != "Europe/London" || s.TopN != 5 {
		t.Errorf("unexpected settings: %+v", s)
	}
	if s.ReminderChannel != constants.DefaultReminderChannel || s.WeekStart != constants.DefaultWeekStart {
		t.Errorf("defaults not applied: %+v", s)
	}
	if _, err := MapToSettings(map[string]string{constants.SettingTopN: "many"}); err == nil {
		t.Error("MapToSettings() should reject a non-numeric top_n")
	}
}
