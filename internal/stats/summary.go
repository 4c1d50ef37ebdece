package stats

import (
	"cmp"
	"slices"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

// HabitDuration is the time invested in one habit.
type HabitDuration struct {
	HabitID      string `json:"habit_id"`
	Title        string `json:"title"`
	Sessions     int    `json:"sessions"`
	TotalMinutes int    `json:"total_minutes"`
	GoalMinutes  *int   `json:"goal_minutes,omitempty"`
	GoalsMet     int    `json:"goals_met"` // sessions lasting at least the goal
}

// AverageMinutes returns the mean session length over timed and untimed sessions.
func (d HabitDuration) AverageMinutes() float64 {
	if d.Sessions == 0 {
		return 0
	}
	return float64(d.TotalMinutes) / float64(d.Sessions)
}

// DurationByHabit sums record durations per habit. Habits without records are
// included with zero totals; the result is sorted by total minutes, then title.
func DurationByHabit(habits []models.Habit, records []models.HabitRecord) []HabitDuration {
	byID := make(map[string]*HabitDuration, len(habits))
	out := make([]HabitDuration, len(habits))
	for i, h := range habits {
		out[i] = HabitDuration{HabitID: h.ID, Title: h.Title, GoalMinutes: h.GoalMinutes}
		byID[h.ID] = &out[i]
	}
	for _, r := range records {
		d, ok := byID[r.HabitID]
		if !ok {
			continue
		}
		d.Sessions++
		d.TotalMinutes += r.DurationMin
		if d.GoalMinutes != nil && r.DurationMin >= *d.GoalMinutes {
			d.GoalsMet++
		}
	}
	slices.SortStableFunc(out, func(a, b HabitDuration) int {
		if c := cmp.Compare(b.TotalMinutes, a.TotalMinutes); c != 0 {
			return c
		}
		return cmp.Compare(a.Title, b.Title)
	})
	return out
}

// HabitWeek is one habit's adherence within a week.
type HabitWeek struct {
	HabitID string  `json:"habit_id"`
	Title   string  `json:"title"`
	Due     int     `json:"due"`
	Done    int     `json:"done"`  // due days with a completion
	Extra   int     `json:"extra"` // completions on days the habit was not due
	Minutes int     `json:"minutes"`
	Rate    float64 `json:"rate"`
}

// WeekSummary aggregates adherence over the seven days starting at Start.
type WeekSummary struct {
	Start  time.Time   `json:"start"`
	End    time.Time   `json:"end"`
	Habits []HabitWeek `json:"habits"`
	Due    int         `json:"due"`
	Done   int         `json:"done"`
	Rate   float64     `json:"rate"`
}

// WeeklySummary evaluates each habit for the week beginning at weekStart
// (midnight in the stats location). Days before a habit's creation are not due.
func WeeklySummary(habits []models.Habit, records []models.HabitRecord, weekStart time.Time) WeekSummary {
	loc := weekStart.Location()
	weekStart = time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, loc)
	summary := WeekSummary{Start: weekStart, End: weekStart.AddDate(0, 0, 6)}

	// minutes per habit per day, keyed by YYYY-MM-DD
	doneDays := make(map[string]map[string]int)
	for _, r := range records {
		day := r.CompletedAt.In(loc)
		if models.DaysBetween(weekStart, day) < 0 || models.DaysBetween(day, summary.End) < 0 {
			continue
		}
		if doneDays[r.HabitID] == nil {
			doneDays[r.HabitID] = make(map[string]int)
		}
		doneDays[r.HabitID][day.Format(constants.DateFormat)] += r.DurationMin
	}

	for _, h := range habits {
		hw := HabitWeek{HabitID: h.ID, Title: h.Title}
		done := doneDays[h.ID]
		for i := 0; i < 7; i++ {
			day := weekStart.AddDate(0, 0, i)
			key := day.Format(constants.DateFormat)
			_, completed := done[key]
			due := models.DaysBetween(h.CreatedAt.In(loc), day) >= 0 && h.IsScheduled(day)
			switch {
			case due && completed:
				hw.Due++
				hw.Done++
			case due:
				hw.Due++
			case completed:
				hw.Extra++
			}
			hw.Minutes += done[key]
		}
		hw.Rate = rate(hw.Done, hw.Due)
		summary.Due += hw.Due
		summary.Done += hw.Done
		summary.Habits = append(summary.Habits, hw)
	}
	summary.Rate = rate(summary.Done, summary.Due)
	return summary
}

func rate(done, due int) float64 {
	if due == 0 {
		return 0
	}
	return float64(done) / float64(due)
}

// Overview is the headline view over all records.
type Overview struct {
	TotalRecords     int                     `json:"total_records"`
	TotalMinutes     int                     `json:"total_minutes"`
	ActiveDays       int                     `json:"active_days"`
	LongestStreak    int                     `json:"longest_streak"`
	CurrentStreak    int                     `json:"current_streak"`
	FavoriteCategory *Entry[models.Category] `json:"favorite_category,omitempty"`
	BusiestWeekday   *Entry[time.Weekday]    `json:"busiest_weekday,omitempty"`
	BusiestTimeSlot  *Entry[TimeSlot]        `json:"busiest_time_slot,omitempty"`
}

// BuildOverview summarises records as of now, using now's location for days.
func BuildOverview(habits []models.Habit, records []models.HabitRecord, now time.Time) Overview {
	loc := now.Location()
	times := RecordTimes(records)
	days := DistinctDays(times, loc)

	ov := Overview{
		TotalRecords:  len(records),
		ActiveDays:    len(days),
		LongestStreak: LongestStreak(days),
		CurrentStreak: CurrentStreak(days, now),
	}
	for _, r := range records {
		ov.TotalMinutes += r.DurationMin
	}

	byID := make(map[string]models.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}
	if e, ok := FavoriteCategory(CountByCategory(records, byID)); ok {
		ov.FavoriteCategory = &e
	}
	if e, ok := BusiestWeekday(CountByWeekday(times, loc)); ok {
		ov.BusiestWeekday = &e
	}
	if e, ok := BusiestTimeSlot(CountByTimeSlot(times, loc)); ok {
		ov.BusiestTimeSlot = &e
	}
	return ov
}
