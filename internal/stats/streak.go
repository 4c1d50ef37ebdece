// Package stats derives streaks, gaps and grouped counts from completion
// records. Every function is pure and works on calendar days in a caller
// supplied location.
package stats

import (
	"slices"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

// StreakResult summarises a set of completion days.
type StreakResult struct {
	ActiveDays int `json:"active_days"`
	Longest    int `json:"longest"`
}

// DistinctDays truncates each instant to midnight in loc and returns the
// unique days in ascending order.
func DistinctDays(times []time.Time, loc *time.Location) []time.Time {
	if len(times) == 0 {
		return nil
	}
	seen := make(map[time.Time]struct{}, len(times))
	days := make([]time.Time, 0, len(times))
	for _, t := range times {
		t = t.In(loc)
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })
	return days
}

// Streak computes the active-day count and the longest run of consecutive
// days for the given completion instants.
func Streak(times []time.Time, loc *time.Location) StreakResult {
	days := DistinctDays(times, loc)
	return StreakResult{ActiveDays: len(days), Longest: LongestStreak(days)}
}

// LongestStreak scans sorted distinct days and returns the longest run where
// each day follows the previous one by exactly one calendar day.
func LongestStreak(days []time.Time) int {
	if len(days) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if models.DaysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}

// CurrentStreak returns the run ending on today. When today has no completion
// yet the run ending yesterday still counts. Days after today are ignored.
func CurrentStreak(days []time.Time, today time.Time) int {
	end := len(days)
	for end > 0 && models.DaysBetween(days[end-1], today) < 0 {
		end--
	}
	if end == 0 || models.DaysBetween(days[end-1], today) > 1 {
		return 0
	}
	run := 1
	for i := end - 1; i > 0 && models.DaysBetween(days[i-1], days[i]) == 1; i-- {
		run++
	}
	return run
}

// RecordTimes extracts the completion instants of records.
func RecordTimes(records []models.HabitRecord) []time.Time {
	times := make([]time.Time, len(records))
	for i, r := range records {
		times[i] = r.CompletedAt
	}
	return times
}
