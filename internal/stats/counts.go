package stats

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

// TimeSlot is one of the fixed two-hour buckets of a day, 0 being 00:00-02:00.
type TimeSlot int

// SlotOf returns the bucket containing t's wall clock hour.
func SlotOf(t time.Time) TimeSlot {
	return TimeSlot(t.Hour() / constants.TimeSlotHours)
}

func (s TimeSlot) String() string {
	start := int(s) * constants.TimeSlotHours
	return fmt.Sprintf("%02d:00-%02d:00", start, start+constants.TimeSlotHours)
}

// Entry is one ranked key with its count.
type Entry[K comparable] struct {
	Key   K   `json:"key"`
	Count int `json:"count"`
}

// TopN orders counts descending and returns at most n entries with a
// positive count. Equal counts keep the canonical key order given by order.
// n <= 0 returns every entry.
func TopN[K comparable](counts map[K]int, n int, order func(a, b K) int) []Entry[K] {
	entries := make([]Entry[K], 0, len(counts))
	for k, c := range counts {
		if c > 0 {
			entries = append(entries, Entry[K]{Key: k, Count: c})
		}
	}
	slices.SortFunc(entries, func(a, b Entry[K]) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return order(a.Key, b.Key)
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// CategoryOrder sorts categories in declaration order.
func CategoryOrder(a, b models.Category) int { return cmp.Compare(a.Index(), b.Index()) }

// WeekdayOrder sorts Sunday through Saturday.
func WeekdayOrder(a, b time.Weekday) int { return cmp.Compare(a, b) }

// SlotOrder sorts slots chronologically.
func SlotOrder(a, b TimeSlot) int { return cmp.Compare(a, b) }

// CountCategories tallies how often each category occurs.
func CountCategories(cats []models.Category) map[models.Category]int {
	counts := make(map[models.Category]int)
	for _, c := range cats {
		counts[c]++
	}
	return counts
}

// CountByCategory tallies records by the category of their habit. Records of
// unknown habits are skipped.
func CountByCategory(records []models.HabitRecord, habits map[string]models.Habit) map[models.Category]int {
	cats := make([]models.Category, 0, len(records))
	for _, r := range records {
		if h, ok := habits[r.HabitID]; ok {
			cats = append(cats, h.Category)
		}
	}
	return CountCategories(cats)
}

// CountByWeekday tallies completions by weekday in loc.
func CountByWeekday(times []time.Time, loc *time.Location) map[time.Weekday]int {
	counts := make(map[time.Weekday]int)
	for _, t := range times {
		counts[t.In(loc).Weekday()]++
	}
	return counts
}

// CountByTimeSlot tallies completions by two-hour slot in loc.
func CountByTimeSlot(times []time.Time, loc *time.Location) map[TimeSlot]int {
	counts := make(map[TimeSlot]int)
	for _, t := range times {
		counts[SlotOf(t.In(loc))]++
	}
	return counts
}

// FavoriteCategory returns the most frequent category, if any.
func FavoriteCategory(counts map[models.Category]int) (Entry[models.Category], bool) {
	return first(TopN(counts, 1, CategoryOrder))
}

// BusiestWeekday returns the weekday with the most completions, if any.
func BusiestWeekday(counts map[time.Weekday]int) (Entry[time.Weekday], bool) {
	return first(TopN(counts, 1, WeekdayOrder))
}

// BusiestTimeSlot returns the slot with the most completions, if any.
func BusiestTimeSlot(counts map[TimeSlot]int) (Entry[TimeSlot], bool) {
	return first(TopN(counts, 1, SlotOrder))
}

func first[K comparable](entries []Entry[K]) (Entry[K], bool) {
	if len(entries) == 0 {
		var zero Entry[K]
		return zero, false
	}
	return entries[0], true
}
