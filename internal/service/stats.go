package service

import (
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	apperr "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/stats"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/validation"
)

// HabitStreak is the streak report for one habit.
type HabitStreak struct {
	Habit   models.Habit
	Result  stats.StreakResult
	Current int
}

// GapReport is the longest gap of a habit inside a window.
type GapReport struct {
	Habit models.Habit
	From  time.Time
	To    time.Time
	Gap   stats.Gap
	Found bool
}

type StatsService struct {
	base
}

func NewStatsService(store storage.Provider, v *validation.Validator) *StatsService {
	return &StatsService{base: newBase(store, v)}
}

func (s *StatsService) Overview() (stats.Overview, error) {
	now, _, err := s.clock()
	if err != nil {
		return stats.Overview{}, err
	}
	habits, err := s.store.GetAllHabits(true)
	if err != nil {
		return stats.Overview{}, err
	}
	records, err := s.store.GetAllRecords()
	if err != nil {
		return stats.Overview{}, err
	}
	return stats.BuildOverview(habits, records, now), nil
}

// Streak reports active days, longest and current streak for one habit.
func (s *StatsService) Streak(ref string) (HabitStreak, error) {
	h, err := s.resolveHabit(ref)
	if err != nil {
		return HabitStreak{}, err
	}
	now, _, err := s.clock()
	if err != nil {
		return HabitStreak{}, err
	}
	records, err := s.store.GetRecordsForHabit(h.ID, time.Time{}, time.Time{})
	if err != nil {
		return HabitStreak{}, err
	}
	times := stats.RecordTimes(records)
	return HabitStreak{
		Habit:   h,
		Result:  stats.Streak(times, now.Location()),
		Current: stats.CurrentStreak(stats.DistinctDays(times, now.Location()), now),
	}, nil
}

// topN falls back to the configured ranking size when n is zero. A
// negative n asks for every bucket.
func topN(n int, settings models.Settings) int {
	if n < 0 {
		return 0
	}
	if n > 0 {
		return n
	}
	if settings.TopN > 0 {
		return settings.TopN
	}
	return constants.DefaultTopN
}

// Categories ranks categories by completion count.
func (s *StatsService) Categories(n int) ([]stats.Entry[models.Category], error) {
	_, settings, err := s.clock()
	if err != nil {
		return nil, err
	}
	habits, err := s.store.GetAllHabits(true)
	if err != nil {
		return nil, err
	}
	records, err := s.store.GetAllRecords()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}
	return stats.TopN(stats.CountByCategory(records, byID), topN(n, settings), stats.CategoryOrder), nil
}

// HabitCategories ranks categories by how many habits use them.
func (s *StatsService) HabitCategories(n int) ([]stats.Entry[models.Category], error) {
	_, settings, err := s.clock()
	if err != nil {
		return nil, err
	}
	habits, err := s.store.GetAllHabits(false)
	if err != nil {
		return nil, err
	}
	cats := make([]models.Category, len(habits))
	for i, h := range habits {
		cats[i] = h.Category
	}
	return stats.TopN(stats.CountCategories(cats), topN(n, settings), stats.CategoryOrder), nil
}

// Weekdays ranks weekdays by completion count.
func (s *StatsService) Weekdays(n int) ([]stats.Entry[time.Weekday], error) {
	now, settings, err := s.clock()
	if err != nil {
		return nil, err
	}
	records, err := s.store.GetAllRecords()
	if err != nil {
		return nil, err
	}
	counts := stats.CountByWeekday(stats.RecordTimes(records), now.Location())
	return stats.TopN(counts, topN(n, settings), stats.WeekdayOrder), nil
}

// TimeSlots ranks two-hour slots by completion count.
func (s *StatsService) TimeSlots(n int) ([]stats.Entry[stats.TimeSlot], error) {
	now, settings, err := s.clock()
	if err != nil {
		return nil, err
	}
	records, err := s.store.GetAllRecords()
	if err != nil {
		return nil, err
	}
	counts := stats.CountByTimeSlot(stats.RecordTimes(records), now.Location())
	return stats.TopN(counts, topN(n, settings), stats.SlotOrder), nil
}

// Gap finds the habit's longest gap over the last days days, today included.
func (s *StatsService) Gap(ref string, days int) (GapReport, error) {
	if days <= 0 {
		days = constants.DefaultStatDays
	}
	h, err := s.resolveHabit(ref)
	if err != nil {
		return GapReport{}, err
	}
	now, _, err := s.clock()
	if err != nil {
		return GapReport{}, err
	}
	to := utils.StartOfDay(now)
	from := to.AddDate(0, 0, -(days - 1))
	return s.gapIn(h, from, to)
}

// GapBetween finds the habit's longest gap between two YYYY-MM-DD dates, inclusive.
func (s *StatsService) GapBetween(ref, fromDate, toDate string) (GapReport, error) {
	h, err := s.resolveHabit(ref)
	if err != nil {
		return GapReport{}, err
	}
	now, _, err := s.clock()
	if err != nil {
		return GapReport{}, err
	}
	from, err := dayOf(fromDate, now)
	if err != nil {
		return GapReport{}, err
	}
	to, err := dayOf(toDate, now)
	if err != nil {
		return GapReport{}, err
	}
	if to.Before(from) {
		return GapReport{}, apperr.Wrapf(apperr.ErrInvalid, "window end %s is before its start %s", toDate, fromDate)
	}
	return s.gapIn(h, from, to)
}

func (s *StatsService) gapIn(h models.Habit, from, to time.Time) (GapReport, error) {
	records, err := s.store.GetRecordsForHabit(h.ID, from, to.AddDate(0, 0, 1))
	if err != nil {
		return GapReport{}, err
	}
	gap, ok := stats.LongestGap(stats.RecordTimes(records), from, to, from.Location())
	return GapReport{Habit: h, From: from, To: to, Gap: gap, Found: ok}, nil
}

// Weekly summarises adherence for the week containing date (empty for this week).
func (s *StatsService) Weekly(date string) (stats.WeekSummary, error) {
	now, settings, err := s.clock()
	if err != nil {
		return stats.WeekSummary{}, err
	}
	day, err := dayOf(date, now)
	if err != nil {
		return stats.WeekSummary{}, err
	}
	start := utils.StartOfWeek(day, settings.FirstDayOfWeek())
	habits, err := s.store.GetAllHabits(false)
	if err != nil {
		return stats.WeekSummary{}, err
	}
	records, err := s.store.GetRecordsInRange(start, start.AddDate(0, 0, 7))
	if err != nil {
		return stats.WeekSummary{}, err
	}
	return stats.WeeklySummary(habits, records, start), nil
}

// Durations sums time invested per habit over the last days days (all when days <= 0).
func (s *StatsService) Durations(days int) ([]stats.HabitDuration, error) {
	now, _, err := s.clock()
	if err != nil {
		return nil, err
	}
	habits, err := s.store.GetAllHabits(false)
	if err != nil {
		return nil, err
	}
	var from time.Time
	if days > 0 {
		from = utils.StartOfDay(now).AddDate(0, 0, -(days - 1))
	}
	records, err := s.store.GetRecordsInRange(from, time.Time{})
	if err != nil {
		return nil, err
	}
	return stats.DurationByHabit(habits, records), nil
}
