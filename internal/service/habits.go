package service

import (
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/constants"
	apperr "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/validation"
)

// HabitInput is the user-supplied definition of a habit.
type HabitInput struct {
	Title       string            `json:"title" validate:"required,max=80"`
	Category    string            `json:"category" validate:"required,category"`
	Recurrence  models.Recurrence `json:"recurrence"`
	GoalMinutes *int              `json:"goal" validate:"omitempty,gt=0,lte=1440"`
}

// HabitUpdate changes the fields that are set.
type HabitUpdate struct {
	Title       *string
	Category    *string
	Recurrence  *models.Recurrence
	GoalMinutes *int
	ClearGoal   bool
}

// TodayItem is a habit due on a day and its completion, if any.
type TodayItem struct {
	Habit  models.Habit
	Record *models.HabitRecord
}

func (t TodayItem) Done() bool { return t.Record != nil }

type HabitService struct {
	base
	scheduler Scheduler
}

func NewHabitService(store storage.Provider, v *validation.Validator, scheduler Scheduler) *HabitService {
	if scheduler == nil {
		scheduler = noopScheduler{}
	}
	return &HabitService{base: newBase(store, v), scheduler: scheduler}
}

func (s *HabitService) Create(in HabitInput) (models.Habit, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := s.validate(in); err != nil {
		return models.Habit{}, err
	}
	if err := s.ensureTitleFree(in.Title, ""); err != nil {
		return models.Habit{}, err
	}

	category, _ := models.ParseCategory(in.Category)
	rec := in.Recurrence
	rec.Normalize()

	h := models.Habit{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Category:    category,
		CreatedAt:   s.now(),
		Recurrence:  rec,
		GoalMinutes: in.GoalMinutes,
	}
	if err := s.store.AddHabit(h); err != nil {
		return models.Habit{}, err
	}
	logger.Info("Created habit", "id", h.ID, "title", h.Title, "recurrence", h.Recurrence.String())
	return h, nil
}

func (s *HabitService) ensureTitleFree(title, selfID string) error {
	existing, err := s.store.GetHabitByTitle(title)
	switch {
	case err == nil && existing.ID != selfID:
		return apperr.Wrapf(apperr.ErrConflict, "a habit named %q already exists", existing.Title)
	case err != nil && !apperr.Is(err, apperr.ErrNotFound):
		return err
	}
	return nil
}

func (s *HabitService) Get(ref string) (models.Habit, error) {
	return s.resolveHabit(ref)
}

func (s *HabitService) List(includeArchived bool) ([]models.Habit, error) {
	return s.store.GetAllHabits(includeArchived)
}

// Update applies upd and reschedules the reminder when the recurrence changed.
func (s *HabitService) Update(ref string, upd HabitUpdate) (models.Habit, error) {
	h, err := s.resolveHabit(ref)
	if err != nil {
		return models.Habit{}, err
	}

	in := HabitInput{
		Title:       h.Title,
		Category:    string(h.Category),
		Recurrence:  h.Recurrence,
		GoalMinutes: h.GoalMinutes,
	}
	if upd.Title != nil {
		in.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Category != nil {
		in.Category = *upd.Category
	}
	if upd.Recurrence != nil {
		in.Recurrence = *upd.Recurrence
	}
	if upd.GoalMinutes != nil {
		in.GoalMinutes = upd.GoalMinutes
	}
	if upd.ClearGoal {
		in.GoalMinutes = nil
	}
	if err := s.validate(in); err != nil {
		return models.Habit{}, err
	}
	if !strings.EqualFold(in.Title, h.Title) {
		if err := s.ensureTitleFree(in.Title, h.ID); err != nil {
			return models.Habit{}, err
		}
	}

	rec := in.Recurrence
	rec.Normalize()
	recurrenceChanged := !rec.Equal(h.Recurrence)

	h.Title = in.Title
	h.Category, _ = models.ParseCategory(in.Category)
	h.Recurrence = rec
	h.GoalMinutes = in.GoalMinutes
	if err := s.store.UpdateHabit(h); err != nil {
		return models.Habit{}, err
	}

	if recurrenceChanged {
		if err := s.reschedule(h); err != nil {
			return h, err
		}
	}
	return h, nil
}

// reschedule recomputes the habit's reminder entries, if it has a reminder.
func (s *HabitService) reschedule(h models.Habit) error {
	n, err := s.store.GetNotification(h.ID)
	if apperr.Is(err, apperr.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	logger.Debug("Rescheduling reminder", "habit", h.Title, "recurrence", h.Recurrence.String())
	return s.scheduler.Schedule(h, n)
}

func (s *HabitService) Archive(ref string) (models.Habit, error) {
	h, err := s.resolveHabit(ref)
	if err != nil {
		return models.Habit{}, err
	}
	if h.IsArchived() {
		return h, apperr.Wrapf(apperr.ErrConflict, "habit %q is already archived", h.Title)
	}
	if err := s.store.ArchiveHabit(h.ID); err != nil {
		return models.Habit{}, err
	}
	s.scheduler.Cancel(h.ID)
	return s.store.GetHabit(h.ID)
}

func (s *HabitService) Unarchive(ref string) (models.Habit, error) {
	h, err := s.resolveHabit(ref)
	if err != nil {
		return models.Habit{}, err
	}
	if !h.IsArchived() {
		return h, apperr.Wrapf(apperr.ErrConflict, "habit %q is not archived", h.Title)
	}
	if err := s.store.UnarchiveHabit(h.ID); err != nil {
		return models.Habit{}, err
	}
	h.ArchivedAt = nil
	return h, s.reschedule(h)
}

// Delete removes the habit with its records and reminder and cancels
// its scheduled reminders.
func (s *HabitService) Delete(ref string) (models.Habit, error) {
	h, err := s.resolveHabit(ref)
	if err != nil {
		return models.Habit{}, err
	}
	if err := s.store.DeleteHabit(h.ID); err != nil {
		return models.Habit{}, err
	}
	s.scheduler.Cancel(h.ID)
	logger.Info("Deleted habit", "id", h.ID, "title", h.Title)
	return h, nil
}

// Today lists the active habits due on date (YYYY-MM-DD, empty for today)
// with that day's completion. Habits created after the date are left out.
func (s *HabitService) Today(date string) ([]TodayItem, error) {
	now, _, err := s.clock()
	if err != nil {
		return nil, err
	}
	day, err := dayOf(date, now)
	if err != nil {
		return nil, err
	}

	habits, err := s.store.GetAllHabits(false)
	if err != nil {
		return nil, err
	}
	records, err := s.store.GetRecordsInRange(day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	done := make(map[string]models.HabitRecord, len(records))
	for _, r := range records {
		if _, ok := done[r.HabitID]; !ok {
			done[r.HabitID] = r
		}
	}

	var items []TodayItem
	for _, h := range habits {
		if models.DaysBetween(h.CreatedAt.In(day.Location()), day) < 0 || !h.IsScheduled(day) {
			continue
		}
		item := TodayItem{Habit: h}
		if r, ok := done[h.ID]; ok {
			item.Record = &r
		}
		items = append(items, item)
	}
	return items, nil
}

// ParseRecurrence builds a recurrence from CLI style flags. Exactly one of
// daily, weekly (a weekday list) or every (days) may be set.
func ParseRecurrence(daily bool, weekly string, every int) (models.Recurrence, error) {
	set := 0
	var rec models.Recurrence
	if daily {
		set++
		rec = models.Recurrence{Type: constants.RecurrenceDaily}
	}
	if weekly != "" {
		set++
		days, err := utils.ParseWeekdays(weekly)
		if err != nil {
			return models.Recurrence{}, apperr.Wrap(apperr.ErrInvalid, err)
		}
		rec = models.Recurrence{Type: constants.RecurrenceWeekly, Weekdays: days}
	}
	if every != 0 {
		set++
		rec = models.Recurrence{Type: constants.RecurrenceNDays, IntervalDays: every}
	}
	if set != 1 {
		return models.Recurrence{}, apperr.Wrapf(apperr.ErrInvalid, "choose exactly one of --daily, --weekly or --every")
	}
	rec.Normalize()
	return rec, apperr.Wrap(apperr.ErrInvalid, rec.Validate())
}
