// Package service holds the use cases shared by the CLI and the TUI.
// Services take an explicit storage.Provider and return plain (T, error)
// results whose errors classify with the sentinels in internal/errors.
package service

import (
	"time"

	apperr "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/validation"
)

// Scheduler keeps reminder schedules in step with habit changes.
type Scheduler interface {
	Schedule(h models.Habit, n models.HabitNotification) error
	Cancel(habitID string)
}

type noopScheduler struct{}

func (noopScheduler) Schedule(models.Habit, models.HabitNotification) error { return nil }
func (noopScheduler) Cancel(string)                                        {}

// base carries what every service needs.
type base struct {
	store     storage.Provider
	validator *validation.Validator
	now       func() time.Time
}

func newBase(store storage.Provider, v *validation.Validator) base {
	if v == nil {
		v = validation.New()
	}
	return base{store: store, validator: v, now: time.Now}
}

// clock returns the current time in the configured timezone.
func (b base) clock() (time.Time, models.Settings, error) {
	settings, err := b.store.GetSettings()
	if err != nil {
		return time.Time{}, models.Settings{}, err
	}
	return b.now().In(utils.LocationFromSettings(settings)), settings, nil
}

func (b base) validate(v any) error {
	return apperr.Wrap(apperr.ErrInvalid, b.validator.Validate(v))
}

// resolveHabit looks a habit up by ID first and then by title.
func (b base) resolveHabit(ref string) (models.Habit, error) {
	if ref == "" {
		return models.Habit{}, apperr.Wrapf(apperr.ErrInvalid, "habit is required")
	}
	h, err := b.store.GetHabit(ref)
	if err == nil || !apperr.Is(err, apperr.ErrNotFound) {
		return h, err
	}
	return b.store.GetHabitByTitle(ref)
}

// dayOf parses an optional YYYY-MM-DD date; empty means today.
func dayOf(date string, now time.Time) (time.Time, error) {
	if date == "" {
		return utils.StartOfDay(now), nil
	}
	d, err := utils.ParseDateInLocation(date, now.Location())
	if err != nil {
		return time.Time{}, apperr.Wrapf(apperr.ErrInvalid, "date %q must be in YYYY-MM-DD format", date)
	}
	return d, nil
}
