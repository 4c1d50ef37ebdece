package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/constants"
	apperr "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/validation"
)

// CompleteInput describes a completion. Date defaults to today and At to
// the current time (or noon for past days).
type CompleteInput struct {
	Date        string `json:"date" validate:"omitempty,dateformat"`
	At          string `json:"at" validate:"omitempty,hhmm"`
	DurationMin int    `json:"duration" validate:"gte=0,lte=1440"`
	Note        string `json:"note" validate:"max=280"`
}

// RecordUpdate changes the fields that are set.
type RecordUpdate struct {
	Date        *string `json:"date" validate:"omitempty,dateformat"`
	At          *string `json:"at" validate:"omitempty,hhmm"`
	DurationMin *int    `json:"duration" validate:"omitempty,gte=0,lte=1440"`
	Note        *string `json:"note" validate:"omitempty,max=280"`
}

type RecordService struct {
	base
}

func NewRecordService(store storage.Provider, v *validation.Validator) *RecordService {
	return &RecordService{base: newBase(store, v)}
}

// Complete records a completion of the habit. A habit can be completed
// once per calendar day, never in the future and never while archived.
func (s *RecordService) Complete(ref string, in CompleteInput) (models.HabitRecord, models.Habit, error) {
	if err := s.validate(in); err != nil {
		return models.HabitRecord{}, models.Habit{}, err
	}
	h, err := s.resolveHabit(ref)
	if err != nil {
		return models.HabitRecord{}, models.Habit{}, err
	}
	if h.IsArchived() {
		return models.HabitRecord{}, h, apperr.Wrapf(apperr.ErrInvalid, "habit %q is archived", h.Title)
	}

	now, _, err := s.clock()
	if err != nil {
		return models.HabitRecord{}, h, err
	}
	at, err := completionTime(in.Date, in.At, now)
	if err != nil {
		return models.HabitRecord{}, h, err
	}
	if err := s.ensureDayFree(h, at, ""); err != nil {
		return models.HabitRecord{}, h, err
	}

	r := models.HabitRecord{
		ID:          uuid.NewString(),
		HabitID:     h.ID,
		CompletedAt: at,
		DurationMin: in.DurationMin,
		Note:        strings.TrimSpace(in.Note),
	}
	if err := s.store.AddRecord(r); err != nil {
		return models.HabitRecord{}, h, err
	}
	logger.Debug("Recorded completion", "habit", h.Title, "at", at, "duration", r.DurationMin)
	return r, h, nil
}

// completionTime resolves date and time of day against now and rejects
// instants in the future.
func completionTime(date, at string, now time.Time) (time.Time, error) {
	day, err := dayOf(date, now)
	if err != nil {
		return time.Time{}, err
	}
	var t time.Time
	switch {
	case at != "":
		t, err = utils.CombineDateAndTime(day.Format(constants.DateFormat), at, now.Location())
		if err != nil {
			return time.Time{}, apperr.Wrap(apperr.ErrInvalid, err)
		}
	case models.DaysBetween(day, now) == 0:
		t = now.Truncate(time.Minute)
	default:
		t = day.Add(12 * time.Hour)
	}
	if t.After(now) {
		return time.Time{}, apperr.Wrapf(apperr.ErrInvalid, "cannot record a completion in the future (%s)", t.Format(constants.DateFormat+" "+constants.TimeFormat))
	}
	return t, nil
}

func (s *RecordService) ensureDayFree(h models.Habit, at time.Time, selfID string) error {
	day := utils.StartOfDay(at)
	existing, err := s.store.GetRecordsForHabit(h.ID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return err
	}
	for _, r := range existing {
		if r.ID != selfID {
			return apperr.Wrapf(apperr.ErrConflict, "%q is already completed on %s", h.Title, day.Format(constants.DateFormat))
		}
	}
	return nil
}

// Uncomplete removes the completion of the habit on date (empty for today).
func (s *RecordService) Uncomplete(ref, date string) (models.HabitRecord, error) {
	h, err := s.resolveHabit(ref)
	if err != nil {
		return models.HabitRecord{}, err
	}
	now, _, err := s.clock()
	if err != nil {
		return models.HabitRecord{}, err
	}
	day, err := dayOf(date, now)
	if err != nil {
		return models.HabitRecord{}, err
	}
	records, err := s.store.GetRecordsForHabit(h.ID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return models.HabitRecord{}, err
	}
	if len(records) == 0 {
		return models.HabitRecord{}, storage.NotFound("completion", h.Title+" on "+day.Format(constants.DateFormat))
	}
	for _, r := range records {
		if err := s.store.DeleteRecord(r.ID); err != nil {
			return models.HabitRecord{}, err
		}
	}
	return records[0], nil
}

// List returns the habit's records from the last days days (all when days <= 0).
func (s *RecordService) List(ref string, days int) ([]models.HabitRecord, models.Habit, error) {
	h, err := s.resolveHabit(ref)
	if err != nil {
		return nil, models.Habit{}, err
	}
	var from time.Time
	if days > 0 {
		now, _, err := s.clock()
		if err != nil {
			return nil, h, err
		}
		from = utils.StartOfDay(now).AddDate(0, 0, -(days - 1))
	}
	records, err := s.store.GetRecordsForHabit(h.ID, from, time.Time{})
	return records, h, err
}

func (s *RecordService) Get(id string) (models.HabitRecord, error) {
	return s.store.GetRecord(id)
}

// Edit changes a record. Moving it onto a day that already has a completion
// is a conflict.
func (s *RecordService) Edit(id string, upd RecordUpdate) (models.HabitRecord, error) {
	if err := s.validate(upd); err != nil {
		return models.HabitRecord{}, err
	}
	r, err := s.store.GetRecord(id)
	if err != nil {
		return models.HabitRecord{}, err
	}
	h, err := s.store.GetHabit(r.HabitID)
	if err != nil {
		return models.HabitRecord{}, err
	}
	now, _, err := s.clock()
	if err != nil {
		return models.HabitRecord{}, err
	}

	if upd.Date != nil || upd.At != nil {
		current := r.CompletedAt.In(now.Location())
		date := current.Format(constants.DateFormat)
		at := current.Format(constants.TimeFormat)
		if upd.Date != nil {
			date = *upd.Date
		}
		if upd.At != nil {
			at = *upd.At
		}
		t, err := completionTime(date, at, now)
		if err != nil {
			return models.HabitRecord{}, err
		}
		if err := s.ensureDayFree(h, t, r.ID); err != nil {
			return models.HabitRecord{}, err
		}
		r.CompletedAt = t
	}
	if upd.DurationMin != nil {
		r.DurationMin = *upd.DurationMin
	}
	if upd.Note != nil {
		r.Note = strings.TrimSpace(*upd.Note)
	}
	if err := s.store.UpdateRecord(r); err != nil {
		return models.HabitRecord{}, err
	}
	return r, nil
}

func (s *RecordService) Delete(id string) error {
	return s.store.DeleteRecord(id)
}
