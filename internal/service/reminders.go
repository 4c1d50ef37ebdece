package service

import (
	"time"

	"github.com/google/uuid"

	apperr "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/reminder"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/validation"
)

// ReminderView is a habit's reminder with the cron jobs it expands to.
type ReminderView struct {
	Habit        models.Habit
	Notification models.HabitNotification
	Jobs         []reminder.Job
	DueNow       bool
}

type ReminderService struct {
	base
	scheduler Scheduler
}

func NewReminderService(store storage.Provider, v *validation.Validator, scheduler Scheduler) *ReminderService {
	if scheduler == nil {
		scheduler = noopScheduler{}
	}
	return &ReminderService{base: newBase(store, v), scheduler: scheduler}
}

// Set creates or moves the habit's single reminder to hhmm.
func (s *ReminderService) Set(ref, hhmm string) (models.HabitNotification, error) {
	if err := s.validator.Var("time", hhmm, "required,hhmm"); err != nil {
		return models.HabitNotification{}, apperr.Wrap(apperr.ErrInvalid, err)
	}
	h, err := s.resolveHabit(ref)
	if err != nil {
		return models.HabitNotification{}, err
	}

	n := models.HabitNotification{ID: uuid.NewString(), HabitID: h.ID, Time: hhmm, CreatedAt: s.now()}
	existing, err := s.store.GetNotification(h.ID)
	switch {
	case err == nil:
		n.ID, n.CreatedAt = existing.ID, existing.CreatedAt
		if existing.Time == hhmm {
			n.LastSent = existing.LastSent
		}
	case !apperr.Is(err, apperr.ErrNotFound):
		return models.HabitNotification{}, err
	}

	if err := s.store.SaveNotification(n); err != nil {
		return models.HabitNotification{}, err
	}
	if h.IsArchived() {
		return n, nil
	}
	return n, s.scheduler.Schedule(h, n)
}

// Clear removes the habit's reminder and its schedule.
func (s *ReminderService) Clear(ref string) (models.Habit, error) {
	h, err := s.resolveHabit(ref)
	if err != nil {
		return models.Habit{}, err
	}
	if err := s.store.DeleteNotification(h.ID); err != nil {
		return h, err
	}
	s.scheduler.Cancel(h.ID)
	return h, nil
}

// List returns every reminder attached to an existing habit, in habit order.
func (s *ReminderService) List() ([]ReminderView, error) {
	now, _, err := s.clock()
	if err != nil {
		return nil, err
	}
	habits, err := s.store.GetAllHabits(true)
	if err != nil {
		return nil, err
	}
	notifications, err := s.store.GetAllNotifications()
	if err != nil {
		return nil, err
	}
	byHabit := make(map[string]models.HabitNotification, len(notifications))
	for _, n := range notifications {
		byHabit[n.HabitID] = n
	}

	var views []ReminderView
	for _, h := range habits {
		n, ok := byHabit[h.ID]
		if !ok {
			continue
		}
		jobs, err := reminder.Jobs(h, n)
		if err != nil {
			return nil, apperr.Wrap(apperr.ErrInvalid, err)
		}
		views = append(views, ReminderView{
			Habit:        h,
			Notification: n,
			Jobs:         jobs,
			DueNow:       reminder.Due(h, n, now),
		})
	}
	return views, nil
}

// LastSentLabel formats when the reminder last went out.
func (v ReminderView) LastSentLabel(loc *time.Location) string {
	if v.Notification.LastSent == nil {
		return "never"
	}
	return v.Notification.LastSent.In(loc).Format("2006-01-02 15:04")
}
