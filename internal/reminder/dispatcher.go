package reminder

import (
	"fmt"
	"strings"
	"time"

	apperr "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/notifier"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

// Delivery records one reminder that went out, or would have in a dry run.
type Delivery struct {
	Habit models.Habit
	At    time.Time
	Err   error
}

// Dispatcher reads reminders from the store and hands them to a sender.
type Dispatcher struct {
	store  storage.Provider
	sender notifier.Sender
	now    func() time.Time
}

func NewDispatcher(store storage.Provider, sender notifier.Sender) *Dispatcher {
	return &Dispatcher{store: store, sender: sender, now: time.Now}
}

// Fire is the cron callback for a habit. Failures are logged, not retried.
func (d *Dispatcher) Fire(habitID string) {
	log := logger.With("habit_id", habitID)
	settings, err := d.store.GetSettings()
	if err != nil {
		log.Error("Reminder skipped, settings unavailable", "error", err)
		return
	}
	if !settings.NotificationsEnabled {
		return
	}
	now := d.now().In(utils.LocationFromSettings(settings))

	h, err := d.store.GetHabit(habitID)
	if err != nil {
		log.Warn("Reminder skipped", "error", err)
		return
	}
	log = log.With("habit", h.Title)
	n, err := d.store.GetNotification(habitID)
	if err != nil {
		log.Warn("Reminder skipped", "error", err)
		return
	}
	if h.IsArchived() || !h.IsScheduled(now) || n.SentOn(now) {
		log.Debug("Reminder not due today")
		return
	}
	if err := d.deliver(h, now); err != nil {
		log.Error("Reminder delivery failed", "error", err)
	}
}

// DispatchDue sends every reminder that is due at the current minute.
// With dryRun set nothing is sent or marked.
func (d *Dispatcher) DispatchDue(dryRun bool) ([]Delivery, error) {
	settings, err := d.store.GetSettings()
	if err != nil {
		return nil, err
	}
	if !settings.NotificationsEnabled {
		logger.Info("Notifications are disabled, nothing to send")
		return nil, nil
	}
	now := d.now().In(utils.LocationFromSettings(settings))

	notifications, err := d.store.GetAllNotifications()
	if err != nil {
		return nil, err
	}

	var out []Delivery
	for _, n := range notifications {
		h, err := d.store.GetHabit(n.HabitID)
		if apperr.Is(err, apperr.ErrNotFound) {
			logger.Warn("Reminder references a missing habit", "habit_id", n.HabitID)
			continue
		}
		if err != nil {
			return out, err
		}
		if !Due(h, n, now) {
			continue
		}
		delivery := Delivery{Habit: h, At: now}
		if !dryRun {
			delivery.Err = d.deliver(h, now)
			if delivery.Err != nil {
				logger.Error("Reminder delivery failed", "habit", h.Title, "error", delivery.Err)
			}
		}
		out = append(out, delivery)
	}
	return out, nil
}

func (d *Dispatcher) deliver(h models.Habit, now time.Time) error {
	if err := d.sender.Notify(MessageFor(h)); err != nil {
		return fmt.Errorf("%s: %w", d.sender.Name(), err)
	}
	logger.Info("Reminder sent", "habit", h.Title, "channel", d.sender.Name())
	return d.store.MarkNotificationSent(h.ID, now)
}

// MessageFor builds the reminder text for a habit.
func MessageFor(h models.Habit) notifier.Message {
	body := fmt.Sprintf("%s habit, %s", h.Category, strings.ToLower(h.Recurrence.String()))
	if h.GoalMinutes != nil {
		body += fmt.Sprintf(", goal %s", utils.FormatMinutes(*h.GoalMinutes))
	}
	return notifier.Message{HabitID: h.ID, Title: h.Title, Body: body}
}
