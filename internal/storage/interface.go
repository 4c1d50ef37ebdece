package storage

import (
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

// Provider is the persistence boundary shared by the SQLite and PostgreSQL stores.
// Lookups that miss return an error matching errors.ErrNotFound; backend
// failures match errors.ErrStore.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByTitle(title string) (models.Habit, error)
	GetAllHabits(includeArchived bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	ArchiveHabit(id string) error
	UnarchiveHabit(id string) error
	// DeleteHabit removes the habit together with its records and notification.
	DeleteHabit(id string) error

	// Records. Ranges are half-open [from, to); a zero bound is unbounded.
	AddRecord(models.HabitRecord) error
	GetRecord(id string) (models.HabitRecord, error)
	UpdateRecord(models.HabitRecord) error
	DeleteRecord(id string) error
	GetRecordsForHabit(habitID string, from, to time.Time) ([]models.HabitRecord, error)
	GetRecordsInRange(from, to time.Time) ([]models.HabitRecord, error)
	GetAllRecords() ([]models.HabitRecord, error)

	// Notifications, one per habit
	SaveNotification(models.HabitNotification) error
	GetNotification(habitID string) (models.HabitNotification, error)
	GetAllNotifications() ([]models.HabitNotification, error)
	DeleteNotification(habitID string) error
	MarkNotificationSent(habitID string, at time.Time) error

	// Utils
	GetConfigPath() string
}
