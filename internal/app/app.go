// Package app wires the store, services and reminder machinery together.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/notifier"
	"github.com/julianstephens/habitual/internal/reminder"
	"github.com/julianstephens/habitual/internal/service"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/postgres"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/validation"
)

// Container holds one process's store and everything built on it.
type Container struct {
	Config    *config.Config
	Store     storage.Provider
	Validator *validation.Validator
	Scheduler *reminder.Scheduler

	Habits    *service.HabitService
	Records   *service.RecordService
	Reminders *service.ReminderService
	Stats     *service.StatsService
	Settings  *service.SettingsService

	mu         sync.Mutex
	dispatcher *reminder.Dispatcher
	daemon     *reminder.Daemon
}

// New builds the services over store. The reminder sender is created on
// first use so a misconfigured channel only affects delivery.
func New(store storage.Provider, cfg *config.Config) *Container {
	if cfg == nil {
		cfg = &config.Config{}
	}
	c := &Container{
		Config:    cfg,
		Store:     store,
		Validator: validation.New(),
	}
	// idle until a long-running command starts it through Daemon
	c.Scheduler = reminder.NewScheduler(nil, c.fire)
	c.Habits = service.NewHabitService(store, c.Validator, c.Scheduler)
	c.Records = service.NewRecordService(store, c.Validator)
	c.Reminders = service.NewReminderService(store, c.Validator, c.Scheduler)
	c.Stats = service.NewStatsService(store, c.Validator)
	c.Settings = service.NewSettingsService(store, c.Validator)
	return c
}

func (c *Container) fire(habitID string) {
	d, err := c.Dispatcher()
	if err != nil {
		logger.Error("Reminder delivery unavailable", "habit_id", habitID, "error", err)
		return
	}
	d.Fire(habitID)
}

// Dispatcher returns the reminder dispatcher, building the sender for the
// configured channel on first call.
func (c *Container) Dispatcher() (*reminder.Dispatcher, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dispatcher != nil {
		return c.dispatcher, nil
	}
	settings, err := c.Store.GetSettings()
	if err != nil {
		return nil, err
	}
	sender, err := notifier.New(settings, c.Config)
	if err != nil {
		return nil, err
	}
	logger.Debug("Reminder sender ready", "channel", sender.Name())
	c.dispatcher = reminder.NewDispatcher(c.Store, sender)
	return c.dispatcher, nil
}

// Daemon returns the reminder daemon driving c.Scheduler, the scheduler the
// services edit, so changes made in this process apply to the running
// schedule at once. The first call moves the scheduler to the configured
// timezone.
func (c *Container) Daemon() (*reminder.Daemon, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.daemon != nil {
		return c.daemon, nil
	}
	settings, err := c.Store.GetSettings()
	if err != nil {
		return nil, err
	}
	if err := c.Scheduler.SetLocation(utils.LocationFromSettings(settings)); err != nil {
		return nil, err
	}
	c.daemon = reminder.NewDaemon(c.Store, c.Scheduler)
	return c.daemon, nil
}

// OpenStore picks the backend for ref. PostgreSQL URLs and DSNs select the
// PostgreSQL store and must not embed a password; anything else is a SQLite
// path. When ref is the default path, a connection string from
// HABITUAL_DB_CONNECTION or the OS keyring takes precedence.
func OpenStore(ref string, cfg *config.Config) (storage.Provider, error) {
	if ref == "" || ref == constants.DefaultConfigPath {
		if connStr := storedConnString(cfg); connStr != "" {
			logger.Debug("Using stored PostgreSQL connection string")
			return postgres.New(connStr), nil
		}
	}

	if IsPostgres(ref) {
		if _, err := postgres.ValidateConnString(ref); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL connection strings with embedded credentials are not allowed; store it with 'habitual keyring set' or HABITUAL_DB_CONNECTION instead")
			}
			return nil, err
		}
		return postgres.New(ref), nil
	}

	if ref == "" {
		ref = constants.DefaultConfigPath
	}
	path, err := ExpandPath(ref)
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(path), nil
}

func storedConnString(cfg *config.Config) string {
	if cfg != nil && cfg.DBConnection != "" {
		return cfg.DBConnection
	}
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.Debug("Keyring lookup failed", "error", err)
		}
		return ""
	}
	return connStr
}

// IsPostgres reports whether ref is a PostgreSQL URL or key=value DSN.
func IsPostgres(ref string) bool {
	return postgres.IsURL(ref) || strings.Contains(ref, "host=") || strings.Contains(ref, "dbname=")
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
