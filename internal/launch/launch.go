// Package launch runs the start-up bookkeeping shared by every command.
package launch

import (
	"strconv"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	apperr "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

// State describes the launch that just happened.
type State struct {
	First         bool
	FirstLaunchAt time.Time
	LastLaunchAt  time.Time
	Count         int
}

type Manager struct {
	store storage.Provider
	now   func() time.Time
}

func NewManager(store storage.Provider) *Manager {
	return &Manager{store: store, now: time.Now}
}

// Run initializes the store and records the launch. Only a store
// initialization failure is returned; bookkeeping problems are logged.
func (m *Manager) Run() (State, error) {
	if err := m.store.Init(); err != nil {
		return State{}, apperr.Wrap(apperr.ErrStore, err)
	}

	now := m.now().UTC()
	state := State{LastLaunchAt: now}

	first, err := m.store.GetSetting(constants.SettingFirstLaunchAt)
	switch {
	case apperr.Is(err, apperr.ErrNotFound):
		state.First = true
		state.FirstLaunchAt = now
		m.firstLaunch(now)
	case err != nil:
		logger.Warn("Could not read launch history", "error", err)
	default:
		state.FirstLaunchAt, _ = time.Parse(time.RFC3339, first)
	}

	count := 0
	if raw, err := m.store.GetSetting(constants.SettingLaunchCount); err == nil {
		count, _ = strconv.Atoi(raw)
	}
	state.Count = count + 1

	m.set(constants.SettingLastLaunchAt, now.Format(time.RFC3339))
	m.set(constants.SettingLaunchCount, strconv.Itoa(state.Count))
	logger.Debug("Launch recorded", "count", state.Count, "first", state.First)
	return state, nil
}

// firstLaunch writes default settings for anything unset and stamps the
// first launch time.
func (m *Manager) firstLaunch(now time.Time) {
	settings, err := m.store.GetSettings()
	if err != nil && !apperr.Is(err, apperr.ErrNotFound) {
		logger.Warn("Could not read settings on first launch", "error", err)
		return
	}
	if err != nil {
		settings = models.Settings{NotificationsEnabled: constants.DefaultNotificationsEnabled}
	}
	models.ApplyDefaultSettings(&settings)
	if err := m.store.SaveSettings(settings); err != nil {
		logger.Warn("Could not save default settings", "error", err)
	}
	m.set(constants.SettingFirstLaunchAt, now.Format(time.RFC3339))
	logger.Info("First launch", "store", m.store.GetConfigPath())
}

func (m *Manager) set(key, value string) {
	if err := m.store.SetSetting(key, value); err != nil {
		logger.Warn("Could not record launch", "key", key, "error", err)
	}
}
