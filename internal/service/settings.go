package service

import (
	"strconv"
	"strings"

	"github.com/julianstephens/habitual/internal/constants"
	apperr "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/validation"
)

type settingsForm struct {
	Timezone        string `json:"timezone" validate:"required,timezone"`
	ReminderChannel string `json:"reminder_channel" validate:"required,oneof=tray email stdout"`
	ReminderEmail   string `json:"reminder_email" validate:"required_if=ReminderChannel email,omitempty,email"`
	WeekStart       string `json:"week_start" validate:"required,oneof=monday sunday"`
	TopN            int    `json:"top_n" validate:"gte=1,lte=20"`
}

// SettingsService reads and changes application settings.
type SettingsService struct {
	base
}

func NewSettingsService(store storage.Provider, v *validation.Validator) *SettingsService {
	return &SettingsService{base: newBase(store, v)}
}

func (s *SettingsService) Get() (models.Settings, error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return models.Settings{}, err
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

// Set changes one setting by key after validating the resulting settings.
func (s *SettingsService) Set(key, value string) (models.Settings, error) {
	settings, err := s.Get()
	if err != nil {
		return models.Settings{}, err
	}
	value = strings.TrimSpace(value)

	switch key {
	case constants.SettingTimezone:
		settings.Timezone = value
	case constants.SettingNotificationsEnabled:
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return models.Settings{}, apperr.Wrapf(apperr.ErrInvalid, "%s must be true or false", key)
		}
		settings.NotificationsEnabled = enabled
	case constants.SettingReminderChannel:
		settings.ReminderChannel = strings.ToLower(value)
	case constants.SettingReminderEmail:
		settings.ReminderEmail = value
	case constants.SettingWeekStart:
		settings.WeekStart = strings.ToLower(value)
	case constants.SettingTopN:
		n, err := strconv.Atoi(value)
		if err != nil {
			return models.Settings{}, apperr.Wrapf(apperr.ErrInvalid, "%s must be a number", key)
		}
		settings.TopN = n
	default:
		return models.Settings{}, apperr.Wrapf(apperr.ErrInvalid, "unknown setting %q (expected one of %s)", key, strings.Join(Keys(), ", "))
	}

	if err := s.validate(settingsForm{
		Timezone:        settings.Timezone,
		ReminderChannel: settings.ReminderChannel,
		ReminderEmail:   settings.ReminderEmail,
		WeekStart:       settings.WeekStart,
		TopN:            settings.TopN,
	}); err != nil {
		return models.Settings{}, err
	}
	if err := s.store.SaveSettings(settings); err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}

// Keys lists the settings that can be changed.
func Keys() []string {
	return []string{
		constants.SettingTimezone,
		constants.SettingNotificationsEnabled,
		constants.SettingReminderChannel,
		constants.SettingReminderEmail,
		constants.SettingWeekStart,
		constants.SettingTopN,
	}
}
