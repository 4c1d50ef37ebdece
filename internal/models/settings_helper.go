package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingNotificationsEnabled:
			settings.NotificationsEnabled = value == "true"
		case constants.SettingReminderChannel:
			settings.ReminderChannel = value
		case constants.SettingReminderEmail:
			settings.ReminderEmail = value
		case constants.SettingWeekStart:
			settings.WeekStart = value
		case constants.SettingTopN:
			if _, err := fmt.Sscanf(value, "%d", &settings.TopN); err != nil {
				return Settings{}, fmt.Errorf("parsing top_n: %w", err)
			}
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:             settings.Timezone,
		constants.SettingNotificationsEnabled: fmt.Sprintf("%v", settings.NotificationsEnabled),
		constants.SettingReminderChannel:      settings.ReminderChannel,
		constants.SettingReminderEmail:        settings.ReminderEmail,
		constants.SettingWeekStart:            settings.WeekStart,
		constants.SettingTopN:                 fmt.Sprintf("%d", settings.TopN),
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.ReminderChannel == "" {
		settings.ReminderChannel = constants.DefaultReminderChannel
	}
	if settings.WeekStart == "" {
		settings.WeekStart = constants.DefaultWeekStart
	}
	if settings.TopN == 0 {
		settings.TopN = constants.DefaultTopN
	}
}

// FirstDayOfWeek returns the weekday a week starts on.
func (s Settings) FirstDayOfWeek() time.Weekday {
	if s.WeekStart == constants.WeekStartSunday {
		return time.Sunday
	}
	return time.Monday
}
