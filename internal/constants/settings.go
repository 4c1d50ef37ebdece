package constants

const (
	// General Settings
	SettingTimezone             = "timezone"
	SettingNotificationsEnabled = "notifications_enabled"
	SettingReminderChannel      = "reminder_channel"
	SettingReminderEmail        = "reminder_email"
	SettingWeekStart            = "week_start"
	SettingTopN                 = "top_n"

	// Launch bookkeeping
	SettingFirstLaunchAt = "first_launch_at"
	SettingLastLaunchAt  = "last_launch_at"
	SettingLaunchCount   = "launch_count"

	// Reminder channels
	ChannelTray   = "tray"
	ChannelEmail  = "email"
	ChannelStdout = "stdout"

	// Week start values
	WeekStartMonday = "monday"
	WeekStartSunday = "sunday"

	// Default Settings Values
	DefaultTimezone             = "Local" // Use system local timezone by default
	DefaultNotificationsEnabled = true
	DefaultReminderChannel      = ChannelTray
	DefaultWeekStart            = WeekStartMonday
	DefaultTopN                 = 3
)
