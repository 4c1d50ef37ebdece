package models

// Settings represents application-wide settings
type Settings struct {
	Timezone             string `json:"timezone"`              // IANA timezone name, or "Local" for system timezone
	NotificationsEnabled bool   `json:"notifications_enabled"` // whether reminders are delivered
	ReminderChannel      string `json:"reminder_channel"`      // tray, email or stdout
	ReminderEmail        string `json:"reminder_email"`        // recipient for the email channel
	WeekStart            string `json:"week_start"`            // monday or sunday
	TopN                 int    `json:"top_n"`                 // default ranking size for stats
}
