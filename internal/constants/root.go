package constants

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SessionState represents the current state of the TUI application
type SessionState int

// RecurrenceType represents how often a habit is due
type RecurrenceType string

// ConfirmationMsg is a message to trigger a confirmation dialog
type ConfirmationMsg struct {
	Message string
	Action  func() tea.Cmd
}

const (
	AppName            = "habitual"
	DefaultKeyringUser = "database-connection"
	SMTPKeyringUser    = "smtp-password"
	DefaultConfigPath  = "~/.config/habitual/habitual.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitual-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "habitual-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.habitual"
	NotifyRequestTimeout   = 2 * time.Second
	DaemonReloadSpec       = "@every 1m"
	ReminderGracePeriod    = 10 * time.Minute

	// Recurrence constants
	RecurrenceDaily  RecurrenceType = "daily"
	RecurrenceWeekly RecurrenceType = "weekly"
	RecurrenceNDays  RecurrenceType = "n_days"

	// Stats constants
	TimeSlotHours   = 2
	TimeSlotCount   = 24 / TimeSlotHours
	DefaultStatDays = 30
)

// Session States
const (
	StateToday SessionState = iota
	StateHabits
	StateStats
	StateAddHabit
	StateConfirmation
	StateConfirmDelete
	StateConfirmArchive
)
