// Package notifier delivers reminder messages over the configured channel.
package notifier

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

// Message is one reminder ready for delivery.
type Message struct {
	HabitID string
	Title   string
	Body    string
}

func (m Message) String() string {
	if m.Body == "" {
		return m.Title
	}
	return m.Title + ": " + m.Body
}

// Sender delivers a reminder. Implementations do not retry.
type Sender interface {
	Notify(msg Message) error
	Name() string
}

// New returns the sender for the channel chosen in settings.
func New(settings models.Settings, cfg *config.Config) (Sender, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	switch settings.ReminderChannel {
	case constants.ChannelTray, "":
		return NewTray(cfg.TrayDir), nil
	case constants.ChannelEmail:
		return NewEmail(cfg.SMTP, settings.ReminderEmail)
	case constants.ChannelStdout:
		return NewStdout(nil), nil
	default:
		return nil, fmt.Errorf("unknown reminder channel %q", settings.ReminderChannel)
	}
}
