package notifier

import (
	"crypto/tls"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/logger"
)

type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

var newDialer = func(cfg config.SMTP) mailDialer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	// port 465 speaks implicit TLS, everything else negotiates STARTTLS
	d.SSL = cfg.Port == 465
	d.TLSConfig = &tls.Config{ServerName: cfg.Host, InsecureSkipVerify: cfg.Insecure}
	return d
}

// EmailNotifier mails reminders through SMTP.
type EmailNotifier struct {
	cfg config.SMTP
	to  string
}

// NewEmail builds an email sender. The SMTP password comes from the
// environment, falling back to the OS keyring.
func NewEmail(cfg config.SMTP, to string) (*EmailNotifier, error) {
	if !cfg.Enabled() {
		return nil, errors.New("email reminders need HABITUAL_SMTP_HOST and HABITUAL_SMTP_FROM")
	}
	if to == "" {
		return nil, errors.New("email reminders need a recipient (settings --reminder-email)")
	}
	if cfg.Password == "" && cfg.Username != "" {
		password, err := keyring.GetSMTPPassword()
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			logger.Warn("Could not read SMTP password from keyring", "error", err)
		}
		cfg.Password = password
	}
	return &EmailNotifier{cfg: cfg, to: to}, nil
}

func (n *EmailNotifier) Name() string { return constants.ChannelEmail }

func (n *EmailNotifier) Notify(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", n.to)
	m.SetHeader("Subject", fmt.Sprintf("Reminder: %s", msg.Title))
	body := msg.Body
	if body == "" {
		body = fmt.Sprintf("Time for %s.", msg.Title)
	}
	m.SetBody("text/plain", body)

	if err := newDialer(n.cfg).DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
