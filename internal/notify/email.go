package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"teachtime/internal/models"
)

// EmailConfig holds SMTP settings for the email channel.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// mailDialer is the part of gomail.Dialer the client needs; tests stub it.
type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailClient delivers reminders over SMTP.
type EmailClient struct {
	dialer mailDialer
	from   string
	logger *zerolog.Logger
}

// NewEmailClient creates an email channel client from explicit SMTP config.
func NewEmailClient(cfg EmailConfig, logger *zerolog.Logger) *EmailClient {
	return &EmailClient{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

// Send delivers the email reminder. A user without an email address fails
// the precondition check and no connection is attempted.
func (c *EmailClient) Send(ctx context.Context, user models.User, prefs models.NotificationPreferences, msg *Message) error {
	if user.Email == "" {
		return fmt.Errorf("%w: user %s", ErrNoEmailAddress, user.Username)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", c.from)
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.TextBody)
	m.AddAlternative("text/html", msg.HTMLBody)

	if err := c.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", user.Email, err)
	}

	if c.logger != nil {
		c.logger.Info().Str("to", user.Email).Msg("email reminder sent")
	}
	return nil
}
