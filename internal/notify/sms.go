package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"teachtime/internal/models"
)

// SMSConfig holds credentials for the Twilio-style SMS gateway.
type SMSConfig struct {
	// BaseURL lets tests point the client at a local server.
	BaseURL    string
	AccountSID string
	AuthToken  string
	FromNumber string
	Timeout    time.Duration
}

// smsRequest is the validated form payload for one outbound message.
type smsRequest struct {
	From string
	To   string
	Body string
}

func (r smsRequest) validate() error {
	if r.To == "" {
		return ErrNoPhoneNumber
	}
	if r.From == "" {
		return fmt.Errorf("sms gateway from-number is not configured")
	}
	if r.Body == "" {
		return fmt.Errorf("sms body is empty")
	}
	return nil
}

func (r smsRequest) encode() string {
	form := url.Values{
		"From": {r.From},
		"To":   {r.To},
		"Body": {r.Body},
	}
	return form.Encode()
}

// SMSClient delivers reminders through an SMS gateway using a form-encoded
// POST with HTTP Basic auth. The gateway reports success with 201 Created.
type SMSClient struct {
	cfg    SMSConfig
	http   *http.Client
	logger *zerolog.Logger
}

// NewSMSClient creates an SMS channel client.
func NewSMSClient(cfg SMSConfig, logger *zerolog.Logger) *SMSClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.twilio.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &SMSClient{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Send posts the short reminder text to the gateway. The request payload is
// validated before any network call so a missing phone number fails fast.
func (c *SMSClient) Send(ctx context.Context, user models.User, prefs models.NotificationPreferences, msg *Message) error {
	payload := smsRequest{
		From: c.cfg.FromNumber,
		To:   prefs.PhoneNumber,
		Body: msg.SMSText,
	}
	if err := payload.validate(); err != nil {
		return fmt.Errorf("sms to %s: %w", user.Username, err)
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.AccountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload.encode()))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if c.logger != nil {
		c.logger.Info().Str("to", prefs.PhoneNumber).Msg("sms reminder sent")
	}
	return nil
}
