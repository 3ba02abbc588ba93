package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"teachtime/internal/models"
)

// PushConfig holds settings for the push gateway.
type PushConfig struct {
	// BaseURL is the full send endpoint; tests point it at a local server.
	BaseURL   string
	ServerKey string
	SiteURL   string
	Timeout   time.Duration
}

// pushNotification is the visible part of the push payload.
type pushNotification struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	Icon        string `json:"icon"`
	ClickAction string `json:"click_action"`
}

// pushData is the data payload delivered to the client app.
type pushData struct {
	URL       string `json:"url"`
	TaskCount string `json:"task_count"`
}

// pushRequest is the typed gateway payload, validated before the call.
type pushRequest struct {
	To           string           `json:"to"`
	Notification pushNotification `json:"notification"`
	Data         pushData         `json:"data"`
}

func (r pushRequest) validate() error {
	if r.To == "" {
		return ErrNoDeviceToken
	}
	return nil
}

// PushClient delivers reminders through a push gateway with a key-based
// auth header. The gateway reports success with 200 OK.
type PushClient struct {
	cfg    PushConfig
	http   *http.Client
	logger *zerolog.Logger
}

// NewPushClient creates a push channel client.
func NewPushClient(cfg PushConfig, logger *zerolog.Logger) *PushClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://fcm.googleapis.com/fcm/send"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &PushClient{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Send posts the notification payload to the push gateway. A user without a
// registered device token fails fast, before any network call.
func (c *PushClient) Send(ctx context.Context, user models.User, prefs models.NotificationPreferences, msg *Message) error {
	payload := pushRequest{
		To: prefs.DeviceToken,
		Notification: pushNotification{
			Title:       msg.PushTitle,
			Body:        msg.PushBody,
			Icon:        "/static/icon-192x192.png",
			ClickAction: c.cfg.SiteURL,
		},
		Data: pushData{
			URL:       c.cfg.SiteURL,
			TaskCount: strconv.Itoa(msg.PendingCount),
		},
	}
	if err := payload.validate(); err != nil {
		return fmt.Errorf("push to %s: %w", user.Username, err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Authorization", "key="+c.cfg.ServerKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("push gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		diag, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("push gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(diag)))
	}

	if c.logger != nil {
		c.logger.Info().Str("user", user.Username).Msg("push reminder sent")
	}
	return nil
}
