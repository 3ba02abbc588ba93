package notify

import (
	"context"
	"errors"
	"time"

	"teachtime/internal/models"
)

// TaskStore provides read-only access to tasks for the reminder core.
type TaskStore interface {
	// ListTasksDueOn returns the user's tasks due on the given calendar date.
	ListTasksDueOn(ctx context.Context, userID int64, date time.Time) ([]models.Task, error)
}

// PreferenceStore provides access to user notification preferences.
type PreferenceStore interface {
	// GetOrCreatePreferences returns preferences for a user, materializing
	// the default row if none exists.
	GetOrCreatePreferences(ctx context.Context, userID int64) (*models.NotificationPreferences, error)

	// ListUsersWithPreferences returns every user paired with preferences.
	ListUsersWithPreferences(ctx context.Context) ([]models.User, []models.NotificationPreferences, error)
}

// LogStore records dispatch attempts. Append-only.
type LogStore interface {
	AppendReminderLog(ctx context.Context, entry *models.ReminderLog) error
}

// Client sends a composed reminder over one channel. A non-nil error means
// the attempt failed; the error text becomes the audit diagnostic. Clients
// make exactly one outbound call, no retries.
type Client interface {
	Send(ctx context.Context, user models.User, prefs models.NotificationPreferences, msg *Message) error
}

// Precondition errors reported before any outbound call is made.
var (
	ErrUnknownChannel = errors.New("unknown channel")
	ErrNoEmailAddress = errors.New("user has no email address")
	ErrNoPhoneNumber  = errors.New("user has no phone number")
	ErrNoDeviceToken  = errors.New("user has no registered device token")
)
