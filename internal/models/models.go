package models

import (
	"fmt"
	"time"
)

// Channel is a notification delivery mechanism.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
)

// Channels lists every supported channel in dispatch order.
var Channels = []Channel{ChannelEmail, ChannelSMS, ChannelPush}

// ParseChannel validates a channel name from user input.
func ParseChannel(s string) (Channel, error) {
	switch Channel(s) {
	case ChannelEmail, ChannelSMS, ChannelPush:
		return Channel(s), nil
	}
	return "", fmt.Errorf("unknown channel %q", s)
}

// Task priorities.
const (
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
	PriorityFlexible = "flexible"
)

// Task categories.
const (
	CategoryChurch   = "church"
	CategoryWeekend  = "weekend"
	CategoryPersonal = "personal"
	CategoryWork     = "work"
)

// ValidPriority reports whether p is a known task priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow, PriorityFlexible:
		return true
	}
	return false
}

// ValidCategory reports whether c is a known task category.
func ValidCategory(c string) bool {
	switch c {
	case CategoryChurch, CategoryWeekend, CategoryPersonal, CategoryWork:
		return true
	}
	return false
}

// User identifies an account. Authentication lives elsewhere; the reminder
// core only reads identity and contact data.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName returns the first name when set, otherwise the username.
func (u User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

// Task is a single to-do item owned by one user.
type Task struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	Priority  string    `json:"priority"`
	Category  string    `json:"category"`
	Completed bool      `json:"completed"`
	DueDate   time.Time `json:"due_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NotificationPreferences stores per-user reminder settings, at most one row
// per user. Missing rows are materialized with defaults on first read.
type NotificationPreferences struct {
	ID           int64        `json:"id"`
	UserID       int64        `json:"user_id"`
	EmailEnabled bool         `json:"email_enabled"`
	SMSEnabled   bool         `json:"sms_enabled"`
	PushEnabled  bool         `json:"push_enabled"`
	PhoneNumber  string       `json:"phone_number,omitempty"`
	DeviceToken  string       `json:"device_token,omitempty"`
	ReminderTime ReminderTime `json:"reminder_time"`
	BufferTime   float64      `json:"buffer_time"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ChannelEnabled reports whether the given channel is switched on.
func (p NotificationPreferences) ChannelEnabled(ch Channel) bool {
	switch ch {
	case ChannelEmail:
		return p.EmailEnabled
	case ChannelSMS:
		return p.SMSEnabled
	case ChannelPush:
		return p.PushEnabled
	}
	return false
}

// ReminderLog is one append-only audit record per dispatch attempt.
type ReminderLog struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Channel      Channel   `json:"channel"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"error_message,omitempty"`
	SentAt       time.Time `json:"sent_at"`
}
