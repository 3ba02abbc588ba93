package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ReminderTime is a minute-precision time of day stored as "HH:MM".
type ReminderTime struct {
	Hour   int
	Minute int
}

// ParseReminderTime parses "HH:MM" (24-hour clock).
func ParseReminderTime(s string) (ReminderTime, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return ReminderTime{}, fmt.Errorf("invalid reminder time %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return ReminderTime{}, fmt.Errorf("invalid reminder time %q: bad hour", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return ReminderTime{}, fmt.Errorf("invalid reminder time %q: bad minute", s)
	}
	return ReminderTime{Hour: h, Minute: m}, nil
}

// String formats the time as "HH:MM".
func (t ReminderTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MarshalJSON encodes the time as a "HH:MM" string.
func (t ReminderTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

// UnmarshalJSON decodes a "HH:MM" string.
func (t *ReminderTime) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("reminder time must be a string: %w", err)
	}
	parsed, err := ParseReminderTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
