package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"teachtime/internal/models"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestReminderDue(t *testing.T) {
	tests := []struct {
		name         string
		reminderTime models.ReminderTime
		now          time.Time
		want         bool
	}{
		{"exact match", models.ReminderTime{Hour: 8, Minute: 0}, at(8, 0), true},
		{"three minutes late", models.ReminderTime{Hour: 8, Minute: 0}, at(8, 3), true},
		{"five minutes late is inside the window", models.ReminderTime{Hour: 8, Minute: 0}, at(8, 5), true},
		{"six minutes late is outside the window", models.ReminderTime{Hour: 8, Minute: 0}, at(8, 6), false},
		{"five minutes early", models.ReminderTime{Hour: 8, Minute: 5}, at(8, 0), true},
		{"hour boundary does not wrap", models.ReminderTime{Hour: 8, Minute: 58}, at(9, 2), false},
		{"different hour never matches", models.ReminderTime{Hour: 7, Minute: 0}, at(8, 0), false},
		{"end of hour within same hour", models.ReminderTime{Hour: 8, Minute: 58}, at(8, 55), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReminderDue(tt.reminderTime, tt.now, DefaultToleranceMinutes)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDueUsers(t *testing.T) {
	users := []models.User{
		{ID: 1, Username: "alice"},
		{ID: 2, Username: "bob"},
		{ID: 3, Username: "carol"},
	}
	prefs := []models.NotificationPreferences{
		{UserID: 1, ReminderTime: models.ReminderTime{Hour: 8, Minute: 0}},
		{UserID: 2, ReminderTime: models.ReminderTime{Hour: 9, Minute: 0}},
		{UserID: 3, ReminderTime: models.ReminderTime{Hour: 8, Minute: 4}},
	}

	due := DueUsers(users, prefs, at(8, 2), 5)
	assert.Len(t, due, 2)
	assert.Equal(t, "alice", due[0].Username)
	assert.Equal(t, "carol", due[1].Username)
}

func TestDueUsersEmptyInput(t *testing.T) {
	assert.Empty(t, DueUsers(nil, nil, at(8, 0), 5))
}
