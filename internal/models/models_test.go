package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChannel(t *testing.T) {
	for _, name := range []string{"email", "sms", "push"} {
		ch, err := ParseChannel(name)
		require.NoError(t, err)
		assert.Equal(t, Channel(name), ch)
	}

	for _, name := range []string{"", "Email", "carrier-pigeon", "EMAIL", "fax"} {
		_, err := ParseChannel(name)
		assert.Error(t, err, "channel %q must be rejected", name)
	}
}

func TestChannelEnabled(t *testing.T) {
	p := NotificationPreferences{EmailEnabled: true, PushEnabled: true}

	assert.True(t, p.ChannelEnabled(ChannelEmail))
	assert.False(t, p.ChannelEnabled(ChannelSMS))
	assert.True(t, p.ChannelEnabled(ChannelPush))
	assert.False(t, p.ChannelEnabled(Channel("fax")))
}

func TestValidPriorityAndCategory(t *testing.T) {
	for _, p := range []string{PriorityHigh, PriorityMedium, PriorityLow, PriorityFlexible} {
		assert.True(t, ValidPriority(p))
	}
	assert.False(t, ValidPriority("urgent"))
	assert.False(t, ValidPriority(""))

	for _, c := range []string{CategoryChurch, CategoryWeekend, CategoryPersonal, CategoryWork} {
		assert.True(t, ValidCategory(c))
	}
	assert.False(t, ValidCategory("hobby"))
}

func TestUserDisplayName(t *testing.T) {
	assert.Equal(t, "Alice", User{Username: "al", FirstName: "Alice"}.DisplayName())
	assert.Equal(t, "al", User{Username: "al"}.DisplayName())
}

func TestParseReminderTime(t *testing.T) {
	tests := []struct {
		in      string
		want    ReminderTime
		wantErr bool
	}{
		{"08:00", ReminderTime{8, 0}, false},
		{"00:00", ReminderTime{0, 0}, false},
		{"23:59", ReminderTime{23, 59}, false},
		{"8:5", ReminderTime{8, 5}, false},
		{"24:00", ReminderTime{}, true},
		{"12:60", ReminderTime{}, true},
		{"-1:00", ReminderTime{}, true},
		{"0800", ReminderTime{}, true},
		{"ab:cd", ReminderTime{}, true},
		{"", ReminderTime{}, true},
	}
	for _, tt := range tests {
		got, err := ParseReminderTime(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestReminderTimeString(t *testing.T) {
	assert.Equal(t, "08:00", ReminderTime{8, 0}.String())
	assert.Equal(t, "23:05", ReminderTime{23, 5}.String())
}

func TestReminderTimeJSON(t *testing.T) {
	data, err := json.Marshal(ReminderTime{9, 30})
	require.NoError(t, err)
	assert.Equal(t, `"09:30"`, string(data))

	var rt ReminderTime
	require.NoError(t, json.Unmarshal([]byte(`"18:45"`), &rt))
	assert.Equal(t, ReminderTime{18, 45}, rt)

	assert.Error(t, json.Unmarshal([]byte(`"25:00"`), &rt))
	assert.Error(t, json.Unmarshal([]byte(`930`), &rt))
}
