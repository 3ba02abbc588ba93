package database

import (
	"context"
	"time"

	"teachtime/internal/models"
)

const prefsColumns = `id, user_id, email_enabled, sms_enabled, push_enabled,
	phone_number, device_token, reminder_time, buffer_time, created_at, updated_at`

// GetOrCreatePreferences returns the user's notification preferences,
// inserting the default row first if none exists. The insert uses
// ON CONFLICT DO NOTHING so two concurrent first reads cannot create
// duplicate rows.
func (db *DB) GetOrCreatePreferences(ctx context.Context, userID int64) (*models.NotificationPreferences, error) {
	now := time.Now()
	_, err := db.ExecContext(ctx, `
		INSERT INTO notification_preferences (user_id, created_at, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO NOTHING`, userID, now, now)
	if err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT `+prefsColumns+`
		FROM notification_preferences WHERE user_id = ?`, userID)

	var p models.NotificationPreferences
	var reminderTime string
	err = row.Scan(&p.ID, &p.UserID, &p.EmailEnabled, &p.SMSEnabled, &p.PushEnabled,
		&p.PhoneNumber, &p.DeviceToken, &reminderTime, &p.BufferTime,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.ReminderTime, err = models.ParseReminderTime(reminderTime)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePreferences upserts the user's notification preferences.
func (db *DB) UpdatePreferences(ctx context.Context, p *models.NotificationPreferences) error {
	now := time.Now()
	_, err := db.ExecContext(ctx, `
		INSERT INTO notification_preferences
			(user_id, email_enabled, sms_enabled, push_enabled, phone_number,
			 device_token, reminder_time, buffer_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			email_enabled = excluded.email_enabled,
			sms_enabled = excluded.sms_enabled,
			push_enabled = excluded.push_enabled,
			phone_number = excluded.phone_number,
			device_token = excluded.device_token,
			reminder_time = excluded.reminder_time,
			buffer_time = excluded.buffer_time,
			updated_at = excluded.updated_at`,
		p.UserID, p.EmailEnabled, p.SMSEnabled, p.PushEnabled, p.PhoneNumber,
		p.DeviceToken, p.ReminderTime.String(), p.BufferTime, now, now)
	return err
}

// UpdateBufferTime sets only the buffer_time scheduling-assist value,
// materializing the preferences row first if needed.
func (db *DB) UpdateBufferTime(ctx context.Context, userID int64, hours float64) error {
	if _, err := db.GetOrCreatePreferences(ctx, userID); err != nil {
		return err
	}
	_, err := db.ExecContext(ctx, `
		UPDATE notification_preferences SET buffer_time = ?, updated_at = ?
		WHERE user_id = ?`, hours, time.Now(), userID)
	return err
}

// ListUsersWithPreferences returns every user paired with materialized
// preferences, the input to the due-user selector.
func (db *DB) ListUsersWithPreferences(ctx context.Context) ([]models.User, []models.NotificationPreferences, error) {
	users, err := db.ListUsers(ctx)
	if err != nil {
		return nil, nil, err
	}

	prefs := make([]models.NotificationPreferences, 0, len(users))
	for _, u := range users {
		p, err := db.GetOrCreatePreferences(ctx, u.ID)
		if err != nil {
			return nil, nil, err
		}
		prefs = append(prefs, *p)
	}
	return users, prefs, nil
}
