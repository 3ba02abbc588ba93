package database

import (
	"context"
	"time"

	"teachtime/internal/models"
)

// AppendReminderLog writes one immutable audit record for a dispatch attempt.
func (db *DB) AppendReminderLog(ctx context.Context, entry *models.ReminderLog) error {
	if entry.SentAt.IsZero() {
		entry.SentAt = time.Now()
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO reminder_logs (user_id, channel, success, error_message, sent_at)
		VALUES (?, ?, ?, ?, ?)`,
		entry.UserID, string(entry.Channel), entry.Success, entry.ErrorMessage, entry.SentAt)
	if err != nil {
		return err
	}
	entry.ID, err = res.LastInsertId()
	return err
}

// ListReminderLogs returns a user's reminder history, newest first.
func (db *DB) ListReminderLogs(ctx context.Context, userID int64, limit int) ([]models.ReminderLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, channel, success, error_message, sent_at
		FROM reminder_logs
		WHERE user_id = ?
		ORDER BY sent_at DESC, id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.ReminderLog
	for rows.Next() {
		var l models.ReminderLog
		var channel string
		if err := rows.Scan(&l.ID, &l.UserID, &channel, &l.Success, &l.ErrorMessage, &l.SentAt); err != nil {
			return nil, err
		}
		l.Channel = models.Channel(channel)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// AllReminderLogs returns every audit record, newest first, for export.
func (db *DB) AllReminderLogs(ctx context.Context) ([]models.ReminderLog, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, channel, success, error_message, sent_at
		FROM reminder_logs
		ORDER BY sent_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.ReminderLog
	for rows.Next() {
		var l models.ReminderLog
		var channel string
		if err := rows.Scan(&l.ID, &l.UserID, &channel, &l.Success, &l.ErrorMessage, &l.SentAt); err != nil {
			return nil, err
		}
		l.Channel = models.Channel(channel)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
