package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"teachtime/internal/models"
)

const taskColumns = `id, user_id, text, priority, category, completed, due_date, created_at, updated_at`

// CreateTask inserts a new task for a user.
func (db *DB) CreateTask(ctx context.Context, t *models.Task) error {
	if !models.ValidPriority(t.Priority) {
		return fmt.Errorf("invalid priority %q", t.Priority)
	}
	if !models.ValidCategory(t.Category) {
		return fmt.Errorf("invalid category %q", t.Category)
	}

	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	res, err := db.ExecContext(ctx, `
		INSERT INTO tasks (user_id, text, priority, category, completed, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Text, t.Priority, t.Category, t.Completed, t.DueDate.Format("2006-01-02"), now, now)
	if err != nil {
		return err
	}
	t.ID, err = res.LastInsertId()
	return err
}

// ToggleTask flips the completed flag and returns the new state.
func (db *DB) ToggleTask(ctx context.Context, userID, taskID int64) (bool, error) {
	res, err := db.ExecContext(ctx, `
		UPDATE tasks SET completed = NOT completed, updated_at = ?
		WHERE id = ? AND user_id = ?`, time.Now(), taskID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, ErrNotFound
	}

	var completed bool
	err = db.QueryRowContext(ctx, `SELECT completed FROM tasks WHERE id = ?`, taskID).Scan(&completed)
	return completed, err
}

// DeleteTask removes a task owned by the user.
func (db *DB) DeleteTask(ctx context.Context, userID, taskID int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, taskID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListTasks returns all of a user's tasks, newest first.
func (db *DB) ListTasks(ctx context.Context, userID int64) ([]models.Task, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE user_id = ?
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

// ListTasksDueOn returns a user's tasks due on the given calendar date,
// oldest first. The reminder core treats this as read-only input.
func (db *DB) ListTasksDueOn(ctx context.Context, userID int64, date time.Time) ([]models.Task, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE user_id = ? AND due_date = ?
		ORDER BY created_at ASC`, userID, date.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func scanTasks(rows *sql.Rows) ([]models.Task, error) {
	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		var due string
		err := rows.Scan(&t.ID, &t.UserID, &t.Text, &t.Priority, &t.Category,
			&t.Completed, &due, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, err
		}
		// due_date is stored as YYYY-MM-DD; some drivers hand back a full
		// timestamp, so trim before parsing.
		if len(due) > 10 {
			due = due[:10]
		}
		t.DueDate, err = time.Parse("2006-01-02", due)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
