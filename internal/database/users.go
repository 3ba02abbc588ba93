package database

import (
	"context"
	"database/sql"
	"time"

	"teachtime/internal/models"
)

// CreateUser inserts a new user and returns it with the assigned ID.
func (db *DB) CreateUser(ctx context.Context, username, firstName, email string) (*models.User, error) {
	now := time.Now()
	res, err := db.ExecContext(ctx, `
		INSERT INTO users (username, first_name, email, created_at)
		VALUES (?, ?, ?, ?)`,
		username, firstName, email, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.User{ID: id, Username: username, FirstName: firstName, Email: email, CreatedAt: now}, nil
}

// GetUserByID returns a user by ID, or ErrNotFound.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return db.scanUser(db.QueryRowContext(ctx, `
		SELECT id, username, first_name, email, created_at
		FROM users WHERE id = ?`, id))
}

// GetUserByUsername returns a user by username, or ErrNotFound.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return db.scanUser(db.QueryRowContext(ctx, `
		SELECT id, username, first_name, email, created_at
		FROM users WHERE username = ?`, username))
}

// ListUsers returns all users ordered by ID.
func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, username, first_name, email, created_at
		FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.FirstName, &u.Email, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (db *DB) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.Email, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
