package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mmynk/expensegenie/internal/models"
	"github.com/mmynk/expensegenie/internal/storage"
)

const userColumns = "id, email, display_name, password_hash, google_subject, created_at, updated_at"

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, display_name, password_hash, google_subject, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.DisplayName,
		user.PasswordHash,
		user.GoogleSubject,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("user %s: %w", user.Email, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email = ?", email)
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id = ?", id)
}

// GetUserByGoogleSubject retrieves a user by their Google account id.
func (s *SQLiteStore) GetUserByGoogleSubject(ctx context.Context, subject string) (*models.User, error) {
	if subject == "" {
		return nil, nil
	}
	return s.getUser(ctx, "google_subject = ?", subject)
}

func (s *SQLiteStore) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE " + where

	user := &models.User{}
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&user.GoogleSubject,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // User not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// LinkGoogleSubject attaches a Google account to an existing user.
func (s *SQLiteStore) LinkGoogleSubject(ctx context.Context, userID, subject string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET google_subject = ?, updated_at = strftime('%s','now') WHERE id = ?",
		subject, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to link google account: %w", err)
	}
	return affectedOrNotFound(res, "user", userID)
}

// GetUserData returns the user's participant roster and sync marker.
func (s *SQLiteStore) GetUserData(ctx context.Context, userID string) (*models.UserData, error) {
	data := &models.UserData{}
	err := s.db.QueryRowContext(ctx,
		"SELECT last_data_update FROM users WHERE id = ?", userID,
	).Scan(&data.LastUpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", userID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user data: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM user_participants WHERE user_id = ? ORDER BY position",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	data.Participants, err = scanNames(rows)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// AddParticipant appends a name to the user's roster.
func (s *SQLiteStore) AddParticipant(ctx context.Context, userID, name string, updatedAt int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO user_participants (user_id, name, position)
		 SELECT ?, ?, COALESCE(MAX(position), -1) + 1 FROM user_participants WHERE user_id = ?
		 ON CONFLICT (user_id, name) DO NOTHING`,
		userID, name, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("participant %q: %w", name, storage.ErrAlreadyExists)
	}
	if err := touchUserData(ctx, tx, userID, updatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RemoveParticipant deletes a name from the user's roster. Sessions keep
// their own copy of the roster and are not touched.
func (s *SQLiteStore) RemoveParticipant(ctx context.Context, userID, name string, updatedAt int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM user_participants WHERE user_id = ? AND name = ?", userID, name,
	)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	if err := affectedOrNotFound(res, "participant", name); err != nil {
		return err
	}
	if err := touchUserData(ctx, tx, userID, updatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
