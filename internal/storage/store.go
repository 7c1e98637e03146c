// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/expensegenie/internal/models"
)

var (
	// ErrNotFound is returned when a session, brief or roster entry does not
	// exist or is not visible to the caller.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when an insert collides with an existing row.
	ErrAlreadyExists = errors.New("already exists")
)

// Store defines the interface for all persistence operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	SessionStore
	BriefStore

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists accounts and the per-user participant roster.
// User lookups return (nil, nil) when no user matches.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByGoogleSubject(ctx context.Context, subject string) (*models.User, error)

	// LinkGoogleSubject attaches a Google account to an existing user.
	LinkGoogleSubject(ctx context.Context, userID, subject string) error

	// GetUserData returns the roster (in insertion order) and the sync marker.
	GetUserData(ctx context.Context, userID string) (*models.UserData, error)

	// AddParticipant returns ErrAlreadyExists for a name already on the roster.
	AddParticipant(ctx context.Context, userID, name string, updatedAt int64) error

	// RemoveParticipant returns ErrNotFound for a name not on the roster.
	RemoveParticipant(ctx context.Context, userID, name string, updatedAt int64) error
}

// SessionStore persists expense sessions. Every operation is scoped to the
// owning user; sessions of other users behave as if they did not exist.
// Writes also advance the owner's sync marker to the session's LastUpdatedAt.
type SessionStore interface {
	// CreateSession persists a new session. Missing IDs are generated.
	CreateSession(ctx context.Context, session *models.Session) error

	GetSession(ctx context.Context, userID, sessionID string) (*models.Session, error)

	// ListSessions returns the user's sessions, newest first.
	ListSessions(ctx context.Context, userID string) ([]*models.Session, error)

	// UpdateSession overwrites the session and all of its transactions.
	UpdateSession(ctx context.Context, session *models.Session) error

	DeleteSession(ctx context.Context, userID, sessionID string, updatedAt int64) error
}

// BriefStore persists project brief submissions.
type BriefStore interface {
	CreateBrief(ctx context.Context, brief *models.Brief) error
	GetBrief(ctx context.Context, briefID string) (*models.Brief, error)

	// ListBriefs returns all briefs, newest first.
	ListBriefs(ctx context.Context) ([]*models.Brief, error)

	DeleteBrief(ctx context.Context, briefID string) error

	// ClearBriefs deletes every brief and reports how many were removed.
	ClearBriefs(ctx context.Context) (int, error)
}
