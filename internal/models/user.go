package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents an account. Accounts are created on first Google sign-in
// or through email/password registration.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique, lower-case).
	Email string

	// DisplayName is shown next to sessions and briefs.
	DisplayName string

	// PasswordHash is the bcrypt hash; empty for Google-only accounts.
	PasswordHash string

	// GoogleSubject is the stable Google account id; empty until the user
	// signs in with Google.
	GoogleSubject string

	CreatedAt int64
	UpdatedAt int64
}

// NewUser builds a user with a fresh ID and timestamps.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        NormalizeEmail(email),
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserData is the per-user state that is not a session: the roster of
// frequent participants and the sync marker.
type UserData struct {
	Participants []string

	// LastUpdatedAt is the Unix timestamp (milliseconds) of the user's last
	// write to participants or sessions. Clients compare it to decide whether
	// their cached copy is current.
	LastUpdatedAt int64
}
