// Package auth issues and checks session tokens and signs users in, either
// with Google or with an email and password.
package auth

import (
	"context"

	"github.com/mmynk/expensegenie/internal/models"
)

// Authenticator is implemented by credential-based sign-in methods.
// Google sign-in is a redirect flow and has its own type, GoogleAuthenticator.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}

var _ Authenticator = (*PasswordAuthenticator)(nil)
