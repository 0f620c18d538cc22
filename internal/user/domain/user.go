// Package domain defines the account entity the credential layer authenticates against.
package domain

import (
	"time"

	"github.com/allisson/wemakepass/internal/errors"
)

const (
	// RoleUser is the default role assigned to new accounts.
	RoleUser = "USER"

	// RoleAdmin marks administrator accounts.
	RoleAdmin = "ADMIN"
)

// Account represents a user account. ID is the login identifier chosen by the user.
type Account struct {
	ID           string
	PasswordHash string
	Email        string
	Nickname     string
	Role         string
	Certified    bool
	RegisteredAt time.Time
	WithdrawnAt  *time.Time
}

// Withdrawn reports whether the account has been closed.
func (a *Account) Withdrawn() bool {
	return a.WithdrawnAt != nil
}

// Domain-specific errors for account operations.
var (
	// ErrAccountNotFound indicates the requested account does not exist.
	ErrAccountNotFound = errors.Wrap(errors.ErrNotFound, "account not found")

	// ErrAccountAlreadyExists indicates an account with the same id already exists.
	ErrAccountAlreadyExists = errors.Wrap(errors.ErrConflict, "account already exists")

	// ErrInvalidEmail indicates the email format is invalid.
	ErrInvalidEmail = errors.Wrap(errors.ErrInvalidInput, "invalid email format")
)
