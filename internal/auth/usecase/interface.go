// Package usecase defines the credential business logic: login, refresh token rotation,
// logout and per-request authentication.
package usecase

import (
	"context"

	authDomain "github.com/allisson/wemakepass/internal/auth/domain"
	userDomain "github.com/allisson/wemakepass/internal/user/domain"
)

// CredentialRepository stores at most one refresh token per user.
// Implementations must support transaction-aware operations via context propagation.
type CredentialRepository interface {
	// Get retrieves the record for userID. Returns ErrCredentialNotFound if none exists.
	Get(ctx context.Context, userID string) (*authDomain.CredentialRecord, error)

	// Save creates or overwrites the record for record.UserID.
	Save(ctx context.Context, record *authDomain.CredentialRecord) error

	// Replace overwrites the stored token only if it still equals expected. Returns
	// ErrCredentialConflict (or ErrCredentialNotFound) when it does not.
	Replace(ctx context.Context, userID, expected, next string) error

	// Delete removes the record for userID. Deleting a missing record is not an error.
	Delete(ctx context.Context, userID string) error
}

// AccountRepository reads and updates the accounts that log in.
type AccountRepository interface {
	// GetByID returns ErrAccountNotFound when the account does not exist.
	GetByID(ctx context.Context, id string) (*userDomain.Account, error)

	// UpdatePasswordHash replaces the stored password hash.
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}

// AccountStandingLookup fetches the live standing of an account.
type AccountStandingLookup interface {
	LookupStanding(ctx context.Context, userID string) (authDomain.AccountStanding, error)
}

// Cipher encrypts and decrypts values exchanged with clients.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// EventPublisher emits credential lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, event authDomain.CredentialEvent) error
}

// TokenUseCase is the credential surface consumed by the HTTP layer.
type TokenUseCase interface {
	// Login checks the envelope-encrypted user id and password and issues a token pair,
	// replacing any refresh token the user already had.
	Login(ctx context.Context, encryptedUserID, encryptedPassword string) (*authDomain.TokenPair, error)

	// Reissue rotates the refresh token of userID. Every rejection is
	// INVALID_REFRESH_TOKEN.
	Reissue(ctx context.Context, userID, refreshToken string) (*authDomain.TokenPair, error)

	// Logout deletes the user's refresh token. Storage failures are returned; the HTTP
	// handler logs them and still answers 200.
	Logout(ctx context.Context, userID string) error

	// Authenticate verifies a session token and loads the caller's standing.
	Authenticate(ctx context.Context, sessionToken string) (*authDomain.AuthenticatedIdentity, error)
}
