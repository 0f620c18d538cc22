// Package domain defines the credential domain: session and refresh tokens, the stored
// credential record, the request-scoped authenticated identity and the closed set of
// authentication error codes clients can observe.
package domain

import "time"

const (
	// DefaultSessionTokenTTL is the lifetime of an access token.
	DefaultSessionTokenTTL = 20 * time.Minute

	// DefaultRefreshTokenTTL is the lifetime of a refresh token.
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
)

// TokenKind distinguishes session tokens from refresh tokens. It is carried in the
// audience claim so one kind can never be accepted in place of the other.
type TokenKind string

const (
	// SessionToken is the short-lived access token presented as a bearer credential.
	SessionToken TokenKind = "wmp:session"

	// RefreshToken is the long-lived credential exchanged for a new token pair.
	RefreshToken TokenKind = "wmp:refresh"
)
