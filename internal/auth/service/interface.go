// Package service provides the technical services behind authentication: signing and
// verifying session and refresh tokens, and hashing account passwords.
package service

import (
	authDomain "github.com/allisson/wemakepass/internal/auth/domain"
)

// TokenCodec mints and verifies the two token kinds.
type TokenCodec interface {
	// MintSession issues a short-lived session token for userID.
	MintSession(userID string) (string, error)

	// MintRefresh issues a long-lived refresh token. Refresh tokens carry no subject; they
	// are bound to an identity only through the credential store.
	MintRefresh() (string, error)

	// Verify checks signature and expiry of any token this codec issued.
	Verify(token string) authDomain.VerifyResult

	// VerifySession is Verify restricted to session tokens with a subject.
	VerifySession(token string) authDomain.VerifyResult

	// VerifyRefresh is Verify restricted to refresh tokens.
	VerifyRefresh(token string) authDomain.VerifyResult

	// ParseSubject returns the subject of a verified session token, or ErrTokenParse.
	ParseSubject(token string) (string, error)
}

// PasswordService hashes and verifies account passwords.
type PasswordService interface {
	// Hash hashes a plain text password with Argon2id.
	Hash(password string) (string, error)

	// Verify compares a plain password against an Argon2id or legacy bcrypt hash.
	Verify(password, hashed string) bool

	// NeedsRehash reports whether hashed uses a legacy algorithm.
	NeedsRehash(hashed string) bool
}
