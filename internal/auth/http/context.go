// Package http provides HTTP middleware and handlers for authentication.
package http

import (
	"context"

	authDomain "github.com/allisson/wemakepass/internal/auth/domain"
)

// identityKey is a context key type for storing the authenticated identity.
type identityKey struct{}

// authFailureKey is a context key type for storing why authentication failed.
type authFailureKey struct{}

// WithIdentity stores an authenticated identity in the context.
// This is called by AuthenticationMiddleware after the session token verified.
func WithIdentity(ctx context.Context, identity *authDomain.AuthenticatedIdentity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// GetIdentity retrieves the authenticated identity from the context.
// Returns (identity, true) if present, or (nil, false) if the request is anonymous.
func GetIdentity(ctx context.Context) (*authDomain.AuthenticatedIdentity, bool) {
	identity, ok := ctx.Value(identityKey{}).(*authDomain.AuthenticatedIdentity)
	return identity, ok && identity != nil
}

// WithAuthFailure stores the error that made authentication fail. RequireAuth turns it
// into the response on protected routes.
func WithAuthFailure(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, authFailureKey{}, err)
}

// GetAuthFailure retrieves the authentication failure from the context, if any.
func GetAuthFailure(ctx context.Context) (error, bool) {
	err, ok := ctx.Value(authFailureKey{}).(error)
	return err, ok && err != nil
}
