package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/allisson/wemakepass/internal/auth/domain"
	cryptoDomain "github.com/allisson/wemakepass/internal/crypto/domain"
)

var errUnsupportedAlgorithm = errors.New("unsupported signing algorithm")

// tokenClaims is the claim set of both token kinds. Refresh tokens leave Subject empty.
type tokenClaims struct {
	jwt.RegisteredClaims
}

// TokenCodecOption configures a tokenCodec.
type TokenCodecOption func(*tokenCodec)

// WithClock replaces the wall clock used to stamp and validate tokens.
func WithClock(now func() time.Time) TokenCodecOption {
	return func(c *tokenCodec) {
		c.now = now
	}
}

// WithSessionTTL overrides the session token lifetime.
func WithSessionTTL(ttl time.Duration) TokenCodecOption {
	return func(c *tokenCodec) {
		if ttl > 0 {
			c.sessionTTL = ttl
		}
	}
}

// WithRefreshTTL overrides the refresh token lifetime.
func WithRefreshTTL(ttl time.Duration) TokenCodecOption {
	return func(c *tokenCodec) {
		if ttl > 0 {
			c.refreshTTL = ttl
		}
	}
}

// tokenCodec implements TokenCodec with HS256 JWTs.
type tokenCodec struct {
	signingKey []byte
	sessionTTL time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenCodec creates a TokenCodec signing with the HMAC key from keys.
func NewTokenCodec(keys *cryptoDomain.KeyMaterial, opts ...TokenCodecOption) TokenCodec {
	c := &tokenCodec{
		signingKey: keys.SigningKey(),
		sessionTTL: authDomain.DefaultSessionTokenTTL,
		refreshTTL: authDomain.DefaultRefreshTokenTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MintSession issues a session token whose subject is userID.
func (c *tokenCodec) MintSession(userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("session token requires a subject")
	}
	return c.mint(authDomain.SessionToken, userID, c.sessionTTL)
}

// MintRefresh issues a refresh token. It carries no subject.
func (c *tokenCodec) MintRefresh() (string, error) {
	return c.mint(authDomain.RefreshToken, "", c.refreshTTL)
}

func (c *tokenCodec) mint(kind authDomain.TokenKind, subject string, ttl time.Duration) (string, error) {
	jti, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate token id: %w", err)
	}

	now := c.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        jti.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Audience:  jwt.ClaimStrings{string(kind)},
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}
	return signed, nil
}

// Verify checks signature then claims, without constraining the token kind.
func (c *tokenCodec) Verify(token string) authDomain.VerifyResult {
	return c.verify(token, "")
}

// VerifySession verifies a session token. A verified session token without a subject is
// reported as malformed.
func (c *tokenCodec) VerifySession(token string) authDomain.VerifyResult {
	result := c.verify(token, authDomain.SessionToken)
	if result.OK() && result.Subject == "" {
		return authDomain.VerifyResult{
			Failure: authDomain.FailureMalformed,
			Err:     jwt.ErrTokenRequiredClaimMissing,
		}
	}
	return result
}

// VerifyRefresh verifies a refresh token.
func (c *tokenCodec) VerifyRefresh(token string) authDomain.VerifyResult {
	return c.verify(token, authDomain.RefreshToken)
}

// ParseSubject returns the subject of a verified session token.
func (c *tokenCodec) ParseSubject(token string) (string, error) {
	result := c.VerifySession(token)
	if !result.OK() {
		return "", fmt.Errorf("%w: %s: %v", authDomain.ErrTokenParse, result.Failure, result.Err)
	}
	return result.Subject, nil
}

func (c *tokenCodec) verify(token string, kind authDomain.TokenKind) authDomain.VerifyResult {
	opts := []jwt.ParserOption{
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	}
	if kind != "" {
		opts = append(opts, jwt.WithAudience(string(kind)))
	}

	claims := &tokenClaims{}
	_, err := jwt.NewParser(opts...).ParseWithClaims(token, claims, c.keyFunc)
	if err != nil {
		return authDomain.VerifyResult{Failure: classify(err), Err: err}
	}

	result := authDomain.VerifyResult{
		Subject: claims.Subject,
		TokenID: claims.ID,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}
	return result
}

// keyFunc accepts HS256 only; any other algorithm, "none" included, is rejected before
// the signature is checked.
func (c *tokenCodec) keyFunc(token *jwt.Token) (any, error) {
	if token.Method == nil || token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("%w: %v", errUnsupportedAlgorithm, token.Header["alg"])
	}
	return c.signingKey, nil
}

// classify maps a parser error onto a VerifyFailure. The parser verifies the signature
// before any claim, so an expired token with a bad signature is never reported as expired.
func classify(err error) authDomain.VerifyFailure {
	switch {
	case errors.Is(err, errUnsupportedAlgorithm), errors.Is(err, jwt.ErrTokenUnverifiable):
		return authDomain.FailureUnsupported
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return authDomain.FailureBadSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return authDomain.FailureMalformed
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return authDomain.FailureUnsupported
	case errors.Is(err, jwt.ErrTokenExpired):
		return authDomain.FailureExpired
	default:
		return authDomain.FailureMalformed
	}
}
