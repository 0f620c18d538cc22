package domain

import (
	"time"

	"github.com/allisson/wemakepass/internal/errors"
)

// VerifyFailure tags why a token failed verification.
type VerifyFailure int

const (
	// FailureNone means the token verified.
	FailureNone VerifyFailure = iota
	// FailureExpired means the signature is valid but the token is past its expiry.
	FailureExpired
	// FailureBadSignature means the signature does not match the signing key.
	FailureBadSignature
	// FailureMalformed means the token is not structurally a signed token with the
	// required claims.
	FailureMalformed
	// FailureUnsupported means the token uses an algorithm or kind this service never issues.
	FailureUnsupported
)

func (f VerifyFailure) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureExpired:
		return "expired"
	case FailureBadSignature:
		return "bad_signature"
	case FailureMalformed:
		return "malformed"
	case FailureUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// VerifyResult is the outcome of verifying a token. Exactly one of the two shapes holds:
// Failure is FailureNone and the claims are populated, or Failure names the reason and
// Err carries the underlying parser error.
type VerifyResult struct {
	Subject   string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Failure   VerifyFailure
	Err       error
}

// OK reports whether the token verified.
func (r VerifyResult) OK() bool {
	return r.Failure == FailureNone
}

// TokenPair is what login and reissue hand back to the client. RefreshToken is
// envelope-encrypted.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// ErrTokenParse is returned when a subject is requested from a token that does not verify.
var ErrTokenParse = errors.Wrap(errors.ErrUnauthorized, "token parse failed")
