package domain

import (
	"fmt"
	"net/http"

	"github.com/allisson/wemakepass/internal/errors"
)

// AuthErrorCode is the client-facing vocabulary for authentication failures. Each code
// has a fixed HTTP status and message; nothing else about a failure reaches the client.
type AuthErrorCode string

const (
	ExpiredAccessToken  AuthErrorCode = "EXPIRED_ACCESS_TOKEN"
	InvalidAccessToken  AuthErrorCode = "INVALID_ACCESS_TOKEN"
	InvalidRefreshToken AuthErrorCode = "INVALID_REFRESH_TOKEN"
	AESEncryptionError  AuthErrorCode = "AES_ENCRYPTION_ERROR"
	AESDecryptionError  AuthErrorCode = "AES_DECRYPTION_ERROR"
	WithdrawAccount     AuthErrorCode = "WITHDRAW_ACCOUNT"

	// Produced by login only.
	UserIDNotFound   AuthErrorCode = "USER_ID_NOT_FOUND"
	PasswordMismatch AuthErrorCode = "PASSWORD_MISMATCH"
	UncertUser       AuthErrorCode = "UNCERT_USER"
)

type codeBinding struct {
	status  int
	message string
	kind    error
}

var codeBindings = map[AuthErrorCode]codeBinding{
	ExpiredAccessToken: {http.StatusUnauthorized, "AccessToken has expired", errors.ErrUnauthorized},
	InvalidAccessToken: {
		http.StatusUnauthorized,
		"Abnormal access, authentication failed",
		errors.ErrUnauthorized,
	},
	InvalidRefreshToken: {
		http.StatusUnauthorized,
		"Invalid refresh token, please log in again",
		errors.ErrUnauthorized,
	},
	AESEncryptionError: {http.StatusUnauthorized, "Data encryption failed", errors.ErrUnauthorized},
	AESDecryptionError: {http.StatusUnauthorized, "Data decryption failed", errors.ErrUnauthorized},
	WithdrawAccount:    {http.StatusBadRequest, "Withdrawn account", errors.ErrForbidden},
	UserIDNotFound:     {http.StatusNotFound, "User ID does not exist", errors.ErrNotFound},
	PasswordMismatch:   {http.StatusBadRequest, "Password does not match", errors.ErrInvalidInput},
	UncertUser:         {http.StatusBadRequest, "Email is not certified", errors.ErrForbidden},
}

// Valid reports whether c belongs to the closed set of codes.
func (c AuthErrorCode) Valid() bool {
	_, ok := codeBindings[c]
	return ok
}

// Status returns the HTTP status code bound to c. Unknown codes map to 401.
func (c AuthErrorCode) Status() int {
	if binding, ok := codeBindings[c]; ok {
		return binding.status
	}
	return http.StatusUnauthorized
}

// Message returns the fixed human readable message bound to c.
func (c AuthErrorCode) Message() string {
	if binding, ok := codeBindings[c]; ok {
		return binding.message
	}
	return codeBindings[InvalidAccessToken].message
}

func (c AuthErrorCode) String() string {
	return string(c)
}

// AuthError is a failure carrying an AuthErrorCode plus an internal diagnostic that is
// logged but never sent to the client.
type AuthError struct {
	Code       AuthErrorCode
	Diagnostic string
	Err        error
}

// NewAuthError creates an AuthError with a diagnostic message.
func NewAuthError(code AuthErrorCode, diagnostic string) *AuthError {
	return &AuthError{Code: code, Diagnostic: diagnostic}
}

// WrapAuthError creates an AuthError that keeps err in the chain.
func WrapAuthError(code AuthErrorCode, err error, diagnostic string) *AuthError {
	return &AuthError{Code: code, Diagnostic: diagnostic, Err: err}
}

func (e *AuthError) Error() string {
	msg := string(e.Code)
	if e.Diagnostic != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Diagnostic)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is matches another AuthError with the same code, or the generic domain error the
// code belongs to (errors.ErrUnauthorized, errors.ErrForbidden, ...).
func (e *AuthError) Is(target error) bool {
	if t, ok := target.(*AuthError); ok {
		return t.Code == e.Code
	}
	if binding, ok := codeBindings[e.Code]; ok {
		return target == binding.kind
	}
	return false
}

// Code sentinels for errors.Is comparisons.
var (
	ErrExpiredAccessToken  = &AuthError{Code: ExpiredAccessToken}
	ErrInvalidAccessToken  = &AuthError{Code: InvalidAccessToken}
	ErrInvalidRefreshToken = &AuthError{Code: InvalidRefreshToken}
	ErrAESEncryption       = &AuthError{Code: AESEncryptionError}
	ErrAESDecryption       = &AuthError{Code: AESDecryptionError}
	ErrWithdrawAccount     = &AuthError{Code: WithdrawAccount}
	ErrUserIDNotFound      = &AuthError{Code: UserIDNotFound}
	ErrPasswordMismatch    = &AuthError{Code: PasswordMismatch}
	ErrUncertUser          = &AuthError{Code: UncertUser}
)

// CodeOf extracts the AuthErrorCode from err, if any.
func CodeOf(err error) (AuthErrorCode, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Code, true
	}
	return "", false
}

// ClassifyAccessFailure collapses a token verification failure into the two access
// token codes a client can act on: expired (try a silent reissue) or invalid (log in).
func ClassifyAccessFailure(failure VerifyFailure) AuthErrorCode {
	if failure == FailureExpired {
		return ExpiredAccessToken
	}
	return InvalidAccessToken
}

// Credential store errors.
var (
	// ErrCredentialNotFound indicates no refresh credential is stored for the identity.
	ErrCredentialNotFound = errors.Wrap(errors.ErrNotFound, "credential not found")

	// ErrCredentialConflict indicates a conditional replace lost against a concurrent writer.
	ErrCredentialConflict = errors.Wrap(errors.ErrConflict, "credential changed concurrently")
)
