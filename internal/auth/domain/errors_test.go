package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/wemakepass/internal/errors"
)

func TestAuthErrorCode_StatusAndMessage(t *testing.T) {
	tests := []struct {
		code    AuthErrorCode
		status  int
		message string
	}{
		{ExpiredAccessToken, http.StatusUnauthorized, "AccessToken has expired"},
		{InvalidAccessToken, http.StatusUnauthorized, "Abnormal access, authentication failed"},
		{InvalidRefreshToken, http.StatusUnauthorized, "Invalid refresh token, please log in again"},
		{AESEncryptionError, http.StatusUnauthorized, "Data encryption failed"},
		{AESDecryptionError, http.StatusUnauthorized, "Data decryption failed"},
		{WithdrawAccount, http.StatusBadRequest, "Withdrawn account"},
		{UserIDNotFound, http.StatusNotFound, "User ID does not exist"},
		{PasswordMismatch, http.StatusBadRequest, "Password does not match"},
		{UncertUser, http.StatusBadRequest, "Email is not certified"},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.True(t, tt.code.Valid())
			assert.Equal(t, tt.status, tt.code.Status())
			assert.Equal(t, tt.message, tt.code.Message())
		})
	}
}

func TestAuthErrorCode_Unknown(t *testing.T) {
	code := AuthErrorCode("SOMETHING_ELSE")

	assert.False(t, code.Valid())
	assert.Equal(t, http.StatusUnauthorized, code.Status())
	assert.Equal(t, InvalidAccessToken.Message(), code.Message())
}

func TestAuthError(t *testing.T) {
	t.Run("error string includes code and diagnostic", func(t *testing.T) {
		err := NewAuthError(InvalidRefreshToken, "token info not found (id=alice)")
		assert.Equal(t, "INVALID_REFRESH_TOKEN: token info not found (id=alice)", err.Error())
	})

	t.Run("wrapped cause stays in the chain", func(t *testing.T) {
		cause := errors.New("cipher: bad padding")
		err := WrapAuthError(AESDecryptionError, cause, "decrypt user id")

		assert.True(t, errors.Is(err, cause))
		assert.Contains(t, err.Error(), "cipher: bad padding")
	})

	t.Run("matches code sentinel through wrapping", func(t *testing.T) {
		err := fmt.Errorf("reissue: %w", NewAuthError(InvalidRefreshToken, "mismatch"))

		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
		assert.NotErrorIs(t, err, ErrInvalidAccessToken)
	})

	t.Run("matches generic domain error", func(t *testing.T) {
		assert.ErrorIs(t, NewAuthError(ExpiredAccessToken, ""), apperrors.ErrUnauthorized)
		assert.ErrorIs(t, NewAuthError(WithdrawAccount, ""), apperrors.ErrForbidden)
		assert.ErrorIs(t, NewAuthError(UserIDNotFound, ""), apperrors.ErrNotFound)
		assert.NotErrorIs(t, NewAuthError(WithdrawAccount, ""), apperrors.ErrUnauthorized)
	})
}

func TestCodeOf(t *testing.T) {
	code, ok := CodeOf(fmt.Errorf("wrapped: %w", NewAuthError(WithdrawAccount, "id=bob")))
	require.True(t, ok)
	assert.Equal(t, WithdrawAccount, code)

	_, ok = CodeOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestClassifyAccessFailure(t *testing.T) {
	assert.Equal(t, ExpiredAccessToken, ClassifyAccessFailure(FailureExpired))
	assert.Equal(t, InvalidAccessToken, ClassifyAccessFailure(FailureBadSignature))
	assert.Equal(t, InvalidAccessToken, ClassifyAccessFailure(FailureMalformed))
	assert.Equal(t, InvalidAccessToken, ClassifyAccessFailure(FailureUnsupported))
}

func TestVerifyResult(t *testing.T) {
	assert.True(t, VerifyResult{Subject: "alice"}.OK())
	assert.False(t, VerifyResult{Failure: FailureExpired}.OK())
	assert.Equal(t, "bad_signature", FailureBadSignature.String())
	assert.Equal(t, "unknown", VerifyFailure(42).String())
}

func TestNewAuthenticatedIdentity(t *testing.T) {
	identity := NewAuthenticatedIdentity("alice", AccountStanding{Certified: true, Withdrawn: false})

	assert.Equal(t, "alice", identity.UserID)
	assert.True(t, identity.Certified)
	assert.False(t, identity.Withdrawn)
}
