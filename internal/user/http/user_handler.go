// Package http provides HTTP handlers for user-related operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/wemakepass/internal/auth/domain"
	authHTTP "github.com/allisson/wemakepass/internal/auth/http"
	"github.com/allisson/wemakepass/internal/httputil"
	"github.com/allisson/wemakepass/internal/user/http/dto"
	"github.com/allisson/wemakepass/internal/user/usecase"
	customValidation "github.com/allisson/wemakepass/internal/validation"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userUseCase usecase.UseCase
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userUseCase usecase.UseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

// GetProfileHandler returns the caller's encrypted profile.
// GET /api/user - Requires an authenticated, non-withdrawn account.
func (h *UserHandler) GetProfileHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c,
			authDomain.NewAuthError(authDomain.InvalidAccessToken, "no identity in context"),
			h.logger)
		return
	}

	profile, err := h.userUseCase.GetProfile(c.Request.Context(), identity.UserID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileResponse(profile))
}

// PasswordAuthHandler verifies the caller's current password.
// POST /api/user/password-auth - Requires an authenticated, non-withdrawn account.
// Returns 200 OK with an empty object, or PASSWORD_MISMATCH.
func (h *UserHandler) PasswordAuthHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c,
			authDomain.NewAuthError(authDomain.InvalidAccessToken, "no identity in context"),
			h.logger)
		return
	}

	var req dto.PasswordAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, authDomain.WrapAuthError(
			authDomain.AESDecryptionError,
			customValidation.WrapValidationError(err),
			"password auth request rejected",
		), h.logger)
		return
	}

	if err := h.userUseCase.VerifyCurrentPassword(c.Request.Context(), identity.UserID, req.Password); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
