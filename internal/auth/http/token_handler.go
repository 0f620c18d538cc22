package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/wemakepass/internal/auth/domain"
	"github.com/allisson/wemakepass/internal/auth/http/dto"
	authUseCase "github.com/allisson/wemakepass/internal/auth/usecase"
	"github.com/allisson/wemakepass/internal/httputil"
	customValidation "github.com/allisson/wemakepass/internal/validation"
)

// TokenHandler handles HTTP requests for login, refresh token rotation and logout.
type TokenHandler struct {
	tokenUseCase authUseCase.TokenUseCase
	logger       *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(tokenUseCase authUseCase.TokenUseCase, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		tokenUseCase: tokenUseCase,
		logger:       logger,
	}
}

// LoginHandler authenticates an account and issues a token pair.
// POST /api/user/login - No authentication required.
// Returns 200 OK with accessToken and the encrypted refreshToken.
func (h *TokenHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	// Rejected input answers with the same code the use case would give it.
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, authDomain.WrapAuthError(
			authDomain.AESDecryptionError,
			customValidation.WrapValidationError(err),
			"login request rejected",
		), h.logger)
		return
	}

	pair, err := h.tokenUseCase.Login(c.Request.Context(), req.UserID, req.Password)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokenPairToResponse(pair))
}

// ReissueHandler rotates a refresh token.
// POST /api/jwt/reissue - No authentication required; the refresh token is the credential.
// Returns 200 OK with a new token pair.
func (h *TokenHandler) ReissueHandler(c *gin.Context) {
	var req dto.ReissueRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, authDomain.WrapAuthError(
			authDomain.InvalidRefreshToken,
			customValidation.WrapValidationError(err),
			"reissue request rejected",
		), h.logger)
		return
	}

	pair, err := h.tokenUseCase.Reissue(c.Request.Context(), req.UserID, req.RefreshToken)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokenPairToResponse(pair))
}

// LogoutHandler revokes the caller's refresh token.
// GET /api/user/logout - Requires an authenticated, non-withdrawn account.
// Returns 200 OK with an empty object. Store failures are logged only.
func (h *TokenHandler) LogoutHandler(c *gin.Context) {
	identity, ok := GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, authDomain.NewAuthError(authDomain.InvalidAccessToken, "no identity in context"), h.logger)
		return
	}

	if err := h.tokenUseCase.Logout(c.Request.Context(), identity.UserID); err != nil {
		h.logger.Error("failed to revoke refresh token",
			slog.String("user_id", identity.UserID),
			slog.Any("error", err),
		)
	}

	c.JSON(http.StatusOK, gin.H{})
}
