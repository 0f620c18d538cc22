package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/wemakepass/internal/auth/domain"
	authUseCase "github.com/allisson/wemakepass/internal/auth/usecase"
	"github.com/allisson/wemakepass/internal/httputil"
)

const bearerPrefix = "bearer "

// AuthenticationMiddleware resolves the caller from a Bearer token in the Authorization
// header. It never rejects a request by itself:
//
//   - No Authorization header → the request continues anonymously.
//   - Token verifies → the AuthenticatedIdentity is stored with WithIdentity.
//   - Anything else → the failure is stored with WithAuthFailure for RequireAuth.
//
// The scheme comparison is case-insensitive ("Bearer", "bearer").
//
// Usage:
//
//	router.Use(AuthenticationMiddleware(tokenUseCase, logger))
//	router.GET("/api/user", RequireAuth(logger), AccountStandingGuard(logger), handler)
func AuthenticationMiddleware(tokenUseCase authUseCase.TokenUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			fail(c, authDomain.NewAuthError(authDomain.InvalidAccessToken, "malformed authorization header"))
			return
		}

		token := strings.TrimSpace(authHeader[len(bearerPrefix):])
		if token == "" {
			logger.Debug("authentication failed: empty bearer token")
			fail(c, authDomain.NewAuthError(authDomain.InvalidAccessToken, "empty bearer token"))
			return
		}

		identity, err := tokenUseCase.Authenticate(c.Request.Context(), token)
		if err != nil {
			logger.Debug("authentication failed", slog.Any("error", err))
			fail(c, err)
			return
		}

		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), identity))
		logger.Debug("authentication successful", slog.String("user_id", identity.UserID))

		c.Next()
	}
}

func fail(c *gin.Context, err error) {
	c.Request = c.Request.WithContext(WithAuthFailure(c.Request.Context(), err))
	c.Next()
}

// RequireAuth rejects requests without an authenticated identity. The response uses the
// failure AuthenticationMiddleware recorded, or INVALID_ACCESS_TOKEN when no token was sent.
// It must run after AuthenticationMiddleware.
func RequireAuth(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if _, ok := GetIdentity(ctx); ok {
			c.Next()
			return
		}

		err, ok := GetAuthFailure(ctx)
		if !ok {
			err = authDomain.NewAuthError(authDomain.InvalidAccessToken, "no access token")
		}

		httputil.HandleErrorGin(c, err, logger)
		c.Abort()
	}
}

// AccountStandingGuard rejects withdrawn accounts with WITHDRAW_ACCOUNT. It must run
// after RequireAuth.
func AccountStandingGuard(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c.Request.Context())
		if !ok {
			httputil.HandleErrorGin(c,
				authDomain.NewAuthError(authDomain.InvalidAccessToken, "no identity in context"),
				logger)
			c.Abort()
			return
		}

		if identity.Withdrawn {
			httputil.HandleErrorGin(c,
				authDomain.NewAuthError(authDomain.WithdrawAccount, "user_id="+identity.UserID),
				logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
