package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/wemakepass/internal/auth/domain"
	"github.com/allisson/wemakepass/internal/metrics"
)

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Login records metrics for login operations.
func (t *tokenUseCaseWithMetrics) Login(
	ctx context.Context,
	encryptedUserID, encryptedPassword string,
) (*authDomain.TokenPair, error) {
	start := time.Now()
	pair, err := t.next.Login(ctx, encryptedUserID, encryptedPassword)
	t.record(ctx, "login", start, err)
	return pair, err
}

// Reissue records metrics for refresh token rotations.
func (t *tokenUseCaseWithMetrics) Reissue(
	ctx context.Context,
	userID, refreshToken string,
) (*authDomain.TokenPair, error) {
	start := time.Now()
	pair, err := t.next.Reissue(ctx, userID, refreshToken)
	t.record(ctx, "reissue", start, err)
	return pair, err
}

// Logout records metrics for logout operations.
func (t *tokenUseCaseWithMetrics) Logout(ctx context.Context, userID string) error {
	start := time.Now()
	err := t.next.Logout(ctx, userID)
	t.record(ctx, "logout", start, err)
	return err
}

// Authenticate records metrics for session token checks.
func (t *tokenUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	sessionToken string,
) (*authDomain.AuthenticatedIdentity, error) {
	start := time.Now()
	identity, err := t.next.Authenticate(ctx, sessionToken)
	t.record(ctx, "authenticate", start, err)
	return identity, err
}

// record labels failures with their auth error code so rejected refresh tokens and
// expired sessions can be told apart on dashboards.
func (t *tokenUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
		if code, ok := authDomain.CodeOf(err); ok {
			status = string(code)
		}
	}

	t.metrics.RecordOperation(ctx, "auth", operation, status)
	t.metrics.RecordDuration(ctx, "auth", operation, time.Since(start), status)
}
