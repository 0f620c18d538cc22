package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func newRateLimitedRouter(t *testing.T, rps float64, burst int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := gin.New()
	router.POST("/api/user/login", RateLimitMiddleware(ctx, rps, burst, testLogger()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func post(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/user/login", nil)
	req.RemoteAddr = remoteAddr
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	router := newRateLimitedRouter(t, 10, 5)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, post(router, "192.0.2.1:1234").Code)
	}
}

func TestRateLimitMiddleware_BlocksRequestsExceedingLimit(t *testing.T) {
	router := newRateLimitedRouter(t, 0.5, 2)

	assert.Equal(t, http.StatusOK, post(router, "192.0.2.1:1234").Code)
	assert.Equal(t, http.StatusOK, post(router, "192.0.2.1:1234").Code)

	w := post(router, "192.0.2.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", decodeError(t, w).Code)
}

func TestRateLimitMiddleware_IndependentPerIP(t *testing.T) {
	router := newRateLimitedRouter(t, 0.5, 1)

	assert.Equal(t, http.StatusOK, post(router, "192.0.2.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, post(router, "192.0.2.1:1234").Code)
	assert.Equal(t, http.StatusOK, post(router, "198.51.100.7:4321").Code)
}

func TestRateLimiterStore_Sweep(t *testing.T) {
	store := &rateLimiterStore{rps: 1, burst: 1}
	store.getLimiter("192.0.2.1")
	store.getLimiter("192.0.2.2")

	val, _ := store.limiters.Load("192.0.2.1")
	entry := val.(*rateLimiterEntry)
	entry.mu.Lock()
	entry.lastAccess = time.Now().Add(-2 * time.Hour)
	entry.mu.Unlock()

	store.sweep(time.Now().Add(-time.Hour))

	_, stale := store.limiters.Load("192.0.2.1")
	_, fresh := store.limiters.Load("192.0.2.2")
	assert.False(t, stale)
	assert.True(t, fresh)
}

func TestRateLimiterStore_CleanupStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	store := &rateLimiterStore{rps: 1, burst: 1}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.cleanupStale(ctx, 10*time.Millisecond, time.Hour)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup goroutine did not stop")
	}
}
