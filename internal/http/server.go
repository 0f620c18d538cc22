// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/wemakepass/internal/auth/http"
	authUseCase "github.com/allisson/wemakepass/internal/auth/usecase"
	"github.com/allisson/wemakepass/internal/metrics"
	userHTTP "github.com/allisson/wemakepass/internal/user/http"
)

// readinessTimeout bounds each dependency check of /ready.
const readinessTimeout = 2 * time.Second

// ReadinessCheck checks one dependency of the server.
type ReadinessCheck func(ctx context.Context) error

// RouterConfig carries the handlers and settings used to build the API router.
type RouterConfig struct {
	TokenHandler *authHTTP.TokenHandler
	UserHandler  *userHTTP.UserHandler
	TokenUseCase authUseCase.TokenUseCase

	MetricsProvider  *metrics.Provider
	MetricsNamespace string

	CORSEnabled      bool
	CORSAllowOrigins string

	RateLimitEnabled        bool
	RateLimitRequestsPerSec float64
	RateLimitBurst          int
}

// Server represents the HTTP server
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
	checks map[string]ReadinessCheck
}

// NewServer creates a new HTTP server. db may be nil, in which case the server never
// reports ready.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		checks: make(map[string]ReadinessCheck),
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// AddReadinessCheck registers an extra dependency check reported by /ready under name.
func (s *Server) AddReadinessCheck(name string, check ReadinessCheck) {
	s.checks[name] = check
}

// SetupRouter builds the gin router with the middleware chain and every API route.
//
// ctx bounds background work started by middleware such as the rate limiter sweeper.
func (s *Server) SetupRouter(ctx context.Context, cfg RouterConfig) {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if cors := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); cors != nil {
		router.Use(cors)
	}

	if cfg.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MetricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	api := router.Group("/api")
	api.Use(authHTTP.AuthenticationMiddleware(cfg.TokenUseCase, s.logger))

	public := []gin.HandlerFunc{}
	if cfg.RateLimitEnabled {
		public = append(public, authHTTP.RateLimitMiddleware(
			ctx,
			cfg.RateLimitRequestsPerSec,
			cfg.RateLimitBurst,
			s.logger,
		))
	}
	api.POST("/user/login", append(public, cfg.TokenHandler.LoginHandler)...)
	api.POST("/jwt/reissue", append(public, cfg.TokenHandler.ReissueHandler)...)

	protected := api.Group("")
	protected.Use(authHTTP.RequireAuth(s.logger), authHTTP.AccountStandingGuard(s.logger))
	{
		protected.GET("/user/logout", cfg.TokenHandler.LogoutHandler)
		protected.GET("/user", cfg.UserHandler.GetProfileHandler)
		protected.POST("/user/password-auth", cfg.UserHandler.PasswordAuthHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready when the database and every registered check respond.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	ready := true
	components := gin.H{}

	if s.db == nil || s.db.PingContext(ctx) != nil {
		ready = false
		components["database"] = "error"
	} else {
		components["database"] = "ok"
	}

	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.String("component", name), slog.Any("error", err))
			ready = false
			components[name] = "error"
			continue
		}
		components[name] = "ok"
	}

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{"status": status, "components": components})
}
