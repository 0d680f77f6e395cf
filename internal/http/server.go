// Package http provides the HTTP server, router and shared middleware.
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

	apikeyHTTP "github.com/allisson/apikeys/internal/apikey/http"
	apikeyUseCase "github.com/allisson/apikeys/internal/apikey/usecase"
	authHTTP "github.com/allisson/apikeys/internal/auth/http"
	authService "github.com/allisson/apikeys/internal/auth/service"
	authUseCase "github.com/allisson/apikeys/internal/auth/usecase"
	"github.com/allisson/apikeys/internal/config"
	"github.com/allisson/apikeys/internal/httputil"
	"github.com/allisson/apikeys/internal/metrics"
)

// Server represents the HTTP server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates a new HTTP server. SetupRouter must be called before Start.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// RouterDependencies holds the handlers and collaborators wired into the router.
type RouterDependencies struct {
	TokenHandler        *authHTTP.TokenHandler
	APIKeyHandler       *apikeyHTTP.APIKeyHandler
	ProtectedHandler    *apikeyHTTP.ProtectedHandler
	TokenUseCase        authUseCase.TokenUseCase
	TokenService        authService.TokenService
	VerificationUseCase apikeyUseCase.VerificationUseCase
	AccessRecorder      apikeyHTTP.AccessRecorder
	MetricsProvider     *metrics.Provider
}

// SetupRouter builds the gin engine with all routes and middleware.
// Rate limiter cleanup goroutines run until ctx is done.
func (s *Server) SetupRouter(ctx context.Context, cfg *config.Config, deps RouterDependencies) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(
		cfg.CORSEnabled,
		cfg.CORSAllowOrigins,
		cfg.APIKeyHeader,
		s.logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsEnabled && deps.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(deps.MetricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	tokenRoute := []gin.HandlerFunc{}
	if cfg.RateLimitEnabled {
		limiter := httputil.NewKeyedLimiter(ctx, ratePerSecond(cfg.RateLimitRequestsPerSec), cfg.RateLimitBurst)
		tokenRoute = append(tokenRoute, authHTTP.TokenRateLimitMiddleware(limiter, s.logger))
	}
	tokenRoute = append(tokenRoute, deps.TokenHandler.IssueTokenHandler)
	v1.POST("/token", tokenRoute...)

	apiKeys := v1.Group("/api-keys")
	apiKeys.Use(authHTTP.AuthenticationMiddleware(deps.TokenUseCase, deps.TokenService, s.logger))
	if cfg.RateLimitEnabled {
		limiter := httputil.NewKeyedLimiter(ctx, ratePerSecond(cfg.RateLimitRequestsPerSec), cfg.RateLimitBurst)
		apiKeys.Use(authHTTP.RateLimitMiddleware(limiter, s.logger))
	}
	apiKeys.POST("", deps.APIKeyHandler.GenerateHandler)
	apiKeys.GET("", deps.APIKeyHandler.ListHandler)
	apiKeys.GET("/:id", deps.APIKeyHandler.GetHandler)
	apiKeys.POST("/:id/revoke", deps.APIKeyHandler.RevokeHandler)
	apiKeys.POST("/:id/rotate", deps.APIKeyHandler.RotateHandler)

	protected := v1.Group("/protected")
	protected.Use(apikeyHTTP.APIKeyMiddleware(
		cfg.APIKeyHeader,
		deps.VerificationUseCase,
		deps.AccessRecorder,
		s.logger,
	))
	if cfg.APIKeyRateLimitEnabled {
		limiter := apikeyHTTP.NewAPIKeyRateLimiter(ctx, cfg.APIKeyRateLimitRequests, cfg.APIKeyRateLimitWindow)
		protected.Use(apikeyHTTP.APIKeyRateLimitMiddleware(limiter, s.logger))
	}
	protected.GET("/data", deps.ProtectedHandler.DataHandler)

	s.router = router
	s.server.Handler = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not initialized: call SetupRouter first")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports that the process is alive.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can reach its database.
func (s *Server) readinessHandler(c *gin.Context) {
	dbStatus := "ok"
	if s.db == nil {
		dbStatus = "error"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.Any("error", err))
			dbStatus = "error"
		}
	}

	if dbStatus != "ok" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": dbStatus},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": dbStatus},
	})
}
