// Package http provides the HTTP server, router and shared middleware.
package http

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/securevault/internal/auth/http"
	authService "github.com/allisson/securevault/internal/auth/service"
	authUseCase "github.com/allisson/securevault/internal/auth/usecase"
	"github.com/allisson/securevault/internal/config"
	"github.com/allisson/securevault/internal/metrics"
	pkiHTTP "github.com/allisson/securevault/internal/pki/http"
	pkiUseCase "github.com/allisson/securevault/internal/pki/usecase"
	sharingHTTP "github.com/allisson/securevault/internal/sharing/http"
)

// readinessTimeout bounds the database ping of the readiness probe.
const readinessTimeout = 2 * time.Second

// Handlers groups the per-domain handlers mounted by SetupRouter.
type Handlers struct {
	Auth    *authHTTP.AuthHandler
	User    *authHTTP.UserHandler
	CA      *pkiHTTP.CAHandler
	File    *sharingHTTP.FileHandler
	Message *sharingHTTP.MessageHandler
}

// Server is the public API listener.
type Server struct {
	listener
	db *sql.DB
	ca pkiUseCase.CertificateAuthority
}

// NewServer creates a new HTTP server. SetupRouter must be called before Start.
func NewServer(
	db *sql.DB,
	ca pkiUseCase.CertificateAuthority,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		listener: newListener("http server", host, port, 60*time.Second, logger),
		db:       db,
		ca:       ca,
	}
}

// SetupRouter registers every route. Rate limiter cleanup goroutines stop when ctx is cancelled.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	handlers Handlers,
	sessionUseCase authUseCase.SessionUseCase,
	tokenService authService.TokenService,
	metricsProvider *metrics.Provider,
) {
	router := newEngine(s.logger)
	router.MaxMultipartMemory = cfg.MaxUploadSize

	if corsMiddleware := newCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace, "/health", "/ready"))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	authMiddleware := authHTTP.AuthenticationMiddleware(sessionUseCase, tokenService, s.logger)
	userLimits := []gin.HandlerFunc{authMiddleware}
	if cfg.RateLimitEnabled {
		userLimits = append(userLimits, authHTTP.RateLimitMiddleware(
			ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger,
		))
	}

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	{
		public := auth.Group("")
		if cfg.RateLimitAuthEnabled {
			public.Use(authHTTP.IPRateLimitMiddleware(
				ctx, cfg.RateLimitAuthRequestsPerSec, cfg.RateLimitAuthBurst, s.logger,
			))
		}
		public.POST("/register", handlers.Auth.RegisterHandler)
		public.POST("/challenge", handlers.Auth.ChallengeHandler)
		public.POST("/login", handlers.Auth.LoginHandler)

		auth.POST("/logout", authMiddleware, handlers.Auth.LogoutHandler)
	}

	users := v1.Group("/users")
	{
		users.GET("/me", authMiddleware, handlers.User.MeHandler)
		users.GET("/:username/public-key", handlers.User.GetPublicKeyHandler)
	}

	ca := v1.Group("/ca")
	{
		ca.GET("/certificate", handlers.CA.GetCertificateHandler)
		ca.GET("/info", handlers.CA.GetInfoHandler)
		ca.POST("/verify", handlers.CA.VerifyHandler)
		ca.GET("/revocations/:serial", handlers.CA.GetRevocationHandler)
	}

	files := v1.Group("/files", userLimits...)
	{
		files.POST("", handlers.File.UploadHandler)
		files.GET("", handlers.File.ListHandler)
		files.GET("/:id", handlers.File.GetHandler)
		files.POST("/:id/share", handlers.File.ShareHandler)
		files.POST("/:id/download", handlers.File.DownloadHandler)
		files.DELETE("/:id", handlers.File.DeleteHandler)
	}

	messages := v1.Group("/messages", userLimits...)
	{
		messages.POST("", handlers.Message.SendHandler)
		messages.GET("", handlers.Message.ListHandler)
		messages.POST("/:id/read", handlers.Message.ReadHandler)
		messages.DELETE("/:id", handlers.Message.DeleteHandler)
	}

	s.server.Handler = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start blocks until Shutdown. SetupRouter must have been called.
func (s *Server) Start(_ context.Context) error {
	if s.server.Handler == nil {
		return errors.New("http server: router not configured")
	}
	return s.serve()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.shutdown(ctx)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the database answers and the CA is active.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{
		"database":              "ok",
		"certificate_authority": "ok",
	}
	ready := true

	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("readiness: database ping failed", slog.Any("error", err))
			components["database"] = "error"
			ready = false
		}
	}

	if s.ca == nil {
		components["certificate_authority"] = "error"
		ready = false
	} else if _, err := s.ca.Info(); err != nil {
		components["certificate_authority"] = "error"
		ready = false
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}
