// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	authHTTP "github.com/allisson/securevault/internal/auth/http"
	authService "github.com/allisson/securevault/internal/auth/service"
	authUseCase "github.com/allisson/securevault/internal/auth/usecase"
	"github.com/allisson/securevault/internal/config"
	cryptoService "github.com/allisson/securevault/internal/crypto/service"
	"github.com/allisson/securevault/internal/database"
	"github.com/allisson/securevault/internal/http"
	"github.com/allisson/securevault/internal/metrics"
	pkiHTTP "github.com/allisson/securevault/internal/pki/http"
	pkiUseCase "github.com/allisson/securevault/internal/pki/usecase"
	sharingHTTP "github.com/allisson/securevault/internal/sharing/http"
	"github.com/allisson/securevault/internal/sharing/storage"
	sharingUseCase "github.com/allisson/securevault/internal/sharing/usecase"
)

// Container assembles the application. Every component is built on first
// access and shared afterwards; a failed build is remembered and returned
// again to later callers.
type Container struct {
	config *config.Config

	logger          lazy[*slog.Logger]
	db              lazy[*sql.DB]
	txManager       lazy[database.TxManager]
	metricsProvider lazy[*metrics.Provider]
	businessMetrics lazy[metrics.BusinessMetrics]

	keyPairProvider lazy[cryptoService.KeyPairProvider]
	signatureEngine lazy[cryptoService.SignatureEngine]
	aeadManager     lazy[cryptoService.AEADManager]
	hybridCipher    lazy[cryptoService.HybridCipher]
	kmsService      lazy[cryptoService.KMSService]

	rootRepository              lazy[pkiUseCase.RootRepository]
	revocationRepository        lazy[pkiUseCase.RevocationRepository]
	issuedCertificateRepository lazy[pkiUseCase.IssuedCertificateRepository]
	certificateAuthority        lazy[pkiUseCase.CertificateAuthority]
	revocationSync              lazy[*pkiUseCase.RevocationSync]
	caHandler                   lazy[*pkiHTTP.CAHandler]

	userRepository         lazy[authUseCase.UserRepository]
	tokenRepository        lazy[authUseCase.TokenRepository]
	tokenService           lazy[authService.TokenService]
	challengeAuthenticator lazy[authUseCase.ChallengeAuthenticator]
	userUseCase            lazy[authUseCase.UserUseCase]
	sessionUseCase         lazy[authUseCase.SessionUseCase]
	authHandler            lazy[*authHTTP.AuthHandler]
	userHandler            lazy[*authHTTP.UserHandler]

	blobStore         lazy[*storage.BlobStore]
	fileRepository    lazy[sharingUseCase.FileRepository]
	messageRepository lazy[sharingUseCase.MessageRepository]
	fileUseCase       lazy[sharingUseCase.FileUseCase]
	messageUseCase    lazy[sharingUseCase.MessageUseCase]
	fileHandler       lazy[*sharingHTTP.FileHandler]
	messageHandler    lazy[*sharingHTTP.MessageHandler]

	httpServer    lazy[*http.Server]
	metricsServer lazy[*http.MetricsServer]

	shutdownMu sync.Mutex
}

// NewContainer returns an empty container for cfg. Nothing is built yet.
func NewContainer(cfg *config.Config) *Container {
	return &Container{config: cfg}
}

func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the JSON logger writing to stdout at LOG_LEVEL.
func (c *Container) Logger() *slog.Logger {
	return c.logger.must(c.initLogger)
}

// DB returns the connection pool, retrying the first ping for DB_CONNECT_TIMEOUT.
func (c *Container) DB() (*sql.DB, error) {
	return c.db.get(c.initDB)
}

func (c *Container) TxManager() (database.TxManager, error) {
	return c.txManager.get(func() (database.TxManager, error) {
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
		}
		return database.NewTxManager(db), nil
	})
}

// MetricsProvider returns the OpenTelemetry provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	return c.metricsProvider.get(c.initMetricsProvider)
}

// BusinessMetrics returns the business metrics recorder, a no-op when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	return c.businessMetrics.get(c.initBusinessMetrics)
}

// HTTPServer returns the HTTP server with every route mounted.
// Rate limiter cleanup goroutines run until ctx is cancelled.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	return c.httpServer.get(func() (*http.Server, error) { return c.initHTTPServer(ctx) })
}

// MetricsServer returns the Prometheus metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	return c.metricsServer.get(c.initMetricsServer)
}

// withMetrics returns decorated when metrics are enabled and plain otherwise.
func withMetrics[T any](c *Container, plain T, decorate func(T, metrics.BusinessMetrics) T) (T, error) {
	if !c.config.MetricsEnabled {
		return plain, nil
	}
	bm, err := c.BusinessMetrics()
	if err != nil {
		return plain, fmt.Errorf("failed to get business metrics: %w", err)
	}
	return decorate(plain, bm), nil
}

// driverDB returns the pool for a repository named what.
func (c *Container) driverDB(what string) (*sql.DB, error) {
	switch c.config.DBDriver {
	case "postgres", "mysql":
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for %s: %w", what, err)
	}
	return db, nil
}

func (c *Container) isMySQL() bool {
	return c.config.DBDriver == "mysql"
}

// Shutdown stops the servers and releases every resource built so far,
// newest first. Components never built are skipped.
func (c *Container) Shutdown(ctx context.Context) error {
	c.shutdownMu.Lock()
	defer c.shutdownMu.Unlock()

	var errs []error
	if s, ok := c.httpServer.peek(); ok && s != nil {
		if err := s.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
		}
	}
	if s, ok := c.metricsServer.peek(); ok && s != nil {
		if err := s.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}
	if p, ok := c.metricsProvider.peek(); ok && p != nil {
		if err := p.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}
	if b, ok := c.blobStore.peek(); ok && b != nil {
		if err := b.Close(); err != nil {
			errs = append(errs, fmt.Errorf("blob store close: %w", err))
		}
	}
	if db, ok := c.db.peek(); ok && db != nil {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Container) initLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.config.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(context.Background(), database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
		ConnectTimeout:     c.config.DBConnectTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initMetricsProvider creates the provider when metrics are enabled.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	provider, err := metrics.NewProvider(c.config.MetricsNamespace, metrics.WithRuntimeCollectors())
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}
	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}
	ca, err := c.CertificateAuthority()
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate authority for http server: %w", err)
	}
	sessionUseCase, err := c.SessionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get session use case for http server: %w", err)
	}
	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	authHandler, err := c.AuthHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth handler: %w", err)
	}
	userHandler, err := c.UserHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get user handler: %w", err)
	}
	caHandler, err := c.CAHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get CA handler: %w", err)
	}
	fileHandler, err := c.FileHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get file handler: %w", err)
	}
	messageHandler, err := c.MessageHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get message handler: %w", err)
	}

	server := http.NewServer(db, ca, c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(
		ctx,
		c.config,
		http.Handlers{
			Auth:    authHandler,
			User:    userHandler,
			CA:      caHandler,
			File:    fileHandler,
			Message: messageHandler,
		},
		sessionUseCase,
		c.TokenService(),
		metricsProvider,
	)
	return server, nil
}

// initMetricsServer creates the metrics server when metrics are enabled.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}
	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
