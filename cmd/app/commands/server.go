package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/securevault/internal/app"
	"github.com/allisson/securevault/internal/config"
)

// RunServer activates the certificate authority and serves the HTTP API until
// SIGINT/SIGTERM or a fatal error. The revocation sync and challenge cleanup
// loops run alongside the servers and stop with them. On shutdown the servers
// drain within DBConnMaxLifetime.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	defer closeContainer(container, logger)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ca, err := container.CertificateAuthority()
	if err != nil {
		return fmt.Errorf("failed to initialize certificate authority: %w", err)
	}
	if err := ca.Activate(ctx); err != nil {
		return fmt.Errorf("failed to activate certificate authority: %w", err)
	}

	// HTTPServer initializes every remaining dependency.
	server, err := container.HTTPServer(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	revocationSync, err := container.RevocationSync()
	if err != nil {
		return fmt.Errorf("failed to initialize revocation sync: %w", err)
	}

	authenticator, err := container.ChallengeAuthenticator()
	if err != nil {
		return fmt.Errorf("failed to initialize challenge authenticator: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(gctx); err != nil {
			return fmt.Errorf("api server error: %w", err)
		}
		return nil
	})

	if metricsServer != nil {
		g.Go(func() error {
			if err := metricsServer.Start(gctx); err != nil {
				return fmt.Errorf("metrics server error: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		return ignoreCanceled(revocationSync.Start(gctx))
	})

	g.Go(func() error {
		return ignoreCanceled(authenticator.Run(gctx, cfg.ChallengeCleanupInterval))
	})

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			logger.Info("shutdown signal received")
		} else {
			logger.Error("server error, initiating shutdown")
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.DBConnMaxLifetime)
		defer shutdownCancel()

		var shutdownErrors []error
		if err := server.Shutdown(shutdownCtx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("api server shutdown: %w", err))
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
			}
		}
		return errors.Join(shutdownErrors...)
	})

	return g.Wait()
}

// ignoreCanceled treats context cancellation as a clean stop.
func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
