package usecase

import (
	"context"
	"log/slog"
	"time"
)

// RevocationSync periodically merges revocations persisted by other processes
// (for example the revoke-certificate command) into a running authority.
type RevocationSync struct {
	interval time.Duration
	ca       CertificateAuthority
	logger   *slog.Logger
}

// NewRevocationSync creates a RevocationSync.
func NewRevocationSync(interval time.Duration, ca CertificateAuthority, logger *slog.Logger) *RevocationSync {
	return &RevocationSync{
		interval: interval,
		ca:       ca,
		logger:   logger,
	}
}

// Start refreshes the revocation set every interval until ctx is cancelled.
func (s *RevocationSync) Start(ctx context.Context) error {
	s.logger.Info("starting revocation sync", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping revocation sync")
			return ctx.Err()
		case <-ticker.C:
			if err := s.ca.RefreshRevocations(ctx); err != nil {
				s.logger.Error("failed to refresh revocations", slog.Any("error", err))
			}
		}
	}
}
