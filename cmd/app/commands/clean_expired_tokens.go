package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	authUseCase "github.com/allisson/securevault/internal/auth/usecase"
)

type cleanupReport struct {
	Count  int64 `json:"count"`
	Days   int   `json:"days"`
	DryRun bool  `json:"dry_run"`
}

func (r cleanupReport) String() string {
	verb := "Deleted"
	if r.DryRun {
		verb = "Would delete"
	}
	return fmt.Sprintf("%s %d session token(s) expired more than %d day(s) ago", verb, r.Count, r.Days)
}

// RunCleanExpiredTokens purges session tokens that expired more than days
// ago. With dryRun it only counts them.
func RunCleanExpiredTokens(
	ctx context.Context,
	sessions authUseCase.SessionUseCase,
	logger *slog.Logger,
	w io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	if days < 0 {
		return fmt.Errorf("days must not be negative, got %d", days)
	}
	if err := validateFormat(format); err != nil {
		return err
	}

	count, err := sessions.CleanupExpired(ctx, days, dryRun)
	if err != nil {
		return fmt.Errorf("failed to cleanup expired tokens: %w", err)
	}

	report := cleanupReport{Count: count, Days: days, DryRun: dryRun}
	logger.Info("expired session tokens cleaned",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	if format == formatJSON {
		return writeJSON(w, report)
	}
	_, err = fmt.Fprintln(w, report)
	return err
}
