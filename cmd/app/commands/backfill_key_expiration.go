package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	apikeyUseCase "github.com/allisson/apikeys/internal/apikey/usecase"
)

// RunBackfillKeyExpiration sets an expiry of now plus days on active API keys created
// without one. In dry-run mode only the number of affected keys is reported.
func RunBackfillKeyExpiration(
	ctx context.Context,
	apiKeyUseCase apikeyUseCase.APIKeyUseCase,
	logger *slog.Logger,
	writer io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	if days <= 0 {
		return fmt.Errorf("days must be greater than zero, got: %d", days)
	}
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("backfilling api key expiration",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	count, err := apiKeyUseCase.BackfillExpiration(ctx, days, dryRun)
	if err != nil {
		return fmt.Errorf("failed to backfill api key expiration: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, map[string]any{
			"count":   count,
			"days":    days,
			"dry_run": dryRun,
		}); err != nil {
			return err
		}
	} else if dryRun {
		_, _ = fmt.Fprintf(writer, "Dry-run mode: Would set expiration on %d api key(s) to %d day(s) from now\n", count, days)
	} else {
		_, _ = fmt.Fprintf(writer, "Successfully set expiration on %d api key(s) to %d day(s) from now\n", count, days)
	}

	logger.Info("backfill completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}
