package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	apikeyUseCase "github.com/allisson/apikeys/internal/apikey/usecase"
)

// RunCleanAccessLogs deletes access logs older than the specified number of days.
// Supports dry-run mode to preview deletion count and both text/JSON output formats.
func RunCleanAccessLogs(
	ctx context.Context,
	accessLogUseCase apikeyUseCase.AccessLogUseCase,
	logger *slog.Logger,
	writer io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("cleaning access logs",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	count, err := accessLogUseCase.DeleteOlderThan(ctx, days, dryRun)
	if err != nil {
		return fmt.Errorf("failed to delete access logs: %w", err)
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
		_, _ = fmt.Fprintf(writer, "Dry-run mode: Would delete %d access log(s) older than %d day(s)\n", count, days)
	} else {
		_, _ = fmt.Fprintf(writer, "Successfully deleted %d access log(s) older than %d day(s)\n", count, days)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}
