package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	authDomain "github.com/allisson/apikeys/internal/auth/domain"
	authUseCase "github.com/allisson/apikeys/internal/auth/usecase"
)

// RunCreateOwner creates an owner and prints its id and one-time plaintext secret.
//
// Requirements: Database must be migrated and accessible.
func RunCreateOwner(
	ctx context.Context,
	ownerUseCase authUseCase.OwnerUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("creating new owner", slog.String("name", name))

	output, err := ownerUseCase.Create(ctx, &authDomain.CreateOwnerInput{Name: name})
	if err != nil {
		return fmt.Errorf("failed to create owner: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, map[string]string{
			"owner_id":     output.ID.String(),
			"owner_secret": output.PlainSecret,
		}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintln(writer, "Owner created successfully!")
		_, _ = fmt.Fprintf(writer, "Owner ID: %s\n", output.ID)
		_, _ = fmt.Fprintf(writer, "Owner Secret: %s\n", output.PlainSecret)
		_, _ = fmt.Fprintln(writer, "\nWARNING: Save the owner secret securely. It will not be shown again.")
	}

	logger.Info("owner created successfully", slog.String("owner_id", output.ID.String()))
	return nil
}
