package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/apikeys/internal/auth/domain"
	authMocks "github.com/allisson/apikeys/internal/auth/usecase/mocks"
	apperrors "github.com/allisson/apikeys/internal/errors"
)

func TestRunCreateOwner(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	ownerID := uuid.Must(uuid.NewV7())
	plainSecret := "owner-secret"
	input := &authDomain.CreateOwnerInput{Name: "acme"}
	output := &authDomain.CreateOwnerOutput{ID: ownerID, PlainSecret: plainSecret}

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &authMocks.MockOwnerUseCase{}
		mockUseCase.On("Create", ctx, input).Return(output, nil)

		var out bytes.Buffer
		err := RunCreateOwner(ctx, mockUseCase, logger, &out, "acme", "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), ownerID.String())
		require.Contains(t, out.String(), plainSecret)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &authMocks.MockOwnerUseCase{}
		mockUseCase.On("Create", ctx, input).Return(output, nil)

		var out bytes.Buffer
		err := RunCreateOwner(ctx, mockUseCase, logger, &out, "acme", "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"owner_id": "`+ownerID.String()+`"`)
		require.Contains(t, out.String(), `"owner_secret": "owner-secret"`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("use-case-error", func(t *testing.T) {
		mockUseCase := &authMocks.MockOwnerUseCase{}
		mockUseCase.On("Create", ctx, &authDomain.CreateOwnerInput{Name: ""}).
			Return(nil, apperrors.Wrap(apperrors.ErrInvalidInput, "owner name is required"))

		err := RunCreateOwner(ctx, mockUseCase, logger, &bytes.Buffer{}, "", "text")

		require.Error(t, err)
		require.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("invalid-format", func(t *testing.T) {
		mockUseCase := &authMocks.MockOwnerUseCase{}

		err := RunCreateOwner(ctx, mockUseCase, logger, &bytes.Buffer{}, "acme", "yaml")

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid format: yaml")
		mockUseCase.AssertNotCalled(t, "Create")
	})
}
