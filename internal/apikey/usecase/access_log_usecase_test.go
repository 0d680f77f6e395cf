package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/apikeys/internal/apikey/usecase/mocks"
	apperrors "github.com/allisson/apikeys/internal/errors"
)

func TestAccessLogUseCase_DeleteOlderThan(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := &mocks.MockAccessLogRepository{}
		uc := NewAccessLogUseCase(repo)

		expected := time.Now().UTC().AddDate(0, 0, -90)
		repo.On("DeleteOlderThan", ctx, mock.MatchedBy(func(olderThan time.Time) bool {
			return olderThan.Sub(expected).Abs() < time.Minute
		}), false).Return(int64(12), nil).Once()

		count, err := uc.DeleteOlderThan(ctx, 90, false)
		require.NoError(t, err)
		assert.Equal(t, int64(12), count)
		repo.AssertExpectations(t)
	})

	t.Run("Error_NegativeDays", func(t *testing.T) {
		repo := &mocks.MockAccessLogRepository{}
		uc := NewAccessLogUseCase(repo)

		_, err := uc.DeleteOlderThan(ctx, -1, true)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		repo.AssertNotCalled(t, "DeleteOlderThan", mock.Anything, mock.Anything, mock.Anything)
	})
}
