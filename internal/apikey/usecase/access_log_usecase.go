package usecase

import (
	"context"
	"time"

	apperrors "github.com/allisson/apikeys/internal/errors"
)

// accessLogUseCase implements AccessLogUseCase.
type accessLogUseCase struct {
	accessLogRepo AccessLogRepository
}

// DeleteOlderThan removes access logs created more than days ago.
func (a *accessLogUseCase) DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days < 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "days must be a non-negative number")
	}
	olderThan := time.Now().UTC().AddDate(0, 0, -days)
	return a.accessLogRepo.DeleteOlderThan(ctx, olderThan, dryRun)
}

// NewAccessLogUseCase creates a new AccessLogUseCase.
func NewAccessLogUseCase(accessLogRepo AccessLogRepository) AccessLogUseCase {
	return &accessLogUseCase{accessLogRepo: accessLogRepo}
}
