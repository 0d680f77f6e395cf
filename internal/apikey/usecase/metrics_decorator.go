package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/apikeys/internal/apikey/domain"
	"github.com/allisson/apikeys/internal/metrics"
)

const metricsDomain = "apikey"

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// apiKeyUseCaseWithMetrics decorates APIKeyUseCase with metrics instrumentation.
type apiKeyUseCaseWithMetrics struct {
	next    APIKeyUseCase
	metrics metrics.BusinessMetrics
}

// NewAPIKeyUseCaseWithMetrics wraps an APIKeyUseCase with metrics recording.
func NewAPIKeyUseCaseWithMetrics(useCase APIKeyUseCase, m metrics.BusinessMetrics) APIKeyUseCase {
	return &apiKeyUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *apiKeyUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := statusOf(err)
	a.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	a.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// Generate records metrics for key generation.
func (a *apiKeyUseCaseWithMetrics) Generate(
	ctx context.Context,
	ownerID uuid.UUID,
	name string,
) (*apikeyDomain.GenerateAPIKeyOutput, error) {
	start := time.Now()
	output, err := a.next.Generate(ctx, ownerID, name)
	a.record(ctx, "api_key_generate", start, err)
	return output, err
}

// List records metrics for key listing.
func (a *apiKeyUseCaseWithMetrics) List(ctx context.Context, ownerID uuid.UUID) ([]*apikeyDomain.APIKey, error) {
	start := time.Now()
	keys, err := a.next.List(ctx, ownerID)
	a.record(ctx, "api_key_list", start, err)
	return keys, err
}

// Get records metrics for key retrieval.
func (a *apiKeyUseCaseWithMetrics) Get(
	ctx context.Context,
	ownerID uuid.UUID,
	keyID uuid.UUID,
) (*apikeyDomain.APIKey, error) {
	start := time.Now()
	key, err := a.next.Get(ctx, ownerID, keyID)
	a.record(ctx, "api_key_get", start, err)
	return key, err
}

// Revoke records metrics for key revocation.
func (a *apiKeyUseCaseWithMetrics) Revoke(
	ctx context.Context,
	ownerID uuid.UUID,
	keyID uuid.UUID,
) (*apikeyDomain.APIKey, error) {
	start := time.Now()
	key, err := a.next.Revoke(ctx, ownerID, keyID)
	a.record(ctx, "api_key_revoke", start, err)
	return key, err
}

// Rotate records metrics for key rotation.
func (a *apiKeyUseCaseWithMetrics) Rotate(
	ctx context.Context,
	ownerID uuid.UUID,
	keyID uuid.UUID,
) (*apikeyDomain.RotateAPIKeyOutput, error) {
	start := time.Now()
	output, err := a.next.Rotate(ctx, ownerID, keyID)
	a.record(ctx, "api_key_rotate", start, err)
	return output, err
}

// BackfillExpiration records metrics for the legacy expiry back-fill.
func (a *apiKeyUseCaseWithMetrics) BackfillExpiration(ctx context.Context, days int, dryRun bool) (int64, error) {
	start := time.Now()
	count, err := a.next.BackfillExpiration(ctx, days, dryRun)
	a.record(ctx, "api_key_backfill_expiration", start, err)
	return count, err
}

// verificationUseCaseWithMetrics decorates VerificationUseCase with metrics instrumentation.
type verificationUseCaseWithMetrics struct {
	next    VerificationUseCase
	metrics metrics.BusinessMetrics
}

// NewVerificationUseCaseWithMetrics wraps a VerificationUseCase with metrics recording.
func NewVerificationUseCaseWithMetrics(useCase VerificationUseCase, m metrics.BusinessMetrics) VerificationUseCase {
	return &verificationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Verify records metrics for key verification.
func (v *verificationUseCaseWithMetrics) Verify(ctx context.Context, presented string) (*apikeyDomain.APIKey, error) {
	start := time.Now()
	key, err := v.next.Verify(ctx, presented)

	status := statusOf(err)
	v.metrics.RecordOperation(ctx, metricsDomain, "api_key_verify", status)
	v.metrics.RecordDuration(ctx, metricsDomain, "api_key_verify", time.Since(start), status)

	return key, err
}

// accessLogUseCaseWithMetrics decorates AccessLogUseCase with metrics instrumentation.
type accessLogUseCaseWithMetrics struct {
	next    AccessLogUseCase
	metrics metrics.BusinessMetrics
}

// NewAccessLogUseCaseWithMetrics wraps an AccessLogUseCase with metrics recording.
func NewAccessLogUseCaseWithMetrics(useCase AccessLogUseCase, m metrics.BusinessMetrics) AccessLogUseCase {
	return &accessLogUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// DeleteOlderThan records metrics for access log cleanup.
func (a *accessLogUseCaseWithMetrics) DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error) {
	start := time.Now()
	count, err := a.next.DeleteOlderThan(ctx, days, dryRun)

	status := statusOf(err)
	a.metrics.RecordOperation(ctx, metricsDomain, "access_log_delete", status)
	a.metrics.RecordDuration(ctx, metricsDomain, "access_log_delete", time.Since(start), status)

	return count, err
}
