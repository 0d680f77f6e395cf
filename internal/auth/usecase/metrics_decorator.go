package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/apikeys/internal/auth/domain"
	"github.com/allisson/apikeys/internal/metrics"
)

// ownerUseCaseWithMetrics decorates OwnerUseCase with metrics instrumentation.
type ownerUseCaseWithMetrics struct {
	next    OwnerUseCase
	metrics metrics.BusinessMetrics
}

// NewOwnerUseCaseWithMetrics wraps an OwnerUseCase with metrics recording.
func NewOwnerUseCaseWithMetrics(useCase OwnerUseCase, m metrics.BusinessMetrics) OwnerUseCase {
	return &ownerUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for owner creation operations.
func (o *ownerUseCaseWithMetrics) Create(
	ctx context.Context,
	input *authDomain.CreateOwnerInput,
) (*authDomain.CreateOwnerOutput, error) {
	start := time.Now()
	output, err := o.next.Create(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	o.metrics.RecordOperation(ctx, "auth", "owner_create", status)
	o.metrics.RecordDuration(ctx, "auth", "owner_create", time.Since(start), status)

	return output, err
}

// Get records metrics for owner retrieval operations.
func (o *ownerUseCaseWithMetrics) Get(ctx context.Context, ownerID uuid.UUID) (*authDomain.Owner, error) {
	start := time.Now()
	owner, err := o.next.Get(ctx, ownerID)

	status := "success"
	if err != nil {
		status = "error"
	}

	o.metrics.RecordOperation(ctx, "auth", "owner_get", status)
	o.metrics.RecordDuration(ctx, "auth", "owner_get", time.Since(start), status)

	return owner, err
}

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Issue records metrics for token issuance operations.
func (t *tokenUseCaseWithMetrics) Issue(
	ctx context.Context,
	input *authDomain.IssueTokenInput,
) (*authDomain.IssueTokenOutput, error) {
	start := time.Now()
	output, err := t.next.Issue(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "auth", "token_issue", status)
	t.metrics.RecordDuration(ctx, "auth", "token_issue", time.Since(start), status)

	return output, err
}

// Authenticate records metrics for token authentication operations.
func (t *tokenUseCaseWithMetrics) Authenticate(ctx context.Context, tokenHash string) (*authDomain.Owner, error) {
	start := time.Now()
	owner, err := t.next.Authenticate(ctx, tokenHash)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "auth", "token_authenticate", status)
	t.metrics.RecordDuration(ctx, "auth", "token_authenticate", time.Since(start), status)

	return owner, err
}
