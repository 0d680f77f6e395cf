// Package usecase implements API key lifecycle, verification and access recording.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/apikeys/internal/apikey/domain"
)

// APIKeyRepository defines persistence operations for API keys.
// Implementations must support transaction-aware operations via context propagation.
type APIKeyRepository interface {
	// Create stores a new key. Returns ErrDuplicateName or ErrSecretHashConflict on unique violations.
	Create(ctx context.Context, key *apikeyDomain.APIKey) error

	// Update persists the mutable fields of a key.
	Update(ctx context.Context, key *apikeyDomain.APIKey) error

	// GetByOwner retrieves a key by id scoped to its owner. Returns ErrAPIKeyNotFound if not found.
	GetByOwner(ctx context.Context, ownerID uuid.UUID, keyID uuid.UUID) (*apikeyDomain.APIKey, error)

	// GetByOwnerAndName retrieves a key by name. Returns ErrAPIKeyNotFound if not found.
	GetByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*apikeyDomain.APIKey, error)

	// ListByOwner returns all keys of the owner, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*apikeyDomain.APIKey, error)

	// CountActive counts the owner's keys usable at asOf.
	CountActive(ctx context.Context, ownerID uuid.UUID, asOf time.Time) (int, error)

	// ListCandidatesByPrefix returns active keys with the given lookup prefix, oldest first.
	ListCandidatesByPrefix(ctx context.Context, prefix string) ([]*apikeyDomain.APIKey, error)

	// LockOwner locks the owner row until the surrounding transaction ends.
	LockOwner(ctx context.Context, ownerID uuid.UUID) error

	// BackfillExpiration sets expiresAt on active keys without an expiry and returns the count.
	BackfillExpiration(ctx context.Context, expiresAt time.Time, dryRun bool) (int64, error)
}

// AccessLogRepository defines persistence operations for access logs.
type AccessLogRepository interface {
	Create(ctx context.Context, accessLog *apikeyDomain.AccessLog) error

	DeleteOlderThan(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error)
}

// APIKeyUseCase defines the key lifecycle operations available to an owner.
type APIKeyUseCase interface {
	// Generate issues a new key named name. The plaintext secret is only returned here.
	//
	// Returns ErrDuplicateName if the owner already has a key with that name, revoked or not,
	// and ErrLimitExceeded if the owner already holds the maximum number of usable keys.
	Generate(ctx context.Context, ownerID uuid.UUID, name string) (*apikeyDomain.GenerateAPIKeyOutput, error)

	// List returns every key of the owner, newest first.
	List(ctx context.Context, ownerID uuid.UUID) ([]*apikeyDomain.APIKey, error)

	// Get returns a single key of the owner.
	Get(ctx context.Context, ownerID uuid.UUID, keyID uuid.UUID) (*apikeyDomain.APIKey, error)

	// Revoke permanently deactivates a key. Returns ErrAlreadyRevoked on a second call.
	Revoke(ctx context.Context, ownerID uuid.UUID, keyID uuid.UUID) (*apikeyDomain.APIKey, error)

	// Rotate issues a successor for a usable key and schedules the source key to expire after the
	// rotation grace period. Both writes commit together.
	Rotate(ctx context.Context, ownerID uuid.UUID, keyID uuid.UUID) (*apikeyDomain.RotateAPIKeyOutput, error)

	// BackfillExpiration gives active keys without an expiry one that is days from now.
	BackfillExpiration(ctx context.Context, days int, dryRun bool) (int64, error)
}

// VerificationUseCase resolves a presented secret to the key it belongs to.
type VerificationUseCase interface {
	// Verify returns the matching usable key. Every failure other than a store error is
	// reported as ErrMissingCredential or ErrInvalidOrExpiredCredential.
	Verify(ctx context.Context, presented string) (*apikeyDomain.APIKey, error)
}

// AccessLogUseCase defines access log maintenance operations.
type AccessLogUseCase interface {
	// DeleteOlderThan removes access logs older than days and returns how many matched.
	DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error)
}
