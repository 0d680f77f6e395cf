package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/apikeys/internal/apikey/domain"
	apikeyService "github.com/allisson/apikeys/internal/apikey/service"
	"github.com/allisson/apikeys/internal/database"
	apperrors "github.com/allisson/apikeys/internal/errors"
)

// maxSecretAttempts bounds regeneration after a secret hash collision.
const maxSecretAttempts = 3

// apiKeyUseCase implements APIKeyUseCase.
type apiKeyUseCase struct {
	txManager     database.TxManager
	apiKeyRepo    APIKeyRepository
	codec         apikeyService.SecretCodec
	maxActiveKeys int
	rotationGrace time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

// issuedSecret is a freshly generated secret and the values derived from it.
type issuedSecret struct {
	plain  string
	hash   string
	prefix string
}

func (a *apiKeyUseCase) issueSecret() (*issuedSecret, error) {
	plain, err := a.codec.GenerateSecret()
	if err != nil {
		return nil, err
	}
	hash, err := a.codec.Hash(plain)
	if err != nil {
		return nil, err
	}
	return &issuedSecret{plain: plain, hash: hash, prefix: a.codec.LookupPrefix(plain)}, nil
}

// withSecretRetry runs fn again while it fails with ErrSecretHashConflict.
func (a *apiKeyUseCase) withSecretRetry(ctx context.Context, ownerID uuid.UUID, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxSecretAttempts; attempt++ {
		err = fn()
		if !errors.Is(err, apikeyDomain.ErrSecretHashConflict) {
			return err
		}
		a.logger.WarnContext(ctx, "api key secret hash collision, regenerating",
			slog.String("owner_id", ownerID.String()),
			slog.Int("attempt", attempt),
		)
	}
	// Not wrapped: an exhausted retry is an internal failure, not a client conflict.
	return apperrors.New("failed to generate a unique api key secret: " + err.Error())
}

// Generate issues a new key for the owner.
//
// The owner row is locked for the duration of the transaction so the name and limit checks
// cannot race with a concurrent Generate or Rotate for the same owner.
func (a *apiKeyUseCase) Generate(
	ctx context.Context,
	ownerID uuid.UUID,
	name string,
) (*apikeyDomain.GenerateAPIKeyOutput, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < apikeyDomain.MinNameLength || n > apikeyDomain.MaxNameLength {
		return nil, apikeyDomain.ErrInvalidName
	}

	var output *apikeyDomain.GenerateAPIKeyOutput
	err := a.withSecretRetry(ctx, ownerID, func() error {
		secret, err := a.issueSecret()
		if err != nil {
			return err
		}

		return a.txManager.WithTx(ctx, func(ctx context.Context) error {
			if err := a.apiKeyRepo.LockOwner(ctx, ownerID); err != nil {
				return err
			}

			_, err := a.apiKeyRepo.GetByOwnerAndName(ctx, ownerID, name)
			if err == nil {
				return apikeyDomain.ErrDuplicateName
			}
			if !errors.Is(err, apikeyDomain.ErrAPIKeyNotFound) {
				return err
			}

			now := a.now()
			count, err := a.apiKeyRepo.CountActive(ctx, ownerID, now)
			if err != nil {
				return err
			}
			if count >= a.maxActiveKeys {
				return apikeyDomain.ErrLimitExceeded
			}

			key := &apikeyDomain.APIKey{
				ID:           uuid.Must(uuid.NewV7()),
				OwnerID:      ownerID,
				Name:         name,
				SecretHash:   secret.hash,
				LookupPrefix: secret.prefix,
				IsActive:     true,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := a.apiKeyRepo.Create(ctx, key); err != nil {
				return err
			}

			output = &apikeyDomain.GenerateAPIKeyOutput{PlainSecret: secret.plain, APIKey: key}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	a.logger.InfoContext(ctx, "api key generated",
		slog.String("owner_id", ownerID.String()),
		slog.String("api_key_id", output.APIKey.ID.String()),
		slog.String("lookup_prefix", output.APIKey.LookupPrefix),
	)
	return output, nil
}

// List returns the owner's keys, newest first.
func (a *apiKeyUseCase) List(ctx context.Context, ownerID uuid.UUID) ([]*apikeyDomain.APIKey, error) {
	return a.apiKeyRepo.ListByOwner(ctx, ownerID)
}

// Get returns one of the owner's keys.
func (a *apiKeyUseCase) Get(
	ctx context.Context,
	ownerID uuid.UUID,
	keyID uuid.UUID,
) (*apikeyDomain.APIKey, error) {
	return a.apiKeyRepo.GetByOwner(ctx, ownerID, keyID)
}

// Revoke deactivates a key. A revoked key never becomes active again.
func (a *apiKeyUseCase) Revoke(
	ctx context.Context,
	ownerID uuid.UUID,
	keyID uuid.UUID,
) (*apikeyDomain.APIKey, error) {
	var key *apikeyDomain.APIKey
	err := a.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := a.apiKeyRepo.LockOwner(ctx, ownerID); err != nil {
			return err
		}

		var err error
		key, err = a.apiKeyRepo.GetByOwner(ctx, ownerID, keyID)
		if err != nil {
			return err
		}
		if !key.IsActive {
			return apikeyDomain.ErrAlreadyRevoked
		}

		now := a.now()
		key.IsActive = false
		key.RevokedAt = &now
		key.UpdatedAt = now
		return a.apiKeyRepo.Update(ctx, key)
	})
	if err != nil {
		return nil, err
	}

	a.logger.InfoContext(ctx, "api key revoked",
		slog.String("owner_id", ownerID.String()),
		slog.String("api_key_id", key.ID.String()),
	)
	return key, nil
}

// Rotate creates a successor for a usable key. The source key keeps verifying until the
// grace period elapses. The active key limit is not re-checked, so an owner at the limit
// can still rotate.
func (a *apiKeyUseCase) Rotate(
	ctx context.Context,
	ownerID uuid.UUID,
	keyID uuid.UUID,
) (*apikeyDomain.RotateAPIKeyOutput, error) {
	var output *apikeyDomain.RotateAPIKeyOutput
	err := a.withSecretRetry(ctx, ownerID, func() error {
		return a.txManager.WithTx(ctx, func(ctx context.Context) error {
			if err := a.apiKeyRepo.LockOwner(ctx, ownerID); err != nil {
				return err
			}

			oldKey, err := a.apiKeyRepo.GetByOwner(ctx, ownerID, keyID)
			if err != nil {
				return err
			}

			now := a.now()
			if !oldKey.IsUsable(now) {
				return apikeyDomain.ErrInactiveKey
			}

			newName := apikeyDomain.RotatedName(oldKey.Name)
			if len([]rune(newName)) > apikeyDomain.MaxStoredNameLength {
				return apikeyDomain.ErrNameTooLong
			}

			secret, err := a.issueSecret()
			if err != nil {
				return err
			}

			rotatedFromID := oldKey.ID
			newKey := &apikeyDomain.APIKey{
				ID:            uuid.Must(uuid.NewV7()),
				OwnerID:       ownerID,
				Name:          newName,
				SecretHash:    secret.hash,
				LookupPrefix:  secret.prefix,
				IsActive:      true,
				RotatedFromID: &rotatedFromID,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := a.apiKeyRepo.Create(ctx, newKey); err != nil {
				return err
			}

			expiresAt := now.Add(a.rotationGrace)
			oldKey.ExpiresAt = &expiresAt
			oldKey.UpdatedAt = now
			if err := a.apiKeyRepo.Update(ctx, oldKey); err != nil {
				return err
			}

			output = &apikeyDomain.RotateAPIKeyOutput{
				PlainSecret: secret.plain,
				NewKey:      newKey,
				OldKey:      oldKey,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	a.logger.InfoContext(ctx, "api key rotated",
		slog.String("owner_id", ownerID.String()),
		slog.String("old_api_key_id", output.OldKey.ID.String()),
		slog.String("new_api_key_id", output.NewKey.ID.String()),
		slog.Time("old_key_expires_at", *output.OldKey.ExpiresAt),
	)
	return output, nil
}

// BackfillExpiration sets an expiry days from now on active keys that have none.
func (a *apiKeyUseCase) BackfillExpiration(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days <= 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "days must be greater than zero")
	}
	expiresAt := a.now().Add(time.Duration(days) * 24 * time.Hour)
	return a.apiKeyRepo.BackfillExpiration(ctx, expiresAt, dryRun)
}

// NewAPIKeyUseCase creates a new APIKeyUseCase.
func NewAPIKeyUseCase(
	txManager database.TxManager,
	apiKeyRepo APIKeyRepository,
	codec apikeyService.SecretCodec,
	maxActiveKeys int,
	rotationGrace time.Duration,
	logger *slog.Logger,
) APIKeyUseCase {
	if maxActiveKeys <= 0 {
		maxActiveKeys = apikeyDomain.DefaultMaxActiveKeys
	}
	if rotationGrace <= 0 {
		rotationGrace = apikeyDomain.DefaultRotationGracePeriod
	}
	return &apiKeyUseCase{
		txManager:     txManager,
		apiKeyRepo:    apiKeyRepo,
		codec:         codec,
		maxActiveKeys: maxActiveKeys,
		rotationGrace: rotationGrace,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}
