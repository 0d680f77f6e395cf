package usecase

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	apikeyDomain "github.com/allisson/apikeys/internal/apikey/domain"
	apikeyService "github.com/allisson/apikeys/internal/apikey/service"
)

// verificationUseCase implements VerificationUseCase.
type verificationUseCase struct {
	apiKeyRepo APIKeyRepository
	codec      apikeyService.SecretCodec
	lookups    singleflight.Group
	now        func() time.Time
}

// candidates loads the active keys for prefix, sharing one query between concurrent callers.
//
// The shared query is detached from the caller that started it, so a cancelled caller only
// abandons its own wait.
func (v *verificationUseCase) candidates(ctx context.Context, prefix string) ([]*apikeyDomain.APIKey, error) {
	lookupCtx := context.WithoutCancel(ctx)
	results := v.lookups.DoChan(prefix, func() (any, error) {
		return v.apiKeyRepo.ListCandidatesByPrefix(lookupCtx, prefix)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-results:
		if result.Err != nil {
			return nil, result.Err
		}
		return result.Val.([]*apikeyDomain.APIKey), nil
	}
}

// Verify resolves presented to a usable key.
//
// Expired candidates are skipped without hashing. The first candidate whose digest matches
// wins. Unknown, malformed, revoked, expired and mismatched secrets all yield
// ErrInvalidOrExpiredCredential. Malformed secrets never reach the store.
func (v *verificationUseCase) Verify(ctx context.Context, presented string) (*apikeyDomain.APIKey, error) {
	if presented == "" {
		return nil, apikeyDomain.ErrMissingCredential
	}
	if !apikeyDomain.IsWellFormedSecret(presented) {
		return nil, apikeyDomain.ErrInvalidOrExpiredCredential
	}

	candidates, err := v.candidates(ctx, v.codec.LookupPrefix(presented))
	if err != nil {
		return nil, err
	}

	now := v.now()
	for _, candidate := range candidates {
		if !candidate.IsUsable(now) {
			continue
		}
		if v.codec.Verify(presented, candidate.SecretHash) {
			// Candidates may be shared with concurrent callers.
			matched := *candidate
			return &matched, nil
		}
	}

	return nil, apikeyDomain.ErrInvalidOrExpiredCredential
}

// NewVerificationUseCase creates a new VerificationUseCase.
func NewVerificationUseCase(apiKeyRepo APIKeyRepository, codec apikeyService.SecretCodec) VerificationUseCase {
	return &verificationUseCase{
		apiKeyRepo: apiKeyRepo,
		codec:      codec,
		now:        func() time.Time { return time.Now().UTC() },
	}
}
