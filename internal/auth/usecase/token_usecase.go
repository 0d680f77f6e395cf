package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/apikeys/internal/auth/domain"
	authService "github.com/allisson/apikeys/internal/auth/service"
	"github.com/allisson/apikeys/internal/config"
)

// tokenUseCase implements TokenUseCase.
type tokenUseCase struct {
	config        *config.Config
	ownerRepo     OwnerRepository
	tokenRepo     TokenRepository
	secretService authService.SecretService
	tokenService  authService.TokenService
}

// Issue authenticates an owner and stores the hash of a new bearer token.
//
// Unknown owners and wrong secrets both yield ErrInvalidCredentials so that owner ids
// cannot be enumerated. An inactive owner with a valid secret yields ErrOwnerInactive.
func (t *tokenUseCase) Issue(
	ctx context.Context,
	input *authDomain.IssueTokenInput,
) (*authDomain.IssueTokenOutput, error) {
	owner, err := t.ownerRepo.Get(ctx, input.OwnerID)
	if err != nil {
		if errors.Is(err, authDomain.ErrOwnerNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !t.secretService.CompareSecret(input.OwnerSecret, owner.Secret) {
		return nil, authDomain.ErrInvalidCredentials
	}

	if !owner.IsActive {
		return nil, authDomain.ErrOwnerInactive
	}

	plainToken, tokenHash, err := t.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	token := &authDomain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: tokenHash,
		OwnerID:   owner.ID,
		ExpiresAt: now.Add(t.config.AuthTokenExpiration),
		CreatedAt: now,
	}
	if err := t.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	return &authDomain.IssueTokenOutput{
		PlainToken: plainToken,
		ExpiresAt:  token.ExpiresAt,
	}, nil
}

// Authenticate validates a token hash and returns the owner it was issued to.
// Missing, expired and revoked tokens all yield ErrInvalidCredentials.
func (t *tokenUseCase) Authenticate(ctx context.Context, tokenHash string) (*authDomain.Owner, error) {
	token, err := t.tokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, authDomain.ErrTokenNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !token.IsValid(time.Now().UTC()) {
		return nil, authDomain.ErrInvalidCredentials
	}

	owner, err := t.ownerRepo.Get(ctx, token.OwnerID)
	if err != nil {
		if errors.Is(err, authDomain.ErrOwnerNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !owner.IsActive {
		return nil, authDomain.ErrOwnerInactive
	}

	return owner, nil
}

// NewTokenUseCase creates a new TokenUseCase. Tokens live for config.AuthTokenExpiration.
func NewTokenUseCase(
	config *config.Config,
	ownerRepo OwnerRepository,
	tokenRepo TokenRepository,
	secretService authService.SecretService,
	tokenService authService.TokenService,
) TokenUseCase {
	return &tokenUseCase{
		config:        config,
		ownerRepo:     ownerRepo,
		tokenRepo:     tokenRepo,
		secretService: secretService,
		tokenService:  tokenService,
	}
}
