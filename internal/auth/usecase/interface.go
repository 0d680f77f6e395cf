// Package usecase implements owner management and bearer token authentication.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/allisson/apikeys/internal/auth/domain"
)

// OwnerRepository defines persistence operations for owners.
type OwnerRepository interface {
	Create(ctx context.Context, owner *authDomain.Owner) error

	// Get retrieves an owner by ID. Returns ErrOwnerNotFound if not found.
	Get(ctx context.Context, ownerID uuid.UUID) (*authDomain.Owner, error)
}

// TokenRepository defines persistence operations for bearer tokens.
type TokenRepository interface {
	Create(ctx context.Context, token *authDomain.Token) error

	// GetByTokenHash retrieves a token by its hash. Returns ErrTokenNotFound if not found.
	GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error)
}

// OwnerUseCase manages owners.
type OwnerUseCase interface {
	// Create registers a new owner and returns its one-time plaintext secret.
	Create(ctx context.Context, input *authDomain.CreateOwnerInput) (*authDomain.CreateOwnerOutput, error)

	Get(ctx context.Context, ownerID uuid.UUID) (*authDomain.Owner, error)
}

// TokenUseCase issues and authenticates owner bearer tokens.
type TokenUseCase interface {
	// Issue exchanges owner credentials for a bearer token.
	// Unknown owners and wrong secrets both return ErrInvalidCredentials.
	Issue(ctx context.Context, input *authDomain.IssueTokenInput) (*authDomain.IssueTokenOutput, error)

	// Authenticate resolves a token hash to its active owner.
	Authenticate(ctx context.Context, tokenHash string) (*authDomain.Owner, error)
}
