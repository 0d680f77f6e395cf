package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/apikeys/internal/auth/domain"
	authService "github.com/allisson/apikeys/internal/auth/service"
	apperrors "github.com/allisson/apikeys/internal/errors"
)

// ownerUseCase implements OwnerUseCase.
type ownerUseCase struct {
	ownerRepo     OwnerRepository
	secretService authService.SecretService
}

// Create generates a secret for a new active owner and persists it.
func (o *ownerUseCase) Create(
	ctx context.Context,
	input *authDomain.CreateOwnerInput,
) (*authDomain.CreateOwnerOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "owner name is required")
	}

	plainSecret, hashedSecret, err := o.secretService.GenerateSecret()
	if err != nil {
		return nil, err
	}

	owner := &authDomain.Owner{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      name,
		Secret:    hashedSecret,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if err := o.ownerRepo.Create(ctx, owner); err != nil {
		return nil, err
	}

	return &authDomain.CreateOwnerOutput{
		ID:          owner.ID,
		PlainSecret: plainSecret,
	}, nil
}

// Get retrieves an owner by ID.
func (o *ownerUseCase) Get(ctx context.Context, ownerID uuid.UUID) (*authDomain.Owner, error) {
	return o.ownerRepo.Get(ctx, ownerID)
}

// NewOwnerUseCase creates a new OwnerUseCase.
func NewOwnerUseCase(ownerRepo OwnerRepository, secretService authService.SecretService) OwnerUseCase {
	return &ownerUseCase{
		ownerRepo:     ownerRepo,
		secretService: secretService,
	}
}
