// Package mocks provides mock implementations of the auth use cases for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/apikeys/internal/auth/domain"
)

// MockOwnerUseCase is a mock implementation of OwnerUseCase.
type MockOwnerUseCase struct {
	mock.Mock
}

// Create mocks the Create method of OwnerUseCase.
func (m *MockOwnerUseCase) Create(
	ctx context.Context,
	input *authDomain.CreateOwnerInput,
) (*authDomain.CreateOwnerOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.CreateOwnerOutput), args.Error(1)
}

// Get mocks the Get method of OwnerUseCase.
func (m *MockOwnerUseCase) Get(ctx context.Context, ownerID uuid.UUID) (*authDomain.Owner, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Owner), args.Error(1)
}
