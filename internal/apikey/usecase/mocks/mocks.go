// Package mocks provides mock implementations of the API key use cases and repositories.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	apikeyDomain "github.com/allisson/apikeys/internal/apikey/domain"
)

// MockAPIKeyRepository is a mock implementation of APIKeyRepository.
type MockAPIKeyRepository struct {
	mock.Mock
}

func (m *MockAPIKeyRepository) Create(ctx context.Context, key *apikeyDomain.APIKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockAPIKeyRepository) Update(ctx context.Context, key *apikeyDomain.APIKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockAPIKeyRepository) GetByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	keyID uuid.UUID,
) (*apikeyDomain.APIKey, error) {
	args := m.Called(ctx, ownerID, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apikeyDomain.APIKey), args.Error(1)
}

func (m *MockAPIKeyRepository) GetByOwnerAndName(
	ctx context.Context,
	ownerID uuid.UUID,
	name string,
) (*apikeyDomain.APIKey, error) {
	args := m.Called(ctx, ownerID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apikeyDomain.APIKey), args.Error(1)
}

func (m *MockAPIKeyRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*apikeyDomain.APIKey, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*apikeyDomain.APIKey), args.Error(1)
}

func (m *MockAPIKeyRepository) CountActive(ctx context.Context, ownerID uuid.UUID, asOf time.Time) (int, error) {
	args := m.Called(ctx, ownerID, asOf)
	return args.Int(0), args.Error(1)
}

func (m *MockAPIKeyRepository) ListCandidatesByPrefix(
	ctx context.Context,
	prefix string,
) ([]*apikeyDomain.APIKey, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*apikeyDomain.APIKey), args.Error(1)
}

func (m *MockAPIKeyRepository) LockOwner(ctx context.Context, ownerID uuid.UUID) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

func (m *MockAPIKeyRepository) BackfillExpiration(
	ctx context.Context,
	expiresAt time.Time,
	dryRun bool,
) (int64, error) {
	args := m.Called(ctx, expiresAt, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// MockAccessLogRepository is a mock implementation of AccessLogRepository.
type MockAccessLogRepository struct {
	mock.Mock
}

func (m *MockAccessLogRepository) Create(ctx context.Context, accessLog *apikeyDomain.AccessLog) error {
	args := m.Called(ctx, accessLog)
	return args.Error(0)
}

func (m *MockAccessLogRepository) DeleteOlderThan(
	ctx context.Context,
	olderThan time.Time,
	dryRun bool,
) (int64, error) {
	args := m.Called(ctx, olderThan, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// MockAPIKeyUseCase is a mock implementation of APIKeyUseCase.
type MockAPIKeyUseCase struct {
	mock.Mock
}

func (m *MockAPIKeyUseCase) Generate(
	ctx context.Context,
	ownerID uuid.UUID,
	name string,
) (*apikeyDomain.GenerateAPIKeyOutput, error) {
	args := m.Called(ctx, ownerID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apikeyDomain.GenerateAPIKeyOutput), args.Error(1)
}

func (m *MockAPIKeyUseCase) List(ctx context.Context, ownerID uuid.UUID) ([]*apikeyDomain.APIKey, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*apikeyDomain.APIKey), args.Error(1)
}

func (m *MockAPIKeyUseCase) Get(ctx context.Context, ownerID uuid.UUID, keyID uuid.UUID) (*apikeyDomain.APIKey, error) {
	args := m.Called(ctx, ownerID, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apikeyDomain.APIKey), args.Error(1)
}

func (m *MockAPIKeyUseCase) Revoke(
	ctx context.Context,
	ownerID uuid.UUID,
	keyID uuid.UUID,
) (*apikeyDomain.APIKey, error) {
	args := m.Called(ctx, ownerID, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apikeyDomain.APIKey), args.Error(1)
}

func (m *MockAPIKeyUseCase) Rotate(
	ctx context.Context,
	ownerID uuid.UUID,
	keyID uuid.UUID,
) (*apikeyDomain.RotateAPIKeyOutput, error) {
	args := m.Called(ctx, ownerID, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apikeyDomain.RotateAPIKeyOutput), args.Error(1)
}

func (m *MockAPIKeyUseCase) BackfillExpiration(ctx context.Context, days int, dryRun bool) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// MockVerificationUseCase is a mock implementation of VerificationUseCase.
type MockVerificationUseCase struct {
	mock.Mock
}

func (m *MockVerificationUseCase) Verify(ctx context.Context, presented string) (*apikeyDomain.APIKey, error) {
	args := m.Called(ctx, presented)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apikeyDomain.APIKey), args.Error(1)
}

// MockAccessLogUseCase is a mock implementation of AccessLogUseCase.
type MockAccessLogUseCase struct {
	mock.Mock
}

func (m *MockAccessLogUseCase) DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}
