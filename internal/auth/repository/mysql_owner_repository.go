package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	authDomain "github.com/allisson/apikeys/internal/auth/domain"
	"github.com/allisson/apikeys/internal/database"
	apperrors "github.com/allisson/apikeys/internal/errors"
)

// MySQLOwnerRepository implements Owner persistence for MySQL using BINARY(16) UUIDs.
type MySQLOwnerRepository struct {
	db *sql.DB
}

// Create inserts a new Owner into the MySQL database.
func (m *MySQLOwnerRepository) Create(ctx context.Context, owner *authDomain.Owner) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO owners (id, secret, name, is_active, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	id, err := owner.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal owner id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		owner.Secret,
		owner.Name,
		owner.IsActive,
		owner.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create owner")
	}
	return nil
}

// Get retrieves an Owner by ID from the MySQL database.
func (m *MySQLOwnerRepository) Get(ctx context.Context, ownerID uuid.UUID) (*authDomain.Owner, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, secret, name, is_active, created_at FROM owners WHERE id = ?`

	id, err := ownerID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal owner id")
	}

	var owner authDomain.Owner
	var idBytes []byte

	err = querier.QueryRowContext(ctx, query, id).Scan(
		&idBytes,
		&owner.Secret,
		&owner.Name,
		&owner.IsActive,
		&owner.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrOwnerNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get owner")
	}

	if err := owner.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal owner id")
	}

	return &owner, nil
}

// NewMySQLOwnerRepository creates a new MySQL Owner repository.
func NewMySQLOwnerRepository(db *sql.DB) *MySQLOwnerRepository {
	return &MySQLOwnerRepository{db: db}
}
