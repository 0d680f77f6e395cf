// Package repository implements data persistence for owners and bearer tokens.
//
// Provides PostgreSQL and MySQL implementations with transaction support via database.GetTx().
// PostgreSQL uses native UUID types, MySQL uses BINARY(16) types.
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

// PostgreSQLOwnerRepository implements Owner persistence for PostgreSQL.
type PostgreSQLOwnerRepository struct {
	db *sql.DB
}

// Create inserts a new Owner into the PostgreSQL database.
func (p *PostgreSQLOwnerRepository) Create(ctx context.Context, owner *authDomain.Owner) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO owners (id, secret, name, is_active, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		owner.ID,
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

// Get retrieves an Owner by ID from the PostgreSQL database.
func (p *PostgreSQLOwnerRepository) Get(ctx context.Context, ownerID uuid.UUID) (*authDomain.Owner, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, secret, name, is_active, created_at FROM owners WHERE id = $1`

	var owner authDomain.Owner

	err := querier.QueryRowContext(ctx, query, ownerID).Scan(
		&owner.ID,
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

	return &owner, nil
}

// NewPostgreSQLOwnerRepository creates a new PostgreSQL Owner repository.
func NewPostgreSQLOwnerRepository(db *sql.DB) *PostgreSQLOwnerRepository {
	return &PostgreSQLOwnerRepository{db: db}
}
