// Package repository implements API key and access log persistence.
//
// Provides PostgreSQL and MySQL implementations with transaction support via database.GetTx().
// PostgreSQL uses native UUID types, MySQL uses BINARY(16) types.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/apikeys/internal/apikey/domain"
	"github.com/allisson/apikeys/internal/database"
	apperrors "github.com/allisson/apikeys/internal/errors"
)

const (
	// Unique constraint names shared by both schemas.
	constraintOwnerName  = "api_keys_owner_id_name_key"
	constraintSecretHash = "api_keys_secret_hash_key"

	apiKeyColumns = `id, owner_id, name, secret_hash, lookup_prefix, is_active, expires_at, revoked_at, rotated_from_id, created_at, updated_at`
)

// mapCreateError translates unique violations raised by an api_keys insert into domain errors.
func mapCreateError(err error) error {
	if constraint, ok := database.UniqueViolation(err); ok {
		switch constraint {
		case constraintOwnerName:
			return apikeyDomain.ErrDuplicateName
		case constraintSecretHash:
			return apikeyDomain.ErrSecretHashConflict
		}
	}
	return apperrors.Wrap(err, "failed to create api key")
}

// PostgreSQLAPIKeyRepository implements APIKey persistence for PostgreSQL.
type PostgreSQLAPIKeyRepository struct {
	db *sql.DB
}

// Create inserts a new APIKey.
func (p *PostgreSQLAPIKeyRepository) Create(ctx context.Context, key *apikeyDomain.APIKey) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO api_keys (` + apiKeyColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	var rotatedFromID uuid.NullUUID
	if key.RotatedFromID != nil {
		rotatedFromID = uuid.NullUUID{UUID: *key.RotatedFromID, Valid: true}
	}

	_, err := querier.ExecContext(
		ctx,
		query,
		key.ID,
		key.OwnerID,
		key.Name,
		key.SecretHash,
		key.LookupPrefix,
		key.IsActive,
		key.ExpiresAt,
		key.RevokedAt,
		rotatedFromID,
		key.CreatedAt,
		key.UpdatedAt,
	)
	if err != nil {
		return mapCreateError(err)
	}
	return nil
}

// Update persists the mutable fields of an APIKey.
func (p *PostgreSQLAPIKeyRepository) Update(ctx context.Context, key *apikeyDomain.APIKey) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE api_keys
			  SET is_active = $1,
				  expires_at = $2,
				  revoked_at = $3,
				  updated_at = $4
			  WHERE id = $5`

	_, err := querier.ExecContext(
		ctx,
		query,
		key.IsActive,
		key.ExpiresAt,
		key.RevokedAt,
		key.UpdatedAt,
		key.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update api key")
	}
	return nil
}

// GetByOwner retrieves an APIKey by id, scoped to ownerID.
func (p *PostgreSQLAPIKeyRepository) GetByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	keyID uuid.UUID,
) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE id = $1 AND owner_id = $2`

	key, err := p.scan(querier.QueryRowContext(ctx, query, keyID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apikeyDomain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api key")
	}
	return key, nil
}

// GetByOwnerAndName retrieves an APIKey by its per-owner unique name.
func (p *PostgreSQLAPIKeyRepository) GetByOwnerAndName(
	ctx context.Context,
	ownerID uuid.UUID,
	name string,
) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE owner_id = $1 AND name = $2`

	key, err := p.scan(querier.QueryRowContext(ctx, query, ownerID, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apikeyDomain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api key by name")
	}
	return key, nil
}

// ListByOwner returns every key of the owner, newest first.
func (p *PostgreSQLAPIKeyRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + apiKeyColumns + ` FROM api_keys
			  WHERE owner_id = $1
			  ORDER BY created_at DESC, id DESC`

	rows, err := querier.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api keys")
	}
	return p.scanAll(rows, "failed to list api keys")
}

// CountActive counts the owner's keys that are active and unexpired at asOf.
func (p *PostgreSQLAPIKeyRepository) CountActive(
	ctx context.Context,
	ownerID uuid.UUID,
	asOf time.Time,
) (int, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM api_keys
			  WHERE owner_id = $1 AND is_active = TRUE AND (expires_at IS NULL OR expires_at > $2)`

	var count int
	if err := querier.QueryRowContext(ctx, query, ownerID, asOf).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count active api keys")
	}
	return count, nil
}

// ListCandidatesByPrefix returns active keys of any owner sharing the lookup prefix, in insertion order.
func (p *PostgreSQLAPIKeyRepository) ListCandidatesByPrefix(
	ctx context.Context,
	prefix string,
) ([]*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + apiKeyColumns + ` FROM api_keys
			  WHERE lookup_prefix = $1 AND is_active = TRUE
			  ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, prefix)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api key candidates")
	}
	return p.scanAll(rows, "failed to list api key candidates")
}

// LockOwner takes a row lock on the owner for the rest of the current transaction.
func (p *PostgreSQLAPIKeyRepository) LockOwner(ctx context.Context, ownerID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	var id uuid.UUID
	err := querier.QueryRowContext(ctx, `SELECT id FROM owners WHERE id = $1 FOR UPDATE`, ownerID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apikeyDomain.ErrOwnerNotFound
		}
		return apperrors.Wrap(err, "failed to lock owner")
	}
	return nil
}

// BackfillExpiration sets expiresAt on active keys that have no expiry.
// With dryRun the matching keys are only counted.
func (p *PostgreSQLAPIKeyRepository) BackfillExpiration(
	ctx context.Context,
	expiresAt time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	if dryRun {
		var count int64
		query := `SELECT COUNT(*) FROM api_keys WHERE is_active = TRUE AND expires_at IS NULL`
		if err := querier.QueryRowContext(ctx, query).Scan(&count); err != nil {
			return 0, apperrors.Wrap(err, "failed to count api keys without expiration")
		}
		return count, nil
	}

	query := `UPDATE api_keys
			  SET expires_at = $1, updated_at = $2
			  WHERE is_active = TRUE AND expires_at IS NULL`

	result, err := querier.ExecContext(ctx, query, expiresAt, time.Now().UTC())
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to backfill api key expiration")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (p *PostgreSQLAPIKeyRepository) scan(row rowScanner) (*apikeyDomain.APIKey, error) {
	var key apikeyDomain.APIKey
	var rotatedFromID uuid.NullUUID

	err := row.Scan(
		&key.ID,
		&key.OwnerID,
		&key.Name,
		&key.SecretHash,
		&key.LookupPrefix,
		&key.IsActive,
		&key.ExpiresAt,
		&key.RevokedAt,
		&rotatedFromID,
		&key.CreatedAt,
		&key.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if rotatedFromID.Valid {
		id := rotatedFromID.UUID
		key.RotatedFromID = &id
	}
	return &key, nil
}

func (p *PostgreSQLAPIKeyRepository) scanAll(rows *sql.Rows, message string) ([]*apikeyDomain.APIKey, error) {
	defer func() {
		_ = rows.Close()
	}()

	keys := make([]*apikeyDomain.APIKey, 0)
	for rows.Next() {
		key, err := p.scan(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, message)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, message)
	}
	return keys, nil
}

// NewPostgreSQLAPIKeyRepository creates a new PostgreSQL APIKey repository.
func NewPostgreSQLAPIKeyRepository(db *sql.DB) *PostgreSQLAPIKeyRepository {
	return &PostgreSQLAPIKeyRepository{db: db}
}
