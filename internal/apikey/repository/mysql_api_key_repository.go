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

// MySQLAPIKeyRepository implements APIKey persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLAPIKeyRepository struct {
	db *sql.DB
}

// Create inserts a new APIKey.
func (m *MySQLAPIKeyRepository) Create(ctx context.Context, key *apikeyDomain.APIKey) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO api_keys (` + apiKeyColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := key.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal api key id")
	}

	ownerID, err := key.OwnerID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal owner id")
	}

	var rotatedFromID []byte
	if key.RotatedFromID != nil {
		rotatedFromID, err = key.RotatedFromID.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal rotated from id")
		}
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		ownerID,
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
func (m *MySQLAPIKeyRepository) Update(ctx context.Context, key *apikeyDomain.APIKey) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE api_keys
			  SET is_active = ?,
				  expires_at = ?,
				  revoked_at = ?,
				  updated_at = ?
			  WHERE id = ?`

	id, err := key.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal api key id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		key.IsActive,
		key.ExpiresAt,
		key.RevokedAt,
		key.UpdatedAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update api key")
	}
	return nil
}

// GetByOwner retrieves an APIKey by id, scoped to ownerID.
func (m *MySQLAPIKeyRepository) GetByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	keyID uuid.UUID,
) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := keyID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal api key id")
	}
	owner, err := ownerID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal owner id")
	}

	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE id = ? AND owner_id = ?`

	key, err := m.scan(querier.QueryRowContext(ctx, query, id, owner))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apikeyDomain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api key")
	}
	return key, nil
}

// GetByOwnerAndName retrieves an APIKey by its per-owner unique name.
func (m *MySQLAPIKeyRepository) GetByOwnerAndName(
	ctx context.Context,
	ownerID uuid.UUID,
	name string,
) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	owner, err := ownerID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal owner id")
	}

	// name is declared with a binary collation, so the comparison is case-sensitive.
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE owner_id = ? AND name = ?`

	key, err := m.scan(querier.QueryRowContext(ctx, query, owner, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apikeyDomain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api key by name")
	}
	return key, nil
}

// ListByOwner returns every key of the owner, newest first.
func (m *MySQLAPIKeyRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	owner, err := ownerID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal owner id")
	}

	query := `SELECT ` + apiKeyColumns + ` FROM api_keys
			  WHERE owner_id = ?
			  ORDER BY created_at DESC, id DESC`

	rows, err := querier.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api keys")
	}
	return m.scanAll(rows, "failed to list api keys")
}

// CountActive counts the owner's keys that are active and unexpired at asOf.
func (m *MySQLAPIKeyRepository) CountActive(
	ctx context.Context,
	ownerID uuid.UUID,
	asOf time.Time,
) (int, error) {
	querier := database.GetTx(ctx, m.db)

	owner, err := ownerID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal owner id")
	}

	query := `SELECT COUNT(*) FROM api_keys
			  WHERE owner_id = ? AND is_active = TRUE AND (expires_at IS NULL OR expires_at > ?)`

	var count int
	if err := querier.QueryRowContext(ctx, query, owner, asOf).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count active api keys")
	}
	return count, nil
}

// ListCandidatesByPrefix returns active keys of any owner sharing the lookup prefix, in insertion order.
func (m *MySQLAPIKeyRepository) ListCandidatesByPrefix(
	ctx context.Context,
	prefix string,
) ([]*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + apiKeyColumns + ` FROM api_keys
			  WHERE lookup_prefix = ? AND is_active = TRUE
			  ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, prefix)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api key candidates")
	}
	return m.scanAll(rows, "failed to list api key candidates")
}

// LockOwner takes a row lock on the owner for the rest of the current transaction.
func (m *MySQLAPIKeyRepository) LockOwner(ctx context.Context, ownerID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	owner, err := ownerID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal owner id")
	}

	var idBytes []byte
	err = querier.QueryRowContext(ctx, `SELECT id FROM owners WHERE id = ? FOR UPDATE`, owner).Scan(&idBytes)
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
func (m *MySQLAPIKeyRepository) BackfillExpiration(
	ctx context.Context,
	expiresAt time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	if dryRun {
		var count int64
		query := `SELECT COUNT(*) FROM api_keys WHERE is_active = TRUE AND expires_at IS NULL`
		if err := querier.QueryRowContext(ctx, query).Scan(&count); err != nil {
			return 0, apperrors.Wrap(err, "failed to count api keys without expiration")
		}
		return count, nil
	}

	query := `UPDATE api_keys
			  SET expires_at = ?, updated_at = ?
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

func (m *MySQLAPIKeyRepository) scan(row rowScanner) (*apikeyDomain.APIKey, error) {
	var key apikeyDomain.APIKey
	var idBytes, ownerBytes, rotatedFromBytes []byte

	err := row.Scan(
		&idBytes,
		&ownerBytes,
		&key.Name,
		&key.SecretHash,
		&key.LookupPrefix,
		&key.IsActive,
		&key.ExpiresAt,
		&key.RevokedAt,
		&rotatedFromBytes,
		&key.CreatedAt,
		&key.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := key.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal api key id")
	}
	if err := key.OwnerID.UnmarshalBinary(ownerBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal owner id")
	}
	if rotatedFromBytes != nil {
		var rotatedFromID uuid.UUID
		if err := rotatedFromID.UnmarshalBinary(rotatedFromBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal rotated from id")
		}
		key.RotatedFromID = &rotatedFromID
	}
	return &key, nil
}

func (m *MySQLAPIKeyRepository) scanAll(rows *sql.Rows, message string) ([]*apikeyDomain.APIKey, error) {
	defer func() {
		_ = rows.Close()
	}()

	keys := make([]*apikeyDomain.APIKey, 0)
	for rows.Next() {
		key, err := m.scan(rows)
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

// NewMySQLAPIKeyRepository creates a new MySQL APIKey repository.
func NewMySQLAPIKeyRepository(db *sql.DB) *MySQLAPIKeyRepository {
	return &MySQLAPIKeyRepository{db: db}
}
