package repository

import (
	"context"
	"database/sql"
	"errors"

	authDomain "github.com/allisson/apikeys/internal/auth/domain"
	"github.com/allisson/apikeys/internal/database"
	apperrors "github.com/allisson/apikeys/internal/errors"
)

// MySQLTokenRepository implements Token persistence for MySQL using BINARY(16) UUIDs.
type MySQLTokenRepository struct {
	db *sql.DB
}

// Create inserts a new Token into the MySQL database.
func (m *MySQLTokenRepository) Create(ctx context.Context, token *authDomain.Token) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO tokens (id, token_hash, owner_id, expires_at, revoked_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	id, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token id")
	}

	ownerID, err := token.OwnerID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal owner id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		token.TokenHash,
		ownerID,
		token.ExpiresAt,
		token.RevokedAt,
		token.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create token")
	}
	return nil
}

// GetByTokenHash retrieves a Token by its SHA-256 hash.
func (m *MySQLTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, token_hash, owner_id, expires_at, revoked_at, created_at
			  FROM tokens WHERE token_hash = ?`

	var token authDomain.Token
	var idBytes []byte
	var ownerIDBytes []byte

	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&idBytes,
		&token.TokenHash,
		&ownerIDBytes,
		&token.ExpiresAt,
		&token.RevokedAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get token by hash")
	}

	if err := token.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal token id")
	}

	if err := token.OwnerID.UnmarshalBinary(ownerIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal owner id")
	}

	return &token, nil
}

// NewMySQLTokenRepository creates a new MySQL Token repository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}
