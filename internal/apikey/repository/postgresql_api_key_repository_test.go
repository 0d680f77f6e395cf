package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apikeyDomain "github.com/allisson/apikeys/internal/apikey/domain"
	"github.com/allisson/apikeys/internal/database"
)

var apiKeyColumnNames = []string{
	"id", "owner_id", "name", "secret_hash", "lookup_prefix", "is_active",
	"expires_at", "revoked_at", "rotated_from_id", "created_at", "updated_at",
}

func newTestAPIKey() *apikeyDomain.APIKey {
	now := time.Now().UTC().Truncate(time.Second)
	return &apikeyDomain.APIKey{
		ID:           uuid.Must(uuid.NewV7()),
		OwnerID:      uuid.Must(uuid.NewV7()),
		Name:         "Production",
		SecretHash:   "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		LookupPrefix: "sk_live_abcd",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestPostgreSQLAPIKeyRepository_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLAPIKeyRepository(db)
		key := newTestAPIKey()
		rotatedFrom := uuid.Must(uuid.NewV7())
		key.RotatedFromID = &rotatedFrom

		mock.ExpectExec("INSERT INTO api_keys").
			WithArgs(
				key.ID, key.OwnerID, key.Name, key.SecretHash, key.LookupPrefix, key.IsActive,
				sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), key.CreatedAt, key.UpdatedAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Create(context.Background(), key)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{
			name:    "DuplicateName",
			dbErr:   &pq.Error{Code: "23505", Constraint: "api_keys_owner_id_name_key"},
			wantErr: apikeyDomain.ErrDuplicateName,
		},
		{
			name:    "SecretHashConflict",
			dbErr:   &pq.Error{Code: "23505", Constraint: "api_keys_secret_hash_key"},
			wantErr: apikeyDomain.ErrSecretHashConflict,
		},
		{
			name:    "OtherError",
			dbErr:   sql.ErrConnDone,
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			repo := NewPostgreSQLAPIKeyRepository(db)
			mock.ExpectExec("INSERT INTO api_keys").WillReturnError(tt.dbErr)

			err = repo.Create(context.Background(), newTestAPIKey())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPostgreSQLAPIKeyRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewPostgreSQLAPIKeyRepository(db)
	key := newTestAPIKey()
	revokedAt := time.Now().UTC()
	key.IsActive = false
	key.RevokedAt = &revokedAt

	mock.ExpectExec("UPDATE api_keys").
		WithArgs(false, sqlmock.AnyArg(), sqlmock.AnyArg(), key.UpdatedAt, key.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Update(context.Background(), key)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLAPIKeyRepository_GetByOwner(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLAPIKeyRepository(db)
		key := newTestAPIKey()
		expiresAt := key.CreatedAt.Add(24 * time.Hour)
		rotatedFrom := uuid.Must(uuid.NewV7())

		rows := sqlmock.NewRows(apiKeyColumnNames).AddRow(
			key.ID.String(), key.OwnerID.String(), key.Name, key.SecretHash, key.LookupPrefix, true,
			expiresAt, nil, rotatedFrom.String(), key.CreatedAt, key.UpdatedAt,
		)
		mock.ExpectQuery("SELECT (.+) FROM api_keys WHERE id = \\$1 AND owner_id = \\$2").
			WithArgs(key.ID, key.OwnerID).
			WillReturnRows(rows)

		got, err := repo.GetByOwner(context.Background(), key.OwnerID, key.ID)
		require.NoError(t, err)
		assert.Equal(t, key.ID, got.ID)
		assert.Equal(t, key.OwnerID, got.OwnerID)
		assert.Equal(t, "Production", got.Name)
		require.NotNil(t, got.ExpiresAt)
		assert.True(t, expiresAt.Equal(*got.ExpiresAt))
		assert.Nil(t, got.RevokedAt)
		require.NotNil(t, got.RotatedFromID)
		assert.Equal(t, rotatedFrom, *got.RotatedFromID)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLAPIKeyRepository(db)
		mock.ExpectQuery("SELECT (.+) FROM api_keys").WillReturnError(sql.ErrNoRows)

		got, err := repo.GetByOwner(context.Background(), uuid.New(), uuid.New())
		assert.Nil(t, got)
		assert.ErrorIs(t, err, apikeyDomain.ErrAPIKeyNotFound)
	})
}

func TestPostgreSQLAPIKeyRepository_GetByOwnerAndName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewPostgreSQLAPIKeyRepository(db)
	ownerID := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM api_keys WHERE owner_id = \\$1 AND name = \\$2").
		WithArgs(ownerID, "missing").
		WillReturnRows(sqlmock.NewRows(apiKeyColumnNames))

	got, err := repo.GetByOwnerAndName(context.Background(), ownerID, "missing")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apikeyDomain.ErrAPIKeyNotFound)
}

func TestPostgreSQLAPIKeyRepository_ListByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewPostgreSQLAPIKeyRepository(db)
	newer := newTestAPIKey()
	older := newTestAPIKey()
	older.OwnerID = newer.OwnerID
	older.CreatedAt = newer.CreatedAt.Add(-time.Hour)

	rows := sqlmock.NewRows(apiKeyColumnNames)
	for _, k := range []*apikeyDomain.APIKey{newer, older} {
		rows.AddRow(
			k.ID.String(), k.OwnerID.String(), k.Name, k.SecretHash, k.LookupPrefix, k.IsActive,
			nil, nil, nil, k.CreatedAt, k.UpdatedAt,
		)
	}
	mock.ExpectQuery("ORDER BY created_at DESC, id DESC").
		WithArgs(newer.OwnerID).
		WillReturnRows(rows)

	keys, err := repo.ListByOwner(context.Background(), newer.OwnerID)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, newer.ID, keys[0].ID)
	assert.Equal(t, older.ID, keys[1].ID)
	assert.Nil(t, keys[0].RotatedFromID)
}

func TestPostgreSQLAPIKeyRepository_CountActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewPostgreSQLAPIKeyRepository(db)
	ownerID := uuid.New()
	asOf := time.Now().UTC()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM api_keys").
		WithArgs(ownerID, asOf).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountActive(context.Background(), ownerID, asOf)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPostgreSQLAPIKeyRepository_ListCandidatesByPrefix(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewPostgreSQLAPIKeyRepository(db)
	key := newTestAPIKey()

	mock.ExpectQuery("WHERE lookup_prefix = \\$1 AND is_active = TRUE").
		WithArgs("sk_live_abcd").
		WillReturnRows(sqlmock.NewRows(apiKeyColumnNames).AddRow(
			key.ID.String(), key.OwnerID.String(), key.Name, key.SecretHash, key.LookupPrefix, true,
			nil, nil, nil, key.CreatedAt, key.UpdatedAt,
		))

	keys, err := repo.ListCandidatesByPrefix(context.Background(), "sk_live_abcd")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, key.SecretHash, keys[0].SecretHash)
}

func TestPostgreSQLAPIKeyRepository_LockOwner(t *testing.T) {
	t.Run("Success_InsideTransaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLAPIKeyRepository(db)
		ownerID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM owners WHERE id = \\$1 FOR UPDATE").
			WithArgs(ownerID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(ownerID.String()))
		mock.ExpectCommit()

		txManager := database.NewTxManager(db)
		err = txManager.WithTx(context.Background(), func(ctx context.Context) error {
			return repo.LockOwner(ctx, ownerID)
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("OwnerNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLAPIKeyRepository(db)
		mock.ExpectQuery("FOR UPDATE").WillReturnRows(sqlmock.NewRows([]string{"id"}))

		err = repo.LockOwner(context.Background(), uuid.New())
		assert.ErrorIs(t, err, apikeyDomain.ErrOwnerNotFound)
	})
}

func TestPostgreSQLAPIKeyRepository_BackfillExpiration(t *testing.T) {
	expiresAt := time.Now().UTC().Add(90 * 24 * time.Hour)

	t.Run("DryRun", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLAPIKeyRepository(db)
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM api_keys WHERE is_active = TRUE AND expires_at IS NULL").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		count, err := repo.BackfillExpiration(context.Background(), expiresAt, true)
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Apply", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLAPIKeyRepository(db)
		mock.ExpectExec("UPDATE api_keys").
			WithArgs(expiresAt, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 3))

		count, err := repo.BackfillExpiration(context.Background(), expiresAt, false)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
