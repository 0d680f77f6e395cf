package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/apikeys/internal/auth/domain"
)

func newTestOwner() *authDomain.Owner {
	return &authDomain.Owner{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      "acme",
		Secret:    "$argon2id$hash",
		IsActive:  true,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func mustBinary(t *testing.T, id uuid.UUID) []byte {
	t.Helper()
	b, err := id.MarshalBinary()
	require.NoError(t, err)
	return b
}

func TestPostgreSQLOwnerRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewPostgreSQLOwnerRepository(db)
	owner := newTestOwner()

	mock.ExpectExec("INSERT INTO owners").
		WithArgs(owner.ID, owner.Secret, owner.Name, owner.IsActive, owner.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Create(context.Background(), owner))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLOwnerRepository_Get(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLOwnerRepository(db)
		owner := newTestOwner()

		rows := sqlmock.NewRows([]string{"id", "secret", "name", "is_active", "created_at"}).
			AddRow(owner.ID.String(), owner.Secret, owner.Name, owner.IsActive, owner.CreatedAt)
		mock.ExpectQuery("SELECT id, secret, name, is_active, created_at FROM owners").
			WithArgs(owner.ID).
			WillReturnRows(rows)

		got, err := repo.Get(context.Background(), owner.ID)
		require.NoError(t, err)
		assert.Equal(t, owner, got)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLOwnerRepository(db)
		mock.ExpectQuery("FROM owners").WillReturnError(sql.ErrNoRows)

		_, err = repo.Get(context.Background(), uuid.New())
		assert.ErrorIs(t, err, authDomain.ErrOwnerNotFound)
	})

	t.Run("DatabaseError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLOwnerRepository(db)
		mock.ExpectQuery("FROM owners").WillReturnError(errors.New("connection reset"))

		_, err = repo.Get(context.Background(), uuid.New())
		assert.Error(t, err)
		assert.NotErrorIs(t, err, authDomain.ErrOwnerNotFound)
		assert.Contains(t, err.Error(), "failed to get owner")
	})
}

func TestMySQLOwnerRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewMySQLOwnerRepository(db)
	owner := newTestOwner()

	mock.ExpectExec("INSERT INTO owners").
		WithArgs(mustBinary(t, owner.ID), owner.Secret, owner.Name, owner.IsActive, owner.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Create(context.Background(), owner))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLOwnerRepository_Get(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewMySQLOwnerRepository(db)
		owner := newTestOwner()

		rows := sqlmock.NewRows([]string{"id", "secret", "name", "is_active", "created_at"}).
			AddRow(mustBinary(t, owner.ID), owner.Secret, owner.Name, owner.IsActive, owner.CreatedAt)
		mock.ExpectQuery("FROM owners WHERE id = ?").
			WithArgs(mustBinary(t, owner.ID)).
			WillReturnRows(rows)

		got, err := repo.Get(context.Background(), owner.ID)
		require.NoError(t, err)
		assert.Equal(t, owner, got)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewMySQLOwnerRepository(db)
		mock.ExpectQuery("FROM owners").WillReturnError(sql.ErrNoRows)

		_, err = repo.Get(context.Background(), uuid.New())
		assert.ErrorIs(t, err, authDomain.ErrOwnerNotFound)
	})

	t.Run("InvalidID", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewMySQLOwnerRepository(db)
		owner := newTestOwner()

		rows := sqlmock.NewRows([]string{"id", "secret", "name", "is_active", "created_at"}).
			AddRow([]byte{0x01}, owner.Secret, owner.Name, owner.IsActive, owner.CreatedAt)
		mock.ExpectQuery("FROM owners").WillReturnRows(rows)

		_, err = repo.Get(context.Background(), owner.ID)
		assert.ErrorContains(t, err, "failed to unmarshal owner id")
	})
}
