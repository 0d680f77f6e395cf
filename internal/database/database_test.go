package database

import (
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/apikeys/internal/errors"
)

func TestConnect_Error(t *testing.T) {
	cfg := Config{
		Driver:             "invalid",
		ConnectionString:   "invalid",
		MaxOpenConnections: 10,
		MaxIdleConnections: 5,
		ConnMaxLifetime:    time.Hour,
	}

	db, err := Connect(cfg)
	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "sql: unknown driver")
}

func TestUniqueViolation(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantConstraint string
		wantOK         bool
	}{
		{
			name:           "postgres unique violation",
			err:            &pq.Error{Code: "23505", Constraint: "api_keys_owner_id_name_key"},
			wantConstraint: "api_keys_owner_id_name_key",
			wantOK:         true,
		},
		{
			name:   "postgres other error",
			err:    &pq.Error{Code: "23503", Constraint: "api_keys_owner_id_fkey"},
			wantOK: false,
		},
		{
			name: "mysql 8 duplicate entry",
			err: &mysql.MySQLError{
				Number:  1062,
				Message: "Duplicate entry 'x' for key 'api_keys.api_keys_secret_hash_key'",
			},
			wantConstraint: "api_keys_secret_hash_key",
			wantOK:         true,
		},
		{
			name: "mysql 5.7 duplicate entry",
			err: &mysql.MySQLError{
				Number:  1062,
				Message: "Duplicate entry 'x' for key 'api_keys_owner_id_name_key'",
			},
			wantConstraint: "api_keys_owner_id_name_key",
			wantOK:         true,
		},
		{
			name:   "mysql other error",
			err:    &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"},
			wantOK: false,
		},
		{
			name:           "wrapped postgres error",
			err:            apperrors.Wrap(&pq.Error{Code: "23505", Constraint: "owners_pkey"}, "failed"),
			wantConstraint: "owners_pkey",
			wantOK:         true,
		},
		{
			name:   "plain error",
			err:    assert.AnError,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			constraint, ok := UniqueViolation(tt.err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantConstraint, constraint)
		})
	}
}
