package repository

import (
	"context"
	"database/sql"
	"time"

	apikeyDomain "github.com/allisson/apikeys/internal/apikey/domain"
	"github.com/allisson/apikeys/internal/database"
	apperrors "github.com/allisson/apikeys/internal/errors"
)

// MySQLAccessLogRepository implements AccessLog persistence for MySQL.
type MySQLAccessLogRepository struct {
	db *sql.DB
}

// Create inserts a new AccessLog.
func (m *MySQLAccessLogRepository) Create(ctx context.Context, accessLog *apikeyDomain.AccessLog) error {
	querier := database.GetTx(ctx, m.db)

	id, err := accessLog.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal access log id")
	}
	keyID, err := accessLog.APIKeyID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal api key id")
	}
	ownerID, err := accessLog.OwnerID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal owner id")
	}

	query := `INSERT INTO access_logs
			  (id, api_key_id, owner_id, endpoint, method, ip_address, user_agent, status_code, response_time_ms, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		keyID,
		ownerID,
		accessLog.Endpoint,
		accessLog.Method,
		accessLog.IPAddress,
		accessLog.UserAgent,
		accessLog.StatusCode,
		accessLog.ResponseTimeMillis(),
		accessLog.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create access log")
	}
	return nil
}

// DeleteOlderThan removes access logs created before olderThan and returns the count.
// With dryRun the matching rows are only counted.
func (m *MySQLAccessLogRepository) DeleteOlderThan(
	ctx context.Context,
	olderThan time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	if dryRun {
		var count int64
		query := `SELECT COUNT(*) FROM access_logs WHERE created_at < ?`
		if err := querier.QueryRowContext(ctx, query, olderThan).Scan(&count); err != nil {
			return 0, apperrors.Wrap(err, "failed to count access logs")
		}
		return count, nil
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM access_logs WHERE created_at < ?`, olderThan)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete access logs")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}
	return count, nil
}

// NewMySQLAccessLogRepository creates a new MySQL AccessLog repository.
func NewMySQLAccessLogRepository(db *sql.DB) *MySQLAccessLogRepository {
	return &MySQLAccessLogRepository{db: db}
}
