package repository

import (
	"context"
	"database/sql"
	"time"

	apikeyDomain "github.com/allisson/apikeys/internal/apikey/domain"
	"github.com/allisson/apikeys/internal/database"
	apperrors "github.com/allisson/apikeys/internal/errors"
)

// PostgreSQLAccessLogRepository implements AccessLog persistence for PostgreSQL.
type PostgreSQLAccessLogRepository struct {
	db *sql.DB
}

// Create inserts a new AccessLog.
func (p *PostgreSQLAccessLogRepository) Create(ctx context.Context, accessLog *apikeyDomain.AccessLog) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO access_logs
			  (id, api_key_id, owner_id, endpoint, method, ip_address, user_agent, status_code, response_time_ms, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := querier.ExecContext(
		ctx,
		query,
		accessLog.ID,
		accessLog.APIKeyID,
		accessLog.OwnerID,
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
func (p *PostgreSQLAccessLogRepository) DeleteOlderThan(
	ctx context.Context,
	olderThan time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	if dryRun {
		var count int64
		query := `SELECT COUNT(*) FROM access_logs WHERE created_at < $1`
		if err := querier.QueryRowContext(ctx, query, olderThan).Scan(&count); err != nil {
			return 0, apperrors.Wrap(err, "failed to count access logs")
		}
		return count, nil
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM access_logs WHERE created_at < $1`, olderThan)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete access logs")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}
	return count, nil
}

// NewPostgreSQLAccessLogRepository creates a new PostgreSQL AccessLog repository.
func NewPostgreSQLAccessLogRepository(db *sql.DB) *PostgreSQLAccessLogRepository {
	return &PostgreSQLAccessLogRepository{db: db}
}
