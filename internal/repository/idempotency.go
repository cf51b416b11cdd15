package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/benx421/payment-gateway/paycore/internal/models"
)

// IdempotencyRepository defines the interface for idempotency record storage
type IdempotencyRepository interface {
	Find(ctx context.Context, key, clientID string, now time.Time) (*models.IdempotencyRecord, error)
	Save(ctx context.Context, record *models.IdempotencyRecord) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type idempotencyRepository struct {
	db DBTX
}

// NewIdempotencyRepository creates a new IdempotencyRepository
func NewIdempotencyRepository(db DBTX) IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

// Find returns the live record for (key, clientID), or nil.
// An expired row is deleted and reported as absent.
func (r *idempotencyRepository) Find(ctx context.Context, key, clientID string, now time.Time) (*models.IdempotencyRecord, error) {
	query := `
		SELECT idempotency_key, client_id, fingerprint, result, created_at, expires_at
		FROM idempotency_records
		WHERE client_id = $1 AND idempotency_key = $2
	`

	var (
		record models.IdempotencyRecord
		result []byte
	)
	err := r.db.QueryRowContext(ctx, query, clientID, key).Scan(
		&record.Key,
		&record.ClientID,
		&record.Fingerprint,
		&result,
		&record.CreatedAt,
		&record.ExpiresAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get idempotency record: %w", err)
	}

	if !record.IsLive(now) {
		if _, err := r.db.ExecContext(ctx,
			`DELETE FROM idempotency_records WHERE client_id = $1 AND idempotency_key = $2 AND expires_at <= $3`,
			clientID, key, now,
		); err != nil {
			return nil, fmt.Errorf("failed to purge expired idempotency record: %w", err)
		}
		return nil, nil
	}

	if err := json.Unmarshal(result, &record.Result); err != nil {
		return nil, fmt.Errorf("failed to decode stored result: %w", err)
	}

	return &record, nil
}

// Save inserts the record or replaces the existing one for (key, client)
func (r *idempotencyRepository) Save(ctx context.Context, record *models.IdempotencyRecord) error {
	result, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	query := `
		INSERT INTO idempotency_records (idempotency_key, client_id, fingerprint, result, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (client_id, idempotency_key) DO UPDATE
		SET fingerprint = EXCLUDED.fingerprint,
		    result = EXCLUDED.result,
		    created_at = EXCLUDED.created_at,
		    expires_at = EXCLUDED.expires_at
	`

	_, err = r.db.ExecContext(ctx, query,
		record.Key,
		record.ClientID,
		record.Fingerprint,
		result,
		record.CreatedAt,
		record.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store idempotency record: %w", err)
	}

	return nil
}

// DeleteExpired removes every record expired at now
func (r *idempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM idempotency_records WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired idempotency records: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
