package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/benx421/payment-gateway/paycore/internal/db"
	"github.com/benx421/payment-gateway/paycore/internal/ledger"
	"github.com/benx421/payment-gateway/paycore/internal/models"
	"github.com/google/uuid"
)

// Store is the PostgreSQL payment store.
// Commit writes the payment and its idempotency record in one transaction.
type Store struct {
	db *db.DB
}

// NewStore creates a new Store
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Find returns the live idempotency record for (key, clientID), or nil
func (s *Store) Find(ctx context.Context, key, clientID string, now time.Time) (*models.IdempotencyRecord, error) {
	return NewIdempotencyRepository(s.db).Find(ctx, key, clientID, now)
}

// AcceptedTotal sums ACCEPTED payments for the consent within bucket
func (s *Store) AcceptedTotal(ctx context.Context, consentID, bucket string) (int64, error) {
	return NewPaymentRepository(s.db).AcceptedTotal(ctx, consentID, bucket)
}

// FindByID retrieves a payment by its UUID
func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return NewPaymentRepository(s.db).FindByID(ctx, id)
}

// Commit stores the payment and its idempotency record atomically
func (s *Store) Commit(ctx context.Context, payment *models.Payment, record *models.IdempotencyRecord) error {
	if err := ledger.Validate(record); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback error is not critical in defer
	}()

	if err := NewPaymentRepository(tx).Create(ctx, payment); err != nil {
		return err
	}

	if err := NewIdempotencyRepository(tx).Save(ctx, record); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Sweep purges expired idempotency records
func (s *Store) Sweep(ctx context.Context, now time.Time) (int64, error) {
	return NewIdempotencyRepository(s.db).DeleteExpired(ctx, now)
}

// PingContext checks database connectivity
func (s *Store) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
