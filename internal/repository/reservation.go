package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/benx421/payment-gateway/paycore/internal/models"
)

// ReservationRepository defines the interface for funds reservation records
type ReservationRepository interface {
	FindByReference(ctx context.Context, reference string) (*models.Reservation, error)
	Create(ctx context.Context, reservation *models.Reservation) error
}

type reservationRepository struct {
	db DBTX
}

// NewReservationRepository creates a new ReservationRepository
func NewReservationRepository(db DBTX) ReservationRepository {
	return &reservationRepository{db: db}
}

// FindByReference retrieves a reservation outcome by its reference
func (r *reservationRepository) FindByReference(ctx context.Context, reference string) (*models.Reservation, error) {
	query := `
		SELECT reference, account_number, currency, amount_cents, approved, created_at
		FROM fund_reservations
		WHERE reference = $1
	`

	var res models.Reservation
	err := r.db.QueryRowContext(ctx, query, reference).Scan(
		&res.Reference,
		&res.AccountNumber,
		&res.Currency,
		&res.AmountCents,
		&res.Approved,
		&res.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reservation %s: %w", reference, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}

	return &res, nil
}

// Create records a reservation outcome.
// It returns models.ErrDuplicateReservation if the reference is taken.
func (r *reservationRepository) Create(ctx context.Context, res *models.Reservation) error {
	query := `
		INSERT INTO fund_reservations (reference, account_number, currency, amount_cents, approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (reference) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query,
		res.Reference,
		res.AccountNumber,
		res.Currency,
		res.AmountCents,
		res.Approved,
		res.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("reservation %s: %w", res.Reference, models.ErrDuplicateReservation)
	}

	return nil
}
