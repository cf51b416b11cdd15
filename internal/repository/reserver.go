package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/benx421/payment-gateway/paycore/internal/db"
	"github.com/benx421/payment-gateway/paycore/internal/models"
)

// Reserver holds funds against the accounts table.
// Each reference is reserved at most once; repeating it returns the stored outcome.
type Reserver struct {
	db    *db.DB
	clock func() time.Time
}

// NewReserver creates a new Reserver
func NewReserver(database *db.DB) *Reserver {
	return &Reserver{db: database, clock: time.Now}
}

// Reserve holds amountCents on the debtor account under reference
func (r *Reserver) Reserve(ctx context.Context, debtorRef string, amountCents int64, currency, reference string) (bool, error) {
	if reference == "" {
		return false, fmt.Errorf("reservation reference is required")
	}

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return false, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback error is not critical in defer
	}()

	approved, err := r.performReservation(ctx, NewAccountRepository(tx), NewReservationRepository(tx), debtorRef, amountCents, currency, reference)
	if errors.Is(err, models.ErrDuplicateReservation) {
		_ = tx.Rollback() //nolint:errcheck // the concurrent winner's outcome is read below
		existing, findErr := NewReservationRepository(r.db).FindByReference(ctx, reference)
		if findErr != nil {
			return false, findErr
		}
		return existing.Approved, nil
	}
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return approved, nil
}

// performReservation contains the reservation logic run inside a transaction
func (r *Reserver) performReservation(
	ctx context.Context,
	accounts AccountRepository,
	reservations ReservationRepository,
	debtorRef string,
	amountCents int64,
	currency, reference string,
) (bool, error) {
	existing, err := reservations.FindByReference(ctx, reference)
	if err == nil {
		return existing.Approved, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return false, err
	}

	approved, err := accounts.ReserveAvailable(ctx, debtorRef, currency, amountCents)
	if err != nil {
		return false, err
	}

	if err := reservations.Create(ctx, &models.Reservation{
		Reference:     reference,
		AccountNumber: debtorRef,
		Currency:      currency,
		AmountCents:   amountCents,
		Approved:      approved,
		CreatedAt:     r.clock(),
	}); err != nil {
		return false, err
	}

	return approved, nil
}
