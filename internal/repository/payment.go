package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/benx421/payment-gateway/paycore/internal/models"
	"github.com/google/uuid"
)

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	AcceptedTotal(ctx context.Context, consentID, bucket string) (int64, error)
}

// paymentRepository implements PaymentRepository
type paymentRepository struct {
	db DBTX
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db DBTX) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create inserts a payment
func (r *paymentRepository) Create(ctx context.Context, p *models.Payment) error {
	query := `
		INSERT INTO payments (
			id, client_id, consent_id, operation, amount_cents, currency, status,
			period_key, requested_execution_date, reservation_reference, interaction_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.ClientID,
		p.ConsentID,
		string(p.Operation),
		p.AmountCents,
		p.Currency,
		string(p.Status),
		p.PeriodKey,
		nullTime(p.RequestedExecutionDate),
		p.ReservationReference,
		p.InteractionID,
		p.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("payment %s: %w", p.ID, models.ErrDuplicatePayment)
	}
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// FindByID retrieves a payment by its UUID
func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	query := `
		SELECT id, client_id, consent_id, operation, amount_cents, currency, status,
		       period_key, requested_execution_date, reservation_reference, interaction_id, created_at
		FROM payments
		WHERE id = $1
	`

	var (
		p             models.Payment
		operation     string
		status        string
		executionDate sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.ClientID,
		&p.ConsentID,
		&operation,
		&p.AmountCents,
		&p.Currency,
		&status,
		&p.PeriodKey,
		&executionDate,
		&p.ReservationReference,
		&p.InteractionID,
		&p.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find payment by id: %w", err)
	}

	p.Operation = models.Operation(operation)
	p.Status = models.SettlementStatus(status)
	if executionDate.Valid {
		d := executionDate.Time.UTC()
		p.RequestedExecutionDate = &d
	}

	return &p, nil
}

// AcceptedTotal sums ACCEPTED payments for the consent within bucket
func (r *paymentRepository) AcceptedTotal(ctx context.Context, consentID, bucket string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM payments
		WHERE consent_id = $1 AND period_key = $2 AND status = $3
	`

	var total int64
	err := r.db.QueryRowContext(ctx, query, consentID, bucket, string(models.StatusAccepted)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum accepted payments: %w", err)
	}

	return total, nil
}
