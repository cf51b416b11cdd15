package models

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a debtor account whose available balance backs funds reservations
type Account struct {
	CreatedAt             time.Time `db:"created_at"`
	UpdatedAt             time.Time `db:"updated_at"`
	AccountNumber         string    `db:"account_number"`
	Currency              string    `db:"currency"`
	BalanceCents          int64     `db:"balance_cents"`
	AvailableBalanceCents int64     `db:"available_balance_cents"`
	ID                    uuid.UUID `db:"id"`
}

// Reservation records the outcome of a funds reservation attempt.
// Reference is unique, so a repeated reservation returns the stored outcome.
type Reservation struct {
	CreatedAt     time.Time `db:"created_at"`
	Reference     string    `db:"reference"`
	AccountNumber string    `db:"account_number"`
	Currency      string    `db:"currency"`
	AmountCents   int64     `db:"amount_cents"`
	Approved      bool      `db:"approved"`
}
