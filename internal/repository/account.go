package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/benx421/payment-gateway/paycore/internal/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	FindByAccountNumber(ctx context.Context, accountNumber string) (*models.Account, error)
	Upsert(ctx context.Context, account *models.Account) error
	ReserveAvailable(ctx context.Context, accountNumber, currency string, amountCents int64) (bool, error)
}

// accountRepository implements AccountRepository
type accountRepository struct {
	db DBTX
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db DBTX) AccountRepository {
	return &accountRepository{db: db}
}

// FindByAccountNumber retrieves an account by its account number
func (r *accountRepository) FindByAccountNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	query := `
		SELECT id, account_number, currency, balance_cents, available_balance_cents, created_at, updated_at
		FROM accounts
		WHERE account_number = $1
	`

	var account models.Account
	err := r.db.QueryRowContext(ctx, query, accountNumber).Scan(
		&account.ID,
		&account.AccountNumber,
		&account.Currency,
		&account.BalanceCents,
		&account.AvailableBalanceCents,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", accountNumber, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account by account number: %w", err)
	}

	return &account, nil
}

// Upsert creates the account or resets its balances
func (r *accountRepository) Upsert(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, account_number, currency, balance_cents, available_balance_cents)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_number) DO UPDATE
		SET currency = EXCLUDED.currency,
		    balance_cents = EXCLUDED.balance_cents,
		    available_balance_cents = EXCLUDED.available_balance_cents,
		    updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.AccountNumber,
		account.Currency,
		account.BalanceCents,
		account.AvailableBalanceCents,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert account: %w", err)
	}

	return nil
}

// ReserveAvailable decrements the available balance when it covers amountCents.
// It returns false when the account is unknown, in another currency, or short of funds.
func (r *accountRepository) ReserveAvailable(ctx context.Context, accountNumber, currency string, amountCents int64) (bool, error) {
	query := `
		UPDATE accounts
		SET available_balance_cents = available_balance_cents - $3,
		    updated_at = NOW()
		WHERE account_number = $1 AND currency = $2 AND available_balance_cents >= $3
	`

	result, err := r.db.ExecContext(ctx, query, accountNumber, currency, amountCents)
	if err != nil {
		return false, fmt.Errorf("failed to reserve available balance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}
