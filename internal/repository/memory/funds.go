package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/benx421/payment-gateway/paycore/internal/models"
)

// Funds reserves against in-memory account balances.
// A reference that was already used returns its original outcome.
type Funds struct {
	accounts     map[string]*models.Account
	reservations map[string]models.Reservation
	clock        func() time.Time
	mu           sync.Mutex
}

// NewFunds creates a reserver over copies of the given accounts
func NewFunds(accounts ...models.Account) *Funds {
	f := &Funds{
		accounts:     make(map[string]*models.Account, len(accounts)),
		reservations: make(map[string]models.Reservation),
		clock:        time.Now,
	}
	for i := range accounts {
		acc := accounts[i]
		f.accounts[acc.AccountNumber] = &acc
	}
	return f
}

// Reserve holds amountCents on the debtor account.
// Unknown accounts, currency mismatches and insufficient funds decline without error.
func (f *Funds) Reserve(_ context.Context, debtorRef string, amountCents int64, currency, reference string) (bool, error) {
	if reference == "" {
		return false, fmt.Errorf("reservation reference is required")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if existing, ok := f.reservations[reference]; ok {
		return existing.Approved, nil
	}

	approved := false
	if acc, ok := f.accounts[debtorRef]; ok &&
		strings.EqualFold(acc.Currency, currency) &&
		acc.AvailableBalanceCents >= amountCents {
		acc.AvailableBalanceCents -= amountCents
		acc.UpdatedAt = f.clock()
		approved = true
	}

	f.reservations[reference] = models.Reservation{
		Reference:     reference,
		AccountNumber: debtorRef,
		Currency:      currency,
		AmountCents:   amountCents,
		Approved:      approved,
		CreatedAt:     f.clock(),
	}
	return approved, nil
}

// Account returns a copy of the account or models.ErrNotFound
func (f *Funds) Account(accountNumber string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	acc, ok := f.accounts[accountNumber]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", accountNumber, models.ErrNotFound)
	}
	found := *acc
	return &found, nil
}

// Reservations returns the number of distinct references seen
func (f *Funds) Reservations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reservations)
}
