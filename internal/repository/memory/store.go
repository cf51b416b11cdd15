// Package memory provides in-process implementations of the payment store
// and funds reserver for single-instance deployments and tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benx421/payment-gateway/paycore/internal/ledger"
	"github.com/benx421/payment-gateway/paycore/internal/models"
	"github.com/google/uuid"
)

// Store keeps payments in a map and idempotency records in a bounded ledger.
// Commit applies both writes under one mutex.
type Store struct {
	ledger   *ledger.Memory
	payments map[uuid.UUID]*models.Payment
	mu       sync.RWMutex
}

// NewStore creates a Store whose ledger holds at most ledgerCapacity records
func NewStore(ledgerCapacity int) *Store {
	return &Store{
		ledger:   ledger.NewMemory(ledgerCapacity),
		payments: make(map[uuid.UUID]*models.Payment),
	}
}

// Find returns the live idempotency record for (key, clientID), or nil
func (s *Store) Find(ctx context.Context, key, clientID string, now time.Time) (*models.IdempotencyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Find(ctx, key, clientID, now)
}

// AcceptedTotal sums ACCEPTED payments for the consent within bucket
func (s *Store) AcceptedTotal(_ context.Context, consentID, bucket string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, p := range s.payments {
		if p.ConsentID == consentID && p.PeriodKey == bucket && p.Status == models.StatusAccepted {
			total += p.AmountCents
		}
	}
	return total, nil
}

// FindByID returns a copy of the payment or models.ErrNotFound
func (s *Store) FindByID(_ context.Context, id uuid.UUID) (*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[id]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", id, models.ErrNotFound)
	}
	found := *p
	return &found, nil
}

// Commit stores the payment and its idempotency record together
func (s *Store) Commit(ctx context.Context, payment *models.Payment, record *models.IdempotencyRecord) error {
	if err := ledger.Validate(record); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.payments[payment.ID]; exists {
		return fmt.Errorf("payment %s: %w", payment.ID, models.ErrDuplicatePayment)
	}

	if err := s.ledger.Save(ctx, record); err != nil {
		return err
	}

	stored := *payment
	s.payments[payment.ID] = &stored
	return nil
}

// Sweep purges expired idempotency records
func (s *Store) Sweep(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Sweep(ctx, now)
}

// PingContext always succeeds for the in-process store
func (s *Store) PingContext(_ context.Context) error {
	return nil
}
