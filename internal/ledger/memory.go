// Package ledger stores the outcome of accepted authorizations keyed by
// (client, idempotency key) so retries can be replayed.
package ledger

import (
	"container/list"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benx421/payment-gateway/paycore/internal/models"
)

// ErrInvalidRecord is returned when a record is missing its identity or has an empty lifetime
var ErrInvalidRecord = errors.New("invalid idempotency record")

type entryKey struct {
	clientID string
	key      string
}

// Memory is an in-process ledger bounded by capacity.
// At capacity the oldest insertion is evicted; an overwrite counts as a fresh insertion.
// A capacity of zero disables the bound.
type Memory struct {
	entries  map[entryKey]*list.Element
	order    *list.List
	mu       sync.Mutex
	capacity int
}

// NewMemory creates a ledger holding at most capacity records
func NewMemory(capacity int) *Memory {
	if capacity < 0 {
		capacity = 0
	}
	return &Memory{
		entries:  make(map[entryKey]*list.Element),
		order:    list.New(),
		capacity: capacity,
	}
}

// Find returns the live record for (key, clientID), or nil.
// An expired record is removed and reported as absent.
func (m *Memory) Find(_ context.Context, key, clientID string, now time.Time) (*models.IdempotencyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.entries[entryKey{clientID: clientID, key: key}]
	if !ok {
		return nil, nil
	}

	record := elem.Value.(*models.IdempotencyRecord)
	if !record.IsLive(now) {
		m.remove(elem)
		return nil, nil
	}

	found := *record
	return &found, nil
}

// Save inserts or replaces the record for its (key, client)
func (m *Memory) Save(_ context.Context, record *models.IdempotencyRecord) error {
	if err := Validate(record); err != nil {
		return err
	}

	stored := *record
	k := entryKey{clientID: stored.ClientID, key: stored.Key}

	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.entries[k]; ok {
		m.remove(elem)
	}

	for m.capacity > 0 && m.order.Len() >= m.capacity {
		m.remove(m.order.Front())
	}

	m.entries[k] = m.order.PushBack(&stored)
	return nil
}

// Sweep removes every record expired at now and returns how many were removed
func (m *Memory) Sweep(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	for elem := m.order.Front(); elem != nil; {
		next := elem.Next()
		if !elem.Value.(*models.IdempotencyRecord).IsLive(now) {
			m.remove(elem)
			removed++
		}
		elem = next
	}

	return removed, nil
}

// Len returns the number of stored records, expired or not
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

func (m *Memory) remove(elem *list.Element) {
	record := m.order.Remove(elem).(*models.IdempotencyRecord)
	delete(m.entries, entryKey{clientID: record.ClientID, key: record.Key})
}

// Validate checks the record invariants shared by every ledger backend
func Validate(record *models.IdempotencyRecord) error {
	if record == nil || record.Key == "" || record.ClientID == "" {
		return ErrInvalidRecord
	}
	if !record.ExpiresAt.After(record.CreatedAt) {
		return ErrInvalidRecord
	}
	return nil
}
