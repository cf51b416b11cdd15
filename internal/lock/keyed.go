package lock

import (
	"context"
	"sync"
)

type handle struct {
	sem  chan struct{}
	refs int
}

// KeyedMutex is an in-process Locker with one lazily created handle per id.
// A handle is dropped once its last holder or waiter is gone, so the registry
// only holds ids with work in flight.
type KeyedMutex struct {
	handles map[string]*handle
	mu      sync.Mutex
}

// NewKeyedMutex creates an empty KeyedMutex
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{handles: make(map[string]*handle)}
}

// Lock blocks until the lock for resourceID is held or ctx is done
func (k *KeyedMutex) Lock(ctx context.Context, resourceID string) (func(), error) {
	if resourceID == "" {
		return nil, ErrEmptyResource
	}

	h := k.acquire(resourceID)

	select {
	case h.sem <- struct{}{}:
	case <-ctx.Done():
		k.release(resourceID, h)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-h.sem
			k.release(resourceID, h)
		})
	}, nil
}

// Len returns the number of ids currently tracked
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.handles)
}

func (k *KeyedMutex) acquire(resourceID string) *handle {
	k.mu.Lock()
	defer k.mu.Unlock()

	h, ok := k.handles[resourceID]
	if !ok {
		h = &handle{sem: make(chan struct{}, 1)}
		k.handles[resourceID] = h
	}
	h.refs++
	return h
}

func (k *KeyedMutex) release(resourceID string, h *handle) {
	k.mu.Lock()
	defer k.mu.Unlock()

	h.refs--
	if h.refs == 0 {
		delete(k.handles, resourceID)
	}
}
