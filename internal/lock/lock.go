// Package lock provides mutual exclusion scoped to a business key such as a
// consent or mandate identifier.
package lock

import (
	"context"
	"errors"
)

// ErrEmptyResource is returned when a lock is requested for a blank resource id
var ErrEmptyResource = errors.New("lock: resource id must not be empty")

// Locker acquires an exclusive lock on a resource id.
// The returned unlock func is safe to call more than once.
type Locker interface {
	Lock(ctx context.Context, resourceID string) (func(), error)
}

var (
	_ Locker = (*KeyedMutex)(nil)
	_ Locker = (*RedisLocker)(nil)
)

// WithLock runs fn while holding the lock for resourceID.
// The lock is released on every exit path, panics included.
func WithLock[T any](ctx context.Context, locker Locker, resourceID string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	unlock, err := locker.Lock(ctx, resourceID)
	if err != nil {
		return zero, err
	}
	defer unlock()

	return fn(ctx)
}
