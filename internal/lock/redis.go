package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it is still owned by the caller.
// KEYS[1] = lock key
// ARGV[1] = owner token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

const releaseTimeout = 2 * time.Second

// RedisLocker is a lease-based Locker shared by every instance using the same Redis.
// A holder that outlives its lease loses exclusivity.
type RedisLocker struct {
	client        redis.UniversalClient
	logger        *slog.Logger
	prefix        string
	lease         time.Duration
	retryInterval time.Duration
}

// NewRedisLocker creates a RedisLocker with the given lease and poll interval
func NewRedisLocker(client redis.UniversalClient, prefix string, lease, retryInterval time.Duration, logger *slog.Logger) *RedisLocker {
	if prefix == "" {
		prefix = "paycore:lock:"
	}
	if retryInterval <= 0 {
		retryInterval = 25 * time.Millisecond
	}
	return &RedisLocker{
		client:        client,
		logger:        logger,
		prefix:        prefix,
		lease:         lease,
		retryInterval: retryInterval,
	}
}

// Lock polls until the lease for resourceID is acquired or ctx is done
func (r *RedisLocker) Lock(ctx context.Context, resourceID string) (func(), error) {
	if resourceID == "" {
		return nil, ErrEmptyResource
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}
	key := r.prefix + resourceID

	ticker := time.NewTicker(r.retryInterval)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, key, token, r.lease).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("redis lock %s: %w", resourceID, err)
		}
		if ok {
			return r.unlocker(ctx, key, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *RedisLocker) unlocker(ctx context.Context, key, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() { r.release(ctx, key, token) })
	}
}

func (r *RedisLocker) release(ctx context.Context, key, token string) {
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	err := releaseScript.Run(releaseCtx, r.client, []string{key}, token).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		r.logger.Error("failed to release redis lock", "key", key, "error", err)
	}
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate lock token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
