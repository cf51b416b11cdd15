package models

import "time"

// IdempotencyRecord stores the outcome of an accepted request for replay.
// Records are never mutated, only replaced or evicted.
type IdempotencyRecord struct {
	CreatedAt   time.Time           `db:"created_at"`
	ExpiresAt   time.Time           `db:"expires_at"`
	Key         string              `db:"idempotency_key"`
	ClientID    string              `db:"client_id"`
	Fingerprint string              `db:"fingerprint"`
	Result      AuthorizationResult `db:"result"`
}

// IsLive reports whether the record is still valid at now
func (r *IdempotencyRecord) IsLive(now time.Time) bool {
	return r.ExpiresAt.After(now)
}
