package service

import (
	"context"
	"time"

	"github.com/benx421/payment-gateway/paycore/internal/models"
	"github.com/google/uuid"
)

// HealthChecker validates system health.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RiskAssessor decides whether a request may proceed.
// An error means the decision could not be made; it is never treated as REJECT.
type RiskAssessor interface {
	Assess(ctx context.Context, req *models.AuthorizationRequest, clientID string) (models.RiskDecision, error)
}

// FundsReserver holds funds on the debtor account.
// A false result with a nil error is a declined reservation.
type FundsReserver interface {
	Reserve(ctx context.Context, debtorRef string, amountCents int64, currency, reference string) (bool, error)
}

// ConsentFinder resolves consent context. It returns nil, nil when the consent does not exist.
type ConsentFinder interface {
	FindByID(ctx context.Context, consentID string) (*models.Consent, error)
}

// Store persists payments and idempotency records.
// Commit must make the payment and the record visible together.
type Store interface {
	Find(ctx context.Context, key, clientID string, now time.Time) (*models.IdempotencyRecord, error)
	AcceptedTotal(ctx context.Context, consentID, bucket string) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	Commit(ctx context.Context, payment *models.Payment, record *models.IdempotencyRecord) error
}

// EventPublisher announces committed payments to downstream consumers
type EventPublisher interface {
	PublishSubmitted(ctx context.Context, payment *models.Payment) error
}

// Authorizer handles payment authorization operations
type Authorizer interface {
	Authorize(ctx context.Context, req *models.AuthorizationRequest) (*models.AuthorizationResult, error)
	GetByID(ctx context.Context, clientID, paymentID string) (*models.Payment, error)
}

// Ensure concrete types implement interfaces
var _ Authorizer = (*AuthorizationService)(nil)
