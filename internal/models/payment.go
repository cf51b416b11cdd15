package models

import (
	"time"

	"github.com/google/uuid"
)

// Operation is the kind of funds movement a consent can authorize
type Operation string

const (
	OperationPayment    Operation = "payment"
	OperationCollection Operation = "collection"
)

// Valid reports whether o is a known operation
func (o Operation) Valid() bool {
	return o == OperationPayment || o == OperationCollection
}

// RiskDecision is the verdict returned by the risk assessment collaborator
type RiskDecision string

const (
	RiskPass   RiskDecision = "PASS"
	RiskReject RiskDecision = "REJECT"
)

// SettlementStatus is the terminal status the core assigns to an authorization
type SettlementStatus string

const (
	StatusRejected SettlementStatus = "REJECTED"
	StatusPending  SettlementStatus = "PENDING"
	StatusAccepted SettlementStatus = "ACCEPTED"
)

// AuthorizationRequest is a client's request to move funds under a consent.
// RequestedExecutionDate is nil for immediate execution. Only its calendar date
// in its own location is used; the time of day and offset are ignored.
type AuthorizationRequest struct {
	RequestedExecutionDate *time.Time
	ClientID               string
	ConsentID              string
	IdempotencyKey         string
	Currency               string
	InteractionID          string
	Operation              Operation
	AmountCents            int64
}

// AuthorizationResult is the outcome returned to the caller.
// Replay is true when the result was served from the idempotency ledger.
type AuthorizationResult struct {
	CreatedAt     time.Time        `json:"created_at"`
	PaymentID     string           `json:"payment_id"`
	ConsentID     string           `json:"consent_id"`
	Status        SettlementStatus `json:"status"`
	InteractionID string           `json:"interaction_id"`
	Replay        bool             `json:"replay"`
}

// Payment is the persisted payment or collection entity
type Payment struct {
	CreatedAt              time.Time        `json:"created_at" db:"created_at"`
	RequestedExecutionDate *time.Time       `json:"requested_execution_date" db:"requested_execution_date"`
	ClientID               string           `json:"client_id" db:"client_id"`
	ConsentID              string           `json:"consent_id" db:"consent_id"`
	Currency               string           `json:"currency" db:"currency"`
	PeriodKey              string           `json:"period_key" db:"period_key"`
	ReservationReference   string           `json:"reservation_reference" db:"reservation_reference"`
	InteractionID          string           `json:"interaction_id" db:"interaction_id"`
	Operation              Operation        `json:"operation" db:"operation"`
	Status                 SettlementStatus `json:"status" db:"status"`
	AmountCents            int64            `json:"amount_cents" db:"amount_cents"`
	ID                     uuid.UUID        `json:"id" db:"id"`
}

// Result projects the payment into the result returned to callers
func (p *Payment) Result() AuthorizationResult {
	return AuthorizationResult{
		PaymentID:     FormatPaymentID(p.ID),
		ConsentID:     p.ConsentID,
		Status:        p.Status,
		InteractionID: p.InteractionID,
		CreatedAt:     p.CreatedAt,
	}
}
