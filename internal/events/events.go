// Package events publishes payment-submitted notifications after an authorization commits.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/benx421/payment-gateway/paycore/internal/models"
	"github.com/redis/go-redis/v9"
)

// TypeSubmitted identifies the payment-submitted event
const TypeSubmitted = "payment.submitted"

// Submitted is the wire form of a payment-submitted event
type Submitted struct {
	OccurredAt             time.Time               `json:"occurred_at"`
	Type                   string                  `json:"type"`
	PaymentID              string                  `json:"payment_id"`
	ClientID               string                  `json:"client_id"`
	ConsentID              string                  `json:"consent_id"`
	Operation              models.Operation        `json:"operation"`
	Status                 models.SettlementStatus `json:"status"`
	Currency               string                  `json:"currency"`
	RequestedExecutionDate string                  `json:"requested_execution_date,omitempty"`
	InteractionID          string                  `json:"interaction_id,omitempty"`
	AmountCents            int64                   `json:"amount_cents"`
}

// NewSubmitted builds the event for a committed payment
func NewSubmitted(payment *models.Payment) Submitted {
	evt := Submitted{
		OccurredAt:    payment.CreatedAt.UTC(),
		Type:          TypeSubmitted,
		PaymentID:     models.FormatPaymentID(payment.ID),
		ClientID:      payment.ClientID,
		ConsentID:     payment.ConsentID,
		Operation:     payment.Operation,
		Status:        payment.Status,
		Currency:      payment.Currency,
		InteractionID: payment.InteractionID,
		AmountCents:   payment.AmountCents,
	}
	if payment.RequestedExecutionDate != nil {
		evt.RequestedExecutionDate = payment.RequestedExecutionDate.UTC().Format(time.DateOnly)
	}
	return evt
}

// LogPublisher writes events to the structured log
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a publisher that logs each event at info level
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// PublishSubmitted logs the event
func (p *LogPublisher) PublishSubmitted(ctx context.Context, payment *models.Payment) error {
	evt := NewSubmitted(payment)
	p.logger.InfoContext(ctx, "payment submitted",
		"type", evt.Type,
		"payment_id", evt.PaymentID,
		"client_id", evt.ClientID,
		"consent_id", evt.ConsentID,
		"operation", evt.Operation,
		"status", evt.Status,
		"amount_cents", evt.AmountCents,
		"currency", evt.Currency,
	)
	return nil
}

// RedisPublisher publishes events as JSON on a Redis pub/sub channel
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
}

// NewRedisPublisher creates a publisher for the given channel
func NewRedisPublisher(client redis.UniversalClient, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

// PublishSubmitted encodes and publishes the event
func (p *RedisPublisher) PublishSubmitted(ctx context.Context, payment *models.Payment) error {
	payload, err := json.Marshal(NewSubmitted(payment))
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", p.channel, err)
	}
	return nil
}
