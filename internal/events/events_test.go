package events

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/benx421/payment-gateway/paycore/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePayment() *models.Payment {
	execDate := time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)
	return &models.Payment{
		ID:                     uuid.MustParse("5b3c1f0e-8a4d-4c1b-9e2f-7d6a5b4c3d2e"),
		CreatedAt:              time.Date(2024, time.June, 10, 9, 30, 0, 0, time.UTC),
		RequestedExecutionDate: &execDate,
		ClientID:               "tpp-1",
		ConsentID:              "C1",
		Currency:               "EUR",
		InteractionID:          "int-1",
		Operation:              models.OperationPayment,
		Status:                 models.StatusPending,
		AmountCents:            600_00,
	}
}

func TestNewSubmitted(t *testing.T) {
	evt := NewSubmitted(samplePayment())

	assert.Equal(t, TypeSubmitted, evt.Type)
	assert.Equal(t, "pay_5b3c1f0e-8a4d-4c1b-9e2f-7d6a5b4c3d2e", evt.PaymentID)
	assert.Equal(t, "2024-06-20", evt.RequestedExecutionDate)
	assert.Equal(t, models.StatusPending, evt.Status)
	assert.Equal(t, int64(600_00), evt.AmountCents)
}

func TestNewSubmitted_ImmediateOmitsExecutionDate(t *testing.T) {
	p := samplePayment()
	p.RequestedExecutionDate = nil

	raw, err := json.Marshal(NewSubmitted(p))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "requested_execution_date")
}

func TestLogPublisher_PublishSubmitted(t *testing.T) {
	var buf bytes.Buffer
	publisher := NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, publisher.PublishSubmitted(context.Background(), samplePayment()))

	out := buf.String()
	assert.Contains(t, out, `"msg":"payment submitted"`)
	assert.Contains(t, out, `"consent_id":"C1"`)
	assert.Contains(t, out, `"status":"PENDING"`)
}

func TestRedisPublisher_PublishSubmitted(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping redis tests")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}

	channel := "paycore:test:events:" + uuid.NewString()
	sub := client.Subscribe(ctx, channel)
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, NewRedisPublisher(client, channel).PublishSubmitted(ctx, samplePayment()))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var evt Submitted
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &evt))
	assert.Equal(t, "pay_5b3c1f0e-8a4d-4c1b-9e2f-7d6a5b4c3d2e", evt.PaymentID)
	assert.Equal(t, "tpp-1", evt.ClientID)
}

func TestRedisPublisher_PublishError(t *testing.T) {
	// nothing listens on port 1
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })

	err := NewRedisPublisher(client, "paycore:events").PublishSubmitted(context.Background(), samplePayment())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paycore:events")
}
