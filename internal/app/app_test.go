package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benx421/payment-gateway/paycore/internal/config"
	"github.com/benx421/payment-gateway/paycore/internal/models"
	"github.com/benx421/payment-gateway/paycore/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const consentFile = `
consents:
  - id: C1
    client_id: tpp-1
    debtor_account: DE01
    status: AUTHORISED
    scopes: [payment, collection]
    currency: EUR
    period: monthly
    periodic_limit_cents: 100000
accounts:
  - account_number: DE01
    currency: EUR
    balance_cents: 500000
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadConfig(t *testing.T, env map[string]string) *config.Config {
	t.Helper()

	path := filepath.Join(t.TempDir(), "consents.yaml")
	require.NoError(t, os.WriteFile(path, []byte(consentFile), 0o600))
	t.Setenv("CONSENT_FILE", path)
	for k, v := range env {
		t.Setenv(k, v)
	}

	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func request(key string, amount int64) *models.AuthorizationRequest {
	return &models.AuthorizationRequest{
		ClientID:       "tpp-1",
		ConsentID:      "C1",
		IdempotencyKey: key,
		Operation:      models.OperationCollection,
		AmountCents:    amount,
		Currency:       "EUR",
	}
}

func TestNew_MemoryBackends(t *testing.T) {
	a, err := New(context.Background(), loadConfig(t, nil), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Close()) })

	ctx := context.Background()
	first, err := a.Service.Authorize(ctx, request("K1", 600_00))
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, first.Status)
	assert.False(t, first.Replay)

	again, err := a.Service.Authorize(ctx, request("K1", 600_00))
	require.NoError(t, err)
	assert.True(t, again.Replay)
	assert.Equal(t, first.PaymentID, again.PaymentID)

	_, err = a.Service.Authorize(ctx, request("K2", 500_00))
	assert.True(t, service.IsKind(err, service.KindBusinessRule))

	payment, err := a.Service.GetByID(ctx, "tpp-1", first.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, int64(600_00), payment.AmountCents)

	assert.NoError(t, a.Store.PingContext(ctx))
}

func TestNew_MissingConsentFile(t *testing.T) {
	cfg := loadConfig(t, nil)
	cfg.App.ConsentFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := New(context.Background(), cfg, discardLogger())
	assert.ErrorContains(t, err, "failed to load consent file")
}

func TestNew_NoConsentFile(t *testing.T) {
	cfg := loadConfig(t, nil)
	cfg.App.ConsentFile = ""

	a, err := New(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	_, err = a.Service.Authorize(context.Background(), request("K1", 100))
	assert.Equal(t, service.ErrCodeConsentNotFound, service.CodeOf(err))
}

func TestNew_FaultInjectionWrapsCollaborators(t *testing.T) {
	a, err := New(context.Background(), loadConfig(t, map[string]string{"FAILURE_RATE": "1"}), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	_, err = a.Service.Authorize(context.Background(), request("K1", 100))
	assert.True(t, service.IsKind(err, service.KindSystem))
}

func TestNew_RedisUnreachable(t *testing.T) {
	cfg := loadConfig(t, map[string]string{"LOCK_BACKEND": "redis", "REDIS_ADDR": "127.0.0.1:1"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := New(ctx, cfg, discardLogger())
	assert.ErrorContains(t, err, "failed to connect to redis")
}

func TestApp_RunSweeper(t *testing.T) {
	a, err := New(context.Background(), loadConfig(t, map[string]string{"IDEMPOTENCY_TTL": "1ms"}), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	_, err = a.Service.Authorize(context.Background(), request("K1", 100))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.RunSweeper(ctx, 5*time.Millisecond) }()

	assert.Eventually(t, func() bool {
		rec, err := a.Store.Find(context.Background(), "K1", "tpp-1", time.Time{})
		return err == nil && rec == nil
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
