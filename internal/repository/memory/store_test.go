package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/benx421/payment-gateway/paycore/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.May, 20, 12, 0, 0, 0, time.UTC)

func newPayment(consentID, bucket string, status models.SettlementStatus, amount int64) *models.Payment {
	return &models.Payment{
		ID:          uuid.New(),
		ClientID:    "tpp-1",
		ConsentID:   consentID,
		Operation:   models.OperationCollection,
		AmountCents: amount,
		Currency:    "EUR",
		Status:      status,
		PeriodKey:   bucket,
		CreatedAt:   now,
	}
}

func recordFor(p *models.Payment, key string) *models.IdempotencyRecord {
	return &models.IdempotencyRecord{
		Key:         key,
		ClientID:    p.ClientID,
		Fingerprint: "fp-" + key,
		Result:      p.Result(),
		CreatedAt:   now,
		ExpiresAt:   now.Add(time.Hour),
	}
}

func TestStore_CommitAndRead(t *testing.T) {
	ctx := context.Background()
	store := NewStore(0)
	p := newPayment("C1", "2024-05", models.StatusAccepted, 600_00)

	require.NoError(t, store.Commit(ctx, p, recordFor(p, "K1")))

	found, err := store.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.AmountCents, found.AmountCents)
	assert.Equal(t, models.StatusAccepted, found.Status)

	record, err := store.Find(ctx, "K1", "tpp-1", now)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, models.FormatPaymentID(p.ID), record.Result.PaymentID)
}

func TestStore_CommitRejectsInvalidRecordWithoutWritingPayment(t *testing.T) {
	ctx := context.Background()
	store := NewStore(0)
	p := newPayment("C1", "", models.StatusAccepted, 100)
	record := recordFor(p, "K1")
	record.ExpiresAt = record.CreatedAt

	assert.Error(t, store.Commit(ctx, p, record))

	_, err := store.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStore_CommitDuplicatePayment(t *testing.T) {
	ctx := context.Background()
	store := NewStore(0)
	p := newPayment("C1", "", models.StatusAccepted, 100)

	require.NoError(t, store.Commit(ctx, p, recordFor(p, "K1")))
	err := store.Commit(ctx, p, recordFor(p, "K2"))

	assert.ErrorIs(t, err, models.ErrDuplicatePayment)
	record, err := store.Find(ctx, "K2", "tpp-1", now)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestStore_FindByIDNotFound(t *testing.T) {
	_, err := NewStore(0).FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStore_AcceptedTotal(t *testing.T) {
	ctx := context.Background()
	store := NewStore(0)

	payments := []*models.Payment{
		newPayment("C1", "2024-05", models.StatusAccepted, 300_00),
		newPayment("C1", "2024-05", models.StatusAccepted, 200_00),
		newPayment("C1", "2024-05", models.StatusRejected, 900_00),
		newPayment("C1", "2024-05", models.StatusPending, 400_00),
		newPayment("C1", "2024-04", models.StatusAccepted, 700_00),
		newPayment("C2", "2024-05", models.StatusAccepted, 50_00),
	}
	for i, p := range payments {
		require.NoError(t, store.Commit(ctx, p, recordFor(p, fmt.Sprintf("K%d", i))))
	}

	total, err := store.AcceptedTotal(ctx, "C1", "2024-05")
	require.NoError(t, err)
	assert.Equal(t, int64(500_00), total)

	total, err = store.AcceptedTotal(ctx, "C3", "2024-05")
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestStore_Sweep(t *testing.T) {
	ctx := context.Background()
	store := NewStore(0)
	p := newPayment("C1", "", models.StatusAccepted, 100)
	require.NoError(t, store.Commit(ctx, p, recordFor(p, "K1")))

	removed, err := store.Sweep(ctx, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = store.FindByID(ctx, p.ID)
	assert.NoError(t, err, "sweeping the ledger keeps payments")
	assert.NoError(t, store.PingContext(ctx))
}

func TestFunds_Reserve(t *testing.T) {
	ctx := context.Background()

	newFunds := func() *Funds {
		return NewFunds(models.Account{AccountNumber: "DE01", Currency: "EUR", BalanceCents: 1000_00, AvailableBalanceCents: 1000_00})
	}

	t.Run("approves and holds funds", func(t *testing.T) {
		f := newFunds()

		ok, err := f.Reserve(ctx, "DE01", 600_00, "EUR", "rsv_1")

		require.NoError(t, err)
		assert.True(t, ok)
		acc, err := f.Account("DE01")
		require.NoError(t, err)
		assert.Equal(t, int64(400_00), acc.AvailableBalanceCents)
		assert.Equal(t, int64(1000_00), acc.BalanceCents)
	})

	t.Run("same reference is reserved once", func(t *testing.T) {
		f := newFunds()

		first, err := f.Reserve(ctx, "DE01", 600_00, "EUR", "rsv_1")
		require.NoError(t, err)
		second, err := f.Reserve(ctx, "DE01", 600_00, "EUR", "rsv_1")
		require.NoError(t, err)

		assert.True(t, first)
		assert.True(t, second)
		acc, err := f.Account("DE01")
		require.NoError(t, err)
		assert.Equal(t, int64(400_00), acc.AvailableBalanceCents)
		assert.Equal(t, 1, f.Reservations())
	})

	t.Run("declines insufficient funds", func(t *testing.T) {
		f := newFunds()

		ok, err := f.Reserve(ctx, "DE01", 1000_01, "EUR", "rsv_1")

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("declines unknown account", func(t *testing.T) {
		ok, err := newFunds().Reserve(ctx, "XX99", 1, "EUR", "rsv_1")

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("declines currency mismatch", func(t *testing.T) {
		ok, err := newFunds().Reserve(ctx, "DE01", 1, "GBP", "rsv_1")

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("requires reference", func(t *testing.T) {
		_, err := newFunds().Reserve(ctx, "DE01", 1, "EUR", "")

		assert.Error(t, err)
	})
}
