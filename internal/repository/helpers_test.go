package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/benx421/payment-gateway/paycore/internal/db"
	"github.com/benx421/payment-gateway/paycore/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	testNow       = time.Date(2024, time.June, 10, 9, 30, 0, 0, time.UTC)
	testPaymentID = uuid.MustParse("5b3c1f0e-8a4d-4c1b-9e2f-7d6a5b4c3d2e")
)

// newMockDB returns a db.DB backed by sqlmock and verifies expectations on cleanup
func newMockDB(t *testing.T) (*db.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = sqlDB.Close()
	})

	return db.New(sqlDB, nil), mock
}

func q(fragment string) string {
	return regexp.QuoteMeta(fragment)
}

func testPayment() *models.Payment {
	return &models.Payment{
		ID:                   testPaymentID,
		CreatedAt:            testNow,
		ClientID:             "tpp-1",
		ConsentID:            "C1",
		Currency:             "EUR",
		PeriodKey:            "2024-06",
		ReservationReference: "rsv_" + testPaymentID.String(),
		InteractionID:        "int-1",
		Operation:            models.OperationCollection,
		Status:               models.StatusAccepted,
		AmountCents:          600_00,
	}
}

func testRecord() *models.IdempotencyRecord {
	p := testPayment()
	return &models.IdempotencyRecord{
		Key:         "K1",
		ClientID:    "tpp-1",
		Fingerprint: "abc123",
		Result:      p.Result(),
		CreatedAt:   testNow,
		ExpiresAt:   testNow.Add(24 * time.Hour),
	}
}
