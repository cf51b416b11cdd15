package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/benx421/payment-gateway/paycore/internal/lock"
	"github.com/benx421/payment-gateway/paycore/internal/models"
	"github.com/benx421/payment-gateway/paycore/internal/service/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
)

var processingTime = time.Date(2024, time.June, 10, 9, 30, 0, 0, time.UTC)

var fixedPaymentID = uuid.MustParse("5b3c1f0e-8a4d-4c1b-9e2f-7d6a5b4c3d2e")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	store    *mocks.MockStore
	consents *mocks.MockConsentFinder
	risk     *mocks.MockRiskAssessor
	funds    *mocks.MockFundsReserver
	events   *mocks.MockEventPublisher
	service  *AuthorizationService
}

type fixtureOption func(*Dependencies)

func withLocker(l lock.Locker) fixtureOption {
	return func(d *Dependencies) { d.Locker = l }
}

func withMeter(m metric.Meter) fixtureOption {
	return func(d *Dependencies) { d.Meter = m }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	f := &fixture{
		store:    mocks.NewMockStore(t),
		consents: mocks.NewMockConsentFinder(t),
		risk:     mocks.NewMockRiskAssessor(t),
		funds:    mocks.NewMockFundsReserver(t),
		events:   mocks.NewMockEventPublisher(t),
	}

	deps := Dependencies{
		Store:    f.store,
		Locker:   lock.NewKeyedMutex(),
		Consents: f.consents,
		Risk:     f.risk,
		Funds:    f.funds,
		Events:   f.events,
		Logger:   discardLogger(),
		Clock:    func() time.Time { return processingTime },
		NewID:    func() uuid.UUID { return fixedPaymentID },
	}
	for _, opt := range opts {
		opt(&deps)
	}

	svc, err := NewAuthorizationService(deps)
	require.NoError(t, err)
	f.service = svc
	return f
}

// expectLedgerMiss sets up the lookups made before and inside the consent lock
func (f *fixture) expectLedgerMiss() {
	f.store.On("Find", mock.Anything, "K1", "tpp-1", processingTime).Return(nil, nil).Twice()
}

func authorisedConsent() *models.Consent {
	return &models.Consent{
		ID:            "C1",
		ClientID:      "tpp-1",
		DebtorAccount: "DE01",
		Status:        models.ConsentAuthorised,
		Scopes:        []models.Operation{models.OperationPayment, models.OperationCollection},
		Currency:      "EUR",
	}
}

func storedRecord(t *testing.T, req *models.AuthorizationRequest) *models.IdempotencyRecord {
	t.Helper()

	fp, err := Fingerprint(NormalizeRequest(req))
	require.NoError(t, err)

	return &models.IdempotencyRecord{
		Key:         req.IdempotencyKey,
		ClientID:    req.ClientID,
		Fingerprint: fp,
		CreatedAt:   processingTime.Add(-time.Minute),
		ExpiresAt:   processingTime.Add(time.Hour),
		Result: models.AuthorizationResult{
			PaymentID:     "pay_" + uuid.NewString(),
			ConsentID:     req.ConsentID,
			Status:        models.StatusAccepted,
			InteractionID: req.InteractionID,
			CreatedAt:     processingTime.Add(-time.Minute),
		},
	}
}

type failingLocker struct {
	err error
}

func (l failingLocker) Lock(context.Context, string) (func(), error) {
	return nil, l.err
}
