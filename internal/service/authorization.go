package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/benx421/payment-gateway/paycore/internal/limits"
	"github.com/benx421/payment-gateway/paycore/internal/lock"
	"github.com/benx421/payment-gateway/paycore/internal/models"
	"github.com/benx421/payment-gateway/paycore/internal/policy"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// DefaultIdempotencyTTL is how long an accepted outcome stays replayable
const DefaultIdempotencyTTL = 24 * time.Hour

// Dependencies wires the collaborators of an AuthorizationService.
// Events, Meter, Tracer, Clock and NewID are optional.
type Dependencies struct {
	Store          Store
	Locker         lock.Locker
	Consents       ConsentFinder
	Risk           RiskAssessor
	Funds          FundsReserver
	Events         EventPublisher
	Logger         *slog.Logger
	Meter          metric.Meter
	Tracer         trace.Tracer
	Clock          func() time.Time
	NewID          func() uuid.UUID
	IdempotencyTTL time.Duration
}

// AuthorizationService handles payment authorization operations
type AuthorizationService struct {
	store    Store
	locker   lock.Locker
	consents ConsentFinder
	risk     RiskAssessor
	funds    FundsReserver
	events   EventPublisher
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *authorizationMetrics
	clock    func() time.Time
	newID    func() uuid.UUID
	ttl      time.Duration
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(deps Dependencies) (*AuthorizationService, error) {
	switch {
	case deps.Store == nil:
		return nil, errors.New("authorization service: store is required")
	case deps.Locker == nil:
		return nil, errors.New("authorization service: locker is required")
	case deps.Consents == nil:
		return nil, errors.New("authorization service: consent finder is required")
	case deps.Risk == nil:
		return nil, errors.New("authorization service: risk assessor is required")
	case deps.Funds == nil:
		return nil, errors.New("authorization service: funds reserver is required")
	}

	s := &AuthorizationService{
		store:    deps.Store,
		locker:   deps.Locker,
		consents: deps.Consents,
		risk:     deps.Risk,
		funds:    deps.Funds,
		events:   deps.Events,
		logger:   deps.Logger,
		tracer:   deps.Tracer,
		clock:    deps.Clock,
		newID:    deps.NewID,
		ttl:      deps.IdempotencyTTL,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(instrumentationName)
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.New
	}
	if s.ttl <= 0 {
		s.ttl = DefaultIdempotencyTTL
	}

	meter := deps.Meter
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}
	m, err := newAuthorizationMetrics(meter)
	if err != nil {
		return nil, err
	}
	s.metrics = m

	return s, nil
}

// Authorize runs a payment or collection request at most once per
// (client, idempotency key). Retries with an identical request replay the
// stored result; a different request under the same key is a conflict.
//
// An idempotency key must be scoped to a single consent per client: the
// in-lock double check is performed under the request's own consent lock.
func (s *AuthorizationService) Authorize(ctx context.Context, req *models.AuthorizationRequest) (*models.AuthorizationResult, error) {
	ctx, span := s.tracer.Start(ctx, "paycore.Authorize", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	operation := ""
	if req != nil {
		operation = string(NormalizeRequest(req).Operation)
		span.SetAttributes(
			attribute.String("paycore.client_id", req.ClientID),
			attribute.String("paycore.consent_id", req.ConsentID),
			attribute.String("paycore.operation", operation),
		)
	}

	result, err := s.authorize(ctx, req)
	if err != nil {
		kind := KindSystem
		var svcErr *ServiceError
		if errors.As(err, &svcErr) {
			kind = svcErr.Kind
		}
		s.metrics.recordError(ctx, operation, kind)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.metrics.recordResult(ctx, operation, string(result.Status), result.Replay)
	span.SetAttributes(
		attribute.String("paycore.payment_id", result.PaymentID),
		attribute.String("paycore.status", string(result.Status)),
		attribute.Bool("paycore.replay", result.Replay),
	)
	return result, nil
}

func (s *AuthorizationService) authorize(ctx context.Context, raw *models.AuthorizationRequest) (*models.AuthorizationResult, error) {
	if raw == nil {
		return nil, invalidRequest("request is required")
	}

	req := NormalizeRequest(raw)
	if err := ValidateRequest(req); err != nil {
		return nil, invalidRequest(err.Error())
	}

	fingerprint, err := Fingerprint(req)
	if err != nil {
		return nil, systemError("failed to fingerprint request", err)
	}

	if result, err := s.replay(ctx, req, fingerprint); err != nil || result != nil {
		return result, err
	}

	waitStarted := time.Now()
	result, err := lock.WithLock(ctx, s.locker, req.ConsentID, func(ctx context.Context) (*models.AuthorizationResult, error) {
		s.metrics.recordLockWait(ctx, time.Since(waitStarted))

		if result, err := s.replay(ctx, req, fingerprint); err != nil || result != nil {
			return result, err
		}

		return s.performAuthorization(ctx, req, fingerprint)
	})
	if err != nil {
		var svcErr *ServiceError
		if !errors.As(err, &svcErr) {
			return nil, systemError("failed to acquire consent lock", err)
		}
		return nil, err
	}

	return result, nil
}

// replay returns the stored result for the request's key, or nil when there is none
func (s *AuthorizationService) replay(ctx context.Context, req *models.AuthorizationRequest, fingerprint string) (*models.AuthorizationResult, error) {
	record, err := s.store.Find(ctx, req.IdempotencyKey, req.ClientID, s.clock())
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to read idempotency ledger",
			"client_id", req.ClientID,
			"idempotency_key", req.IdempotencyKey,
			"error", err,
		)
		return nil, systemError("failed to read idempotency ledger", err)
	}
	if record == nil {
		return nil, nil
	}

	if record.Fingerprint != fingerprint {
		s.logger.WarnContext(ctx, "idempotency key reused with a different request",
			"client_id", req.ClientID,
			"consent_id", req.ConsentID,
			"idempotency_key", req.IdempotencyKey,
			"payment_id", record.Result.PaymentID,
		)
		return nil, &ServiceError{
			Kind:    KindConflict,
			Code:    ErrCodeIdempotencyKeyConflict,
			Message: "idempotency key was already used for a different request",
		}
	}

	result := record.Result
	result.Replay = true

	s.logger.DebugContext(ctx, "replaying stored authorization",
		"client_id", req.ClientID,
		"idempotency_key", req.IdempotencyKey,
		"payment_id", result.PaymentID,
		"status", result.Status,
		"replay", true,
	)
	return &result, nil
}

// performAuthorization contains the core authorization business logic.
// The caller holds the consent lock.
func (s *AuthorizationService) performAuthorization(
	ctx context.Context,
	req *models.AuthorizationRequest,
	fingerprint string,
) (*models.AuthorizationResult, error) {
	now := s.clock()

	consent, err := s.resolveConsent(ctx, req, now)
	if err != nil {
		return nil, err
	}

	periodKey, err := s.checkPeriodLimit(ctx, req, consent, now)
	if err != nil {
		return nil, err
	}

	decision, err := s.risk.Assess(ctx, req, req.ClientID)
	if err != nil {
		s.logger.ErrorContext(ctx, "risk assessment failed",
			"client_id", req.ClientID,
			"consent_id", req.ConsentID,
			"error", err,
		)
		return nil, systemError("risk assessment failed", err)
	}
	if decision != models.RiskPass && decision != models.RiskReject {
		return nil, systemError(fmt.Sprintf("unexpected risk decision %q", decision), nil)
	}

	paymentID := s.newID()
	status := policy.Decide(now, req.RequestedExecutionDate, decision)

	reservationRef := ""
	if decision == models.RiskPass {
		reference := models.ReservationReference(paymentID)
		reserved, err := s.funds.Reserve(ctx, consent.DebtorAccount, req.AmountCents, req.Currency, reference)
		if err != nil {
			s.logger.ErrorContext(ctx, "funds reservation failed",
				"client_id", req.ClientID,
				"consent_id", req.ConsentID,
				"payment_id", models.FormatPaymentID(paymentID),
				"error", err,
			)
			return nil, systemError("funds reservation failed", err)
		}
		if reserved {
			reservationRef = reference
		}
		status = policy.Settle(status, reserved)
	}

	payment := &models.Payment{
		ID:                     paymentID,
		ClientID:               req.ClientID,
		ConsentID:              req.ConsentID,
		Operation:              req.Operation,
		AmountCents:            req.AmountCents,
		Currency:               req.Currency,
		Status:                 status,
		PeriodKey:              periodKey,
		RequestedExecutionDate: req.RequestedExecutionDate,
		ReservationReference:   reservationRef,
		InteractionID:          req.InteractionID,
		CreatedAt:              now,
	}

	record := &models.IdempotencyRecord{
		Key:         req.IdempotencyKey,
		ClientID:    req.ClientID,
		Fingerprint: fingerprint,
		Result:      payment.Result(),
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}

	if err := s.store.Commit(ctx, payment, record); err != nil {
		s.logger.ErrorContext(ctx, "failed to commit authorization",
			"client_id", req.ClientID,
			"consent_id", req.ConsentID,
			"payment_id", record.Result.PaymentID,
			"error", err,
		)
		return nil, systemError("failed to persist authorization", err)
	}

	s.publish(ctx, payment)

	s.logger.InfoContext(ctx, "authorization committed",
		"client_id", req.ClientID,
		"consent_id", req.ConsentID,
		"payment_id", record.Result.PaymentID,
		"idempotency_key", req.IdempotencyKey,
		"interaction_id", req.InteractionID,
		"status", status,
		"replay", false,
	)

	result := record.Result
	return &result, nil
}

func (s *AuthorizationService) resolveConsent(ctx context.Context, req *models.AuthorizationRequest, now time.Time) (*models.Consent, error) {
	consent, err := s.consents.FindByID(ctx, req.ConsentID)
	if err != nil {
		s.logger.ErrorContext(ctx, "consent lookup failed", "consent_id", req.ConsentID, "error", err)
		return nil, systemError("consent lookup failed", err)
	}

	if consent == nil {
		return nil, &ServiceError{
			Kind:    KindNotFound,
			Code:    ErrCodeConsentNotFound,
			Message: "consent not found",
		}
	}

	if consent.ClientID != req.ClientID {
		return nil, forbidden("consent belongs to a different client")
	}

	if consent.Status != models.ConsentAuthorised {
		return nil, forbidden(fmt.Sprintf("consent is %s", consent.Status))
	}

	if consent.IsExpired(now) {
		return nil, &ServiceError{
			Kind:    KindDenied,
			Code:    ErrCodeConsentExpired,
			Message: "consent has expired",
		}
	}

	if !consent.HasScope(req.Operation) {
		return nil, forbidden(fmt.Sprintf("consent does not permit %s", req.Operation))
	}

	if !consent.CurrencyMatches(req.Currency) {
		return nil, businessRule(ErrCodeCurrencyMismatch,
			fmt.Sprintf("currency %s does not match consent currency %s", req.Currency, consent.Currency))
	}

	if consent.MaxAmountCents > 0 && req.AmountCents > consent.MaxAmountCents {
		return nil, businessRule(ErrCodeAmountExceedsConsent, "amount exceeds the consent's per-instruction limit")
	}

	return consent, nil
}

// checkPeriodLimit returns the period bucket the payment counts toward, or empty.
// Only ACCEPTED payments consume the limit, so future-dated (PENDING) payments bypass the cap.
func (s *AuthorizationService) checkPeriodLimit(
	ctx context.Context,
	req *models.AuthorizationRequest,
	consent *models.Consent,
	now time.Time,
) (string, error) {
	key, limited, err := limits.KeyFor(consent, now)
	if err != nil {
		return "", systemError("failed to derive period key", err)
	}
	if !limited {
		return "", nil
	}

	accepted, err := s.store.AcceptedTotal(ctx, key.ConsentID, key.Bucket)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to read period total", "period_key", key.String(), "error", err)
		return "", systemError("failed to read accepted total", err)
	}

	if limits.Exceeds(accepted, req.AmountCents, consent.PeriodicLimitCents) {
		s.logger.WarnContext(ctx, "periodic limit exceeded",
			"client_id", req.ClientID,
			"consent_id", req.ConsentID,
			"period_key", key.String(),
			"accepted_cents", accepted,
			"requested_cents", req.AmountCents,
			"limit_cents", consent.PeriodicLimitCents,
		)
		return "", businessRule(ErrCodeLimitExceeded, "payment would exceed the periodic limit")
	}

	return key.Bucket, nil
}

func (s *AuthorizationService) publish(ctx context.Context, payment *models.Payment) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishSubmitted(ctx, payment); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish payment event",
			"payment_id", models.FormatPaymentID(payment.ID),
			"error", err,
		)
	}
}

// GetByID retrieves a payment owned by clientID
func (s *AuthorizationService) GetByID(ctx context.Context, clientID, paymentID string) (*models.Payment, error) {
	id, err := models.ParsePaymentID(strings.TrimSpace(paymentID))
	if err != nil {
		return nil, invalidRequest(err.Error())
	}

	payment, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &ServiceError{
				Kind:    KindNotFound,
				Code:    ErrCodePaymentNotFound,
				Message: "payment not found",
			}
		}
		return nil, systemError("failed to load payment", err)
	}

	if payment.ClientID != strings.TrimSpace(clientID) {
		return nil, forbidden("payment belongs to a different client")
	}

	return payment, nil
}
