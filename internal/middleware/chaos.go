// Package middleware decorates authorization collaborators with fault injection
// for exercising client retry behavior.
package middleware

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"math/big"
	"time"

	"github.com/benx421/payment-gateway/paycore/internal/config"
	"github.com/benx421/payment-gateway/paycore/internal/models"
	"github.com/benx421/payment-gateway/paycore/internal/service"
)

// ErrInjectedFailure is returned by decorated collaborators when a failure is injected
var ErrInjectedFailure = errors.New("random failure injection")

// FaultInjector injects latency and random failures in front of collaborators.
type FaultInjector struct {
	logger       *slog.Logger
	failureRate  float64
	minLatencyMS int
	maxLatencyMS int
}

// NewFaultInjector creates an injector from the application configuration
func NewFaultInjector(cfg *config.AppConfig, logger *slog.Logger) *FaultInjector {
	return &FaultInjector{
		logger:       logger,
		failureRate:  cfg.FailureRate,
		minLatencyMS: cfg.MinLatencyMS,
		maxLatencyMS: cfg.MaxLatencyMS,
	}
}

// Enabled reports whether the injector would ever delay or fail a call
func (f *FaultInjector) Enabled() bool {
	return f.failureRate > 0 || f.minLatencyMS > 0 || f.maxLatencyMS > 0
}

// Risk wraps a risk assessor
func (f *FaultInjector) Risk(next service.RiskAssessor) service.RiskAssessor {
	return &faultyRisk{next: next, injector: f}
}

// Funds wraps a funds reserver
func (f *FaultInjector) Funds(next service.FundsReserver) service.FundsReserver {
	return &faultyFunds{next: next, injector: f}
}

func (f *FaultInjector) inject(ctx context.Context, collaborator string) error {
	if err := injectLatency(ctx, f.minLatencyMS, f.maxLatencyMS); err != nil {
		return err
	}

	if shouldInjectFailure(f.failureRate) {
		f.logger.Debug("injecting random failure", "collaborator", collaborator)
		return ErrInjectedFailure
	}
	return nil
}

type faultyRisk struct {
	next     service.RiskAssessor
	injector *FaultInjector
}

func (r *faultyRisk) Assess(ctx context.Context, req *models.AuthorizationRequest, clientID string) (models.RiskDecision, error) {
	if err := r.injector.inject(ctx, "risk"); err != nil {
		return "", err
	}
	return r.next.Assess(ctx, req, clientID)
}

type faultyFunds struct {
	next     service.FundsReserver
	injector *FaultInjector
}

func (r *faultyFunds) Reserve(ctx context.Context, debtorRef string, amountCents int64, currency, reference string) (bool, error) {
	if err := r.injector.inject(ctx, "funds"); err != nil {
		return false, err
	}
	return r.next.Reserve(ctx, debtorRef, amountCents, currency, reference)
}

func injectLatency(ctx context.Context, minMS, maxMS int) error {
	if minMS <= 0 && maxMS <= 0 {
		return nil
	}

	sleepMS := minMS
	if rangeMS := maxMS - minMS; rangeMS > 0 {
		randomOffset, err := rand.Int(rand.Reader, big.NewInt(int64(rangeMS)))
		if err == nil {
			sleepMS += int(randomOffset.Int64())
		}
	}

	timer := time.NewTimer(time.Duration(sleepMS) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func shouldInjectFailure(failureRate float64) bool {
	if failureRate <= 0 {
		return false
	}
	if failureRate >= 1 {
		return true
	}

	const precision = 1000000
	randomNum, err := rand.Int(rand.Reader, big.NewInt(precision))
	if err != nil {
		return false
	}

	threshold := int64(failureRate * precision)
	return randomNum.Int64() < threshold
}
