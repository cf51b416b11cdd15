package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/benx421/payment-gateway/paycore/internal/service"

type authorizationMetrics struct {
	authorizations metric.Int64Counter
	errors         metric.Int64Counter
	lockWait       metric.Float64Histogram
}

func newAuthorizationMetrics(meter metric.Meter) (*authorizationMetrics, error) {
	authorizations, err := meter.Int64Counter("paycore.authorizations",
		metric.WithDescription("Authorization results by settlement status"),
		metric.WithUnit("{authorization}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create authorizations counter: %w", err)
	}

	errorCounter, err := meter.Int64Counter("paycore.authorization.errors",
		metric.WithDescription("Authorization attempts that ended in an error"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create errors counter: %w", err)
	}

	lockWait, err := meter.Float64Histogram("paycore.lock.wait",
		metric.WithDescription("Time spent waiting for the consent lock"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 5, 10, 25, 50, 100, 250, 500, 1000),
	)
	if err != nil {
		return nil, fmt.Errorf("create lock wait histogram: %w", err)
	}

	return &authorizationMetrics{
		authorizations: authorizations,
		errors:         errorCounter,
		lockWait:       lockWait,
	}, nil
}

func (m *authorizationMetrics) recordResult(ctx context.Context, operation string, result string, replay bool) {
	m.authorizations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", result),
		attribute.Bool("replay", replay),
	))
}

func (m *authorizationMetrics) recordError(ctx context.Context, operation string, kind Kind) {
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("kind", string(kind)),
	))
}

func (m *authorizationMetrics) recordLockWait(ctx context.Context, waited time.Duration) {
	m.lockWait.Record(ctx, float64(waited)/float64(time.Millisecond))
}
