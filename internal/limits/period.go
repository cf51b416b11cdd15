// Package limits derives calendar-period buckets and evaluates cumulative
// spending caps for recurring mandates.
package limits

import (
	"context"
	"fmt"
	"time"

	"github.com/benx421/payment-gateway/paycore/internal/models"
)

// PeriodKey scopes a cumulative limit check to one consent and one calendar bucket
type PeriodKey struct {
	ConsentID string
	Bucket    string
}

func (k PeriodKey) String() string {
	return k.ConsentID + ":" + k.Bucket
}

// Accumulator reports the cumulative accepted amount for a consent within a bucket.
// Only ACCEPTED payments count.
type Accumulator interface {
	AcceptedTotal(ctx context.Context, consentID, bucket string) (int64, error)
}

// Bucket returns the calendar bucket containing t for the given period, evaluated in UTC
func Bucket(period models.Period, t time.Time) (string, error) {
	t = t.UTC()
	switch period {
	case models.PeriodDaily:
		return t.Format("2006-01-02"), nil
	case models.PeriodWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week), nil
	case models.PeriodMonthly:
		return t.Format("2006-01"), nil
	case models.PeriodYearly:
		return t.Format("2006"), nil
	default:
		return "", fmt.Errorf("unsupported period %q", period)
	}
}

// KeyFor computes the period key for the consent at now.
// The boolean is false when the consent is not period-limited.
func KeyFor(consent *models.Consent, now time.Time) (PeriodKey, bool, error) {
	if !consent.PeriodLimited() {
		return PeriodKey{}, false, nil
	}

	bucket, err := Bucket(consent.Period, now)
	if err != nil {
		return PeriodKey{}, false, err
	}

	return PeriodKey{ConsentID: consent.ID, Bucket: bucket}, true, nil
}

// Exceeds reports whether accepting requested on top of accepted breaches limit
func Exceeds(accepted, requested, limit int64) bool {
	if accepted > limit {
		return true
	}
	return requested > limit-accepted
}
