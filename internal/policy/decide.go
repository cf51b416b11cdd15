// Package policy maps risk and scheduling inputs to a settlement status.
package policy

import (
	"time"

	"github.com/benx421/payment-gateway/paycore/internal/models"
)

// Decide returns the settlement status for an authorization processed at
// processing. The processing instant is reduced to its UTC date; the requested
// date is taken as the calendar date it names, whatever its offset. A nil
// requested date means immediate execution.
func Decide(processing time.Time, requested *time.Time, risk models.RiskDecision) models.SettlementStatus {
	if risk == models.RiskReject {
		return models.StatusRejected
	}

	if requested != nil && CalendarDate(*requested).After(CalendarDate(processing.UTC())) {
		return models.StatusPending
	}

	return models.StatusAccepted
}

// Settle folds a declined funds reservation into REJECTED
func Settle(status models.SettlementStatus, reserved bool) models.SettlementStatus {
	if !reserved {
		return models.StatusRejected
	}
	return status
}

// CalendarDate returns midnight UTC of the date t names in its own location
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
