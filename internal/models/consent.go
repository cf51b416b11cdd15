package models

import (
	"strings"
	"time"
)

// ConsentStatus is the lifecycle state of a consent or mandate
type ConsentStatus string

const (
	ConsentAwaitingAuthorisation ConsentStatus = "AWAITING_AUTHORISATION"
	ConsentAuthorised            ConsentStatus = "AUTHORISED"
	ConsentRejected              ConsentStatus = "REJECTED"
	ConsentRevoked               ConsentStatus = "REVOKED"
)

// Period is the calendar cycle a recurring mandate's limit applies to
type Period string

const (
	PeriodNone    Period = "NONE"
	PeriodDaily   Period = "DAILY"
	PeriodWeekly  Period = "WEEKLY"
	PeriodMonthly Period = "MONTHLY"
	PeriodYearly  Period = "YEARLY"
)

// Consent is the read-only consent or mandate context owned by consent management.
// Zero MaxAmountCents means no per-instruction cap; zero ExpiresAt means no expiry.
type Consent struct {
	ExpiresAt          time.Time
	ID                 string
	ClientID           string
	DebtorAccount      string
	Currency           string
	Status             ConsentStatus
	Period             Period
	Scopes             []Operation
	MaxAmountCents     int64
	PeriodicLimitCents int64
}

// HasScope reports whether the consent permits the operation
func (c *Consent) HasScope(op Operation) bool {
	for _, s := range c.Scopes {
		if s == op {
			return true
		}
	}
	return false
}

// IsExpired reports whether the consent has expired at now
func (c *Consent) IsExpired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !c.ExpiresAt.After(now)
}

// PeriodLimited reports whether authorizations are capped per calendar period
func (c *Consent) PeriodLimited() bool {
	return c.Period != "" && c.Period != PeriodNone && c.PeriodicLimitCents > 0
}

// CurrencyMatches reports whether currency is acceptable under the consent
func (c *Consent) CurrencyMatches(currency string) bool {
	return c.Currency == "" || strings.EqualFold(c.Currency, currency)
}
