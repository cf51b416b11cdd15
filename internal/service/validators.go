package service

import (
	"fmt"
	"strings"

	"github.com/benx421/payment-gateway/paycore/internal/models"
	"github.com/benx421/payment-gateway/paycore/internal/policy"
)

// NormalizeRequest returns a trimmed copy of req with defaults applied.
// An empty operation means a single payment; currency is upper-cased.
// A requested execution date is reduced to the calendar date it names, at midnight UTC.
func NormalizeRequest(req *models.AuthorizationRequest) *models.AuthorizationRequest {
	normalized := *req
	normalized.ClientID = strings.TrimSpace(req.ClientID)
	normalized.ConsentID = strings.TrimSpace(req.ConsentID)
	normalized.IdempotencyKey = strings.TrimSpace(req.IdempotencyKey)
	normalized.InteractionID = strings.TrimSpace(req.InteractionID)
	normalized.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	normalized.Operation = models.Operation(strings.ToLower(strings.TrimSpace(string(req.Operation))))
	if normalized.Operation == "" {
		normalized.Operation = models.OperationPayment
	}
	if req.RequestedExecutionDate != nil {
		d := policy.CalendarDate(*req.RequestedExecutionDate)
		normalized.RequestedExecutionDate = &d
	}
	return &normalized
}

// ValidateRequest checks the shape of a normalized request
func ValidateRequest(req *models.AuthorizationRequest) error {
	if req.ClientID == "" {
		return fmt.Errorf("client id is required")
	}
	if req.ConsentID == "" {
		return fmt.Errorf("consent id is required")
	}
	if req.IdempotencyKey == "" {
		return fmt.Errorf("idempotency key is required")
	}
	if !req.Operation.Valid() {
		return fmt.Errorf("unknown operation %q", req.Operation)
	}
	if err := ValidateAmount(req.AmountCents); err != nil {
		return err
	}
	return ValidateCurrency(req.Currency)
}

// ValidateAmount checks if amount is valid (positive)
func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("invalid amount: must be greater than 0")
	}

	return nil
}

// ValidateCurrency checks for a three-letter ISO 4217 code
func ValidateCurrency(currency string) error {
	if len(currency) != 3 {
		return fmt.Errorf("invalid currency: must be a 3-letter ISO 4217 code")
	}

	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("invalid currency: must contain only letters")
		}
	}

	return nil
}
