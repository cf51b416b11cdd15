package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID prefixes for externally visible identifiers
const (
	PrefixPayment     = "pay_"
	PrefixReservation = "rsv_"
)

// FormatPaymentID renders a payment ID as returned to clients
func FormatPaymentID(id uuid.UUID) string {
	return PrefixPayment + id.String()
}

// ReservationReference derives the funds reservation reference from a payment ID
func ReservationReference(id uuid.UUID) string {
	return PrefixReservation + id.String()
}

// ParsePaymentID parses an ID produced by FormatPaymentID
func ParsePaymentID(id string) (uuid.UUID, error) {
	return parseIDWithPrefix(id, PrefixPayment, "payment")
}

func parseIDWithPrefix(id, prefix, typeName string) (uuid.UUID, error) {
	if !strings.HasPrefix(id, prefix) {
		return uuid.Nil, fmt.Errorf("invalid %s ID format: missing %s prefix", typeName, prefix)
	}

	uuidStr := strings.TrimPrefix(id, prefix)
	parsed, err := uuid.Parse(uuidStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s ID format: %w", typeName, err)
	}

	return parsed, nil
}
