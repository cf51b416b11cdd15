package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/benx421/payment-gateway/paycore/internal/models"
	"github.com/benx421/payment-gateway/paycore/internal/policy"
	"github.com/gowebpki/jcs"
)

type fingerprintInput struct {
	Operation              models.Operation `json:"operation"`
	ConsentID              string           `json:"consent_id"`
	Currency               string           `json:"currency"`
	RequestedExecutionDate string           `json:"requested_execution_date,omitempty"`
	AmountCents            int64            `json:"amount"`
}

// Fingerprint hashes the fields that define request identity.
// The JSON is canonicalized before hashing so field order never matters.
func Fingerprint(req *models.AuthorizationRequest) (string, error) {
	input := fingerprintInput{
		Operation:   req.Operation,
		ConsentID:   req.ConsentID,
		Currency:    req.Currency,
		AmountCents: req.AmountCents,
	}
	if req.RequestedExecutionDate != nil {
		input.RequestedExecutionDate = policy.CalendarDate(*req.RequestedExecutionDate).Format("2006-01-02")
	}

	raw, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("marshal fingerprint input: %w", err)
	}

	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("canonicalize fingerprint input: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
