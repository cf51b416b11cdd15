// Package risk provides the built-in rule-based risk assessor.
package risk

import (
	"context"
	"strings"

	"github.com/benx421/payment-gateway/paycore/internal/models"
)

// RuleAssessor rejects requests from blocked clients and requests above a per-instruction cap.
// A zero cap disables the amount rule.
type RuleAssessor struct {
	blocked        map[string]struct{}
	maxAmountCents int64
}

// NewRuleAssessor creates a rule assessor. Blocked client ids are matched case-insensitively.
func NewRuleAssessor(maxAmountCents int64, blockedClients []string) *RuleAssessor {
	blocked := make(map[string]struct{}, len(blockedClients))
	for _, c := range blockedClients {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			blocked[c] = struct{}{}
		}
	}
	return &RuleAssessor{blocked: blocked, maxAmountCents: maxAmountCents}
}

// Assess returns REJECT when any rule fires, PASS otherwise
func (a *RuleAssessor) Assess(ctx context.Context, req *models.AuthorizationRequest, clientID string) (models.RiskDecision, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if _, ok := a.blocked[strings.ToLower(clientID)]; ok {
		return models.RiskReject, nil
	}
	if a.maxAmountCents > 0 && req.AmountCents > a.maxAmountCents {
		return models.RiskReject, nil
	}
	return models.RiskPass, nil
}
