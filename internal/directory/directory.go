// Package directory serves consent context and debtor accounts loaded from a
// YAML file, for deployments without a consent-management service.
package directory

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/benx421/payment-gateway/paycore/internal/models"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type consentEntry struct {
	ID                 string   `yaml:"id"`
	ClientID           string   `yaml:"client_id"`
	DebtorAccount      string   `yaml:"debtor_account"`
	Status             string   `yaml:"status"`
	Currency           string   `yaml:"currency"`
	Period             string   `yaml:"period"`
	ExpiresAt          string   `yaml:"expires_at"`
	Scopes             []string `yaml:"scopes"`
	MaxAmountCents     int64    `yaml:"max_amount_cents"`
	PeriodicLimitCents int64    `yaml:"periodic_limit_cents"`
}

type accountEntry struct {
	AccountNumber         string `yaml:"account_number"`
	Currency              string `yaml:"currency"`
	BalanceCents          int64  `yaml:"balance_cents"`
	AvailableBalanceCents *int64 `yaml:"available_balance_cents"`
}

type file struct {
	Consents []consentEntry `yaml:"consents"`
	Accounts []accountEntry `yaml:"accounts"`
}

// Directory is a read-only consent lookup
type Directory struct {
	consents map[string]models.Consent
	accounts []models.Account
	mu       sync.RWMutex
}

// NewDirectory creates a Directory holding the given consents
func NewDirectory(consents ...models.Consent) *Directory {
	d := &Directory{consents: make(map[string]models.Consent, len(consents))}
	for _, c := range consents {
		d.consents[c.ID] = c
	}
	return d
}

// LoadFile reads consents and accounts from a YAML file
func LoadFile(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read directory file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML directory document
func Parse(data []byte) (*Directory, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode directory: %w", err)
	}

	d := NewDirectory()
	for i, entry := range f.Consents {
		consent, err := entry.toModel()
		if err != nil {
			return nil, fmt.Errorf("consent %d: %w", i, err)
		}
		if _, dup := d.consents[consent.ID]; dup {
			return nil, fmt.Errorf("consent %d: duplicate id %s", i, consent.ID)
		}
		d.consents[consent.ID] = consent
	}

	for i, entry := range f.Accounts {
		if entry.AccountNumber == "" {
			return nil, fmt.Errorf("account %d: account_number is required", i)
		}
		available := entry.BalanceCents
		if entry.AvailableBalanceCents != nil {
			available = *entry.AvailableBalanceCents
		}
		d.accounts = append(d.accounts, models.Account{
			ID:                    uuid.NewSHA1(uuid.NameSpaceOID, []byte(entry.AccountNumber)),
			AccountNumber:         entry.AccountNumber,
			Currency:              strings.ToUpper(entry.Currency),
			BalanceCents:          entry.BalanceCents,
			AvailableBalanceCents: available,
		})
	}

	return d, nil
}

func (e consentEntry) toModel() (models.Consent, error) {
	if e.ID == "" {
		return models.Consent{}, fmt.Errorf("id is required")
	}

	c := models.Consent{
		ID:                 e.ID,
		ClientID:           e.ClientID,
		DebtorAccount:      e.DebtorAccount,
		Status:             models.ConsentStatus(strings.ToUpper(e.Status)),
		Currency:           strings.ToUpper(e.Currency),
		Period:             models.Period(strings.ToUpper(e.Period)),
		MaxAmountCents:     e.MaxAmountCents,
		PeriodicLimitCents: e.PeriodicLimitCents,
	}
	if c.Period == "" {
		c.Period = models.PeriodNone
	}

	switch c.Period {
	case models.PeriodNone, models.PeriodDaily, models.PeriodWeekly, models.PeriodMonthly, models.PeriodYearly:
	default:
		return models.Consent{}, fmt.Errorf("unknown period %q", e.Period)
	}

	for _, s := range e.Scopes {
		op := models.Operation(strings.ToLower(s))
		if !op.Valid() {
			return models.Consent{}, fmt.Errorf("unknown scope %q", s)
		}
		c.Scopes = append(c.Scopes, op)
	}

	if e.ExpiresAt != "" {
		expires, err := time.Parse(time.RFC3339, e.ExpiresAt)
		if err != nil {
			return models.Consent{}, fmt.Errorf("invalid expires_at: %w", err)
		}
		c.ExpiresAt = expires
	}

	return c, nil
}

// FindByID returns the consent or nil when it is not in the directory
func (d *Directory) FindByID(_ context.Context, consentID string) (*models.Consent, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c, ok := d.consents[consentID]
	if !ok {
		return nil, nil
	}
	c.Scopes = append([]models.Operation(nil), c.Scopes...)
	return &c, nil
}

// Put adds or replaces a consent
func (d *Directory) Put(consent models.Consent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.consents[consent.ID] = consent
}

// Accounts returns the debtor accounts declared in the file
func (d *Directory) Accounts() []models.Account {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]models.Account(nil), d.accounts...)
}
