package domain

import (
	"time"

	"github.com/google/uuid"
)

// Record statuses shared across entity types.
const (
	StatusActive   = "Active"
	StatusDisabled = "Disabled"
)

// Provider is a lending provider (funding partner).
type Provider struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	InitialBalance float64   `json:"initialBalance"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// LedgerAccount is one row of a provider's chart of accounts.
type LedgerAccount struct {
	ID         uuid.UUID `json:"id"`
	ProviderID uuid.UUID `json:"providerId"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Kind       string    `json:"kind"`
}

// DefaultChartOfAccounts returns the chart seeded for every new provider.
func DefaultChartOfAccounts(providerID uuid.UUID) []LedgerAccount {
	defs := []struct {
		code string
		name string
		kind string
	}{
		{"1000", "Cash", "asset"},
		{"1100", "Loans Receivable", "asset"},
		{"1200", "Interest Receivable", "asset"},
		{"1300", "Disbursement Clearing", "asset"},
		{"1400", "Collection Clearing", "asset"},
		{"1500", "Provision for Loan Losses", "asset"},
		{"2000", "Tax Payable", "liability"},
		{"2100", "Merchant Settlements Payable", "liability"},
		{"3000", "Provider Capital", "equity"},
		{"3100", "Retained Earnings", "equity"},
		{"4000", "Interest Income", "income"},
		{"4100", "Fee Income", "income"},
		{"4200", "Penalty Income", "income"},
	}

	accounts := make([]LedgerAccount, len(defs))
	for i, def := range defs {
		accounts[i] = LedgerAccount{
			ID:         uuid.New(),
			ProviderID: providerID,
			Code:       def.code,
			Name:       def.name,
			Kind:       def.kind,
		}
	}
	return accounts
}

// DefaultSchemaConfig returns the external-data schema seeded alongside a
// new provider: one borrower sheet keyed by national id.
func DefaultSchemaConfig(providerID uuid.UUID) DataSchemaConfig {
	return DataSchemaConfig{
		ID:               uuid.New(),
		ProviderID:       providerID,
		Name:             "borrowers",
		Description:      "Default borrower upload sheet",
		IdentifierColumn: "national_id",
		Columns: []SchemaColumn{
			{Name: "national_id", Type: "string", Identifier: true},
			{Name: "full_name", Type: "string"},
			{Name: "phone", Type: "string"},
		},
	}
}
