package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is a loan product offered by a provider. Fee and penalty
// structures are stored serialized as JSON sub-objects.
type Product struct {
	ID                  uuid.UUID      `json:"id"`
	ProviderID          uuid.UUID      `json:"providerId"`
	Name                string         `json:"name"`
	Status              string         `json:"status"`
	InterestRate        float64        `json:"interestRate"`
	TenorDays           int            `json:"tenorDays"`
	Fees                map[string]any `json:"fees,omitempty"`
	Penalties           map[string]any `json:"penalties,omitempty"`
	EligibilityUploadID *uuid.UUID     `json:"eligibilityUploadId,omitempty"`
	EligibilityFilter   string         `json:"eligibilityFilter,omitempty"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}

// LoanAmountTier bounds an amount band for a product. The tier set is
// replaced wholesale on every approved product update.
type LoanAmountTier struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"productId"`
	MinAmount float64   `json:"minAmount"`
	MaxAmount float64   `json:"maxAmount"`
	Rate      float64   `json:"rate"`
}

// Tax is a named tax rate applied to loan products.
type Tax struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Rate      float64   `json:"rate"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LoanCycleConfig parameterizes repayment cycles.
type LoanCycleConfig struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	CycleLengthDays int       `json:"cycleLengthDays"`
	GraceDays       int       `json:"graceDays"`
	MaxCycles       int       `json:"maxCycles"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
