package domain

import (
	"time"

	"github.com/google/uuid"
)

// ScoringRule is one live scoring parameter. The live set is replaced
// wholesale on every approved scoring update.
type ScoringRule struct {
	ID        uuid.UUID `json:"id"`
	Parameter string    `json:"parameter"`
	Operator  string    `json:"operator"`
	Value     string    `json:"value"`
	Weight    float64   `json:"weight"`
}

// ScoringRuleSet is an immutable history snapshot of a rule set, recorded
// before the live rules are replaced.
type ScoringRuleSet struct {
	ID          uuid.UUID     `json:"id"`
	Rules       []ScoringRule `json:"rules"`
	CreatedByID uuid.UUID     `json:"createdById"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// TermsVersion is one version of a provider's terms and conditions. At
// most one version per provider is active.
type TermsVersion struct {
	ID         uuid.UUID `json:"id"`
	ProviderID uuid.UUID `json:"providerId"`
	Version    int       `json:"version"`
	Content    string    `json:"content"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
}
