package apply

import (
	"context"

	"github.com/google/uuid"

	"github.com/lendstack/backoffice/internal/domain"
	"github.com/lendstack/backoffice/internal/repository"
)

type scoringPayload struct {
	Rules []struct {
		Parameter string  `json:"parameter"`
		Operator  string  `json:"operator"`
		Value     string  `json:"value"`
		Weight    float64 `json:"weight"`
	} `json:"rules"`
}

// applyScoringRules is update-only: it records an immutable history
// snapshot of the incoming rule set, links any specified product ids to
// it, then replaces the live rules wholesale.
func applyScoringRules(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error {
	if change.ChangeType != domain.ChangeTypeUpdate {
		return unsupportedChangeType(change)
	}

	var payload scoringPayload
	if err := decodeInto(change.Payload.Updated, &payload); err != nil {
		return err
	}
	if len(payload.Rules) == 0 {
		return domain.NewValidationError("rules", "scoring update carries no rules")
	}

	rules := make([]domain.ScoringRule, len(payload.Rules))
	for i, rule := range payload.Rules {
		if rule.Parameter == "" {
			return domain.NewValidationError("rules", "scoring rule %d is missing its parameter", i+1)
		}
		rules[i] = domain.ScoringRule{
			ID:        uuid.New(),
			Parameter: rule.Parameter,
			Operator:  rule.Operator,
			Value:     rule.Value,
			Weight:    rule.Weight,
		}
	}

	set := domain.ScoringRuleSet{
		ID:          uuid.New(),
		Rules:       rules,
		CreatedByID: change.CreatedByID,
	}
	if err := repos.Scoring.CreateSnapshot(ctx, set); err != nil {
		return err
	}
	if len(change.Payload.AppliedProductIDs) > 0 {
		if err := repos.Scoring.LinkProducts(ctx, set.ID, change.Payload.AppliedProductIDs); err != nil {
			return err
		}
	}
	return repos.Scoring.ReplaceLiveRules(ctx, rules)
}

type termsPayload struct {
	ProviderID uuid.UUID `json:"providerId"`
	Content    string    `json:"content"`
}

// applyTerms is update-only: it deactivates all prior active versions for
// the provider and inserts one new active version numbered max+1.
func applyTerms(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error {
	if change.ChangeType != domain.ChangeTypeUpdate {
		return unsupportedChangeType(change)
	}

	var payload termsPayload
	if err := decodeInto(change.Payload.Updated, &payload); err != nil {
		return err
	}
	if payload.ProviderID == uuid.Nil {
		return domain.NewValidationError("providerId", "terms update requires a provider")
	}
	if payload.Content == "" {
		return domain.NewValidationError("content", "terms content is required")
	}

	if err := repos.Terms.DeactivateByProvider(ctx, payload.ProviderID); err != nil {
		return err
	}
	maxVersion, err := repos.Terms.MaxVersion(ctx, payload.ProviderID)
	if err != nil {
		return err
	}

	_, err = repos.Terms.Create(ctx, domain.TermsVersion{
		ID:         uuid.New(),
		ProviderID: payload.ProviderID,
		Version:    maxVersion + 1,
		Content:    payload.Content,
		Active:     true,
	})
	return err
}
