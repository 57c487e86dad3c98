package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lendstack/backoffice/internal/domain"
)

type scoringRepository struct {
	db DBTX
}

func (r *scoringRepository) CreateSnapshot(ctx context.Context, set domain.ScoringRuleSet) error {
	rulesJSON, err := json.Marshal(set.Rules)
	if err != nil {
		return fmt.Errorf("failed to marshal scoring snapshot: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO scoring_rule_sets (id, rules, created_by_id) VALUES ($1, $2, $3)`,
		set.ID,
		rulesJSON,
		set.CreatedByID,
	)
	if err != nil {
		return fmt.Errorf("failed to create scoring snapshot: %w", err)
	}
	return nil
}

func (r *scoringRepository) LinkProducts(ctx context.Context, setID uuid.UUID, productIDs []uuid.UUID) error {
	for _, productID := range productIDs {
		_, err := r.db.Exec(
			ctx,
			`INSERT INTO scoring_set_products (set_id, product_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			setID,
			productID,
		)
		if err != nil {
			return fmt.Errorf("failed to link product %s to scoring set: %w", productID, err)
		}
	}
	return nil
}

func (r *scoringRepository) ReplaceLiveRules(ctx context.Context, rules []domain.ScoringRule) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM scoring_rules`); err != nil {
		return fmt.Errorf("failed to clear live scoring rules: %w", err)
	}
	for _, rule := range rules {
		_, err := r.db.Exec(
			ctx,
			`INSERT INTO scoring_rules (id, parameter, operator, value, weight)
			 VALUES ($1, $2, $3, $4, $5)`,
			rule.ID,
			rule.Parameter,
			rule.Operator,
			rule.Value,
			rule.Weight,
		)
		if err != nil {
			return fmt.Errorf("failed to create scoring rule %s: %w", rule.Parameter, err)
		}
	}
	return nil
}

type termsRepository struct {
	db DBTX
}

func (r *termsRepository) DeactivateByProvider(ctx context.Context, providerID uuid.UUID) error {
	_, err := r.db.Exec(
		ctx,
		`UPDATE terms_versions SET active = false WHERE provider_id = $1 AND active`,
		providerID,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate terms versions: %w", err)
	}
	return nil
}

func (r *termsRepository) MaxVersion(ctx context.Context, providerID uuid.UUID) (int, error) {
	var version pgtype.Int4
	err := r.db.QueryRow(
		ctx,
		`SELECT max(version) FROM terms_versions WHERE provider_id = $1`,
		providerID,
	).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read max terms version: %w", err)
	}
	if !version.Valid {
		return 0, nil
	}
	return int(version.Int32), nil
}

func (r *termsRepository) Create(ctx context.Context, version domain.TermsVersion) (domain.TermsVersion, error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO terms_versions (id, provider_id, version, content, active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		version.ID,
		version.ProviderID,
		version.Version,
		version.Content,
		version.Active,
	)

	var createdAt pgtype.Timestamptz
	if err := row.Scan(&createdAt); err != nil {
		return domain.TermsVersion{}, fmt.Errorf("failed to create terms version: %w", err)
	}
	if createdAt.Valid {
		version.CreatedAt = createdAt.Time
	}
	return version, nil
}
