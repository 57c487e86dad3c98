// Package apply routes approved changes to per-entity-type appliers and
// performs the real mutations against the persistent store. Every applier
// runs inside the caller's transaction; any returned error rolls the whole
// apply back.
package apply

import (
	"context"
	"fmt"

	"github.com/lendstack/backoffice/internal/diff"
	"github.com/lendstack/backoffice/internal/domain"
	"github.com/lendstack/backoffice/internal/repository"
	"github.com/lendstack/backoffice/internal/tabular"
)

// Func applies one change against transaction-bound repositories.
type Func func(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error

// ParseFunc is the tabular-parser collaborator consumed by the upload and
// eligibility appliers.
type ParseFunc func(fileName string, payload []byte) (tabular.Table, error)

// Entry pairs an entity type's applier with its diff summarizer, so the
// two can never drift apart. A nil Summarize falls back to diff.Generic.
type Entry struct {
	Apply     Func
	Summarize diff.Summarizer
}

// Registry maps the closed entity-type vocabulary to appliers. It is
// built once at startup and never mutated afterwards.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry builds the full registry. parse may be nil, in which case
// the real tabular parser is used.
func NewRegistry(parse ParseFunc) *Registry {
	if parse == nil {
		parse = tabular.Parse
	}

	r := &Registry{entries: map[string]Entry{}}

	r.entries[domain.EntityTypeProvider] = Entry{Apply: applyProvider}
	r.entries[domain.EntityTypeProduct] = Entry{Apply: applyProduct}
	r.entries[domain.EntityTypeTax] = Entry{Apply: applyTax}
	r.entries[domain.EntityTypeLoanCycleConfig] = Entry{Apply: applyLoanCycle}
	r.entries[domain.EntityTypeDataSchemaConfig] = Entry{Apply: applySchemaConfig, Summarize: diff.SchemaConfig}
	r.entries[domain.EntityTypeDataUpload] = Entry{Apply: applyDataUpload(parse)}
	r.entries[domain.EntityTypeEligibilityList] = Entry{Apply: applyEligibilityList(parse)}
	r.entries[domain.EntityTypeScoringRules] = Entry{Apply: applyScoringRules}
	r.entries[domain.EntityTypeTermsAndConditions] = Entry{Apply: applyTerms}

	r.entries[domain.EntityTypeBranch] = Entry{
		Apply: envelopeApplier(domain.EntityTypeBranch, map[string]Func{
			domain.SubtypeLocation:       applyLocation,
			domain.SubtypeInventoryLevel: applyInventoryLevel,
		}),
		Summarize: diff.Envelope,
	}
	r.entries[domain.EntityTypeMerchants] = Entry{
		Apply: envelopeApplier(domain.EntityTypeMerchants, map[string]Func{
			domain.SubtypeCategory:     applyCategory,
			domain.SubtypeMerchant:     applyMerchant,
			domain.SubtypeMerchantUser: applyMerchantUser,
			domain.SubtypeDiscountRule: applyDiscountRule,
			domain.SubtypeItem:         applyItem,
		}),
		Summarize: diff.Envelope,
	}

	return r
}

// Validate checks that every tag of the entity-type vocabulary has an
// applier. Run at startup so a missing registration is a boot failure,
// not a runtime surprise.
func (r *Registry) Validate() error {
	for _, entityType := range domain.EntityTypes() {
		entry, ok := r.entries[entityType]
		if !ok || entry.Apply == nil {
			return fmt.Errorf("no applier registered for entity type %q", entityType)
		}
	}
	return nil
}

// MustValidate panics on a misconfigured registry.
func (r *Registry) MustValidate() *Registry {
	if err := r.Validate(); err != nil {
		panic(err)
	}
	return r
}

// Dispatch resolves the applier for the change's entity type and invokes
// it. An unregistered tag is a configuration error, distinct from the
// validation errors appliers raise for bad payloads.
func (r *Registry) Dispatch(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error {
	entry, ok := r.entries[change.EntityType]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedEntity, change.EntityType)
	}
	return entry.Apply(ctx, repos, change)
}

// Summarize computes the display diff for a change using the entity
// type's summarizer, falling back to the generic structural diff.
func (r *Registry) Summarize(change domain.PendingChange) (domain.DiffSummary, error) {
	entry, ok := r.entries[change.EntityType]
	if !ok {
		return domain.DiffSummary{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedEntity, change.EntityType)
	}
	if entry.Summarize == nil {
		return diff.Generic(change)
	}
	return entry.Summarize(change)
}
