package apply

import (
	"context"

	"github.com/google/uuid"

	"github.com/lendstack/backoffice/internal/domain"
	"github.com/lendstack/backoffice/internal/repository"
)

// applyProvider mutates lending providers. Creation seeds the default
// chart of ledger accounts and one default external-data schema; deletion
// refuses while dependent products exist and otherwise cascades through
// the provider's data-schema configs.
func applyProvider(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error {
	switch change.ChangeType {
	case domain.ChangeTypeCreate:
		return createProvider(ctx, repos, change)
	case domain.ChangeTypeUpdate:
		return updateProvider(ctx, repos, change)
	case domain.ChangeTypeDelete:
		return deleteProvider(ctx, repos, change)
	default:
		return unsupportedChangeType(change)
	}
}

func createProvider(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error {
	created := change.Payload.Created

	name, ok := getString(created, "name")
	if !ok || name == "" {
		return domain.NewValidationError("name", "provider name is required")
	}
	capital, _ := getFloat(created, "startingCapital")

	provider := domain.Provider{
		ID:             uuid.New(),
		Name:           name,
		InitialBalance: capital,
		Status:         domain.StatusActive,
	}
	if change.EntityID != nil {
		provider.ID = *change.EntityID
	}

	provider, err := repos.Providers.Create(ctx, provider)
	if err != nil {
		return err
	}
	if err := repos.Providers.CreateLedgerAccounts(ctx, domain.DefaultChartOfAccounts(provider.ID)); err != nil {
		return err
	}
	_, err = repos.SchemaConfigs.Create(ctx, domain.DefaultSchemaConfig(provider.ID))
	return err
}

func updateProvider(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error {
	id, err := requireEntityID(change)
	if err != nil {
		return err
	}

	provider, err := repos.Providers.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Relation arrays never reach the row write; only scalars apply.
	updated := stripRelations(change.Payload.Updated)
	if name, ok := getString(updated, "name"); ok {
		provider.Name = name
	}
	if capital, ok := getFloat(updated, "startingCapital"); ok {
		provider.InitialBalance = capital
	}
	provider.Status = domain.StatusActive

	return repos.Providers.Update(ctx, provider)
}

func deleteProvider(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error {
	id, err := requireEntityID(change)
	if err != nil {
		return err
	}

	count, err := repos.Products.CountByProvider(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.NewValidationError("provider", "provider has %d dependent products and cannot be deleted", count)
	}

	configs, err := repos.SchemaConfigs.ListByProvider(ctx, id)
	if err != nil {
		return err
	}
	for _, config := range configs {
		if err := repos.ProvisionedRows.DeleteByConfig(ctx, config.ID); err != nil {
			return err
		}
		if err := repos.Uploads.DeleteByConfig(ctx, config.ID); err != nil {
			return err
		}
		if err := repos.SchemaConfigs.Delete(ctx, config.ID); err != nil {
			return err
		}
	}

	return repos.Providers.Delete(ctx, id)
}
