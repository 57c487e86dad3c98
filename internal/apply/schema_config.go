package apply

import (
	"context"

	"github.com/google/uuid"

	"github.com/lendstack/backoffice/internal/domain"
	"github.com/lendstack/backoffice/internal/repository"
)

type schemaConfigPayload struct {
	ProviderID       uuid.UUID             `json:"providerId"`
	Name             string                `json:"name"`
	Description      string                `json:"description"`
	IdentifierColumn string                `json:"identifierColumn"`
	Columns          []domain.SchemaColumn `json:"columns"`
}

func applySchemaConfig(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error {
	switch change.ChangeType {
	case domain.ChangeTypeCreate:
		var payload schemaConfigPayload
		if err := decodeInto(change.Payload.Created, &payload); err != nil {
			return err
		}
		if payload.Name == "" {
			return domain.NewValidationError("name", "schema config name is required")
		}
		if payload.ProviderID == uuid.Nil {
			return domain.NewValidationError("providerId", "schema config provider is required")
		}

		config := domain.DataSchemaConfig{
			ID:               uuid.New(),
			ProviderID:       payload.ProviderID,
			Name:             payload.Name,
			Description:      payload.Description,
			IdentifierColumn: payload.IdentifierColumn,
			Columns:          payload.Columns,
		}
		if change.EntityID != nil {
			config.ID = *change.EntityID
		}
		_, err := repos.SchemaConfigs.Create(ctx, config)
		return err

	case domain.ChangeTypeUpdate:
		id, err := requireEntityID(change)
		if err != nil {
			return err
		}

		config, err := repos.SchemaConfigs.GetByID(ctx, id)
		if err != nil {
			return err
		}

		var payload schemaConfigPayload
		if err := decodeInto(change.Payload.Updated, &payload); err != nil {
			return err
		}
		if payload.Name != "" {
			config.Name = payload.Name
		}
		if _, ok := change.Payload.Updated["description"]; ok {
			config.Description = payload.Description
		}
		if payload.IdentifierColumn != "" {
			config.IdentifierColumn = payload.IdentifierColumn
		}
		if _, ok := change.Payload.Updated["columns"]; ok {
			config.Columns = payload.Columns
		}
		return repos.SchemaConfigs.Update(ctx, config)

	case domain.ChangeTypeDelete:
		id, err := requireEntityID(change)
		if err != nil {
			return err
		}
		if err := repos.ProvisionedRows.DeleteByConfig(ctx, id); err != nil {
			return err
		}
		if err := repos.Uploads.DeleteByConfig(ctx, id); err != nil {
			return err
		}
		return repos.SchemaConfigs.Delete(ctx, id)

	default:
		return unsupportedChangeType(change)
	}
}
