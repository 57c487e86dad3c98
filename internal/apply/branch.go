package apply

import (
	"context"

	"github.com/google/uuid"

	"github.com/lendstack/backoffice/internal/domain"
	"github.com/lendstack/backoffice/internal/repository"
)

// Branch envelope subtypes: physical locations and their plain per-item
// inventory levels.

func applyLocation(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error {
	switch change.ChangeType {
	case domain.ChangeTypeCreate:
		name, ok := getString(change.Payload.Created, "name")
		if !ok || name == "" {
			return domain.NewValidationError("name", "location name is required")
		}
		address, _ := getString(change.Payload.Created, "address")

		location := domain.Location{ID: uuid.New(), Name: name, Address: address}
		if change.EntityID != nil {
			location.ID = *change.EntityID
		}
		_, err := repos.Catalog.CreateLocation(ctx, location)
		return err

	case domain.ChangeTypeUpdate:
		id, err := requireEntityID(change)
		if err != nil {
			return err
		}
		name, _ := getString(change.Payload.Updated, "name")
		address, _ := getString(change.Payload.Updated, "address")
		return repos.Catalog.UpdateLocation(ctx, domain.Location{ID: id, Name: name, Address: address})

	case domain.ChangeTypeDelete:
		id, err := requireEntityID(change)
		if err != nil {
			return err
		}
		return repos.Catalog.DeleteLocation(ctx, id)

	default:
		return unsupportedChangeType(change)
	}
}

type inventoryLevelPayload struct {
	ItemID     uuid.UUID `json:"itemId"`
	LocationID uuid.UUID `json:"locationId"`
	Quantity   int       `json:"quantity"`
}

func applyInventoryLevel(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error {
	var payload inventoryLevelPayload
	if err := decodeInto(change.Payload.Data(change.ChangeType), &payload); err != nil {
		return err
	}
	if payload.ItemID == uuid.Nil || payload.LocationID == uuid.Nil {
		return domain.NewValidationError("inventoryLevel", "item and location are required")
	}

	switch change.ChangeType {
	case domain.ChangeTypeCreate, domain.ChangeTypeUpdate:
		exists, err := repos.Catalog.LocationExists(ctx, payload.LocationID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.NewValidationError("locationId", "location %s does not exist", payload.LocationID)
		}
		return repos.Catalog.UpsertInventoryLevel(ctx, domain.InventoryLevel{
			ID:         uuid.New(),
			ItemID:     payload.ItemID,
			LocationID: payload.LocationID,
			Quantity:   payload.Quantity,
		})

	case domain.ChangeTypeDelete:
		return repos.Catalog.DeleteInventoryLevel(ctx, payload.ItemID, payload.LocationID)

	default:
		return unsupportedChangeType(change)
	}
}
