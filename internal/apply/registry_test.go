package apply

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/lendstack/backoffice/internal/domain"
)

func TestRegistryCoversFullVocabulary(t *testing.T) {
	if err := NewRegistry(nil).Validate(); err != nil {
		t.Fatalf("registry validation failed: %v", err)
	}
}

func TestDispatchUnknownEntityType(t *testing.T) {
	stubs := newStubRepos()
	change := domain.NewPendingChange(
		"warehouse",
		nil,
		domain.ChangeTypeCreate,
		domain.ChangePayload{Created: map[string]any{}},
		uuid.New(),
	)

	err := NewRegistry(nil).Dispatch(context.Background(), stubs.repositories(), change)
	if !errors.Is(err, domain.ErrUnsupportedEntity) {
		t.Fatalf("expected unsupported entity error, got %v", err)
	}
}

func TestEnvelopeDispatchesOnSubtype(t *testing.T) {
	stubs := newStubRepos()
	change := domain.NewPendingChange(
		domain.EntityTypeBranch,
		nil,
		domain.ChangeTypeCreate,
		domain.ChangePayload{Created: map[string]any{
			"type": domain.SubtypeLocation,
			"data": map[string]any{"name": "Main Branch", "address": "1 High St"},
		}},
		uuid.New(),
	)

	if err := NewRegistry(nil).Dispatch(context.Background(), stubs.repositories(), change); err != nil {
		t.Fatalf("dispatch returned error: %v", err)
	}
	if len(stubs.catalog.locations) != 1 {
		t.Fatalf("expected 1 location, got %d", len(stubs.catalog.locations))
	}
	for _, location := range stubs.catalog.locations {
		if location.Name != "Main Branch" {
			t.Fatalf("unexpected location name %q", location.Name)
		}
	}
}

func TestEnvelopeRejectsUnknownSubtype(t *testing.T) {
	stubs := newStubRepos()
	change := domain.NewPendingChange(
		domain.EntityTypeBranch,
		nil,
		domain.ChangeTypeCreate,
		domain.ChangePayload{Created: map[string]any{
			"type": "vault",
			"data": map[string]any{"name": "x"},
		}},
		uuid.New(),
	)

	err := NewRegistry(nil).Dispatch(context.Background(), stubs.repositories(), change)
	if !errors.Is(err, domain.ErrUnsupportedEntity) {
		t.Fatalf("expected unsupported entity error for unknown subtype, got %v", err)
	}
}

func TestEnvelopeRejectsDisagreeingSubtypeTags(t *testing.T) {
	stubs := newStubRepos()
	entityID := uuid.New()
	change := domain.NewPendingChange(
		domain.EntityTypeBranch,
		&entityID,
		domain.ChangeTypeUpdate,
		domain.ChangePayload{
			Original: map[string]any{"type": domain.SubtypeLocation, "data": map[string]any{"name": "A"}},
			Updated:  map[string]any{"type": domain.SubtypeInventoryLevel, "data": map[string]any{}},
		},
		uuid.New(),
	)

	err := NewRegistry(nil).Dispatch(context.Background(), stubs.repositories(), change)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error for disagreeing tags, got %v", err)
	}
}

func TestInventoryLevelUpsertRequiresLocation(t *testing.T) {
	stubs := newStubRepos()
	itemID := uuid.New()
	change := domain.NewPendingChange(
		domain.EntityTypeBranch,
		nil,
		domain.ChangeTypeCreate,
		domain.ChangePayload{Created: map[string]any{
			"type": domain.SubtypeInventoryLevel,
			"data": map[string]any{
				"itemId":     itemID.String(),
				"locationId": uuid.New().String(),
				"quantity":   float64(3),
			},
		}},
		uuid.New(),
	)

	err := NewRegistry(nil).Dispatch(context.Background(), stubs.repositories(), change)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error for unknown location, got %v", err)
	}
	if len(stubs.catalog.inventoryLevels) != 0 {
		t.Fatalf("no inventory may be written for an unknown location")
	}
}
