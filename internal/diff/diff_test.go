package diff

import (
	"testing"

	"github.com/google/uuid"

	"github.com/lendstack/backoffice/internal/domain"
)

func entryByPath(t *testing.T, summary domain.DiffSummary, path string) domain.DiffEntry {
	t.Helper()
	for _, entry := range summary.Details {
		if entry.FieldPath == path {
			return entry
		}
	}
	t.Fatalf("no diff entry for path %q in %+v", path, summary.Details)
	return domain.DiffEntry{}
}

func TestGenericCreateCountsEveryKeyAsAdded(t *testing.T) {
	change := domain.NewPendingChange(
		domain.EntityTypeProvider,
		nil,
		domain.ChangeTypeCreate,
		domain.ChangePayload{Created: map[string]any{
			"name":            "Acme",
			"startingCapital": float64(100000),
		}},
		uuid.New(),
	)

	summary, err := Generic(change)
	if err != nil {
		t.Fatalf("diff returned error: %v", err)
	}
	if summary.AddedCount != 2 || summary.RemovedCount != 0 || summary.UpdatedCount != 0 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if entry := entryByPath(t, summary, "name"); entry.After != "Acme" || entry.Kind != domain.DiffKindAdded {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestGenericDeleteCountsEveryKeyAsRemoved(t *testing.T) {
	entityID := uuid.New()
	change := domain.NewPendingChange(
		domain.EntityTypeTax,
		&entityID,
		domain.ChangeTypeDelete,
		domain.ChangePayload{Original: map[string]any{
			"name": "VAT",
			"rate": float64(5),
		}},
		uuid.New(),
	)

	summary, err := Generic(change)
	if err != nil {
		t.Fatalf("diff returned error: %v", err)
	}
	if summary.RemovedCount != 2 || summary.AddedCount != 0 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
}

func TestGenericUpdateProducesDottedPaths(t *testing.T) {
	entityID := uuid.New()
	change := domain.NewPendingChange(
		domain.EntityTypeProduct,
		&entityID,
		domain.ChangeTypeUpdate,
		domain.ChangePayload{
			Original: map[string]any{
				"name": "WC",
				"fees": map[string]any{"origination": float64(2), "late": float64(1)},
			},
			Updated: map[string]any{
				"name":      "WC",
				"fees":      map[string]any{"origination": float64(3), "late": float64(1)},
				"tenorDays": float64(90),
			},
		},
		uuid.New(),
	)

	summary, err := Generic(change)
	if err != nil {
		t.Fatalf("diff returned error: %v", err)
	}
	if summary.UpdatedCount != 1 || summary.AddedCount != 1 || summary.RemovedCount != 0 {
		t.Fatalf("unexpected counts: %+v", summary)
	}

	fee := entryByPath(t, summary, "fees.origination")
	if fee.Before != float64(2) || fee.After != float64(3) || fee.Kind != domain.DiffKindUpdated {
		t.Fatalf("unexpected entry: %+v", fee)
	}
	if entry := entryByPath(t, summary, "tenorDays"); entry.Kind != domain.DiffKindAdded {
		t.Fatalf("expected tenorDays to be added, got %+v", entry)
	}
}

func TestGenericTreatsArraysAsAtomic(t *testing.T) {
	entityID := uuid.New()
	change := domain.NewPendingChange(
		domain.EntityTypeProduct,
		&entityID,
		domain.ChangeTypeUpdate,
		domain.ChangePayload{
			Original: map[string]any{"tiers": []any{float64(1), float64(2)}},
			Updated:  map[string]any{"tiers": []any{float64(1), float64(3)}},
		},
		uuid.New(),
	)

	summary, err := Generic(change)
	if err != nil {
		t.Fatalf("diff returned error: %v", err)
	}
	if summary.UpdatedCount != 1 || len(summary.Details) != 1 {
		t.Fatalf("expected one atomic array entry, got %+v", summary)
	}
	if summary.Details[0].FieldPath != "tiers" {
		t.Fatalf("unexpected path %q", summary.Details[0].FieldPath)
	}
}

func TestEnvelopeUnwrapsBeforeDiffing(t *testing.T) {
	entityID := uuid.New()
	change := domain.NewPendingChange(
		domain.EntityTypeBranch,
		&entityID,
		domain.ChangeTypeUpdate,
		domain.ChangePayload{
			Original: map[string]any{
				"type": "location",
				"data": map[string]any{"name": "Main", "address": "1 High St"},
			},
			Updated: map[string]any{
				"type": "location",
				"data": map[string]any{"name": "Main", "address": "2 Low Rd"},
			},
		},
		uuid.New(),
	)

	summary, err := Envelope(change)
	if err != nil {
		t.Fatalf("diff returned error: %v", err)
	}
	if summary.UpdatedCount != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	address := entryByPath(t, summary, "address")
	if address.Before != "1 High St" || address.After != "2 Low Rd" {
		t.Fatalf("unexpected entry: %+v", address)
	}
}

func TestSchemaConfigDiffAnnotatesColumnChanges(t *testing.T) {
	entityID := uuid.New()
	change := domain.NewPendingChange(
		domain.EntityTypeDataSchemaConfig,
		&entityID,
		domain.ChangeTypeUpdate,
		domain.ChangePayload{
			Original: map[string]any{
				"name": "borrowers",
				"columns": []any{
					map[string]any{"name": "national_id", "type": "string", "identifier": true},
					map[string]any{"name": "phone", "type": "string"},
				},
			},
			Updated: map[string]any{
				"name": "customers",
				"columns": []any{
					map[string]any{"name": "national_id", "type": "string", "identifier": true},
					map[string]any{"name": "email", "type": "string"},
				},
			},
		},
		uuid.New(),
	)

	summary, err := SchemaConfig(change)
	if err != nil {
		t.Fatalf("diff returned error: %v", err)
	}

	name := entryByPath(t, summary, "name")
	if name.Before != "borrowers" || name.After != "customers" {
		t.Fatalf("unexpected name entry: %+v", name)
	}

	added := entryByPath(t, summary, "Columns added")
	if list, ok := added.After.([]string); !ok || len(list) != 1 || list[0] != "email (string)" {
		t.Fatalf("unexpected added columns: %+v", added.After)
	}
	removed := entryByPath(t, summary, "Columns removed")
	if list, ok := removed.Before.([]string); !ok || len(list) != 1 || list[0] != "phone (string)" {
		t.Fatalf("unexpected removed columns: %+v", removed.Before)
	}

	ordered := entryByPath(t, summary, "Columns")
	if ordered.Kind != domain.DiffKindUpdated {
		t.Fatalf("expected ordered column list entry, got %+v", ordered)
	}
}
