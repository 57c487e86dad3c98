package diff

import (
	"fmt"
	"reflect"

	"github.com/lendstack/backoffice/internal/domain"
)

// Scalar fields of a schema config diffed individually on update.
var schemaConfigScalarFields = []string{"name", "description", "identifierColumn"}

// SchemaConfig summarizes data-schema-config changes. A raw structural
// diff of the column array is unreadable, so updates compare column-name
// sets directly and surface added/removed column lists annotated with
// type and identifier flag. A single "Columns" before/after snapshot is
// emitted only when the ordered name lists differ.
func SchemaConfig(change domain.PendingChange) (domain.DiffSummary, error) {
	if change.ChangeType != domain.ChangeTypeUpdate {
		return Generic(change)
	}

	summary := domain.DiffSummary{Details: []domain.DiffEntry{}}
	original := change.Payload.Original
	updated := change.Payload.Updated

	for _, field := range schemaConfigScalarFields {
		beforeValue, inBefore := original[field]
		afterValue, inAfter := updated[field]
		switch {
		case !inBefore && inAfter:
			summary.Append(domain.DiffEntry{FieldPath: field, After: afterValue, Kind: domain.DiffKindAdded})
		case inBefore && !inAfter:
			summary.Append(domain.DiffEntry{FieldPath: field, Before: beforeValue, Kind: domain.DiffKindRemoved})
		case inBefore && inAfter && !reflect.DeepEqual(beforeValue, afterValue):
			summary.Append(domain.DiffEntry{FieldPath: field, Before: beforeValue, After: afterValue, Kind: domain.DiffKindUpdated})
		}
	}

	beforeColumns := columnSpecs(original["columns"])
	afterColumns := columnSpecs(updated["columns"])

	var added, removed []string
	for name, annotation := range afterColumns.byName {
		if _, ok := beforeColumns.byName[name]; !ok {
			added = append(added, annotation)
		}
	}
	for name, annotation := range beforeColumns.byName {
		if _, ok := afterColumns.byName[name]; !ok {
			removed = append(removed, annotation)
		}
	}
	if len(added) > 0 {
		summary.Append(domain.DiffEntry{FieldPath: "Columns added", After: added, Kind: domain.DiffKindAdded})
	}
	if len(removed) > 0 {
		summary.Append(domain.DiffEntry{FieldPath: "Columns removed", Before: removed, Kind: domain.DiffKindRemoved})
	}
	if !reflect.DeepEqual(beforeColumns.ordered, afterColumns.ordered) {
		summary.Append(domain.DiffEntry{
			FieldPath: "Columns",
			Before:    beforeColumns.ordered,
			After:     afterColumns.ordered,
			Kind:      domain.DiffKindUpdated,
		})
	}

	if !reflect.DeepEqual(original["uploads"], updated["uploads"]) {
		summary.Append(domain.DiffEntry{
			FieldPath: "Uploads",
			Before:    original["uploads"],
			After:     updated["uploads"],
			Kind:      domain.DiffKindUpdated,
		})
	}

	return summary, nil
}

type columnSet struct {
	byName  map[string]string
	ordered []string
}

func columnSpecs(raw any) columnSet {
	set := columnSet{byName: map[string]string{}, ordered: []string{}}
	columns, ok := raw.([]any)
	if !ok {
		return set
	}

	for _, entry := range columns {
		column, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name, _ := column["name"].(string)
		if name == "" {
			continue
		}
		colType, _ := column["type"].(string)
		annotation := fmt.Sprintf("%s (%s)", name, colType)
		if identifier, _ := column["identifier"].(bool); identifier {
			annotation += " [identifier]"
		}
		set.byName[name] = annotation
		set.ordered = append(set.ordered, name)
	}
	return set
}
