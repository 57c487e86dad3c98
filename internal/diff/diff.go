// Package diff computes human-readable field-level diffs from a pending
// change's before/after snapshots. Output is advisory only and never
// affects the apply dispatcher's outcome.
package diff

import (
	"reflect"
	"sort"

	"github.com/lendstack/backoffice/internal/domain"
)

// Summarizer turns a change into a display diff. Entity types without a
// specialized summarizer use Generic.
type Summarizer func(change domain.PendingChange) (domain.DiffSummary, error)

// Generic is the structural diff: CREATE lists every top-level created key
// as added, DELETE lists every top-level original key as removed, UPDATE
// recurses into nested objects producing dotted paths. Arrays are treated
// as atomic values and surface as a single before/after pair.
func Generic(change domain.PendingChange) (domain.DiffSummary, error) {
	summary := domain.DiffSummary{Details: []domain.DiffEntry{}}

	switch change.ChangeType {
	case domain.ChangeTypeCreate:
		for _, key := range sortedKeys(change.Payload.Created) {
			summary.Append(domain.DiffEntry{
				FieldPath: key,
				After:     change.Payload.Created[key],
				Kind:      domain.DiffKindAdded,
			})
		}
	case domain.ChangeTypeDelete:
		for _, key := range sortedKeys(change.Payload.Original) {
			summary.Append(domain.DiffEntry{
				FieldPath: key,
				Before:    change.Payload.Original[key],
				Kind:      domain.DiffKindRemoved,
			})
		}
	case domain.ChangeTypeUpdate:
		diffMaps("", change.Payload.Original, change.Payload.Updated, &summary)
	}

	return summary, nil
}

func diffMaps(prefix string, before, after map[string]any, summary *domain.DiffSummary) {
	for _, key := range unionKeys(before, after) {
		path := joinPath(prefix, key)
		beforeValue, inBefore := before[key]
		afterValue, inAfter := after[key]

		switch {
		case !inBefore:
			summary.Append(domain.DiffEntry{FieldPath: path, After: afterValue, Kind: domain.DiffKindAdded})
		case !inAfter:
			summary.Append(domain.DiffEntry{FieldPath: path, Before: beforeValue, Kind: domain.DiffKindRemoved})
		default:
			beforeMap, beforeIsMap := beforeValue.(map[string]any)
			afterMap, afterIsMap := afterValue.(map[string]any)
			if beforeIsMap && afterIsMap {
				diffMaps(path, beforeMap, afterMap, summary)
				continue
			}
			if !valuesEqual(beforeValue, afterValue) {
				summary.Append(domain.DiffEntry{
					FieldPath: path,
					Before:    beforeValue,
					After:     afterValue,
					Kind:      domain.DiffKindUpdated,
				})
			}
		}
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func valuesEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func unionKeys(before, after map[string]any) []string {
	seen := make(map[string]struct{}, len(before)+len(after))
	for key := range before {
		seen[key] = struct{}{}
	}
	for key := range after {
		seen[key] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
