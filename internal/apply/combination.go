package apply

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/lendstack/backoffice/internal/domain"
)

const combinationKeyDelimiter = "-"

// CombinationKey canonicalizes a set of option-value ids into an
// order-independent variant key: deduplicate, sort ascending, join.
// CombinationKey([A,B]) == CombinationKey([B,A]).
func CombinationKey(optionValueIDs []uuid.UUID) string {
	seen := make(map[uuid.UUID]struct{}, len(optionValueIDs))
	parts := make([]string, 0, len(optionValueIDs))
	for _, id := range optionValueIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		parts = append(parts, id.String())
	}
	sort.Strings(parts)
	return strings.Join(parts, combinationKeyDelimiter)
}

// validateCombinationValues checks that every option-value id resolves to a
// value of the target item and that no two ids share an attribute group.
// valueGroups maps option-value id to its owning group id.
func validateCombinationValues(optionValueIDs []uuid.UUID, valueGroups map[uuid.UUID]uuid.UUID) error {
	groupsSeen := make(map[uuid.UUID]struct{}, len(optionValueIDs))
	for _, id := range optionValueIDs {
		groupID, ok := valueGroups[id]
		if !ok {
			return domain.NewValidationError("optionValueIds", "option value %s does not belong to this item", id)
		}
		if _, dup := groupsSeen[groupID]; dup {
			return fmt.Errorf("option value %s: %w", id, domain.ErrDuplicateAttributeGroup)
		}
		groupsSeen[groupID] = struct{}{}
	}
	return nil
}
