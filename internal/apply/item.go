package apply

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/lendstack/backoffice/internal/domain"
	"github.com/lendstack/backoffice/internal/repository"
)

type itemPayload struct {
	MerchantID                 uuid.UUID            `json:"merchantId"`
	Name                       string               `json:"name"`
	Description                string               `json:"description"`
	Price                      float64              `json:"price"`
	Status                     string               `json:"status"`
	AttributeGroups            []itemGroupPayload   `json:"attributeGroups"`
	Variants                   []itemVariantPayload `json:"variants"`
	CombinationInventoryLevels []combinationPayload `json:"combinationInventoryLevels"`
}

type itemGroupPayload struct {
	ID     uuid.UUID          `json:"id"`
	Name   string             `json:"name"`
	Values []itemValuePayload `json:"values"`
}

type itemValuePayload struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
}

type itemVariantPayload struct {
	ID         uuid.UUID `json:"id"`
	Kind       string    `json:"kind"`
	Label      string    `json:"label"`
	PriceDelta float64   `json:"priceDelta"`
}

// combinationPayload carries one combination inventory row. On item CREATE
// option values have no ids yet, so rows reference them as
// (attributeGroup, valueLabel) selections; on UPDATE rows carry resolved
// optionValueIds.
type combinationPayload struct {
	LocationID        uuid.UUID                     `json:"locationId"`
	OptionValueIDs    []uuid.UUID                   `json:"optionValueIds"`
	Selections        []combinationSelectionPayload `json:"selections"`
	QuantityAvailable int                           `json:"quantityAvailable"`
}

type combinationSelectionPayload struct {
	AttributeGroup string `json:"attributeGroup"`
	ValueLabel     string `json:"valueLabel"`
}

func applyItem(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error {
	switch change.ChangeType {
	case domain.ChangeTypeCreate:
		return createItem(ctx, repos, change)
	case domain.ChangeTypeUpdate:
		return updateItem(ctx, repos, change)
	case domain.ChangeTypeDelete:
		id, err := requireEntityID(change)
		if err != nil {
			return err
		}
		return repos.Items.Delete(ctx, id)
	default:
		return unsupportedChangeType(change)
	}
}

func createItem(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error {
	var payload itemPayload
	if err := decodeInto(change.Payload.Created, &payload); err != nil {
		return err
	}
	if payload.Name == "" {
		return domain.NewValidationError("name", "item name is required")
	}
	if payload.MerchantID == uuid.Nil {
		return domain.NewValidationError("merchantId", "merchant is required")
	}

	// Reject duplicate submissions before any mutation: two rows for the
	// same (location, selection set) are a client error, not an upsert.
	if err := validateCreateCombinations(payload.CombinationInventoryLevels); err != nil {
		return err
	}

	status := payload.Status
	if status == "" {
		status = domain.StatusActive
	}
	item := domain.Item{
		ID:          uuid.New(),
		MerchantID:  payload.MerchantID,
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Status:      status,
	}
	if change.EntityID != nil {
		item.ID = *change.EntityID
	}
	created, err := repos.Items.Create(ctx, item)
	if err != nil {
		return err
	}

	// Groups and values are created fresh; remember both the
	// (group name, label) -> value id resolution table for selections and
	// the value -> group ownership map for duplicate-group validation.
	valueBySelection := make(map[string]uuid.UUID)
	valueGroups := make(map[uuid.UUID]uuid.UUID)
	for _, groupPayload := range payload.AttributeGroups {
		group, err := repos.Items.CreateGroup(ctx, domain.AttributeGroup{
			ID:     uuid.New(),
			ItemID: created.ID,
			Name:   groupPayload.Name,
		})
		if err != nil {
			return err
		}
		for _, valuePayload := range groupPayload.Values {
			value, err := repos.Items.CreateValue(ctx, domain.AttributeValue{
				ID:      uuid.New(),
				GroupID: group.ID,
				Label:   valuePayload.Label,
			})
			if err != nil {
				return err
			}
			valueBySelection[selectionKey(group.Name, value.Label)] = value.ID
			valueGroups[value.ID] = group.ID
		}
	}

	for _, variantPayload := range payload.Variants {
		if _, err := repos.Items.CreateVariant(ctx, domain.ItemVariant{
			ID:         uuid.New(),
			ItemID:     created.ID,
			Kind:       variantPayload.Kind,
			Label:      variantPayload.Label,
			PriceDelta: variantPayload.PriceDelta,
		}); err != nil {
			return err
		}
	}

	for _, row := range payload.CombinationInventoryLevels {
		ids, err := resolveSelections(row.Selections, valueBySelection)
		if err != nil {
			return err
		}
		if err := createCombinationRow(ctx, repos, created.ID, row.LocationID, ids, row.QuantityAvailable, valueGroups); err != nil {
			return err
		}
	}
	return nil
}

func updateItem(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error {
	id, err := requireEntityID(change)
	if err != nil {
		return err
	}
	var payload itemPayload
	if err := decodeInto(change.Payload.Updated, &payload); err != nil {
		return err
	}
	if err := validateUpdateCombinations(payload.CombinationInventoryLevels); err != nil {
		return err
	}

	if err := repos.Items.Update(ctx, domain.Item{
		ID:          id,
		MerchantID:  payload.MerchantID,
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Status:      payload.Status,
	}); err != nil {
		return err
	}

	valueGroups, err := syncGroupsAndValues(ctx, repos, id, payload.AttributeGroups)
	if err != nil {
		return err
	}
	if err := syncVariants(ctx, repos, id, payload.Variants); err != nil {
		return err
	}
	return syncCombinations(ctx, repos, id, payload.CombinationInventoryLevels, valueGroups)
}

// syncGroupsAndValues reconciles attribute groups and their values by id:
// payload rows with a known id are updated, absent ids are deleted, rows
// without an id are created. It returns the value -> group ownership map
// for the item's final state.
func syncGroupsAndValues(ctx context.Context, repos repository.Repositories, itemID uuid.UUID, groups []itemGroupPayload) (map[uuid.UUID]uuid.UUID, error) {
	existingGroups, err := repos.Items.ListGroups(ctx, itemID)
	if err != nil {
		return nil, err
	}
	existingValues, err := repos.Items.ListValues(ctx, itemID)
	if err != nil {
		return nil, err
	}
	existingValuesByGroup := make(map[uuid.UUID][]domain.AttributeValue)
	for _, value := range existingValues {
		existingValuesByGroup[value.GroupID] = append(existingValuesByGroup[value.GroupID], value)
	}

	knownGroups := make(map[uuid.UUID]bool, len(existingGroups))
	for _, group := range existingGroups {
		knownGroups[group.ID] = false
	}

	valueGroups := make(map[uuid.UUID]uuid.UUID)
	for _, groupPayload := range groups {
		groupID := groupPayload.ID
		if _, known := knownGroups[groupID]; known {
			knownGroups[groupID] = true
			if err := repos.Items.UpdateGroup(ctx, domain.AttributeGroup{ID: groupID, ItemID: itemID, Name: groupPayload.Name}); err != nil {
				return nil, err
			}
		} else {
			if groupID != uuid.Nil {
				return nil, domain.NewValidationError("attributeGroups", "attribute group %s does not belong to this item", groupID)
			}
			group, err := repos.Items.CreateGroup(ctx, domain.AttributeGroup{ID: uuid.New(), ItemID: itemID, Name: groupPayload.Name})
			if err != nil {
				return nil, err
			}
			groupID = group.ID
		}

		knownValues := make(map[uuid.UUID]bool)
		for _, value := range existingValuesByGroup[groupID] {
			knownValues[value.ID] = false
		}
		for _, valuePayload := range groupPayload.Values {
			if valuePayload.ID != uuid.Nil {
				if _, ok := knownValues[valuePayload.ID]; ok {
					knownValues[valuePayload.ID] = true
					if err := repos.Items.UpdateValue(ctx, domain.AttributeValue{ID: valuePayload.ID, GroupID: groupID, Label: valuePayload.Label}); err != nil {
						return nil, err
					}
					valueGroups[valuePayload.ID] = groupID
					continue
				}
			}
			value, err := repos.Items.CreateValue(ctx, domain.AttributeValue{ID: uuid.New(), GroupID: groupID, Label: valuePayload.Label})
			if err != nil {
				return nil, err
			}
			valueGroups[value.ID] = groupID
		}
		for valueID, kept := range knownValues {
			if !kept {
				if err := repos.Items.DeleteValue(ctx, valueID); err != nil {
					return nil, err
				}
			}
		}
	}

	for _, group := range existingGroups {
		if !knownGroups[group.ID] {
			for _, value := range existingValuesByGroup[group.ID] {
				if err := repos.Items.DeleteValue(ctx, value.ID); err != nil {
					return nil, err
				}
			}
			if err := repos.Items.DeleteGroup(ctx, group.ID); err != nil {
				return nil, err
			}
		}
	}
	return valueGroups, nil
}

func syncVariants(ctx context.Context, repos repository.Repositories, itemID uuid.UUID, variants []itemVariantPayload) error {
	existing, err := repos.Items.ListVariants(ctx, itemID)
	if err != nil {
		return err
	}
	kept := make(map[uuid.UUID]bool, len(existing))
	for _, variant := range existing {
		kept[variant.ID] = false
	}
	for _, variantPayload := range variants {
		if variantPayload.ID != uuid.Nil {
			if _, ok := kept[variantPayload.ID]; ok {
				kept[variantPayload.ID] = true
				if err := repos.Items.UpdateVariant(ctx, domain.ItemVariant{
					ID:         variantPayload.ID,
					ItemID:     itemID,
					Kind:       variantPayload.Kind,
					Label:      variantPayload.Label,
					PriceDelta: variantPayload.PriceDelta,
				}); err != nil {
					return err
				}
				continue
			}
		}
		if _, err := repos.Items.CreateVariant(ctx, domain.ItemVariant{
			ID:         uuid.New(),
			ItemID:     itemID,
			Kind:       variantPayload.Kind,
			Label:      variantPayload.Label,
			PriceDelta: variantPayload.PriceDelta,
		}); err != nil {
			return err
		}
	}
	for variantID, keep := range kept {
		if !keep {
			if err := repos.Items.DeleteVariant(ctx, variantID); err != nil {
				return err
			}
		}
	}
	return nil
}

// syncCombinations upserts combination inventory keyed by
// (locationId, combinationKey): incoming rows update quantities in place,
// absent rows are deleted, new keys are created with zero reserved stock.
func syncCombinations(ctx context.Context, repos repository.Repositories, itemID uuid.UUID, rows []combinationPayload, valueGroups map[uuid.UUID]uuid.UUID) error {
	existing, err := repos.Items.ListCombinations(ctx, itemID)
	if err != nil {
		return err
	}
	existingByKey := make(map[string]domain.CombinationInventoryRecord, len(existing))
	for _, record := range existing {
		existingByKey[locationCombinationKey(record.LocationID, record.CombinationKey)] = record
	}

	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if err := validateCombinationValues(row.OptionValueIDs, valueGroups); err != nil {
			return err
		}
		key := locationCombinationKey(row.LocationID, CombinationKey(row.OptionValueIDs))
		seen[key] = true
		if record, ok := existingByKey[key]; ok {
			if err := repos.Items.UpdateCombinationQuantity(ctx, record.ID, row.QuantityAvailable); err != nil {
				return err
			}
			continue
		}
		if err := createCombinationRow(ctx, repos, itemID, row.LocationID, row.OptionValueIDs, row.QuantityAvailable, valueGroups); err != nil {
			return err
		}
	}
	for key, record := range existingByKey {
		if !seen[key] {
			if err := repos.Items.DeleteCombination(ctx, record.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func createCombinationRow(ctx context.Context, repos repository.Repositories, itemID, locationID uuid.UUID, optionValueIDs []uuid.UUID, quantity int, valueGroups map[uuid.UUID]uuid.UUID) error {
	if locationID == uuid.Nil {
		return domain.NewValidationError("locationId", "location is required")
	}
	exists, err := repos.Catalog.LocationExists(ctx, locationID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.NewValidationError("locationId", "location %s does not exist", locationID)
	}
	if err := validateCombinationValues(optionValueIDs, valueGroups); err != nil {
		return err
	}
	return repos.Items.CreateCombination(ctx, domain.CombinationInventoryRecord{
		ID:                uuid.New(),
		ItemID:            itemID,
		LocationID:        locationID,
		CombinationKey:    CombinationKey(optionValueIDs),
		OptionValueIDs:    optionValueIDs,
		QuantityAvailable: quantity,
		ReservedQuantity:  0,
	})
}

// validateCreateCombinations rejects a CREATE whose rows contain a duplicate
// attribute group within one selection set, or two rows resolving to the
// same (location, selection set), before any record is written.
func validateCreateCombinations(rows []combinationPayload) error {
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		groups := make(map[string]struct{}, len(row.Selections))
		parts := make([]string, 0, len(row.Selections))
		for _, selection := range row.Selections {
			if _, dup := groups[selection.AttributeGroup]; dup {
				return fmt.Errorf("attribute group %q: %w", selection.AttributeGroup, domain.ErrDuplicateAttributeGroup)
			}
			groups[selection.AttributeGroup] = struct{}{}
			parts = append(parts, selectionKey(selection.AttributeGroup, selection.ValueLabel))
		}
		sort.Strings(parts)
		key := row.LocationID.String() + "|" + strings.Join(parts, combinationKeyDelimiter)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("location %s: %w", row.LocationID, domain.ErrDuplicateCombination)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// validateUpdateCombinations performs the same duplicate-submission check on
// UPDATE rows, which carry resolved option-value ids.
func validateUpdateCombinations(rows []combinationPayload) error {
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		key := locationCombinationKey(row.LocationID, CombinationKey(row.OptionValueIDs))
		if _, dup := seen[key]; dup {
			return fmt.Errorf("location %s: %w", row.LocationID, domain.ErrDuplicateCombination)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func resolveSelections(selections []combinationSelectionPayload, valueBySelection map[string]uuid.UUID) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(selections))
	for _, selection := range selections {
		id, ok := valueBySelection[selectionKey(selection.AttributeGroup, selection.ValueLabel)]
		if !ok {
			return nil, domain.NewValidationError("selections", "option value %q of group %q does not exist", selection.ValueLabel, selection.AttributeGroup)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func selectionKey(group, label string) string {
	return group + "=" + label
}

func locationCombinationKey(locationID uuid.UUID, combinationKey string) string {
	return locationID.String() + "|" + combinationKey
}
