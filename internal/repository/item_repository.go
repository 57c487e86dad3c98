package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lendstack/backoffice/internal/domain"
)

type itemRepository struct {
	db DBTX
}

func (r *itemRepository) Create(ctx context.Context, item domain.Item) (domain.Item, error) {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO items (id, merchant_id, name, description, price, status)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		item.ID,
		item.MerchantID,
		item.Name,
		item.Description,
		item.Price,
		item.Status,
	)
	if err != nil {
		return domain.Item{}, fmt.Errorf("failed to create item: %w", err)
	}
	return item, nil
}

func (r *itemRepository) Update(ctx context.Context, item domain.Item) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE items
		 SET name = $1, description = $2, price = $3, status = $4, updated_at = now()
		 WHERE id = $5`,
		item.Name,
		item.Description,
		item.Price,
		item.Status,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %s: %w", item.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for _, stmt := range []string{
		`DELETE FROM item_combination_inventory WHERE item_id = $1`,
		`DELETE FROM item_variants WHERE item_id = $1`,
		`DELETE FROM item_attribute_values WHERE group_id IN (SELECT id FROM item_attribute_groups WHERE item_id = $1)`,
		`DELETE FROM item_attribute_groups WHERE item_id = $1`,
		`DELETE FROM inventory_levels WHERE item_id = $1`,
	} {
		if _, err := r.db.Exec(ctx, stmt, id); err != nil {
			return fmt.Errorf("failed to delete item dependents: %w", err)
		}
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *itemRepository) ListGroups(ctx context.Context, itemID uuid.UUID) ([]domain.AttributeGroup, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, item_id, name FROM item_attribute_groups WHERE item_id = $1 ORDER BY name`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list attribute groups: %w", err)
	}
	defer rows.Close()

	groups := []domain.AttributeGroup{}
	for rows.Next() {
		var group domain.AttributeGroup
		if err := rows.Scan(&group.ID, &group.ItemID, &group.Name); err != nil {
			return nil, fmt.Errorf("failed to scan attribute group: %w", err)
		}
		groups = append(groups, group)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate attribute groups: %w", rowsErr)
	}
	return groups, nil
}

func (r *itemRepository) CreateGroup(ctx context.Context, group domain.AttributeGroup) (domain.AttributeGroup, error) {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO item_attribute_groups (id, item_id, name) VALUES ($1, $2, $3)`,
		group.ID,
		group.ItemID,
		group.Name,
	)
	if err != nil {
		return domain.AttributeGroup{}, fmt.Errorf("failed to create attribute group: %w", err)
	}
	return group, nil
}

func (r *itemRepository) UpdateGroup(ctx context.Context, group domain.AttributeGroup) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE item_attribute_groups SET name = $1 WHERE id = $2`,
		group.Name,
		group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attribute group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("attribute group %s: %w", group.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *itemRepository) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM item_attribute_values WHERE group_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete attribute values for group: %w", err)
	}
	_, err := r.db.Exec(ctx, `DELETE FROM item_attribute_groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attribute group: %w", err)
	}
	return nil
}

func (r *itemRepository) ListValues(ctx context.Context, itemID uuid.UUID) ([]domain.AttributeValue, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT v.id, v.group_id, v.label
		 FROM item_attribute_values v
		 JOIN item_attribute_groups g ON g.id = v.group_id
		 WHERE g.item_id = $1
		 ORDER BY v.label`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list attribute values: %w", err)
	}
	defer rows.Close()

	values := []domain.AttributeValue{}
	for rows.Next() {
		var value domain.AttributeValue
		if err := rows.Scan(&value.ID, &value.GroupID, &value.Label); err != nil {
			return nil, fmt.Errorf("failed to scan attribute value: %w", err)
		}
		values = append(values, value)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate attribute values: %w", rowsErr)
	}
	return values, nil
}

func (r *itemRepository) CreateValue(ctx context.Context, value domain.AttributeValue) (domain.AttributeValue, error) {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO item_attribute_values (id, group_id, label) VALUES ($1, $2, $3)`,
		value.ID,
		value.GroupID,
		value.Label,
	)
	if err != nil {
		return domain.AttributeValue{}, fmt.Errorf("failed to create attribute value: %w", err)
	}
	return value, nil
}

func (r *itemRepository) UpdateValue(ctx context.Context, value domain.AttributeValue) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE item_attribute_values SET label = $1 WHERE id = $2`,
		value.Label,
		value.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attribute value: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("attribute value %s: %w", value.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *itemRepository) DeleteValue(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM item_attribute_values WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attribute value: %w", err)
	}
	return nil
}

func (r *itemRepository) ListVariants(ctx context.Context, itemID uuid.UUID) ([]domain.ItemVariant, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, item_id, kind, label, price_delta FROM item_variants WHERE item_id = $1 ORDER BY kind, label`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list item variants: %w", err)
	}
	defer rows.Close()

	variants := []domain.ItemVariant{}
	for rows.Next() {
		var variant domain.ItemVariant
		if err := rows.Scan(&variant.ID, &variant.ItemID, &variant.Kind, &variant.Label, &variant.PriceDelta); err != nil {
			return nil, fmt.Errorf("failed to scan item variant: %w", err)
		}
		variants = append(variants, variant)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate item variants: %w", rowsErr)
	}
	return variants, nil
}

func (r *itemRepository) CreateVariant(ctx context.Context, variant domain.ItemVariant) (domain.ItemVariant, error) {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO item_variants (id, item_id, kind, label, price_delta) VALUES ($1, $2, $3, $4, $5)`,
		variant.ID,
		variant.ItemID,
		variant.Kind,
		variant.Label,
		variant.PriceDelta,
	)
	if err != nil {
		return domain.ItemVariant{}, fmt.Errorf("failed to create item variant: %w", err)
	}
	return variant, nil
}

func (r *itemRepository) UpdateVariant(ctx context.Context, variant domain.ItemVariant) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE item_variants SET kind = $1, label = $2, price_delta = $3 WHERE id = $4`,
		variant.Kind,
		variant.Label,
		variant.PriceDelta,
		variant.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item variant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item variant %s: %w", variant.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *itemRepository) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM item_variants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item variant: %w", err)
	}
	return nil
}

func (r *itemRepository) ListCombinations(ctx context.Context, itemID uuid.UUID) ([]domain.CombinationInventoryRecord, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, item_id, location_id, combination_key, option_value_ids, quantity_available, reserved_quantity
		 FROM item_combination_inventory WHERE item_id = $1`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list combination inventory: %w", err)
	}
	defer rows.Close()

	records := []domain.CombinationInventoryRecord{}
	for rows.Next() {
		var record domain.CombinationInventoryRecord
		if err := rows.Scan(
			&record.ID,
			&record.ItemID,
			&record.LocationID,
			&record.CombinationKey,
			&record.OptionValueIDs,
			&record.QuantityAvailable,
			&record.ReservedQuantity,
		); err != nil {
			return nil, fmt.Errorf("failed to scan combination inventory: %w", err)
		}
		records = append(records, record)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate combination inventory: %w", rowsErr)
	}
	return records, nil
}

func (r *itemRepository) CreateCombination(ctx context.Context, record domain.CombinationInventoryRecord) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO item_combination_inventory
		 (id, item_id, location_id, combination_key, option_value_ids, quantity_available, reserved_quantity)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID,
		record.ItemID,
		record.LocationID,
		record.CombinationKey,
		record.OptionValueIDs,
		record.QuantityAvailable,
		record.ReservedQuantity,
	)
	if err != nil {
		return fmt.Errorf("failed to create combination inventory: %w", err)
	}
	return nil
}

func (r *itemRepository) UpdateCombinationQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE item_combination_inventory SET quantity_available = $1 WHERE id = $2`,
		quantity,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update combination quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("combination inventory %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *itemRepository) DeleteCombination(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM item_combination_inventory WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete combination inventory: %w", err)
	}
	return nil
}
