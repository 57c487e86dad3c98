package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lendstack/backoffice/internal/domain"
)

type catalogRepository struct {
	db DBTX
}

func (r *catalogRepository) CreateLocation(ctx context.Context, location domain.Location) (domain.Location, error) {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO locations (id, name, address) VALUES ($1, $2, $3)`,
		location.ID,
		location.Name,
		location.Address,
	)
	if err != nil {
		return domain.Location{}, fmt.Errorf("failed to create location: %w", err)
	}
	return location, nil
}

func (r *catalogRepository) UpdateLocation(ctx context.Context, location domain.Location) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE locations SET name = $1, address = $2, updated_at = now() WHERE id = $3`,
		location.Name,
		location.Address,
		location.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("location %s: %w", location.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *catalogRepository) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("location %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *catalogRepository) LocationExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM locations WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check location existence: %w", err)
	}
	return exists, nil
}

func (r *catalogRepository) CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO categories (id, name, parent_id) VALUES ($1, $2, $3)`,
		category.ID,
		category.Name,
		category.ParentID,
	)
	if err != nil {
		return domain.Category{}, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (r *catalogRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE categories SET name = $1, parent_id = $2, updated_at = now() WHERE id = $3`,
		category.Name,
		category.ParentID,
		category.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category %s: %w", category.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *catalogRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *catalogRepository) CreateMerchant(ctx context.Context, merchant domain.Merchant) (domain.Merchant, error) {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO merchants (id, name, category_id, status) VALUES ($1, $2, $3, $4)`,
		merchant.ID,
		merchant.Name,
		merchant.CategoryID,
		merchant.Status,
	)
	if err != nil {
		return domain.Merchant{}, fmt.Errorf("failed to create merchant: %w", err)
	}
	return merchant, nil
}

func (r *catalogRepository) UpdateMerchant(ctx context.Context, merchant domain.Merchant) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE merchants SET name = $1, category_id = $2, status = $3, updated_at = now() WHERE id = $4`,
		merchant.Name,
		merchant.CategoryID,
		merchant.Status,
		merchant.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update merchant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("merchant %s: %w", merchant.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *catalogRepository) DeleteMerchant(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM merchants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete merchant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("merchant %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *catalogRepository) CreateMerchantUser(ctx context.Context, user domain.MerchantUser) (domain.MerchantUser, error) {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO merchant_users (id, merchant_id, name, email, role) VALUES ($1, $2, $3, $4, $5)`,
		user.ID,
		user.MerchantID,
		user.Name,
		user.Email,
		user.Role,
	)
	if err != nil {
		return domain.MerchantUser{}, fmt.Errorf("failed to create merchant user: %w", err)
	}
	return user, nil
}

func (r *catalogRepository) UpdateMerchantUser(ctx context.Context, user domain.MerchantUser) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE merchant_users SET name = $1, email = $2, role = $3, updated_at = now() WHERE id = $4`,
		user.Name,
		user.Email,
		user.Role,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update merchant user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("merchant user %s: %w", user.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *catalogRepository) DeleteMerchantUser(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM merchant_users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete merchant user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("merchant user %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *catalogRepository) CreateDiscountRule(ctx context.Context, rule domain.DiscountRule) (domain.DiscountRule, error) {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO discount_rules (id, merchant_id, percent, starts_at, ends_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		rule.ID,
		rule.MerchantID,
		rule.Percent,
		rule.StartsAt,
		rule.EndsAt,
	)
	if err != nil {
		return domain.DiscountRule{}, fmt.Errorf("failed to create discount rule: %w", err)
	}
	return rule, nil
}

func (r *catalogRepository) UpdateDiscountRule(ctx context.Context, rule domain.DiscountRule) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE discount_rules
		 SET merchant_id = $1, percent = $2, starts_at = $3, ends_at = $4, updated_at = now()
		 WHERE id = $5`,
		rule.MerchantID,
		rule.Percent,
		rule.StartsAt,
		rule.EndsAt,
		rule.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update discount rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("discount rule %s: %w", rule.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *catalogRepository) DeleteDiscountRule(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM discount_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete discount rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("discount rule %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *catalogRepository) UpsertInventoryLevel(ctx context.Context, level domain.InventoryLevel) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO inventory_levels (id, item_id, location_id, quantity)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (item_id, location_id)
		 DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`,
		level.ID,
		level.ItemID,
		level.LocationID,
		level.Quantity,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert inventory level: %w", err)
	}
	return nil
}

func (r *catalogRepository) DeleteInventoryLevel(ctx context.Context, itemID, locationID uuid.UUID) error {
	_, err := r.db.Exec(
		ctx,
		`DELETE FROM inventory_levels WHERE item_id = $1 AND location_id = $2`,
		itemID,
		locationID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete inventory level: %w", err)
	}
	return nil
}
