package apply

import (
	"context"

	"github.com/google/uuid"

	"github.com/lendstack/backoffice/internal/domain"
	"github.com/lendstack/backoffice/internal/repository"
)

// Merchants envelope subtypes other than item. These are plain scalar CRUD
// appliers over the catalog repository.

func applyCategory(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error {
	switch change.ChangeType {
	case domain.ChangeTypeCreate:
		var category domain.Category
		if err := decodeInto(stripRelations(change.Payload.Created), &category); err != nil {
			return err
		}
		if category.Name == "" {
			return domain.NewValidationError("name", "category name is required")
		}
		if category.ID == uuid.Nil {
			category.ID = uuid.New()
		}
		if change.EntityID != nil {
			category.ID = *change.EntityID
		}
		_, err := repos.Catalog.CreateCategory(ctx, category)
		return err

	case domain.ChangeTypeUpdate:
		id, err := requireEntityID(change)
		if err != nil {
			return err
		}
		var category domain.Category
		if err := decodeInto(stripRelations(change.Payload.Updated), &category); err != nil {
			return err
		}
		category.ID = id
		return repos.Catalog.UpdateCategory(ctx, category)

	case domain.ChangeTypeDelete:
		id, err := requireEntityID(change)
		if err != nil {
			return err
		}
		return repos.Catalog.DeleteCategory(ctx, id)

	default:
		return unsupportedChangeType(change)
	}
}

func applyMerchant(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error {
	switch change.ChangeType {
	case domain.ChangeTypeCreate:
		var merchant domain.Merchant
		if err := decodeInto(stripRelations(change.Payload.Created), &merchant); err != nil {
			return err
		}
		if merchant.Name == "" {
			return domain.NewValidationError("name", "merchant name is required")
		}
		if merchant.ID == uuid.Nil {
			merchant.ID = uuid.New()
		}
		if change.EntityID != nil {
			merchant.ID = *change.EntityID
		}
		_, err := repos.Catalog.CreateMerchant(ctx, merchant)
		return err

	case domain.ChangeTypeUpdate:
		id, err := requireEntityID(change)
		if err != nil {
			return err
		}
		var merchant domain.Merchant
		if err := decodeInto(stripRelations(change.Payload.Updated), &merchant); err != nil {
			return err
		}
		merchant.ID = id
		return repos.Catalog.UpdateMerchant(ctx, merchant)

	case domain.ChangeTypeDelete:
		id, err := requireEntityID(change)
		if err != nil {
			return err
		}
		return repos.Catalog.DeleteMerchant(ctx, id)

	default:
		return unsupportedChangeType(change)
	}
}

func applyMerchantUser(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error {
	switch change.ChangeType {
	case domain.ChangeTypeCreate:
		var user domain.MerchantUser
		if err := decodeInto(stripRelations(change.Payload.Created), &user); err != nil {
			return err
		}
		if user.Email == "" {
			return domain.NewValidationError("email", "merchant user email is required")
		}
		if user.MerchantID == uuid.Nil {
			return domain.NewValidationError("merchantId", "merchant is required")
		}
		if user.ID == uuid.Nil {
			user.ID = uuid.New()
		}
		if change.EntityID != nil {
			user.ID = *change.EntityID
		}
		_, err := repos.Catalog.CreateMerchantUser(ctx, user)
		return err

	case domain.ChangeTypeUpdate:
		id, err := requireEntityID(change)
		if err != nil {
			return err
		}
		var user domain.MerchantUser
		if err := decodeInto(stripRelations(change.Payload.Updated), &user); err != nil {
			return err
		}
		user.ID = id
		return repos.Catalog.UpdateMerchantUser(ctx, user)

	case domain.ChangeTypeDelete:
		id, err := requireEntityID(change)
		if err != nil {
			return err
		}
		return repos.Catalog.DeleteMerchantUser(ctx, id)

	default:
		return unsupportedChangeType(change)
	}
}

func applyDiscountRule(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error {
	switch change.ChangeType {
	case domain.ChangeTypeCreate:
		var rule domain.DiscountRule
		if err := decodeInto(stripRelations(change.Payload.Created), &rule); err != nil {
			return err
		}
		if rule.MerchantID == uuid.Nil {
			return domain.NewValidationError("merchantId", "merchant is required")
		}
		if rule.Percent <= 0 || rule.Percent > 100 {
			return domain.NewValidationError("percent", "discount percent must be between 0 and 100")
		}
		if rule.ID == uuid.Nil {
			rule.ID = uuid.New()
		}
		if change.EntityID != nil {
			rule.ID = *change.EntityID
		}
		_, err := repos.Catalog.CreateDiscountRule(ctx, rule)
		return err

	case domain.ChangeTypeUpdate:
		id, err := requireEntityID(change)
		if err != nil {
			return err
		}
		var rule domain.DiscountRule
		if err := decodeInto(stripRelations(change.Payload.Updated), &rule); err != nil {
			return err
		}
		rule.ID = id
		return repos.Catalog.UpdateDiscountRule(ctx, rule)

	case domain.ChangeTypeDelete:
		id, err := requireEntityID(change)
		if err != nil {
			return err
		}
		return repos.Catalog.DeleteDiscountRule(ctx, id)

	default:
		return unsupportedChangeType(change)
	}
}
