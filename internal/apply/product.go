package apply

import (
	"context"

	"github.com/google/uuid"

	"github.com/lendstack/backoffice/internal/domain"
	"github.com/lendstack/backoffice/internal/repository"
)

type productPayload struct {
	ProviderID      uuid.UUID      `json:"providerId"`
	Name            string         `json:"name"`
	InterestRate    float64        `json:"interestRate"`
	TenorDays       int            `json:"tenorDays"`
	Fees            map[string]any `json:"fees"`
	Penalties       map[string]any `json:"penalties"`
	LoanAmountTiers []tierPayload  `json:"loanAmountTiers"`
}

type tierPayload struct {
	MinAmount float64 `json:"minAmount"`
	MaxAmount float64 `json:"maxAmount"`
	Rate      float64 `json:"rate"`
}

// applyProduct mutates loan products. Status is forced Disabled on both
// create and update: products always re-enter manual review after an
// approved edit, regardless of the requested status.
func applyProduct(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error {
	switch change.ChangeType {
	case domain.ChangeTypeCreate:
		return createProduct(ctx, repos, change)
	case domain.ChangeTypeUpdate:
		return updateProduct(ctx, repos, change)
	case domain.ChangeTypeDelete:
		id, err := requireEntityID(change)
		if err != nil {
			return err
		}
		return repos.Products.Delete(ctx, id)
	default:
		return unsupportedChangeType(change)
	}
}

func createProduct(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error {
	var payload productPayload
	if err := decodeInto(change.Payload.Created, &payload); err != nil {
		return err
	}
	if payload.Name == "" {
		return domain.NewValidationError("name", "product name is required")
	}
	if payload.ProviderID == uuid.Nil {
		return domain.NewValidationError("providerId", "product provider is required")
	}

	product := domain.Product{
		ID:           uuid.New(),
		ProviderID:   payload.ProviderID,
		Name:         payload.Name,
		Status:       domain.StatusDisabled,
		InterestRate: payload.InterestRate,
		TenorDays:    payload.TenorDays,
		Fees:         payload.Fees,
		Penalties:    payload.Penalties,
	}
	if change.EntityID != nil {
		product.ID = *change.EntityID
	}

	product, err := repos.Products.Create(ctx, product)
	if err != nil {
		return err
	}
	return repos.Products.ReplaceTiers(ctx, product.ID, buildTiers(product.ID, payload.LoanAmountTiers))
}

func updateProduct(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error {
	id, err := requireEntityID(change)
	if err != nil {
		return err
	}

	product, err := repos.Products.GetByID(ctx, id)
	if err != nil {
		return err
	}

	var payload productPayload
	if err := decodeInto(change.Payload.Updated, &payload); err != nil {
		return err
	}
	if payload.Name != "" {
		product.Name = payload.Name
	}
	if _, ok := getFloat(change.Payload.Updated, "interestRate"); ok {
		product.InterestRate = payload.InterestRate
	}
	if _, ok := getInt(change.Payload.Updated, "tenorDays"); ok {
		product.TenorDays = payload.TenorDays
	}
	if payload.Fees != nil {
		product.Fees = payload.Fees
	}
	if payload.Penalties != nil {
		product.Penalties = payload.Penalties
	}
	product.Status = domain.StatusDisabled

	if err := repos.Products.Update(ctx, product); err != nil {
		return err
	}

	// The tier set is replaced wholesale whenever the payload carries it.
	if _, ok := change.Payload.Updated["loanAmountTiers"]; ok {
		return repos.Products.ReplaceTiers(ctx, product.ID, buildTiers(product.ID, payload.LoanAmountTiers))
	}
	return nil
}

func buildTiers(productID uuid.UUID, payloads []tierPayload) []domain.LoanAmountTier {
	tiers := make([]domain.LoanAmountTier, len(payloads))
	for i, tier := range payloads {
		tiers[i] = domain.LoanAmountTier{
			ID:        uuid.New(),
			ProductID: productID,
			MinAmount: tier.MinAmount,
			MaxAmount: tier.MaxAmount,
			Rate:      tier.Rate,
		}
	}
	return tiers
}
