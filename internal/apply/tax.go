package apply

import (
	"context"

	"github.com/google/uuid"

	"github.com/lendstack/backoffice/internal/domain"
	"github.com/lendstack/backoffice/internal/repository"
)

// applyTax mutates tax records. Status is forced Active on create and
// update; a rejected tax proposal has its provisional status restored by
// the reject-path compensation instead.
func applyTax(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error {
	switch change.ChangeType {
	case domain.ChangeTypeCreate:
		created := change.Payload.Created
		name, ok := getString(created, "name")
		if !ok || name == "" {
			return domain.NewValidationError("name", "tax name is required")
		}
		rate, _ := getFloat(created, "rate")

		tax := domain.Tax{
			ID:     uuid.New(),
			Name:   name,
			Rate:   rate,
			Status: domain.StatusActive,
		}
		if change.EntityID != nil {
			tax.ID = *change.EntityID
		}
		_, err := repos.Taxes.Create(ctx, tax)
		return err

	case domain.ChangeTypeUpdate:
		id, err := requireEntityID(change)
		if err != nil {
			return err
		}

		updated := change.Payload.Updated
		tax := domain.Tax{ID: id, Status: domain.StatusActive}
		if name, ok := getString(updated, "name"); ok {
			tax.Name = name
		} else if name, ok := getString(change.Payload.Original, "name"); ok {
			tax.Name = name
		}
		if rate, ok := getFloat(updated, "rate"); ok {
			tax.Rate = rate
		} else if rate, ok := getFloat(change.Payload.Original, "rate"); ok {
			tax.Rate = rate
		}
		return repos.Taxes.Update(ctx, tax)

	case domain.ChangeTypeDelete:
		id, err := requireEntityID(change)
		if err != nil {
			return err
		}
		return repos.Taxes.Delete(ctx, id)

	default:
		return unsupportedChangeType(change)
	}
}

type loanCyclePayload struct {
	Name            string `json:"name"`
	CycleLengthDays int    `json:"cycleLengthDays"`
	GraceDays       int    `json:"graceDays"`
	MaxCycles       int    `json:"maxCycles"`
}

func applyLoanCycle(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error {
	switch change.ChangeType {
	case domain.ChangeTypeCreate:
		var payload loanCyclePayload
		if err := decodeInto(change.Payload.Created, &payload); err != nil {
			return err
		}
		if payload.Name == "" {
			return domain.NewValidationError("name", "loan cycle config name is required")
		}

		config := domain.LoanCycleConfig{
			ID:              uuid.New(),
			Name:            payload.Name,
			CycleLengthDays: payload.CycleLengthDays,
			GraceDays:       payload.GraceDays,
			MaxCycles:       payload.MaxCycles,
		}
		if change.EntityID != nil {
			config.ID = *change.EntityID
		}
		_, err := repos.LoanCycles.Create(ctx, config)
		return err

	case domain.ChangeTypeUpdate:
		id, err := requireEntityID(change)
		if err != nil {
			return err
		}
		var payload loanCyclePayload
		if err := decodeInto(change.Payload.Updated, &payload); err != nil {
			return err
		}
		return repos.LoanCycles.Update(ctx, domain.LoanCycleConfig{
			ID:              id,
			Name:            payload.Name,
			CycleLengthDays: payload.CycleLengthDays,
			GraceDays:       payload.GraceDays,
			MaxCycles:       payload.MaxCycles,
		})

	case domain.ChangeTypeDelete:
		id, err := requireEntityID(change)
		if err != nil {
			return err
		}
		return repos.LoanCycles.Delete(ctx, id)

	default:
		return unsupportedChangeType(change)
	}
}
