package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lendstack/backoffice/internal/domain"
)

type taxRepository struct {
	db DBTX
}

func (r *taxRepository) Create(ctx context.Context, tax domain.Tax) (domain.Tax, error) {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO taxes (id, name, rate, status) VALUES ($1, $2, $3, $4)`,
		tax.ID,
		tax.Name,
		tax.Rate,
		tax.Status,
	)
	if err != nil {
		return domain.Tax{}, fmt.Errorf("failed to create tax: %w", err)
	}
	return tax, nil
}

func (r *taxRepository) Update(ctx context.Context, tax domain.Tax) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE taxes SET name = $1, rate = $2, status = $3, updated_at = now() WHERE id = $4`,
		tax.Name,
		tax.Rate,
		tax.Status,
		tax.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update tax: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tax %s: %w", tax.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *taxRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.db.Exec(
		ctx,
		`UPDATE taxes SET status = $1, updated_at = now() WHERE id = $2`,
		status,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update tax status: %w", err)
	}
	return nil
}

func (r *taxRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM taxes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tax: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tax %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

type loanCycleRepository struct {
	db DBTX
}

func (r *loanCycleRepository) Create(ctx context.Context, config domain.LoanCycleConfig) (domain.LoanCycleConfig, error) {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO loan_cycle_configs (id, name, cycle_length_days, grace_days, max_cycles)
		 VALUES ($1, $2, $3, $4, $5)`,
		config.ID,
		config.Name,
		config.CycleLengthDays,
		config.GraceDays,
		config.MaxCycles,
	)
	if err != nil {
		return domain.LoanCycleConfig{}, fmt.Errorf("failed to create loan cycle config: %w", err)
	}
	return config, nil
}

func (r *loanCycleRepository) Update(ctx context.Context, config domain.LoanCycleConfig) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE loan_cycle_configs
		 SET name = $1, cycle_length_days = $2, grace_days = $3, max_cycles = $4, updated_at = now()
		 WHERE id = $5`,
		config.Name,
		config.CycleLengthDays,
		config.GraceDays,
		config.MaxCycles,
		config.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update loan cycle config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("loan cycle config %s: %w", config.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *loanCycleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM loan_cycle_configs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete loan cycle config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("loan cycle config %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
