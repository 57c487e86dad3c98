package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lendstack/backoffice/internal/domain"
)

type providerRepository struct {
	db DBTX
}

func (r *providerRepository) Create(ctx context.Context, provider domain.Provider) (domain.Provider, error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO providers (id, name, initial_balance, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		provider.ID,
		provider.Name,
		provider.InitialBalance,
		provider.Status,
	)

	var createdAt, updatedAt pgtype.Timestamptz
	if err := row.Scan(&createdAt, &updatedAt); err != nil {
		return domain.Provider{}, fmt.Errorf("failed to create provider: %w", err)
	}
	if createdAt.Valid {
		provider.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		provider.UpdatedAt = updatedAt.Time
	}
	return provider, nil
}

func (r *providerRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Provider, error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT id, name, initial_balance, status, created_at, updated_at
		 FROM providers WHERE id = $1`,
		id,
	)

	var (
		provider             domain.Provider
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&provider.ID, &provider.Name, &provider.InitialBalance, &provider.Status, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Provider{}, fmt.Errorf("provider %s: %w", id, domain.ErrNotFound)
		}
		return domain.Provider{}, fmt.Errorf("failed to get provider: %w", err)
	}
	if createdAt.Valid {
		provider.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		provider.UpdatedAt = updatedAt.Time
	}
	return provider, nil
}

func (r *providerRepository) Update(ctx context.Context, provider domain.Provider) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE providers
		 SET name = $1, initial_balance = $2, status = $3, updated_at = now()
		 WHERE id = $4`,
		provider.Name,
		provider.InitialBalance,
		provider.Status,
		provider.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update provider: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("provider %s: %w", provider.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *providerRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.db.Exec(
		ctx,
		`UPDATE providers SET status = $1, updated_at = now() WHERE id = $2`,
		status,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update provider status: %w", err)
	}
	return nil
}

func (r *providerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM ledger_accounts WHERE provider_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete provider ledger accounts: %w", err)
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM providers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete provider: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("provider %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *providerRepository) CreateLedgerAccounts(ctx context.Context, accounts []domain.LedgerAccount) error {
	for _, account := range accounts {
		_, err := r.db.Exec(
			ctx,
			`INSERT INTO ledger_accounts (id, provider_id, code, name, kind)
			 VALUES ($1, $2, $3, $4, $5)`,
			account.ID,
			account.ProviderID,
			account.Code,
			account.Name,
			account.Kind,
		)
		if err != nil {
			return fmt.Errorf("failed to create ledger account %s: %w", account.Code, err)
		}
	}
	return nil
}
