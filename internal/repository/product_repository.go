package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lendstack/backoffice/internal/domain"
)

type productRepository struct {
	db DBTX
}

func (r *productRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	feesJSON, penaltiesJSON, err := marshalProductSubObjects(product)
	if err != nil {
		return domain.Product{}, err
	}

	row := r.db.QueryRow(
		ctx,
		`INSERT INTO products (id, provider_id, name, status, interest_rate, tenor_days, fees, penalties)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		product.ID,
		product.ProviderID,
		product.Name,
		product.Status,
		product.InterestRate,
		product.TenorDays,
		feesJSON,
		penaltiesJSON,
	)

	var createdAt, updatedAt pgtype.Timestamptz
	if err := row.Scan(&createdAt, &updatedAt); err != nil {
		return domain.Product{}, fmt.Errorf("failed to create product: %w", err)
	}
	if createdAt.Valid {
		product.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		product.UpdatedAt = updatedAt.Time
	}
	return product, nil
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT id, provider_id, name, status, interest_rate, tenor_days, fees, penalties,
		        eligibility_upload_id, eligibility_filter, created_at, updated_at
		 FROM products WHERE id = $1`,
		id,
	)

	var (
		product                 domain.Product
		feesJSON, penaltiesJSON []byte
		filter                  pgtype.Text
		createdAt, updatedAt    pgtype.Timestamptz
	)
	if err := row.Scan(
		&product.ID,
		&product.ProviderID,
		&product.Name,
		&product.Status,
		&product.InterestRate,
		&product.TenorDays,
		&feesJSON,
		&penaltiesJSON,
		&product.EligibilityUploadID,
		&filter,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("failed to get product: %w", err)
	}

	if len(feesJSON) > 0 {
		if err := json.Unmarshal(feesJSON, &product.Fees); err != nil {
			return domain.Product{}, fmt.Errorf("failed to unmarshal product fees: %w", err)
		}
	}
	if len(penaltiesJSON) > 0 {
		if err := json.Unmarshal(penaltiesJSON, &product.Penalties); err != nil {
			return domain.Product{}, fmt.Errorf("failed to unmarshal product penalties: %w", err)
		}
	}
	if filter.Valid {
		product.EligibilityFilter = filter.String
	}
	if createdAt.Valid {
		product.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		product.UpdatedAt = updatedAt.Time
	}
	return product, nil
}

func (r *productRepository) Update(ctx context.Context, product domain.Product) error {
	feesJSON, penaltiesJSON, err := marshalProductSubObjects(product)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE products
		 SET name = $1, status = $2, interest_rate = $3, tenor_days = $4,
		     fees = $5, penalties = $6, updated_at = now()
		 WHERE id = $7`,
		product.Name,
		product.Status,
		product.InterestRate,
		product.TenorDays,
		feesJSON,
		penaltiesJSON,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", product.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *productRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.db.Exec(
		ctx,
		`UPDATE products SET status = $1, updated_at = now() WHERE id = $2`,
		status,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update product status: %w", err)
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM loan_amount_tiers WHERE product_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete product tiers: %w", err)
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *productRepository) CountByProvider(ctx context.Context, providerID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM products WHERE provider_id = $1`, providerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count provider products: %w", err)
	}
	return count, nil
}

func (r *productRepository) ReplaceTiers(ctx context.Context, productID uuid.UUID, tiers []domain.LoanAmountTier) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM loan_amount_tiers WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("failed to clear loan amount tiers: %w", err)
	}
	for _, tier := range tiers {
		_, err := r.db.Exec(
			ctx,
			`INSERT INTO loan_amount_tiers (id, product_id, min_amount, max_amount, rate)
			 VALUES ($1, $2, $3, $4, $5)`,
			tier.ID,
			productID,
			tier.MinAmount,
			tier.MaxAmount,
			tier.Rate,
		)
		if err != nil {
			return fmt.Errorf("failed to create loan amount tier: %w", err)
		}
	}
	return nil
}

func (r *productRepository) AttachEligibility(ctx context.Context, productID uuid.UUID, uploadID uuid.UUID, filter string) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE products
		 SET eligibility_upload_id = $1, eligibility_filter = $2, updated_at = now()
		 WHERE id = $3`,
		uploadID,
		filter,
		productID,
	)
	if err != nil {
		return fmt.Errorf("failed to attach eligibility list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}
	return nil
}

func marshalProductSubObjects(product domain.Product) ([]byte, []byte, error) {
	feesJSON, err := json.Marshal(product.Fees)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal product fees: %w", err)
	}
	penaltiesJSON, err := json.Marshal(product.Penalties)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal product penalties: %w", err)
	}
	return feesJSON, penaltiesJSON, nil
}
