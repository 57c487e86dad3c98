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

type schemaConfigRepository struct {
	db DBTX
}

func (r *schemaConfigRepository) Create(ctx context.Context, config domain.DataSchemaConfig) (domain.DataSchemaConfig, error) {
	columnsJSON, err := json.Marshal(config.Columns)
	if err != nil {
		return domain.DataSchemaConfig{}, fmt.Errorf("failed to marshal schema columns: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO data_schema_configs (id, provider_id, name, description, identifier_column, columns)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		config.ID,
		config.ProviderID,
		config.Name,
		config.Description,
		config.IdentifierColumn,
		columnsJSON,
	)
	if err != nil {
		return domain.DataSchemaConfig{}, fmt.Errorf("failed to create schema config: %w", err)
	}
	return config, nil
}

func (r *schemaConfigRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.DataSchemaConfig, error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT id, provider_id, name, description, identifier_column, columns, created_at, updated_at
		 FROM data_schema_configs WHERE id = $1`,
		id,
	)
	config, err := scanSchemaConfig(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DataSchemaConfig{}, fmt.Errorf("schema config %s: %w", id, domain.ErrNotFound)
		}
		return domain.DataSchemaConfig{}, fmt.Errorf("failed to get schema config: %w", err)
	}
	return config, nil
}

func (r *schemaConfigRepository) Update(ctx context.Context, config domain.DataSchemaConfig) error {
	columnsJSON, err := json.Marshal(config.Columns)
	if err != nil {
		return fmt.Errorf("failed to marshal schema columns: %w", err)
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE data_schema_configs
		 SET name = $1, description = $2, identifier_column = $3, columns = $4, updated_at = now()
		 WHERE id = $5`,
		config.Name,
		config.Description,
		config.IdentifierColumn,
		columnsJSON,
		config.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update schema config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("schema config %s: %w", config.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *schemaConfigRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM data_schema_configs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schema config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("schema config %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *schemaConfigRepository) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]domain.DataSchemaConfig, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, provider_id, name, description, identifier_column, columns, created_at, updated_at
		 FROM data_schema_configs WHERE provider_id = $1 ORDER BY created_at`,
		providerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list schema configs: %w", err)
	}
	defer rows.Close()

	configs := []domain.DataSchemaConfig{}
	for rows.Next() {
		config, scanErr := scanSchemaConfig(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan schema config: %w", scanErr)
		}
		configs = append(configs, config)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate schema configs: %w", rowsErr)
	}
	return configs, nil
}

func scanSchemaConfig(row pgx.Row) (domain.DataSchemaConfig, error) {
	var (
		config               domain.DataSchemaConfig
		description          pgtype.Text
		columnsJSON          []byte
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(
		&config.ID,
		&config.ProviderID,
		&config.Name,
		&description,
		&config.IdentifierColumn,
		&columnsJSON,
		&createdAt,
		&updatedAt,
	); err != nil {
		return domain.DataSchemaConfig{}, err
	}
	if description.Valid {
		config.Description = description.String
	}
	if len(columnsJSON) > 0 {
		if err := json.Unmarshal(columnsJSON, &config.Columns); err != nil {
			return domain.DataSchemaConfig{}, fmt.Errorf("failed to unmarshal schema columns: %w", err)
		}
	}
	if createdAt.Valid {
		config.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		config.UpdatedAt = updatedAt.Time
	}
	return config, nil
}

type uploadRepository struct {
	db DBTX
}

func (r *uploadRepository) Create(ctx context.Context, upload domain.DataUpload) (domain.DataUpload, error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO data_uploads (id, config_id, file_name, row_count, uploaded_by_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		upload.ID,
		upload.ConfigID,
		upload.FileName,
		upload.RowCount,
		upload.UploadedByID,
	)

	var createdAt pgtype.Timestamptz
	if err := row.Scan(&createdAt); err != nil {
		return domain.DataUpload{}, fmt.Errorf("failed to create data upload: %w", err)
	}
	if createdAt.Valid {
		upload.CreatedAt = createdAt.Time
	}
	return upload, nil
}

func (r *uploadRepository) DeleteByConfig(ctx context.Context, configID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM data_uploads WHERE config_id = $1`, configID)
	if err != nil {
		return fmt.Errorf("failed to delete uploads for config: %w", err)
	}
	return nil
}

type borrowerRepository struct {
	db DBTX
}

func (r *borrowerRepository) UpsertByIdentifier(ctx context.Context, identifier string) (domain.Borrower, error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO borrowers (id, identifier)
		 VALUES ($1, $2)
		 ON CONFLICT (identifier) DO UPDATE SET updated_at = now()
		 RETURNING id, identifier, created_at, updated_at`,
		uuid.New(),
		identifier,
	)

	var (
		borrower             domain.Borrower
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&borrower.ID, &borrower.Identifier, &createdAt, &updatedAt); err != nil {
		return domain.Borrower{}, fmt.Errorf("failed to upsert borrower: %w", err)
	}
	if createdAt.Valid {
		borrower.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		borrower.UpdatedAt = updatedAt.Time
	}
	return borrower, nil
}

type provisionedRowRepository struct {
	db DBTX
}

func (r *provisionedRowRepository) Get(ctx context.Context, borrowerID, configID uuid.UUID) (domain.ProvisionedRow, bool, error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT id, borrower_id, config_id, upload_id, data, created_at, updated_at
		 FROM provisioned_rows WHERE borrower_id = $1 AND config_id = $2`,
		borrowerID,
		configID,
	)

	var (
		record               domain.ProvisionedRow
		dataJSON             []byte
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&record.ID, &record.BorrowerID, &record.ConfigID, &record.UploadID, &dataJSON, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ProvisionedRow{}, false, nil
		}
		return domain.ProvisionedRow{}, false, fmt.Errorf("failed to get provisioned row: %w", err)
	}
	if len(dataJSON) > 0 {
		if err := json.Unmarshal(dataJSON, &record.Data); err != nil {
			return domain.ProvisionedRow{}, false, fmt.Errorf("failed to unmarshal provisioned data: %w", err)
		}
	}
	if createdAt.Valid {
		record.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		record.UpdatedAt = updatedAt.Time
	}
	return record, true, nil
}

func (r *provisionedRowRepository) Upsert(ctx context.Context, row domain.ProvisionedRow) error {
	dataJSON, err := json.Marshal(row.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal provisioned data: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO provisioned_rows (id, borrower_id, config_id, upload_id, data)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (borrower_id, config_id)
		 DO UPDATE SET upload_id = EXCLUDED.upload_id, data = EXCLUDED.data, updated_at = now()`,
		row.ID,
		row.BorrowerID,
		row.ConfigID,
		row.UploadID,
		dataJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert provisioned row: %w", err)
	}
	return nil
}

func (r *provisionedRowRepository) DeleteByConfig(ctx context.Context, configID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM provisioned_rows WHERE config_id = $1`, configID)
	if err != nil {
		return fmt.Errorf("failed to delete provisioned rows for config: %w", err)
	}
	return nil
}
