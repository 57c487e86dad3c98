package apply

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/google/uuid"

	"github.com/lendstack/backoffice/internal/domain"
	"github.com/lendstack/backoffice/internal/repository"
)

type uploadPayload struct {
	ConfigID    uuid.UUID `json:"configId"`
	ProductID   uuid.UUID `json:"productId"`
	FileName    string    `json:"fileName"`
	FileContent string    `json:"fileContent"`
}

// applyDataUpload ingests an approved tabular file: every data row
// upserts a borrower master record by the configured identifier column
// and shallow-merges the row's fields onto any previously provisioned
// data for that borrower and config. Rows are processed sequentially so
// repeated borrowers within one file stay consistent.
func applyDataUpload(parse ParseFunc) Func {
	return func(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error {
		if change.ChangeType != domain.ChangeTypeCreate {
			return unsupportedChangeType(change)
		}
		_, _, err := processUpload(ctx, repos, parse, change)
		return err
	}
}

// applyEligibilityList runs the same ingestion and then attaches the new
// upload plus a filter expression (comma-joined identifier values) to the
// target product.
func applyEligibilityList(parse ParseFunc) Func {
	return func(ctx context.Context, repos repository.Repositories, change domain.PendingChange) error {
		if change.ChangeType != domain.ChangeTypeCreate {
			return unsupportedChangeType(change)
		}

		var payload uploadPayload
		if err := decodeInto(change.Payload.Created, &payload); err != nil {
			return err
		}
		if payload.ProductID == uuid.Nil {
			return domain.NewValidationError("productId", "eligibility list requires a target product")
		}

		upload, identifiers, err := processUpload(ctx, repos, parse, change)
		if err != nil {
			return err
		}

		filter := strings.Join(identifiers, ",")
		return repos.Products.AttachEligibility(ctx, payload.ProductID, upload.ID, filter)
	}
}

func processUpload(ctx context.Context, repos repository.Repositories, parse ParseFunc, change domain.PendingChange) (domain.DataUpload, []string, error) {
	var payload uploadPayload
	if err := decodeInto(change.Payload.Created, &payload); err != nil {
		return domain.DataUpload{}, nil, err
	}
	if payload.ConfigID == uuid.Nil {
		return domain.DataUpload{}, nil, domain.NewValidationError("configId", "upload requires a schema config")
	}

	content, err := base64.StdEncoding.DecodeString(payload.FileContent)
	if err != nil {
		return domain.DataUpload{}, nil, domain.NewValidationError("fileContent", "file content is not valid base64: %v", err)
	}

	config, err := repos.SchemaConfigs.GetByID(ctx, payload.ConfigID)
	if err != nil {
		return domain.DataUpload{}, nil, err
	}
	identifierColumn, ok := config.IdentifierSchemaColumn()
	if !ok {
		return domain.DataUpload{}, nil, domain.NewValidationError("identifierColumn", "schema config %s has no identifier column", config.Name)
	}

	table, err := parse(payload.FileName, content)
	if err != nil {
		return domain.DataUpload{}, nil, domain.NewValidationError("file", "failed to parse upload: %v", err)
	}
	identifierIdx, ok := table.ColumnIndex(identifierColumn.Name)
	if !ok {
		return domain.DataUpload{}, nil, domain.NewValidationError("identifierColumn", "upload is missing identifier column %q", identifierColumn.Name)
	}

	schemaColumns := make(map[string]struct{}, len(config.Columns))
	for _, column := range config.Columns {
		schemaColumns[column.Name] = struct{}{}
	}

	upload := domain.DataUpload{
		ID:           uuid.New(),
		ConfigID:     config.ID,
		FileName:     payload.FileName,
		RowCount:     len(table.Rows),
		UploadedByID: change.CreatedByID,
	}
	upload, err = repos.Uploads.Create(ctx, upload)
	if err != nil {
		return domain.DataUpload{}, nil, err
	}

	identifiers := make([]string, 0, len(table.Rows))
	for rowIdx, row := range table.Rows {
		identifier := strings.TrimSpace(row[identifierIdx])
		if identifier == "" {
			return domain.DataUpload{}, nil, domain.NewValidationError("rows", "row %d has an empty identifier value", rowIdx+2)
		}

		borrower, err := repos.Borrowers.UpsertByIdentifier(ctx, identifier)
		if err != nil {
			return domain.DataUpload{}, nil, err
		}
		identifiers = append(identifiers, identifier)

		incoming := map[string]any{}
		for colIdx, header := range table.Headers {
			if colIdx >= len(row) {
				continue
			}
			if _, inSchema := schemaColumns[header]; !inSchema {
				// Column not part of the schema; skipped silently.
				continue
			}
			value := strings.TrimSpace(row[colIdx])
			if value == "" {
				continue
			}
			incoming[header] = value
		}

		merged := incoming
		existing, found, err := repos.ProvisionedRows.Get(ctx, borrower.ID, config.ID)
		if err != nil {
			return domain.DataUpload{}, nil, err
		}
		if found {
			// Shallow merge, incoming wins per field. Fields absent from
			// the new row keep their previously stored values.
			merged = make(map[string]any, len(existing.Data)+len(incoming))
			for key, value := range existing.Data {
				merged[key] = value
			}
			for key, value := range incoming {
				merged[key] = value
			}
		}

		record := domain.ProvisionedRow{
			ID:         uuid.New(),
			BorrowerID: borrower.ID,
			ConfigID:   config.ID,
			UploadID:   upload.ID,
			Data:       merged,
		}
		if found {
			record.ID = existing.ID
		}
		if err := repos.ProvisionedRows.Upsert(ctx, record); err != nil {
			return domain.DataUpload{}, nil, err
		}
	}

	return upload, identifiers, nil
}
