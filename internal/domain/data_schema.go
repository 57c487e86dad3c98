package domain

import (
	"time"

	"github.com/google/uuid"
)

// SchemaColumn describes one column of a tabular upload schema.
type SchemaColumn struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Identifier bool   `json:"identifier,omitempty"`
}

// DataSchemaConfig describes the expected shape of external tabular data
// for a provider: column set plus the column used as the borrower key.
type DataSchemaConfig struct {
	ID               uuid.UUID      `json:"id"`
	ProviderID       uuid.UUID      `json:"providerId"`
	Name             string         `json:"name"`
	Description      string         `json:"description,omitempty"`
	IdentifierColumn string         `json:"identifierColumn"`
	Columns          []SchemaColumn `json:"columns"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// IdentifierSchemaColumn resolves the configured identifier column,
// preferring the flagged column and falling back to IdentifierColumn.
func (c DataSchemaConfig) IdentifierSchemaColumn() (SchemaColumn, bool) {
	for _, col := range c.Columns {
		if col.Identifier {
			return col, true
		}
	}
	for _, col := range c.Columns {
		if col.Name == c.IdentifierColumn {
			return col, true
		}
	}
	return SchemaColumn{}, false
}

// DataUpload records one approved tabular file ingestion.
type DataUpload struct {
	ID           uuid.UUID `json:"id"`
	ConfigID     uuid.UUID `json:"configId"`
	FileName     string    `json:"fileName"`
	RowCount     int       `json:"rowCount"`
	UploadedByID uuid.UUID `json:"uploadedById"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Borrower is the master identity record keyed by the externally supplied
// identifier column.
type Borrower struct {
	ID         uuid.UUID `json:"id"`
	Identifier string    `json:"identifier"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ProvisionedRow is the stored data for one borrower under one schema
// config. Re-uploads shallow-merge onto Data; UploadID tracks the most
// recent contributing upload.
type ProvisionedRow struct {
	ID         uuid.UUID      `json:"id"`
	BorrowerID uuid.UUID      `json:"borrowerId"`
	ConfigID   uuid.UUID      `json:"configId"`
	UploadID   uuid.UUID      `json:"uploadId"`
	Data       map[string]any `json:"data"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}
