package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lendstack/backoffice/internal/db"
)

// DBTX is the executor surface shared by pgxpool.Pool and pgx.Tx, so the
// same repository code serves pooled reads and transactional applies.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// New binds every repository to the given executor.
func New(dbtx DBTX) Repositories {
	return Repositories{
		PendingChanges:  &pendingChangeRepository{db: dbtx},
		Providers:       &providerRepository{db: dbtx},
		Products:        &productRepository{db: dbtx},
		Taxes:           &taxRepository{db: dbtx},
		LoanCycles:      &loanCycleRepository{db: dbtx},
		SchemaConfigs:   &schemaConfigRepository{db: dbtx},
		Uploads:         &uploadRepository{db: dbtx},
		Borrowers:       &borrowerRepository{db: dbtx},
		ProvisionedRows: &provisionedRowRepository{db: dbtx},
		Scoring:         &scoringRepository{db: dbtx},
		Terms:           &termsRepository{db: dbtx},
		Catalog:         &catalogRepository{db: dbtx},
		Items:           &itemRepository{db: dbtx},
	}
}

// Manager implements TxManager on top of the shared connection pool.
type Manager struct {
	conn *db.Connection
}

// NewManager wires a TxManager backed by the pool.
func NewManager(conn *db.Connection) *Manager {
	return &Manager{conn: conn}
}

// WithinTx opens one transaction, rebinds the repositories to it, and
// commits only if fn returns nil.
func (m *Manager) WithinTx(ctx context.Context, fn func(Repositories) error) error {
	return m.conn.WithTx(ctx, func(tx pgx.Tx) error {
		return fn(New(tx))
	})
}
