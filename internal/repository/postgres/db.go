package postgres

import (
	"context"
	"database/sql"

	"wheels/internal/repository"
)

// Querier is an interface satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Ensure interfaces are satisfied.
var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// TxManager runs repository operations inside a database transaction.
type TxManager struct {
	db *sql.DB
}

// NewTxManager creates a new TxManager.
func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTransaction begins a transaction, hands transaction-scoped
// repositories to fn, and commits if fn returns nil. Any error rolls the
// whole transaction back.
func (m *TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepositories) error) (err error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	repos := repository.TxRepositories{
		Trips:   NewTripRepositoryWithTx(tx),
		Drivers: NewDriverRepositoryWithTx(tx),
		Riders:  NewRiderRepositoryWithTx(tx),
		Chats:   NewChatRepositoryWithTx(tx),
	}

	if err = fn(ctx, repos); err != nil {
		return err
	}

	return tx.Commit()
}

// Ensure TxManager implements repository.TxManager.
var _ repository.TxManager = (*TxManager)(nil)

// nullString maps an empty string to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
