package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/campushq/registrar/internal/platform/logger"
)

// TxFn is a function that executes within a database transaction. The
// transaction is committed if the function returns nil, or rolled back if
// it returns an error. tx is nil for implementations that do not use
// database/sql transactions (the in-memory store).
type TxFn func(ctx context.Context, tx *sql.Tx) error

// Transactor runs a function atomically: either every store write made
// inside fn is visible afterwards, or none is. The service layer depends on
// this interface rather than on *sql.DB so the same workflow code runs
// against PostgreSQL and the in-memory store.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn TxFn) error
}

// sqlTransactor implements Transactor over a *sql.DB.
type sqlTransactor struct {
	db *sql.DB
}

// NewSQLTransactor returns a Transactor backed by database transactions on db.
func NewSQLTransactor(db *sql.DB) Transactor {
	return &sqlTransactor{db: db}
}

// RunInTransaction implements Transactor.
func (t *sqlTransactor) RunInTransaction(ctx context.Context, fn TxFn) error {
	return RunInTransaction(ctx, t.db, fn)
}

// RunInTransaction executes the given function within a database
// transaction. If the function returns an error, the transaction is rolled
// back; otherwise it is committed. Panics inside fn roll the transaction
// back and re-panic.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: begin: %v", ErrTransactionFailed, err)
	}

	defer func() {
		if p := recover(); p != nil {
			if txErr := tx.Rollback(); txErr != nil {
				log.Error("failed to roll back transaction after panic",
					slog.String("error", txErr.Error()),
					slog.Any("panic", p))
			} else {
				log.Error("rolled back transaction after panic",
					slog.Any("panic", p))
			}
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rollbackErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf("error rolling back transaction: %v (original error: %w)",
				rollbackErr, err)
		}
		log.Debug("rolled back transaction due to error",
			slog.String("error", err.Error()))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: commit: %v", ErrTransactionFailed, err)
	}

	return nil
}
