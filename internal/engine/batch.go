package engine

import (
	"context"
	"database/sql"

	"github.com/firesidehq/driftwood/internal/dwerr"
)

// CreateAll creates every registered table in declaration order inside one
// transaction. The first failure rolls the whole batch back; no table from a
// failed batch is retained.
func (e *Engine) CreateAll(ctx context.Context, db *sql.DB, autoApply bool) ([]Result, error) {
	var results []Result
	err := e.inTransaction(ctx, db, func(tx *sql.Tx) error {
		for _, t := range e.reg.All() {
			outcome, err := e.Create(ctx, tx, t, autoApply)
			results = append(results, Result{Table: t.Name, Outcome: outcome, Err: err})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return results, err
}

// MigrateAll migrates every registered table to the target index inside one
// transaction. A failure on any table discards every applied-index update in
// the batch.
func (e *Engine) MigrateAll(ctx context.Context, db *sql.DB, target int, dir Direction) ([]Result, error) {
	var results []Result
	err := e.inTransaction(ctx, db, func(tx *sql.Tx) error {
		for _, t := range e.reg.All() {
			outcome, err := e.Migrate(ctx, tx, t.Name, target, dir)
			results = append(results, Result{Table: t.Name, Outcome: outcome, Err: err})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return results, err
}

// DropAll drops every registered table inside one transaction. History files
// are cleared only after the transaction commits, so a rolled-back batch keeps
// its recorded history.
func (e *Engine) DropAll(ctx context.Context, db *sql.DB) ([]Result, error) {
	var results []Result
	err := e.inTransaction(ctx, db, func(tx *sql.Tx) error {
		for _, t := range e.reg.All() {
			outcome, err := e.Drop(ctx, tx, t.Name)
			results = append(results, Result{Table: t.Name, Outcome: outcome, Err: err})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return results, err
	}

	for _, t := range e.reg.All() {
		if err := e.hist.Clear(t.Name); err != nil {
			return results, err
		}
	}
	return results, nil
}

// inTransaction runs fn inside a transaction, rolling back on error.
func (e *Engine) inTransaction(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return dwerr.Wrap(dwerr.ErrTransaction, err, "failed to begin transaction")
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			e.log.Error("rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return dwerr.Wrap(dwerr.ErrTransaction, err, "failed to commit transaction")
	}
	return nil
}
