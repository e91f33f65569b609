// Package engine implements the migration engine: drift detection between
// declared tables and recorded history, migration step generation, and
// transactional application against a live database.
package engine

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/firesidehq/driftwood/internal/dialect"
	"github.com/firesidehq/driftwood/internal/dwerr"
	"github.com/firesidehq/driftwood/internal/history"
	"github.com/firesidehq/driftwood/internal/registry"
	"github.com/firesidehq/driftwood/internal/schema"
)

// DBTX is the minimal database surface the engine executes against. It is
// satisfied by *sql.DB, *sql.Conn, and *sql.Tx, so callers own transaction
// boundaries: the engine itself never begins, commits, or rolls back.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Engine binds a registry of declared tables, a history store, and a dialect.
type Engine struct {
	reg     *registry.Registry
	hist    *history.Store
	dialect dialect.Dialect
	log     *slog.Logger
}

// New creates an engine. A nil logger disables engine logging.
func New(reg *registry.Registry, hist *history.Store, d dialect.Dialect, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Engine{reg: reg, hist: hist, dialect: d, log: log}
}

// Registry returns the engine's table registry.
func (e *Engine) Registry() *registry.Registry { return e.reg }

// History returns the engine's history store.
func (e *Engine) History() *history.Store { return e.hist }

// Dialect returns the engine's SQL dialect.
func (e *Engine) Dialect() dialect.Dialect { return e.dialect }

// statementsFor renders the SQL statements that execute a single recorded
// operation against a table.
func (e *Engine) statementsFor(table string, op schema.Operation) ([]string, error) {
	switch op.Kind {
	case schema.OpAddColumn:
		stmt, err := e.dialect.AddColumnSQL(table, op.Column)
		if err != nil {
			return nil, err
		}
		return []string{stmt}, nil
	case schema.OpDropColumn:
		return []string{e.dialect.DropColumnSQL(table, op.ColumnName())}, nil
	case schema.OpAlterColumn:
		return e.dialect.AlterColumnSQL(table, op.Alter)
	default:
		return nil, dwerr.Newf(dwerr.ErrStatement, "unknown operation kind %q", op.Kind).
			WithTable(table)
	}
}

// tableExists checks whether the live table is present.
func (e *Engine) tableExists(ctx context.Context, dbtx DBTX, table string) (bool, error) {
	var exists bool
	err := dbtx.QueryRowContext(ctx, e.dialect.TableExistsSQL(), table).Scan(&exists)
	if err != nil {
		return false, dwerr.Wrap(dwerr.ErrStatement, err, "failed to check table existence").
			WithTable(table)
	}
	return exists, nil
}
