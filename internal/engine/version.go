package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/firesidehq/driftwood/internal/dwerr"
)

// VersionTable tracks the applied migration index, one row per managed table.
// It is created on demand and only ever written inside the caller's
// transaction, so a rollback discards the index update along with the DDL.
const VersionTable = "driftwood_version"

// ensureVersionTable creates the version table if it does not exist.
func (e *Engine) ensureVersionTable(ctx context.Context, dbtx DBTX) error {
	var ddl string
	switch e.dialect.Name() {
	case "postgres":
		ddl = `CREATE TABLE IF NOT EXISTS ` + VersionTable + ` (
			table_name TEXT PRIMARY KEY,
			applied_index BIGINT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	case "sqlite":
		ddl = `CREATE TABLE IF NOT EXISTS ` + VersionTable + ` (
			table_name TEXT PRIMARY KEY,
			applied_index INTEGER NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`
	default:
		return dwerr.Newf(dwerr.ErrStatement, "no version table DDL for dialect %q", e.dialect.Name())
	}

	if _, err := dbtx.ExecContext(ctx, ddl); err != nil {
		return dwerr.Wrap(dwerr.ErrStatement, err, "failed to create version table").
			WithSQL(ddl)
	}
	return nil
}

// appliedIndex reads a table's applied index. A table with no version row is
// reported as (0, false): history index 0 is the creation shape, so a tracked
// table that lost its row is treated as freshly created.
func (e *Engine) appliedIndex(ctx context.Context, dbtx DBTX, table string) (int, bool, error) {
	query := fmt.Sprintf("SELECT applied_index FROM %s WHERE table_name = %s",
		VersionTable, e.dialect.Placeholder(1))

	var index int
	err := dbtx.QueryRowContext(ctx, query, table).Scan(&index)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, dwerr.Wrap(dwerr.ErrStatement, err, "failed to read applied index").
			WithTable(table)
	}
	return index, true, nil
}

// setAppliedIndex upserts a table's applied index.
func (e *Engine) setAppliedIndex(ctx context.Context, dbtx DBTX, table string, index int) error {
	var stmt string
	switch e.dialect.Name() {
	case "postgres":
		stmt = fmt.Sprintf(`INSERT INTO %s (table_name, applied_index) VALUES (%s, %s)
			ON CONFLICT (table_name) DO UPDATE SET applied_index = excluded.applied_index, updated_at = now()`,
			VersionTable, e.dialect.Placeholder(1), e.dialect.Placeholder(2))
	case "sqlite":
		stmt = fmt.Sprintf(`INSERT INTO %s (table_name, applied_index) VALUES (%s, %s)
			ON CONFLICT (table_name) DO UPDATE SET applied_index = excluded.applied_index, updated_at = datetime('now')`,
			VersionTable, e.dialect.Placeholder(1), e.dialect.Placeholder(2))
	default:
		return dwerr.Newf(dwerr.ErrStatement, "no version upsert for dialect %q", e.dialect.Name())
	}

	if _, err := dbtx.ExecContext(ctx, stmt, table, index); err != nil {
		return dwerr.Wrap(dwerr.ErrStatement, err, "failed to update applied index").
			WithTable(table)
	}
	return nil
}

// deleteVersionRow removes a table's version row on drop.
func (e *Engine) deleteVersionRow(ctx context.Context, dbtx DBTX, table string) error {
	stmt := fmt.Sprintf("DELETE FROM %s WHERE table_name = %s",
		VersionTable, e.dialect.Placeholder(1))
	if _, err := dbtx.ExecContext(ctx, stmt, table); err != nil {
		return dwerr.Wrap(dwerr.ErrStatement, err, "failed to delete version row").
			WithTable(table)
	}
	return nil
}
