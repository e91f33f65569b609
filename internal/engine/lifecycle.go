package engine

import (
	"context"
	"time"

	"github.com/firesidehq/driftwood/internal/dwerr"
	"github.com/firesidehq/driftwood/internal/history"
	"github.com/firesidehq/driftwood/internal/schema"
)

// Create materializes a declared table. The DDL is CREATE TABLE IF NOT EXISTS,
// so calling Create on an existing table is safe. A table seen for the first
// time also gets history step 0 — the creation snapshot — and an applied index
// of 0. On a fresh database that already has recorded history the table is
// built from the current declaration, the latest snapshot's shape, so the
// applied index is recorded as the highest recorded step. When the table
// already exists and autoApply is set, Create brings it up to the latest
// recorded index.
func (e *Engine) Create(ctx context.Context, dbtx DBTX, table *schema.Table, autoApply bool) (Outcome, error) {
	exists, err := e.tableExists(ctx, dbtx, table.Name)
	if err != nil {
		return "", err
	}

	ddl, err := e.dialect.CreateTableSQL(table.Name, table.Columns)
	if err != nil {
		return "", err
	}
	if _, err := dbtx.ExecContext(ctx, ddl); err != nil {
		return "", dwerr.Wrap(dwerr.ErrStatement, err, "failed to create table").
			WithTable(table.Name).
			WithSQL(ddl)
	}

	steps, err := e.hist.Load(table.Name)
	if err != nil {
		return "", err
	}
	if len(steps) == 0 {
		step := history.Step{
			Index:     0,
			Snapshot:  table.Snapshot(),
			CreatedAt: time.Now().UTC(),
		}
		if err := e.hist.Append(table.Name, step); err != nil {
			return "", err
		}
	}

	if !exists {
		if err := e.ensureVersionTable(ctx, dbtx); err != nil {
			return "", err
		}
		// The DDL above came from the current declaration. With pre-existing
		// history that is the latest snapshot's shape, so the table starts at
		// the highest recorded step, not at 0; recording 0 would make the next
		// upgrade replay steps against columns that already exist.
		index := 0
		if len(steps) > 0 {
			index = steps[len(steps)-1].Index
		}
		if err := e.setAppliedIndex(ctx, dbtx, table.Name, index); err != nil {
			return "", err
		}
		e.log.Info("created table", "table", table.Name, "index", index)
		return OutcomeCreated, nil
	}

	if autoApply {
		outcome, err := e.Migrate(ctx, dbtx, table.Name, TargetLatest, Up)
		if err != nil {
			return "", err
		}
		return outcome, nil
	}
	return OutcomeNoWork, nil
}

// Drop removes the live table and its version row. Dropping a table that does
// not exist is an error naming the table. Drop leaves the on-disk history
// untouched; callers clear it with History().Clear once their transaction has
// committed, so a rolled-back batch keeps its history intact.
func (e *Engine) Drop(ctx context.Context, dbtx DBTX, table string) (Outcome, error) {
	exists, err := e.tableExists(ctx, dbtx, table)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", dwerr.New(dwerr.ErrTableMissing, "cannot drop a table that does not exist").
			WithTable(table)
	}

	ddl := e.dialect.DropTableSQL(table)
	if _, err := dbtx.ExecContext(ctx, ddl); err != nil {
		return "", dwerr.Wrap(dwerr.ErrStatement, err, "failed to drop table").
			WithTable(table).
			WithSQL(ddl)
	}

	if err := e.ensureVersionTable(ctx, dbtx); err != nil {
		return "", err
	}
	if err := e.deleteVersionRow(ctx, dbtx, table); err != nil {
		return "", err
	}

	e.log.Info("dropped table", "table", table)
	return OutcomeDropped, nil
}
