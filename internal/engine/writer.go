package engine

import (
	"time"

	"github.com/firesidehq/driftwood/internal/dwerr"
	"github.com/firesidehq/driftwood/internal/history"
	"github.com/firesidehq/driftwood/internal/schema"
)

// WriteMigration compares the table's declaration against its latest recorded
// snapshot and, if they differ, appends the next migration step. It never
// touches the database: writing records drift, applying it is a separate
// decision.
//
// A table with no history cannot be migrated — it has to be created first;
// the engine never creates tables implicitly. An empty diff is not an error.
func (e *Engine) WriteMigration(table *schema.Table) (Outcome, error) {
	steps, err := e.hist.Load(table.Name)
	if err != nil {
		return "", err
	}
	if len(steps) == 0 {
		return "", dwerr.New(dwerr.ErrNoBaseline, "table has no migration history; create it first").
			WithTable(table.Name)
	}

	latest := steps[len(steps)-1]
	ops := DiffColumns(latest.Snapshot, table.Columns)
	if len(ops) == 0 {
		e.log.Debug("no schema drift", "table", table.Name, "index", latest.Index)
		return OutcomeNoChanges, nil
	}

	step := history.Step{
		Index:     latest.Index + 1,
		Upgrade:   ops,
		Downgrade: schema.InvertAll(ops),
		Snapshot:  table.Snapshot(),
		CreatedAt: time.Now().UTC(),
	}
	if err := e.hist.Append(table.Name, step); err != nil {
		return "", err
	}

	e.log.Info("wrote migration step",
		"table", table.Name,
		"index", step.Index,
		"operations", len(ops))
	return OutcomeMigrated, nil
}

// WriteAll runs WriteMigration for every registered table in declaration
// order, stopping at the first failure.
func (e *Engine) WriteAll() ([]Result, error) {
	var results []Result
	for _, t := range e.reg.All() {
		outcome, err := e.WriteMigration(t)
		results = append(results, Result{Table: t.Name, Outcome: outcome, Err: err})
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
