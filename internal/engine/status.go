package engine

import (
	"context"
)

// TableStatus summarizes one registered table for status reporting.
type TableStatus struct {
	Table   string
	Exists  bool
	Applied int // applied index; -1 when the table has no version row
	Highest int // highest recorded index; -1 when the table has no history
	Drift   bool
}

// Status reports, for every registered table in declaration order, whether the
// live table exists, which index is applied, the highest recorded index, and
// whether the declaration has drifted from the latest snapshot.
func (e *Engine) Status(ctx context.Context, dbtx DBTX) ([]TableStatus, error) {
	if err := e.ensureVersionTable(ctx, dbtx); err != nil {
		return nil, err
	}

	var out []TableStatus
	for _, t := range e.reg.All() {
		st := TableStatus{Table: t.Name, Applied: -1, Highest: -1}

		exists, err := e.tableExists(ctx, dbtx, t.Name)
		if err != nil {
			return nil, err
		}
		st.Exists = exists

		applied, found, err := e.appliedIndex(ctx, dbtx, t.Name)
		if err != nil {
			return nil, err
		}
		if found {
			st.Applied = applied
		}

		steps, err := e.hist.Load(t.Name)
		if err != nil {
			return nil, err
		}
		if len(steps) > 0 {
			latest := steps[len(steps)-1]
			st.Highest = latest.Index
			st.Drift = len(DiffColumns(latest.Snapshot, t.Columns)) > 0
		}

		out = append(out, st)
	}
	return out, nil
}
