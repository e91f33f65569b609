package engine

import (
	"context"

	"github.com/firesidehq/driftwood/internal/dwerr"
	"github.com/firesidehq/driftwood/internal/history"
)

// Direction selects which operation list of a step the applier replays.
type Direction int

const (
	// Up applies forward operations toward a higher index.
	Up Direction = iota

	// Down applies reverse operations toward a lower index.
	Down
)

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "up"
}

// TargetLatest asks the applier to resolve the target index itself: the
// highest recorded index when upgrading, one step back when downgrading.
const TargetLatest = -1

// Migrate moves a table's live schema to the target history index.
//
// Every statement runs on the supplied dbtx; the applier never commits, so a
// caller-owned transaction that rolls back discards both the DDL and the
// applied-index update. Unreachable targets are rejected before any migration
// statement executes. The applied-index upsert is always the final statement.
func (e *Engine) Migrate(ctx context.Context, dbtx DBTX, table string, target int, dir Direction) (Outcome, error) {
	steps, err := e.hist.Load(table)
	if err != nil {
		return "", err
	}
	if len(steps) == 0 {
		return "", dwerr.New(dwerr.ErrNoBaseline, "table has no migration history; create it first").
			WithTable(table)
	}
	highest := steps[len(steps)-1].Index

	// An explicit target outside the recorded range fails before the engine
	// touches the database.
	if target != TargetLatest && (target < 0 || target > highest) {
		return "", dwerr.New(dwerr.ErrTarget, "target index is outside recorded history").
			WithTable(table).
			With("target", target).
			With("highest", highest)
	}

	if err := e.ensureVersionTable(ctx, dbtx); err != nil {
		return "", err
	}
	applied, _, err := e.appliedIndex(ctx, dbtx, table)
	if err != nil {
		return "", err
	}
	if applied > highest {
		return "", dwerr.New(dwerr.ErrHistoryCorrupt, "applied index exceeds recorded history").
			WithTable(table).
			With("applied", applied).
			With("highest", highest)
	}

	if target == TargetLatest {
		if dir == Up {
			target = highest
		} else {
			target = applied - 1
			if target < 0 {
				target = 0
			}
		}
	}

	switch dir {
	case Up:
		if target <= applied {
			return OutcomeNoWork, nil
		}
		if err := e.applySteps(ctx, dbtx, table, steps[applied+1:target+1], dir); err != nil {
			return "", err
		}
	case Down:
		if target >= applied {
			return OutcomeNoWork, nil
		}
		// Walk back from the applied step to just above the target.
		for i := applied; i > target; i-- {
			if err := e.applySteps(ctx, dbtx, table, steps[i:i+1], dir); err != nil {
				return "", err
			}
		}
	}

	if err := e.setAppliedIndex(ctx, dbtx, table, target); err != nil {
		return "", err
	}

	e.log.Info("migrated table",
		"table", table,
		"direction", dir.String(),
		"from", applied,
		"to", target)
	return OutcomeMigrated, nil
}

// applySteps replays the chosen operation list of each step in order.
func (e *Engine) applySteps(ctx context.Context, dbtx DBTX, table string, steps []history.Step, dir Direction) error {
	for _, step := range steps {
		ops := step.Upgrade
		if dir == Down {
			ops = step.Downgrade
		}
		for _, op := range ops {
			stmts, err := e.statementsFor(table, op)
			if err != nil {
				return err
			}
			for _, stmt := range stmts {
				if _, err := dbtx.ExecContext(ctx, stmt); err != nil {
					return dwerr.Wrap(dwerr.ErrMigration, err, "migration statement failed").
						WithTable(table).
						With("step", step.Index).
						With("operation", op.String()).
						WithSQL(stmt)
				}
				e.log.Debug("executed migration statement",
					"table", table,
					"step", step.Index,
					"operation", op.String())
			}
		}
	}
	return nil
}
