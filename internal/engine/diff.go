package engine

import (
	"github.com/firesidehq/driftwood/internal/schema"
)

// DiffColumns compares the latest recorded column snapshot against the current
// declaration and returns the operations that transform the former into the
// latter. Columns match by name only; a rename is reported as a drop plus an
// add.
//
// Ordering: drops first (in snapshot order), then adds (in declaration order),
// then alters (in declaration order). Drops running first means a column that
// was dropped and re-added with a different type in one step never collides
// with itself.
func DiffColumns(snapshot, current []*schema.Column) []schema.Operation {
	prev := make(map[string]*schema.Column, len(snapshot))
	for _, col := range snapshot {
		prev[col.Name] = col
	}
	next := make(map[string]*schema.Column, len(current))
	for _, col := range current {
		next[col.Name] = col
	}

	var drops, adds, alters []schema.Operation

	for _, col := range snapshot {
		if _, ok := next[col.Name]; !ok {
			drops = append(drops, schema.DropColumn(col))
		}
	}

	for _, col := range current {
		old, ok := prev[col.Name]
		if !ok {
			adds = append(adds, schema.AddColumn(col))
			continue
		}
		from, to := schema.StateOf(old), schema.StateOf(col)
		if !from.Equal(to) {
			alters = append(alters, schema.AlterColumn(col.Name, from, to))
		}
	}

	ops := make([]schema.Operation, 0, len(drops)+len(adds)+len(alters))
	ops = append(ops, drops...)
	ops = append(ops, adds...)
	ops = append(ops, alters...)
	return ops
}
