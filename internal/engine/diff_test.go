package engine

import (
	"testing"

	"github.com/firesidehq/driftwood/internal/schema"
)

func TestDiffColumnsNoDrift(t *testing.T) {
	cols := []*schema.Column{
		schema.PrimaryKeyColumn(),
		schema.StringColumn("name"),
	}
	if ops := DiffColumns(cols, cols); len(ops) != 0 {
		t.Fatalf("expected empty diff, got %v", ops)
	}
}

func TestDiffColumnsAdd(t *testing.T) {
	old := []*schema.Column{schema.PrimaryKeyColumn()}
	cur := []*schema.Column{schema.PrimaryKeyColumn(), schema.BoolColumn("enabled", schema.Default(false))}

	ops := DiffColumns(old, cur)
	if len(ops) != 1 || ops[0].Kind != schema.OpAddColumn || ops[0].ColumnName() != "enabled" {
		t.Fatalf("ops = %v", ops)
	}
}

func TestDiffColumnsDrop(t *testing.T) {
	old := []*schema.Column{schema.PrimaryKeyColumn(), schema.StringColumn("legacy")}
	cur := []*schema.Column{schema.PrimaryKeyColumn()}

	ops := DiffColumns(old, cur)
	if len(ops) != 1 || ops[0].Kind != schema.OpDropColumn || ops[0].ColumnName() != "legacy" {
		t.Fatalf("ops = %v", ops)
	}
	// Dropped columns keep their full definition so the step can be reverted.
	if ops[0].Column.Type != schema.String {
		t.Fatalf("drop lost the column definition: %+v", ops[0].Column)
	}
}

func TestDiffColumnsAlter(t *testing.T) {
	old := []*schema.Column{schema.PrimaryKeyColumn(), schema.IntColumn("count")}
	cur := []*schema.Column{schema.PrimaryKeyColumn(), schema.BigIntColumn("count", schema.Nullable())}

	ops := DiffColumns(old, cur)
	if len(ops) != 1 || ops[0].Kind != schema.OpAlterColumn {
		t.Fatalf("ops = %v", ops)
	}
	alter := ops[0].Alter
	if alter.From.Type != schema.Integer || alter.To.Type != schema.BigInt || !alter.To.Nullable {
		t.Fatalf("alter = %+v", alter)
	}
}

func TestDiffColumnsOrdering(t *testing.T) {
	// One drop, one add, one alter in a single diff: drops must come first so
	// a drop+re-add of the same name never collides.
	old := []*schema.Column{
		schema.PrimaryKeyColumn(),
		schema.StringColumn("legacy"),
		schema.IntColumn("count"),
	}
	cur := []*schema.Column{
		schema.PrimaryKeyColumn(),
		schema.BoolColumn("enabled"),
		schema.BigIntColumn("count"),
	}

	ops := DiffColumns(old, cur)
	if len(ops) != 3 {
		t.Fatalf("ops = %v", ops)
	}
	kinds := []schema.OpKind{ops[0].Kind, ops[1].Kind, ops[2].Kind}
	want := []schema.OpKind{schema.OpDropColumn, schema.OpAddColumn, schema.OpAlterColumn}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", kinds, want)
		}
	}
}

func TestDiffColumnsDropAndReadd(t *testing.T) {
	old := []*schema.Column{schema.PrimaryKeyColumn(), schema.IntColumn("value")}
	cur := []*schema.Column{schema.PrimaryKeyColumn(), schema.StringColumn("value")}

	// Same name, different type: reported as an alter, not drop+add.
	ops := DiffColumns(old, cur)
	if len(ops) != 1 || ops[0].Kind != schema.OpAlterColumn {
		t.Fatalf("ops = %v", ops)
	}
}

// applyOps replays a diff against a column list, mirroring what the live
// database would do.
func applyOps(cols []*schema.Column, ops []schema.Operation) []*schema.Column {
	out := make([]*schema.Column, 0, len(cols))
	for _, c := range cols {
		out = append(out, c.Clone())
	}
	for _, op := range ops {
		switch op.Kind {
		case schema.OpDropColumn:
			kept := out[:0]
			for _, c := range out {
				if c.Name != op.ColumnName() {
					kept = append(kept, c)
				}
			}
			out = kept
		case schema.OpAddColumn:
			out = append(out, op.Column.Clone())
		case schema.OpAlterColumn:
			for _, c := range out {
				if c.Name == op.Alter.Column {
					c.Type = op.Alter.To.Type
					c.Nullable = op.Alter.To.Nullable
					c.Default = op.Alter.To.Default
				}
			}
		}
	}
	return out
}

func columnsEquivalent(a, b []*schema.Column) bool {
	if len(a) != len(b) {
		return false
	}
	byName := make(map[string]*schema.Column, len(a))
	for _, c := range a {
		byName[c.Name] = c
	}
	for _, c := range b {
		other, ok := byName[c.Name]
		if !ok {
			return false
		}
		if other.Type != c.Type || other.Nullable != c.Nullable {
			return false
		}
	}
	return true
}

func TestDiffAppliedToSnapshotYieldsCurrent(t *testing.T) {
	old := []*schema.Column{
		schema.PrimaryKeyColumn(),
		schema.StringColumn("legacy"),
		schema.IntColumn("count"),
		schema.StringColumn("name"),
	}
	cur := []*schema.Column{
		schema.PrimaryKeyColumn(),
		schema.BigIntColumn("count", schema.Nullable()),
		schema.StringColumn("name"),
		schema.BoolColumn("enabled", schema.Default(false)),
	}

	got := applyOps(old, DiffColumns(old, cur))
	if !columnsEquivalent(got, cur) {
		t.Fatalf("applied diff = %+v, want %+v", got, cur)
	}

	// And the stored downgrade list takes it back.
	back := applyOps(got, schema.InvertAll(DiffColumns(old, cur)))
	if !columnsEquivalent(back, old) {
		t.Fatalf("reverted diff = %+v, want %+v", back, old)
	}
}
