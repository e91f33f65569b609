package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/firesidehq/driftwood/internal/dwerr"
	"github.com/firesidehq/driftwood/internal/schema"
)

func creationStep(t *testing.T) Step {
	t.Helper()
	table, err := schema.New("widgets", schema.PrimaryKeyColumn(), schema.StringColumn("name"))
	if err != nil {
		t.Fatalf("declare: %v", err)
	}
	return Step{Index: 0, Snapshot: table.Snapshot(), CreatedAt: time.Now().UTC()}
}

func TestLoadMissingTableIsEmpty(t *testing.T) {
	store := NewStore(t.TempDir())
	steps, err := store.Load("widgets")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(steps) != 0 {
		t.Fatalf("len = %d", len(steps))
	}
}

func TestAppendAndLoad(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Append("widgets", creationStep(t)); err != nil {
		t.Fatalf("append step 0: %v", err)
	}

	ops := []schema.Operation{schema.AddColumn(schema.BoolColumn("enabled", schema.Default(false)))}
	step1 := Step{
		Index:     1,
		Upgrade:   ops,
		Downgrade: schema.InvertAll(ops),
		Snapshot:  creationStep(t).Snapshot,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.Append("widgets", step1); err != nil {
		t.Fatalf("append step 1: %v", err)
	}

	steps, err := store.Load("widgets")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("len = %d", len(steps))
	}
	if steps[1].Upgrade[0].Kind != schema.OpAddColumn {
		t.Fatalf("upgrade op = %+v", steps[1].Upgrade[0])
	}
	if steps[1].Downgrade[0].Kind != schema.OpDropColumn {
		t.Fatalf("downgrade op = %+v", steps[1].Downgrade[0])
	}

	latest, err := store.Latest("widgets")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.Index != 1 {
		t.Fatalf("latest = %+v", latest)
	}
}

func TestAppendRejectsNonSequentialIndex(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Append("widgets", creationStep(t)); err != nil {
		t.Fatalf("append: %v", err)
	}

	bad := creationStep(t)
	bad.Index = 5
	err := store.Append("widgets", bad)
	if !dwerr.Is(err, dwerr.ErrHistoryCorrupt) {
		t.Fatalf("expected history error, got %v", err)
	}
}

func TestLoadDetectsCorruption(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	if err := os.WriteFile(filepath.Join(dir, "widgets.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := store.Load("widgets"); !dwerr.Is(err, dwerr.ErrHistoryCorrupt) {
		t.Fatalf("expected history error, got %v", err)
	}

	// Valid JSON, broken index sequence.
	doc := `{"table":"gadgets","steps":[{"index":0,"snapshot":[]},{"index":2,"snapshot":[]}]}`
	if err := os.WriteFile(filepath.Join(dir, "gadgets.json"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := store.Load("gadgets"); !dwerr.Is(err, dwerr.ErrHistoryCorrupt) {
		t.Fatalf("expected history error, got %v", err)
	}
}

func TestClear(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Append("widgets", creationStep(t)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Clear("widgets"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	steps, err := store.Load("widgets")
	if err != nil || len(steps) != 0 {
		t.Fatalf("after clear: steps=%d err=%v", len(steps), err)
	}

	// Clearing a table with no history is a no-op.
	if err := store.Clear("widgets"); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestStepSurvivesJSONRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Append("widgets", creationStep(t)); err != nil {
		t.Fatalf("append: %v", err)
	}

	ops := []schema.Operation{
		schema.AddColumn(schema.IntColumn("retries", schema.Default(3))),
		schema.AlterColumn("name",
			schema.ColumnState{Type: schema.String},
			schema.ColumnState{Type: schema.String, Nullable: true},
		),
	}
	step := Step{
		Index:     1,
		Upgrade:   ops,
		Downgrade: schema.InvertAll(ops),
		Snapshot:  creationStep(t).Snapshot,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.Append("widgets", step); err != nil {
		t.Fatalf("append: %v", err)
	}

	steps, err := store.Load("widgets")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := steps[1].Upgrade[0].Column.Default
	if got != int64(3) {
		t.Fatalf("default after round trip = %v (%T)", got, got)
	}
}
