package driftwood

import (
	"os"
	"path/filepath"
	"testing"
)

func widgetsV1(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable("widgets",
		BigIntColumn("id", PrimaryKey()),
		StringColumn("name"),
	)
	if err != nil {
		t.Fatalf("declare widgets: %v", err)
	}
	return table
}

func widgetsV2(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable("widgets",
		BigIntColumn("id", PrimaryKey()),
		StringColumn("name"),
		BoolColumn("enabled", Default(false)),
	)
	if err != nil {
		t.Fatalf("declare widgets v2: %v", err)
	}
	return table
}

// newTestClient opens a client against a file-backed sqlite database so state
// survives across client instances, the way it does across process restarts.
func newTestClient(t *testing.T, dbPath, migrationsDir string) *Client {
	t.Helper()
	client, err := New(
		WithDatabaseURL(dbPath),
		WithMigrationsDir(migrationsDir),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestClientRequiresDatabaseURL(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatal("expected error without database URL")
	}
}

func TestClientLifecycle(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "app.db")
	migrations := filepath.Join(dir, "migrations")

	// First startup: declare v1 and create.
	c1 := newTestClient(t, dbPath, migrations)
	if c1.Dialect() != "sqlite" {
		t.Fatalf("dialect = %q", c1.Dialect())
	}
	if err := c1.Register(widgetsV1(t)); err != nil {
		t.Fatalf("register: %v", err)
	}

	results, err := c1.CreateAll(true)
	if err != nil {
		t.Fatalf("create all: %v", err)
	}
	if len(results) != 1 || results[0].Outcome != "created" {
		t.Fatalf("results = %+v", results)
	}

	// Creating again is a no-op.
	outcome, err := c1.CreateTable("widgets", false)
	if err != nil || outcome != "no work needed" {
		t.Fatalf("second create: outcome=%q err=%v", outcome, err)
	}
	c1.Close()

	// Second startup: declaration gained a column.
	c2 := newTestClient(t, dbPath, migrations)
	if err := c2.Register(widgetsV2(t)); err != nil {
		t.Fatalf("register v2: %v", err)
	}

	outcome, err = c2.WriteMigration("widgets")
	if err != nil || outcome != "migrated" {
		t.Fatalf("write: outcome=%q err=%v", outcome, err)
	}
	outcome, err = c2.MigrateTable("widgets", TargetLatest)
	if err != nil || outcome != "migrated" {
		t.Fatalf("migrate: outcome=%q err=%v", outcome, err)
	}

	var enabled bool
	if _, err := c2.DB().Exec(`INSERT INTO widgets (id, name) VALUES (1, 'a')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := c2.DB().QueryRow(`SELECT enabled FROM widgets WHERE id = 1`).Scan(&enabled); err != nil {
		t.Fatalf("select: %v", err)
	}
	if enabled {
		t.Fatal("enabled should default to false")
	}

	// Roll the step back; the column disappears live.
	outcome, err = c2.RollbackTable("widgets", TargetLatest)
	if err != nil || outcome != "migrated" {
		t.Fatalf("rollback: outcome=%q err=%v", outcome, err)
	}
	if err := c2.DB().QueryRow(`SELECT enabled FROM widgets WHERE id = 1`).Scan(&enabled); err == nil {
		t.Fatal("enabled column should be gone after rollback")
	}

	statuses, err := c2.Status()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(statuses) != 1 || statuses[0].Applied != 0 || statuses[0].Highest != 1 {
		t.Fatalf("statuses = %+v", statuses)
	}

	// Drop clears history with the table.
	outcome, err = c2.DropTable("widgets")
	if err != nil || outcome != "dropped" {
		t.Fatalf("drop: outcome=%q err=%v", outcome, err)
	}
	if _, err := os.Stat(filepath.Join(migrations, "widgets.json")); !os.IsNotExist(err) {
		t.Fatalf("history file should be cleared, stat err = %v", err)
	}
}

func TestClientRegisterDir(t *testing.T) {
	dir := t.TempDir()
	schemas := filepath.Join(dir, "schemas")
	if err := os.MkdirAll(schemas, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	schemaFile := `
table: guilds
columns:
  - name: id
    type: serial
    primary_key: true
  - name: name
    type: string
`
	if err := os.WriteFile(filepath.Join(schemas, "guilds.yaml"), []byte(schemaFile), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}

	client := newTestClient(t, filepath.Join(dir, "app.db"), filepath.Join(dir, "migrations"))
	if err := client.RegisterDir(schemas); err != nil {
		t.Fatalf("register dir: %v", err)
	}
	tables := client.Tables()
	if len(tables) != 1 || tables[0].Name != "guilds" {
		t.Fatalf("tables = %+v", tables)
	}

	results, err := client.CreateAll(false)
	if err != nil {
		t.Fatalf("create all: %v", err)
	}
	if results[0].Outcome != "created" {
		t.Fatalf("results = %+v", results)
	}
}

func TestClientUnknownTable(t *testing.T) {
	dir := t.TempDir()
	client := newTestClient(t, filepath.Join(dir, "app.db"), filepath.Join(dir, "migrations"))

	if _, err := client.CreateTable("missing", false); err == nil {
		t.Fatal("expected error for unregistered table")
	}
	if _, err := client.WriteMigration("missing"); err == nil {
		t.Fatal("expected error for unregistered table")
	}
}
