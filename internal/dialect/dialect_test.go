package dialect

import (
	"strings"
	"testing"

	"github.com/firesidehq/driftwood/internal/dwerr"
	"github.com/firesidehq/driftwood/internal/schema"
)

func widgetColumns() []*schema.Column {
	return []*schema.Column{
		schema.PrimaryKeyColumn(),
		schema.StringColumn("name"),
		schema.BoolColumn("enabled", schema.Default(false)),
		schema.BigIntColumn("owner_id", schema.Nullable()),
	}
}

func TestGet(t *testing.T) {
	tests := []struct{ in, want string }{
		{"postgres", "postgres"},
		{"postgresql", "postgres"},
		{"sqlite", "sqlite"},
		{"sqlite3", "sqlite"},
	}
	for _, tt := range tests {
		d := Get(tt.in)
		if d == nil || d.Name() != tt.want {
			t.Errorf("Get(%q) = %v", tt.in, d)
		}
	}
	if Get("mysql") != nil {
		t.Error("Get(mysql) should be nil")
	}
}

func TestPostgresCreateTableSQL(t *testing.T) {
	d := Postgres()
	got, err := d.CreateTableSQL("widgets", widgetColumns())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `CREATE TABLE IF NOT EXISTS "widgets" ("id" SERIAL PRIMARY KEY, "name" TEXT NOT NULL, "enabled" BOOLEAN NOT NULL DEFAULT FALSE, "owner_id" BIGINT)`
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestSQLiteCreateTableSQL(t *testing.T) {
	d := SQLite()
	got, err := d.CreateTableSQL("widgets", widgetColumns())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `CREATE TABLE IF NOT EXISTS "widgets" ("id" INTEGER PRIMARY KEY AUTOINCREMENT, "name" TEXT NOT NULL, "enabled" INTEGER NOT NULL DEFAULT 0, "owner_id" INTEGER)`
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestAddDropColumnSQL(t *testing.T) {
	for _, d := range []Dialect{Postgres(), SQLite()} {
		t.Run(d.Name(), func(t *testing.T) {
			add, err := d.AddColumnSQL("widgets", schema.StringColumn("label", schema.Default("none")))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.HasPrefix(add, `ALTER TABLE "widgets" ADD COLUMN "label" TEXT NOT NULL DEFAULT 'none'`) {
				t.Fatalf("add = %s", add)
			}

			drop := d.DropColumnSQL("widgets", "label")
			if drop != `ALTER TABLE "widgets" DROP COLUMN "label"` {
				t.Fatalf("drop = %s", drop)
			}
		})
	}
}

func TestPostgresAlterColumnSQL(t *testing.T) {
	d := Postgres()
	stmts, err := d.AlterColumnSQL("widgets", &schema.Alter{
		Column: "count",
		From:   schema.ColumnState{Type: schema.Integer, Default: int64(1)},
		To:     schema.ColumnState{Type: schema.BigInt, Nullable: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		`ALTER TABLE "widgets" ALTER COLUMN "count" TYPE BIGINT USING "count"::BIGINT`,
		`ALTER TABLE "widgets" ALTER COLUMN "count" DROP NOT NULL`,
		`ALTER TABLE "widgets" ALTER COLUMN "count" DROP DEFAULT`,
	}
	if len(stmts) != len(want) {
		t.Fatalf("stmts = %v", stmts)
	}
	for i := range want {
		if stmts[i] != want[i] {
			t.Errorf("stmt %d:\ngot  %s\nwant %s", i, stmts[i], want[i])
		}
	}
}

func TestPostgresAlterColumnSetDefault(t *testing.T) {
	d := Postgres()
	stmts, err := d.AlterColumnSQL("widgets", &schema.Alter{
		Column: "enabled",
		From:   schema.ColumnState{Type: schema.Boolean},
		To:     schema.ColumnState{Type: schema.Boolean, Default: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmts) != 1 || stmts[0] != `ALTER TABLE "widgets" ALTER COLUMN "enabled" SET DEFAULT TRUE` {
		t.Fatalf("stmts = %v", stmts)
	}
}

func TestSQLiteRejectsAlterColumn(t *testing.T) {
	d := SQLite()
	_, err := d.AlterColumnSQL("widgets", &schema.Alter{
		Column: "count",
		From:   schema.ColumnState{Type: schema.Integer},
		To:     schema.ColumnState{Type: schema.BigInt},
	})
	if !dwerr.Is(err, dwerr.ErrStatement) {
		t.Fatalf("expected statement error, got %v", err)
	}
}

func TestPlaceholders(t *testing.T) {
	if got := Postgres().Placeholder(2); got != "$2" {
		t.Errorf("postgres placeholder = %s", got)
	}
	if got := SQLite().Placeholder(2); got != "?" {
		t.Errorf("sqlite placeholder = %s", got)
	}
}

func TestQuoteIdentEscapesQuotes(t *testing.T) {
	if got := Postgres().QuoteIdent(`wid"gets`); got != `"wid""gets"` {
		t.Errorf("quoted = %s", got)
	}
}
