package dialect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/firesidehq/driftwood/internal/dwerr"
	"github.com/firesidehq/driftwood/internal/schema"
)

// sqlite implements the Dialect interface for SQLite.
type sqlite struct{}

// SQLite returns the SQLite dialect implementation.
func SQLite() Dialect {
	return &sqlite{}
}

func (d *sqlite) Name() string {
	return "sqlite"
}

func (d *sqlite) QuoteIdent(name string) string {
	return quoteDouble(name)
}

func (d *sqlite) Placeholder(index int) string {
	return "?"
}

func (d *sqlite) ColumnType(t schema.Type) string {
	switch t {
	case schema.Integer, schema.BigInt, schema.Serial:
		return "INTEGER"
	case schema.String:
		return "TEXT"
	case schema.Boolean:
		// SQLite has no boolean type; stored as 0/1.
		return "INTEGER"
	default:
		return ""
	}
}

func (d *sqlite) DefaultLiteral(v any) string {
	switch val := v.(type) {
	case bool:
		if val {
			return "1"
		}
		return "0"
	case int64:
		return strconv.FormatInt(val, 10)
	case string:
		return quoteString(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func (d *sqlite) SupportsTransactionalDDL() bool {
	return true
}

func (d *sqlite) CreateTableSQL(table string, cols []*schema.Column) (string, error) {
	return buildCreateTableSQL(table, cols, d.QuoteIdent, d.columnDefSQL)
}

func (d *sqlite) DropTableSQL(table string) string {
	return "DROP TABLE " + d.QuoteIdent(table)
}

func (d *sqlite) TableExistsSQL() string {
	return "SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?)"
}

func (d *sqlite) AddColumnSQL(table string, col *schema.Column) (string, error) {
	def, err := d.columnDefSQL(col)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", d.QuoteIdent(table), def), nil
}

func (d *sqlite) DropColumnSQL(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", d.QuoteIdent(table), d.QuoteIdent(column))
}

// AlterColumnSQL always fails: SQLite has no in-place ALTER COLUMN. Altering a
// column requires a table rebuild, which this engine does not attempt.
func (d *sqlite) AlterColumnSQL(table string, alter *schema.Alter) ([]string, error) {
	return nil, dwerr.New(dwerr.ErrStatement, "sqlite does not support altering columns in place").
		WithTable(table).
		WithColumn(alter.Column)
}

// columnDefSQL generates the SQL for a single column definition. A serial
// primary key becomes INTEGER PRIMARY KEY AUTOINCREMENT, SQLite's rowid alias.
func (d *sqlite) columnDefSQL(col *schema.Column) (string, error) {
	sqlType := d.ColumnType(col.Type)
	if sqlType == "" {
		return "", dwerr.Newf(dwerr.ErrStatement, "unsupported column type %q", col.Type).
			WithColumn(col.Name)
	}

	var b strings.Builder
	b.WriteString(d.QuoteIdent(col.Name))
	b.WriteString(" ")
	b.WriteString(sqlType)
	if col.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
		if col.Type == schema.Serial {
			b.WriteString(" AUTOINCREMENT")
		}
	} else if !col.Nullable {
		b.WriteString(" NOT NULL")
	}
	if col.HasDefault() {
		b.WriteString(" DEFAULT ")
		b.WriteString(d.DefaultLiteral(col.Default))
	}
	return b.String(), nil
}
