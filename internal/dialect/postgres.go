package dialect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/firesidehq/driftwood/internal/dwerr"
	"github.com/firesidehq/driftwood/internal/schema"
)

// postgres implements the Dialect interface for PostgreSQL.
type postgres struct{}

// Postgres returns the PostgreSQL dialect implementation.
func Postgres() Dialect {
	return &postgres{}
}

func (d *postgres) Name() string {
	return "postgres"
}

func (d *postgres) QuoteIdent(name string) string {
	return quoteDouble(name)
}

func (d *postgres) Placeholder(index int) string {
	return "$" + strconv.Itoa(index)
}

func (d *postgres) ColumnType(t schema.Type) string {
	switch t {
	case schema.Integer:
		return "INTEGER"
	case schema.BigInt:
		return "BIGINT"
	case schema.String:
		return "TEXT"
	case schema.Boolean:
		return "BOOLEAN"
	case schema.Serial:
		return "SERIAL"
	default:
		return ""
	}
}

func (d *postgres) DefaultLiteral(v any) string {
	switch val := v.(type) {
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case int64:
		return strconv.FormatInt(val, 10)
	case string:
		return quoteString(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func (d *postgres) SupportsTransactionalDDL() bool {
	return true
}

func (d *postgres) CreateTableSQL(table string, cols []*schema.Column) (string, error) {
	return buildCreateTableSQL(table, cols, d.QuoteIdent, d.columnDefSQL)
}

func (d *postgres) DropTableSQL(table string) string {
	return "DROP TABLE " + d.QuoteIdent(table)
}

func (d *postgres) TableExistsSQL() string {
	// current_schema() follows the connection's search_path, so tests that
	// isolate themselves in a scratch schema see only their own tables.
	return "SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1)"
}

func (d *postgres) AddColumnSQL(table string, col *schema.Column) (string, error) {
	def, err := d.columnDefSQL(col)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", d.QuoteIdent(table), def), nil
}

func (d *postgres) DropColumnSQL(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", d.QuoteIdent(table), d.QuoteIdent(column))
}

// AlterColumnSQL emits one statement per changed aspect: type, nullability,
// then default. The applier runs them in order inside its transaction.
func (d *postgres) AlterColumnSQL(table string, alter *schema.Alter) ([]string, error) {
	tbl := d.QuoteIdent(table)
	col := d.QuoteIdent(alter.Column)

	var statements []string

	if alter.From.Type != alter.To.Type {
		sqlType := d.ColumnType(alter.To.Type)
		if sqlType == "" || alter.To.Type == schema.Serial {
			return nil, dwerr.Newf(dwerr.ErrStatement, "cannot alter column to type %s", alter.To.Type).
				WithTable(table).
				WithColumn(alter.Column)
		}
		statements = append(statements,
			fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s USING %s::%s", tbl, col, sqlType, col, sqlType))
	}

	if alter.From.Nullable != alter.To.Nullable {
		if alter.To.Nullable {
			statements = append(statements,
				fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP NOT NULL", tbl, col))
		} else {
			statements = append(statements,
				fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET NOT NULL", tbl, col))
		}
	}

	if !defaultsMatch(alter.From.Default, alter.To.Default) {
		if alter.To.Default == nil {
			statements = append(statements,
				fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT", tbl, col))
		} else {
			statements = append(statements,
				fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s", tbl, col, d.DefaultLiteral(alter.To.Default)))
		}
	}

	return statements, nil
}

// columnDefSQL generates the SQL for a single column definition.
func (d *postgres) columnDefSQL(col *schema.Column) (string, error) {
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
	} else if !col.Nullable {
		b.WriteString(" NOT NULL")
	}
	if col.HasDefault() {
		b.WriteString(" DEFAULT ")
		b.WriteString(d.DefaultLiteral(col.Default))
	}
	return b.String(), nil
}

// defaultsMatch compares two normalized default values, treating nil as
// "no default".
func defaultsMatch(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b
}
