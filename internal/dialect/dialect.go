// Package dialect provides database-specific SQL generation.
// Each dialect implements the column type mapping, identifier quoting,
// and the DDL statements the migration applier replays.
package dialect

import (
	"strings"

	"github.com/firesidehq/driftwood/internal/schema"
)

// Dialect defines the interface for database-specific SQL generation.
// Implementations exist for PostgreSQL and SQLite.
type Dialect interface {
	// Name returns the dialect name (postgres, sqlite).
	Name() string

	// QuoteIdent quotes a table or column name for the dialect.
	QuoteIdent(name string) string

	// Placeholder returns a parameter placeholder for the given index (1-based).
	// PostgreSQL: $1, $2, ...
	// SQLite: ?, ?, ...
	Placeholder(index int) string

	// ColumnType maps a declared column type to its SQL type.
	ColumnType(t schema.Type) string

	// DefaultLiteral renders a normalized default value as a SQL literal.
	DefaultLiteral(v any) string

	// SupportsTransactionalDDL reports whether DDL statements take effect
	// inside a transaction and roll back with it.
	SupportsTransactionalDDL() bool

	// CreateTableSQL generates a CREATE TABLE IF NOT EXISTS statement for the
	// full column list.
	CreateTableSQL(table string, cols []*schema.Column) (string, error)

	// DropTableSQL generates a DROP TABLE statement. The statement does not
	// carry IF EXISTS; the caller decides whether a missing table is an error.
	DropTableSQL(table string) string

	// TableExistsSQL generates a single-parameter existence query that scans
	// into a bool.
	TableExistsSQL() string

	// AddColumnSQL generates an ALTER TABLE ADD COLUMN statement.
	AddColumnSQL(table string, col *schema.Column) (string, error)

	// DropColumnSQL generates an ALTER TABLE DROP COLUMN statement.
	DropColumnSQL(table, column string) string

	// AlterColumnSQL generates the statements that move a column from one
	// shape to another. Dialects without in-place column alteration return an
	// error instead.
	AlterColumnSQL(table string, alter *schema.Alter) ([]string, error)
}

// Get returns the dialect implementation for the given name.
// Valid names: "postgres", "postgresql", "sqlite", "sqlite3".
// Returns nil if the dialect is not supported.
func Get(name string) Dialect {
	switch name {
	case "postgres", "postgresql":
		return Postgres()
	case "sqlite", "sqlite3":
		return SQLite()
	default:
		return nil
	}
}

// Names returns the list of supported dialect names.
func Names() []string {
	return []string{"postgres", "sqlite"}
}

// quoteDouble implements standard SQL double-quote identifier quoting,
// shared by both dialects.
func quoteDouble(name string) string {
	escaped := strings.ReplaceAll(name, `"`, `""`)
	return `"` + escaped + `"`
}

// quoteString renders a single-quoted SQL string literal.
func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// buildCreateTableSQL assembles a CREATE TABLE IF NOT EXISTS statement from
// per-dialect column definitions.
func buildCreateTableSQL(table string, cols []*schema.Column, quote func(string) string, columnDef func(*schema.Column) (string, error)) (string, error) {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(quote(table))
	b.WriteString(" (")
	for i, col := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		def, err := columnDef(col)
		if err != nil {
			return "", err
		}
		b.WriteString(def)
	}
	b.WriteString(")")
	return b.String(), nil
}
