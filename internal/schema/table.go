package schema

import (
	"github.com/firesidehq/driftwood/internal/dwerr"
	"github.com/firesidehq/driftwood/internal/strutil"
)

// Table is an immutable, named, ordered set of column descriptors — the
// desired schema shape. Tables are built once via New when declarations load
// and are read-only thereafter.
type Table struct {
	Name    string
	Columns []*Column

	pk *Column
}

// New builds and validates a table descriptor from an explicit ordered column
// list. Exactly one column must be the primary key; zero or multiple primary
// keys, duplicate or invalid column names, and type-mismatched defaults are
// declaration errors surfaced before any database interaction.
func New(name string, cols ...*Column) (*Table, error) {
	if name == "" {
		return nil, dwerr.New(dwerr.ErrDeclInvalid, "table name is required")
	}
	if err := ValidateIdentifier(name); err != nil {
		return nil, dwerr.Wrap(dwerr.ErrDeclInvalid, err, "invalid table name").
			WithTable(name)
	}
	if len(cols) == 0 {
		return nil, dwerr.New(dwerr.ErrDeclInvalid, "table must have at least one column").
			WithTable(name)
	}

	t := &Table{Name: name, Columns: cols}

	seen := make(map[string]bool, len(cols))
	for _, col := range cols {
		if err := col.Validate(); err != nil {
			return nil, dwerr.Wrap(dwerr.ErrDeclInvalid, err, "invalid column").
				WithTable(name).
				WithColumn(col.Name)
		}
		if seen[col.Name] {
			return nil, dwerr.New(dwerr.ErrDeclDuplicate, "duplicate column name").
				WithTable(name).
				WithColumn(col.Name)
		}
		seen[col.Name] = true

		if col.PrimaryKey {
			if t.pk != nil {
				return nil, dwerr.New(dwerr.ErrDeclNoPK, "table declares more than one primary key").
					WithTable(name).
					WithColumn(col.Name)
			}
			t.pk = col
		}
	}

	if t.pk == nil {
		return nil, dwerr.New(dwerr.ErrDeclNoPK, "table declares no primary key").
			WithTable(name)
	}

	return t, nil
}

// DeriveName converts a Go type name to its table name, e.g.
// "GuildConfig" -> "guild_config". Callers that declare tables from struct
// types use this instead of spelling the name twice.
func DeriveName(goName string) string {
	return strutil.ToSnakeCase(goName)
}

// PrimaryKey returns the table's primary key column.
func (t *Table) PrimaryKey() *Column {
	return t.pk
}

// Column returns the column with the given name, or nil if not declared.
func (t *Table) Column(name string) *Column {
	for _, col := range t.Columns {
		if col.Name == name {
			return col
		}
	}
	return nil
}

// HasColumn reports whether the table declares a column with the given name.
func (t *Table) HasColumn(name string) bool {
	return t.Column(name) != nil
}

// Snapshot returns a deep copy of the table's column list, suitable for
// recording in migration history.
func (t *Table) Snapshot() []*Column {
	cols := make([]*Column, len(t.Columns))
	for i, col := range t.Columns {
		cols[i] = col.Clone()
	}
	return cols
}
