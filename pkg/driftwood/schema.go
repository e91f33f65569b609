package driftwood

import (
	"github.com/firesidehq/driftwood/internal/engine"
	"github.com/firesidehq/driftwood/internal/schema"
)

// Table and Column alias the engine's schema model so embedding applications
// can declare tables without importing internal packages.
type (
	Table        = schema.Table
	Column       = schema.Column
	Type         = schema.Type
	ColumnOption = schema.ColumnOption
)

// Column types.
const (
	Integer = schema.Integer
	BigInt  = schema.BigInt
	String  = schema.String
	Boolean = schema.Boolean
	Serial  = schema.Serial
)

// Table and column builders.
var (
	// NewTable builds a validated table declaration from an ordered column
	// list. Exactly one column must be the primary key.
	NewTable = schema.New

	// DeriveTableName converts a Go type name to a table name, e.g.
	// "GuildConfig" -> "guild_config".
	DeriveTableName = schema.DeriveName

	// NewColumn builds a column of an explicit type.
	NewColumn = schema.NewColumn

	// IntColumn, BigIntColumn, StringColumn, BoolColumn, and SerialColumn
	// build typed columns; PrimaryKeyColumn is the conventional serial "id"
	// primary key.
	IntColumn        = schema.IntColumn
	BigIntColumn     = schema.BigIntColumn
	StringColumn     = schema.StringColumn
	BoolColumn       = schema.BoolColumn
	SerialColumn     = schema.SerialColumn
	PrimaryKeyColumn = schema.PrimaryKeyColumn

	// Nullable, Default, and PrimaryKey are column declaration options.
	Nullable   = schema.Nullable
	Default    = schema.Default
	PrimaryKey = schema.PrimaryKey
)

// Result is the per-table report of a bulk operation.
type Result = engine.Result

// TableStatus summarizes one registered table for status reporting.
type TableStatus = engine.TableStatus
