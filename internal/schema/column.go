// Package schema defines the declarative vocabulary for database tables:
// typed column descriptors, table descriptors built from them, and the
// structured column operations recorded in migration history.
package schema

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/firesidehq/driftwood/internal/dwerr"
)

// Type is the semantic type of a column.
type Type int

const (
	// Integer is a 32-bit integer.
	Integer Type = iota

	// BigInt is the wide 64-bit integer variant, used for externally-sourced
	// identifiers that do not fit in 32 bits.
	BigInt

	// String is an unbounded text column.
	String

	// Boolean is a true/false column.
	Boolean

	// Serial is an auto-incrementing integer, typically a surrogate primary key.
	Serial
)

var typeNames = map[Type]string{
	Integer: "integer",
	BigInt:  "bigint",
	String:  "string",
	Boolean: "boolean",
	Serial:  "serial",
}

// String returns the lowercase type name used in schema files and history.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseType resolves a type name from a schema file or history record.
func ParseType(name string) (Type, error) {
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, dwerr.Newf(dwerr.ErrDeclInvalid, "unknown column type %q", name)
}

// MarshalJSON encodes the type as its lowercase name.
func (t Type) MarshalJSON() ([]byte, error) {
	name, ok := typeNames[t]
	if !ok {
		return nil, dwerr.Newf(dwerr.ErrDeclInvalid, "unknown column type %d", int(t))
	}
	return json.Marshal(name)
}

// UnmarshalJSON decodes a type from its lowercase name.
func (t *Type) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseType(name)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// validIdentifierPattern matches safe SQL identifiers (lowercase snake_case).
var validIdentifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidateIdentifier checks that a name is a safe SQL identifier.
func ValidateIdentifier(name string) error {
	if !validIdentifierPattern.MatchString(name) {
		return dwerr.Newf(dwerr.ErrDeclInvalid,
			"invalid identifier %q; must match [a-z_][a-z0-9_]*", name)
	}
	return nil
}

// Column is an immutable descriptor for a single table attribute.
// Columns exist only as part of a Table and are never mutated after
// declaration; history snapshots store full copies.
type Column struct {
	Name       string `json:"name"`
	Type       Type   `json:"type"`
	Nullable   bool   `json:"nullable,omitempty"`
	Default    any    `json:"default,omitempty"`
	PrimaryKey bool   `json:"primary_key,omitempty"`
}

// ColumnOption configures a column at construction time.
type ColumnOption func(*Column)

// Nullable marks the column as allowing NULL (columns are NOT NULL by default).
func Nullable() ColumnOption {
	return func(c *Column) { c.Nullable = true }
}

// Default sets the column's default value for new rows. The value must match
// the column's type; Validate rejects mismatches at declaration time.
func Default(v any) ColumnOption {
	return func(c *Column) { c.Default = v }
}

// PrimaryKey marks the column as the table's primary key.
func PrimaryKey() ColumnOption {
	return func(c *Column) { c.PrimaryKey = true }
}

// NewColumn builds a column of the given type with options applied.
// The default value, if any, is normalized to its canonical Go representation
// (int64 for integer types, string, bool) so history round-trips compare equal.
func NewColumn(name string, t Type, opts ...ColumnOption) *Column {
	c := &Column{Name: name, Type: t}
	for _, opt := range opts {
		opt(c)
	}
	if c.Default != nil {
		if v, err := normalizeDefault(t, c.Default); err == nil {
			c.Default = v
		}
		// A mismatched default is left as-is and rejected by Validate.
	}
	return c
}

// IntColumn declares a 32-bit integer column.
func IntColumn(name string, opts ...ColumnOption) *Column {
	return NewColumn(name, Integer, opts...)
}

// BigIntColumn declares a wide 64-bit integer column, for identifiers
// assigned by external systems.
func BigIntColumn(name string, opts ...ColumnOption) *Column {
	return NewColumn(name, BigInt, opts...)
}

// StringColumn declares a text column.
func StringColumn(name string, opts ...ColumnOption) *Column {
	return NewColumn(name, String, opts...)
}

// BoolColumn declares a boolean column.
func BoolColumn(name string, opts ...ColumnOption) *Column {
	return NewColumn(name, Boolean, opts...)
}

// SerialColumn declares an auto-incrementing integer column.
func SerialColumn(name string, opts ...ColumnOption) *Column {
	return NewColumn(name, Serial, opts...)
}

// PrimaryKeyColumn declares the conventional auto-incrementing "id" primary key.
func PrimaryKeyColumn() *Column {
	return NewColumn("id", Serial, PrimaryKey())
}

// Validate checks that the column declaration is well-formed.
func (c *Column) Validate() error {
	if c.Name == "" {
		return dwerr.New(dwerr.ErrDeclInvalid, "column name is required")
	}
	if err := ValidateIdentifier(c.Name); err != nil {
		return err
	}
	if _, ok := typeNames[c.Type]; !ok {
		return dwerr.Newf(dwerr.ErrDeclInvalid, "unknown column type %d", int(c.Type)).
			WithColumn(c.Name)
	}
	if c.Default != nil {
		if _, err := normalizeDefault(c.Type, c.Default); err != nil {
			return dwerr.Wrap(dwerr.ErrDeclInvalid, err, "default value does not match column type").
				WithColumn(c.Name).
				With("type", c.Type.String())
		}
		if c.Type == Serial {
			return dwerr.New(dwerr.ErrDeclInvalid, "serial columns cannot declare a default").
				WithColumn(c.Name)
		}
	}
	return nil
}

// HasDefault reports whether the column declares a default value.
func (c *Column) HasDefault() bool {
	return c.Default != nil
}

// Clone returns a copy of the column. Defaults are canonical scalars, so a
// shallow copy is a full copy.
func (c *Column) Clone() *Column {
	cp := *c
	return &cp
}

// Equal reports whether two columns declare the same shape: name, type,
// nullability, and default.
func (c *Column) Equal(other *Column) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Name == other.Name &&
		c.Type == other.Type &&
		c.Nullable == other.Nullable &&
		c.PrimaryKey == other.PrimaryKey &&
		defaultsEqual(c.Default, other.Default)
}

// defaultsEqual compares normalized default values.
func defaultsEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a == b
}

// normalizeDefault converts a declared default to its canonical Go
// representation for the column type. Integer types normalize to int64 so
// values survive a JSON round-trip through history unchanged.
func normalizeDefault(t Type, v any) (any, error) {
	switch t {
	case Integer, BigInt, Serial:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case int64:
			return n, nil
		case float64:
			// JSON numbers decode as float64; accept exact integers only.
			if n == float64(int64(n)) {
				return int64(n), nil
			}
		}
	case String:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case Boolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	}
	return nil, fmt.Errorf("value %v (%T) is not valid for %s", v, v, t)
}

// UnmarshalJSON decodes a column, normalizing the default value to the
// canonical representation for the column's type.
func (c *Column) UnmarshalJSON(data []byte) error {
	type alias Column
	aux := struct {
		*alias
		Default json.RawMessage `json:"default"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Default) > 0 && string(aux.Default) != "null" {
		var raw any
		if err := json.Unmarshal(aux.Default, &raw); err != nil {
			return err
		}
		v, err := normalizeDefault(c.Type, raw)
		if err != nil {
			return dwerr.Wrap(dwerr.ErrHistoryCorrupt, err, "recorded default does not match column type").
				WithColumn(c.Name)
		}
		c.Default = v
	}
	return nil
}
