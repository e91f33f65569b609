package schema

import (
	"encoding/json"
	"fmt"

	"github.com/firesidehq/driftwood/internal/dwerr"
)

// OpKind identifies a column-level schema operation.
type OpKind string

const (
	// OpAddColumn adds a new column to an existing table.
	OpAddColumn OpKind = "add_column"

	// OpDropColumn removes a column from an existing table.
	OpDropColumn OpKind = "drop_column"

	// OpAlterColumn changes a column's type, nullability, or default.
	OpAlterColumn OpKind = "alter_column"
)

// ColumnState captures the mutable shape of a column on one side of an
// alteration. Both sides are recorded so the operation inverts structurally.
type ColumnState struct {
	Type     Type `json:"type"`
	Nullable bool `json:"nullable,omitempty"`
	Default  any  `json:"default,omitempty"`
}

// StateOf extracts the alterable state from a column descriptor.
func StateOf(c *Column) ColumnState {
	return ColumnState{Type: c.Type, Nullable: c.Nullable, Default: c.Default}
}

// Equal reports whether two states describe the same column shape.
func (s ColumnState) Equal(other ColumnState) bool {
	return s.Type == other.Type &&
		s.Nullable == other.Nullable &&
		defaultsEqual(s.Default, other.Default)
}

// UnmarshalJSON decodes a state, normalizing the default value for its type.
func (s *ColumnState) UnmarshalJSON(data []byte) error {
	type alias ColumnState
	aux := struct {
		*alias
		Default json.RawMessage `json:"default"`
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Default) > 0 && string(aux.Default) != "null" {
		var raw any
		if err := json.Unmarshal(aux.Default, &raw); err != nil {
			return err
		}
		v, err := normalizeDefault(s.Type, raw)
		if err != nil {
			return dwerr.Wrap(dwerr.ErrHistoryCorrupt, err, "recorded default does not match column type")
		}
		s.Default = v
	}
	return nil
}

// Alter records a column change with both the previous and the desired state,
// keyed by column name.
type Alter struct {
	Column string      `json:"column"`
	From   ColumnState `json:"from"`
	To     ColumnState `json:"to"`
}

// Operation is a single atomic column change recorded in a migration step.
// Add and drop operations carry the full column descriptor — a drop keeps the
// definition so its inverse can re-add the column; alterations carry both
// states so the inverse is a field swap. Operations serialize to JSON and are
// replayed deterministically by the applier.
type Operation struct {
	Kind   OpKind  `json:"kind"`
	Column *Column `json:"column,omitempty"`
	Alter  *Alter  `json:"alter,omitempty"`
}

// AddColumn builds an add-column operation.
func AddColumn(col *Column) Operation {
	return Operation{Kind: OpAddColumn, Column: col.Clone()}
}

// DropColumn builds a drop-column operation. The full descriptor is retained
// so the operation can be inverted.
func DropColumn(col *Column) Operation {
	return Operation{Kind: OpDropColumn, Column: col.Clone()}
}

// AlterColumn builds an alter-column operation from the previous and desired
// column shapes.
func AlterColumn(name string, from, to ColumnState) Operation {
	return Operation{Kind: OpAlterColumn, Alter: &Alter{Column: name, From: from, To: to}}
}

// ColumnName returns the name of the column the operation targets.
func (op Operation) ColumnName() string {
	switch op.Kind {
	case OpAddColumn, OpDropColumn:
		if op.Column != nil {
			return op.Column.Name
		}
	case OpAlterColumn:
		if op.Alter != nil {
			return op.Alter.Column
		}
	}
	return ""
}

// String returns a short operator-facing description, e.g. "add column enabled".
func (op Operation) String() string {
	switch op.Kind {
	case OpAddColumn:
		return fmt.Sprintf("add column %s", op.ColumnName())
	case OpDropColumn:
		return fmt.Sprintf("drop column %s", op.ColumnName())
	case OpAlterColumn:
		return fmt.Sprintf("alter column %s", op.ColumnName())
	default:
		return string(op.Kind)
	}
}

// Invert returns the exact structural inverse of the operation: add becomes
// drop, drop becomes add, and an alteration swaps its states.
func (op Operation) Invert() Operation {
	switch op.Kind {
	case OpAddColumn:
		return Operation{Kind: OpDropColumn, Column: op.Column}
	case OpDropColumn:
		return Operation{Kind: OpAddColumn, Column: op.Column}
	case OpAlterColumn:
		return Operation{Kind: OpAlterColumn, Alter: &Alter{
			Column: op.Alter.Column,
			From:   op.Alter.To,
			To:     op.Alter.From,
		}}
	default:
		return op
	}
}

// Validate checks that the operation is well-formed.
func (op Operation) Validate() error {
	switch op.Kind {
	case OpAddColumn, OpDropColumn:
		if op.Column == nil {
			return dwerr.Newf(dwerr.ErrDeclInvalid, "%s operation requires a column definition", op.Kind)
		}
		return op.Column.Validate()
	case OpAlterColumn:
		if op.Alter == nil {
			return dwerr.New(dwerr.ErrDeclInvalid, "alter operation requires from/to states")
		}
		if op.Alter.Column == "" {
			return dwerr.New(dwerr.ErrDeclInvalid, "alter operation requires a column name")
		}
		if op.Alter.From.Equal(op.Alter.To) {
			return dwerr.New(dwerr.ErrDeclInvalid, "alter operation must change the column").
				WithColumn(op.Alter.Column)
		}
		return nil
	default:
		return dwerr.Newf(dwerr.ErrDeclInvalid, "unknown operation kind %q", op.Kind)
	}
}

// InvertAll returns the inverses of ops in reverse order — the downgrade list
// for a migration step, stored front-to-back so the applier replays it as-is.
func InvertAll(ops []Operation) []Operation {
	out := make([]Operation, len(ops))
	for i, op := range ops {
		out[len(ops)-1-i] = op.Invert()
	}
	return out
}
