// Package dwerr provides standardized error handling for driftwood.
// All errors carry stable, machine-readable codes and structured context.
package dwerr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Code is a stable, machine-readable error code.
// Format: E{category}{number} where category maps to the error taxonomy.
type Code string

const (
	// Declaration errors (E1xxx) - a table descriptor is malformed.
	// These are fatal at declaration time, before any database interaction.
	ErrDeclInvalid   Code = "E1001" // column or table definition is malformed
	ErrDeclNoPK      Code = "E1002" // table does not declare exactly one primary key
	ErrDeclDuplicate Code = "E1003" // duplicate table or column name
	ErrDeclNotFound  Code = "E1004" // referenced table is not registered

	// Connectivity errors (E2xxx) - the pool cannot be established.
	ErrConnection Code = "E2001" // database unreachable or credentials invalid

	// Migration errors (E3xxx) - problems generating or applying steps.
	ErrNoBaseline     Code = "E3001" // write-migration on a table never created
	ErrTarget         Code = "E3002" // migrate target outside [0, highest recorded]
	ErrMigration      Code = "E3003" // a migration operation failed mid-apply
	ErrTableMissing   Code = "E3004" // drop on a table that does not exist
	ErrHistoryCorrupt Code = "E3005" // recorded history cannot be decoded or is out of order

	// SQL errors (E4xxx) - statement or transaction failures.
	ErrStatement   Code = "E4001" // SQL statement failed to execute
	ErrTransaction Code = "E4002" // transaction begin/commit/rollback failed
)

// Error is the standard error type for driftwood.
type Error struct {
	code    Code
	message string
	context map[string]any
	cause   error
}

// Error formats the code, message, sorted context, and cause:
//
//	[E3002] migration target is unreachable
//	  table: widgets
//	  target: 7
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.code, e.message)

	if len(e.context) > 0 {
		keys := make([]string, 0, len(e.context))
		for k := range e.context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "\n  %s: %v", k, e.context[k])
		}
	}

	if e.cause != nil {
		fmt.Fprintf(&b, "\n  cause: %v", e.cause)
	}
	return b.String()
}

// Unwrap returns the wrapped cause for errors.Unwrap compatibility.
func (e *Error) Unwrap() error { return e.cause }

// Is matches two *Error values by code.
func (e *Error) Is(target error) bool {
	var te *Error
	if errors.As(target, &te) {
		return e.code == te.code
	}
	return false
}

// GetCode returns the error code.
func (e *Error) GetCode() Code { return e.code }

// GetMessage returns the human-readable message without context.
func (e *Error) GetMessage() string { return e.message }

// Context returns the structured context map.
func (e *Error) Context() map[string]any { return e.context }

// With adds a key-value pair to the error context and returns the error
// for chaining.
func (e *Error) With(key string, value any) *Error {
	if e.context == nil {
		e.context = make(map[string]any)
	}
	e.context[key] = value
	return e
}

// WithTable adds the failing table's name to the context.
func (e *Error) WithTable(name string) *Error {
	return e.With("table", name)
}

// WithColumn adds column context to the error.
func (e *Error) WithColumn(name string) *Error {
	return e.With("column", name)
}

// WithSQL adds the failing SQL statement to the context.
func (e *Error) WithSQL(sql string) *Error {
	return e.With("sql", sql)
}

// New creates a new Error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{
		code:    code,
		message: msg,
		context: make(map[string]any),
	}
}

// Newf creates a new Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates a new Error wrapping an underlying cause.
func Wrap(code Code, err error, msg string) *Error {
	if err == nil {
		return New(code, msg)
	}
	return &Error{
		code:    code,
		message: msg,
		context: make(map[string]any),
		cause:   err,
	}
}

// GetErrorCode extracts the code from an error chain, or "" if none.
func GetErrorCode(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return ""
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	return GetErrorCode(err) == code
}
