// Package registry provides the process-wide catalog of declared tables.
// The registry is an explicit object constructed at startup and passed to
// every component that needs enumeration; there is no package-level state,
// so tests can use isolated registries per case.
package registry

import (
	"sync"

	"github.com/firesidehq/driftwood/internal/dwerr"
	"github.com/firesidehq/driftwood/internal/schema"
)

// Registry stores table descriptors in declaration order.
// Bulk operations (create-all, migrate-all, drop-all) iterate in that order
// so batches are deterministic and reproducible run-to-run.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*schema.Table
	order  []*schema.Table
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*schema.Table)}
}

// Register adds a table descriptor exactly once. Registering a second table
// under the same name is a declaration error.
func (r *Registry) Register(t *schema.Table) error {
	if t == nil {
		return dwerr.New(dwerr.ErrDeclInvalid, "table descriptor cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[t.Name]; exists {
		return dwerr.New(dwerr.ErrDeclDuplicate, "table already registered").
			WithTable(t.Name)
	}
	r.byName[t.Name] = t
	r.order = append(r.order, t)
	return nil
}

// Get returns the descriptor registered under name, or a declaration error
// if no such table was declared.
func (r *Registry) Get(name string) (*schema.Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byName[name]
	if !ok {
		return nil, dwerr.New(dwerr.ErrDeclNotFound, "table is not registered").
			WithTable(name)
	}
	return t, nil
}

// All returns every registered descriptor in declaration order.
// The returned slice is a copy and safe to iterate without holding locks.
func (r *Registry) All() []*schema.Table {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*schema.Table, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered tables.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
