package equation

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

var (
	// ErrDuplicateName is returned when adding a name that is already defined.
	ErrDuplicateName = errors.New("equation name already exists")
	// ErrNotFound is returned when an operation names an undefined equation.
	ErrNotFound = errors.New("equation not found")
	// ErrEmptyName is returned when an equation has no name.
	ErrEmptyName = errors.New("equation name not set")
)

// Registry holds the confirmed equations of one session in insertion order.
type Registry struct {
	mu      sync.RWMutex
	entries []*Equation
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// AddOrUpdate confirms eq. In edit mode an existing entry with the same name
// takes the new expression, result and references; in either mode an unknown
// name is appended. Adding a name that exists fails with ErrDuplicateName.
// The stored copy is returned.
func (r *Registry) AddOrUpdate(eq Equation, mode Mode) (Equation, error) {
	eq.Name = strings.TrimSpace(eq.Name)
	if eq.Name == "" {
		return Equation{}, ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing := r.find(eq.Name); existing != nil {
		if mode != ModeEdit {
			return Equation{}, fmt.Errorf("%w: %q", ErrDuplicateName, eq.Name)
		}
		existing.Expression = eq.Expression
		existing.Result = eq.Result
		existing.References = slices.Clone(eq.References)
		existing.DataID = eq.DataID
		existing.Revision++
		existing.State = StateConfirmed
		return existing.clone(), nil
	}

	stored := eq.clone()
	stored.State = StateConfirmed
	stored.Revision = 0
	r.entries = append(r.entries, &stored)
	return stored.clone(), nil
}

// Remove deletes the named equation and returns it in the Removed state.
// Names are trimmed as in AddOrUpdate.
func (r *Registry) Remove(name string) (Equation, error) {
	name = strings.TrimSpace(name)
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := slices.IndexFunc(r.entries, func(e *Equation) bool { return e.Name == name })
	if idx < 0 {
		return Equation{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	removed := r.entries[idx].clone()
	removed.State = StateRemoved
	r.entries = slices.Delete(r.entries, idx, idx+1)
	return removed, nil
}

// FindByName returns a copy of the named equation. Names are trimmed as in
// AddOrUpdate.
func (r *Registry) FindByName(name string) (Equation, bool) {
	name = strings.TrimSpace(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e := r.find(name); e != nil {
		return e.clone(), true
	}
	return Equation{}, false
}

// Names returns equation names in insertion order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

// List returns copies of all equations in insertion order.
func (r *Registry) List() []Equation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Equation, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.clone()
	}
	return out
}

// Len returns the number of equations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *Registry) find(name string) *Equation {
	for _, e := range r.entries {
		if e.Name == name {
			return e
		}
	}
	return nil
}
