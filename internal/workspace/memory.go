package workspace

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Memory is an ephemeral, insertion-ordered Collection.
//
// Reads take a shared lock so evaluations running off the control goroutine
// can list items while the control goroutine publishes results.
type Memory struct {
	mu       sync.RWMutex
	items    []DataObject
	revision uint64
}

// NewMemory creates an empty collection.
func NewMemory() *Memory {
	return &Memory{}
}

// ListDataItems returns a snapshot of the stored objects.
func (m *Memory) ListDataItems() []DataObject {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.items)
}

// AddData implements Collection.
func (m *Memory) AddData(obj DataObject, name string) (DataObject, error) {
	if name == "" {
		return DataObject{}, fmt.Errorf("workspace: data object name must not be empty")
	}
	if obj.Spectrum == nil {
		return DataObject{}, fmt.Errorf("workspace: data object %q has no spectrum", name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, it := range m.items {
		if it.Name == name {
			return DataObject{}, fmt.Errorf("workspace: %w: %q", ErrDuplicateName, name)
		}
	}
	obj.Name = name
	if obj.Identifier == uuid.Nil {
		obj.Identifier = uuid.New()
	}
	m.items = append(m.items, obj)
	m.revision++
	return obj, nil
}

// RemoveData implements Collection.
func (m *Memory) RemoveData(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := slices.IndexFunc(m.items, func(it DataObject) bool { return it.Identifier == id })
	if idx < 0 {
		return fmt.Errorf("workspace: %w: %s", ErrUnknownIdentifier, id)
	}
	m.items = slices.Delete(m.items, idx, idx+1)
	m.revision++
	return nil
}

// Revision implements Revisioner.
func (m *Memory) Revision() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.revision
}
