package workspace

import (
	"errors"

	"github.com/google/uuid"
	"github.com/vk/specarith/internal/spectrum"
)

var (
	// ErrUnknownIdentifier is returned when removing an object that is not in
	// the collection.
	ErrUnknownIdentifier = errors.New("no data object with that identifier")
	// ErrDuplicateName is returned when adding an object under a name that is
	// already taken.
	ErrDuplicateName = errors.New("data object name already in use")
)

// DataObject is a named spectrum held by a Collection.
type DataObject struct {
	Name       string
	Identifier uuid.UUID
	Spectrum   *spectrum.Spectrum
}

// Collection is the data-collection service contract.
type Collection interface {
	// ListDataItems returns the objects in insertion order.
	ListDataItems() []DataObject
	// AddData stores obj under name, assigning a fresh identifier when obj
	// has none, and returns the stored object.
	AddData(obj DataObject, name string) (DataObject, error)
	// RemoveData deletes the object with the given identifier.
	RemoveData(id uuid.UUID) error
}

// Revisioner is implemented by collections that can report a counter which
// changes on every mutation. Caches key on it.
type Revisioner interface {
	Revision() uint64
}

// FindByName returns the first object in items called name.
func FindByName(items []DataObject, name string) (DataObject, bool) {
	for _, it := range items {
		if it.Name == name {
			return it, true
		}
	}
	return DataObject{}, false
}

// Names returns the names of items in order.
func Names(items []DataObject) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}
