package equation

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/vk/specarith/internal/spectrum"
)

// State is the lifecycle position of an Equation.
type State int

const (
	StateProposed State = iota
	StateConfirmed
	StateRemoved
)

func (s State) String() string {
	switch s {
	case StateProposed:
		return "proposed"
	case StateConfirmed:
		return "confirmed"
	case StateRemoved:
		return "removed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Mode tells AddOrUpdate whether the caller is adding or editing.
type Mode int

const (
	ModeAdd Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "add"
}

// Equation is a named, user-defined expression and the spectrum it produced.
type Equation struct {
	Name       string
	Expression string
	Result     *spectrum.Spectrum
	References []string  // data objects the expression reads
	DataID     uuid.UUID // identifier of the published derived data object
	State      State
	Revision   int // number of confirmed edits
}

func (e Equation) clone() Equation {
	e.References = slices.Clone(e.References)
	return e
}
