package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vk/specarith/internal/arithexpr"
	"github.com/vk/specarith/internal/equation"
	"github.com/vk/specarith/internal/workspace"
)

var (
	// ErrNoData is returned when an editor is requested on an empty workspace.
	ErrNoData = errors.New("there is no data loaded into your session")
	// ErrNotConfirmable is returned when confirming an editor whose current
	// outcome is not valid.
	ErrNotConfirmable = errors.New("expression cannot be confirmed")
	// ErrClosed is returned when confirming an editor twice.
	ErrClosed = errors.New("editor already closed")
)

// Session runs the add, edit and remove flows for derived equations against
// one data collection.
type Session struct {
	coll    workspace.Collection
	reg     *equation.Registry
	checker Checker
	logger  *slog.Logger
}

// NewSession wires a session together.
func NewSession(coll workspace.Collection, reg *equation.Registry, checker Checker, logger *slog.Logger) *Session {
	return &Session{coll: coll, reg: reg, checker: checker, logger: logger}
}

// Registry returns the session's equation registry.
func (s *Session) Registry() *equation.Registry {
	return s.reg
}

// Collection returns the session's data collection.
func (s *Session) Collection() workspace.Collection {
	return s.coll
}

// Known implements Env.
func (s *Session) Known() []workspace.DataObject {
	return s.coll.ListDataItems()
}

// Existing implements Env. A new equation may not reuse the name of another
// equation or of a data object already in the collection.
func (s *Session) Existing() []string {
	names := s.reg.Names()
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		seen[n] = struct{}{}
	}
	for _, obj := range s.coll.ListDataItems() {
		if _, ok := seen[obj.Name]; !ok {
			names = append(names, obj.Name)
			seen[obj.Name] = struct{}{}
		}
	}
	return names
}

// BeginAdd opens an editor for a new equation.
func (s *Session) BeginAdd() (*Editor, error) {
	if len(s.coll.ListDataItems()) == 0 {
		return nil, ErrNoData
	}
	return New(s.checker, s), nil
}

// BeginEdit opens an editor on an existing equation. Its published data
// object is withdrawn while the edit is open; Cancel restores it.
func (s *Session) BeginEdit(name string) (*Editor, error) {
	eq, ok := s.reg.FindByName(name)
	if !ok {
		return nil, fmt.Errorf("there is no specified expression to edit: %w: %q", equation.ErrNotFound, name)
	}
	s.withdraw(eq)
	if len(s.coll.ListDataItems()) == 0 {
		s.republish(eq)
		return nil, ErrNoData
	}
	s.logger.Debug("Editing equation.", "name", eq.Name, "revision", eq.Revision)
	return NewEdit(s.checker, s, eq), nil
}

// Confirm records the editor's equation and publishes its result. The latest
// input is checked synchronously, superseding any pending background check.
func (s *Session) Confirm(ed *Editor) (equation.Equation, error) {
	out := ed.Update(ed.Latest())
	if !out.OK() {
		return equation.Equation{}, fmt.Errorf("%w: %s", ErrNotConfirmable, describe(out))
	}
	proposal := ed.Proposal()

	orig, ok := ed.close()
	if !ok {
		return equation.Equation{}, ErrClosed
	}

	analysis, err := arithexpr.Analyze(proposal.Expression)
	if err != nil {
		// Unreachable for a valid outcome; the expression already parsed.
		return equation.Equation{}, fmt.Errorf("analyzing %q: %w", proposal.Expression, err)
	}
	proposal.References = analysis.Placeholders

	obj, err := s.coll.AddData(workspace.DataObject{Identifier: uuid.New(), Spectrum: proposal.Result}, proposal.Name)
	if err != nil {
		if orig != nil {
			s.republish(*orig)
		}
		return equation.Equation{}, fmt.Errorf("publishing %q: %w", proposal.Name, err)
	}
	proposal.DataID = obj.Identifier

	stored, err := s.reg.AddOrUpdate(proposal, ed.Mode())
	if err != nil {
		if rmErr := s.coll.RemoveData(obj.Identifier); rmErr != nil {
			s.logger.Warn("Failed to roll back published data object.", "name", proposal.Name, "error", rmErr)
		}
		return equation.Equation{}, err
	}

	s.logger.Info("Equation confirmed.", "name", stored.Name, "mode", ed.Mode().String(), "revision", stored.Revision, "points", stored.Result.Len())
	return stored, nil
}

// Cancel closes an editor without confirming. An edited equation's data
// object is published again.
func (s *Session) Cancel(ed *Editor) {
	orig, ok := ed.close()
	if !ok || orig == nil {
		return
	}
	s.republish(*orig)
}

// Remove deletes an equation and its published data object.
func (s *Session) Remove(name string) error {
	eq, err := s.reg.Remove(name)
	if err != nil {
		return fmt.Errorf("there is no specified expression to remove: %w", err)
	}
	s.withdraw(eq)
	s.logger.Info("Equation removed.", "name", eq.Name)
	return nil
}

// Apply adds or edits the named equation in one step, as a batch client
// would. The outcome is returned even when confirmation fails.
func (s *Session) Apply(name, expression string) (equation.Equation, arithexpr.Outcome, error) {
	var (
		ed  *Editor
		err error
	)
	if _, exists := s.reg.FindByName(name); exists {
		ed, err = s.BeginEdit(name)
	} else {
		ed, err = s.BeginAdd()
	}
	if err != nil {
		return equation.Equation{}, arithexpr.Outcome{}, err
	}

	out := ed.Update(name, expression)
	if !out.OK() {
		s.Cancel(ed)
		return equation.Equation{}, out, fmt.Errorf("%w: %s", ErrNotConfirmable, describe(out))
	}
	eq, err := s.Confirm(ed)
	return eq, out, err
}

func (s *Session) withdraw(eq equation.Equation) {
	if eq.DataID == uuid.Nil {
		return
	}
	if err := s.coll.RemoveData(eq.DataID); err != nil {
		s.logger.Warn("Derived data object was already gone.", "name", eq.Name, "error", err)
	}
}

func (s *Session) republish(eq equation.Equation) {
	if eq.Result == nil {
		return
	}
	if _, err := s.coll.AddData(workspace.DataObject{Identifier: eq.DataID, Spectrum: eq.Result}, eq.Name); err != nil {
		s.logger.Warn("Failed to restore derived data object.", "name", eq.Name, "error", err)
	}
}

func describe(out arithexpr.Outcome) string {
	if out.Message == "" {
		return out.Kind.String()
	}
	return out.Kind.String() + ": " + out.Message
}
