package editor

import (
	"context"
	"strings"
	"sync"

	"github.com/vk/specarith/internal/arithexpr"
	"github.com/vk/specarith/internal/equation"
	"github.com/vk/specarith/internal/workspace"
)

// Checker validates one (name, expression) pair. Both arithexpr.Validator
// and arithexpr.CachedValidator satisfy it.
type Checker interface {
	Validate(name, raw string, known []workspace.DataObject, existing []string, addMode bool) arithexpr.Outcome
}

// Env supplies the inputs a validation check runs against.
type Env interface {
	Known() []workspace.DataObject
	Existing() []string
}

// Editor is the state of one proposed equation.
//
// Update re-validates only when the name or expression differs from the
// previous call. UpdateAsync runs the check on another goroutine and applies
// its result only if no newer input arrived in the meantime.
type Editor struct {
	checker Checker
	env     Env
	mode    equation.Mode

	mu          sync.Mutex
	name        string // last applied input
	expression  string
	latestName  string // last requested input, possibly still being checked
	latestExpr  string
	memoValid   bool
	outcome     arithexpr.Outcome
	generation  uint64
	evaluations int
	closed      bool
	original    *equation.Equation // set in edit mode until confirmed or cancelled

	inflight sync.WaitGroup
}

// New returns an editor in add mode.
func New(checker Checker, env Env) *Editor {
	e := &Editor{checker: checker, env: env, mode: equation.ModeAdd}
	e.Update("", "")
	return e
}

// NewEdit returns an editor in edit mode, pre-filled with eq. The name of an
// edited equation cannot change.
func NewEdit(checker Checker, env Env, eq equation.Equation) *Editor {
	orig := eq
	e := &Editor{checker: checker, env: env, mode: equation.ModeEdit, original: &orig}
	e.Update(eq.Name, eq.Expression)
	return e
}

// Mode reports whether the editor adds or edits.
func (e *Editor) Mode() equation.Mode {
	return e.mode
}

// Update sets the current input and returns its outcome.
func (e *Editor) Update(name, expression string) arithexpr.Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.generation++
	name, expression = e.normalize(name, expression)
	e.latestName, e.latestExpr = name, expression
	if e.memoValid && name == e.name && expression == e.expression {
		return e.outcome
	}

	out := e.checker.Validate(name, expression, e.env.Known(), e.env.Existing(), e.mode == equation.ModeAdd)
	e.apply(name, expression, out)
	return out
}

// UpdateAsync sets the current input and validates it in the background.
// A result is discarded when a later Update or UpdateAsync supersedes it or
// ctx ends first.
func (e *Editor) UpdateAsync(ctx context.Context, name, expression string) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	name, expression = e.normalize(name, expression)
	e.latestName, e.latestExpr = name, expression
	if e.memoValid && name == e.name && expression == e.expression {
		e.mu.Unlock()
		return
	}
	// Inputs are snapshotted on the caller's goroutine so the background
	// check sees the workspace as it was when the input arrived.
	known, existing := e.env.Known(), e.env.Existing()
	addMode := e.mode == equation.ModeAdd
	e.mu.Unlock()

	e.inflight.Add(1)
	go func() {
		defer e.inflight.Done()
		out := e.checker.Validate(name, expression, known, existing, addMode)

		e.mu.Lock()
		defer e.mu.Unlock()
		if gen != e.generation || ctx.Err() != nil {
			return
		}
		e.apply(name, expression, out)
	}()
}

// Wait blocks until every background validation has finished.
func (e *Editor) Wait() {
	e.inflight.Wait()
}

// Latest returns the most recently requested input, which may differ from
// Name and Expression while a background check is pending.
func (e *Editor) Latest() (name, expression string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.latestName, e.latestExpr
}

// Name returns the current name.
func (e *Editor) Name() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.name
}

// Expression returns the current expression.
func (e *Editor) Expression() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.expression
}

// Outcome returns the most recently applied outcome.
func (e *Editor) Outcome() arithexpr.Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.outcome
}

// CanConfirm reports whether the current outcome allows confirmation.
func (e *Editor) CanConfirm() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.closed && e.outcome.OK()
}

// Status returns the message and severity to display.
func (e *Editor) Status() (string, arithexpr.Severity) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.outcome.Message, e.outcome.Severity()
}

// Evaluations counts how many times the editor actually ran a check.
func (e *Editor) Evaluations() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.evaluations
}

// Proposal returns the equation as it would be confirmed now.
func (e *Editor) Proposal() equation.Equation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return equation.Equation{
		Name:       strings.TrimSpace(e.name),
		Expression: e.expression,
		Result:     e.outcome.Result,
		State:      equation.StateProposed,
	}
}

func (e *Editor) normalize(name, expression string) (string, string) {
	if e.mode == equation.ModeEdit && e.original != nil {
		name = e.original.Name
	} else if e.mode == equation.ModeEdit {
		name = e.name
	}
	return name, strings.TrimSpace(expression)
}

// apply must be called with mu held.
func (e *Editor) apply(name, expression string, out arithexpr.Outcome) {
	e.name, e.expression = name, expression
	e.outcome = out
	e.memoValid = true
	e.evaluations++
}

// close marks the editor finished and returns the edited original, if any.
func (e *Editor) close() (*equation.Equation, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, false
	}
	e.closed = true
	orig := e.original
	e.original = nil
	return orig, true
}
