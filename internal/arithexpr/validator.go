package arithexpr

import (
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/vk/specarith/internal/workspace"
)

// Validator classifies a (name, expression) pair against the current
// workspace. It holds no state between calls.
type Validator struct {
	logger *slog.Logger
}

// NewValidator returns a Validator that logs outcomes at debug level.
func NewValidator(logger *slog.Logger) *Validator {
	return &Validator{logger: logger}
}

// Validate runs every check in order and returns the first outcome that
// applies. existing holds the names of already defined equations; the
// duplicate check only runs when addMode is set.
func (v *Validator) Validate(name, raw string, known []workspace.DataObject, existing []string, addMode bool) Outcome {
	if out, done := precheck(name, raw, existing, addMode); done {
		return out
	}
	out := v.evaluate(raw, known)
	v.logger.Debug("Expression validated.", "name", strings.TrimSpace(name), "kind", out.Kind.String())
	return out
}

// precheck handles the checks that do not need evaluation.
func precheck(name, raw string, existing []string, addMode bool) (Outcome, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return emptyOutcome(), true
	}
	if addMode && slices.Contains(existing, name) {
		return duplicateOutcome(), true
	}
	if strings.TrimSpace(raw) == "" {
		return noContentOutcome(), true
	}
	return Outcome{}, false
}

func (v *Validator) evaluate(raw string, known []workspace.DataObject) Outcome {
	val, err := Evaluate(strings.TrimSpace(raw), known)
	if err != nil {
		var syn *ParseError
		if errors.As(err, &syn) {
			return syntaxOutcome(syn.Message)
		}
		return evaluationOutcome(err.Error())
	}
	spec, ok := val.Spectrum()
	if !ok {
		return mismatchOutcome(val.Type())
	}
	return validOutcome(spec)
}
