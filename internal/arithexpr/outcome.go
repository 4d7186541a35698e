package arithexpr

import (
	"fmt"

	"github.com/vk/specarith/internal/spectrum"
)

// Kind names the variant an Outcome holds.
type Kind int

const (
	// Empty: no equation name was given.
	Empty Kind = iota
	// DuplicateName: the name is taken and the editor is adding.
	DuplicateName
	// NoContent: the expression is blank. Neutral, not an error.
	NoContent
	// SyntaxError: the expression does not parse.
	SyntaxError
	// EvaluationError: the expression parsed but could not be computed.
	EvaluationError
	// TypeMismatch: the expression computed something other than a spectrum.
	TypeMismatch
	// Valid: the expression computed a spectrum.
	Valid
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case DuplicateName:
		return "duplicate_name"
	case NoContent:
		return "no_content"
	case SyntaxError:
		return "syntax_error"
	case EvaluationError:
		return "evaluation_error"
	case TypeMismatch:
		return "type_mismatch"
	case Valid:
		return "valid"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Severity tells a presentation layer how to style an Outcome's message.
type Severity int

const (
	SeverityNeutral Severity = iota
	SeverityError
	SeverityOK
)

// Outcome is the classification of one validation check.
type Outcome struct {
	Kind       Kind
	Message    string
	ActualType string             // set for TypeMismatch
	Result     *spectrum.Spectrum // set for Valid
}

// OK reports whether the outcome allows confirming the equation.
func (o Outcome) OK() bool {
	return o.Kind == Valid
}

// Severity classifies the outcome for display.
func (o Outcome) Severity() Severity {
	switch o.Kind {
	case Valid:
		return SeverityOK
	case NoContent:
		return SeverityNeutral
	}
	return SeverityError
}

func emptyOutcome() Outcome {
	return Outcome{Kind: Empty, Message: "Component name not set"}
}

func duplicateOutcome() Outcome {
	return Outcome{Kind: DuplicateName, Message: "Component name already exists."}
}

func noContentOutcome() Outcome {
	return Outcome{Kind: NoContent}
}

func syntaxOutcome(msg string) Outcome {
	return Outcome{Kind: SyntaxError, Message: "Incomplete or invalid syntax: " + msg}
}

func evaluationOutcome(msg string) Outcome {
	return Outcome{Kind: EvaluationError, Message: msg}
}

func mismatchOutcome(actual Type) Outcome {
	return Outcome{
		Kind:       TypeMismatch,
		Message:    fmt.Sprintf("Arithmetic editor must return a spectrum, not %s", actual),
		ActualType: actual.String(),
	}
}

func validOutcome(result *spectrum.Spectrum) Outcome {
	return Outcome{Kind: Valid, Message: "Valid expression", Result: result}
}
