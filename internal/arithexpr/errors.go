package arithexpr

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// ParseError reports text that cannot be parsed as an expression.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return "syntax error: " + e.Message
}

// EvalError reports a failure while evaluating a well-formed expression.
type EvalError struct {
	Message string
}

func (e *EvalError) Error() string {
	return e.Message
}

func evalErrorf(format string, args ...any) error {
	return &EvalError{Message: fmt.Sprintf(format, args...)}
}

// syntaxFromDiags condenses HCL parse diagnostics into a ParseError. Source
// ranges are dropped because they point into the rewritten text, not what the
// user typed.
func syntaxFromDiags(diags hcl.Diagnostics) error {
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		msg := d.Summary
		if d.Detail != "" {
			msg += "; " + d.Detail
		}
		return &ParseError{Message: msg}
	}
	return &ParseError{Message: diags.Error()}
}
