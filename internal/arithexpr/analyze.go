package arithexpr

import (
	"sort"

	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// Analysis lists what an expression refers to.
type Analysis struct {
	Placeholders []string // unique data object names, sorted
	Functions    []string // unique called functions, sorted
}

// Analyze parses raw and reports the data objects and functions it uses
// without evaluating anything.
func Analyze(raw string) (Analysis, error) {
	expr, placeholders, err := Parse(raw)
	if err != nil {
		return Analysis{}, err
	}

	names := make(map[string]struct{}, len(placeholders))
	for _, p := range placeholders {
		names[p.Name] = struct{}{}
	}
	funcs := make(map[string]struct{})
	walkForFunctions(expr, funcs)
	delete(funcs, AccessorName)

	return Analysis{
		Placeholders: sortedKeys(names),
		Functions:    sortedKeys(funcs),
	}, nil
}

// walkForFunctions recursively walks the AST collecting function call names.
func walkForFunctions(expr hclsyntax.Expression, functions map[string]struct{}) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		functions[e.Name] = struct{}{}
		for _, arg := range e.Args {
			walkForFunctions(arg, functions)
		}
	case *hclsyntax.BinaryOpExpr:
		walkForFunctions(e.LHS, functions)
		walkForFunctions(e.RHS, functions)
	case *hclsyntax.ConditionalExpr:
		walkForFunctions(e.Condition, functions)
		walkForFunctions(e.TrueResult, functions)
		walkForFunctions(e.FalseResult, functions)
	case *hclsyntax.UnaryOpExpr:
		walkForFunctions(e.Val, functions)
	case *hclsyntax.TupleConsExpr:
		for _, item := range e.Exprs {
			walkForFunctions(item, functions)
		}
	case *hclsyntax.IndexExpr:
		walkForFunctions(e.Collection, functions)
		walkForFunctions(e.Key, functions)
	case *hclsyntax.RelativeTraversalExpr:
		walkForFunctions(e.Source, functions)
	case *hclsyntax.ParenthesesExpr:
		walkForFunctions(e.Expression, functions)
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
