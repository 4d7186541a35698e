package arithexpr

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/specarith/internal/workspace"
	"github.com/zclconf/go-cty/cty"
)

// Parse rewrites placeholders and operators and parses the result as an HCL expression.
func Parse(raw string) (hclsyntax.Expression, []Placeholder, error) {
	src, placeholders, err := rewrite(raw)
	if err != nil {
		return nil, nil, err
	}
	src, err = translateOperators(src)
	if err != nil {
		return nil, nil, err
	}
	expr, diags := hclsyntax.ParseExpression([]byte(src), "<expression>", hcl.Pos{Line: 1, Column: 1, Byte: 0})
	if diags.HasErrors() {
		return nil, nil, syntaxFromDiags(diags)
	}
	return expr, placeholders, nil
}

// Evaluate parses raw and evaluates it against the known data objects. The
// returned error is a *ParseError or an *EvalError.
func Evaluate(raw string, known []workspace.DataObject) (val Value, err error) {
	expr, _, err := Parse(raw)
	if err != nil {
		return Value{}, err
	}

	defer func() {
		if r := recover(); r != nil {
			val, err = Value{}, evalErrorf("evaluation failed: %v", r)
		}
	}()

	ev := &evaluator{known: known}
	return ev.eval(expr)
}

// evaluator walks an hclsyntax tree. It only understands the node types it
// lists; everything else is rejected, which is what keeps expressions
// sandboxed.
type evaluator struct {
	known []workspace.DataObject
}

func (ev *evaluator) eval(expr hclsyntax.Expression) (Value, error) {
	switch e := expr.(type) {
	case *hclsyntax.LiteralValueExpr:
		return literal(e.Val)

	case *hclsyntax.TemplateExpr:
		if len(e.Parts) == 1 {
			if lit, ok := e.Parts[0].(*hclsyntax.LiteralValueExpr); ok && lit.Val.Type() == cty.String {
				return literal(lit.Val)
			}
		}
		return Value{}, evalErrorf("string templates are not supported")

	case *hclsyntax.ParenthesesExpr:
		return ev.eval(e.Expression)

	case *hclsyntax.UnaryOpExpr:
		v, err := ev.eval(e.Val)
		if err != nil {
			return Value{}, err
		}
		return unary(e.Op, v)

	case *hclsyntax.BinaryOpExpr:
		lhs, err := ev.eval(e.LHS)
		if err != nil {
			return Value{}, err
		}
		rhs, err := ev.eval(e.RHS)
		if err != nil {
			return Value{}, err
		}
		return binary(e.Op, lhs, rhs)

	case *hclsyntax.ConditionalExpr:
		cond, err := ev.eval(e.Condition)
		if err != nil {
			return Value{}, err
		}
		ok, err := cond.truthy()
		if err != nil {
			return Value{}, err
		}
		if ok {
			return ev.eval(e.TrueResult)
		}
		return ev.eval(e.FalseResult)

	case *hclsyntax.FunctionCallExpr:
		return ev.call(e)

	case *hclsyntax.ScopeTraversalExpr:
		return ev.variable(e.Traversal)

	case *hclsyntax.RelativeTraversalExpr:
		src, err := ev.eval(e.Source)
		if err != nil {
			return Value{}, err
		}
		return traverse(src, e.Traversal)

	case *hclsyntax.IndexExpr:
		coll, err := ev.eval(e.Collection)
		if err != nil {
			return Value{}, err
		}
		key, err := ev.eval(e.Key)
		if err != nil {
			return Value{}, err
		}
		idx, ok := key.Number()
		if !ok {
			return Value{}, evalErrorf("index must be a number, not %s", key.Type())
		}
		return index(coll, idx)

	case *hclsyntax.TupleConsExpr:
		out := make([]float64, len(e.Exprs))
		for i, item := range e.Exprs {
			v, err := ev.eval(item)
			if err != nil {
				return Value{}, err
			}
			f, ok := v.Number()
			if !ok {
				return Value{}, evalErrorf("array literal elements must be numbers, not %s", v.Type())
			}
			out[i] = f
		}
		return arrayValue(out), nil

	case *hclsyntax.ObjectConsExpr:
		return Value{}, evalErrorf("braces must enclose a data object name; object constructors are not supported")

	default:
		return Value{}, evalErrorf("unsupported expression %T", expr)
	}
}

func literal(v cty.Value) (Value, error) {
	if v.IsNull() {
		return Value{}, evalErrorf("null is not a value")
	}
	switch v.Type() {
	case cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return numberValue(f), nil
	case cty.Bool:
		return boolValue(v.True()), nil
	case cty.String:
		return stringValue(v.AsString()), nil
	}
	return Value{}, evalErrorf("unsupported literal of type %s", v.Type().FriendlyName())
}

// variable resolves bare names and namespaced constants such as np.pi.
func (ev *evaluator) variable(t hcl.Traversal) (Value, error) {
	root := t.RootName()
	rest := t[1:]

	if functionNamespaces[root] {
		if len(rest) == 0 {
			return Value{}, evalErrorf("%q is a namespace, not a value", root)
		}
		attr, ok := rest[0].(hcl.TraverseAttr)
		if !ok {
			return Value{}, evalErrorf("%q is a namespace, not a value", root)
		}
		c, ok := constants[attr.Name]
		if !ok {
			return Value{}, evalErrorf("name '%s.%s' is not defined", root, attr.Name)
		}
		return traverse(numberValue(c), rest[1:])
	}

	c, ok := constants[root]
	if !ok {
		return Value{}, evalErrorf("name '%s' is not defined", root)
	}
	return traverse(numberValue(c), rest)
}

// traverse applies attribute and index steps to v.
func traverse(v Value, steps hcl.Traversal) (Value, error) {
	for _, step := range steps {
		switch s := step.(type) {
		case hcl.TraverseAttr:
			spec, ok := v.Spectrum()
			if !ok {
				return Value{}, evalErrorf("a %s has no attribute %q", v.Type(), s.Name)
			}
			comp, err := spec.Component(s.Name)
			if err != nil {
				return Value{}, &EvalError{Message: err.Error()}
			}
			v = arrayValue(comp)
		case hcl.TraverseIndex:
			if s.Key.IsNull() || s.Key.Type() != cty.Number {
				return Value{}, evalErrorf("index must be a number")
			}
			f, _ := s.Key.AsBigFloat().Float64()
			next, err := index(v, f)
			if err != nil {
				return Value{}, err
			}
			v = next
		default:
			return Value{}, evalErrorf("unsupported traversal step %T", step)
		}
	}
	return v, nil
}

func index(v Value, f float64) (Value, error) {
	arr, ok := v.Array()
	if !ok {
		return Value{}, evalErrorf("a %s cannot be indexed", v.Type())
	}
	if f != math.Trunc(f) {
		return Value{}, evalErrorf("index %g is not an integer", f)
	}
	i := int(f)
	if i < 0 {
		i += len(arr)
	}
	if i < 0 || i >= len(arr) {
		return Value{}, evalErrorf("index %g is out of bounds for length %d", f, len(arr))
	}
	return numberValue(arr[i]), nil
}

func (ev *evaluator) call(e *hclsyntax.FunctionCallExpr) (Value, error) {
	if e.ExpandFinal {
		return Value{}, evalErrorf("argument expansion is not supported")
	}
	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := ev.eval(a)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}

	if e.Name == AccessorName {
		return ev.data(args)
	}

	fn, ok := functions[e.Name]
	if !ok {
		return Value{}, evalErrorf("unknown function %q", e.Name)
	}
	if len(args) < fn.minArgs || (fn.maxArgs >= 0 && len(args) > fn.maxArgs) {
		return Value{}, evalErrorf("%s() takes %s, got %d", e.Name, fn.arity(), len(args))
	}
	return fn.call(args)
}

// data is the placeholder accessor.
func (ev *evaluator) data(args []Value) (Value, error) {
	if len(args) != 1 || args[0].Type() != TypeString {
		return Value{}, evalErrorf("%s() takes a single data object name", AccessorName)
	}
	name := args[0].str
	obj, ok := workspace.FindByName(ev.known, name)
	if !ok {
		names := workspace.Names(ev.known)
		sort.Strings(names)
		return Value{}, evalErrorf("no data object named %q (available: %s)", name, strings.Join(names, ", "))
	}
	if obj.Spectrum == nil {
		return Value{}, evalErrorf("data object %q holds no spectrum", name)
	}
	return spectrumValue(obj.Spectrum), nil
}

func unary(op *hclsyntax.Operation, v Value) (Value, error) {
	switch op {
	case hclsyntax.OpNegate:
		spec, _ := carrier(v)
		out, isVec, err := elementwise([]Value{v}, func(xs []float64) float64 { return -xs[0] })
		if err != nil {
			return Value{}, err
		}
		unit, _ := unitOf(v)
		return numeric(out, isVec, spec, unit), nil
	case hclsyntax.OpLogicalNot:
		out, isVec, err := elementwise([]Value{v}, func(xs []float64) float64 { return b2f(xs[0] == 0) })
		if err != nil {
			return Value{}, err
		}
		return logical(out, isVec), nil
	}
	return Value{}, evalErrorf("unsupported unary operator")
}

var arithmeticOps = map[*hclsyntax.Operation]struct {
	sym byte
	f   func(x, y float64) float64
}{
	hclsyntax.OpAdd:      {'+', func(x, y float64) float64 { return x + y }},
	hclsyntax.OpSubtract: {'-', func(x, y float64) float64 { return x - y }},
	hclsyntax.OpMultiply: {'*', func(x, y float64) float64 { return x * y }},
	hclsyntax.OpDivide:   {'/', func(x, y float64) float64 { return x / y }},
	hclsyntax.OpModulo:   {'%', pyMod},
}

var comparisonOps = map[*hclsyntax.Operation]func(x, y float64) bool{
	hclsyntax.OpLessThan:           func(x, y float64) bool { return x < y },
	hclsyntax.OpLessThanOrEqual:    func(x, y float64) bool { return x <= y },
	hclsyntax.OpGreaterThan:        func(x, y float64) bool { return x > y },
	hclsyntax.OpGreaterThanOrEqual: func(x, y float64) bool { return x >= y },
	hclsyntax.OpEqual:              func(x, y float64) bool { return x == y },
	hclsyntax.OpNotEqual:           func(x, y float64) bool { return x != y },
	hclsyntax.OpLogicalAnd:         func(x, y float64) bool { return x != 0 && y != 0 },
	hclsyntax.OpLogicalOr:          func(x, y float64) bool { return x != 0 || y != 0 },
}

func binary(op *hclsyntax.Operation, a, b Value) (Value, error) {
	if arith, ok := arithmeticOps[op]; ok {
		spec, err := carrier(a, b)
		if err != nil {
			return Value{}, err
		}
		unit, err := binaryUnit(arith.sym, a, b)
		if err != nil {
			return Value{}, err
		}
		out, isVec, err := elementwise([]Value{a, b}, func(xs []float64) float64 { return arith.f(xs[0], xs[1]) })
		if err != nil {
			return Value{}, err
		}
		return numeric(out, isVec, spec, unit), nil
	}

	if cmp, ok := comparisonOps[op]; ok {
		if _, err := carrier(a, b); err != nil {
			return Value{}, err
		}
		out, isVec, err := elementwise([]Value{a, b}, func(xs []float64) float64 { return b2f(cmp(xs[0], xs[1])) })
		if err != nil {
			return Value{}, err
		}
		return logical(out, isVec), nil
	}

	return Value{}, evalErrorf("unsupported binary operator")
}

// pyMod is modulo with the sign of the divisor, as numpy's % behaves.
func pyMod(x, y float64) float64 {
	r := math.Mod(x, y)
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}
	return r
}

// String returns a short description used in logs and type mismatch messages.
func (v Value) String() string {
	switch v.typ {
	case TypeNumber:
		return fmt.Sprintf("%g", v.num)
	case TypeBool:
		return fmt.Sprintf("%t", v.num != 0)
	case TypeString:
		return fmt.Sprintf("%q", v.str)
	case TypeArray, TypeMask:
		return fmt.Sprintf("%s[%d]", v.typ, len(v.vec))
	case TypeSpectrum:
		return v.spec.String()
	}
	return v.typ.String()
}
