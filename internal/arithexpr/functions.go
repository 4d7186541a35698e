package arithexpr

import (
	"fmt"
	"math"
	"sort"

	"github.com/vk/specarith/internal/spectrum"
)

// constants reachable as bare names or through a namespace (np.pi, math.e).
var constants = map[string]float64{
	"pi":  math.Pi,
	"e":   math.E,
	"inf": math.Inf(1),
	"nan": math.NaN(),
}

type function struct {
	minArgs, maxArgs int // maxArgs < 0 means variadic
	call             func(args []Value) (Value, error)
}

func (f function) arity() string {
	switch {
	case f.minArgs == f.maxArgs && f.minArgs == 1:
		return "1 argument"
	case f.minArgs == f.maxArgs:
		return fmt.Sprintf("%d arguments", f.minArgs)
	case f.maxArgs < 0:
		return fmt.Sprintf("at least %d arguments", f.minArgs)
	}
	return fmt.Sprintf("%d to %d arguments", f.minArgs, f.maxArgs)
}

// functions is the whole callable surface of an expression.
var functions = map[string]function{
	"abs":     mapped(math.Abs, true),
	"floor":   mapped(math.Floor, true),
	"ceil":    mapped(math.Ceil, true),
	"round":   mapped(math.RoundToEven, true),
	"sqrt":    mapped(math.Sqrt, false),
	"exp":     mapped(math.Exp, false),
	"log":     mapped(math.Log, false),
	"log10":   mapped(math.Log10, false),
	"log2":    mapped(math.Log2, false),
	"sin":     mapped(math.Sin, false),
	"cos":     mapped(math.Cos, false),
	"tan":     mapped(math.Tan, false),
	"arcsin":  mapped(math.Asin, false),
	"arccos":  mapped(math.Acos, false),
	"arctan":  mapped(math.Atan, false),
	"min":     reduced(spectrum.Min),
	"max":     reduced(spectrum.Max),
	"ptp":     reduced(spectrum.PeakToPeak),
	"sum":     reduced(func(a []float64) (float64, error) { return spectrum.Sum(a), nil }),
	"mean":    reduced(spectrum.Mean),
	"median":  reduced(spectrum.Median),
	"std":     reduced(spectrum.Std),
	"minimum": {2, 2, pairwise(math.Min)},
	"maximum": {2, 2, pairwise(math.Max)},
	"power":   {2, 2, power},
	"clip":    {3, 3, clip},
	"where":   {3, 3, where},
}

// FunctionNames lists the callable functions in sorted order.
func FunctionNames() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// mapped lifts a scalar function to numbers, arrays and spectra.
func mapped(f func(float64) float64, keepUnit bool) function {
	return function{1, 1, func(args []Value) (Value, error) {
		v := args[0]
		out, isVec, err := elementwise(args, func(xs []float64) float64 { return f(xs[0]) })
		if err != nil {
			return Value{}, err
		}
		spec, _ := carrier(v)
		unit := ""
		if keepUnit {
			unit, _ = unitOf(v)
		}
		return numeric(out, isVec, spec, unit), nil
	}}
}

// reduced turns an array reduction into a function returning a number.
func reduced(f func([]float64) (float64, error)) function {
	return function{1, 1, func(args []Value) (Value, error) {
		samples, err := args[0].samples()
		if err != nil {
			return Value{}, err
		}
		r, err := f(samples)
		if err != nil {
			return Value{}, &EvalError{Message: err.Error()}
		}
		return numberValue(r), nil
	}}
}

func pairwise(f func(x, y float64) float64) func(args []Value) (Value, error) {
	return func(args []Value) (Value, error) {
		spec, err := carrier(args...)
		if err != nil {
			return Value{}, err
		}
		unit, err := binaryUnit('+', args[0], args[1])
		if err != nil {
			return Value{}, err
		}
		out, isVec, err := elementwise(args, func(xs []float64) float64 { return f(xs[0], xs[1]) })
		if err != nil {
			return Value{}, err
		}
		return numeric(out, isVec, spec, unit), nil
	}
}

func power(args []Value) (Value, error) {
	base, exp := args[0], args[1]
	if _, ok := exp.Spectrum(); ok {
		return Value{}, evalErrorf("the exponent of power() cannot be a spectrum")
	}
	spec, err := carrier(base)
	if err != nil {
		return Value{}, err
	}
	out, isVec, err := elementwise(args, func(xs []float64) float64 { return math.Pow(xs[0], xs[1]) })
	if err != nil {
		return Value{}, err
	}
	unit := ""
	if u, _ := unitOf(base); u != "" {
		if p, ok := exp.Number(); ok && exp.Type() == TypeNumber {
			unit = fmt.Sprintf("(%s)^%g", u, p)
		}
	}
	return numeric(out, isVec, spec, unit), nil
}

func clip(args []Value) (Value, error) {
	for _, bound := range args[1:] {
		if _, ok := bound.Spectrum(); ok {
			return Value{}, evalErrorf("clip() bounds cannot be spectra")
		}
	}
	spec, err := carrier(args[0])
	if err != nil {
		return Value{}, err
	}
	out, isVec, err := elementwise(args, func(xs []float64) float64 {
		return math.Min(math.Max(xs[0], xs[1]), xs[2])
	})
	if err != nil {
		return Value{}, err
	}
	unit, _ := unitOf(args[0])
	return numeric(out, isVec, spec, unit), nil
}

func where(args []Value) (Value, error) {
	spec, err := carrier(args[1], args[2])
	if err != nil {
		return Value{}, err
	}
	unit, err := binaryUnit('+', args[1], args[2])
	if err != nil {
		return Value{}, err
	}
	out, isVec, err := elementwise(args, func(xs []float64) float64 {
		if xs[0] != 0 {
			return xs[1]
		}
		return xs[2]
	})
	if err != nil {
		return Value{}, err
	}
	return numeric(out, isVec, spec, unit), nil
}
