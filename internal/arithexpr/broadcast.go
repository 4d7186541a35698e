package arithexpr

import (
	"github.com/vk/specarith/internal/spectrum"
)

// elementwise evaluates f across the broadcast samples of vals. Scalars
// stretch to the common length; vectors must all share it.
func elementwise(vals []Value, f func(xs []float64) float64) ([]float64, bool, error) {
	cols := make([][]float64, len(vals))
	n, isVec := 1, false
	for i, v := range vals {
		col, err := v.samples()
		if err != nil {
			return nil, false, err
		}
		cols[i] = col
		if !v.isVector() {
			continue
		}
		if !isVec {
			n, isVec = len(col), true
			continue
		}
		if len(col) != n {
			return nil, false, evalErrorf("operands could not be broadcast together: lengths %d and %d", n, len(col))
		}
	}

	out := make([]float64, n)
	xs := make([]float64, len(cols))
	for i := 0; i < n; i++ {
		for j, col := range cols {
			if len(col) == 1 && !vals[j].isVector() {
				xs[j] = col[0]
			} else {
				xs[j] = col[i]
			}
		}
		out[i] = f(xs)
	}
	return out, isVec, nil
}

// carrier returns the spectrum that gives a result its spectral axis. All
// spectra among vals must share one axis.
func carrier(vals ...Value) (*spectrum.Spectrum, error) {
	var found *spectrum.Spectrum
	for _, v := range vals {
		s, ok := v.Spectrum()
		if !ok {
			continue
		}
		if found == nil {
			found = s
			continue
		}
		if !found.SameAxis(s) {
			return nil, evalErrorf("spectra are sampled on different spectral axes")
		}
	}
	return found, nil
}

// numeric wraps an elementwise result: a spectrum when any operand carried
// one, an array when any operand was a vector, otherwise a number.
func numeric(out []float64, isVec bool, spec *spectrum.Spectrum, unit string) Value {
	switch {
	case spec != nil:
		return spectrumValue(spec.WithFlux(out, unit))
	case isVec:
		return arrayValue(out)
	default:
		return numberValue(out[0])
	}
}

// logical wraps a 0/1 elementwise result as a mask or a bool.
func logical(out []float64, isVec bool) Value {
	if isVec {
		return maskValue(out)
	}
	return boolValue(out[0] != 0)
}

func unitOf(v Value) (string, bool) {
	if s, ok := v.Spectrum(); ok {
		return s.FluxUnit, true
	}
	return "", false
}

// binaryUnit derives the flux unit of `a op b`. Non-spectrum operands are
// taken to share the spectrum's unit for addition and subtraction and to be
// dimensionless otherwise.
func binaryUnit(op byte, a, b Value) (string, error) {
	ua, sa := unitOf(a)
	ub, sb := unitOf(b)
	switch {
	case sa && sb:
		u, err := spectrum.CombineUnits(op, ua, ub)
		if err != nil {
			return "", &EvalError{Message: err.Error()}
		}
		return u, nil
	case sa:
		return ua, nil
	case sb:
		if op == '/' {
			u, _ := spectrum.CombineUnits('/', "", ub)
			return u, nil
		}
		return ub, nil
	}
	return "", nil
}
