package arithexpr

import (
	"fmt"

	"github.com/vk/specarith/internal/spectrum"
)

// Type classifies an evaluated Value.
type Type int

const (
	TypeNumber Type = iota
	TypeBool
	TypeString
	TypeArray
	TypeMask
	TypeSpectrum
)

func (t Type) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeBool:
		return "bool"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	case TypeMask:
		return "mask"
	case TypeSpectrum:
		return "spectrum"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Value is the result of evaluating an expression or sub-expression.
type Value struct {
	typ  Type
	num  float64
	str  string
	vec  []float64 // array values; masks hold 0/1
	spec *spectrum.Spectrum
}

func numberValue(f float64) Value { return Value{typ: TypeNumber, num: f} }
func stringValue(s string) Value  { return Value{typ: TypeString, str: s} }
func arrayValue(v []float64) Value {
	return Value{typ: TypeArray, vec: v}
}
func spectrumValue(s *spectrum.Spectrum) Value {
	return Value{typ: TypeSpectrum, spec: s}
}

func boolValue(b bool) Value {
	return Value{typ: TypeBool, num: b2f(b)}
}

func maskValue(v []float64) Value {
	return Value{typ: TypeMask, vec: v}
}

// Type returns the value's type.
func (v Value) Type() Type { return v.typ }

// Number returns the scalar for number and bool values.
func (v Value) Number() (float64, bool) {
	if v.typ == TypeNumber || v.typ == TypeBool {
		return v.num, true
	}
	return 0, false
}

// Spectrum returns the spectral payload of a spectrum value.
func (v Value) Spectrum() (*spectrum.Spectrum, bool) {
	return v.spec, v.typ == TypeSpectrum
}

// Array returns the per-sample values of array, mask and spectrum values.
func (v Value) Array() ([]float64, bool) {
	switch v.typ {
	case TypeArray, TypeMask:
		return v.vec, true
	case TypeSpectrum:
		return v.spec.Flux, true
	}
	return nil, false
}

func (v Value) isVector() bool {
	return v.typ == TypeArray || v.typ == TypeMask || v.typ == TypeSpectrum
}

// samples returns the value as a column for broadcasting: length 1 for
// scalars.
func (v Value) samples() ([]float64, error) {
	switch v.typ {
	case TypeNumber, TypeBool:
		return []float64{v.num}, nil
	case TypeArray, TypeMask:
		return v.vec, nil
	case TypeSpectrum:
		return v.spec.Flux, nil
	}
	return nil, evalErrorf("a %s cannot be used in arithmetic", v.typ)
}

func (v Value) truthy() (bool, error) {
	switch v.typ {
	case TypeNumber, TypeBool:
		return v.num != 0, nil
	case TypeString:
		return false, evalErrorf("a string cannot be used as a condition")
	}
	return false, evalErrorf("the truth value of a %s is ambiguous; use where(mask, a, b) for elementwise selection", v.typ)
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
