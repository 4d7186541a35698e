package spectrum

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrEmptyReduction mirrors numpy's refusal to reduce a zero-size array.
var ErrEmptyReduction = errors.New("zero-size array to reduction operation")

// Zip applies f pairwise to a and b.
func Zip(a, b []float64, f func(x, y float64) float64) ([]float64, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: %d and %d", ErrLengthMismatch, len(a), len(b))
	}
	out := make([]float64, len(a))
	for i := range a {
		out[i] = f(a[i], b[i])
	}
	return out, nil
}

// Map applies f to every element of a.
func Map(a []float64, f func(x float64) float64) []float64 {
	out := make([]float64, len(a))
	for i, x := range a {
		out[i] = f(x)
	}
	return out
}

// Min returns the smallest element. Any NaN makes the result NaN.
func Min(a []float64) (float64, error) {
	return fold(a, math.Min)
}

// Max returns the largest element. Any NaN makes the result NaN.
func Max(a []float64) (float64, error) {
	return fold(a, math.Max)
}

// PeakToPeak returns max - min.
func PeakToPeak(a []float64) (float64, error) {
	lo, err := Min(a)
	if err != nil {
		return 0, err
	}
	hi, _ := Max(a)
	return hi - lo, nil
}

// Sum adds all elements; the sum of an empty array is 0.
func Sum(a []float64) float64 {
	var s float64
	for _, x := range a {
		s += x
	}
	return s
}

// Mean returns the arithmetic mean.
func Mean(a []float64) (float64, error) {
	if len(a) == 0 {
		return 0, ErrEmptyReduction
	}
	return Sum(a) / float64(len(a)), nil
}

// Median returns the middle value, averaging the two central values for even
// lengths.
func Median(a []float64) (float64, error) {
	if len(a) == 0 {
		return 0, ErrEmptyReduction
	}
	if slices.ContainsFunc(a, math.IsNaN) {
		return math.NaN(), nil
	}
	s := slices.Clone(a)
	slices.Sort(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2], nil
	}
	return (s[n/2-1] + s[n/2]) / 2, nil
}

// Std returns the population standard deviation (numpy ddof=0).
func Std(a []float64) (float64, error) {
	m, err := Mean(a)
	if err != nil {
		return 0, err
	}
	var ss float64
	for _, x := range a {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(a))), nil
}

func fold(a []float64, f func(x, y float64) float64) (float64, error) {
	if len(a) == 0 {
		return 0, ErrEmptyReduction
	}
	acc := a[0]
	for _, x := range a[1:] {
		acc = f(acc, x)
	}
	return acc, nil
}
