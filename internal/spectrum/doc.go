// Package spectrum holds the one-dimensional spectral payload that derived
// expressions operate on: a spectral axis, a flux array and their units.
//
// The package deliberately knows nothing about expressions or workspaces. It
// provides the elementwise kernels and reductions the arithmetic evaluator
// builds on, with numpy-like semantics for NaN and division by zero.
package spectrum
