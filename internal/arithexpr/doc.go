// Package arithexpr validates and evaluates user-typed arithmetic on named
// spectra, such as
//
//	({flux1} - np.min({flux1})) / np.ptp({flux1})
//
// Evaluation happens in three stages:
//
//  1. A structural scan replaces every `{name}` placeholder with a call to the
//     accessor `data("name")` and folds `np.fn(` / `math.fn(` calls onto the
//     shared function table.
//  2. The rewritten text is parsed with the HCL expression grammar
//     (hclsyntax), which gives positioned syntax diagnostics for free.
//  3. A restricted tree-walking evaluator computes the result. Only the
//     accessor, the operators, and the whitelisted functions and constants in
//     functions.go are reachable from an expression; there is no path to the
//     file system, processes or the network.
//
// The Validator wraps evaluation and classifies every outcome as an Outcome
// value. It never returns a Go error and never panics past its boundary.
package arithexpr
