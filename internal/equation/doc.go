// Package equation tracks the derived equations defined in a session.
//
// An Equation moves through Proposed -> Confirmed -> (Edited* | Removed).
// Proposed lives only in the editor; the Registry holds Confirmed entries,
// re-confirms them on edit and marks them Removed when they are deleted. The
// Registry is the sole owner of its entries and guarantees that no two share a
// name.
package equation
