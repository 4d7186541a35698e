// Package hcl provides the HCL implementation of config.Loader. It is
// responsible for file discovery, parsing, and translating `spectrum` and
// `derived` blocks into the format-agnostic config.Model.
//
// Numeric attributes are ordinary HCL expressions evaluated with a small
// function library, so a session file can write
//
//	wavelength = range(6500, 6600, 10)
//
// instead of listing every sample.
package hcl
