// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

// Model is the unified representation of one or more session files.
type Model struct {
	Spectra []*Spectrum
	Derived []*Derived
}

// Spectrum is a source spectrum declared in a session file.
type Spectrum struct {
	Name           string
	SpectralUnit   string
	FluxUnit       string
	RestWavelength float64
	Wavelength     []float64
	Flux           []float64
	Source         string // file:line of the declaration, for messages
}

// Derived is a derived equation declared in a session file.
type Derived struct {
	Name       string
	Expression string
	Source     string
}
