package spectrum

import (
	"errors"
	"fmt"
	"slices"
)

// ErrLengthMismatch is returned when two arrays that must line up elementwise
// have different lengths.
var ErrLengthMismatch = errors.New("array lengths differ")

// Spectrum is a flux array sampled on a spectral axis.
type Spectrum struct {
	Wavelength     []float64
	Flux           []float64
	SpectralUnit   string
	FluxUnit       string
	RestWavelength float64 // 0 when unset; required for velocity
}

// New builds a Spectrum and checks that the axis and flux line up.
func New(wavelength, flux []float64, spectralUnit, fluxUnit string) (*Spectrum, error) {
	if len(wavelength) != len(flux) {
		return nil, fmt.Errorf("spectrum: %w: %d wavelength samples, %d flux samples", ErrLengthMismatch, len(wavelength), len(flux))
	}
	if spectralUnit == "" {
		spectralUnit = DefaultSpectralUnit
	}
	if _, err := metersPer(spectralUnit); err != nil {
		return nil, err
	}
	return &Spectrum{
		Wavelength:   slices.Clone(wavelength),
		Flux:         slices.Clone(flux),
		SpectralUnit: spectralUnit,
		FluxUnit:     fluxUnit,
	}, nil
}

// Len returns the number of samples.
func (s *Spectrum) Len() int {
	return len(s.Flux)
}

// Clone returns a deep copy.
func (s *Spectrum) Clone() *Spectrum {
	c := *s
	c.Wavelength = slices.Clone(s.Wavelength)
	c.Flux = slices.Clone(s.Flux)
	return &c
}

// WithFlux returns a new spectrum on the same spectral axis carrying the given
// flux values and unit. The axis slice is shared; spectra are never mutated
// in place once published.
func (s *Spectrum) WithFlux(flux []float64, fluxUnit string) *Spectrum {
	return &Spectrum{
		Wavelength:     s.Wavelength,
		Flux:           flux,
		SpectralUnit:   s.SpectralUnit,
		FluxUnit:       fluxUnit,
		RestWavelength: s.RestWavelength,
	}
}

// SameAxis reports whether two spectra are sampled on an identical axis.
func (s *Spectrum) SameAxis(o *Spectrum) bool {
	return s.SpectralUnit == o.SpectralUnit && slices.Equal(s.Wavelength, o.Wavelength)
}

// Component returns one of the named per-sample arrays of the spectrum.
func (s *Spectrum) Component(name string) ([]float64, error) {
	switch name {
	case "flux":
		return slices.Clone(s.Flux), nil
	case "wavelength":
		return slices.Clone(s.Wavelength), nil
	case "frequency":
		return s.Frequency()
	case "velocity":
		return s.Velocity()
	default:
		return nil, fmt.Errorf("spectrum has no component %q (expected one of %v)", name, Components)
	}
}

// Components lists the names accepted by Component.
var Components = []string{"wavelength", "velocity", "frequency", "flux"}

// String summarises the spectrum for logs and CLI output.
func (s *Spectrum) String() string {
	if s.Len() == 0 {
		return "spectrum(empty)"
	}
	lo, _ := Min(s.Flux)
	hi, _ := Max(s.Flux)
	unit := s.FluxUnit
	if unit == "" {
		unit = "dimensionless"
	}
	return fmt.Sprintf("spectrum(%d points, %g..%g %s, flux %g..%g %s)",
		s.Len(), s.Wavelength[0], s.Wavelength[len(s.Wavelength)-1], s.SpectralUnit, lo, hi, unit)
}
