package spectrum

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultSpectralUnit is assumed when a spectrum does not name its axis unit.
const DefaultSpectralUnit = "Angstrom"

// SpeedOfLight in m/s.
const SpeedOfLight = 299792458.0

// ErrIncompatibleUnits is returned when flux units cannot be combined.
var ErrIncompatibleUnits = errors.New("incompatible flux units")

var spectralScale = map[string]float64{
	"angstrom": 1e-10,
	"aa":       1e-10,
	"nm":       1e-9,
	"um":       1e-6,
	"micron":   1e-6,
	"mm":       1e-3,
	"cm":       1e-2,
	"m":        1,
}

func metersPer(unit string) (float64, error) {
	scale, ok := spectralScale[strings.ToLower(unit)]
	if !ok {
		return 0, fmt.Errorf("unsupported spectral unit %q", unit)
	}
	return scale, nil
}

// Frequency converts the spectral axis to Hz.
func (s *Spectrum) Frequency() ([]float64, error) {
	scale, err := metersPer(s.SpectralUnit)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(s.Wavelength))
	for i, w := range s.Wavelength {
		out[i] = SpeedOfLight / (w * scale)
	}
	return out, nil
}

// Velocity converts the spectral axis to a Doppler velocity in km/s relative
// to RestWavelength, using the optical convention.
func (s *Spectrum) Velocity() ([]float64, error) {
	if s.RestWavelength == 0 {
		return nil, errors.New("velocity requires a rest wavelength")
	}
	out := make([]float64, len(s.Wavelength))
	for i, w := range s.Wavelength {
		out[i] = SpeedOfLight / 1000 * (w - s.RestWavelength) / s.RestWavelength
	}
	return out, nil
}

// CombineUnits derives the flux unit of a binary operation between two
// spectra. Units are treated as opaque labels: addition and subtraction
// require equal labels, products and quotients compose them with compound
// operands in parentheses.
func CombineUnits(op byte, a, b string) (string, error) {
	switch op {
	case '+', '-', '%':
		if a != b {
			return "", fmt.Errorf("%w: %q %c %q", ErrIncompatibleUnits, unitLabel(a), op, unitLabel(b))
		}
		return a, nil
	case '*':
		switch {
		case a == "":
			return b, nil
		case b == "":
			return a, nil
		}
		return group(a) + " * " + group(b), nil
	case '/':
		switch {
		case a == b:
			return "", nil
		case b == "":
			return a, nil
		case a == "":
			return "1 / " + group(b), nil
		}
		return group(a) + " / " + group(b), nil
	}
	return "", fmt.Errorf("unknown operator %q", op)
}

// group parenthesizes a unit that is itself a product or quotient.
func group(u string) string {
	if strings.Contains(u, " * ") || strings.Contains(u, " / ") {
		return "(" + u + ")"
	}
	return u
}

func unitLabel(u string) string {
	if u == "" {
		return "dimensionless"
	}
	return u
}
