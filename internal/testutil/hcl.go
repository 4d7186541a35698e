package testutil

import (
	"fmt"
	"strconv"
	"strings"
)

// SpectrumHCL renders a spectrum block for a session file.
func SpectrumHCL(name, fluxUnit string, wavelength, flux []float64) string {
	return fmt.Sprintf(`
spectrum %q {
  flux_unit  = %q
  wavelength = %s
  flux       = %s
}
`, name, fluxUnit, list(wavelength), list(flux))
}

// DerivedHCL renders a derived block for a session file.
func DerivedHCL(name, expression string) string {
	return fmt.Sprintf("\nderived %q {\n  expression = %q\n}\n", name, expression)
}

func list(xs []float64) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
