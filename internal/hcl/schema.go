package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot decodes all top-level blocks of a session file.
type fileRoot struct {
	Spectra []*spectrumBlock `hcl:"spectrum,block"`
	Derived []*derivedBlock  `hcl:"derived,block"`
}

// spectrumBlock is a `spectrum "<name>" { ... }` block.
type spectrumBlock struct {
	Name           string         `hcl:"name,label"`
	SpectralUnit   string         `hcl:"spectral_unit,optional"`
	FluxUnit       string         `hcl:"flux_unit,optional"`
	RestWavelength float64        `hcl:"rest_wavelength,optional"`
	Wavelength     hcl.Expression `hcl:"wavelength"`
	Flux           hcl.Expression `hcl:"flux"`
}

// derivedBlock is a `derived "<name>" { expression = "..." }` block.
type derivedBlock struct {
	Name       string         `hcl:"name,label"`
	Expression hcl.Expression `hcl:"expression"`
}
