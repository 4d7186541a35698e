package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/specarith/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// evalContext is the environment numeric attributes are evaluated in. It has
// no variables, only list-building helpers.
var evalContext = &hcl.EvalContext{
	Functions: map[string]function.Function{
		"range":   stdlib.RangeFunc,
		"concat":  stdlib.ConcatFunc,
		"reverse": stdlib.ReverseListFunc,
		"length":  stdlib.LengthFunc,
		"abs":     stdlib.AbsoluteFunc,
		"max":     stdlib.MaxFunc,
		"min":     stdlib.MinFunc,
	},
}

// translateSpectrum converts a spectrum block into the agnostic model.
func translateSpectrum(b *spectrumBlock) (*config.Spectrum, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	wavelength, d := numberList(b.Wavelength, "wavelength")
	diags = append(diags, d...)
	flux, d := numberList(b.Flux, "flux")
	diags = append(diags, d...)
	if diags.HasErrors() {
		return nil, diags
	}

	if len(wavelength) != len(flux) {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Mismatched sample counts",
			Detail:   fmt.Sprintf("Spectrum %q has %d wavelength samples but %d flux samples.", b.Name, len(wavelength), len(flux)),
			Subject:  b.Flux.Range().Ptr(),
		})
		return nil, diags
	}

	return &config.Spectrum{
		Name:           b.Name,
		SpectralUnit:   b.SpectralUnit,
		FluxUnit:       b.FluxUnit,
		RestWavelength: b.RestWavelength,
		Wavelength:     wavelength,
		Flux:           flux,
		Source:         sourceOf(b.Wavelength.Range()),
	}, diags
}

// translateDerived converts a derived block into the agnostic model.
func translateDerived(b *derivedBlock) (*config.Derived, hcl.Diagnostics) {
	val, diags := b.Expression.Value(evalContext)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, missingArgument(b.Expression, "expression")
	}
	str, err := convert.Convert(val, cty.String)
	if err != nil || str.IsNull() || !str.IsKnown() {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid expression attribute",
			Detail:   "The expression attribute must be a string.",
			Subject:  b.Expression.Range().Ptr(),
		}}
	}
	return &config.Derived{
		Name:       b.Name,
		Expression: str.AsString(),
		Source:     sourceOf(b.Expression.Range()),
	}, nil
}

// missingArgument reports an attribute that is absent or null. gohcl decodes
// an absent hcl.Expression field as a null expression instead of failing.
func missingArgument(expr hcl.Expression, attr string) hcl.Diagnostics {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  "Missing required argument",
		Detail:   fmt.Sprintf("The argument %q is required, but no definition was found.", attr),
		Subject:  expr.Range().Ptr(),
	}}
}

// numberList evaluates expr and decodes it as a list of numbers.
func numberList(expr hcl.Expression, attr string) ([]float64, hcl.Diagnostics) {
	val, diags := expr.Value(evalContext)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, missingArgument(expr, attr)
	}

	listVal, err := convert.Convert(val, cty.List(cty.Number))
	if err != nil || val.IsNull() {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid " + attr,
			Detail:   fmt.Sprintf("The %s attribute must be a list of numbers, not %s.", attr, val.Type().FriendlyName()),
			Subject:  expr.Range().Ptr(),
		}}
	}

	var out []float64
	if err := gocty.FromCtyValue(listVal, &out); err != nil {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid " + attr,
			Detail:   err.Error(),
			Subject:  expr.Range().Ptr(),
		}}
	}
	return out, nil
}

func sourceOf(rng hcl.Range) string {
	return fmt.Sprintf("%s:%d", rng.Filename, rng.Start.Line)
}
