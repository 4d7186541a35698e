package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/specarith/internal/config"
	"github.com/vk/specarith/internal/ctxlog"
	"github.com/vk/specarith/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL session loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under paths and merges their blocks into one
// model. Spectrum and derived names must be unique across all files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindAll(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl session files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := &config.Model{}
	parser := hclparse.NewParser()
	spectra := make(map[string]hcl.Range)
	derived := make(map[string]hcl.Range)

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, block := range root.Spectra {
			rng := block.Wavelength.Range()
			if prev, dup := spectra[block.Name]; dup {
				return nil, duplicateBlock("spectrum", block.Name, rng, prev)
			}
			spectra[block.Name] = rng

			s, diags := translateSpectrum(block)
			if diags.HasErrors() {
				return nil, fmt.Errorf("invalid spectrum %q in %s: %w", block.Name, file, diags)
			}
			model.Spectra = append(model.Spectra, s)
		}

		for _, block := range root.Derived {
			rng := block.Expression.Range()
			if prev, dup := derived[block.Name]; dup {
				return nil, duplicateBlock("derived", block.Name, rng, prev)
			}
			derived[block.Name] = rng

			d, diags := translateDerived(block)
			if diags.HasErrors() {
				return nil, fmt.Errorf("invalid derived equation %q in %s: %w", block.Name, file, diags)
			}
			model.Derived = append(model.Derived, d)
		}
	}

	logger.Debug("HCL loading complete.", "spectra", len(model.Spectra), "derived", len(model.Derived))
	return model, nil
}

func duplicateBlock(kind, name string, rng, prev hcl.Range) error {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  fmt.Sprintf("Duplicate %s %q", kind, name),
		Detail:   fmt.Sprintf("A %s named %q was already declared at %s.", kind, name, prev.String()),
		Subject:  rng.Ptr(),
	}}
}
