package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load_SpectraAndDerived(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "session.hcl", `
spectrum "flux1" {
  spectral_unit   = "Angstrom"
  flux_unit       = "Jy"
  rest_wavelength = 6563
  wavelength      = [6500, 6550, 6600]
  flux            = [1, 2, 3]
}

derived "doubled" {
  expression = "{flux1} * 2"
}
`)

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, model.Spectra, 1)
	require.Len(t, model.Derived, 1)

	s := model.Spectra[0]
	require.Equal(t, "flux1", s.Name)
	require.Equal(t, "Angstrom", s.SpectralUnit)
	require.Equal(t, "Jy", s.FluxUnit)
	require.Equal(t, 6563.0, s.RestWavelength)
	require.Equal(t, []float64{6500, 6550, 6600}, s.Wavelength)
	require.Equal(t, []float64{1, 2, 3}, s.Flux)
	require.Contains(t, s.Source, "session.hcl:")

	d := model.Derived[0]
	require.Equal(t, "doubled", d.Name)
	require.Equal(t, "{flux1} * 2", d.Expression)
}

func TestLoader_Load_RangeFunction(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.hcl", `
spectrum "ramp" {
  wavelength = range(1000, 1005)
  flux       = reverse(range(5))
}
`)

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, model.Spectra, 1)
	require.Equal(t, []float64{1000, 1001, 1002, 1003, 1004}, model.Spectra[0].Wavelength)
	require.Equal(t, []float64{4, 3, 2, 1, 0}, model.Spectra[0].Flux)
}

func TestLoader_Load_MergesFilesInLexicalOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.hcl", `derived "second" { expression = "{s} + 1" }`)
	writeFile(t, dir, "a.hcl", `
spectrum "s" {
  wavelength = [1, 2]
  flux       = [3, 4]
}
derived "first" { expression = "{s}" }
`)

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, model.Derived, 2)
	require.Equal(t, "first", model.Derived[0].Name)
	require.Equal(t, "second", model.Derived[1].Name)
}

func TestLoader_Load_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "length mismatch",
			content: `spectrum "s" {
  wavelength = [1, 2, 3]
  flux       = [1, 2]
}`,
			wantErr: "Mismatched sample counts",
		},
		{
			name: "non numeric flux",
			content: `spectrum "s" {
  wavelength = [1, 2]
  flux       = ["a", "b"]
}`,
			wantErr: "Invalid flux",
		},
		{
			name: "duplicate spectrum",
			content: `spectrum "s" {
  wavelength = [1]
  flux       = [1]
}
spectrum "s" {
  wavelength = [2]
  flux       = [2]
}`,
			wantErr: `Duplicate spectrum "s"`,
		},
		{
			name: "duplicate derived",
			content: `derived "x" { expression = "1" }
derived "x" { expression = "2" }`,
			wantErr: `Duplicate derived "x"`,
		},
		{
			name:    "missing expression",
			content: `derived "x" {}`,
			wantErr: "Missing required argument",
		},
		{
			name:    "null expression",
			content: `derived "x" { expression = null }`,
			wantErr: `The argument "expression" is required`,
		},
		{
			name: "missing flux",
			content: `spectrum "s" {
  wavelength = [1, 2]
}`,
			wantErr: `The argument "flux" is required`,
		},
		{
			name:    "unknown block",
			content: `plot "p" {}`,
			wantErr: "failed to decode",
		},
		{
			name:    "syntax error",
			content: `spectrum "s" {`,
			wantErr: "failed to parse",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "session.hcl", tc.content)

			_, err := NewLoader().Load(context.Background(), dir)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoader_Load_NoFiles(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), t.TempDir())
	require.ErrorContains(t, err, "no .hcl session files found")
}

func TestLoader_Load_MissingPath(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent.hcl"))
	require.ErrorContains(t, err, "error accessing path")
}

func TestLoader_Load_SingleFileDeduplicated(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "one.hcl", `derived "x" { expression = "1" }`)

	model, err := NewLoader().Load(context.Background(), path, dir, path)
	require.NoError(t, err)
	require.Len(t, model.Derived, 1)
}
