package integration_tests

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/specarith/internal/app"
	"github.com/vk/specarith/internal/testutil"
)

// TestErrorHandling_InvalidSessionIsRejected validates that malformed session
// files stop the app before any equation runs.
func TestErrorHandling_InvalidSessionIsRejected(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "hcl syntax error",
			files:   map[string]string{"bad.hcl": `spectrum "a" {`},
			wantErr: "failed to parse HCL file",
		},
		{
			name: "duplicate spectrum across files",
			files: map[string]string{
				"a.hcl": testutil.SpectrumHCL("s", "", []float64{1}, []float64{1}),
				"b.hcl": testutil.SpectrumHCL("s", "", []float64{2}, []float64{2}),
			},
			wantErr: `Duplicate spectrum "s"`,
		},
		{
			name:    "sample count mismatch",
			files:   map[string]string{"a.hcl": testutil.SpectrumHCL("s", "", []float64{1, 2}, []float64{1})},
			wantErr: "Mismatched sample counts",
		},
		{
			name:    "unknown block",
			files:   map[string]string{"a.hcl": `plot "p" {}`},
			wantErr: "failed to decode HCL file",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := testutil.RunSessionTest(t, tc.files)

			require.Error(t, result.Err)
			require.Contains(t, result.Err.Error(), "application startup panicked")
			require.Contains(t, result.Err.Error(), tc.wantErr)
			require.Nil(t, result.App)
		})
	}
}

// TestErrorHandling_UnknownSpectralUnit validates that spectra are checked
// when they are published.
func TestErrorHandling_UnknownSpectralUnit(t *testing.T) {
	t.Parallel()
	files := map[string]string{"a.hcl": `
spectrum "s" {
  spectral_unit = "parsec"
  wavelength    = [1]
  flux          = [1]
}`}

	result := testutil.RunSessionTest(t, files)

	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), `spectrum "s"`)
}

// TestErrorHandling_CheckModeFailsRun validates that check mode turns invalid
// equations into a run error while still reporting every equation.
func TestErrorHandling_CheckModeFailsRun(t *testing.T) {
	t.Parallel()
	files := map[string]string{
		"session.hcl": testutil.SpectrumHCL("s", "", []float64{1, 2}, []float64{1, 2}) +
			testutil.DerivedHCL("good", "{s} * 2") +
			testutil.DerivedHCL("bad", "{s} ** 2"),
	}

	result := testutil.RunSessionTest(t, files, func(c *app.Config) { c.Check = true })

	require.True(t, errors.Is(result.Err, app.ErrInvalidEquations))
	require.Contains(t, result.Err.Error(), "1 of 2")
	require.Contains(t, result.Output, "good\tvalid\n")
	require.Contains(t, result.Output, "bad\tsyntax_error")
}
