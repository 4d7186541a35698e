package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/specarith/internal/arithexpr"
)

// AssertOutcome checks that the named derived equation ended with the given
// outcome kind.
func AssertOutcome(t *testing.T, result *HarnessResult, name string, kind arithexpr.Kind) {
	t.Helper()

	res, ok := result.Find(name)
	require.True(t, ok, "no result for derived equation %q", name)
	require.Equal(t, kind.String(), res.Outcome.Kind.String(), "derived equation %q: %v", name, res.Err)
}

// AssertFlux checks that the named derived equation is valid and produced
// the given flux values.
func AssertFlux(t *testing.T, result *HarnessResult, name string, want []float64) {
	t.Helper()

	AssertOutcome(t, result, name, arithexpr.Valid)
	res, _ := result.Find(name)
	require.NotNil(t, res.Equation.Result)
	require.InDeltaSlice(t, want, res.Equation.Result.Flux, 1e-9, "derived equation %q", name)
}
