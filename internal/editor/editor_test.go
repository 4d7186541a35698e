package editor_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/specarith/internal/arithexpr"
	"github.com/vk/specarith/internal/ctxlog"
	"github.com/vk/specarith/internal/editor"
	"github.com/vk/specarith/internal/equation"
	"github.com/vk/specarith/internal/spectrum"
	"github.com/vk/specarith/internal/workspace"
)

// staticEnv is an Env over fixed inputs.
type staticEnv struct {
	known    []workspace.DataObject
	existing []string
}

func (e staticEnv) Known() []workspace.DataObject { return e.known }
func (e staticEnv) Existing() []string            { return e.existing }

func newEnv(t *testing.T, existing ...string) staticEnv {
	t.Helper()
	s, err := spectrum.New([]float64{1, 2, 3}, []float64{1, 2, 3}, "nm", "Jy")
	require.NoError(t, err)
	return staticEnv{
		known:    []workspace.DataObject{{Name: "flux1", Spectrum: s}},
		existing: existing,
	}
}

// gatedChecker blocks each check on expressions listed in gates until the
// matching channel is closed.
type gatedChecker struct {
	inner editor.Checker
	mu    sync.Mutex
	gates map[string]chan struct{}
}

func (g *gatedChecker) Validate(name, raw string, known []workspace.DataObject, existing []string, addMode bool) arithexpr.Outcome {
	g.mu.Lock()
	gate := g.gates[raw]
	g.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return g.inner.Validate(name, raw, known, existing, addMode)
}

func validator() *arithexpr.Validator {
	return arithexpr.NewValidator(ctxlog.Discard())
}

func TestEditor_AddModeLifecycle(t *testing.T) {
	ed := editor.New(validator(), newEnv(t, "A"))
	require.Equal(t, equation.ModeAdd, ed.Mode())
	require.Equal(t, arithexpr.Empty, ed.Outcome().Kind)
	require.False(t, ed.CanConfirm())

	require.Equal(t, arithexpr.DuplicateName, ed.Update("A", "{flux1}").Kind)
	require.Equal(t, arithexpr.NoContent, ed.Update("B", "").Kind)

	msg, sev := ed.Status()
	require.Empty(t, msg)
	require.Equal(t, arithexpr.SeverityNeutral, sev)

	out := ed.Update("B", "{flux1} * 2")
	require.True(t, out.OK())
	require.True(t, ed.CanConfirm())

	p := ed.Proposal()
	require.Equal(t, "B", p.Name)
	require.Equal(t, equation.StateProposed, p.State)
	require.Equal(t, []float64{2, 4, 6}, p.Result.Flux)
}

func TestEditor_Memoizes(t *testing.T) {
	ed := editor.New(validator(), newEnv(t))
	base := ed.Evaluations()

	ed.Update("B", "{flux1} * 2")
	ed.Update("B", "{flux1} * 2")
	ed.Update("B", "  {flux1} * 2\n")
	require.Equal(t, base+1, ed.Evaluations(), "identical input must not re-evaluate")

	ed.Update("B", "{flux1} * 3")
	require.Equal(t, base+2, ed.Evaluations())
}

func TestEditor_EditModeNameIsFixed(t *testing.T) {
	eq := equation.Equation{Name: "A", Expression: "{flux1} * 2"}
	ed := editor.NewEdit(validator(), newEnv(t, "A"), eq)
	require.Equal(t, equation.ModeEdit, ed.Mode())
	require.True(t, ed.CanConfirm(), "editing must skip the duplicate check")

	ed.Update("renamed", "{flux1} * 3")
	require.Equal(t, "A", ed.Name())
	require.Equal(t, []float64{3, 6, 9}, ed.Outcome().Result.Flux)
}

func TestEditor_AsyncDiscardsStaleResults(t *testing.T) {
	slow := make(chan struct{})
	checker := &gatedChecker{inner: validator(), gates: map[string]chan struct{}{"{flux1} * 2": slow}}
	ed := editor.New(checker, newEnv(t))

	ctx := context.Background()
	ed.UpdateAsync(ctx, "B", "{flux1} * 2") // blocks until released
	ed.UpdateAsync(ctx, "B", "{flux1} * 3") // finishes first

	// Let the newer check land, then release the stale one.
	require.Eventually(t, func() bool { return ed.Outcome().OK() }, testTimeout, testTick)
	close(slow)
	ed.Wait()

	require.Equal(t, "{flux1} * 3", ed.Expression())
	require.Equal(t, []float64{3, 6, 9}, ed.Outcome().Result.Flux)
}

func TestEditor_AsyncCancelledContext(t *testing.T) {
	ed := editor.New(validator(), newEnv(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ed.UpdateAsync(ctx, "B", "{flux1} * 2")
	ed.Wait()
	require.Equal(t, arithexpr.Empty, ed.Outcome().Kind)
}

func TestEditor_SyncSupersedesAsync(t *testing.T) {
	slow := make(chan struct{})
	checker := &gatedChecker{inner: validator(), gates: map[string]chan struct{}{"{flux1} * 2": slow}}
	ed := editor.New(checker, newEnv(t))

	ed.UpdateAsync(context.Background(), "B", "{flux1} * 2")
	out := ed.Update("B", "{flux1} *")
	require.Equal(t, arithexpr.SyntaxError, out.Kind)

	close(slow)
	ed.Wait()
	require.Equal(t, arithexpr.SyntaxError, ed.Outcome().Kind)
}
