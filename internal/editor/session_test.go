package editor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/specarith/internal/arithexpr"
	"github.com/vk/specarith/internal/ctxlog"
	"github.com/vk/specarith/internal/editor"
	"github.com/vk/specarith/internal/equation"
	"github.com/vk/specarith/internal/spectrum"
	"github.com/vk/specarith/internal/workspace"
)

func newSession(t *testing.T) (*editor.Session, *workspace.Memory) {
	t.Helper()
	coll := workspace.NewMemory()
	s, err := spectrum.New([]float64{1, 2, 3}, []float64{1, 2, 3}, "nm", "Jy")
	require.NoError(t, err)
	_, err = coll.AddData(workspace.DataObject{Spectrum: s}, "flux1")
	require.NoError(t, err)
	return editor.NewSession(coll, equation.NewRegistry(), validator(), ctxlog.Discard()), coll
}

func TestSession_NoData(t *testing.T) {
	sess := editor.NewSession(workspace.NewMemory(), equation.NewRegistry(), validator(), ctxlog.Discard())
	_, err := sess.BeginAdd()
	require.ErrorIs(t, err, editor.ErrNoData)
}

func TestSession_AddPublishesDerivedData(t *testing.T) {
	sess, coll := newSession(t)

	ed, err := sess.BeginAdd()
	require.NoError(t, err)
	ed.Update("doubled", "{flux1} * 2")

	eq, err := sess.Confirm(ed)
	require.NoError(t, err)
	require.Equal(t, equation.StateConfirmed, eq.State)
	require.Equal(t, []string{"flux1"}, eq.References)

	obj, ok := workspace.FindByName(coll.ListDataItems(), "doubled")
	require.True(t, ok)
	require.Equal(t, eq.DataID, obj.Identifier)
	require.Equal(t, []float64{2, 4, 6}, obj.Spectrum.Flux)

	_, err = sess.Confirm(ed)
	require.ErrorIs(t, err, editor.ErrClosed)
}

func TestSession_ConfirmUsesLatestInput(t *testing.T) {
	coll := workspace.NewMemory()
	s, err := spectrum.New([]float64{1, 2, 3}, []float64{1, 2, 3}, "nm", "Jy")
	require.NoError(t, err)
	_, err = coll.AddData(workspace.DataObject{Spectrum: s}, "flux1")
	require.NoError(t, err)

	slow := make(chan struct{})
	checker := &gatedChecker{inner: validator(), gates: map[string]chan struct{}{"{flux1} * 3": slow}}
	sess := editor.NewSession(coll, equation.NewRegistry(), checker, ctxlog.Discard())

	ed, err := sess.BeginAdd()
	require.NoError(t, err)
	require.True(t, ed.Update("x", "{flux1} * 2").OK())

	ed.UpdateAsync(context.Background(), "x", "{flux1} * 3")
	name, expr := ed.Latest()
	require.Equal(t, "x", name)
	require.Equal(t, "{flux1} * 3", expr)
	require.Equal(t, "{flux1} * 2", ed.Expression(), "the background check is still pending")

	done := make(chan struct{})
	var eq equation.Equation
	go func() {
		defer close(done)
		eq, err = sess.Confirm(ed)
	}()
	close(slow)
	<-done
	ed.Wait()

	require.NoError(t, err)
	require.Equal(t, "{flux1} * 3", eq.Expression)
	require.Equal(t, []float64{3, 6, 9}, eq.Result.Flux)

	obj, ok := workspace.FindByName(coll.ListDataItems(), "x")
	require.True(t, ok)
	require.Equal(t, []float64{3, 6, 9}, obj.Spectrum.Flux)
}

func TestSession_ConfirmRequiresValidOutcome(t *testing.T) {
	sess, coll := newSession(t)
	ed, err := sess.BeginAdd()
	require.NoError(t, err)

	ed.Update("bad", "{flux1} *")
	_, err = sess.Confirm(ed)
	require.ErrorIs(t, err, editor.ErrNotConfirmable)
	require.Len(t, coll.ListDataItems(), 1)
	require.Zero(t, sess.Registry().Len())
}

// A second add of an existing name is refused while editing that name works.
func TestSession_DuplicateAddThenEdit(t *testing.T) {
	sess, coll := newSession(t)

	_, _, err := sess.Apply("A", "{flux1} * 2")
	require.NoError(t, err)

	ed, err := sess.BeginAdd()
	require.NoError(t, err)
	require.Equal(t, arithexpr.DuplicateName, ed.Update("A", "{flux1} * 5").Kind)
	sess.Cancel(ed)

	ed, err = sess.BeginEdit("A")
	require.NoError(t, err)
	_, ok := workspace.FindByName(coll.ListDataItems(), "A")
	require.False(t, ok, "the derived object is withdrawn while editing")

	require.True(t, ed.Update("A", "{flux1} * 5").OK())
	eq, err := sess.Confirm(ed)
	require.NoError(t, err)
	require.Equal(t, 1, eq.Revision)

	obj, ok := workspace.FindByName(coll.ListDataItems(), "A")
	require.True(t, ok)
	require.Equal(t, []float64{5, 10, 15}, obj.Spectrum.Flux)
	require.Equal(t, []string{"A"}, sess.Registry().Names())
}

func TestSession_CancelEditRestoresData(t *testing.T) {
	sess, coll := newSession(t)
	orig, _, err := sess.Apply("A", "{flux1} * 2")
	require.NoError(t, err)

	ed, err := sess.BeginEdit("A")
	require.NoError(t, err)
	ed.Update("A", "{flux1} +")
	sess.Cancel(ed)
	sess.Cancel(ed) // second cancel is a no-op

	obj, ok := workspace.FindByName(coll.ListDataItems(), "A")
	require.True(t, ok)
	require.Equal(t, orig.DataID, obj.Identifier)
	got, _ := sess.Registry().FindByName("A")
	require.Equal(t, "{flux1} * 2", got.Expression)
}

func TestSession_DerivedNamesCannotShadowData(t *testing.T) {
	sess, _ := newSession(t)
	ed, err := sess.BeginAdd()
	require.NoError(t, err)
	require.Equal(t, arithexpr.DuplicateName, ed.Update("flux1", "{flux1} * 2").Kind)
}

func TestSession_ChainedEquations(t *testing.T) {
	sess, _ := newSession(t)
	_, _, err := sess.Apply("doubled", "{flux1} * 2")
	require.NoError(t, err)

	eq, _, err := sess.Apply("quadrupled", "{doubled} * 2")
	require.NoError(t, err)
	require.Equal(t, []float64{4, 8, 12}, eq.Result.Flux)
	require.Equal(t, []string{"doubled"}, eq.References)
}

func TestSession_Remove(t *testing.T) {
	sess, coll := newSession(t)
	_, _, err := sess.Apply("A", "{flux1} * 2")
	require.NoError(t, err)

	require.NoError(t, sess.Remove("A"))
	_, ok := workspace.FindByName(coll.ListDataItems(), "A")
	require.False(t, ok)

	err = sess.Remove("A")
	require.ErrorIs(t, err, equation.ErrNotFound)

	_, err = sess.BeginEdit("A")
	require.ErrorIs(t, err, equation.ErrNotFound)
}

func TestSession_ApplyReportsOutcome(t *testing.T) {
	sess, _ := newSession(t)
	_, out, err := sess.Apply("A", "{nope} + 1")
	require.ErrorIs(t, err, editor.ErrNotConfirmable)
	require.Equal(t, arithexpr.EvaluationError, out.Kind)
}
