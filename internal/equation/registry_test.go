package equation_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vk/specarith/internal/equation"
	"pgregory.net/rapid"
)

func TestRegistry_RoundTrip(t *testing.T) {
	r := equation.NewRegistry()

	stored, err := r.AddOrUpdate(equation.Equation{Name: " doubled ", Expression: "{flux1} * 2"}, equation.ModeAdd)
	require.NoError(t, err)
	require.Equal(t, "doubled", stored.Name)
	require.Equal(t, equation.StateConfirmed, stored.State)

	got, ok := r.FindByName("doubled")
	require.True(t, ok)
	require.Equal(t, "{flux1} * 2", got.Expression)
	require.Equal(t, 0, got.Revision)

	_, ok = r.FindByName("missing")
	require.False(t, ok)
}

func TestRegistry_NamesAreTrimmedOnLookup(t *testing.T) {
	r := equation.NewRegistry()
	_, err := r.AddOrUpdate(equation.Equation{Name: " A ", Expression: "{x}"}, equation.ModeAdd)
	require.NoError(t, err)

	got, ok := r.FindByName("  A\t")
	require.True(t, ok)
	require.Equal(t, "A", got.Name)

	removed, err := r.Remove(" A ")
	require.NoError(t, err)
	require.Equal(t, "A", removed.Name)
	require.Zero(t, r.Len())

	_, err = r.Remove(" A ")
	require.ErrorIs(t, err, equation.ErrNotFound)
}

func TestRegistry_DuplicateAndEdit(t *testing.T) {
	r := equation.NewRegistry()
	_, err := r.AddOrUpdate(equation.Equation{Name: "A", Expression: "{x}"}, equation.ModeAdd)
	require.NoError(t, err)

	_, err = r.AddOrUpdate(equation.Equation{Name: "A", Expression: "{x} * 3"}, equation.ModeAdd)
	require.ErrorIs(t, err, equation.ErrDuplicateName)

	id := uuid.New()
	edited, err := r.AddOrUpdate(equation.Equation{Name: "A", Expression: "{x} * 3", References: []string{"x"}, DataID: id}, equation.ModeEdit)
	require.NoError(t, err)
	require.Equal(t, 1, edited.Revision)
	require.Equal(t, id, edited.DataID)

	got, _ := r.FindByName("A")
	require.Equal(t, "{x} * 3", got.Expression)
	require.Equal(t, []string{"x"}, got.References)
	require.Equal(t, 1, r.Len())
}

func TestRegistry_EditOfUnknownNameAppends(t *testing.T) {
	r := equation.NewRegistry()
	_, err := r.AddOrUpdate(equation.Equation{Name: "A"}, equation.ModeAdd)
	require.NoError(t, err)
	_, err = r.AddOrUpdate(equation.Equation{Name: "B"}, equation.ModeEdit)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B"}, r.Names())
}

func TestRegistry_RemoveTwice(t *testing.T) {
	r := equation.NewRegistry()
	_, err := r.AddOrUpdate(equation.Equation{Name: "A"}, equation.ModeAdd)
	require.NoError(t, err)

	removed, err := r.Remove("A")
	require.NoError(t, err)
	require.Equal(t, equation.StateRemoved, removed.State)

	_, err = r.Remove("A")
	require.ErrorIs(t, err, equation.ErrNotFound)
	require.Empty(t, r.Names())
}

func TestRegistry_EmptyName(t *testing.T) {
	r := equation.NewRegistry()
	_, err := r.AddOrUpdate(equation.Equation{Name: "  "}, equation.ModeAdd)
	require.ErrorIs(t, err, equation.ErrEmptyName)
}

func TestRegistry_ReturnsCopies(t *testing.T) {
	r := equation.NewRegistry()
	_, err := r.AddOrUpdate(equation.Equation{Name: "A", References: []string{"x"}}, equation.ModeAdd)
	require.NoError(t, err)

	list := r.List()
	list[0].References[0] = "mutated"
	list[0].Expression = "mutated"

	got, _ := r.FindByName("A")
	require.Equal(t, []string{"x"}, got.References)
	require.Empty(t, got.Expression)
}

// TestRegistry_UniqueNamesProperty drives random add/edit/remove sequences and
// checks the registry against a simple model after every step.
func TestRegistry_UniqueNamesProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := equation.NewRegistry()
		var model []string

		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			name := rapid.SampledFrom([]string{"a", "b", "c", "d"}).Draw(rt, "name")
			present := contains(model, name)

			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0:
				_, err := r.AddOrUpdate(equation.Equation{Name: name}, equation.ModeAdd)
				if present && err == nil {
					rt.Fatalf("duplicate add of %q succeeded", name)
				}
				if !present {
					if err != nil {
						rt.Fatalf("add of %q failed: %v", name, err)
					}
					model = append(model, name)
				}
			case 1:
				if _, err := r.AddOrUpdate(equation.Equation{Name: name, Expression: "e"}, equation.ModeEdit); err != nil {
					rt.Fatalf("edit of %q failed: %v", name, err)
				}
				if !present {
					model = append(model, name)
				}
			case 2:
				_, err := r.Remove(name)
				if present != (err == nil) {
					rt.Fatalf("remove of %q: present=%v err=%v", name, present, err)
				}
				if present {
					model = without(model, name)
				}
			}

			names := r.Names()
			if len(names) != len(model) {
				rt.Fatalf("names %v, model %v", names, model)
			}
			seen := map[string]bool{}
			for j, n := range names {
				if seen[n] {
					rt.Fatalf("name %q appears twice in %v", n, names)
				}
				seen[n] = true
				if model[j] != n {
					rt.Fatalf("order %v differs from model %v", names, model)
				}
			}
		}
	})
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func without(s []string, v string) []string {
	out := s[:0:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
