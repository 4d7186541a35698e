package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vk/specarith/internal/arithexpr"
	"github.com/vk/specarith/internal/ctxlog"
	"github.com/vk/specarith/internal/editor"
	"github.com/vk/specarith/internal/equation"
	"github.com/vk/specarith/internal/spectrum"
	"github.com/vk/specarith/internal/workspace"
)

// ErrInvalidEquations is returned by Run in check mode when at least one
// derived equation did not validate.
var ErrInvalidEquations = errors.New("invalid derived equations")

// Result is the outcome of applying one derived equation.
type Result struct {
	Name     string
	Outcome  arithexpr.Outcome
	Equation equation.Equation
	Err      error
}

// Run publishes the session's spectra and applies its derived equations in
// order, writing one line per equation to the app's output.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	mem := workspace.NewMemory()
	var coll workspace.Collection = mem
	if a.config.HubURL != "" {
		hub, err := workspace.DialHub(ctx, workspace.HubOptions{
			URL:       a.config.HubURL,
			Namespace: a.config.HubNamespace,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to workspace hub: %w", err)
		}
		defer hub.Close()
		coll = workspace.NewMirror(mem, hub, a.logger)
	}

	if err := a.publishSpectra(coll); err != nil {
		return err
	}

	checker := arithexpr.NewCachedValidator(arithexpr.NewValidator(a.logger), mem, a.config.CacheTTL, a.logger)
	sess := editor.NewSession(coll, equation.NewRegistry(), checker, a.logger)

	results := a.apply(ctx, sess)
	a.report(results)

	invalid := 0
	for _, r := range results {
		if r.Err != nil {
			invalid++
		}
	}
	a.logger.Info("🏁 Session applied.", "derived", len(results), "invalid", invalid, "data_objects", len(coll.ListDataItems()))

	if invalid > 0 && a.config.Check {
		return fmt.Errorf("%w: %d of %d", ErrInvalidEquations, invalid, len(results))
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) publishSpectra(coll workspace.Collection) error {
	for _, cs := range a.session.Spectra {
		s, err := spectrum.New(cs.Wavelength, cs.Flux, cs.SpectralUnit, cs.FluxUnit)
		if err != nil {
			return fmt.Errorf("spectrum %q (%s): %w", cs.Name, cs.Source, err)
		}
		s.RestWavelength = cs.RestWavelength
		obj, err := coll.AddData(workspace.DataObject{Identifier: uuid.New(), Spectrum: s}, cs.Name)
		if err != nil {
			return fmt.Errorf("spectrum %q (%s): %w", cs.Name, cs.Source, err)
		}
		a.logger.Debug("Spectrum published.", "name", obj.Name, "points", s.Len(), "id", obj.Identifier)
	}
	return nil
}

func (a *App) apply(ctx context.Context, sess *editor.Session) []Result {
	results := make([]Result, 0, len(a.session.Derived))
	for _, d := range a.session.Derived {
		if ctx.Err() != nil {
			results = append(results, Result{Name: d.Name, Err: ctx.Err()})
			continue
		}
		eq, out, err := sess.Apply(d.Name, d.Expression)
		if err != nil {
			a.logger.Warn("Derived equation rejected.", "name", d.Name, "source", d.Source, "kind", out.Kind.String(), "error", err)
		}
		results = append(results, Result{Name: d.Name, Outcome: out, Equation: eq, Err: err})
	}
	a.results = results
	return results
}

func (a *App) report(results []Result) {
	for _, r := range results {
		fmt.Fprintln(a.outW, formatResult(r, a.config.Check))
		if !a.config.Explain || r.Err != nil {
			continue
		}
		analysis, err := arithexpr.Analyze(r.Equation.Expression)
		if err != nil {
			continue
		}
		fmt.Fprintf(a.outW, "  references: %s\n", joinOrDash(analysis.Placeholders))
		fmt.Fprintf(a.outW, "  functions:  %s\n", joinOrDash(analysis.Functions))
	}
}

func formatResult(r Result, brief bool) string {
	if r.Err != nil {
		if r.Outcome.Message != "" && !r.Outcome.OK() {
			return fmt.Sprintf("%s\t%s\t%s", r.Name, r.Outcome.Kind, r.Outcome.Message)
		}
		return fmt.Sprintf("%s\terror\t%v", r.Name, r.Err)
	}
	s := r.Equation.Result
	if brief {
		return fmt.Sprintf("%s\t%s", r.Name, arithexpr.Valid)
	}
	lo, _ := spectrum.Min(s.Flux)
	hi, _ := spectrum.Max(s.Flux)
	unit := s.FluxUnit
	if unit == "" {
		unit = "dimensionless"
	}
	return fmt.Sprintf("%s\t%s\t%d points\tflux [%g, %g] %s", r.Name, arithexpr.Valid, s.Len(), lo, hi, unit)
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

// Results returns the outcomes of the last Run. This is primarily for testing.
func (a *App) Results() []Result {
	return a.results
}
