package anneal

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/optimize"
)

// LocalSearchParams configures the gradient-based refinement applied to new
// best points between annealing sweeps.
type LocalSearchParams struct {
	// MaxIterations bounds the number of major iterations; 0 means no
	// explicit limit.
	MaxIterations int
	// GradientTolerance stops the search once the gradient norm drops
	// below it; 0 selects the solver default.
	GradientTolerance float64
	// FunctionTolerance stops the search once the objective stops
	// improving by more than this amount; 0 selects the solver default.
	FunctionTolerance float64
}

type searchOutcome int

const (
	searchSuccess searchOutcome = iota
	searchSoftFailure
	searchHardFailure
)

// runLocalSearch minimizes the objective starting from x using L-BFGS,
// writing the refined coordinates back into x. The solver works in float64;
// coordinates are round-tripped through float32 so the returned value is the
// objective at the coordinates actually stored.
func runLocalSearch(obj *objectiveAdapter, x []float32, p *LocalSearchParams) (float64, searchOutcome, error) {
	dim := len(x)
	x64 := make([]float64, dim)
	for i, xi := range x {
		x64[i] = float64(xi)
	}
	x32 := make([]float32, dim)
	g32 := make([]float32, dim)

	problem := optimize.Problem{
		Func: func(xs []float64) float64 {
			for i, xi := range xs {
				x32[i] = float32(xi)
			}
			return obj.value(x32)
		},
		Grad: func(grad, xs []float64) {
			for i, xi := range xs {
				x32[i] = float32(xi)
			}
			obj.valueAndGradient(x32, g32)
			for i, gi := range g32 {
				grad[i] = float64(gi)
			}
		},
	}

	settings := &optimize.Settings{
		MajorIterations:   p.MaxIterations,
		GradientThreshold: p.GradientTolerance,
	}
	if p.FunctionTolerance > 0 {
		settings.Converger = &optimize.FunctionConverge{
			Absolute:   p.FunctionTolerance,
			Iterations: 10,
		}
	}

	result, err := optimize.Minimize(problem, x64, settings, &optimize.LBFGS{})
	if result == nil {
		return 0, searchHardFailure, fmt.Errorf("anneal: local search: %w", err)
	}

	outcome := classifySearch(result.Status, err)
	if outcome == searchHardFailure {
		if err == nil {
			return 0, outcome, fmt.Errorf("anneal: local search: solver status %v", result.Status)
		}
		return 0, outcome, fmt.Errorf("anneal: local search: %w", err)
	}
	for i, xi := range result.X {
		x[i] = float32(xi)
	}
	return result.F, outcome, nil
}

// classifySearch maps the solver status onto the chain's commit policy:
// converged statuses commit unconditionally, soft failures commit only when
// the refined point is no worse, anything else aborts the run.
func classifySearch(status optimize.Status, err error) searchOutcome {
	if err != nil {
		if errors.Is(err, optimize.ErrLinesearcherFailure) || errors.Is(err, optimize.ErrNoProgress) {
			return searchSoftFailure
		}
		return searchHardFailure
	}
	switch status {
	case optimize.Success, optimize.FunctionConvergence, optimize.GradientThreshold,
		optimize.StepConvergence, optimize.MethodConverge, optimize.FunctionThreshold:
		return searchSuccess
	case optimize.Failure:
		return searchHardFailure
	default:
		// Iteration and evaluation limits: usable but not converged.
		return searchSoftFailure
	}
}
