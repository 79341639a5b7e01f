// Package anneal implements generalized simulated annealing (dual
// annealing): a Tsallis-statistics driven stochastic search over a bounded
// real vector space, optionally interleaved with gradient-based local
// refinement. A run is a tight synchronous loop over one workspace; run
// independent optimizations on separate workspaces/generators for
// parallelism.
package anneal

import (
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/exp/rand"
)

// Params configures one annealing run. Params are immutable for the run's
// duration.
type Params struct {
	// QV is the visiting-distribution shape parameter, in (1, 3).
	QV float32
	// QA is the acceptance shape parameter. QA → 1 recovers classical
	// Boltzmann acceptance; QA < 1 makes uphill moves rarer as iterations
	// proceed.
	QA float32
	// T0 is the initial visiting temperature, > 0.
	T0 float32
	// NumIterations bounds the number of chain iterations.
	NumIterations int
	// Patience is the number of consecutive non-improving iterations
	// tolerated before early termination.
	Patience int
	// LocalSearch, when non-nil, enables gradient-based refinement of new
	// best points. Requires the objective to implement GradObjective.
	LocalSearch *LocalSearchParams
}

func (p Params) validate(dim int) error {
	if dim == 0 {
		return fmt.Errorf("anneal: empty coordinate vector")
	}
	if !(1 < p.QV && p.QV < 3) {
		return fmt.Errorf("anneal: q_V = %v is outside (1, 3)", p.QV)
	}
	if p.T0 <= 0 {
		return fmt.Errorf("anneal: t_0 = %v must be positive", p.T0)
	}
	if p.NumIterations < 0 || p.Patience < 0 {
		return fmt.Errorf("anneal: iteration and patience bounds must be non-negative")
	}
	return nil
}

// Result summarises a finished run.
type Result struct {
	// Func is the objective value at the best point found.
	Func float64
	// NumIterations is the number of chain iterations performed.
	NumIterations int
	// NumFunctionEvaluations counts every objective evaluation, including
	// the initial one and any local-search evaluations.
	NumFunctionEvaluations int
	// AcceptanceRatio is the fraction of accepted trials out of the
	// 2*iterations*dimension performed; NaN when no iterations ran.
	AcceptanceRatio float64
}

// Minimize runs generalized simulated annealing on obj starting from x,
// which must already lie in the feasible domain. On return x holds the best
// coordinates found. The run is deterministic given a fixed generator state.
func Minimize(obj Objective, x []float32, params Params, src rand.Source) (Result, error) {
	var pool Pool
	return MinimizeWithPool(&pool, obj, x, params, src)
}

// MinimizeWithPool is Minimize with a caller-managed buffer pool, allowing
// the arena to be reused across successive runs (e.g. cached per worker).
// The pool must not be shared across concurrent runs.
func MinimizeWithPool(pool *Pool, obj Objective, x []float32, params Params, src rand.Source) (Result, error) {
	if err := params.validate(len(x)); err != nil {
		return Result{}, err
	}
	adapter := newObjectiveAdapter(obj)
	if params.LocalSearch != nil && !adapter.hasGradient() {
		return Result{}, fmt.Errorf("anneal: local search requires a gradient-capable objective")
	}
	if err := pool.Resize(len(x)); err != nil {
		return Result{}, fmt.Errorf("anneal: acquiring workspace: %w", err)
	}
	ws := pool.Workspace()
	copy(ws.Current.X, x)

	c := newChain(adapter, &ws, params, src)
	if params.LocalSearch != nil {
		if _, err := c.localSearch(params.LocalSearch); err != nil {
			slog.Warn("local search failed before annealing, returning best found so far", "err", err)
			return c.finish(x), nil
		}
	}

	patience := params.Patience
	for c.iteration < params.NumIterations && patience > 0 {
		before := c.ws.Best.Func
		c.advance()
		improved := c.ws.Best.Func < before
		if improved && params.LocalSearch != nil {
			if _, err := c.localSearch(params.LocalSearch); err != nil {
				slog.Warn("local search failed, returning best found so far",
					"err", err, "iteration", c.iteration)
				break
			}
		}
		if improved {
			patience = params.Patience
		} else {
			patience--
		}
	}
	return c.finish(x), nil
}

// finish copies the best coordinates back into the caller's buffer and
// assembles the run summary.
func (c *chain) finish(x []float32) Result {
	copy(x, c.ws.Best.X)
	ratio := math.NaN()
	if c.iteration > 0 {
		ratio = float64(c.numAccepted) / float64(2*c.iteration*c.dim())
	}
	return Result{
		Func:                   c.ws.Best.Func,
		NumIterations:          c.iteration,
		NumFunctionEvaluations: c.obj.evals,
		AcceptanceRatio:        ratio,
	}
}
