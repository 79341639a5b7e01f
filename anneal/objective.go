package anneal

// Objective is the minimal contract an objective type must satisfy. The
// chain wraps every proposed coordinate, so Wrap has no default.
type Objective interface {
	// Value evaluates the objective at x.
	Value(x []float32) float64
	// Wrap folds a coordinate back into the feasible domain, e.g. a
	// periodic wrap into [min, max].
	Wrap(x float32) float32
}

// DiffObjective is implemented by objectives that can re-evaluate cheaply
// when a single coordinate changes.
type DiffObjective interface {
	Objective
	// ValueFromDiff returns the objective at x with coordinate i replaced
	// by xi, given that current is the value at the unmodified x. It must
	// not mutate x.
	ValueFromDiff(x []float32, current float64, i int, xi float32) float64
}

// GradObjective is implemented by objectives that can evaluate the gradient.
// It is required only when local search is enabled.
type GradObjective interface {
	Objective
	// ValueAndGradient writes the gradient at x into grad and returns the
	// objective value. len(grad) == len(x).
	ValueAndGradient(x, grad []float32) float64
}

// objectiveAdapter probes the optional capabilities once at construction and
// composes fallbacks for the missing ones. It also counts every objective
// evaluation for the run summary.
type objectiveAdapter struct {
	obj   Objective
	diff  DiffObjective // nil when the objective has no cheap diff path
	grad  GradObjective // nil when the objective has no gradient
	evals int
}

func newObjectiveAdapter(obj Objective) *objectiveAdapter {
	a := &objectiveAdapter{obj: obj}
	if d, ok := obj.(DiffObjective); ok {
		a.diff = d
	}
	if g, ok := obj.(GradObjective); ok {
		a.grad = g
	}
	return a
}

func (a *objectiveAdapter) value(x []float32) float64 {
	a.evals++
	return a.obj.Value(x)
}

func (a *objectiveAdapter) wrap(x float32) float32 {
	return a.obj.Wrap(x)
}

// valueFromDiff falls back to mutate-evaluate-restore when the objective has
// no cheap path. The coordinate is restored on every exit path, including a
// panicking Value.
func (a *objectiveAdapter) valueFromDiff(x []float32, current float64, i int, xi float32) float64 {
	a.evals++
	if a.diff != nil {
		return a.diff.ValueFromDiff(x, current, i, xi)
	}
	old := x[i]
	defer func() { x[i] = old }()
	x[i] = xi
	return a.obj.Value(x)
}

func (a *objectiveAdapter) hasGradient() bool { return a.grad != nil }

func (a *objectiveAdapter) valueAndGradient(x, grad []float32) float64 {
	a.evals++
	return a.grad.ValueAndGradient(x, grad)
}
