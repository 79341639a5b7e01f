package anneal

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/viterin/vek/vek32"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// chain is the state machine driving one annealing run. It mutates the
// workspace in place and owns neither the workspace, the generator, nor the
// objective.
type chain struct {
	obj     *objectiveAdapter
	ws      *Workspace
	sampler *TsallisSampler
	src     rand.Source
	uniform distuv.Uniform
	params  Params

	iteration   int
	numAccepted int
}

// newChain evaluates the caller-initialised current point, copies it into
// best and zeroes the proposed point.
func newChain(obj *objectiveAdapter, ws *Workspace, params Params, src rand.Source) *chain {
	ws.Current.Func = obj.value(ws.Current.X)
	ws.Best.Assign(ws.Current)
	clear(ws.Proposed.X)
	ws.Proposed.Func = math.NaN()
	return &chain{
		obj:     obj,
		ws:      ws,
		sampler: NewTsallisSampler(float64(params.QV), float64(params.T0)),
		src:     src,
		uniform: distuv.Uniform{Min: 0, Max: 1, Src: src},
		params:  params,
	}
}

func (c *chain) dim() int { return len(c.ws.Current.X) }

// temperature computes the visiting temperature t_V for iteration i. The
// schedule is monotonically decreasing in i.
func (c *chain) temperature(i int) float32 {
	num := c.params.T0 * (math32.Pow(2, c.params.QV-1) - 1)
	den := math32.Pow(float32(2+i), c.params.QV-1) - 1
	return num / den
}

// accept applies the generalized Metropolis criterion. Downhill moves are
// always accepted; a non-positive acceptance factor means probability zero.
func (c *chain) accept(dE, tA float32) bool {
	if dE < 0 {
		return true
	}
	factor := 1 + (c.params.QA-1)*dE/tA
	if factor <= 0 {
		return false
	}
	p := math32.Pow(factor, 1/(1-c.params.QA))
	return float32(c.uniform.Rand()) <= p
}

func (c *chain) updateBest() {
	if c.ws.Current.Func < c.ws.Best.Func {
		c.ws.Best.Assign(c.ws.Current)
	}
}

// generateFull perturbs all coordinates jointly into the proposed point and
// evaluates it. One Gamma draw scales the whole perturbation vector.
func (c *chain) generateFull() {
	g := c.sampler.DrawMany(c.src)
	proposed := c.ws.Proposed.X
	for j := range proposed {
		proposed[j] = g()
	}
	vek32.Add_Inplace(proposed, c.ws.Current.X)
	for j := range proposed {
		proposed[j] = c.obj.wrap(proposed[j])
	}
	c.ws.Proposed.Func = c.obj.value(proposed)
}

// generateOne proposes a new value for coordinate j and evaluates it through
// the cheap single-coordinate path.
func (c *chain) generateOne(j int) (float32, float64) {
	x := c.obj.wrap(c.sampler.DrawScalar(c.src))
	f := c.obj.valueFromDiff(c.ws.Current.X, c.ws.Current.Func, j, x)
	return x, f
}

// advance performs one chain iteration: dim full-vector trials followed by
// dim single-coordinate trials, all at the iteration's temperature. Each
// iteration therefore runs 2*dim accept/reject trials.
func (c *chain) advance() {
	tV := c.temperature(c.iteration)
	tA := tV / float32(c.iteration+1)
	c.sampler.SetParam(float64(c.params.QV), float64(tV))

	dim := c.dim()
	for j := 0; j < dim; j++ {
		c.generateFull()
		dE := float32(c.ws.Proposed.Func - c.ws.Current.Func)
		if c.accept(dE, tA) {
			c.ws.Current, c.ws.Proposed = c.ws.Proposed, c.ws.Current
			c.numAccepted++
			c.updateBest()
		}
	}
	for j := 0; j < dim; j++ {
		x, f := c.generateOne(j)
		dE := float32(f - c.ws.Current.Func)
		if c.accept(dE, tA) {
			c.ws.Current.X[j] = x
			c.ws.Current.Func = f
			c.numAccepted++
			c.updateBest()
		}
	}
	c.iteration++
}

// localSearch refines the current point through the gradient-based
// collaborator, operating on the proposed buffer. On success, or on a soft
// failure that did not worsen the objective, the refined point is committed
// into current. It reports whether best improved; a non-nil error is a hard
// failure and leaves current untouched.
func (c *chain) localSearch(p *LocalSearchParams) (bool, error) {
	c.ws.Proposed.Assign(c.ws.Current)
	f, outcome, err := runLocalSearch(c.obj, c.ws.Proposed.X, p)
	switch outcome {
	case searchHardFailure:
		return false, err
	case searchSoftFailure:
		if f > c.ws.Current.Func {
			return false, nil
		}
	}
	c.ws.Proposed.Func = f
	c.ws.Current, c.ws.Proposed = c.ws.Proposed, c.ws.Current
	if c.ws.Current.Func < c.ws.Best.Func {
		c.ws.Best.Assign(c.ws.Current)
		return true, nil
	}
	return false, nil
}
