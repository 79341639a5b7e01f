package opt

import (
	"golang.org/x/exp/rand"

	"github.com/chewxy/math32"
	"github.com/cwbudde/dualanneal/anneal"
)

// AnnealAdapter runs the dual-annealing engine against a plain float64
// objective with box bounds treated as a periodic domain.
type AnnealAdapter struct {
	params anneal.Params
	seed   uint64
	pool   anneal.Pool
}

// NewAnneal creates a dual-annealing optimizer adapter.
func NewAnneal(params anneal.Params, seed uint64) *AnnealAdapter {
	return &AnnealAdapter{params: params, seed: seed}
}

// boxObjective bridges a float64 evaluation function to the engine's
// float32 objective contract, wrapping coordinates periodically into the
// bounds box.
type boxObjective struct {
	eval     func([]float64) float64
	min, max float32
	buf      []float64
}

func (b *boxObjective) Value(x []float32) float64 {
	for i, xi := range x {
		b.buf[i] = float64(xi)
	}
	return b.eval(b.buf)
}

func (b *boxObjective) Wrap(x float32) float32 {
	length := b.max - b.min
	delta := math32.Mod(math32.Mod(x-b.min, length)+length, length)
	return b.min + delta
}

// Run executes one annealing run starting from a random point in the box.
// Like the mayfly configuration, scalar bounds are taken from the first
// dimension and assumed uniform.
func (a *AnnealAdapter) Run(eval func([]float64) float64, lower, upper []float64, dim int) ([]float64, float64, error) {
	obj := &boxObjective{
		eval: eval,
		min:  float32(lower[0]),
		max:  float32(upper[0]),
		buf:  make([]float64, dim),
	}

	src := rand.NewSource(a.seed)
	rng := rand.New(src)
	x := make([]float32, dim)
	for i := range x {
		x[i] = obj.min + float32(rng.Float64())*(obj.max-obj.min)
	}

	result, err := anneal.MinimizeWithPool(&a.pool, obj, x, a.params, src)
	if err != nil {
		return nil, 0, err
	}

	best := make([]float64, dim)
	for i, xi := range x {
		best[i] = float64(xi)
	}
	return best, result.Func, nil
}
