// Package bench provides standard multi-modal benchmark functions used by
// the CLI and tests. Each function implements the engine's objective
// contract over its conventional search domain.
package bench

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"
)

// wrapRange folds x periodically into [min, max).
func wrapRange(x, min, max float32) float32 {
	length := max - min
	delta := math32.Mod(math32.Mod(x-min, length)+length, length)
	return min + delta
}

// uniformBounds builds per-dimension bound slices from scalar bounds.
func uniformBounds(dim int, lower, upper float64) ([]float64, []float64) {
	lo := make([]float64, dim)
	hi := make([]float64, dim)
	for i := range lo {
		lo[i] = lower
		hi[i] = upper
	}
	return lo, hi
}

// ByName returns the float64 evaluation function and bounds for a named
// benchmark, for use with the bounds-box optimizer interface.
func ByName(name string, dim int) (func([]float64) float64, []float64, []float64, error) {
	switch name {
	case "rastrigin":
		r := NewRastrigin()
		lo, hi := uniformBounds(dim, float64(r.Min), float64(r.Max))
		return r.Eval, lo, hi, nil
	case "ackley":
		a := NewAckley()
		lo, hi := uniformBounds(dim, float64(a.Min), float64(a.Max))
		return a.Eval, lo, hi, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown benchmark function %q", name)
	}
}

// Rastrigin is the classic highly multi-modal benchmark with global minimum
// f(0) = 0 on [-5.12, 5.12]^D. It implements the cheap single-coordinate
// re-evaluation and the analytic gradient.
type Rastrigin struct {
	Min, Max float32
}

// NewRastrigin returns the Rastrigin function on its conventional domain.
func NewRastrigin() Rastrigin {
	return Rastrigin{Min: -5.12, Max: 5.12}
}

const rastriginA = 10.0

// Value evaluates the objective at x.
func (r Rastrigin) Value(x []float32) float64 {
	E := rastriginA * float64(len(x))
	for _, xi := range x {
		a := float64(xi)
		E += a*a - rastriginA*math.Cos(2*math.Pi*a)
	}
	return E
}

// Eval is the float64 variant used by the bounds-box optimizer interface.
func (r Rastrigin) Eval(x []float64) float64 {
	E := rastriginA * float64(len(x))
	for _, a := range x {
		E += a*a - rastriginA*math.Cos(2*math.Pi*a)
	}
	return E
}

// Wrap folds a coordinate periodically into the search domain.
func (r Rastrigin) Wrap(x float32) float32 {
	return wrapRange(x, r.Min, r.Max)
}

// ValueFromDiff re-evaluates in O(1) when a single coordinate changes: the
// terms are additive per coordinate.
func (r Rastrigin) ValueFromDiff(x []float32, current float64, i int, xi float32) float64 {
	old := float64(x[i])
	next := float64(xi)
	return current -
		(old*old - rastriginA*math.Cos(2*math.Pi*old)) +
		(next*next - rastriginA*math.Cos(2*math.Pi*next))
}

// ValueAndGradient writes the analytic gradient into grad and returns the
// objective value.
func (r Rastrigin) ValueAndGradient(x, grad []float32) float64 {
	for i, xi := range x {
		a := float64(xi)
		grad[i] = float32(2*a + 2*math.Pi*rastriginA*math.Sin(2*math.Pi*a))
	}
	return r.Value(x)
}

// Ackley is a multi-modal benchmark with global minimum f(0) = 0 on
// [-32.768, 32.768]^D. It deliberately implements only the minimal objective
// contract, exercising the engine's fallback paths.
type Ackley struct {
	Min, Max float32
}

// NewAckley returns the Ackley function on its conventional domain.
func NewAckley() Ackley {
	return Ackley{Min: -32.768, Max: 32.768}
}

// Value evaluates the objective at x.
func (a Ackley) Value(x []float32) float64 {
	x64 := make([]float64, len(x))
	for i, xi := range x {
		x64[i] = float64(xi)
	}
	return a.Eval(x64)
}

// Eval is the float64 variant used by the bounds-box optimizer interface.
func (a Ackley) Eval(x []float64) float64 {
	n := float64(len(x))
	var sumSq, sumCos float64
	for _, xi := range x {
		sumSq += xi * xi
		sumCos += math.Cos(2 * math.Pi * xi)
	}
	return -20*math.Exp(-0.2*math.Sqrt(sumSq/n)) - math.Exp(sumCos/n) + 20 + math.E
}

// Wrap folds a coordinate periodically into the search domain.
func (a Ackley) Wrap(x float32) float32 {
	return wrapRange(x, a.Min, a.Max)
}
