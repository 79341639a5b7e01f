package anneal

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/cwbudde/dualanneal/internal/bench"
)

func randomStart(dim int, rng *rand.Rand) []float32 {
	x := make([]float32, dim)
	for i := range x {
		x[i] = -1 + 4*float32(rng.Float64())
	}
	return x
}

func TestMinimizeImprovesRastrigin(t *testing.T) {
	obj := bench.NewRastrigin()
	src := rand.NewSource(1230045)
	x := randomStart(4, rand.New(src))
	initial := obj.Value(x)

	result, err := Minimize(obj, x, testParams(), src)
	if err != nil {
		t.Fatalf("Minimize failed: %v", err)
	}
	if result.Func >= initial {
		t.Errorf("Expected improvement over initial %v, got %v", initial, result.Func)
	}
	// Best values reached through the incremental path accumulate float
	// error relative to a fresh evaluation.
	if got := obj.Value(x); math.Abs(got-result.Func) > 1e-6*(1+math.Abs(got)) {
		t.Errorf("Returned coordinates evaluate to %v, result says %v", got, result.Func)
	}
	if result.NumIterations == 0 {
		t.Error("Expected at least one iteration")
	}
	if result.NumFunctionEvaluations == 0 {
		t.Error("Expected function evaluations to be counted")
	}
	if math.IsNaN(result.AcceptanceRatio) || result.AcceptanceRatio < 0 || result.AcceptanceRatio > 1 {
		t.Errorf("Acceptance ratio out of range: %v", result.AcceptanceRatio)
	}
}

func TestMinimizeDeterministic(t *testing.T) {
	obj := bench.NewRastrigin()
	params := testParams()
	params.NumIterations = 200
	params.Patience = 200

	run := func() (Result, []float32) {
		src := rand.NewSource(98765)
		x := randomStart(4, rand.New(src))
		result, err := Minimize(obj, x, params, src)
		if err != nil {
			t.Fatalf("Minimize failed: %v", err)
		}
		return result, x
	}

	r1, x1 := run()
	r2, x2 := run()
	if r1.Func != r2.Func {
		t.Errorf("Objective values differ across identical runs: %v vs %v", r1.Func, r2.Func)
	}
	if r1.NumIterations != r2.NumIterations || r1.NumFunctionEvaluations != r2.NumFunctionEvaluations {
		t.Errorf("Run statistics differ: %+v vs %+v", r1, r2)
	}
	for i := range x1 {
		if x1[i] != x2[i] {
			t.Errorf("Coordinate %d differs: %v vs %v", i, x1[i], x2[i])
		}
	}
}

func TestMinimizePatienceZeroPerformsNoAdvances(t *testing.T) {
	obj := bench.NewRastrigin()
	src := rand.NewSource(5)
	x := randomStart(3, rand.New(src))
	initial := obj.Value(x)

	params := testParams()
	params.Patience = 0

	result, err := Minimize(obj, x, params, src)
	if err != nil {
		t.Fatalf("Minimize failed: %v", err)
	}
	if result.NumIterations != 0 {
		t.Errorf("Expected zero iterations, got %d", result.NumIterations)
	}
	if result.Func != initial {
		t.Errorf("Expected initial value %v back, got %v", initial, result.Func)
	}
	if !math.IsNaN(result.AcceptanceRatio) {
		t.Errorf("Expected NaN acceptance ratio for zero iterations, got %v", result.AcceptanceRatio)
	}
}

func TestMinimizePatienceStopsOnStagnation(t *testing.T) {
	obj := bench.NewRastrigin()
	src := rand.NewSource(17)
	x := randomStart(3, rand.New(src))

	params := testParams()
	params.NumIterations = 100000
	params.Patience = 5

	result, err := Minimize(obj, x, params, src)
	if err != nil {
		t.Fatalf("Minimize failed: %v", err)
	}
	if result.NumIterations >= params.NumIterations {
		t.Errorf("Expected early stop on stagnation, ran all %d iterations", result.NumIterations)
	}
}

func TestMinimizeValidation(t *testing.T) {
	obj := bench.NewRastrigin()
	src := rand.NewSource(1)
	x := make([]float32, 3)

	cases := []struct {
		name   string
		mutate func(*Params)
		coords []float32
	}{
		{"qV too small", func(p *Params) { p.QV = 1.0 }, x},
		{"qV too large", func(p *Params) { p.QV = 3.0 }, x},
		{"t0 non-positive", func(p *Params) { p.T0 = 0 }, x},
		{"negative patience", func(p *Params) { p.Patience = -1 }, x},
		{"empty coordinates", func(p *Params) {}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := testParams()
			tc.mutate(&params)
			if _, err := Minimize(obj, tc.coords, params, src); err == nil {
				t.Error("Expected a validation error")
			}
		})
	}
}

func TestMinimizeWithPoolReuse(t *testing.T) {
	obj := bench.NewRastrigin()
	params := testParams()
	params.NumIterations = 50
	params.Patience = 50

	var pool Pool
	run := func() Result {
		src := rand.NewSource(31337)
		x := randomStart(6, rand.New(src))
		result, err := MinimizeWithPool(&pool, obj, x, params, src)
		if err != nil {
			t.Fatalf("MinimizeWithPool failed: %v", err)
		}
		return result
	}

	r1 := run()
	capacity := pool.Capacity()
	r2 := run()

	if pool.Capacity() != capacity {
		t.Errorf("Pool reallocated on reuse: capacity %d -> %d", capacity, pool.Capacity())
	}
	if r1.Func != r2.Func {
		t.Errorf("Pooled runs differ: %v vs %v", r1.Func, r2.Func)
	}

	// A smaller run must fit in the same arena.
	src := rand.NewSource(7)
	x := randomStart(2, rand.New(src))
	if _, err := MinimizeWithPool(&pool, obj, x, params, src); err != nil {
		t.Fatalf("Smaller pooled run failed: %v", err)
	}
	if pool.Capacity() != capacity {
		t.Errorf("Shrinking run changed capacity: %d -> %d", capacity, pool.Capacity())
	}
}
