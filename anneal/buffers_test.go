package anneal

import (
	"math"
	"testing"
)

func TestPoolResizeZeroesContents(t *testing.T) {
	var pool Pool
	if err := pool.Resize(10); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	ws := pool.Workspace()
	for i := range ws.Current.X {
		ws.Current.X[i] = float32(i + 1)
		ws.Proposed.X[i] = float32(i + 2)
		ws.Best.X[i] = float32(i + 3)
	}

	if err := pool.Resize(10); err != nil {
		t.Fatalf("Second resize failed: %v", err)
	}
	ws = pool.Workspace()
	for i := range ws.Current.X {
		if ws.Current.X[i] != 0 || ws.Proposed.X[i] != 0 || ws.Best.X[i] != 0 {
			t.Fatalf("Buffer contents not zeroed at index %d", i)
		}
	}
}

func TestPoolResizeIdempotentCapacity(t *testing.T) {
	var pool Pool
	if err := pool.Resize(100); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	capacity := pool.Capacity()
	if capacity == 0 {
		t.Fatal("Expected non-zero capacity after resize")
	}

	if err := pool.Resize(100); err != nil {
		t.Fatalf("Second resize failed: %v", err)
	}
	if pool.Capacity() != capacity {
		t.Errorf("Resize with same size reallocated: capacity %d -> %d", capacity, pool.Capacity())
	}
}

func TestPoolCapacityMonotonic(t *testing.T) {
	var pool Pool
	if err := pool.Resize(100); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	capacity := pool.Capacity()

	// Shrinking never deallocates.
	if err := pool.Resize(10); err != nil {
		t.Fatalf("Shrinking resize failed: %v", err)
	}
	if pool.Capacity() != capacity {
		t.Errorf("Shrinking changed capacity: %d -> %d", capacity, pool.Capacity())
	}

	if err := pool.Resize(1000); err != nil {
		t.Fatalf("Growing resize failed: %v", err)
	}
	if pool.Capacity() < capacity {
		t.Errorf("Capacity decreased on grow: %d -> %d", capacity, pool.Capacity())
	}
}

func TestPoolResizeErrors(t *testing.T) {
	var pool Pool
	if err := pool.Resize(-1); err == nil {
		t.Error("Expected error for negative size")
	}
	if err := pool.Resize(math.MaxInt); err == nil {
		t.Error("Expected overflow error for MaxInt size")
	}
}

func TestWorkspaceBuffersDisjoint(t *testing.T) {
	var pool Pool
	if err := pool.Resize(17); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	ws := pool.Workspace()

	for i := range ws.Current.X {
		ws.Current.X[i] = 1
	}
	for i := range ws.Proposed.X {
		ws.Proposed.X[i] = 2
	}
	for i := range ws.Best.X {
		ws.Best.X[i] = 3
	}

	for i := range ws.Current.X {
		if ws.Current.X[i] != 1 {
			t.Fatalf("Current overwritten at %d: %v", i, ws.Current.X[i])
		}
		if ws.Proposed.X[i] != 2 {
			t.Fatalf("Proposed overwritten at %d: %v", i, ws.Proposed.X[i])
		}
		if ws.Best.X[i] != 3 {
			t.Fatalf("Best overwritten at %d: %v", i, ws.Best.X[i])
		}
	}

	if len(ws.Current.X) != 17 || len(ws.Proposed.X) != 17 || len(ws.Best.X) != 17 {
		t.Errorf("Expected dimension 17 views, got %d/%d/%d",
			len(ws.Current.X), len(ws.Proposed.X), len(ws.Best.X))
	}
}

func TestWorkspaceFuncStartsNaN(t *testing.T) {
	var pool Pool
	if err := pool.Resize(3); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	ws := pool.Workspace()
	if !math.IsNaN(ws.Current.Func) || !math.IsNaN(ws.Proposed.Func) || !math.IsNaN(ws.Best.Func) {
		t.Error("Expected unevaluated points to carry NaN objective values")
	}
}

func TestPointAssignRoundTrip(t *testing.T) {
	var pool Pool
	if err := pool.Resize(5); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	ws := pool.Workspace()

	original := []float32{0.1, -2.5, 3e7, -4.25e-3, 5}
	copy(ws.Current.X, original)
	ws.Current.Func = 1.5

	ws.Proposed.Assign(ws.Current)
	ws.Current.Func = 0
	for i := range ws.Current.X {
		ws.Current.X[i] = 0
	}
	ws.Current.Assign(ws.Proposed)

	if ws.Current.Func != 1.5 {
		t.Errorf("Expected func 1.5 after round trip, got %v", ws.Current.Func)
	}
	for i, want := range original {
		if ws.Current.X[i] != want {
			t.Errorf("Coordinate %d changed in round trip: %v != %v", i, ws.Current.X[i], want)
		}
	}
}

func TestPointAssignDimensionMismatchPanics(t *testing.T) {
	a := Point{X: make([]float32, 3)}
	b := Point{X: make([]float32, 4)}
	defer func() {
		if recover() == nil {
			t.Error("Expected panic on dimension mismatch")
		}
	}()
	a.Assign(b)
}
