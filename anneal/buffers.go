package anneal

import (
	"fmt"
	"math"
)

// cacheLineFloats is the sub-buffer padding unit: 16 float32 values fill one
// 64-byte cache line, keeping the three workspace buffers on disjoint lines.
const cacheLineFloats = 16

// Point is one algorithm state: an objective value and the coordinates it
// was evaluated at. Func is NaN until the point has been evaluated. X is a
// view into pooled storage and must not be resized or retained past the
// owning pool.
type Point struct {
	Func float64
	X    []float32
}

// Assign copies both the objective value and the coordinates from other.
// The dimensions must match; assigning points of different dimension is a
// contract violation.
func (p *Point) Assign(other Point) {
	if len(p.X) != len(other.X) {
		panic("anneal: point dimensions differ")
	}
	p.Func = other.Func
	copy(p.X, other.X)
}

// Workspace holds the three states the chain mutates in place. The points
// share a dimension and are backed by disjoint regions of one pooled
// allocation.
type Workspace struct {
	Current  Point
	Proposed Point
	Best     Point
}

// Pool owns the arena backing a Workspace: one allocation cut into three
// equal sub-buffers, each padded to a cache-line boundary. The zero value is
// ready to use. A pool may be cached and reused across successive runs to
// avoid reallocation, but it is thread-confined state: sharing one pool
// across concurrent runs requires external synchronization.
type Pool struct {
	data []float32
	size int
}

func alignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}

// Resize prepares the pool for workspaces of the given dimension. The arena
// grows only when the padded requirement exceeds the current capacity;
// shrinking never deallocates. Contents are zeroed on every call so that
// runs start from a deterministic state.
func (p *Pool) Resize(size int) error {
	if size < 0 {
		return fmt.Errorf("anneal: invalid workspace size %d", size)
	}
	if size > math.MaxInt/3-cacheLineFloats {
		return fmt.Errorf("anneal: workspace size %d overflows the arena", size)
	}
	required := 3 * alignUp(size, cacheLineFloats)
	if required > cap(p.data) {
		p.data = make([]float32, required)
	}
	p.data = p.data[:cap(p.data)]
	clear(p.data)
	p.size = size
	return nil
}

// Capacity reports the number of float32 slots owned by the pool. Capacity
// never decreases for the lifetime of the pool.
func (p *Pool) Capacity() int { return cap(p.data) }

// Workspace returns the three point views over the arena. The views are
// valid until the next Resize and must not outlive the pool.
func (p *Pool) Workspace() Workspace {
	stride := alignUp(p.size, cacheLineFloats)
	sub := func(i int) []float32 {
		off := i * stride
		return p.data[off : off+p.size : off+stride]
	}
	nan := math.NaN()
	return Workspace{
		Current:  Point{Func: nan, X: sub(0)},
		Proposed: Point{Func: nan, X: sub(1)},
		Best:     Point{Func: nan, X: sub(2)},
	}
}
