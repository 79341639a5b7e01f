package opt

// Optimizer defines an optimization algorithm interface
type Optimizer interface {
	// Run executes the optimization
	// eval: objective function to minimize
	// lower, upper: parameter bounds
	// dim: dimensionality of parameter space
	// Returns: best parameters, best cost and an error when the underlying
	// algorithm fails
	Run(eval func([]float64) float64, lower, upper []float64, dim int) ([]float64, float64, error)
}
