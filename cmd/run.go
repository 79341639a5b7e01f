package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"github.com/cwbudde/dualanneal/anneal"
	"github.com/cwbudde/dualanneal/internal/bench"
)

var (
	runDim      int
	runQV       float32
	runQA       float32
	runT0       float32
	runIters    int
	runPatience int
	runSeed     uint64
	runLocal    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Minimize the Rastrigin benchmark",
	Long:  `Runs one dual-annealing optimization of the D-dimensional Rastrigin function and prints the result summary.`,
	RunE:  runMinimize,
}

func init() {
	runCmd.Flags().IntVar(&runDim, "dim", 10, "Problem dimension")
	runCmd.Flags().Float32Var(&runQV, "qv", 2.67, "Visiting distribution shape parameter, in (1, 3)")
	runCmd.Flags().Float32Var(&runQA, "qa", -5.0, "Acceptance shape parameter")
	runCmd.Flags().Float32Var(&runT0, "t0", 10.0, "Initial visiting temperature")
	runCmd.Flags().IntVar(&runIters, "iters", 1000, "Max chain iterations")
	runCmd.Flags().IntVar(&runPatience, "patience", 20, "Non-improving iterations tolerated before stopping")
	runCmd.Flags().Uint64Var(&runSeed, "seed", 42, "Random seed")
	runCmd.Flags().BoolVar(&runLocal, "local-search", false, "Refine new best points with L-BFGS")
	rootCmd.AddCommand(runCmd)
}

func runMinimize(cmd *cobra.Command, args []string) error {
	obj := bench.NewRastrigin()
	src := rand.NewSource(runSeed)
	rng := rand.New(src)

	x := make([]float32, runDim)
	for i := range x {
		x[i] = -1 + 4*float32(rng.Float64())
	}
	initial := obj.Value(x)

	params := anneal.Params{
		QV:            runQV,
		QA:            runQA,
		T0:            runT0,
		NumIterations: runIters,
		Patience:      runPatience,
	}
	if runLocal {
		params.LocalSearch = &anneal.LocalSearchParams{FunctionTolerance: 1e-5}
	}

	slog.Info("Starting optimization",
		"dim", runDim, "qv", runQV, "qa", runQA, "t0", runT0,
		"iters", runIters, "patience", runPatience, "local_search", runLocal)

	start := time.Now()
	result, err := anneal.Minimize(obj, x, params, src)
	if err != nil {
		return fmt.Errorf("optimization failed: %w", err)
	}
	elapsed := time.Since(start)

	slog.Info("Optimization complete", "initial", initial, "final", result.Func, "elapsed", elapsed)

	fmt.Printf("f(x*) = %.6e\n", result.Func)
	fmt.Printf("Iterations:           %d\n", result.NumIterations)
	fmt.Printf("Function evaluations: %d\n", result.NumFunctionEvaluations)
	fmt.Printf("Acceptance ratio:     %.4f\n", result.AcceptanceRatio)
	return nil
}
