package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/dualanneal/anneal"
	"github.com/cwbudde/dualanneal/internal/bench"
	"github.com/cwbudde/dualanneal/internal/opt"
)

var (
	cmpDim   int
	cmpIters int
	cmpPop   int
	cmpSeed  int64
	cmpFn    string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare dual annealing against the mayfly optimizer",
	Long:  `Runs dual annealing and the external mayfly optimizer on the same benchmark function and reports both results.`,
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().IntVar(&cmpDim, "dim", 10, "Problem dimension")
	compareCmd.Flags().IntVar(&cmpIters, "iters", 500, "Iteration budget for both optimizers")
	compareCmd.Flags().IntVar(&cmpPop, "pop", 30, "Mayfly population size")
	compareCmd.Flags().Int64Var(&cmpSeed, "seed", 42, "Random seed")
	compareCmd.Flags().StringVar(&cmpFn, "fn", "rastrigin", "Benchmark function (rastrigin, ackley)")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	eval, lower, upper, err := bench.ByName(cmpFn, cmpDim)
	if err != nil {
		return err
	}

	annealParams := anneal.Params{
		QV:            2.67,
		QA:            -5.0,
		T0:            10.0,
		NumIterations: cmpIters,
		Patience:      cmpIters,
	}
	optimizers := []struct {
		name string
		o    opt.Optimizer
	}{
		{"anneal", opt.NewAnneal(annealParams, uint64(cmpSeed))},
		{"mayfly", opt.NewMayfly(cmpIters, cmpPop, cmpSeed)},
	}

	slog.Info("Comparing optimizers", "fn", cmpFn, "dim", cmpDim, "iters", cmpIters)
	for _, entry := range optimizers {
		start := time.Now()
		_, cost, err := entry.o.Run(eval, lower, upper, cmpDim)
		if err != nil {
			return fmt.Errorf("%s failed: %w", entry.name, err)
		}
		elapsed := time.Since(start)
		slog.Info("Optimizer finished", "name", entry.name, "cost", cost, "elapsed", elapsed)
		fmt.Printf("%-8s f(x*) = %.6e  (%s)\n", entry.name, cost, elapsed.Round(time.Millisecond))
	}
	return nil
}
