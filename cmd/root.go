package main

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string
	logger    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dualanneal",
	Short: "Global optimization with generalized simulated annealing",
	Long: `Dualanneal minimizes scalar objective functions over bounded domains
using a Tsallis-statistics driven annealing chain with optional
gradient-based local refinement.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Setup logger
		var level slog.Level
		switch logLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		var handler slog.Handler
		switch logFormat {
		case "text":
			handler = tint.NewHandler(os.Stderr, &tint.Options{Level: level})
		default:
			handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		}
		logger = slog.New(handler)
		slog.SetDefault(logger)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "Log format (json, text)")
}
