package cmd

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cohort-sim/cohort-sim/sim"
	"github.com/cohort-sim/cohort-sim/sim/bench"
	"github.com/cohort-sim/cohort-sim/sim/psa"
	"github.com/cohort-sim/cohort-sim/sim/strategy"
)

var (
	benchSpecPath   string   // Path to the experiment spec YAML
	benchReps       int      // Timed repetitions per strategy
	benchWarmup     int      // Untimed warmup runs per strategy
	benchStrategies []string // Strategies to compare; empty = all
	benchWorkers    int      // Worker count for the workers strategy
)

// benchCmd times the execution strategies against each other
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark execution strategies over one experiment spec",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		spec, err := psa.Load(benchSpecPath)
		if err != nil {
			logrus.Fatalf("Failed to load spec %s: %v", benchSpecPath, err)
		}
		model, initial, err := psa.Build(spec)
		if err != nil {
			logrus.Fatalf("Failed to build model: %v", err)
		}

		names := benchStrategies
		if len(names) == 0 {
			names = strategy.Names()
		}
		strategies := make([]sim.Strategy, 0, len(names))
		for _, name := range names {
			strat, err := strategy.New(name, strategy.Options{Workers: benchWorkers})
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			strategies = append(strategies, strat)
		}

		report, err := bench.Run(cmd.Context(), model, initial, spec.Cycles, strategies, bench.Config{
			Repetitions: benchReps,
			Warmup:      benchWarmup,
		})
		if err != nil {
			logrus.Fatalf("Benchmark failed: %v", err)
		}
		fmt.Print(report.Table())
	},
}

func init() {
	benchCmd.Flags().StringVar(&benchSpecPath, "spec", "", "Path to experiment spec YAML")
	benchCmd.Flags().IntVar(&benchReps, "reps", 20, "Timed repetitions per strategy")
	benchCmd.Flags().IntVar(&benchWarmup, "warmup", 3, "Untimed warmup runs per strategy")
	benchCmd.Flags().StringSliceVar(&benchStrategies, "strategies", nil,
		"Comma-separated strategies to compare (default all: "+strings.Join(strategy.Names(), ", ")+")")
	benchCmd.Flags().IntVar(&benchWorkers, "workers", 0, "Worker count for the workers strategy (0 = GOMAXPROCS)")
	benchCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	_ = benchCmd.MarkFlagRequired("spec")

	rootCmd.AddCommand(benchCmd)
}
