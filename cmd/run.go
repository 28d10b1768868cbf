package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/cohort-sim/cohort-sim/sim"
	"github.com/cohort-sim/cohort-sim/sim/experiment"
	"github.com/cohort-sim/cohort-sim/sim/psa"
	"github.com/cohort-sim/cohort-sim/sim/strategy"
)

var (
	runSpecPath string // Path to the experiment spec YAML
	runStrategy string // Execution strategy name
	runWorkers  int    // Worker count for the workers strategy
	runOutPath  string // Optional JSON output path for trajectories
)

// runCmd samples the model from a spec and projects every scenario
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full treatment x sample experiment from a spec",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		spec, err := psa.Load(runSpecPath)
		if err != nil {
			logrus.Fatalf("Failed to load spec %s: %v", runSpecPath, err)
		}
		model, initial, err := psa.Build(spec)
		if err != nil {
			logrus.Fatalf("Failed to build model: %v", err)
		}
		if runWorkers != 0 && runStrategy != "workers" {
			logrus.Warnf("Flag --workers is ignored by strategy %q", runStrategy)
		}
		strat, err := strategy.New(runStrategy, strategy.Options{Workers: runWorkers})
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		runner, err := experiment.NewRunner(model, initial, spec.Cycles, strat)
		if err != nil {
			logrus.Fatalf("Failed to set up experiment: %v", err)
		}

		logrus.Infof("Starting experiment: %d treatments x %d samples, %d cycles, strategy %q",
			model.Treatments(), model.Samples(), spec.Cycles, strat.Name())
		result, err := runner.Run(cmd.Context())
		if err != nil {
			logrus.Fatalf("Run failed: %v", err)
		}

		printSummary(spec, result)
		if runOutPath != "" {
			if err := writeResultJSON(runOutPath, spec, result); err != nil {
				logrus.Fatalf("Failed to write %s: %v", runOutPath, err)
			}
			logrus.Infof("Trajectories written to %s", runOutPath)
		}
	},
}

// printSummary displays the mean final-cycle distribution per treatment,
// averaged across PSA samples.
func printSummary(spec *psa.ExperimentSpec, result *experiment.Result) {
	fmt.Println("=== Experiment Result ===")
	fmt.Printf("scenarios: %d  cycles: %d  strategy: %s  wall time: %s\n",
		result.Scenarios(), result.Cycles, result.Strategy, result.WallTime)
	fmt.Println("mean final distribution per treatment:")
	for t := 0; t < result.Treatments; t++ {
		mean := make([]float64, len(spec.States))
		for s := 0; s < result.Samples; s++ {
			traj := result.Trajectories[sim.Scenario{Treatment: t, Sample: s}]
			floats.Add(mean, traj.Final())
		}
		floats.Scale(1/float64(result.Samples), mean)
		fmt.Printf("  %-16s", spec.Treatments[t].Name)
		for j, name := range spec.States {
			fmt.Printf(" %s=%.4f", name, mean[j])
		}
		fmt.Println()
	}
}

// scenarioJSON is one scenario's trajectory in the JSON export.
type scenarioJSON struct {
	Treatment     int         `json:"treatment"`
	TreatmentName string      `json:"treatment_name"`
	Sample        int         `json:"sample"`
	Trajectory    [][]float64 `json:"trajectory"`
}

// resultJSON is the --out file layout.
type resultJSON struct {
	Strategy   string         `json:"strategy"`
	States     []string       `json:"states"`
	Cycles     int            `json:"cycles"`
	Treatments int            `json:"treatments"`
	Samples    int            `json:"samples"`
	WallTimeMs float64        `json:"wall_time_ms"`
	Scenarios  []scenarioJSON `json:"scenarios"`
}

// writeResultJSON exports every trajectory, scenarios ordered by treatment
// then sample.
func writeResultJSON(path string, spec *psa.ExperimentSpec, result *experiment.Result) error {
	out := resultJSON{
		Strategy:   result.Strategy,
		States:     spec.States,
		Cycles:     result.Cycles,
		Treatments: result.Treatments,
		Samples:    result.Samples,
		WallTimeMs: float64(result.WallTime.Microseconds()) / 1e3,
		Scenarios:  make([]scenarioJSON, 0, result.Scenarios()),
	}
	for t := 0; t < result.Treatments; t++ {
		for s := 0; s < result.Samples; s++ {
			traj := result.Trajectories[sim.Scenario{Treatment: t, Sample: s}]
			cycles := make([][]float64, len(traj))
			for c, state := range traj {
				cycles[c] = append([]float64(nil), state...)
			}
			out.Scenarios = append(out.Scenarios, scenarioJSON{
				Treatment:     t,
				TreatmentName: spec.Treatments[t].Name,
				Sample:        s,
				Trajectory:    cycles,
			})
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func init() {
	runCmd.Flags().StringVar(&runSpecPath, "spec", "", "Path to experiment spec YAML")
	runCmd.Flags().StringVar(&runStrategy, "strategy", "sequential",
		"Execution strategy ("+strings.Join(strategy.Names(), ", ")+")")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "Worker count for the workers strategy (0 = GOMAXPROCS)")
	runCmd.Flags().StringVar(&runOutPath, "out", "", "Write trajectories as JSON to this path")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	_ = runCmd.MarkFlagRequired("spec")

	rootCmd.AddCommand(runCmd)
}
