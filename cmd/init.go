package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cohort-sim/cohort-sim/sim/psa"
)

// starterSpec is the example every new experiment can start from: a
// three-state disease progression model with one fixed arm and one
// sampled arm.
func starterSpec() *psa.ExperimentSpec {
	return &psa.ExperimentSpec{
		Seed:    42,
		Cycles:  60,
		Samples: 200,
		States:  []string{"healthy", "sick", "dead"},
		Initial: []float64{1, 0, 0},
		Treatments: []psa.TreatmentSpec{
			{
				Name: "standard-care",
				Rows: []psa.RowSpec{
					{Type: "constant", Probs: []float64{0.85, 0.10, 0.05}},
					{Type: "constant", Probs: []float64{0.00, 0.70, 0.30}},
					{Type: "constant", Probs: []float64{0, 0, 1}},
				},
			},
			{
				Name: "new-drug",
				Rows: []psa.RowSpec{
					{Type: "dirichlet", Alpha: []float64{88, 8, 4}},
					{Type: "beta", Shape1: 4, Shape2: 12, Target: 2},
					{Type: "constant", Probs: []float64{0, 0, 1}},
				},
			},
		},
	}
}

// initCmd prints a starter spec to stdout
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Print a starter experiment spec",
	Long:  "Write a three-state example experiment spec to stdout. Redirect to a file and edit from there.",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		writeSpecToStdout(starterSpec())
	},
}

// writeSpecToStdout marshals an ExperimentSpec to YAML and writes to stdout.
func writeSpecToStdout(spec *psa.ExperimentSpec) {
	data, err := yaml.Marshal(spec)
	if err != nil {
		logrus.Fatalf("YAML marshal failed: %v", err)
	}
	fmt.Print(string(data))
}

func init() {
	initCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.AddCommand(initCmd)
}
