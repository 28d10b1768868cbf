package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cohort-sim/cohort-sim/sim/psa"
)

var validateSpecPath string // Path to the experiment spec YAML

// validateCmd checks a spec without running anything
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate an experiment spec without running it",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		spec, err := psa.Load(validateSpecPath)
		if err != nil {
			logrus.Fatalf("Failed to load spec %s: %v", validateSpecPath, err)
		}
		if err := spec.Validate(); err != nil {
			logrus.Fatalf("Invalid spec %s: %v", validateSpecPath, err)
		}
		fmt.Printf("%s OK: %d states, %d treatments, %d samples, %d cycles\n",
			validateSpecPath, len(spec.States), len(spec.Treatments), spec.Samples, spec.Cycles)
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateSpecPath, "spec", "", "Path to experiment spec YAML")
	validateCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	_ = validateCmd.MarkFlagRequired("spec")

	rootCmd.AddCommand(validateCmd)
}
