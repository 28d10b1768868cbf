// Package bench times execution strategies against one another over
// identical experiment inputs. Before any timing it checks that every
// strategy produces equivalent trajectories; correctness is never a
// strategy property, only wall time is.
package bench

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/cohort-sim/cohort-sim/sim"
	"github.com/cohort-sim/cohort-sim/sim/experiment"
)

// equivTol bounds the per-entry divergence tolerated between strategies
// during the pre-timing equivalence pass.
const equivTol = 1e-9

// Config controls a benchmark run.
type Config struct {
	Repetitions int // timed runs per strategy
	Warmup      int // untimed runs per strategy before measuring
}

// Run benchmarks the given strategies over the same model, initial
// distribution, and cycle count. Every strategy first runs once for the
// equivalence pass; then each runs Warmup untimed repetitions followed by
// Repetitions timed ones. Timings cover strategy execution only, not task
// construction.
func Run(ctx context.Context, model sim.TransitionModel, initial sim.StateVector, cycles int, strategies []sim.Strategy, cfg Config) (*Report, error) {
	if cfg.Repetitions < 1 {
		return nil, fmt.Errorf("repetitions must be >= 1, got %d", cfg.Repetitions)
	}
	if cfg.Warmup < 0 {
		return nil, fmt.Errorf("warmup must be >= 0, got %d", cfg.Warmup)
	}
	if len(strategies) == 0 {
		return nil, fmt.Errorf("at least one strategy required")
	}

	runners := make([]*experiment.Runner, len(strategies))
	for i, strat := range strategies {
		runner, err := experiment.NewRunner(model, initial, cycles, strat)
		if err != nil {
			return nil, err
		}
		runners[i] = runner
	}

	// Correctness pass: all strategies must agree with the first one
	// before any of them is timed.
	var ref *experiment.Result
	for i, runner := range runners {
		res, err := runner.Run(ctx)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			ref = res
			continue
		}
		if err := compareResults(ref, res, strategies[0].Name(), strategies[i].Name()); err != nil {
			return nil, err
		}
	}

	timings := make([]Timing, 0, len(strategies))
	for i, runner := range runners {
		logrus.Debugf("bench: timing strategy %q (%d warmup, %d repetitions)",
			strategies[i].Name(), cfg.Warmup, cfg.Repetitions)
		for w := 0; w < cfg.Warmup; w++ {
			if _, err := runner.Run(ctx); err != nil {
				return nil, err
			}
		}
		samples := make([]float64, cfg.Repetitions)
		for rep := 0; rep < cfg.Repetitions; rep++ {
			res, err := runner.Run(ctx)
			if err != nil {
				return nil, err
			}
			samples[rep] = float64(res.WallTime)
		}
		timings = append(timings, newTiming(strategies[i].Name(), samples))
	}

	return &Report{Timings: timings, Scenarios: ref.Scenarios(), Cycles: cycles}, nil
}

// compareResults checks two results for scenario-by-scenario, entry-by-entry
// agreement within equivTol.
func compareResults(want, got *experiment.Result, wantName, gotName string) error {
	if len(got.Trajectories) != len(want.Trajectories) {
		return fmt.Errorf("strategy %q returned %d trajectories, %q returned %d",
			gotName, len(got.Trajectories), wantName, len(want.Trajectories))
	}
	for scenario, wantTraj := range want.Trajectories {
		gotTraj, ok := got.Trajectories[scenario]
		if !ok {
			return fmt.Errorf("strategy %q returned no trajectory for %s", gotName, scenario)
		}
		if len(gotTraj) != len(wantTraj) {
			return fmt.Errorf("strategy %q returned %d cycles for %s, %q returned %d",
				gotName, len(gotTraj)-1, scenario, wantName, len(wantTraj)-1)
		}
		for c := range wantTraj {
			for j := range wantTraj[c] {
				if math.Abs(wantTraj[c][j]-gotTraj[c][j]) > equivTol {
					return fmt.Errorf("strategies %q and %q diverge at %s cycle %d state %d: %v vs %v",
						wantName, gotName, scenario, c, j, wantTraj[c][j], gotTraj[c][j])
				}
			}
		}
	}
	return nil
}
