// Package experiment runs the full treatment x sample cross product of a
// transition model and collects one trajectory per scenario. Scheduling is
// delegated entirely to the configured strategy; the runner owns scenario
// enumeration, completeness checking, and run metadata.
package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cohort-sim/cohort-sim/sim"
)

// Runner binds everything one experiment needs: the model supplying a
// matrix per scenario, the shared initial distribution, the cycle count,
// and the execution strategy. A Runner is immutable after construction and
// may be run any number of times.
type Runner struct {
	model    sim.TransitionModel
	initial  sim.StateVector
	cycles   int
	strategy sim.Strategy
}

// NewRunner validates the experiment inputs. Panics on a nil model or
// strategy. Fails with ErrDimensionMismatch when the initial distribution
// does not match the model's dimension and with ErrCycleCount when
// cycles < 1.
func NewRunner(model sim.TransitionModel, initial sim.StateVector, cycles int, strategy sim.Strategy) (*Runner, error) {
	if model == nil {
		panic("Runner: model is nil")
	}
	if strategy == nil {
		panic("Runner: strategy is nil")
	}
	if len(initial) != model.Dim() {
		return nil, fmt.Errorf("initial state has %d entries, model dim is %d: %w",
			len(initial), model.Dim(), sim.ErrDimensionMismatch)
	}
	if cycles < 1 {
		return nil, fmt.Errorf("got %d: %w", cycles, sim.ErrCycleCount)
	}
	return &Runner{
		model:    model,
		initial:  initial.Clone(),
		cycles:   cycles,
		strategy: strategy,
	}, nil
}

// Strategy reports the bound strategy's name.
func (r *Runner) Strategy() string { return r.strategy.Name() }

// Run projects every (treatment, sample) pair exactly once and returns the
// complete result, or the first failure with its scenario identity. There
// is no partial result: on error the trajectories computed so far are
// discarded.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	treatments := r.model.Treatments()
	samples := r.model.Samples()
	tasks := make([]sim.Task, 0, treatments*samples)
	for t := 0; t < treatments; t++ {
		for s := 0; s < samples; s++ {
			tasks = append(tasks, sim.Task{
				Scenario: sim.Scenario{Treatment: t, Sample: s},
				Model:    r.model,
				Initial:  r.initial,
				Cycles:   r.cycles,
			})
		}
	}
	logrus.Debugf("Runner.Run: %d scenarios (%d treatments x %d samples), %d cycles, strategy %q",
		len(tasks), treatments, samples, r.cycles, r.strategy.Name())

	start := time.Now()
	trajectories, err := r.strategy.Execute(ctx, tasks)
	if err != nil {
		return nil, fmt.Errorf("strategy %q: %w", r.strategy.Name(), err)
	}
	wallTime := time.Since(start)

	// Guard against a misbehaving Strategy implementation: the contract is
	// every scenario exactly once, nothing dropped, nothing fabricated.
	if len(trajectories) != len(tasks) {
		return nil, fmt.Errorf("strategy %q returned %d trajectories for %d scenarios",
			r.strategy.Name(), len(trajectories), len(tasks))
	}
	for _, task := range tasks {
		if _, ok := trajectories[task.Scenario]; !ok {
			return nil, fmt.Errorf("strategy %q returned no trajectory for %s",
				r.strategy.Name(), task.Scenario)
		}
	}

	return &Result{
		Trajectories: trajectories,
		Strategy:     r.strategy.Name(),
		Treatments:   treatments,
		Samples:      samples,
		Cycles:       r.cycles,
		WallTime:     wallTime,
	}, nil
}
