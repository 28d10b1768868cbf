// Package strategy provides the execution strategies that schedule
// independent scenario tasks. A strategy trades fixed overhead (pool
// start-up, batch setup) against per-task savings; none dominates
// universally, which is what sim/bench exists to measure. All of them
// satisfy the same contract: numerically identical trajectories, a
// complete result mapping or the first failure, and a context check
// between scenarios.
package strategy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cohort-sim/cohort-sim/sim"
)

// Options carries strategy construction knobs. The zero value is valid for
// every strategy; fields are ignored by strategies they do not apply to.
type Options struct {
	// Workers bounds the goroutine pool of the "workers" strategy.
	// Zero or negative means runtime.GOMAXPROCS(0).
	Workers int
}

// New constructs the named strategy.
func New(name string, opts Options) (sim.Strategy, error) {
	switch name {
	case "sequential":
		return NewSequential(), nil
	case "mapped":
		return NewMapped(), nil
	case "workers":
		return NewWorkers(opts.Workers), nil
	case "batched":
		return NewBatched(), nil
	case "offload":
		return NewOffload(), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q; valid: %s", name, strings.Join(Names(), ", "))
	}
}

// Names returns the registered strategy names in presentation order.
func Names() []string {
	return []string{"sequential", "mapped", "workers", "batched", "offload"}
}

// runTask projects one scenario and attributes any failure to it.
// Cancellation is not the scenario's fault and passes through bare.
func runTask(ctx context.Context, task sim.Task) (sim.Trajectory, error) {
	traj, err := task.Run(ctx)
	if err != nil {
		return nil, attribute(ctx, task, err)
	}
	return traj, nil
}

// attribute wraps a task failure with its scenario identity unless the
// failure is the context's own error.
func attribute(ctx context.Context, task sim.Task, err error) error {
	if cause := ctx.Err(); cause != nil && errors.Is(err, cause) {
		return err
	}
	return &sim.ScenarioError{Scenario: task.Scenario, Err: err}
}

// collect keys positional trajectories by scenario.
func collect(tasks []sim.Task, trajectories []sim.Trajectory) map[sim.Scenario]sim.Trajectory {
	results := make(map[sim.Scenario]sim.Trajectory, len(tasks))
	for i, task := range tasks {
		results[task.Scenario] = trajectories[i]
	}
	return results
}
