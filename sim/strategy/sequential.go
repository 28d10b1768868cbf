package strategy

import (
	"context"

	"github.com/cohort-sim/cohort-sim/sim"
)

// Sequential runs every task one at a time, in slice order, on the calling
// goroutine. It has the lowest fixed overhead and is the baseline the
// bench harness measures the other strategies against.
type Sequential struct{}

// NewSequential returns the sequential strategy.
func NewSequential() Sequential { return Sequential{} }

func (Sequential) Name() string { return "sequential" }

func (Sequential) Execute(ctx context.Context, tasks []sim.Task) (map[sim.Scenario]sim.Trajectory, error) {
	results := make(map[sim.Scenario]sim.Trajectory, len(tasks))
	for _, task := range tasks {
		traj, err := runTask(ctx, task)
		if err != nil {
			return nil, err
		}
		results[task.Scenario] = traj
	}
	return results, nil
}
