package strategy

import (
	"context"

	"github.com/cohort-sim/cohort-sim/sim"
	"github.com/cohort-sim/cohort-sim/sim/kernel"
)

// Offload runs tasks in order like Sequential but hands the whole cycle
// loop of each scenario to the BLAS kernel: one dgemv call per cycle, no
// per-element Go loop. Pays off once cycle counts grow large enough for
// the inner product to dominate.
type Offload struct {
	kernel sim.Kernel
}

// NewOffload returns the offload strategy backed by the BLAS kernel.
func NewOffload() *Offload {
	return &Offload{kernel: kernel.BLAS()}
}

func (*Offload) Name() string { return "offload" }

func (o *Offload) Execute(ctx context.Context, tasks []sim.Task) (map[sim.Scenario]sim.Trajectory, error) {
	results := make(map[sim.Scenario]sim.Trajectory, len(tasks))
	for _, task := range tasks {
		traj, err := task.RunWithKernel(ctx, o.kernel)
		if err != nil {
			return nil, attribute(ctx, task, err)
		}
		results[task.Scenario] = traj
	}
	return results, nil
}
