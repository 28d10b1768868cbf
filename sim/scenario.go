package sim

import (
	"context"
	"fmt"
)

// Scenario identifies one independent projection task: one treatment option
// paired with one PSA sample. Scenarios share no mutable state, so no
// execution order between them is required or guaranteed.
type Scenario struct {
	Treatment int
	Sample    int
}

func (s Scenario) String() string {
	return fmt.Sprintf("treatment=%d sample=%d", s.Treatment, s.Sample)
}

// Task bundles everything needed to project one scenario. Strategies either
// call Run, the opaque path, or read the fields directly when they
// restructure the computation, as the batched strategy does.
type Task struct {
	Scenario Scenario
	Model    TransitionModel
	Initial  StateVector
	Cycles   int
}

// Run fetches the scenario's matrix and projects it with the default
// kernel. The matrix lookup happens here, inside strategy execution, so a
// bad index surfaces as that scenario's failure rather than as a setup
// error.
func (t Task) Run(ctx context.Context) (Trajectory, error) {
	return t.RunWithKernel(ctx, DefaultKernel())
}

// RunWithKernel is Run with a caller-chosen cycle kernel.
func (t Task) RunWithKernel(ctx context.Context, k Kernel) (Trajectory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := t.Model.Matrix(t.Scenario.Treatment, t.Scenario.Sample)
	if err != nil {
		return nil, err
	}
	return ProjectWithKernel(t.Initial, m, t.Cycles, k)
}

// Strategy schedules the execution of independent scenario tasks. It is a
// performance choice only: every implementation must produce numerically
// identical results for identical inputs.
//
// Execute runs every task exactly once and returns either the complete
// mapping or the first failure wrapped in a *ScenarioError naming the
// failing scenario, never a partial result. Implementations check ctx
// between scenarios and stop early once it is cancelled; parallel
// implementations also propagate cancellation to their workers.
type Strategy interface {
	Name() string
	Execute(ctx context.Context, tasks []Task) (map[Scenario]Trajectory, error)
}
