package strategy

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/cohort-sim/cohort-sim/sim"
)

// Batched restructures the recurrence: instead of projecting scenarios one
// at a time, every task of one treatment advances together, one cycle for
// the whole batch at a time. Per cycle the update runs as column
// operations over the batch axis, each touching all samples at once, so
// the per-sample loop disappears from the hot path. Setup cost (regrouping
// the matrices element-major) is paid once per batch; it amortizes with
// sample count.
type Batched struct{}

// NewBatched returns the batched strategy.
func NewBatched() Batched { return Batched{} }

func (Batched) Name() string { return "batched" }

// batchKey groups tasks that can advance in lockstep.
type batchKey struct {
	treatment int
	states    int
	cycles    int
}

func (Batched) Execute(ctx context.Context, tasks []sim.Task) (map[sim.Scenario]sim.Trajectory, error) {
	groups := make(map[batchKey][]sim.Task)
	var order []batchKey
	for _, task := range tasks {
		key := batchKey{task.Scenario.Treatment, len(task.Initial), task.Cycles}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], task)
	}

	results := make(map[sim.Scenario]sim.Trajectory, len(tasks))
	for _, key := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := runBatch(ctx, groups[key], results); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// runBatch advances one lockstep group and stores its trajectories in
// results. On error, results already written for earlier groups are
// discarded by the caller.
func runBatch(ctx context.Context, batch []sim.Task, results map[sim.Scenario]sim.Trajectory) error {
	n := len(batch[0].Initial)
	cycles := batch[0].Cycles
	size := len(batch)

	if cycles < 1 {
		return &sim.ScenarioError{
			Scenario: batch[0].Scenario,
			Err:      fmt.Errorf("got %d: %w", cycles, sim.ErrCycleCount),
		}
	}

	// Element-major copies of the batch matrices: entries[i*n+j][b] is
	// task b's transition probability from state i to state j. Each
	// column operation below then reads one contiguous slice.
	entries := make([][]float64, n*n)
	for p := range entries {
		entries[p] = make([]float64, size)
	}
	for b, task := range batch {
		m, err := task.Model.Matrix(task.Scenario.Treatment, task.Scenario.Sample)
		if err != nil {
			return &sim.ScenarioError{Scenario: task.Scenario, Err: err}
		}
		if m.Dim() != n {
			return &sim.ScenarioError{
				Scenario: task.Scenario,
				Err: fmt.Errorf("initial state has %d entries, matrix dim is %d: %w",
					n, m.Dim(), sim.ErrDimensionMismatch),
			}
		}
		for i := 0; i < n; i++ {
			row := m.Row(i)
			for j := 0; j < n; j++ {
				entries[i*n+j][b] = row[j]
			}
		}
	}

	// State columns over the batch axis: src[i][b] is task b's occupancy
	// of state i at the current cycle.
	src := make([][]float64, n)
	dst := make([][]float64, n)
	for i := 0; i < n; i++ {
		src[i] = make([]float64, size)
		dst[i] = make([]float64, size)
		for b, task := range batch {
			src[i][b] = task.Initial[i]
		}
	}

	trajectories := make([]sim.Trajectory, size)
	for b, task := range batch {
		backing := make([]float64, (cycles+1)*n)
		traj := make(sim.Trajectory, cycles+1)
		for c := 0; c <= cycles; c++ {
			traj[c] = sim.StateVector(backing[c*n : (c+1)*n : (c+1)*n])
		}
		copy(traj[0], task.Initial)
		trajectories[b] = traj
	}

	tmp := make([]float64, size)
	for c := 1; c <= cycles; c++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for j := 0; j < n; j++ {
			clear(dst[j])
		}
		for i := 0; i < n; i++ {
			srcCol := src[i]
			for j := 0; j < n; j++ {
				floats.MulTo(tmp, srcCol, entries[i*n+j])
				floats.Add(dst[j], tmp)
			}
		}
		for b := range batch {
			row := trajectories[b][c]
			for j := 0; j < n; j++ {
				row[j] = dst[j][b]
			}
		}
		src, dst = dst, src
	}

	for b, task := range batch {
		results[task.Scenario] = trajectories[b]
	}
	return nil
}
