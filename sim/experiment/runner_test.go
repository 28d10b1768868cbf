package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/cohort-sim/cohort-sim/sim"
	"github.com/cohort-sim/cohort-sim/sim/strategy"
)

// gridModel builds a dense model with per-scenario distinct matrices.
func gridModel(t *testing.T, treatments, samples int) *sim.DenseModel {
	t.Helper()
	grid := make([][]*sim.TransitionMatrix, treatments)
	for tr := range grid {
		grid[tr] = make([]*sim.TransitionMatrix, samples)
		for s := range grid[tr] {
			p := 0.1 + 0.02*float64(tr) + 0.01*float64(s)
			m, err := sim.NewTransitionMatrix([][]float64{
				{1 - p, p, 0},
				{0, 1 - p, p},
				{0, 0, 1},
			})
			if err != nil {
				t.Fatalf("building matrix (%d,%d): %v", tr, s, err)
			}
			grid[tr][s] = m
		}
	}
	model, err := sim.NewDenseModel(grid)
	if err != nil {
		t.Fatalf("building model: %v", err)
	}
	return model
}

func TestRunner_FullCrossProduct(t *testing.T) {
	// 2 treatments x 3 samples with 5 cycles: exactly 6 trajectories,
	// each with 6 distributions.
	model := gridModel(t, 2, 3)
	runner, err := NewRunner(model, sim.StateVector{1, 0, 0}, 5, strategy.NewSequential())
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	res, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Scenarios() != 6 {
		t.Errorf("Scenarios() = %d, want 6", res.Scenarios())
	}
	for tr := 0; tr < 2; tr++ {
		for s := 0; s < 3; s++ {
			traj, err := res.Trajectory(tr, s)
			if err != nil {
				t.Fatalf("Trajectory(%d,%d) failed: %v", tr, s, err)
			}
			if len(traj) != 6 {
				t.Errorf("trajectory (%d,%d) has %d entries, want 6", tr, s, len(traj))
			}
		}
	}
	if res.Strategy != "sequential" {
		t.Errorf("Strategy = %q, want %q", res.Strategy, "sequential")
	}
	if res.Treatments != 2 || res.Samples != 3 || res.Cycles != 5 {
		t.Errorf("shape = (%d,%d,%d), want (2,3,5)", res.Treatments, res.Samples, res.Cycles)
	}
	if res.WallTime < 0 {
		t.Errorf("WallTime = %v, want >= 0", res.WallTime)
	}
}

func TestRunner_ScenariosDiffer(t *testing.T) {
	// Distinct matrices must yield distinct trajectories, or the runner
	// is mixing up scenario identities somewhere.
	model := gridModel(t, 2, 2)
	runner, err := NewRunner(model, sim.StateVector{1, 0, 0}, 10, strategy.NewSequential())
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	res, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	a, _ := res.Trajectory(0, 0)
	b, _ := res.Trajectory(1, 1)
	if a.Final()[0] == b.Final()[0] {
		t.Errorf("scenarios (0,0) and (1,1) ended identically at %v", a.Final()[0])
	}
}

func TestNewRunner_DimensionMismatch_ReturnsError(t *testing.T) {
	model := gridModel(t, 1, 1)
	_, err := NewRunner(model, sim.StateVector{1, 0}, 5, strategy.NewSequential())
	if err == nil {
		t.Fatal("expected error for 2-entry initial against dim-3 model, got nil")
	}
	if !errors.Is(err, sim.ErrDimensionMismatch) {
		t.Errorf("error = %v, want ErrDimensionMismatch", err)
	}
}

func TestNewRunner_BadCycles_ReturnsError(t *testing.T) {
	model := gridModel(t, 1, 1)
	_, err := NewRunner(model, sim.StateVector{1, 0, 0}, 0, strategy.NewSequential())
	if err == nil {
		t.Fatal("expected error for cycles=0, got nil")
	}
	if !errors.Is(err, sim.ErrCycleCount) {
		t.Errorf("error = %v, want ErrCycleCount", err)
	}
}

func TestNewRunner_NilModel_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewRunner with nil model did not panic")
		}
	}()
	_, _ = NewRunner(nil, sim.StateVector{1}, 1, strategy.NewSequential())
}

func TestNewRunner_NilStrategy_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewRunner with nil strategy did not panic")
		}
	}()
	_, _ = NewRunner(gridModel(t, 1, 1), sim.StateVector{1, 0, 0}, 1, nil)
}

func TestRunner_InitialCloned(t *testing.T) {
	// Mutating the caller's initial vector after construction must not
	// change what the runner projects.
	model := gridModel(t, 1, 1)
	initial := sim.StateVector{1, 0, 0}
	runner, err := NewRunner(model, initial, 3, strategy.NewSequential())
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	initial[0] = 0.5

	res, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	traj, _ := res.Trajectory(0, 0)
	if traj[0][0] != 1 {
		t.Errorf("traj[0][0] = %v, want 1 (runner must clone the initial vector)", traj[0][0])
	}
}

func TestRunner_FailingScenario_SurfacesIdentity(t *testing.T) {
	cause := errors.New("sampling broke")
	bad := sim.Scenario{Treatment: 1, Sample: 2}
	model := sim.NewFuncModel(2, 3, 2, func(treatment, sample int) (*sim.TransitionMatrix, error) {
		if treatment == bad.Treatment && sample == bad.Sample {
			return nil, cause
		}
		return sim.Identity(2), nil
	})
	runner, err := NewRunner(model, sim.StateVector{1, 0}, 4, strategy.NewSequential())
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	res, err := runner.Run(context.Background())
	if res != nil {
		t.Error("Run returned a result alongside the error")
	}
	var scErr *sim.ScenarioError
	if !errors.As(err, &scErr) {
		t.Fatalf("error %v is not a ScenarioError", err)
	}
	if scErr.Scenario != bad {
		t.Errorf("blamed %s, want %s", scErr.Scenario, bad)
	}
	if !errors.Is(err, cause) {
		t.Errorf("error %v does not wrap the cause", err)
	}
}

func TestRunner_CancelledContext_PropagatesCancellation(t *testing.T) {
	model := gridModel(t, 2, 3)
	runner, err := NewRunner(model, sim.StateVector{1, 0, 0}, 5, strategy.NewSequential())
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = runner.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestRunner_RunTwice_SameResults(t *testing.T) {
	model := gridModel(t, 2, 2)
	runner, err := NewRunner(model, sim.StateVector{1, 0, 0}, 8, strategy.NewWorkers(2))
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	first, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	second, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	for scenario, wantTraj := range first.Trajectories {
		gotTraj := second.Trajectories[scenario]
		for c := range wantTraj {
			for i := range wantTraj[c] {
				if gotTraj[c][i] != wantTraj[c][i] {
					t.Errorf("%s cycle %d state %d: %v vs %v",
						scenario, c, i, gotTraj[c][i], wantTraj[c][i])
				}
			}
		}
	}
}

// droppingStrategy violates the completeness contract by discarding one
// scenario's trajectory.
type droppingStrategy struct {
	drop sim.Scenario
}

func (droppingStrategy) Name() string { return "dropping" }

func (d droppingStrategy) Execute(ctx context.Context, tasks []sim.Task) (map[sim.Scenario]sim.Trajectory, error) {
	results, err := strategy.NewSequential().Execute(ctx, tasks)
	if err != nil {
		return nil, err
	}
	delete(results, d.drop)
	return results, nil
}

// swappingStrategy returns the right count but keys an entry under a
// scenario that was never requested.
type swappingStrategy struct{}

func (swappingStrategy) Name() string { return "swapping" }

func (swappingStrategy) Execute(ctx context.Context, tasks []sim.Task) (map[sim.Scenario]sim.Trajectory, error) {
	results, err := strategy.NewSequential().Execute(ctx, tasks)
	if err != nil {
		return nil, err
	}
	victim := tasks[0].Scenario
	results[sim.Scenario{Treatment: 99, Sample: 99}] = results[victim]
	delete(results, victim)
	return results, nil
}

func TestRunner_StrategyDropsScenario_Detected(t *testing.T) {
	model := gridModel(t, 2, 2)
	runner, err := NewRunner(model, sim.StateVector{1, 0, 0}, 3,
		droppingStrategy{drop: sim.Scenario{Treatment: 1, Sample: 0}})
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	_, err = runner.Run(context.Background())
	if err == nil {
		t.Fatal("expected error for dropped scenario, got nil")
	}
}

func TestRunner_StrategyMiskeysScenario_Detected(t *testing.T) {
	model := gridModel(t, 2, 2)
	runner, err := NewRunner(model, sim.StateVector{1, 0, 0}, 3, swappingStrategy{})
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	_, err = runner.Run(context.Background())
	if err == nil {
		t.Fatal("expected error for miskeyed scenario, got nil")
	}
}

func TestResult_Trajectory_OutOfRange_ReturnsError(t *testing.T) {
	model := gridModel(t, 2, 3)
	runner, err := NewRunner(model, sim.StateVector{1, 0, 0}, 2, strategy.NewSequential())
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	res, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, tc := range []struct{ treatment, sample int }{
		{2, 0}, {-1, 0}, {0, 3}, {0, -1},
	} {
		_, err := res.Trajectory(tc.treatment, tc.sample)
		if !errors.Is(err, sim.ErrIndexOutOfRange) {
			t.Errorf("Trajectory(%d,%d): error = %v, want ErrIndexOutOfRange",
				tc.treatment, tc.sample, err)
		}
	}
}
