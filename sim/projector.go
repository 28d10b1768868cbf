package sim

import "fmt"

// Project advances initial through cycles applications of m with the
// default kernel. See ProjectWithKernel for the full contract.
func Project(initial StateVector, m *TransitionMatrix, cycles int) (Trajectory, error) {
	return ProjectWithKernel(initial, m, cycles, DefaultKernel())
}

// ProjectWithKernel computes the cohort trajectory
//
//	traj[0] = initial
//	traj[c] = traj[c-1] · m    for c in 1..cycles
//
// and returns all cycles+1 distributions. The recurrence is strictly
// sequential (cycle c depends on cycle c-1), so there is no concurrency
// inside a single projection. Because m is row-stochastic, every entry
// preserves the initial vector's component sum up to floating-point
// rounding.
//
// Fails with ErrDimensionMismatch when len(initial) != m.Dim() and with
// ErrCycleCount when cycles < 1; no partial trajectory is returned. Panics
// on a nil matrix or kernel.
func ProjectWithKernel(initial StateVector, m *TransitionMatrix, cycles int, k Kernel) (Trajectory, error) {
	if m == nil {
		panic("sim: ProjectWithKernel called with nil matrix")
	}
	if k == nil {
		panic("sim: ProjectWithKernel called with nil kernel")
	}
	n := m.Dim()
	if len(initial) != n {
		return nil, fmt.Errorf("initial state has %d entries, matrix dim is %d: %w",
			len(initial), n, ErrDimensionMismatch)
	}
	if cycles < 1 {
		return nil, fmt.Errorf("got %d: %w", cycles, ErrCycleCount)
	}

	// All cycle states live in one flat allocation; the trajectory entries
	// are capped views into it.
	backing := make([]float64, (cycles+1)*n)
	traj := make(Trajectory, cycles+1)
	traj[0] = backing[0:n:n]
	copy(traj[0], initial)
	for c := 1; c <= cycles; c++ {
		cur := backing[c*n : (c+1)*n : (c+1)*n]
		k.Advance(cur, traj[c-1], m)
		traj[c] = cur
	}
	return traj, nil
}
