// Package sim provides the core cohort state-transition projection engine.
//
// # Reading Guide
//
// Start with these three files to understand the projection kernel:
//   - vector.go, matrix.go: the validated inputs (StateVector, TransitionMatrix)
//   - projector.go: the recurrence state_t = state_{t-1} * M and Trajectory assembly
//   - scenario.go: Scenario identity, Task, and the Strategy contract
//
// # Architecture
//
// The sim package defines the data model and the small interfaces; the
// machinery lives in sub-packages:
//   - sim/kernel/: advance-one-cycle kernels (BLAS offload)
//   - sim/strategy/: execution strategies for running many scenarios
//   - sim/experiment/: the treatment x sample cross product runner
//   - sim/psa/: probabilistic sensitivity analysis model construction from YAML
//   - sim/bench/: strategy timing harness
//
// # Key Interfaces
//
// The extension points are small interfaces:
//   - TransitionModel: matrix lookup per (treatment, sample)
//   - Kernel: advance a cohort by one cycle
//   - Strategy: schedule independent scenario tasks
//
// Every Strategy must produce numerically identical trajectories for the
// same inputs; strategies differ only in wall time.
package sim
