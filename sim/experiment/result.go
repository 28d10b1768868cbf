package experiment

import (
	"fmt"
	"time"

	"github.com/cohort-sim/cohort-sim/sim"
)

// Result bundles all outputs from one experiment run: the complete
// trajectory mapping plus the metadata downstream consumers need to
// interpret it.
type Result struct {
	Trajectories map[sim.Scenario]sim.Trajectory

	Strategy   string
	Treatments int
	Samples    int
	Cycles     int
	WallTime   time.Duration // wall-clock duration of strategy execution
}

// Scenarios returns the number of projected scenarios.
func (r *Result) Scenarios() int { return len(r.Trajectories) }

// Trajectory returns one scenario's trajectory, with the same bounds
// behavior as TransitionModel lookups.
func (r *Result) Trajectory(treatment, sample int) (sim.Trajectory, error) {
	if treatment < 0 || treatment >= r.Treatments {
		return nil, fmt.Errorf("treatment %d outside [0,%d): %w",
			treatment, r.Treatments, sim.ErrIndexOutOfRange)
	}
	if sample < 0 || sample >= r.Samples {
		return nil, fmt.Errorf("sample %d outside [0,%d): %w",
			sample, r.Samples, sim.ErrIndexOutOfRange)
	}
	return r.Trajectories[sim.Scenario{Treatment: treatment, Sample: sample}], nil
}
