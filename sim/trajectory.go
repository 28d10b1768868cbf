package sim

// Trajectory is the per-cycle history of one scenario's cohort
// distribution: entry 0 is the initial distribution, entry c the
// distribution after c cycles, so a k-cycle projection yields k+1 entries.
// A Trajectory is written once by its projection and never mutated
// afterwards; ownership passes to whoever requested the projection.
type Trajectory []StateVector

// Cycles returns the number of projected cycles, one less than the entry
// count.
func (tr Trajectory) Cycles() int { return len(tr) - 1 }

// States returns the state-space dimension.
func (tr Trajectory) States() int {
	if len(tr) == 0 {
		return 0
	}
	return len(tr[0])
}

// Final returns the distribution after the last cycle.
func (tr Trajectory) Final() StateVector { return tr[len(tr)-1] }
