package psa

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cohort-sim/cohort-sim/sim"
)

// Build samples the complete transition model the spec describes: one
// matrix per (treatment, sample) pair, drawn row by row from the
// configured generators, plus the shared initial distribution.
//
// Deterministic: every (treatment, sample) pair draws from its own
// partitioned RNG stream derived from the master seed, so the same spec
// always produces the same model, and adding treatments or samples never
// changes the matrices of existing ones.
func Build(spec *ExperimentSpec) (*sim.DenseModel, sim.StateVector, error) {
	if err := spec.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid experiment spec: %w", err)
	}
	initial, err := sim.NewStateVector(spec.Initial)
	if err != nil {
		return nil, nil, fmt.Errorf("initial: %w", err)
	}
	n := len(spec.States)

	samplers := make([][]RowSampler, len(spec.Treatments))
	for t := range spec.Treatments {
		samplers[t] = make([]RowSampler, n)
		for j := range spec.Treatments[t].Rows {
			rs, err := newRowSampler(spec.Treatments[t].Rows[j], j, n)
			if err != nil {
				return nil, nil, fmt.Errorf("treatment[%d].row[%d]: %w", t, j, err)
			}
			samplers[t][j] = rs
		}
	}

	rng := sim.NewPartitionedRNG(spec.Seed)
	rows := make([][]float64, n)
	matrices := make([][]*sim.TransitionMatrix, len(spec.Treatments))
	for t := range spec.Treatments {
		matrices[t] = make([]*sim.TransitionMatrix, spec.Samples)
		for s := 0; s < spec.Samples; s++ {
			stream := rng.ForScenario(t, s)
			for j := 0; j < n; j++ {
				rows[j] = samplers[t][j].Sample(stream)
			}
			m, err := sim.NewTransitionMatrix(rows)
			if err != nil {
				return nil, nil, fmt.Errorf("treatment %d sample %d: %w", t, s, err)
			}
			matrices[t][s] = m
		}
	}

	model, err := sim.NewDenseModel(matrices)
	if err != nil {
		return nil, nil, err
	}
	logrus.Debugf("Build: sampled %d matrices (%d treatments x %d samples, %d states, seed %d)",
		len(spec.Treatments)*spec.Samples, len(spec.Treatments), spec.Samples, n, spec.Seed)
	return model, initial, nil
}
