package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// StateVector is a cohort distribution across model states: element i holds
// the fraction (or count) of the cohort occupying state i at one cycle.
// Length is fixed for the life of a projection. For a closed cohort the
// entries conventionally sum to 1, but the sum is the caller's contract;
// the projector only preserves it.
type StateVector []float64

// NewStateVector validates raw occupancies and returns them as a
// StateVector. Entries must be finite and non-negative. The input slice is
// copied.
func NewStateVector(values []float64) (StateVector, error) {
	out := make(StateVector, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("state %d: %w", i, ErrNotFinite)
		}
		if v < 0 {
			return nil, fmt.Errorf("state %d occupancy %v: %w", i, v, ErrNegative)
		}
		out[i] = v
	}
	return out, nil
}

// Sum returns the total cohort mass.
func (v StateVector) Sum() float64 { return floats.Sum(v) }

// Clone returns an independent copy.
func (v StateVector) Clone() StateVector {
	out := make(StateVector, len(v))
	copy(out, v)
	return out
}
