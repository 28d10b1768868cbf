package psa

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// RowSampler generates one transition matrix row per call.
type RowSampler interface {
	// Sample returns an n-length probability row. Each call returns a
	// fresh slice owned by the caller; mutating it never affects the
	// sampler or later draws.
	Sample(rng *rand.Rand) []float64
}

// ConstantRowSampler returns the same fixed row in every sample.
type ConstantRowSampler struct {
	probs []float64
}

func (s *ConstantRowSampler) Sample(_ *rand.Rand) []float64 {
	return append([]float64(nil), s.probs...)
}

// DirichletRowSampler draws the full row from a Dirichlet distribution, so
// every draw is a valid probability row by construction. Larger alpha
// entries concentrate the mass; the expected row is alpha normalized.
type DirichletRowSampler struct {
	alpha []float64
}

func (s *DirichletRowSampler) Sample(rng *rand.Rand) []float64 {
	return distmv.NewDirichlet(s.alpha, rng).Rand(nil)
}

// BetaRowSampler draws a single transition probability p from
// Beta(shape1, shape2): p goes to the target state, 1-p stays in the row's
// own state. The classic two-destination survival row.
type BetaRowSampler struct {
	shape1, shape2 float64
	target, stay   int
	states         int
}

func (s *BetaRowSampler) Sample(rng *rand.Rand) []float64 {
	p := distuv.Beta{Alpha: s.shape1, Beta: s.shape2, Src: rng}.Rand()
	row := make([]float64, s.states)
	row[s.target] = p
	row[s.stay] = 1 - p
	return row
}

// newRowSampler creates a RowSampler from a RowSpec. row is the spec's own
// row index, which the beta generator uses as its stay state.
func newRowSampler(spec RowSpec, row, n int) (RowSampler, error) {
	switch spec.Type {
	case "constant":
		return &ConstantRowSampler{probs: spec.Probs}, nil
	case "dirichlet":
		return &DirichletRowSampler{alpha: spec.Alpha}, nil
	case "beta":
		return &BetaRowSampler{
			shape1: spec.Shape1,
			shape2: spec.Shape2,
			target: spec.Target,
			stay:   row,
			states: n,
		}, nil
	default:
		return nil, fmt.Errorf("unknown row type %q; valid: constant, dirichlet, beta", spec.Type)
	}
}
