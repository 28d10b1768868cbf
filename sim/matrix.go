package sim

import (
	"fmt"
	"math"
)

// StochasticTol bounds how far a matrix row's sum may deviate from 1 before
// the row is rejected as non-stochastic. Rounding accumulated by upstream
// parameter transforms stays orders of magnitude inside this bound.
const StochasticTol = 1e-9

// TransitionMatrix is an n×n row-stochastic probability matrix: entry (i, j)
// is the per-cycle probability of moving from state i to state j. Storage is
// row-major in one flat slice. A TransitionMatrix is immutable after
// construction and may be shared by concurrent scenario projections without
// locking.
type TransitionMatrix struct {
	n    int
	data []float64 // row-major, len n*n
}

// NewTransitionMatrix builds a TransitionMatrix from explicit rows. Every
// row must have len(rows) entries, all finite and non-negative, and must sum
// to 1 within StochasticTol. The input is copied; no partial matrix is
// returned on failure.
func NewTransitionMatrix(rows [][]float64) (*TransitionMatrix, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("matrix has no rows: %w", ErrDimensionMismatch)
	}
	data := make([]float64, 0, n*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("row %d has %d entries, want %d: %w", i, len(row), n, ErrDimensionMismatch)
		}
		sum := 0.0
		for j, p := range row {
			if math.IsNaN(p) || math.IsInf(p, 0) {
				return nil, fmt.Errorf("entry (%d,%d): %w", i, j, ErrNotFinite)
			}
			if p < 0 {
				return nil, fmt.Errorf("entry (%d,%d) is %v: %w", i, j, p, ErrNegative)
			}
			sum += p
		}
		if math.Abs(sum-1) > StochasticTol {
			return nil, fmt.Errorf("row %d sums to %v: %w", i, sum, ErrNonStochastic)
		}
		data = append(data, row...)
	}
	return &TransitionMatrix{n: n, data: data}, nil
}

// Identity returns the n×n identity matrix: every state maps to itself with
// probability 1. Panics if n < 1.
func Identity(n int) *TransitionMatrix {
	if n < 1 {
		panic("sim: Identity requires n >= 1")
	}
	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		data[i*n+i] = 1
	}
	return &TransitionMatrix{n: n, data: data}
}

// Dim returns the number of states.
func (m *TransitionMatrix) Dim() int { return m.n }

// At returns entry (i, j). Out-of-range indices panic, matching gonum's mat
// accessors: element access with bad indices is a programmer error, not a
// runtime condition.
func (m *TransitionMatrix) At(i, j int) float64 {
	if i < 0 || i >= m.n || j < 0 || j >= m.n {
		panic(fmt.Sprintf("sim: TransitionMatrix.At(%d,%d) out of range for dim %d", i, j, m.n))
	}
	return m.data[i*m.n+j]
}

// Row returns row i as a view into the backing storage. Callers must treat
// it as read-only.
func (m *TransitionMatrix) Row(i int) []float64 {
	return m.data[i*m.n : (i+1)*m.n]
}

// RawData returns the row-major backing slice, shared rather than copied, so
// kernels can hand the storage to BLAS routines directly. Callers must treat
// it as read-only.
func (m *TransitionMatrix) RawData() []float64 { return m.data }
