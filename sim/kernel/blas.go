// Package kernel provides alternative advance-one-cycle implementations for
// the projector. The projector's own kernel is plain nested loops; this
// package offloads the cycle update to gonum's BLAS bindings so the hot
// inner product runs outside hand-written Go loops.
package kernel

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/cohort-sim/cohort-sim/sim"
)

// BLAS returns a kernel that advances the cohort with one dense
// matrix-vector product (dgemv) per cycle.
func BLAS() sim.Kernel {
	return blasKernel{}
}

type blasKernel struct{}

func (blasKernel) Name() string { return "blas" }

// Advance computes dst = src * m as the transposed product m^T * src. The
// matrix's row-major backing array is handed to Gemv directly, so no copy
// of m is made.
func (blasKernel) Advance(dst, src []float64, m *sim.TransitionMatrix) {
	n := m.Dim()
	a := blas64.General{Rows: n, Cols: n, Stride: n, Data: m.RawData()}
	x := blas64.Vector{N: n, Inc: 1, Data: src}
	y := blas64.Vector{N: n, Inc: 1, Data: dst}
	blas64.Gemv(blas.Trans, 1, a, x, 0, y)
}
