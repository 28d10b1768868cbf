package sim

// Kernel advances a cohort distribution by exactly one cycle:
//
//	dst[j] = Σ_i src[i] * m[i][j]
//
// dst and src have length m.Dim() and never alias. Implementations must be
// safe for concurrent use across scenarios.
//
// The interface isolates the innermost numeric loop so it can be swapped
// for an accelerated implementation (see sim/kernel for the BLAS-backed
// one) without touching the projector, the runner, or any strategy.
type Kernel interface {
	// Name identifies the kernel in logs and benchmark reports.
	Name() string
	// Advance writes the next-cycle distribution into dst.
	Advance(dst, src []float64, m *TransitionMatrix)
}

// loopKernel is the portable reference kernel: straight nested loops over
// contiguous matrix rows. It is the behavioral yardstick accelerated
// kernels are tested against.
type loopKernel struct{}

func (loopKernel) Name() string { return "loop" }

func (loopKernel) Advance(dst, src []float64, m *TransitionMatrix) {
	for j := range dst {
		dst[j] = 0
	}
	for i, occ := range src {
		if occ == 0 {
			continue
		}
		row := m.Row(i)
		for j, p := range row {
			dst[j] += occ * p
		}
	}
}

// DefaultKernel returns the portable loop kernel.
func DefaultKernel() Kernel { return loopKernel{} }
