package sim

import "fmt"

// TransitionModel supplies the transition matrix for each (treatment,
// sample) pair of an experiment. Implementations choose the storage layout
// (prebuilt dense storage, or lazy per-scenario derivation) without the
// projector or runner caring. Returned matrices are read-only and are
// shared by all scenarios without locking, so Matrix must be safe for
// concurrent callers.
type TransitionModel interface {
	// Matrix returns the matrix for one treatment and PSA sample.
	// Out-of-range indices fail with ErrIndexOutOfRange.
	Matrix(treatment, sample int) (*TransitionMatrix, error)
	// Treatments returns the number of treatment options.
	Treatments() int
	// Samples returns the number of PSA samples per treatment.
	Samples() int
	// Dim returns the state-space dimension shared by every matrix.
	Dim() int
}

// checkIndex validates one index against its configured range.
func checkIndex(name string, idx, n int) error {
	if idx < 0 || idx >= n {
		return fmt.Errorf("%s %d outside [0,%d): %w", name, idx, n, ErrIndexOutOfRange)
	}
	return nil
}

// DenseModel holds one prevalidated matrix per (treatment, sample) pair in
// a flat slice, the full in-memory layout.
type DenseModel struct {
	treatments int
	samples    int
	dim        int
	matrices   []*TransitionMatrix // index treatment*samples + sample
}

// NewDenseModel builds a DenseModel from matrices[treatment][sample]. Every
// treatment must carry the same number of samples and all matrices must
// share one dimension.
func NewDenseModel(matrices [][]*TransitionMatrix) (*DenseModel, error) {
	if len(matrices) == 0 || len(matrices[0]) == 0 {
		return nil, fmt.Errorf("model needs at least one treatment and one sample: %w", ErrDimensionMismatch)
	}
	treatments := len(matrices)
	samples := len(matrices[0])
	dim := matrices[0][0].Dim()
	flat := make([]*TransitionMatrix, 0, treatments*samples)
	for t, perTreatment := range matrices {
		if len(perTreatment) != samples {
			return nil, fmt.Errorf("treatment %d has %d samples, want %d: %w",
				t, len(perTreatment), samples, ErrDimensionMismatch)
		}
		for s, m := range perTreatment {
			if m == nil {
				return nil, fmt.Errorf("treatment %d sample %d has no matrix: %w", t, s, ErrDimensionMismatch)
			}
			if m.Dim() != dim {
				return nil, fmt.Errorf("treatment %d sample %d has dim %d, want %d: %w",
					t, s, m.Dim(), dim, ErrDimensionMismatch)
			}
			flat = append(flat, m)
		}
	}
	return &DenseModel{treatments: treatments, samples: samples, dim: dim, matrices: flat}, nil
}

func (d *DenseModel) Matrix(treatment, sample int) (*TransitionMatrix, error) {
	if err := checkIndex("treatment", treatment, d.treatments); err != nil {
		return nil, err
	}
	if err := checkIndex("sample", sample, d.samples); err != nil {
		return nil, err
	}
	return d.matrices[treatment*d.samples+sample], nil
}

func (d *DenseModel) Treatments() int { return d.treatments }
func (d *DenseModel) Samples() int    { return d.samples }
func (d *DenseModel) Dim() int        { return d.dim }

// FuncModel derives matrices on demand from a lookup function, the lazy
// counterpart to DenseModel for models cheaper to generate than to store.
// fn is called once per lookup after bounds checking and must be safe for
// concurrent use.
type FuncModel struct {
	treatments int
	samples    int
	dim        int
	fn         func(treatment, sample int) (*TransitionMatrix, error)
}

// NewFuncModel wraps fn with the configured bounds. Panics when a bound is
// below 1 or fn is nil.
func NewFuncModel(treatments, samples, dim int, fn func(treatment, sample int) (*TransitionMatrix, error)) *FuncModel {
	if treatments < 1 || samples < 1 || dim < 1 {
		panic("sim: NewFuncModel requires treatments, samples and dim >= 1")
	}
	if fn == nil {
		panic("sim: NewFuncModel requires a lookup function")
	}
	return &FuncModel{treatments: treatments, samples: samples, dim: dim, fn: fn}
}

func (f *FuncModel) Matrix(treatment, sample int) (*TransitionMatrix, error) {
	if err := checkIndex("treatment", treatment, f.treatments); err != nil {
		return nil, err
	}
	if err := checkIndex("sample", sample, f.samples); err != nil {
		return nil, err
	}
	return f.fn(treatment, sample)
}

func (f *FuncModel) Treatments() int { return f.treatments }
func (f *FuncModel) Samples() int    { return f.samples }
func (f *FuncModel) Dim() int        { return f.dim }
