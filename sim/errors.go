package sim

import (
	"errors"
	"fmt"
)

// Package-level sentinel errors. Callers match them with errors.Is; call
// sites add context by wrapping with fmt.Errorf("...: %w", Err).
var (
	// ErrDimensionMismatch indicates that a state vector's length disagrees
	// with a transition matrix's dimension, or that matrix rows disagree
	// about the state-space size.
	ErrDimensionMismatch = errors.New("sim: dimension mismatch")

	// ErrIndexOutOfRange indicates a treatment or sample index outside the
	// configured bounds of a TransitionModel or a run result.
	ErrIndexOutOfRange = errors.New("sim: index out of range")

	// ErrCycleCount indicates a projection requested for fewer than one cycle.
	ErrCycleCount = errors.New("sim: cycle count must be >= 1")

	// ErrNonStochastic indicates a matrix row whose sum deviates from 1 by
	// more than StochasticTol.
	ErrNonStochastic = errors.New("sim: matrix row is not stochastic")

	// ErrNotFinite indicates a NaN or Inf where a finite value is required.
	ErrNotFinite = errors.New("sim: value is not finite")

	// ErrNegative indicates a negative value where a probability or
	// occupancy is required.
	ErrNegative = errors.New("sim: negative value")
)

// ScenarioError tags a task failure with the identity of the scenario that
// raised it. Strategies wrap any error produced while executing a task, so
// the runner surfaces exactly which (treatment, sample) pair failed.
type ScenarioError struct {
	Scenario Scenario
	Err      error
}

func (e *ScenarioError) Error() string {
	return fmt.Sprintf("scenario %s: %v", e.Scenario, e.Err)
}

// Unwrap exposes the cause so errors.Is and errors.As keep matching.
func (e *ScenarioError) Unwrap() error { return e.Err }
