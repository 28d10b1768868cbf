package psa

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cohort-sim/cohort-sim/sim"
)

// ExperimentSpec is the top-level experiment configuration.
// Loaded from YAML via Load(path).
type ExperimentSpec struct {
	Seed       int64           `yaml:"seed"`
	Cycles     int             `yaml:"cycles"`
	Samples    int             `yaml:"samples"`
	States     []string        `yaml:"states"`
	Initial    []float64       `yaml:"initial"`
	Treatments []TreatmentSpec `yaml:"treatments"`
}

// TreatmentSpec describes one treatment arm: a name for reporting and one
// row generator per model state, in state order.
type TreatmentSpec struct {
	Name string    `yaml:"name"`
	Rows []RowSpec `yaml:"rows"`
}

// RowSpec parameterizes the generator for one transition matrix row.
type RowSpec struct {
	Type   string    `yaml:"type"`
	Probs  []float64 `yaml:"probs,omitempty"`  // constant: explicit probabilities
	Alpha  []float64 `yaml:"alpha,omitempty"`  // dirichlet: concentration parameters
	Shape1 float64   `yaml:"shape1,omitempty"` // beta: first shape parameter
	Shape2 float64   `yaml:"shape2,omitempty"` // beta: second shape parameter
	Target int       `yaml:"target,omitempty"` // beta: state receiving the drawn probability
}

// Valid value registries.
var validRowTypes = map[string]bool{
	"constant": true, "dirichlet": true, "beta": true,
}

// Load reads and parses a YAML experiment specification file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func Load(path string) (*ExperimentSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading experiment spec: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML experiment specification from memory.
func Parse(data []byte) (*ExperimentSpec, error) {
	var spec ExperimentSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing experiment spec: %w", err)
	}
	return &spec, nil
}

// Validate checks that all fields in the spec are valid.
func (s *ExperimentSpec) Validate() error {
	if s.Cycles < 1 {
		return fmt.Errorf("cycles must be >= 1, got %d", s.Cycles)
	}
	if s.Samples < 1 {
		return fmt.Errorf("samples must be >= 1, got %d", s.Samples)
	}
	if len(s.States) == 0 {
		return fmt.Errorf("at least one state required")
	}
	seenStates := make(map[string]bool, len(s.States))
	for i, name := range s.States {
		if name == "" {
			return fmt.Errorf("state[%d]: name required", i)
		}
		if seenStates[name] {
			return fmt.Errorf("state[%d]: duplicate name %q", i, name)
		}
		seenStates[name] = true
	}
	n := len(s.States)
	if len(s.Initial) != n {
		return fmt.Errorf("initial has %d entries for %d states", len(s.Initial), n)
	}
	if _, err := sim.NewStateVector(s.Initial); err != nil {
		return fmt.Errorf("initial: %w", err)
	}
	if len(s.Treatments) == 0 {
		return fmt.Errorf("at least one treatment required")
	}
	seenTreatments := make(map[string]bool, len(s.Treatments))
	for i := range s.Treatments {
		t := &s.Treatments[i]
		if err := validateTreatment(t, i, n); err != nil {
			return err
		}
		if seenTreatments[t.Name] {
			return fmt.Errorf("treatment[%d]: duplicate name %q", i, t.Name)
		}
		seenTreatments[t.Name] = true
	}
	return nil
}

func validateTreatment(t *TreatmentSpec, idx, n int) error {
	prefix := fmt.Sprintf("treatment[%d]", idx)
	if t.Name == "" {
		return fmt.Errorf("%s: name required", prefix)
	}
	if len(t.Rows) != n {
		return fmt.Errorf("%s: %d rows for %d states", prefix, len(t.Rows), n)
	}
	for j := range t.Rows {
		if err := validateRow(&t.Rows[j], j, n); err != nil {
			return fmt.Errorf("%s.row[%d]: %w", prefix, j, err)
		}
	}
	return nil
}

func validateRow(r *RowSpec, row, n int) error {
	if !validRowTypes[r.Type] {
		return fmt.Errorf("unknown type %q; valid: constant, dirichlet, beta", r.Type)
	}
	switch r.Type {
	case "constant":
		if len(r.Probs) != n {
			return fmt.Errorf("probs has %d entries for %d states", len(r.Probs), n)
		}
		sum := 0.0
		for k, p := range r.Probs {
			if math.IsNaN(p) || math.IsInf(p, 0) {
				return fmt.Errorf("probs[%d] is not finite", k)
			}
			if p < 0 {
				return fmt.Errorf("probs[%d] must be non-negative, got %v", k, p)
			}
			sum += p
		}
		if math.Abs(sum-1) > sim.StochasticTol {
			return fmt.Errorf("probs sum to %v, want 1", sum)
		}
	case "dirichlet":
		if len(r.Alpha) != n {
			return fmt.Errorf("alpha has %d entries for %d states", len(r.Alpha), n)
		}
		for k, a := range r.Alpha {
			if math.IsNaN(a) || math.IsInf(a, 0) || a <= 0 {
				return fmt.Errorf("alpha[%d] must be positive and finite, got %v", k, a)
			}
		}
	case "beta":
		if math.IsNaN(r.Shape1) || math.IsInf(r.Shape1, 0) || r.Shape1 <= 0 {
			return fmt.Errorf("shape1 must be positive and finite, got %v", r.Shape1)
		}
		if math.IsNaN(r.Shape2) || math.IsInf(r.Shape2, 0) || r.Shape2 <= 0 {
			return fmt.Errorf("shape2 must be positive and finite, got %v", r.Shape2)
		}
		if r.Target < 0 || r.Target >= n {
			return fmt.Errorf("target %d outside [0,%d)", r.Target, n)
		}
		if r.Target == row {
			return fmt.Errorf("target %d is the row's own state", r.Target)
		}
	}
	return nil
}
