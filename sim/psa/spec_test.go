package psa

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempSpec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "experiment.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp spec: %v", err)
	}
	return path
}

// validSpec returns a spec that passes Validate. Tests mutate single
// fields to trigger specific failures.
func validSpec() *ExperimentSpec {
	return &ExperimentSpec{
		Seed:    42,
		Cycles:  10,
		Samples: 4,
		States:  []string{"healthy", "sick", "dead"},
		Initial: []float64{1, 0, 0},
		Treatments: []TreatmentSpec{
			{
				Name: "standard-care",
				Rows: []RowSpec{
					{Type: "constant", Probs: []float64{0.85, 0.10, 0.05}},
					{Type: "dirichlet", Alpha: []float64{1, 70, 30}},
					{Type: "constant", Probs: []float64{0, 0, 1}},
				},
			},
			{
				Name: "new-drug",
				Rows: []RowSpec{
					{Type: "dirichlet", Alpha: []float64{88, 8, 4}},
					{Type: "beta", Shape1: 4, Shape2: 12, Target: 2},
					{Type: "constant", Probs: []float64{0, 0, 1}},
				},
			},
		},
	}
}

func TestLoadExperimentSpec_ValidYAML_LoadsCorrectly(t *testing.T) {
	path := writeTempSpec(t, `
seed: 7
cycles: 60
samples: 200
states: [healthy, sick, dead]
initial: [1.0, 0.0, 0.0]
treatments:
  - name: standard-care
    rows:
      - type: constant
        probs: [0.85, 0.10, 0.05]
      - type: dirichlet
        alpha: [1, 70, 30]
      - type: constant
        probs: [0, 0, 1]
  - name: new-drug
    rows:
      - type: dirichlet
        alpha: [88, 8, 4]
      - type: beta
        shape1: 4
        shape2: 12
        target: 2
      - type: constant
        probs: [0, 0, 1]
`)

	spec, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if spec.Seed != 7 {
		t.Errorf("Seed = %d, want 7", spec.Seed)
	}
	if spec.Cycles != 60 {
		t.Errorf("Cycles = %d, want 60", spec.Cycles)
	}
	if spec.Samples != 200 {
		t.Errorf("Samples = %d, want 200", spec.Samples)
	}
	if len(spec.States) != 3 || spec.States[1] != "sick" {
		t.Errorf("States = %v, want [healthy sick dead]", spec.States)
	}
	if len(spec.Treatments) != 2 {
		t.Fatalf("got %d treatments, want 2", len(spec.Treatments))
	}
	if spec.Treatments[0].Name != "standard-care" {
		t.Errorf("treatment 0 name = %q, want standard-care", spec.Treatments[0].Name)
	}
	beta := spec.Treatments[1].Rows[1]
	if beta.Type != "beta" || beta.Shape1 != 4 || beta.Shape2 != 12 || beta.Target != 2 {
		t.Errorf("beta row = %+v, want shape1=4 shape2=12 target=2", beta)
	}
	if err := spec.Validate(); err != nil {
		t.Errorf("Validate failed on loaded spec: %v", err)
	}
}

func TestLoadExperimentSpec_UnknownKey_ReturnsError(t *testing.T) {
	path := writeTempSpec(t, `
seed: 7
cycles: 60
samples: 200
sates: [healthy, dead]
initial: [1.0, 0.0]
treatments: []
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown key 'sates', got nil")
	}
}

func TestLoadExperimentSpec_UnknownRowKey_ReturnsError(t *testing.T) {
	path := writeTempSpec(t, `
cycles: 10
samples: 2
states: [a, b]
initial: [1, 0]
treatments:
  - name: t0
    rows:
      - type: constant
        porbs: [0.5, 0.5]
      - type: constant
        probs: [0, 1]
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown key 'porbs', got nil")
	}
}

func TestLoadExperimentSpec_MissingFile_ReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestExperimentSpec_Validate_ValidSpec_Passes(t *testing.T) {
	if err := validSpec().Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestExperimentSpec_Validate_BadShape(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*ExperimentSpec)
		wantSub string
	}{
		{"zero cycles", func(s *ExperimentSpec) { s.Cycles = 0 }, "cycles"},
		{"negative samples", func(s *ExperimentSpec) { s.Samples = -1 }, "samples"},
		{"no states", func(s *ExperimentSpec) { s.States = nil }, "state"},
		{"empty state name", func(s *ExperimentSpec) { s.States[1] = "" }, "name required"},
		{"duplicate state", func(s *ExperimentSpec) { s.States[2] = "healthy" }, "duplicate"},
		{"initial wrong length", func(s *ExperimentSpec) { s.Initial = []float64{1, 0} }, "initial"},
		{"initial negative", func(s *ExperimentSpec) { s.Initial[0] = -1 }, "initial"},
		{"no treatments", func(s *ExperimentSpec) { s.Treatments = nil }, "treatment"},
		{"unnamed treatment", func(s *ExperimentSpec) { s.Treatments[0].Name = "" }, "name required"},
		{"duplicate treatment", func(s *ExperimentSpec) { s.Treatments[1].Name = "standard-care" }, "duplicate"},
		{"row count mismatch", func(s *ExperimentSpec) { s.Treatments[0].Rows = s.Treatments[0].Rows[:2] }, "rows"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := validSpec()
			tc.mutate(spec)
			err := spec.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestExperimentSpec_Validate_BadRows(t *testing.T) {
	cases := []struct {
		name    string
		row     RowSpec
		wantSub string
	}{
		{"unknown type", RowSpec{Type: "gamma"}, "unknown type"},
		{"constant wrong length", RowSpec{Type: "constant", Probs: []float64{1}}, "probs has"},
		{"constant bad sum", RowSpec{Type: "constant", Probs: []float64{0.5, 0.4, 0.0}}, "sum to"},
		{"constant negative", RowSpec{Type: "constant", Probs: []float64{1.2, -0.2, 0}}, "non-negative"},
		{"dirichlet wrong length", RowSpec{Type: "dirichlet", Alpha: []float64{1, 2}}, "alpha has"},
		{"dirichlet zero alpha", RowSpec{Type: "dirichlet", Alpha: []float64{1, 0, 1}}, "positive"},
		{"beta zero shape1", RowSpec{Type: "beta", Shape1: 0, Shape2: 2, Target: 1}, "shape1"},
		{"beta negative shape2", RowSpec{Type: "beta", Shape1: 2, Shape2: -3, Target: 1}, "shape2"},
		{"beta target out of range", RowSpec{Type: "beta", Shape1: 2, Shape2: 2, Target: 7}, "target"},
		{"beta target is own state", RowSpec{Type: "beta", Shape1: 2, Shape2: 2, Target: 0}, "own state"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := validSpec()
			spec.Treatments[0].Rows[0] = tc.row
			err := spec.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("error %q does not mention %q", err, tc.wantSub)
			}
			if !strings.Contains(err.Error(), "treatment[0].row[0]") {
				t.Errorf("error %q does not locate treatment[0].row[0]", err)
			}
		})
	}
}
