package sim

import (
	"errors"
	"math"
	"testing"
)

func TestNewStateVector_ValidInput_CopiesValues(t *testing.T) {
	in := []float64{0.6, 0.3, 0.1}
	v, err := NewStateVector(in)
	if err != nil {
		t.Fatalf("NewStateVector failed: %v", err)
	}
	if len(v) != 3 {
		t.Fatalf("len = %d, want 3", len(v))
	}
	for i := range in {
		if v[i] != in[i] {
			t.Errorf("v[%d] = %v, want %v", i, v[i], in[i])
		}
	}

	// The input slice must not be aliased.
	in[0] = 99
	if v[0] == 99 {
		t.Error("NewStateVector aliased the input slice")
	}
}

func TestNewStateVector_NaN_ReturnsNotFinite(t *testing.T) {
	_, err := NewStateVector([]float64{0.5, math.NaN(), 0.5})
	if err == nil {
		t.Fatal("expected error for NaN occupancy, got nil")
	}
	if !errors.Is(err, ErrNotFinite) {
		t.Errorf("error = %v, want ErrNotFinite", err)
	}
}

func TestNewStateVector_Inf_ReturnsNotFinite(t *testing.T) {
	_, err := NewStateVector([]float64{math.Inf(1), 0})
	if err == nil {
		t.Fatal("expected error for Inf occupancy, got nil")
	}
	if !errors.Is(err, ErrNotFinite) {
		t.Errorf("error = %v, want ErrNotFinite", err)
	}
}

func TestNewStateVector_Negative_ReturnsNegative(t *testing.T) {
	_, err := NewStateVector([]float64{0.5, -0.1, 0.6})
	if err == nil {
		t.Fatal("expected error for negative occupancy, got nil")
	}
	if !errors.Is(err, ErrNegative) {
		t.Errorf("error = %v, want ErrNegative", err)
	}
}

func TestNewStateVector_Empty_IsValid(t *testing.T) {
	v, err := NewStateVector(nil)
	if err != nil {
		t.Fatalf("NewStateVector(nil) failed: %v", err)
	}
	if len(v) != 0 {
		t.Errorf("len = %d, want 0", len(v))
	}
}

func TestStateVector_Sum(t *testing.T) {
	v := StateVector{0.25, 0.25, 0.5}
	if got := v.Sum(); got != 1.0 {
		t.Errorf("Sum() = %v, want 1.0", got)
	}
}

func TestStateVector_Clone_Independent(t *testing.T) {
	v := StateVector{1, 2, 3}
	c := v.Clone()
	c[0] = 42
	if v[0] != 1 {
		t.Errorf("mutating clone changed original: v[0] = %v", v[0])
	}
}
