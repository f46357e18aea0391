package interpolation

import (
	"errors"
	"math"
	"testing"
)

// TestExactAtSamples verifies the defining interpolation property: the
// continuous profile reproduces every sampled value exactly at integer
// positions
func TestExactAtSamples(t *testing.T) {
	profiles := [][]float64{
		{0, 1, 4, 9, 16, 25},
		{128, 64, 200, 3.5, 77.25, 91, 12},
		{5, 5, 5, 5},
	}

	for _, prof := range profiles {
		cp, err := Build(prof)
		if err != nil {
			t.Fatalf("Build(%v): %v", prof, err)
		}

		if !cp.Cubic() {
			t.Errorf("profile with %d samples should use the cubic spline", len(prof))
		}

		for i, want := range prof {
			got, err := cp.Evaluate(float64(i))
			if err != nil {
				t.Fatalf("Evaluate(%d): %v", i, err)
			}
			if got != want {
				t.Errorf("Evaluate(%d): expected exactly %g, got %g", i, want, got)
			}
		}
	}
}

// TestLinearFallback verifies the documented degradation to linear
// interpolation for profiles with fewer than 4 samples
func TestLinearFallback(t *testing.T) {
	cp, err := Build([]float64{10, 20, 40})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cp.Cubic() {
		t.Error("3-sample profile should fall back to linear interpolation")
	}

	// Linear interpolation between samples
	got, err := cp.Evaluate(0.5)
	if err != nil {
		t.Fatalf("Evaluate(0.5): %v", err)
	}
	if math.Abs(got-15) > 1e-12 {
		t.Errorf("expected 15 at midpoint, got %g", got)
	}

	// Sampled values still reproduced exactly
	for i, want := range []float64{10, 20, 40} {
		got, err := cp.Evaluate(float64(i))
		if err != nil {
			t.Fatalf("Evaluate(%d): %v", i, err)
		}
		if got != want {
			t.Errorf("Evaluate(%d): expected exactly %g, got %g", i, want, got)
		}
	}
}

// TestEmptyProfile verifies that profiles too short to interpolate are
// rejected
func TestEmptyProfile(t *testing.T) {
	for _, prof := range [][]float64{nil, {}, {42}} {
		if _, err := Build(prof); !errors.Is(err, ErrEmptyProfile) {
			t.Errorf("Build with %d samples: expected ErrEmptyProfile, got %v", len(prof), err)
		}
	}
}

// TestOutOfDomain verifies that evaluation outside [0, N-1] fails
func TestOutOfDomain(t *testing.T) {
	cp, err := Build([]float64{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, x := range []float64{-0.001, -5, 4.001, 100} {
		if _, err := cp.Evaluate(x); !errors.Is(err, ErrOutOfDomain) {
			t.Errorf("Evaluate(%g): expected ErrOutOfDomain, got %v", x, err)
		}
	}

	// Domain boundaries themselves are valid
	for _, x := range []float64{0, 4} {
		if _, err := cp.Evaluate(x); err != nil {
			t.Errorf("Evaluate(%g) at domain boundary: unexpected error %v", x, err)
		}
	}
}

// TestLinearDataReproduced verifies that the cubic spline through linear
// data is linear between samples as well
func TestLinearDataReproduced(t *testing.T) {
	prof := make([]float64, 10)
	for i := range prof {
		prof[i] = 3*float64(i) + 1
	}

	cp, err := Build(prof)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, x := range []float64{0.25, 1.5, 4.75, 8.9} {
		got, err := cp.Evaluate(x)
		if err != nil {
			t.Fatalf("Evaluate(%g): %v", x, err)
		}
		want := 3*x + 1
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("Evaluate(%g): expected %g, got %g", x, want, got)
		}
	}
}

// TestDomain verifies the reported domain and sample count
func TestDomain(t *testing.T) {
	cp, err := Build(make([]float64, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cp.Len() != 100 {
		t.Errorf("expected 100 samples, got %d", cp.Len())
	}
	if cp.Domain() != 99 {
		t.Errorf("expected domain bound 99, got %g", cp.Domain())
	}
}
