package coords

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

// TestPixelToPhysical verifies the forward mapping formula
func TestPixelToPhysical(t *testing.T) {
	tests := []struct {
		name       string
		pixel      float64
		resolution float64
		offset     float64
		want       float64
	}{
		{"origin", 0, 94.488, 0, 0},
		{"unit resolution", 50.2, 1, 0, 50.2},
		{"scaled", 50.2, 1000, 0, 0.0502},
		{"with offset", 100, 100, 2.5, 3.5},
		{"negative offset", 100, 100, -1, 0},
	}

	for _, tt := range tests {
		got, err := PixelToPhysical(tt.pixel, tt.resolution, tt.offset)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
			continue
		}
		if !scalar.EqualWithinAbsOrRel(got, tt.want, 1e-12, 1e-12) {
			t.Errorf("%s: expected %g mm, got %g mm", tt.name, tt.want, got)
		}
	}
}

// TestRoundTrip verifies that physical-to-pixel exactly inverts
// pixel-to-physical across resolutions, offsets and pixel positions
func TestRoundTrip(t *testing.T) {
	resolutions := []float64{0.1, 1, 94.488, 1000, 2400.0 / 25.4}
	offsets := []float64{-10, -0.5, 0, 0.25, 1000}
	pixels := []float64{0, 0.5, 1, 50.2, 99, 4095.75}

	for _, res := range resolutions {
		for _, off := range offsets {
			for _, px := range pixels {
				phys, err := PixelToPhysical(px, res, off)
				if err != nil {
					t.Fatalf("PixelToPhysical(%g, %g, %g): %v", px, res, off, err)
				}

				back, err := PhysicalToPixel(phys, res, off)
				if err != nil {
					t.Fatalf("PhysicalToPixel(%g, %g, %g): %v", phys, res, off, err)
				}

				if !scalar.EqualWithinAbsOrRel(back, px, 1e-9, 1e-9) {
					t.Errorf("round trip at px=%g res=%g off=%g: got %g back", px, res, off, back)
				}
			}
		}
	}
}

// TestInvalidResolution verifies that non-positive and non-finite
// resolutions are rejected with ErrInvalidDPI
func TestInvalidResolution(t *testing.T) {
	bad := []float64{0, -1, -94.488, math.NaN(), math.Inf(1)}

	for _, res := range bad {
		if _, err := PixelToPhysical(10, res, 0); !errors.Is(err, ErrInvalidDPI) {
			t.Errorf("PixelToPhysical with resolution %v: expected ErrInvalidDPI, got %v", res, err)
		}
		if _, err := PhysicalToPixel(10, res, 0); !errors.Is(err, ErrInvalidDPI) {
			t.Errorf("PhysicalToPixel with resolution %v: expected ErrInvalidDPI, got %v", res, err)
		}
		if _, err := ResolutionFromDPI(res); !errors.Is(err, ErrInvalidDPI) {
			t.Errorf("ResolutionFromDPI(%v): expected ErrInvalidDPI, got %v", res, err)
		}
	}
}

// TestResolutionFromDPI verifies the DPI to px/mm conversion
func TestResolutionFromDPI(t *testing.T) {
	res, err := ResolutionFromDPI(2400)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := 2400.0 / 25.4
	if !scalar.EqualWithinAbsOrRel(res, want, 1e-12, 1e-12) {
		t.Errorf("expected %g px/mm, got %g px/mm", want, res)
	}
}

// TestIndexMapping verifies pixel/index conversion and its identity at
// granularity 1
func TestIndexMapping(t *testing.T) {
	// Identity when every column is sampled
	idx, err := PixelToIndex(42.5, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 42.5 {
		t.Errorf("granularity 1 should be identity, got %g", idx)
	}

	// Coarser sampling
	idx, err = PixelToIndex(10, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 5 {
		t.Errorf("expected index 5 at granularity 2, got %g", idx)
	}

	px, err := IndexToPixel(idx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if px != 10 {
		t.Errorf("expected pixel 10 back, got %g", px)
	}

	if _, err := PixelToIndex(10, 0); !errors.Is(err, ErrInvalidDPI) {
		t.Errorf("zero granularity: expected ErrInvalidDPI, got %v", err)
	}
}
