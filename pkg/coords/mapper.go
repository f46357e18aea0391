// Package coords converts between the three coordinate spaces of a scanned
// photoplate: raw pixel columns, physical position along the plate in mm,
// and profile-array sample indices. All conversions are pure and exactly
// invertible to floating-point tolerance.
package coords

import (
	"errors"
	"fmt"
	"math"
)

// MillimetresPerInch converts operator-entered DPI to pixels per millimetre.
const MillimetresPerInch = 25.4

// ErrInvalidDPI is returned when the scan resolution is not a positive
// finite number. No coordinate mapping is valid until a resolution is set.
var ErrInvalidDPI = errors.New("scan resolution must be a positive finite number")

// ResolutionFromDPI converts a dots-per-inch value to pixels per millimetre.
func ResolutionFromDPI(dpi float64) (float64, error) {
	if err := checkResolution(dpi); err != nil {
		return 0, err
	}
	return dpi / MillimetresPerInch, nil
}

// PixelToPhysical maps a pixel column position to a physical position in mm.
// Resolution is in pixels per mm; offset is the operator-supplied origin
// correction in mm, added after scaling.
func PixelToPhysical(pixel, resolution, offset float64) (float64, error) {
	if err := checkResolution(resolution); err != nil {
		return 0, err
	}
	return pixel/resolution + offset, nil
}

// PhysicalToPixel maps a physical position in mm back to a pixel column
// position. It is the exact inverse of PixelToPhysical for the same
// resolution and offset.
func PhysicalToPixel(physical, resolution, offset float64) (float64, error) {
	if err := checkResolution(resolution); err != nil {
		return 0, err
	}
	return (physical - offset) * resolution, nil
}

// PixelToIndex maps a pixel column position to a profile-array index for a
// given sampling granularity (pixels per sample). Granularity 1 is the
// identity, the common case when every column is sampled.
func PixelToIndex(pixel, pixelsPerSample float64) (float64, error) {
	if err := checkGranularity(pixelsPerSample); err != nil {
		return 0, err
	}
	return pixel / pixelsPerSample, nil
}

// IndexToPixel maps a profile-array index back to a pixel column position.
func IndexToPixel(index, pixelsPerSample float64) (float64, error) {
	if err := checkGranularity(pixelsPerSample); err != nil {
		return 0, err
	}
	return index * pixelsPerSample, nil
}

func checkResolution(resolution float64) error {
	if math.IsNaN(resolution) || math.IsInf(resolution, 0) || resolution <= 0 {
		return fmt.Errorf("resolution %v: %w", resolution, ErrInvalidDPI)
	}
	return nil
}

func checkGranularity(pixelsPerSample float64) error {
	if math.IsNaN(pixelsPerSample) || math.IsInf(pixelsPerSample, 0) || pixelsPerSample <= 0 {
		return fmt.Errorf("sampling granularity %v: %w", pixelsPerSample, ErrInvalidDPI)
	}
	return nil
}
