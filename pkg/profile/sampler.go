// Package profile reduces a scanned photoplate bitmap to a one-dimensional
// intensity profile, one sample per pixel column, analogous to a
// densitometer trace along the dispersion axis.
package profile

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"gonum.org/v1/gonum/stat"

	"photoplate/internal/models"
)

// ErrOutOfRange is returned when the requested row range does not lie
// within the plate bounds.
var ErrOutOfRange = errors.New("row range outside plate bounds")

// Sample produces the discrete intensity profile of img restricted to the
// given row range. Entry i is 255 minus the mean 8-bit gray value of pixel
// column i over rows [rows.Start, rows.End): photoplates are negatives, so
// emission lines expose the plate dark and the inversion makes them read
// as peaks. A one-row range degenerates to that row's raw inverted values.
func Sample(img image.Image, rows models.RowRange) ([]float64, error) {
	bounds := img.Bounds()
	height := bounds.Dy()
	width := bounds.Dx()

	if rows.Start < 0 || rows.End > height || rows.Start >= rows.End {
		return nil, fmt.Errorf("rows [%d, %d) of %d: %w", rows.Start, rows.End, height, ErrOutOfRange)
	}

	intensities := make([]float64, width)
	column := make([]float64, rows.Rows())

	for x := 0; x < width; x++ {
		for y := rows.Start; y < rows.End; y++ {
			column[y-rows.Start] = grayValue(img, bounds.Min.X+x, bounds.Min.Y+y)
		}
		intensities[x] = 255 - stat.Mean(column, nil)
	}

	return intensities, nil
}

// grayValue returns the 8-bit luminance of the pixel at (x, y).
func grayValue(img image.Image, x, y int) float64 {
	g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
	return float64(g.Y)
}
