package models

import (
	"image"
)

// Plate represents a scanned photoplate with its scan metadata
type Plate struct {
	// Image is the decoded bitmap of the scanned plate
	Image image.Image

	// Width and Height are the bitmap dimensions in pixels
	Width  int
	Height int

	// Resolution is the scan resolution in pixels per millimetre
	Resolution float64

	// Filename is the path the plate was loaded from
	Filename string
}

// RowRange selects the horizontal band of plate rows that contribute to
// the intensity profile. Start is inclusive, End is exclusive.
type RowRange struct {
	Start int
	End   int
}

// FullHeight returns the row range covering the whole plate.
func (p *Plate) FullHeight() RowRange {
	return RowRange{Start: 0, End: p.Height}
}

// Rows returns the number of rows in the range.
func (r RowRange) Rows() int {
	return r.End - r.Start
}
