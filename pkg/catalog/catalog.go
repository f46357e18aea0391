// Package catalog maintains the ordered collection of spectral line
// records marked by the operator, and persists it to the line file format
// shared between sessions.
//
// Records store physical positions with the offset applied at record time,
// so editing the offset afterwards never shifts lines already marked.
// Delete and comment operate on the record nearest to the cursor's mapped
// physical position, guarded by a tolerance so a click near several lines
// cannot silently hit the wrong one.
package catalog

import (
	"errors"
	"fmt"
	"math"

	"photoplate/pkg/coords"
	"photoplate/pkg/interpolation"
)

// ErrNotFound is returned when no record lies within the match tolerance
// of the cursor position.
var ErrNotFound = errors.New("no line within tolerance of cursor")

// ErrDuplicate is returned when adding a line that is already recorded
// within the match tolerance of the cursor position.
var ErrDuplicate = errors.New("line already recorded at this position")

// Record is one digitized spectral line.
type Record struct {
	// Position is the line position in physical units (mm), with the
	// session offset already applied
	Position float64

	// Intensity is the interpolated profile value at the recorded
	// pixel position
	Intensity float64

	// Comment is optional operator-attached text
	Comment string
}

// Catalog is an ordered sequence of line records. Records keep insertion
// order; serialization preserves it so a saved and reloaded catalog is
// record-for-record identical.
type Catalog struct {
	// Resolution and Offset are the scan resolution (px/mm) and
	// physical offset (mm) in force for this catalog's session. They
	// are persisted in the line file header and restored on load.
	Resolution float64
	Offset     float64

	records []Record
}

// New creates an empty catalog for the given resolution and offset.
func New(resolution, offset float64) *Catalog {
	return &Catalog{Resolution: resolution, Offset: offset}
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Records returns a copy of the records in insertion order.
func (c *Catalog) Records() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// AddLine records a new line at the cursor's pixel position. The position
// is mapped to physical units through resolution and offset, and the
// intensity is read from the continuous profile at the cursor. A line
// already recorded within tolerance of the cursor fails with ErrDuplicate
// rather than producing a near-coincident double marking. On any failure
// the catalog is unchanged.
func (c *Catalog) AddLine(cursorPixel float64, prof *interpolation.ContinuousProfile, resolution, offset, tolerance float64) (Record, error) {
	intensity, err := prof.Evaluate(cursorPixel)
	if err != nil {
		return Record{}, err
	}

	physical, err := coords.PixelToPhysical(cursorPixel, resolution, offset)
	if err != nil {
		return Record{}, err
	}

	if idx, dist := c.nearest(physical); idx >= 0 && dist <= tolerance {
		return Record{}, fmt.Errorf("position %.4f mm matches record at %.4f mm: %w",
			physical, c.records[idx].Position, ErrDuplicate)
	}

	rec := Record{Position: physical, Intensity: intensity}
	c.records = append(c.records, rec)
	return rec, nil
}

// DeleteNearest removes the record closest to the cursor's mapped physical
// position. If the closest record is farther than tolerance the catalog is
// left intact and ErrNotFound is returned. When two records are
// equidistant the earlier-inserted one is removed.
func (c *Catalog) DeleteNearest(cursorPixel, resolution, offset, tolerance float64) (Record, error) {
	idx, err := c.match(cursorPixel, resolution, offset, tolerance)
	if err != nil {
		return Record{}, err
	}

	rec := c.records[idx]
	c.records = append(c.records[:idx], c.records[idx+1:]...)
	return rec, nil
}

// CommentNearest sets or replaces the comment on the record closest to the
// cursor's mapped physical position, under the same tolerance and
// tie-break rules as DeleteNearest.
func (c *Catalog) CommentNearest(cursorPixel, resolution, offset, tolerance float64, text string) (Record, error) {
	idx, err := c.match(cursorPixel, resolution, offset, tolerance)
	if err != nil {
		return Record{}, err
	}

	c.records[idx].Comment = text
	return c.records[idx], nil
}

// match maps the cursor to physical units and returns the index of the
// nearest record within tolerance.
func (c *Catalog) match(cursorPixel, resolution, offset, tolerance float64) (int, error) {
	physical, err := coords.PixelToPhysical(cursorPixel, resolution, offset)
	if err != nil {
		return -1, err
	}

	idx, dist := c.nearest(physical)
	if idx < 0 || dist > tolerance {
		return -1, fmt.Errorf("cursor at %.4f mm: %w", physical, ErrNotFound)
	}
	return idx, nil
}

// nearest returns the index and distance of the record closest to the
// given physical position, or (-1, +Inf) for an empty catalog. Strict
// less-than keeps the earliest-inserted record on ties.
func (c *Catalog) nearest(physical float64) (int, float64) {
	best := -1
	bestDist := math.Inf(1)
	for i, rec := range c.records {
		if d := math.Abs(rec.Position - physical); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best, bestDist
}
