// Package session holds the state of one digitizing session: the loaded
// plate, the viewport and its derived profile, the cursor, the coordinate
// parameters, and the line catalog. All core operations go through the
// session with explicit state rather than ambient globals, so each one is
// a plain function of what the session currently holds.
//
// Operations are synchronous and run to completion before the next one is
// issued, so every catalog mutation is atomic by construction. Replacing
// the plate or the catalog commits only after the new one is fully built;
// a failed load leaves the previous state intact.
package session

import (
	"errors"
	"fmt"

	"photoplate/internal/models"
	"photoplate/pkg/catalog"
	"photoplate/pkg/config"
	"photoplate/pkg/coords"
	"photoplate/pkg/interpolation"
	"photoplate/pkg/plate"
	"photoplate/pkg/profile"
)

// ErrNoPlate is returned by operations that need a loaded plate.
var ErrNoPlate = errors.New("no plate loaded")

// ErrNoCursor is returned by operations that need a positioned cursor.
var ErrNoCursor = errors.New("cursor not positioned")

// Session is the state of one digitizing session.
type Session struct {
	plate      *models.Plate
	viewport   models.RowRange
	profile    []float64
	continuous *interpolation.ContinuousProfile

	cursor    float64
	cursorSet bool

	resolution float64 // px/mm
	offset     float64 // mm
	tolerance  float64 // mm, nearest-match guard

	catalog *catalog.Catalog
}

// New creates a session with an empty catalog and the configured defaults.
func New(cfg *config.Config) (*Session, error) {
	res, err := coords.ResolutionFromDPI(cfg.Plate.DPI)
	if err != nil {
		return nil, fmt.Errorf("configured DPI: %w", err)
	}

	return &Session{
		resolution: res,
		offset:     cfg.Plate.Offset,
		tolerance:  cfg.Catalog.Tolerance,
		catalog:    catalog.New(res, cfg.Plate.Offset),
	}, nil
}

// LoadPlate opens a plate bitmap and derives its full-height profile. The
// previous plate and all derived state are replaced only once loading and
// sampling succeed. The catalog is kept: line records live independently
// of which plate is open.
func (s *Session) LoadPlate(path string) error {
	p, err := plate.Load(path, s.resolution)
	if err != nil {
		return err
	}

	rows := p.FullHeight()
	prof, cont, err := derive(p, rows)
	if err != nil {
		return err
	}

	s.plate = p
	s.viewport = rows
	s.profile = prof
	s.continuous = cont
	s.cursorSet = false
	return nil
}

// SetViewport restricts sampling to a band of plate rows and rebuilds the
// profile from it. On failure the previous viewport and profile stay live.
func (s *Session) SetViewport(rows models.RowRange) error {
	if s.plate == nil {
		return ErrNoPlate
	}

	prof, cont, err := derive(s.plate, rows)
	if err != nil {
		return err
	}

	s.viewport = rows
	s.profile = prof
	s.continuous = cont
	return nil
}

// derive samples the plate over the row range and wraps the result in a
// continuous profile.
func derive(p *models.Plate, rows models.RowRange) ([]float64, *interpolation.ContinuousProfile, error) {
	prof, err := profile.Sample(p.Image, rows)
	if err != nil {
		return nil, nil, err
	}

	cont, err := interpolation.Build(prof)
	if err != nil {
		return nil, nil, err
	}
	return prof, cont, nil
}

// SetCursor positions the cursor at a sub-pixel column position, clamped
// to the profile domain.
func (s *Session) SetCursor(pixel float64) error {
	if s.continuous == nil {
		return ErrNoPlate
	}

	if pixel < 0 {
		pixel = 0
	}
	if max := s.continuous.Domain(); pixel > max {
		pixel = max
	}
	s.cursor = pixel
	s.cursorSet = true
	return nil
}

// Cursor returns the cursor pixel position and whether one is set.
func (s *Session) Cursor() (float64, bool) {
	return s.cursor, s.cursorSet
}

// CursorPhysical maps the cursor to physical units with the session's
// resolution and offset.
func (s *Session) CursorPhysical() (float64, error) {
	if !s.cursorSet {
		return 0, ErrNoCursor
	}
	return coords.PixelToPhysical(s.cursor, s.resolution, s.offset)
}

// CursorIntensity reads the continuous profile at the cursor.
func (s *Session) CursorIntensity() (float64, error) {
	if !s.cursorSet {
		return 0, ErrNoCursor
	}
	return s.continuous.Evaluate(s.cursor)
}

// SetDPI changes the scan resolution from an operator-entered DPI value.
// Already-recorded positions are not rescaled; the new resolution applies
// to subsequent mappings.
func (s *Session) SetDPI(dpi float64) error {
	res, err := coords.ResolutionFromDPI(dpi)
	if err != nil {
		return err
	}
	s.resolution = res
	s.catalog.Resolution = res
	return nil
}

// SetOffset changes the physical offset. Applied at record time, so
// existing records keep their stored positions.
func (s *Session) SetOffset(offset float64) {
	s.offset = offset
	s.catalog.Offset = offset
}

// SetTolerance changes the nearest-match tolerance in mm.
func (s *Session) SetTolerance(tolerance float64) {
	s.tolerance = tolerance
}

// AddLine records a line at the cursor.
func (s *Session) AddLine() (catalog.Record, error) {
	if !s.cursorSet {
		return catalog.Record{}, ErrNoCursor
	}
	return s.catalog.AddLine(s.cursor, s.continuous, s.resolution, s.offset, s.tolerance)
}

// DeleteNearest removes the record nearest the cursor, within tolerance.
func (s *Session) DeleteNearest() (catalog.Record, error) {
	if !s.cursorSet {
		return catalog.Record{}, ErrNoCursor
	}
	return s.catalog.DeleteNearest(s.cursor, s.resolution, s.offset, s.tolerance)
}

// CommentNearest attaches text to the record nearest the cursor, within
// tolerance.
func (s *Session) CommentNearest(text string) (catalog.Record, error) {
	if !s.cursorSet {
		return catalog.Record{}, ErrNoCursor
	}
	return s.catalog.CommentNearest(s.cursor, s.resolution, s.offset, s.tolerance, text)
}

// SaveLines writes the catalog to a line file.
func (s *Session) SaveLines(path string) error {
	return s.catalog.WriteFile(path)
}

// LoadLines replaces the catalog with one loaded from a line file. The
// swap happens only after a fully successful parse; on failure the
// current catalog is untouched. The file's resolution and offset are
// restored into the session so subsequent mappings match the loaded
// records.
func (s *Session) LoadLines(path string) error {
	c, err := catalog.ReadFile(path)
	if err != nil {
		return err
	}

	s.catalog = c
	s.resolution = c.Resolution
	s.offset = c.Offset
	return nil
}

// Plate returns the loaded plate, or nil.
func (s *Session) Plate() *models.Plate {
	return s.plate
}

// Viewport returns the current sampled row range.
func (s *Session) Viewport() models.RowRange {
	return s.viewport
}

// Profile returns the discrete profile of the current viewport.
func (s *Session) Profile() []float64 {
	return s.profile
}

// Continuous returns the continuous profile, or nil before a plate loads.
func (s *Session) Continuous() *interpolation.ContinuousProfile {
	return s.continuous
}

// Catalog returns the live line catalog.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Resolution returns the scan resolution in px/mm.
func (s *Session) Resolution() float64 {
	return s.resolution
}

// Offset returns the physical offset in mm.
func (s *Session) Offset() float64 {
	return s.offset
}

// Tolerance returns the nearest-match tolerance in mm.
func (s *Session) Tolerance() float64 {
	return s.tolerance
}
