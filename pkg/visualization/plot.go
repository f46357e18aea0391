// Package visualization renders the intensity profile and recorded line
// markers to image files: the main profile view over the visible pixel
// range, and a mirrored magnifier view that reflects the curve about the
// cursor so the operator can centre it on a symmetric peak.
package visualization

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"photoplate/pkg/catalog"
	"photoplate/pkg/coords"
	"photoplate/pkg/interpolation"
)

// curveSamples is the number of points used to draw the profile curve
// across the plotted range.
const curveSamples = 2000

var (
	curveColor  = color.RGBA{A: 255}
	mirrorColor = color.RGBA{R: 127, G: 127, B: 127, A: 255}
	markerColor = color.RGBA{R: 23, G: 190, B: 207, A: 255}
	cursorColor = color.RGBA{R: 255, A: 255}
)

// Renderer draws profile plots for one continuous profile and the line
// records marked against it.
type Renderer struct {
	cont       *interpolation.ContinuousProfile
	records    []catalog.Record
	resolution float64
	offset     float64

	// plot dimensions in centimetres
	width  float64
	height float64
}

// NewRenderer creates a renderer. Records may be empty; an empty catalog
// renders as a bare curve.
func NewRenderer(cont *interpolation.ContinuousProfile, records []catalog.Record, resolution, offset, widthCm, heightCm float64) *Renderer {
	return &Renderer{
		cont:       cont,
		records:    records,
		resolution: resolution,
		offset:     offset,
		width:      widthCm,
		height:     heightCm,
	}
}

// ProfilePlot builds the profile view over pixel range [lo, hi] with one
// vertical marker per record in range and a cursor marker at cursorPixel.
// A negative cursorPixel suppresses the cursor marker.
func (r *Renderer) ProfilePlot(lo, hi, cursorPixel float64) (*plot.Plot, error) {
	lo, hi = r.clampRange(lo, hi)

	p := plot.New()
	p.X.Label.Text = "Position (px)"
	p.Y.Label.Text = "Intensity"

	yMin, yMax, err := r.addCurve(p, lo, hi, false, 0)
	if err != nil {
		return nil, err
	}

	for _, rec := range r.records {
		px, err := coords.PhysicalToPixel(rec.Position, r.resolution, r.offset)
		if err != nil {
			return nil, err
		}
		if px < lo || px > hi {
			continue
		}
		if err := addMarker(p, px, yMin, yMax, markerColor, 2); err != nil {
			return nil, err
		}
	}

	if cursorPixel >= lo && cursorPixel <= hi {
		if err := addMarker(p, cursorPixel, yMin, yMax, cursorColor, 1); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// MirrorPlot builds the magnifier view: the curve over a window of
// halfWidth pixels around the cursor, overlaid with its reflection about
// the cursor. A line is centred exactly when curve and reflection
// coincide.
func (r *Renderer) MirrorPlot(cursorPixel, halfWidth float64) (*plot.Plot, error) {
	lo, hi := r.clampRange(cursorPixel-halfWidth, cursorPixel+halfWidth)

	p := plot.New()
	p.X.Label.Text = "Position (px)"
	p.Y.Label.Text = "Intensity"

	yMin, yMax, err := r.addCurve(p, lo, hi, false, 0)
	if err != nil {
		return nil, err
	}

	// Reflected copy: intensity at x drawn at 2*cursor - x.
	if _, _, err := r.addCurve(p, lo, hi, true, cursorPixel); err != nil {
		return nil, err
	}

	if err := addMarker(p, cursorPixel, yMin, yMax, cursorColor, 1); err != nil {
		return nil, err
	}

	return p, nil
}

// SaveProfile renders the profile view to an image file (format from the
// extension: .png, .svg, .pdf, ...).
func (r *Renderer) SaveProfile(lo, hi, cursorPixel float64, path string) error {
	p, err := r.ProfilePlot(lo, hi, cursorPixel)
	if err != nil {
		return err
	}
	if err := p.Save(vg.Length(r.width)*vg.Centimeter, vg.Length(r.height)*vg.Centimeter, path); err != nil {
		return fmt.Errorf("saving profile plot %s: %w", path, err)
	}
	return nil
}

// SaveMirror renders the magnifier view to an image file.
func (r *Renderer) SaveMirror(cursorPixel, halfWidth float64, path string) error {
	p, err := r.MirrorPlot(cursorPixel, halfWidth)
	if err != nil {
		return err
	}
	if err := p.Save(vg.Length(r.height)*vg.Centimeter, vg.Length(r.height)*vg.Centimeter, path); err != nil {
		return fmt.Errorf("saving mirror plot %s: %w", path, err)
	}
	return nil
}

// addCurve samples the profile over [lo, hi] and adds it to the plot,
// optionally reflected about mirror. Returns the sampled intensity range.
func (r *Renderer) addCurve(p *plot.Plot, lo, hi float64, reflect bool, mirror float64) (yMin, yMax float64, err error) {
	step := (hi - lo) / curveSamples
	if step <= 0 {
		return 0, 0, fmt.Errorf("empty plot range [%g, %g]", lo, hi)
	}

	pts := make(plotter.XYs, 0, curveSamples+1)
	yMin, yMax = math.Inf(1), math.Inf(-1)
	for x := lo; x <= hi; x += step {
		y, err := r.cont.Evaluate(x)
		if err != nil {
			return 0, 0, err
		}
		px := x
		if reflect {
			px = 2*mirror - x
		}
		pts = append(pts, plotter.XY{X: px, Y: y})
		yMin = math.Min(yMin, y)
		yMax = math.Max(yMax, y)
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return 0, 0, fmt.Errorf("building profile curve: %w", err)
	}
	line.LineStyle.Width = vg.Points(1)
	if reflect {
		line.Color = mirrorColor
	} else {
		line.Color = curveColor
	}
	p.Add(line)

	return yMin, yMax, nil
}

// addMarker draws a vertical marker line at pixel position x.
func addMarker(p *plot.Plot, x, yMin, yMax float64, c color.Color, width float64) error {
	line, err := plotter.NewLine(plotter.XYs{{X: x, Y: yMin}, {X: x, Y: yMax}})
	if err != nil {
		return fmt.Errorf("building marker at %g: %w", x, err)
	}
	line.Color = c
	line.LineStyle.Width = vg.Points(width)
	p.Add(line)
	return nil
}

// clampRange restricts a pixel range to the profile domain.
func (r *Renderer) clampRange(lo, hi float64) (float64, float64) {
	if lo < 0 {
		lo = 0
	}
	if max := r.cont.Domain(); hi > max {
		hi = max
	}
	return lo, hi
}
