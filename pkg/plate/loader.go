// Package plate loads scanned photoplate bitmaps and prepares them for
// profile sampling.
package plate

import (
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"photoplate/internal/models"
	"photoplate/pkg/coords"
)

// ErrUnreadableImage is returned when a plate file cannot be opened or
// decoded as an image.
var ErrUnreadableImage = errors.New("plate image unreadable")

// Load opens and decodes a scanned plate bitmap, returning a Plate with
// the given scan resolution (px/mm) attached. BMP and TIFF decode through
// the registered x/image decoders; WebP scans get an explicit fallback.
func Load(path string, resolution float64) (*models.Plate, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("plate %s: %w", path, coords.ErrInvalidDPI)
	}

	img, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("plate %s: %w: %v", path, ErrUnreadableImage, err)
	}

	bounds := img.Bounds()
	return &models.Plate{
		Image:      img,
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Resolution: resolution,
		Filename:   path,
	}, nil
}

// open decodes the image at path, trying the registered decoders first
// and explicit WebP decoding second.
func open(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err == nil {
		return img, nil
	}

	if strings.HasSuffix(strings.ToLower(path), ".webp") {
		f, ferr := os.Open(path)
		if ferr != nil {
			return nil, ferr
		}
		defer f.Close()

		if img, werr := webp.Decode(f); werr == nil {
			return img, nil
		}
	}

	return nil, err
}

// Preview rescales the plate to a fixed-height strip for display beside
// the profile, preserving aspect ratio.
func Preview(p *models.Plate, height int) image.Image {
	if p.Height == height {
		return p.Image
	}
	return imaging.Resize(p.Image, 0, height, imaging.Lanczos)
}

// SavePreview writes the preview strip to an image file, with the format
// chosen from the extension.
func SavePreview(p *models.Plate, height int, path string) error {
	if err := imaging.Save(Preview(p, height), path); err != nil {
		return fmt.Errorf("saving plate preview %s: %w", path, err)
	}
	return nil
}
