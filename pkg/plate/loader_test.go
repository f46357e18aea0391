package plate

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"photoplate/pkg/coords"
)

// writeTestImage writes a small grayscale PNG and returns its path
func writeTestImage(t *testing.T, width, height int) string {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x + y) % 256)})
		}
	}

	path := filepath.Join(t.TempDir(), "scan.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return path
}

// TestLoad verifies decoding and metadata attachment
func TestLoad(t *testing.T) {
	path := writeTestImage(t, 120, 40)

	p, err := Load(path, 94.488)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Width != 120 || p.Height != 40 {
		t.Errorf("expected 120x40 plate, got %dx%d", p.Width, p.Height)
	}
	if p.Resolution != 94.488 {
		t.Errorf("expected resolution 94.488 px/mm, got %g", p.Resolution)
	}
	if p.Filename != path {
		t.Errorf("expected filename %q, got %q", path, p.Filename)
	}
}

// TestLoadUnreadable verifies the error paths for missing and corrupt files
func TestLoadUnreadable(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.png"), 100); !errors.Is(err, ErrUnreadableImage) {
		t.Errorf("missing file: expected ErrUnreadableImage, got %v", err)
	}

	garbage := filepath.Join(t.TempDir(), "garbage.png")
	if err := os.WriteFile(garbage, []byte("this is not an image"), 0644); err != nil {
		t.Fatalf("writing garbage file: %v", err)
	}
	if _, err := Load(garbage, 100); !errors.Is(err, ErrUnreadableImage) {
		t.Errorf("corrupt file: expected ErrUnreadableImage, got %v", err)
	}
}

// TestLoadInvalidResolution verifies the resolution guard
func TestLoadInvalidResolution(t *testing.T) {
	path := writeTestImage(t, 10, 10)

	if _, err := Load(path, 0); !errors.Is(err, coords.ErrInvalidDPI) {
		t.Errorf("expected ErrInvalidDPI, got %v", err)
	}
}

// TestPreview verifies fixed-height rescaling with preserved aspect ratio
func TestPreview(t *testing.T) {
	path := writeTestImage(t, 400, 100)

	p, err := Load(path, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	preview := Preview(p, 25)
	bounds := preview.Bounds()
	if bounds.Dy() != 25 {
		t.Errorf("expected preview height 25, got %d", bounds.Dy())
	}
	if bounds.Dx() != 100 {
		t.Errorf("expected preview width 100 (aspect preserved), got %d", bounds.Dx())
	}

	// Same-height plates pass through untouched
	same := Preview(p, 100)
	if same != p.Image {
		t.Error("expected the original image when heights match")
	}
}

// TestSavePreview verifies the preview export
func TestSavePreview(t *testing.T) {
	path := writeTestImage(t, 200, 50)

	p, err := Load(path, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := filepath.Join(t.TempDir(), "preview.png")
	if err := SavePreview(p, 25, out); err != nil {
		t.Fatalf("SavePreview: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("opening saved preview: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding saved preview: %v", err)
	}
	if img.Bounds().Dy() != 25 {
		t.Errorf("expected saved preview height 25, got %d", img.Bounds().Dy())
	}
}
