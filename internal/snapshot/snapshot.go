// Package snapshot rasterizes a laid-out box tree, for debugging layouts without a
// window and for comparing layouts in tests.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/chewxy/math32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"style-engine/internal/layout"
	"style-engine/internal/value"
)

// Background is the color of the canvas under the root box.
var Background = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Face draws text. It is not scaled by font size.
var Face font.Face = basicfont.Face7x13

// Render paints the tree under root onto a w by h canvas.
func Render(root layout.Box, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)
	d := &font.Drawer{Dst: img, Face: Face}
	ascent := Face.Metrics().Ascent
	for _, op := range layout.Paint(root) {
		src := image.NewUniform(nrgba(op.Color))
		switch op.Kind {
		case layout.FillRect:
			draw.Draw(img, pixels(op.Rect), src, image.Point{}, draw.Over)
		case layout.DrawText:
			d.Src = src
			d.Dot = fixed.Point26_6{X: fixed.I(int(math32.Round(op.Rect.X))), Y: fixed.I(int(math32.Round(op.Rect.Y))) + ascent}
			d.DrawString(op.Text)
		}
	}
	return img
}

// pixels snaps r to the pixel grid.
func pixels(r layout.Rect) image.Rectangle {
	return image.Rect(
		int(math32.Round(r.X)), int(math32.Round(r.Y)),
		int(math32.Round(r.X+r.Width)), int(math32.Round(r.Y+r.Height)),
	)
}

func nrgba(c value.Color) color.NRGBA {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}
}

// Scale resizes img by factor with nearest-neighbor sampling, keeping pixels crisp.
func Scale(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	return transform.Resize(img, b.Dx()*factor, b.Dy()*factor, transform.NearestNeighbor)
}

// Save writes img to path as PNG, creating parent directories.
func Save(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return nil
}

// Load reads a PNG written by Save.
func Load(path string) (image.Image, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return img, nil
}
