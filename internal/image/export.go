package image

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
)

// Flatten renders the layer onto an opaque RGBA canvas of its own size,
// applying visibility and opacity. Callers draw annotation overlays on the
// returned image before export.
func (l *Layer) Flatten() *image.RGBA {
	w, h := l.Width(), l.Height()
	if w == 0 || h == 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}

	result := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(result, result.Bounds(), &image.Uniform{color.RGBA{40, 40, 40, 255}}, image.Point{}, draw.Src)

	if !l.Visible || l.Image == nil {
		return result
	}

	if l.Opacity >= 1.0 {
		draw.Draw(result, result.Bounds(), l.Image, l.Image.Bounds().Min, draw.Over)
		return result
	}

	mask := image.NewUniform(color.Alpha{A: uint8(clamp(l.Opacity, 0, 1) * 255)})
	draw.DrawMask(result, result.Bounds(), l.Image, l.Image.Bounds().Min, mask, image.Point{}, draw.Over)
	return result
}

// WritePNG writes an image to the given path as PNG.
func WritePNG(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
