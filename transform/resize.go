package transform

import (
	"image"

	"golang.org/x/image/draw"
)

// Resize scales an image to a fixed target size using bilinear interpolation.
type Resize struct {
	Size image.Point
}

// NewResize creates a Resize to the given target size (width, height).
func NewResize(size image.Point) *Resize {
	return &Resize{Size: size}
}

// Name implements Op.
func (r *Resize) Name() string { return "Resize" }

// Apply implements Op.
func (r *Resize) Apply(img image.Image) (image.Image, error) {
	return scaleTo(img, r.Size), nil
}

// scaleTo resizes img to size with the bilinear kernel.
func scaleTo(img image.Image, size image.Point) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.BiLinear.Scale(dst, dst.Rect, img, img.Bounds(), draw.Src, nil)
	return dst
}
