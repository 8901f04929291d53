package transform

import (
	"image"
	"math/rand"
)

// RandomHorizontalFlip mirrors the image around its vertical axis with
// probability P.
type RandomHorizontalFlip struct {
	P float64
}

// NewRandomHorizontalFlip creates a flip with the given probability.
func NewRandomHorizontalFlip(p float64) *RandomHorizontalFlip {
	return &RandomHorizontalFlip{P: p}
}

// Name implements Op.
func (f *RandomHorizontalFlip) Name() string { return "RandomHorizontalFlip" }

// Apply implements Op.
func (f *RandomHorizontalFlip) Apply(img image.Image) (image.Image, error) {
	if rand.Float64() >= f.P {
		return img, nil
	}
	src := toRGBA(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.SetRGBA(w-1-x, y, src.RGBAAt(x, y))
		}
	}
	return dst, nil
}
