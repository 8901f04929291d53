package transform

import (
	"image"
	"math"
	"math/rand"
)

// RandomResizedCrop crops a random region of the image, with area sampled
// from [ScaleMin, ScaleMax] of the original and aspect ratio from
// [RatioMin, RatioMax], then resizes the crop to Size.
type RandomResizedCrop struct {
	Size     image.Point
	ScaleMin float64
	ScaleMax float64
	RatioMin float64
	RatioMax float64
}

// cropAttempts bounds the rejection sampling of a valid crop window.
const cropAttempts = 10

// NewRandomResizedCrop creates a crop to size with the given scale and
// aspect-ratio ranges.
func NewRandomResizedCrop(size image.Point, scaleMin, scaleMax, ratioMin, ratioMax float64) *RandomResizedCrop {
	return &RandomResizedCrop{
		Size:     size,
		ScaleMin: scaleMin,
		ScaleMax: scaleMax,
		RatioMin: ratioMin,
		RatioMax: ratioMax,
	}
}

// Name implements Op.
func (c *RandomResizedCrop) Name() string { return "RandomResizedCrop" }

// Apply implements Op.
func (c *RandomResizedCrop) Apply(img image.Image) (image.Image, error) {
	src := toRGBA(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	area := float64(w * h)

	for i := 0; i < cropAttempts; i++ {
		targetArea := area * uniform(c.ScaleMin, c.ScaleMax)
		// Sample the aspect ratio log-uniformly so that wide and tall
		// windows are equally likely.
		ratio := math.Exp(uniform(math.Log(c.RatioMin), math.Log(c.RatioMax)))

		cw := int(math.Round(math.Sqrt(targetArea * ratio)))
		ch := int(math.Round(math.Sqrt(targetArea / ratio)))
		if cw <= 0 || ch <= 0 || cw > w || ch > h {
			continue
		}

		x0 := rand.Intn(w - cw + 1)
		y0 := rand.Intn(h - ch + 1)
		window := src.SubImage(image.Rect(x0, y0, x0+cw, y0+ch))
		return scaleTo(window, c.Size), nil
	}

	// Fallback: center crop at the smaller edge.
	side := w
	if h < side {
		side = h
	}
	x0 := (w - side) / 2
	y0 := (h - side) / 2
	window := src.SubImage(image.Rect(x0, y0, x0+side, y0+side))
	return scaleTo(window, c.Size), nil
}

// uniform samples uniformly from [lo, hi].
func uniform(lo, hi float64) float64 {
	return lo + rand.Float64()*(hi-lo)
}
