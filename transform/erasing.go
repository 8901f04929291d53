package transform

import (
	"image"
	"image/color"
	"math"
	"math/rand"
)

// RandomErasing blanks out a random rectangle of the image with probability
// P, filling it with random pixel values. The rectangle area is sampled from
// [ScaleMin, ScaleMax] of the image area and its aspect ratio from
// [RatioMin, RatioMax]. Every application draws independent parameters, so
// the same instance can appear more than once in a pipeline.
type RandomErasing struct {
	P        float64
	ScaleMin float64
	ScaleMax float64
	RatioMin float64
	RatioMax float64
}

// eraseAttempts bounds the rejection sampling of a rectangle that fits.
const eraseAttempts = 100

// NewRandomErasing creates an erasing step with the given probability,
// area-scale range and aspect-ratio range.
func NewRandomErasing(p, scaleMin, scaleMax, ratioMin, ratioMax float64) *RandomErasing {
	return &RandomErasing{
		P:        p,
		ScaleMin: scaleMin,
		ScaleMax: scaleMax,
		RatioMin: ratioMin,
		RatioMax: ratioMax,
	}
}

// Name implements Op.
func (e *RandomErasing) Name() string { return "RandomErasing" }

// Apply implements Op.
func (e *RandomErasing) Apply(img image.Image) (image.Image, error) {
	if rand.Float64() >= e.P {
		return img, nil
	}

	src := toRGBA(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	area := float64(w * h)

	for i := 0; i < eraseAttempts; i++ {
		targetArea := area * uniform(e.ScaleMin, e.ScaleMax)
		ratio := math.Exp(uniform(math.Log(e.RatioMin), math.Log(e.RatioMax)))

		ew := int(math.Round(math.Sqrt(targetArea * ratio)))
		eh := int(math.Round(math.Sqrt(targetArea / ratio)))
		if ew <= 0 || eh <= 0 || ew >= w || eh >= h {
			continue
		}

		x0 := rand.Intn(w - ew)
		y0 := rand.Intn(h - eh)

		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		copy(dst.Pix, src.Pix)
		for y := y0; y < y0+eh; y++ {
			for x := x0; x < x0+ew; x++ {
				dst.SetRGBA(x, y, color.RGBA{
					R: uint8(rand.Intn(256)),
					G: uint8(rand.Intn(256)),
					B: uint8(rand.Intn(256)),
					A: 255,
				})
			}
		}
		return dst, nil
	}

	// No rectangle fit within the attempt budget; leave the image as is.
	return img, nil
}
