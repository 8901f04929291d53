package transform

import (
	"image"
	"math"
)

// ColorJitter randomly perturbs brightness, contrast, saturation and hue.
// Each factor is sampled per call from [max(0, 1-v), 1+v] for the configured
// strength v; the hue shift is sampled from [HueMin, HueMax] as a fraction
// of the color wheel. A zero strength disables that adjustment, which is how
// flow inputs restrict jitter to brightness and contrast.
type ColorJitter struct {
	Brightness float64
	Contrast   float64
	Saturation float64
	HueMin     float64
	HueMax     float64
}

// NewColorJitter creates a jitter with the given strengths and hue range.
func NewColorJitter(brightness, contrast, saturation, hueMin, hueMax float64) *ColorJitter {
	return &ColorJitter{
		Brightness: brightness,
		Contrast:   contrast,
		Saturation: saturation,
		HueMin:     hueMin,
		HueMax:     hueMax,
	}
}

// Name implements Op.
func (c *ColorJitter) Name() string { return "ColorJitter" }

// Apply implements Op.
func (c *ColorJitter) Apply(img image.Image) (image.Image, error) {
	src := toRGBA(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	copy(dst.Pix, src.Pix)

	if c.Brightness > 0 {
		adjustBrightness(dst, jitterFactor(c.Brightness))
	}
	if c.Contrast > 0 {
		adjustContrast(dst, jitterFactor(c.Contrast))
	}
	if c.Saturation > 0 {
		adjustSaturation(dst, jitterFactor(c.Saturation))
	}
	if c.HueMin != 0 || c.HueMax != 0 {
		adjustHue(dst, uniform(c.HueMin, c.HueMax))
	}
	return dst, nil
}

// jitterFactor samples a multiplicative factor from [max(0, 1-v), 1+v].
func jitterFactor(v float64) float64 {
	lo := 1 - v
	if lo < 0 {
		lo = 0
	}
	return uniform(lo, 1+v)
}

func adjustBrightness(img *image.RGBA, factor float64) {
	forEachPixel(img, func(r, g, b float64) (float64, float64, float64) {
		return r * factor, g * factor, b * factor
	})
}

func adjustContrast(img *image.RGBA, factor float64) {
	// Blend against the mean grayscale of the whole image.
	var sum float64
	n := 0
	forEachPixel(img, func(r, g, b float64) (float64, float64, float64) {
		sum += luminance(r, g, b)
		n++
		return r, g, b
	})
	mean := sum / float64(n)
	forEachPixel(img, func(r, g, b float64) (float64, float64, float64) {
		return (r-mean)*factor + mean, (g-mean)*factor + mean, (b-mean)*factor + mean
	})
}

func adjustSaturation(img *image.RGBA, factor float64) {
	forEachPixel(img, func(r, g, b float64) (float64, float64, float64) {
		gray := luminance(r, g, b)
		return (r-gray)*factor + gray, (g-gray)*factor + gray, (b-gray)*factor + gray
	})
}

func adjustHue(img *image.RGBA, shift float64) {
	deg := shift * 360
	forEachPixel(img, func(r, g, b float64) (float64, float64, float64) {
		hue, s, v := rgbToHSV(r, g, b)
		hue = math.Mod(hue+deg+360, 360)
		return hsvToRGB(hue, s, v)
	})
}

// forEachPixel applies fn to the r, g, b values of every pixel in place,
// clamping results to [0, 255]. Alpha is preserved.
func forEachPixel(img *image.RGBA, fn func(r, g, b float64) (float64, float64, float64)) {
	pix := img.Pix
	for i := 0; i < len(pix); i += 4 {
		r, g, b := fn(float64(pix[i]), float64(pix[i+1]), float64(pix[i+2]))
		pix[i] = clamp8(r)
		pix[i+1] = clamp8(g)
		pix[i+2] = clamp8(b)
	}
}

func luminance(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}

// rgbToHSV converts 8-bit rgb values to hue in degrees, saturation and
// value in [0, 1].
func rgbToHSV(r, g, b float64) (float64, float64, float64) {
	r, g, b = r/255, g/255, b/255
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	d := max - min

	var hue float64
	switch {
	case d == 0:
		hue = 0
	case max == r:
		hue = 60 * math.Mod((g-b)/d, 6)
	case max == g:
		hue = 60 * ((b-r)/d + 2)
	default:
		hue = 60 * ((r-g)/d + 4)
	}
	if hue < 0 {
		hue += 360
	}

	var s float64
	if max > 0 {
		s = d / max
	}
	return hue, s, max
}

// hsvToRGB converts hue in degrees, saturation and value in [0, 1] back to
// 8-bit rgb values.
func hsvToRGB(hue, s, v float64) (float64, float64, float64) {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(hue/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case hue < 60:
		r, g, b = c, x, 0
	case hue < 120:
		r, g, b = x, c, 0
	case hue < 180:
		r, g, b = 0, c, x
	case hue < 240:
		r, g, b = 0, x, c
	case hue < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return (r + m) * 255, (g + m) * 255, (b + m) * 255
}
