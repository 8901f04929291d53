package transform

import (
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/videoml/pkg/errors"
)

// RandomPerspective warps the image with a small random projective
// transform: rotations of up to AngleX/AngleY/AngleZ degrees around the
// respective axes plus an in-plane shear of up to Shear degrees, all
// sampled symmetrically around zero.
type RandomPerspective struct {
	AngleX float64
	AngleY float64
	AngleZ float64
	Shear  float64
}

// NewRandomPerspective creates a perspective warp with the given maximum
// angles in degrees.
func NewRandomPerspective(anglex, angley, anglez, shear float64) *RandomPerspective {
	return &RandomPerspective{AngleX: anglex, AngleY: angley, AngleZ: anglez, Shear: shear}
}

// Name implements Op.
func (p *RandomPerspective) Name() string { return "RandomPerspective" }

// Apply implements Op.
func (p *RandomPerspective) Apply(img image.Image) (image.Image, error) {
	src := toRGBA(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()

	ax := radians(uniform(-p.AngleX, p.AngleX))
	ay := radians(uniform(-p.AngleY, p.AngleY))
	az := radians(uniform(-p.AngleZ, p.AngleZ))
	sh := radians(uniform(-p.Shear, p.Shear))

	hm, err := homography(w, h, ax, ay, az, sh)
	if err != nil {
		return nil, err
	}

	// Inverse mapping: for each destination pixel, sample the source.
	var inv mat.Dense
	if err := inv.Inverse(hm); err != nil {
		return nil, errors.NewModelError("transform.RandomPerspective.Apply", "singular homography", errors.ErrSingularMatrix)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy, sw := apply3(&inv, float64(x), float64(y))
			if sw == 0 {
				continue
			}
			dst.SetRGBA(x, y, bilinearSample(src, sx/sw, sy/sw))
		}
	}
	return dst, nil
}

// homography builds the 3x3 projective matrix K * Rx * Ry * Rz * S * K^-1
// for the given rotation and shear angles, where K centers the image and
// sets the focal length to its larger side.
func homography(w, h int, ax, ay, az, sh float64) (*mat.Dense, error) {
	f := math.Max(float64(w), float64(h))
	cx, cy := float64(w)/2, float64(h)/2

	k := mat.NewDense(3, 3, []float64{
		f, 0, cx,
		0, f, cy,
		0, 0, 1,
	})
	var kinv mat.Dense
	if err := kinv.Inverse(k); err != nil {
		return nil, errors.NewModelError("transform.homography", "singular camera matrix", errors.ErrSingularMatrix)
	}

	rx := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, math.Cos(ax), -math.Sin(ax),
		0, math.Sin(ax), math.Cos(ax),
	})
	ry := mat.NewDense(3, 3, []float64{
		math.Cos(ay), 0, math.Sin(ay),
		0, 1, 0,
		-math.Sin(ay), 0, math.Cos(ay),
	})
	rz := mat.NewDense(3, 3, []float64{
		math.Cos(az), -math.Sin(az), 0,
		math.Sin(az), math.Cos(az), 0,
		0, 0, 1,
	})
	shear := mat.NewDense(3, 3, []float64{
		1, math.Tan(sh), 0,
		0, 1, 0,
		0, 0, 1,
	})

	var m mat.Dense
	m.Mul(rx, ry)
	m.Mul(&m, rz)
	m.Mul(&m, shear)
	m.Mul(k, &m)
	m.Mul(&m, &kinv)
	return &m, nil
}

// apply3 multiplies the homogeneous point (x, y, 1) by m.
func apply3(m mat.Matrix, x, y float64) (float64, float64, float64) {
	return m.At(0, 0)*x + m.At(0, 1)*y + m.At(0, 2),
		m.At(1, 0)*x + m.At(1, 1)*y + m.At(1, 2),
		m.At(2, 0)*x + m.At(2, 1)*y + m.At(2, 2)
}

// bilinearSample reads the source at a fractional coordinate, returning
// transparent black outside the image.
func bilinearSample(src *image.RGBA, x, y float64) color.RGBA {
	var out color.RGBA
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	if x < 0 || y < 0 || x > float64(w-1) || y > float64(h-1) {
		return out
	}

	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	x1, y1 := x0+1, y0+1
	if x1 > w-1 {
		x1 = w - 1
	}
	if y1 > h-1 {
		y1 = h - 1
	}
	fx, fy := x-float64(x0), y-float64(y0)

	blend := func(c00, c10, c01, c11 uint8) uint8 {
		top := float64(c00)*(1-fx) + float64(c10)*fx
		bot := float64(c01)*(1-fx) + float64(c11)*fx
		return clamp8(top*(1-fy) + bot*fy)
	}

	p00 := src.RGBAAt(x0, y0)
	p10 := src.RGBAAt(x1, y0)
	p01 := src.RGBAAt(x0, y1)
	p11 := src.RGBAAt(x1, y1)

	out.R = blend(p00.R, p10.R, p01.R, p11.R)
	out.G = blend(p00.G, p10.G, p01.G, p11.G)
	out.B = blend(p00.B, p10.B, p01.B, p11.B)
	out.A = blend(p00.A, p10.A, p01.A, p11.A)
	return out
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
