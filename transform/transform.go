// Package transform implements image augmentation operations for video-frame
// learners. A pipeline is an ordered, immutable Compose of operations ending
// in a Normalize step that converts the image into a channel-first tensor.
package transform

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/YuminosukeSato/videoml/pkg/errors"
)

// Op is a single augmentation step applied to an image.
type Op interface {
	// Name identifies the operation, e.g. "RandomHorizontalFlip".
	Name() string

	// Apply returns the transformed image. Stochastic operations draw
	// fresh random parameters on every call.
	Apply(img image.Image) (image.Image, error)
}

// Compose is an ordered sequence of operations followed by normalization.
// It is immutable once built; build a fresh one per training phase.
type Compose struct {
	ops  []Op
	norm *Normalize
}

// NewCompose builds a pipeline from the given operations and a trailing
// normalization step.
func NewCompose(norm *Normalize, ops ...Op) (*Compose, error) {
	if norm == nil {
		return nil, errors.NewValueError("transform.NewCompose", "normalization step is required")
	}
	steps := make([]Op, len(ops))
	copy(steps, ops)
	return &Compose{ops: steps, norm: norm}, nil
}

// Ops returns the operations in application order, excluding normalization.
func (c *Compose) Ops() []Op {
	out := make([]Op, len(c.ops))
	copy(out, c.ops)
	return out
}

// Normalizer returns the trailing normalization step.
func (c *Compose) Normalizer() *Normalize {
	return c.norm
}

// Apply runs every operation in order and normalizes the result into a
// channel-first tensor of length channels*width*height.
func (c *Compose) Apply(img image.Image) (out []float64, err error) {
	defer errors.Recover(&err, "transform.Compose.Apply")

	for _, op := range c.ops {
		img, err = op.Apply(img)
		if err != nil {
			return nil, errors.Wrapf(err, "transform.Compose.Apply: %s", op.Name())
		}
	}
	return c.norm.Tensor(img)
}

// toRGBA converts any image to *image.RGBA with bounds anchored at the origin.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// clamp8 clamps v into the renderable [0, 255] range.
func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
