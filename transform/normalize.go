package transform

import (
	"image"

	"github.com/YuminosukeSato/videoml/core/parallel"
	"github.com/YuminosukeSato/videoml/pkg/errors"
)

// Normalize converts an image into a channel-first float tensor, mapping
// each channel value v to (v - mean) / std. With mean and std of 127.5 this
// is equivalent to (v/255)*2 - 1, mapping [0, 255] onto [-1, 1].
//
// The channel count follows the length of the constants: 3 reads the r, g
// and b planes, 2 reads only r and g (optical flow x/y components).
type Normalize struct {
	Mean []float64
	Std  []float64
}

// parallelRowThreshold is the image height above which per-row
// normalization is spread across CPU workers.
const parallelRowThreshold = 64

// NewNormalize creates a Normalize step for 2- or 3-channel inputs.
func NewNormalize(mean, std []float64) (*Normalize, error) {
	if len(mean) != len(std) {
		return nil, errors.NewValueError("transform.NewNormalize", "mean and std must have the same length")
	}
	if len(mean) != 2 && len(mean) != 3 {
		return nil, errors.NewValueError("transform.NewNormalize", "channel count must be 2 or 3")
	}
	for _, s := range std {
		if s == 0 {
			return nil, errors.NewValueError("transform.NewNormalize", "std must be non-zero")
		}
	}
	m := make([]float64, len(mean))
	s := make([]float64, len(std))
	copy(m, mean)
	copy(s, std)
	return &Normalize{Mean: m, Std: s}, nil
}

// Channels returns the number of output channels.
func (n *Normalize) Channels() int {
	return len(n.Mean)
}

// Tensor normalizes img into a CHW tensor of length Channels()*width*height.
func (n *Normalize) Tensor(img image.Image) ([]float64, error) {
	if img == nil {
		return nil, errors.NewValueError("transform.Normalize.Tensor", "nil image")
	}
	src := toRGBA(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	ch := n.Channels()
	plane := w * h
	out := make([]float64, ch*plane)

	parallel.ParallelizeWithThreshold(h, parallelRowThreshold, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				i := src.PixOffset(x, y)
				for c := 0; c < ch; c++ {
					v := float64(src.Pix[i+c])
					out[c*plane+y*w+x] = (v - n.Mean[c]) / n.Std[c]
				}
			}
		}
	})

	return out, nil
}
