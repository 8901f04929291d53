package transform

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestNewNormalizeValidation(t *testing.T) {
	cases := []struct {
		name    string
		mean    []float64
		std     []float64
		wantErr bool
	}{
		{"rgb", []float64{127.5, 127.5, 127.5}, []float64{127.5, 127.5, 127.5}, false},
		{"flow", []float64{127.5, 127.5}, []float64{127.5, 127.5}, false},
		{"length mismatch", []float64{127.5, 127.5}, []float64{127.5}, true},
		{"too many channels", []float64{1, 1, 1, 1}, []float64{1, 1, 1, 1}, true},
		{"one channel", []float64{1}, []float64{1}, true},
		{"zero std", []float64{0, 0}, []float64{1, 0}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewNormalize(c.mean, c.std)
			if (err != nil) != c.wantErr {
				t.Errorf("NewNormalize() error = %v, wantErr %v", err, c.wantErr)
			}
		})
	}
}

func TestNormalizeMapsToUnitRange(t *testing.T) {
	// mean=std=127.5 behaves like (v/255)*2 - 1: 0 -> -1, 255 -> 1
	nm, err := NewNormalize([]float64{127.5, 127.5, 127.5}, []float64{127.5, 127.5, 127.5})
	if err != nil {
		t.Fatalf("NewNormalize() error = %v", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{0, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{255, 255, 255, 255})

	out, err := nm.Tensor(img)
	if err != nil {
		t.Fatalf("Tensor() error = %v", err)
	}
	if len(out) != 3*2*1 {
		t.Fatalf("len = %d, want 6", len(out))
	}

	// CHW layout: channel planes of width*height each
	for c := 0; c < 3; c++ {
		if got := out[c*2+0]; got != -1 {
			t.Errorf("channel %d black = %v, want -1", c, got)
		}
		if got := out[c*2+1]; got != 1 {
			t.Errorf("channel %d white = %v, want 1", c, got)
		}
	}
}

func TestNormalizeFlowUsesTwoChannels(t *testing.T) {
	nm, err := NewNormalize([]float64{127.5, 127.5}, []float64{127.5, 127.5})
	if err != nil {
		t.Fatalf("NewNormalize() error = %v", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, G: 0, B: 99, A: 255})

	out, err := nm.Tensor(img)
	if err != nil {
		t.Fatalf("Tensor() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0] != 1 || out[1] != -1 {
		t.Errorf("flow tensor = %v, want [1 -1]", out)
	}
}

func TestNormalizeParallelMatchesSequential(t *testing.T) {
	nm, err := NewNormalize([]float64{127.5, 127.5, 127.5}, []float64{127.5, 127.5, 127.5})
	if err != nil {
		t.Fatalf("NewNormalize() error = %v", err)
	}

	// A height above parallelRowThreshold exercises the worker-split path.
	img := testImage(16, parallelRowThreshold*2)
	out, err := nm.Tensor(img)
	if err != nil {
		t.Fatalf("Tensor() error = %v", err)
	}

	w, h := 16, parallelRowThreshold*2
	plane := w * h
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := img.RGBAAt(x, y)
			want := [3]float64{
				(float64(px.R) - 127.5) / 127.5,
				(float64(px.G) - 127.5) / 127.5,
				(float64(px.B) - 127.5) / 127.5,
			}
			for c := 0; c < 3; c++ {
				if got := out[c*plane+y*w+x]; math.Abs(got-want[c]) > 1e-12 {
					t.Fatalf("(%d, %d) channel %d = %v, want %v", x, y, c, got, want[c])
				}
			}
		}
	}
}

func TestNormalizeNilImage(t *testing.T) {
	nm, err := NewNormalize([]float64{127.5, 127.5}, []float64{127.5, 127.5})
	if err != nil {
		t.Fatalf("NewNormalize() error = %v", err)
	}
	if _, err := nm.Tensor(nil); err == nil {
		t.Error("expected an error for a nil image")
	}
}

func TestComposeApply(t *testing.T) {
	nm, err := NewNormalize([]float64{127.5, 127.5, 127.5}, []float64{127.5, 127.5, 127.5})
	if err != nil {
		t.Fatalf("NewNormalize() error = %v", err)
	}
	pipeline, err := NewCompose(nm, NewResize(image.Pt(8, 8)))
	if err != nil {
		t.Fatalf("NewCompose() error = %v", err)
	}

	out, err := pipeline.Apply(testImage(32, 32))
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(out) != 3*8*8 {
		t.Errorf("len = %d, want %d", len(out), 3*8*8)
	}
	for i, v := range out {
		if v < -1 || v > 1 {
			t.Fatalf("out[%d] = %v, outside [-1, 1]", i, v)
		}
	}
}

func TestComposeRequiresNormalize(t *testing.T) {
	if _, err := NewCompose(nil, NewResize(image.Pt(8, 8))); err == nil {
		t.Error("expected an error when normalization is missing")
	}
}

func TestComposeOpsIsCopy(t *testing.T) {
	nm, _ := NewNormalize([]float64{127.5, 127.5}, []float64{127.5, 127.5})
	pipeline, err := NewCompose(nm, NewResize(image.Pt(8, 8)), NewRandomHorizontalFlip(0.5))
	if err != nil {
		t.Fatalf("NewCompose() error = %v", err)
	}

	ops := pipeline.Ops()
	ops[0] = nil
	if pipeline.Ops()[0] == nil {
		t.Error("Ops() must return a copy, not the internal slice")
	}
}
