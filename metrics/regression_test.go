package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func vec(vals ...float64) *mat.VecDense {
	return mat.NewVecDense(len(vals), vals)
}

func TestMSE(t *testing.T) {
	tests := []struct {
		name  string
		yTrue *mat.VecDense
		yPred *mat.VecDense
		want  float64
	}{
		{
			name:  "完全一致",
			yTrue: vec(1, 2, 3),
			yPred: vec(1, 2, 3),
			want:  0,
		},
		{
			name:  "一定の誤差",
			yTrue: vec(1, 2, 3, 4),
			yPred: vec(2, 3, 4, 5),
			want:  1,
		},
		{
			name:  "混合誤差",
			yTrue: vec(3, -0.5, 2, 7),
			yPred: vec(2.5, 0.0, 2, 8),
			want:  0.375,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(tt.yTrue, tt.yPred)
			if err != nil {
				t.Fatalf("MSE() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("MSE() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMSEErrors(t *testing.T) {
	if _, err := MSE(vec(1, 2), vec(1)); err == nil {
		t.Error("expected an error for length mismatch")
	}
}

func TestR2Score(t *testing.T) {
	tests := []struct {
		name  string
		yTrue *mat.VecDense
		yPred *mat.VecDense
		want  float64
	}{
		{
			name:  "完全一致",
			yTrue: vec(1, 2, 3, 4),
			yPred: vec(1, 2, 3, 4),
			want:  1,
		},
		{
			name:  "平均値を予測",
			yTrue: vec(1, 2, 3),
			yPred: vec(2, 2, 2),
			want:  0,
		},
		{
			// scikit-learnのドキュメントにある既知の例
			name:  "部分的な一致",
			yTrue: vec(3, -0.5, 2, 7),
			yPred: vec(2.5, 0.0, 2, 8),
			want:  0.9486081370449679,
		},
		{
			name:  "正解値が全て同一で完全一致",
			yTrue: vec(5, 5, 5),
			yPred: vec(5, 5, 5),
			want:  1,
		},
		{
			name:  "正解値が全て同一で不一致",
			yTrue: vec(5, 5, 5),
			yPred: vec(5, 5, 6),
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := R2Score(tt.yTrue, tt.yPred)
			if err != nil {
				t.Fatalf("R2Score() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("R2Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestR2ScoreErrors(t *testing.T) {
	if _, err := R2Score(vec(1, 2, 3), vec(1, 2)); err == nil {
		t.Error("expected an error for length mismatch")
	}
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name  string
		yTrue *mat.VecDense
		yPred *mat.VecDense
		want  float64
	}{
		{
			name:  "全問正解",
			yTrue: vec(0, 1, 1, 0),
			yPred: vec(0.1, 0.9, 0.8, 0.2),
			want:  1,
		},
		{
			name:  "半分正解",
			yTrue: vec(0, 1, 1, 0),
			yPred: vec(0.9, 0.9, 0.2, 0.2),
			want:  0.5,
		},
		{
			// 0.5ちょうどは正のクラスに分類する
			name:  "閾値ちょうど",
			yTrue: vec(1),
			yPred: vec(0.5),
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Accuracy(tt.yTrue, tt.yPred)
			if err != nil {
				t.Fatalf("Accuracy() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Accuracy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccuracyErrors(t *testing.T) {
	if _, err := Accuracy(vec(1), vec(1, 0)); err == nil {
		t.Error("expected an error for length mismatch")
	}
}
