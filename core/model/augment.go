package model

import (
	"github.com/YuminosukeSato/videoml/pkg/errors"
	"github.com/YuminosukeSato/videoml/transform"
)

// Modality は入力チャネルの種類（カラー画像またはオプティカルフロー）
type Modality string

const (
	// ModalityRGB はカラー画像（3チャネル）
	ModalityRGB Modality = "rgb"
	// ModalityFlow はオプティカルフロー画像（x, yの2チャネル）
	ModalityFlow Modality = "flow"
)

// Phase は学習フェーズ
type Phase string

const (
	// PhaseTrain は訓練フェーズ（確率的なデータ拡張を適用する）
	PhaseTrain Phase = "train"
	// PhaseEval は評価フェーズ（リサイズと正規化のみ）
	PhaseEval Phase = "eval"
)

// Transform はモダリティと学習フェーズに応じたデータ拡張パイプラインを構築する
// 未対応のモダリティの場合は (nil, nil) を返す
// パイプラインは呼び出しごとに新しく構築され、構築後は不変
//
// 正規化定数は固定で、各チャネルを [0, 255] から [-1, 1] に写像する
func (b *BaseLearner) Transform(mode Modality, phase Phase) (*transform.Compose, error) {
	var mean, std []float64
	switch mode {
	case ModalityRGB: // 3チャネル (r, g, b)
		mean = []float64{127.5, 127.5, 127.5}
		std = []float64{127.5, 127.5, 127.5}
	case ModalityFlow: // 2チャネル (x, y)
		mean = []float64{127.5, 127.5}
		std = []float64{127.5, 127.5}
	default:
		return nil, nil
	}
	if b.ImageSize.X <= 0 || b.ImageSize.Y <= 0 {
		return nil, errors.NewValueError("BaseLearner.Transform", "ImageSize must be set before building a pipeline")
	}

	nm, err := transform.NewNormalize(mean, std)
	if err != nil {
		return nil, err
	}

	if phase == PhaseTrain {
		// 照明や天候の変化に対応するための色ジッター
		var cj *transform.ColorJitter
		if mode == ModalityRGB {
			cj = transform.NewColorJitter(0.3, 0.3, 0.3, -0.1, 0.1)
		} else {
			cj = transform.NewColorJitter(0.3, 0.3, 0, 0, 0)
		}
		// カメラの僅かなずれ・ズーム・回転に対応する
		rrc := transform.NewRandomResizedCrop(b.ImageSize, 0.9, 1.0, 3.0/4.0, 4.0/3.0)
		rp := transform.NewRandomPerspective(3, 3, 3, 3)
		// 汎化性能の向上
		rhf := transform.NewRandomHorizontalFlip(0.5)
		// レンズ上の汚れや虫などの遮蔽物に対応する
		re := transform.NewRandomErasing(0.5, 0.002, 0.008, 0.3, 3.3)
		// RandomErasingは意図的に2回適用する（それぞれ独立にパラメータを抽選する）
		return transform.NewCompose(nm, cj, rrc, rp, rhf, re, re)
	}

	return transform.NewCompose(nm, transform.NewResize(b.ImageSize))
}
