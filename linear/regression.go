package linear

import (
	"image"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/videoml/core/model"
	"github.com/YuminosukeSato/videoml/core/parallel"
	"github.com/YuminosukeSato/videoml/metrics"
	"github.com/YuminosukeSato/videoml/pkg/errors"
)

// Regressor は最小二乗法による線形回帰学習器
// model.BaseLearnerを埋め込み、チェックポイント保存・読み込みとロガーを継承する
type Regressor struct {
	model.BaseLearner

	Weights   *mat.VecDense // 重み（係数）
	Intercept float64       // 切片
	NFeatures int           // 特徴量の数

	fitted bool
}

// Option はRegressorを設定する関数
type Option func(*Regressor) error

// WithImageSize は変換パイプラインの出力サイズを設定する
func WithImageSize(size image.Point) Option {
	return func(r *Regressor) error {
		r.ImageSize = size
		return nil
	}
}

// WithLogPath は指定したパスに対するロガーハンドルを作成する
func WithLogPath(path string) Option {
	return func(r *Regressor) error {
		return r.CreateLogger(path)
	}
}

// New は新しい線形回帰学習器を作成する
func New(opts ...Option) (*Regressor, error) {
	r := &Regressor{BaseLearner: model.NewBaseLearner()}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Fit はモデルを訓練データで学習させる
// 正規方程式 w = (X^T * X)^(-1) * X^T * y を使用
func (lr *Regressor) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("Regressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("Regressor.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("Regressor.Fit", "y must be a column vector")
	}

	lr.NFeatures = c

	// 切片項のために X に 1 の列を追加する
	XWithIntercept := mat.NewDense(r, c+1, nil)

	// この行数以下では逐次処理を使用する
	const parallelThreshold = 1000

	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			XWithIntercept.Set(i, 0, 1.0) // 切片項
			for j := 0; j < c; j++ {
				XWithIntercept.Set(i, j+1, X.At(i, j))
			}
		}
	})

	// 正規方程式を解く: (X^T * X)^(-1) * X^T * y
	var XT mat.Dense
	XT.CloneFrom(XWithIntercept.T())

	var XTX mat.Dense
	XTX.Mul(&XT, XWithIntercept)

	var XTXInv mat.Dense
	if err := XTXInv.Inverse(&XTX); err != nil {
		return errors.NewModelError("Regressor.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var XTy mat.VecDense
	XTy.MulVec(&XT, yVec)

	weights := mat.NewVecDense(c+1, nil)
	weights.MulVec(&XTXInv, &XTy)

	// 切片と重みを分離する
	lr.Intercept = weights.AtVec(0)
	lr.Weights = mat.NewVecDense(c, nil)
	for i := 0; i < c; i++ {
		lr.Weights.SetVec(i, weights.AtVec(i+1))
	}

	lr.fitted = true
	return nil
}

// Predict は入力データに対する予測を行う
func (lr *Regressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.fitted {
		return nil, errors.NewNotFittedError("Regressor", "Predict")
	}

	r, c := X.Dims()
	if c != lr.NFeatures {
		return nil, errors.NewDimensionError("Regressor.Predict", lr.NFeatures, c, 1)
	}

	// 予測: y = X * weights + intercept
	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		pred := lr.Intercept
		for j := 0; j < c; j++ {
			pred += X.At(i, j) * lr.Weights.AtVec(j)
		}
		predictions.Set(i, 0, pred)
	}
	return predictions, nil
}

// Score はモデルの決定係数R²を計算する
func (lr *Regressor) Score(X, y mat.Matrix) (float64, error) {
	pred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}

	r, _ := y.Dims()
	yTrue := mat.NewVecDense(r, nil)
	yPred := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yTrue.SetVec(i, y.At(i, 0))
		yPred.SetVec(i, pred.At(i, 0))
	}
	return metrics.R2Score(yTrue, yPred)
}

// IsFitted はモデルが学習済みかどうかを返す
func (lr *Regressor) IsFitted() bool {
	return lr.fitted
}

// state dictのパラメータキー
const (
	keyWeights   = "weights"
	keyIntercept = "intercept"
)

// StateDict はモデルのパラメータマッピングを返す
func (lr *Regressor) StateDict() model.StateDict {
	sd := model.StateDict{}
	if lr.Weights != nil {
		sd[keyWeights] = model.TensorFromVec(lr.Weights)
	}
	sd[keyIntercept] = model.Scalar(lr.Intercept)
	return sd
}

// LoadStateDict はパラメータマッピングをモデルに読み込む
// 期待されるキーと一致しない場合はキー不一致のCheckpointErrorを返す
func (lr *Regressor) LoadStateDict(sd model.StateDict) error {
	expected := map[string]bool{keyWeights: true, keyIntercept: true}

	var bad []string
	for _, k := range sd.Keys() {
		if !expected[k] {
			bad = append(bad, k)
		}
	}
	for k := range expected {
		if _, ok := sd[k]; !ok {
			bad = append(bad, k)
		}
	}
	if len(bad) > 0 {
		return errors.NewCheckpointError("Regressor.LoadStateDict", "", errors.KindKeyMismatch, bad, nil)
	}

	weights := sd[keyWeights]
	lr.Weights = weights.Vec()
	lr.Intercept = sd[keyIntercept].At(0, 0)
	lr.NFeatures = weights.Rows
	lr.fitted = true
	return nil
}
