package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Learner は学習と予測の両方を備えたモデルのインターフェース
type Learner interface {
	Fitter
	Predictor
}

// StateDictProvider はパラメータの書き出し・読み込みが可能なモデルのインターフェース
type StateDictProvider interface {
	// StateDict はモデルのパラメータマッピングを返す
	StateDict() StateDict

	// LoadStateDict はパラメータマッピングをモデルに読み込む
	// キーがモデルのパラメータ名と一致しない場合はCheckpointError（キー不一致）を返す
	LoadStateDict(sd StateDict) error
}

// Module はチェックポイント保存・読み込みの対象となるモデル
type Module interface {
	Learner
	StateDictProvider
}

// ModuleWrapper は別のモデルを包むコンテナ（データ並列ラッパーなど）
// チェックポイント保存時はコンテナを剥がして内側のモデルのパラメータを取り出す
type ModuleWrapper interface {
	// Module は包んでいるモデルを返す
	Module() Module
}
