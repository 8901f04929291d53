package model

import (
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/videoml/core/parallel"
	"github.com/YuminosukeSato/videoml/pkg/errors"
)

// DataParallel はモデルを包んで予測をCPUワーカー間で分散するコンテナ
// マルチデバイス学習ラッパーの慣例に従い、StateDictの全キーに
// ParallelKeyPrefix（"module."）を付与する
type DataParallel struct {
	module Module
}

// NewDataParallel はモデルを包んだDataParallelを作成する
func NewDataParallel(m Module) *DataParallel {
	return &DataParallel{module: m}
}

// Module は包んでいるモデルを返す
func (dp *DataParallel) Module() Module {
	return dp.module
}

// Fit は包んでいるモデルの学習に委譲する
func (dp *DataParallel) Fit(X, y mat.Matrix) error {
	return dp.module.Fit(X, y)
}

// Predict は入力の行をワーカーごとに分割し、並列に予測して元の順序で結合する
func (dp *DataParallel) Predict(X mat.Matrix) (mat.Matrix, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError("DataParallel.Predict", "empty data", errors.ErrEmptyData)
	}

	rows := make([][]float64, r)

	var mu sync.Mutex
	var firstErr error

	parallel.Parallelize(r, func(start, end int) {
		shard := mat.NewDense(end-start, c, nil)
		for i := start; i < end; i++ {
			for j := 0; j < c; j++ {
				shard.Set(i-start, j, X.At(i, j))
			}
		}

		pred, err := dp.module.Predict(shard)
		if err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			return
		}

		pr, pc := pred.Dims()
		for i := 0; i < pr; i++ {
			row := make([]float64, pc)
			for j := 0; j < pc; j++ {
				row[j] = pred.At(i, j)
			}
			rows[start+i] = row
		}
	})

	if firstErr != nil {
		return nil, firstErr
	}

	cols := len(rows[0])
	out := mat.NewDense(r, cols, nil)
	for i, row := range rows {
		for j, v := range row {
			out.Set(i, j, v)
		}
	}
	return out, nil
}

// StateDict は包んでいるモデルのパラメータにプレフィックスを付けて返す
func (dp *DataParallel) StateDict() StateDict {
	return dp.module.StateDict().AddPrefix(ParallelKeyPrefix)
}

// LoadStateDict はプレフィックスを取り除いてから包んでいるモデルに読み込む
func (dp *DataParallel) LoadStateDict(sd StateDict) error {
	return dp.module.LoadStateDict(sd.StripPrefix(ParallelKeyPrefix))
}
