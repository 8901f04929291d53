package model

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/videoml/pkg/errors"
)

// Tensor はstate dictに格納されるパラメータ値（数値テンソル）
// gobでシリアライズできるよう、全フィールドを公開している
type Tensor struct {
	Rows int
	Cols int
	Data []float64 // 行優先
}

// TensorFromDense はgonumの行列からTensorを作成する
func TensorFromDense(d *mat.Dense) Tensor {
	r, c := d.Dims()
	data := make([]float64, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data[i*c+j] = d.At(i, j)
		}
	}
	return Tensor{Rows: r, Cols: c, Data: data}
}

// TensorFromVec はgonumのベクトルをn×1のTensorとして作成する
func TensorFromVec(v *mat.VecDense) Tensor {
	n := v.Len()
	data := make([]float64, n)
	for i := 0; i < n; i++ {
		data[i] = v.AtVec(i)
	}
	return Tensor{Rows: n, Cols: 1, Data: data}
}

// Scalar は1×1のTensorを作成する
func Scalar(v float64) Tensor {
	return Tensor{Rows: 1, Cols: 1, Data: []float64{v}}
}

// Dense はTensorをgonumの行列に変換する
func (t Tensor) Dense() *mat.Dense {
	data := make([]float64, len(t.Data))
	copy(data, t.Data)
	return mat.NewDense(t.Rows, t.Cols, data)
}

// Vec はn×1のTensorをgonumのベクトルに変換する
func (t Tensor) Vec() *mat.VecDense {
	data := make([]float64, t.Rows)
	copy(data, t.Data[:t.Rows])
	return mat.NewVecDense(t.Rows, data)
}

// At は(i, j)要素を返す
func (t Tensor) At(i, j int) float64 {
	return t.Data[i*t.Cols+j]
}

// Equal は形状と全要素が一致するかどうかを返す
func (t Tensor) Equal(o Tensor) bool {
	if t.Rows != o.Rows || t.Cols != o.Cols || len(t.Data) != len(o.Data) {
		return false
	}
	for i := range t.Data {
		if t.Data[i] != o.Data[i] {
			return false
		}
	}
	return true
}

// validate は形状フィールドとデータ長の整合性を確認する
// gobで復元した値はここを通してからDense/Vec/Atへ渡すこと
func (t Tensor) validate() error {
	if t.Rows < 0 || t.Cols < 0 {
		return errors.Newf("tensor shape (%d, %d) is negative", t.Rows, t.Cols)
	}
	if t.Rows*t.Cols != len(t.Data) {
		return errors.Newf("tensor shape (%d, %d) does not match %d values", t.Rows, t.Cols, len(t.Data))
	}
	return nil
}

// Clone はTensorのディープコピーを作成する
func (t Tensor) Clone() Tensor {
	data := make([]float64, len(t.Data))
	copy(data, t.Data)
	return Tensor{Rows: t.Rows, Cols: t.Cols, Data: data}
}

// StateDict はパラメータ名からテンソル値へのマッピング
// チェックポイントとして保存・読み込みされる単位
type StateDict map[string]Tensor

// Keys はソート済みのパラメータ名一覧を返す
func (sd StateDict) Keys() []string {
	keys := make([]string, 0, len(sd))
	for k := range sd {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone はStateDictのディープコピーを作成する
func (sd StateDict) Clone() StateDict {
	clone := make(StateDict, len(sd))
	for k, v := range sd {
		clone[k] = v.Clone()
	}
	return clone
}

// StripPrefix は全キーから先頭のprefixを取り除いた新しいStateDictを返す
// データ並列ラッパーが保存したチェックポイントの読み込みフォールバックで使う
func (sd StateDict) StripPrefix(prefix string) StateDict {
	stripped := make(StateDict, len(sd))
	for k, v := range sd {
		stripped[strings.TrimPrefix(k, prefix)] = v
	}
	return stripped
}

// AddPrefix は全キーの先頭にprefixを付けた新しいStateDictを返す
func (sd StateDict) AddPrefix(prefix string) StateDict {
	prefixed := make(StateDict, len(sd))
	for k, v := range sd {
		prefixed[prefix+k] = v
	}
	return prefixed
}
