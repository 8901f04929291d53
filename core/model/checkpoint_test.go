package model

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/videoml/pkg/errors"
)

// stubModel はテスト用の最小モデル
// 入力の各行の合計にスケールを掛けた値を予測として返す
type stubModel struct {
	W Tensor // 重み（2×2）
	S Tensor // スケール（1×1）
}

func newStubModel() *stubModel {
	return &stubModel{
		W: Tensor{Rows: 2, Cols: 2, Data: []float64{1, 2, 3, 4}},
		S: Scalar(2),
	}
}

func (m *stubModel) Fit(X, y mat.Matrix) error { return nil }

func (m *stubModel) Predict(X mat.Matrix) (mat.Matrix, error) {
	r, c := X.Dims()
	out := mat.NewDense(r, 1, nil)
	scale := m.S.At(0, 0)
	for i := 0; i < r; i++ {
		sum := 0.0
		for j := 0; j < c; j++ {
			sum += X.At(i, j)
		}
		out.Set(i, 0, sum*scale)
	}
	return out, nil
}

func (m *stubModel) StateDict() StateDict {
	return StateDict{"w": m.W.Clone(), "s": m.S.Clone()}
}

func (m *stubModel) LoadStateDict(sd StateDict) error {
	var bad []string
	for _, k := range sd.Keys() {
		if k != "w" && k != "s" {
			bad = append(bad, k)
		}
	}
	if _, ok := sd["w"]; !ok {
		bad = append(bad, "w")
	}
	if _, ok := sd["s"]; !ok {
		bad = append(bad, "s")
	}
	if len(bad) > 0 {
		return errors.NewCheckpointError("stubModel.LoadStateDict", "", errors.KindKeyMismatch, bad, nil)
	}
	m.W = sd["w"].Clone()
	m.S = sd["s"].Clone()
	return nil
}

func TestSaveLoadRoundTrip(t *testing.T) {
	b := NewBaseLearner()
	path := filepath.Join(t.TempDir(), "model.gob")

	src := newStubModel()
	src.W.Data[0] = 42.5

	if err := b.Save(src, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	dst := newStubModel()
	dst.W.Data[0] = 0
	if err := b.Load(dst, path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// 保存→読み込みで全パラメータが数値的に一致すること
	if !dst.W.Equal(src.W) || !dst.S.Equal(src.S) {
		t.Errorf("round trip mismatch: got w=%v s=%v, want w=%v s=%v", dst.W, dst.S, src.W, src.S)
	}
}

func TestSaveCreatesParentDirectory(t *testing.T) {
	b := NewBaseLearner()
	path := filepath.Join(t.TempDir(), "not", "yet", "there", "model.gob")

	if err := b.Save(newStubModel(), path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected checkpoint file to exist: %v", err)
	}
}

func TestSaveLoadNoOp(t *testing.T) {
	b := NewBaseLearner()
	path := filepath.Join(t.TempDir(), "model.gob")

	// モデルまたはパスが無い場合は黙ってスキップする
	if err := b.Save(nil, path); err != nil {
		t.Errorf("Save(nil, path) error = %v, want nil", err)
	}
	if err := b.Save(newStubModel(), ""); err != nil {
		t.Errorf("Save(model, \"\") error = %v, want nil", err)
	}
	if err := b.Load(nil, path); err != nil {
		t.Errorf("Load(nil, path) error = %v, want nil", err)
	}
	if err := b.Load(newStubModel(), ""); err != nil {
		t.Errorf("Load(model, \"\") error = %v, want nil", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no-op Save must not create a file")
	}
}

func TestSaveUnwrapsDataParallel(t *testing.T) {
	b := NewBaseLearner()
	path := filepath.Join(t.TempDir(), "model.gob")

	wrapped := NewDataParallel(newStubModel())
	if err := b.Save(wrapped, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// ラッパーを剥がして保存するため、プレフィックスの無いキーになる
	sd, err := LoadStateDictFile(path)
	if err != nil {
		t.Fatalf("LoadStateDictFile() error = %v", err)
	}
	for _, k := range sd.Keys() {
		if k == "module.w" || k == "module.s" {
			t.Errorf("key %q still carries the parallel prefix", k)
		}
	}
}

func TestLoadFallbackStripsPrefix(t *testing.T) {
	b := NewBaseLearner()
	path := filepath.Join(t.TempDir(), "model.gob")

	// データ並列ラッパーのStateDictを直接保存してプレフィックス付きの
	// チェックポイントを作る
	src := newStubModel()
	src.S = Scalar(7)
	prefixed := NewDataParallel(src).StateDict()
	if err := SaveStateDict(prefixed, path); err != nil {
		t.Fatalf("SaveStateDict() error = %v", err)
	}

	dst := newStubModel()
	dst.S = Scalar(0)
	if err := b.Load(dst, path); err != nil {
		t.Fatalf("Load() error = %v, want fallback to succeed", err)
	}
	if !dst.S.Equal(src.S) {
		t.Errorf("fallback load: s = %v, want %v", dst.S, src.S)
	}
}

func TestLoadSecondFailurePropagates(t *testing.T) {
	b := NewBaseLearner()
	path := filepath.Join(t.TempDir(), "model.gob")

	// プレフィックスを剥がしてもキーが一致しないチェックポイント
	sd := StateDict{"module.unknown": Scalar(1), "module.s": Scalar(2)}
	if err := SaveStateDict(sd, path); err != nil {
		t.Fatalf("SaveStateDict() error = %v", err)
	}

	err := b.Load(newStubModel(), path)
	if err == nil {
		t.Fatal("expected the second failure to propagate")
	}
	if !errors.IsKeyMismatch(err) {
		t.Errorf("error = %v, want a key-mismatch CheckpointError", err)
	}
}

func TestLoadRejectsInconsistentTensorShape(t *testing.T) {
	b := NewBaseLearner()
	path := filepath.Join(t.TempDir(), "model.gob")

	// 形状フィールドがデータ長と矛盾するテンソルを含むチェックポイント
	// （切り詰め・改変されたファイルの再現）
	sd := StateDict{
		"w": Tensor{Rows: 10, Cols: 1, Data: []float64{1}},
		"s": Scalar(0),
	}
	if err := SaveStateDict(sd, path); err != nil {
		t.Fatalf("SaveStateDict() error = %v", err)
	}

	// パニックではなくエラーとして呼び出し側へ返ること
	err := b.Load(newStubModel(), path)
	if err == nil {
		t.Fatal("expected an error for a shape-inconsistent checkpoint")
	}
	var ckptErr *errors.CheckpointError
	if !errors.As(err, &ckptErr) {
		t.Fatalf("error = %v, want a CheckpointError", err)
	}
	if ckptErr.Kind != errors.KindDecodeFailed {
		t.Errorf("Kind = %q, want %q", ckptErr.Kind, errors.KindDecodeFailed)
	}
}

func TestLoadMissingFile(t *testing.T) {
	b := NewBaseLearner()
	err := b.Load(newStubModel(), filepath.Join(t.TempDir(), "missing.gob"))
	if err == nil {
		t.Fatal("expected an error for a missing checkpoint file")
	}
}
