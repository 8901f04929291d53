// Package errors はプロジェクト全体のエラーハンドリングを提供します。
// cockroachdb/errorsの上に、学習器・チェックポイント固有の構造化エラー型を定義します。
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で `Predict` などを呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("videoml: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("videoml: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
// 例えば、画像サイズを設定せずに変換パイプラインを構築した場合など。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("videoml: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError は機械学習モデルに関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("videoml: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("videoml: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// CheckpointError はチェックポイントの保存・読み込みに関するエラーです。
// Kind には "key mismatch" や "decode failed" などの分類が入ります。
type CheckpointError struct {
	Op   string
	Path string
	Kind string
	Keys []string // 問題のあるパラメータキー（キー不一致の場合のみ）
	Err  error
}

func (e *CheckpointError) Error() string {
	msg := fmt.Sprintf("videoml: %s: %s", e.Op, e.Kind)
	if e.Path != "" {
		msg += fmt.Sprintf(" (path: %s)", e.Path)
	}
	if len(e.Keys) > 0 {
		msg += fmt.Sprintf(": keys %v", e.Keys)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *CheckpointError) Unwrap() error {
	return e.Err
}

// IsKeyMismatch はキー不一致によるエラーかどうかを返します。
func (e *CheckpointError) IsKeyMismatch() bool {
	return e.Kind == KindKeyMismatch
}

// チェックポイントエラーの分類
const (
	// KindKeyMismatch はstate dictのキーがモデルのパラメータ名と一致しない場合
	KindKeyMismatch = "key mismatch"
	// KindDecodeFailed はシリアライズ形式の復号に失敗した場合
	KindDecodeFailed = "decode failed"
	// KindEncodeFailed はシリアライズに失敗した場合
	KindEncodeFailed = "encode failed"
)

// NewCheckpointError は新しいCheckpointErrorを作成し、スタックトレースを付与します。
func NewCheckpointError(op, path, kind string, keys []string, err error) error {
	ckptErr := &CheckpointError{Op: op, Path: path, Kind: kind, Keys: keys, Err: err}
	return errors.WithStack(ckptErr)
}

// IsKeyMismatch はエラーがチェックポイントのキー不一致かどうかを判定します。
// データ並列ラッパーが付与するプレフィックスの除去リトライの判断に使います。
func IsKeyMismatch(err error) bool {
	var ckptErr *CheckpointError
	return As(err, &ckptErr) && ckptErr.IsKeyMismatch()
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は特異行列の場合のエラーです。
	ErrSingularMatrix = New("singular matrix")
)
