package model

import (
	"fmt"
	"image"

	"github.com/YuminosukeSato/videoml/core/device"
	"github.com/YuminosukeSato/videoml/pkg/log"
)

// BaseLearner は全ての学習器の基底となる構造体
// ロガーハンドル・ハードウェアアクセラレーションフラグ・チェックポイント入出力を提供する
//
// 使用例:
//
//	type Learner struct {
//	    model.BaseLearner
//	}
//
//	func NewLearner() (*Learner, error) {
//	    l := &Learner{BaseLearner: model.NewBaseLearner()}
//	    if err := l.CreateLogger("log/learner.log"); err != nil {
//	        return nil, err
//	    }
//	    return l, nil
//	}
type BaseLearner struct {
	// Logger は任意のファイルロガーハンドル（未設定の場合はnil）
	Logger *log.FileLogger

	// Accelerated はハードウェアアクセラレーションが利用可能かどうか
	// 構築時に一度だけ検出され、以降は再評価されない
	Accelerated bool

	// ImageSize は変換パイプラインの出力サイズ
	// パイプラインを構築する前に具象学習器が必ず設定すること
	ImageSize image.Point
}

// NewBaseLearner は新しいBaseLearnerを作成する
// ハードウェアアクセラレーションの検出はここで実際に呼び出して評価する
func NewBaseLearner() BaseLearner {
	return BaseLearner{
		Accelerated: device.Accelerated(),
	}
}

// CreateLogger はログファイルパスに対するロガーハンドルを作成する
// 空のパスの場合は何もしない。既存のハンドルがあれば閉じて置き換えるため、
// 同じパスで繰り返し呼んでもログ行が重複することはない
func (b *BaseLearner) CreateLogger(logPath string) error {
	if logPath == "" {
		return nil
	}
	if b.Logger != nil {
		if err := b.Logger.Close(); err != nil {
			return err
		}
		b.Logger = nil
	}
	logger, err := log.New(logPath)
	if err != nil {
		return err
	}
	b.Logger = logger
	return nil
}

// CloseLogger はロガーハンドルを閉じて解放する
func (b *BaseLearner) CloseLogger() error {
	if b.Logger == nil {
		return nil
	}
	err := b.Logger.Close()
	b.Logger = nil
	return err
}

// Log はメッセージを情報レベルで記録する
func (b *BaseLearner) Log(msg string) {
	b.LogAt(log.LevelInfo, msg)
}

// LogAt はメッセージを指定されたレベルで記録する
// 常に標準出力へ書き出し、ロガーが設定されている場合はファイルにも出力する
func (b *BaseLearner) LogAt(level log.Level, msg string) {
	fmt.Println(msg)
	if b.Logger != nil {
		b.Logger.LogAt(level, msg)
	}
}

// Save はモデルのパラメータをチェックポイントとして保存する
// モデルがnil、またはパスが空の場合は何もしない
// データ並列ラッパーで包まれている場合は、剥がして内側のモデルのパラメータを保存する
func (b *BaseLearner) Save(m StateDictProvider, outPath string) error {
	if m == nil || outPath == "" {
		return nil
	}
	b.Log("Save model weights to " + outPath)
	if w, ok := m.(ModuleWrapper); ok {
		m = w.Module() // データ並列ラッパーを剥がす
	}
	return SaveStateDict(m.StateDict(), outPath)
}

// Load はチェックポイントからモデルのパラメータを読み込む
// モデルがnil、またはパスが空の場合は何もしない
//
// 直接の読み込みがキー不一致で失敗した場合は、データ並列ラッパーが付与した
// "module." プレフィックスを全キーから取り除いて一度だけ再試行する
// 再試行の失敗はそのまま呼び出し側へ返す
func (b *BaseLearner) Load(m StateDictProvider, inPath string) error {
	if m == nil || inPath == "" {
		return nil
	}
	b.Log("Load model weights from " + inPath)
	sd, err := LoadStateDictFile(inPath)
	if err != nil {
		return err
	}
	if err := m.LoadStateDict(sd); err != nil {
		b.LogAt(log.LevelWarn, "Weights were saved from a data-parallel wrapper...")
		b.LogAt(log.LevelWarn, "Removing '"+ParallelKeyPrefix+"' prefix from state dict keys...")
		return m.LoadStateDict(sd.StripPrefix(ParallelKeyPrefix))
	}
	return nil
}
