package model

import (
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/YuminosukeSato/videoml/pkg/errors"
)

// ParallelKeyPrefix はデータ並列ラッパーがパラメータキーに付与する固定プレフィックス
const ParallelKeyPrefix = "module."

// SaveStateDict はstate dictをファイルに保存する
// 親ディレクトリが存在しない場合は作成し、既存ファイルは上書きする
//
// 使用例:
//
//	sd := learner.StateDict()
//	err := model.SaveStateDict(sd, "checkpoints/model.gob")
func SaveStateDict(sd StateDict, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "SaveStateDict: creating directory %s", dir)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "SaveStateDict: creating file %s", path)
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(sd); err != nil {
		return errors.NewCheckpointError("SaveStateDict", path, errors.KindEncodeFailed, nil, err)
	}

	return nil
}

// LoadStateDictFile はファイルからstate dictを読み込む
// 破損・改変されたチェックポイントに備えて、各テンソルの形状と
// データ長の整合性を検証してから返す
func LoadStateDictFile(path string) (StateDict, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "LoadStateDictFile: opening file %s", path)
	}
	defer file.Close()

	var sd StateDict
	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(&sd); err != nil {
		return nil, errors.NewCheckpointError("LoadStateDictFile", path, errors.KindDecodeFailed, nil, err)
	}

	for _, k := range sd.Keys() {
		if err := sd[k].validate(); err != nil {
			return nil, errors.NewCheckpointError("LoadStateDictFile", path, errors.KindDecodeFailed, []string{k}, err)
		}
	}

	return sd, nil
}
