package file

import (
	"path/filepath"

	"github.com/jsphweid/musicbin/constants"
	"github.com/jsphweid/musicbin/model"
	"github.com/jsphweid/musicbin/util"
)

func CreateFileNumMap(paths []string) model.FileNumToScorePath {
	res := make(model.FileNumToScorePath)
	for i, v := range paths {
		res[uint32(i)] = v
	}
	return res
}

func SaveFileNumMap(outDir string, m model.FileNumToScorePath) error {
	return util.CreateBinary(filepath.Join(outDir, constants.FileNumMapName), m)
}

func LoadFileNumMap(outDir string) (model.FileNumToScorePath, error) {
	return util.ReadBinary[model.FileNumToScorePath](filepath.Join(outDir, constants.FileNumMapName))
}
