// Package bucket stages the MusicBin stream of each converted score on
// disk until the streams are packed into shards.
package bucket

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/jsphweid/musicbin/model"
	"github.com/jsphweid/musicbin/util"
	"github.com/pkg/errors"
)

var stagedName = regexp.MustCompile(`^(\d{8})\.bin$`)

// Key names a score inside a shard index.
func Key(fileNum model.FileNum) string {
	return fmt.Sprintf("%08d", fileNum)
}

func Put(dir string, fileNum model.FileNum, data []byte) error {
	filename := filepath.Join(dir, Key(fileNum)+".bin")
	if err := os.WriteFile(filename, data, 0666); err != nil {
		return errors.Wrap(err, "could not stage "+filename)
	}
	return nil
}

// ReadAll loads every staged stream keyed by file number.
func ReadAll(dir string) (map[model.FileNum][]byte, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "could not read dir "+dir)
	}
	res := make(map[model.FileNum][]byte)
	for _, file := range files {
		m := stagedName.FindStringSubmatch(file.Name())
		if m == nil {
			continue
		}
		num, _ := strconv.ParseUint(m[1], 10, 32)
		data, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return nil, errors.Wrap(err, "could not read staged score")
		}
		res[model.FileNum(num)] = data
	}
	return res, nil
}

// Keys lists the staged file numbers in order.
func Keys(m map[model.FileNum][]byte) []model.FileNum {
	return util.GetSortedKeys(m)
}

func DeleteAll(dir string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrap(err, "could not read dir "+dir)
	}
	for _, file := range files {
		if stagedName.MatchString(file.Name()) {
			if err := os.Remove(filepath.Join(dir, file.Name())); err != nil {
				return errors.WithStack(err)
			}
		}
	}
	return nil
}
