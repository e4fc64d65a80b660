package util

import (
	"bytes"
	"encoding/gob"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jsphweid/musicbin/logging"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

func RecreateDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrap(err, "could not clear "+dir)
	}
	return os.MkdirAll(dir, 0777)
}

// IsScorePath is true for uncompressed MusicXML files.
func IsScorePath(s string) bool {
	return strings.HasSuffix(s, ".musicxml") || strings.HasSuffix(s, ".xml")
}

// GatherScorePaths walks dir for MusicXML files, returning at most
// maxNum of them (0 means all) in lexical order.
func GatherScorePaths(dir string, maxNum int) ([]string, error) {
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsScorePath(s) {
			if maxNum == 0 || len(res) < maxNum {
				res = append(res, s)
			}
		}
		return nil
	}
	if err := filepath.WalkDir(dir, walk); err != nil {
		return nil, errors.Wrap(err, "error walking "+dir)
	}
	return res, nil
}

func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func GetSortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := GetKeys(m)
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func CreateBinary(filename string, data any) error {
	logging.Debugf("Creating binary for filename: %v", filename)
	buf := new(bytes.Buffer)
	if err := gob.NewEncoder(buf).Encode(data); err != nil {
		return errors.Wrap(err, "could not encode "+filename)
	}
	return errors.Wrap(os.WriteFile(filename, buf.Bytes(), 0666), "write failed for "+filename)
}

func ReadBinary[A any](path string) (A, error) {
	var data A
	f, err := os.Open(path)
	if err != nil {
		return data, errors.Wrap(err, "could not load binary file")
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(&data); err != nil {
		return data, errors.Wrap(err, "could not decode binary file")
	}
	return data, nil
}

func Min[A constraints.Integer](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Sum[A constraints.Integer](nums []A) uint64 {
	var total uint64
	for _, v := range nums {
		total += uint64(v)
	}
	return total
}

func GCD[A constraints.Unsigned](a, b A) A {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// LCM of zero and anything is zero.
func LCM[A constraints.Unsigned](a, b A) A {
	if a == 0 || b == 0 {
		return 0
	}
	return a / GCD(a, b) * b
}
