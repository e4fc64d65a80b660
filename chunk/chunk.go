// Package chunk packs staged MusicBin streams into shard files. A shard
// is a little-endian u32 index size, a gob encoded model.ShardIndex and
// then the streams back to back.
package chunk

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jsphweid/musicbin/bucket"
	"github.com/jsphweid/musicbin/logging"
	"github.com/jsphweid/musicbin/model"
	"github.com/pkg/errors"
)

const indexSizeLen = 4

var ErrMissingEntry = errors.New("score not in shard")

func makeShardOverview(sortedKeys []string) model.ShardOverview {
	return model.ShardOverview{
		Filename: uuid.New().String() + ".dat",
		Start:    sortedKeys[0],
		End:      sortedKeys[len(sortedKeys)-1],
		Scores:   len(sortedKeys),
	}
}

// makeShard writes the streams under sortedKeys into one shard in outDir.
func makeShard(outDir string, streams map[string][]byte, sortedKeys []string) (model.ShardOverview, error) {
	s := makeShardOverview(sortedKeys)
	index := make(model.ShardIndex)

	dataBuf := new(bytes.Buffer)
	for _, key := range sortedKeys {
		start := uint32(dataBuf.Len())
		dataBuf.Write(streams[key])
		index[key] = model.Pair{Start: start, End: uint32(dataBuf.Len())}
	}

	indexBuf := new(bytes.Buffer)
	if err := gob.NewEncoder(indexBuf).Encode(index); err != nil {
		return s, errors.Wrap(err, "could not encode shard index")
	}

	finalBytes := make([]byte, indexSizeLen, indexSizeLen+indexBuf.Len()+dataBuf.Len())
	binary.LittleEndian.PutUint32(finalBytes, uint32(indexBuf.Len()))
	finalBytes = append(finalBytes, indexBuf.Bytes()...)
	finalBytes = append(finalBytes, dataBuf.Bytes()...)

	filename := filepath.Join(outDir, s.Filename)
	if err := os.WriteFile(filename, finalBytes, 0666); err != nil {
		return s, errors.Wrap(err, "write failed for shard file")
	}
	return s, nil
}

// CreateAll packs every stream staged in stagingDir into shards of
// roughly preferredSize bytes, in file number order.
func CreateAll(stagingDir, outDir string, preferredSize int) ([]model.ShardOverview, error) {
	staged, err := bucket.ReadAll(stagingDir)
	if err != nil {
		return nil, err
	}
	nums := bucket.Keys(staged)

	streams := make(map[string][]byte, len(staged))
	var res []model.ShardOverview
	var currKeys []string
	var size int
	for i, num := range nums {
		key := bucket.Key(num)
		streams[key] = staged[num]
		currKeys = append(currKeys, key)
		size += len(staged[num])

		isLast := len(nums)-1 == i
		if size >= preferredSize || isLast {
			s, err := makeShard(outDir, streams, currKeys)
			if err != nil {
				return nil, err
			}
			logging.Debugf("Wrote shard %v with %v scores", s.Filename, s.Scores)
			res = append(res, s)
			size = 0
			currKeys = nil
		}
	}
	return res, nil
}

func readIndex(r io.Reader) (model.ShardIndex, uint32, error) {
	var indexSize uint32
	if err := binary.Read(r, binary.LittleEndian, &indexSize); err != nil {
		return nil, 0, errors.Wrap(err, "could not read shard index size")
	}
	var index model.ShardIndex
	if err := gob.NewDecoder(io.LimitReader(r, int64(indexSize))).Decode(&index); err != nil {
		return nil, 0, errors.Wrap(err, "could not decode shard index")
	}
	return index, indexSize, nil
}

func ReadIndex(path string) (model.ShardIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	index, _, err := readIndex(f)
	return index, err
}

// ReadEntry returns the MusicBin stream stored under key.
func ReadEntry(path, key string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	index, indexSize, err := readIndex(f)
	if err != nil {
		return nil, err
	}
	p, ok := index[key]
	if !ok {
		return nil, errors.Wrapf(ErrMissingEntry, "%v in %v", key, filepath.Base(path))
	}
	buf := make([]byte, p.End-p.Start)
	offset := int64(indexSizeLen) + int64(indexSize) + int64(p.Start)
	if _, err := f.ReadAt(buf, offset); err != nil {
		return nil, errors.Wrap(err, "could not read shard entry")
	}
	return buf, nil
}
