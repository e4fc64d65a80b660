package chunk

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/jsphweid/musicbin/bucket"
	"github.com/jsphweid/musicbin/model"
	"github.com/jsphweid/musicbin/musicbin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func stage(t *testing.T, dir string, fileNum model.FileNum, els ...model.MusicElement) []byte {
	data, err := musicbin.Encode(els)
	if err != nil {
		t.Fatal(err)
	}
	if err := bucket.Put(dir, fileNum, data); err != nil {
		t.Fatal(err)
	}
	return data
}

func TestCreateAll(t *testing.T) {
	assert := assert.New(t)
	staging, out := t.TempDir(), t.TempDir()

	rest := model.NewDefaultRest(model.SemiBreve, false, model.VoiceOne)
	first := stage(t, staging, 0, model.NewMeasureInitializer(), model.NewMeasureMetaData(model.MeasureStart), rest, model.NewMeasureMetaData(model.MeasureEnd))
	second := stage(t, staging, 1, model.NewMeasureMetaData(model.MeasureStart), model.NewMeasureMetaData(model.MeasureEnd))
	third := stage(t, staging, 2, model.NewMeasureMetaData(model.RepeatStart), model.NewMeasureMetaData(model.RepeatEnd))

	shards, err := CreateAll(staging, out, len(first)+len(second))
	assert.Nil(err)
	assert.Len(shards, 2)
	assert.Equal("00000000", shards[0].Start)
	assert.Equal("00000001", shards[0].End)
	assert.Equal(2, shards[0].Scores)
	assert.Equal("00000002", shards[1].Start)

	path := filepath.Join(out, shards[0].Filename)
	index, err := ReadIndex(path)
	assert.Nil(err)
	assert.Equal(model.ShardIndex{
		"00000000": {Start: 0, End: uint32(len(first))},
		"00000001": {Start: uint32(len(first)), End: uint32(len(first) + len(second))},
	}, index)

	t.Run("entries decode", func(t *testing.T) {
		data, err := ReadEntry(path, "00000001")
		assert.Nil(err)
		assert.Equal(second, data)

		data, err = ReadEntry(filepath.Join(out, shards[1].Filename), "00000002")
		assert.Nil(err)
		assert.Equal(third, data)
		_, els, err := musicbin.NewDecoder(bytes.NewReader(data)).Decode()
		assert.Nil(err)
		assert.Len(els, 2)
	})

	t.Run("missing entry", func(t *testing.T) {
		_, err := ReadEntry(path, "00000002")
		assert.True(errors.Is(err, ErrMissingEntry))
	})
}

func TestCreateAllEmpty(t *testing.T) {
	assert := assert.New(t)
	shards, err := CreateAll(t.TempDir(), t.TempDir(), 1024)
	assert.Nil(err)
	assert.Empty(shards)
}
