package bucket

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/musicbin/model"
	"github.com/stretchr/testify/assert"
)

func TestStaging(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	assert.Equal("00000012", Key(12))
	assert.Nil(Put(dir, 12, []byte("b")))
	assert.Nil(Put(dir, 3, []byte("a")))
	assert.Nil(os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0666))

	m, err := ReadAll(dir)
	assert.Nil(err)
	assert.Equal(map[model.FileNum][]byte{3: []byte("a"), 12: []byte("b")}, m)
	assert.Equal([]model.FileNum{3, 12}, Keys(m))

	assert.Nil(DeleteAll(dir))
	entries, err := os.ReadDir(dir)
	assert.Nil(err)
	assert.Len(entries, 1)
	assert.Equal("notes.txt", entries[0].Name())
}
