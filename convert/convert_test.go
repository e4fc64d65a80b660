package convert

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsphweid/musicbin/midi"
	"github.com/jsphweid/musicbin/model"
	"github.com/jsphweid/musicbin/musicbin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

const fixture = "testdata/scale.musicxml"

func openFixture(t *testing.T) *os.File {
	f, err := os.Open(fixture)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestXMLToBin(t *testing.T) {
	assert := assert.New(t)

	var bin bytes.Buffer
	mp, err := XMLToBin(openFixture(t), &bin)
	assert.Nil(err)
	assert.Equal("P1", mp.ID)
	assert.Equal(musicbin.HeaderSize+7*4, bin.Len())
	assert.Equal(musicbin.Magic[:], bin.Bytes()[:4])

	t.Run("decodes to the same elements", func(t *testing.T) {
		back, err := BinToIR(bytes.NewReader(bin.Bytes()))
		assert.Nil(err)
		assert.Equal(mp.Elements(), back.Elements())
		assert.Equal(uint32(1), back.Divisions())
		assert.Equal(1, back.NumVoices())
		assert.Equal(1, back.NumMeasures())
	})

	t.Run("back to musicxml", func(t *testing.T) {
		var out bytes.Buffer
		assert.Nil(BinToXML(bytes.NewReader(bin.Bytes()), &out))
		assert.Contains(out.String(), `<part id="P1">`)
		assert.Contains(out.String(), "<step>F</step>")

		pm, err := XMLToIR(&out)
		assert.Nil(err)
		again, ok := pm.Part(BinPartID)
		assert.True(ok)
		assert.Equal(mp.Elements(), again.Elements())
	})

	t.Run("to midi", func(t *testing.T) {
		var out bytes.Buffer
		assert.Nil(BinToMIDI(bytes.NewReader(bin.Bytes()), &out))
		s, err := midi.ReadMidi(&out)
		assert.Nil(err)
		assert.Equal(4, midi.Summarize(s).NoteOns)
	})
}

func TestBinErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := BinToIR(strings.NewReader("MuBx\x00\x00\x00\x00"))
	assert.True(errors.Is(err, musicbin.ErrMalformedHeader))

	var out bytes.Buffer
	err = BinToXML(strings.NewReader("Mu"), &out)
	assert.NotNil(err)
	assert.Equal(0, out.Len())
}

func TestXMLMulti(t *testing.T) {
	assert := assert.New(t)

	var out bytes.Buffer
	assert.Nil(XMLMulti(openFixture(t), &out))
	assert.Contains(out.String(), `<score-part id="P1">`)

	t.Run("every part dropped", func(t *testing.T) {
		doc := `<score-partwise><part-list><score-part id="P1"/></part-list><part id="P1"><measure number="1">
<attributes><divisions>1</divisions></attributes>
<note><unpitched/><duration>1</duration><voice>1</voice><type>quarter</type></note>
</measure></part></score-partwise>`
		err := XMLMulti(strings.NewReader(doc), &bytes.Buffer{})
		assert.True(errors.Is(err, ErrNoParts))
		_, err = XMLToBin(strings.NewReader(doc), &bytes.Buffer{})
		assert.True(errors.Is(err, ErrNoParts))
	})
}

func TestEndToEnd(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.musicxml")
	assert.Nil(EndToEnd(fixture, outPath, dir))

	entries, err := os.ReadDir(dir)
	assert.Nil(err)
	assert.Len(entries, 1)

	f, err := os.Open(outPath)
	assert.Nil(err)
	defer f.Close()
	pm, err := XMLToIR(f)
	assert.Nil(err)
	assert.Equal(1, pm.NumParts())

	assert.NotNil(EndToEnd(filepath.Join(dir, "missing.musicxml"), outPath, dir))
}

func TestInspect(t *testing.T) {
	assert := assert.New(t)

	var bin bytes.Buffer
	_, err := XMLToBin(openFixture(t), &bin)
	assert.Nil(err)

	res, err := Inspect(bytes.NewReader(bin.Bytes()), false)
	assert.Nil(err)
	assert.Equal(model.InspectResponse{Length: 28, Elements: 7, Divisions: 1, Voices: 1}, res)

	res, err = Inspect(bytes.NewReader(bin.Bytes()), true)
	assert.Nil(err)
	assert.Len(res.Dump, 7)
}

func TestSample(t *testing.T) {
	assert := assert.New(t)

	var bin bytes.Buffer
	_, err := XMLToBin(openFixture(t), &bin)
	assert.Nil(err)

	var out bytes.Buffer
	assert.Nil(Sample(bytes.NewReader(bin.Bytes()), &out, 0, 1))
	assert.Equal(bin.Bytes(), out.Bytes())

	assert.NotNil(Sample(bytes.NewReader(bin.Bytes()), &bytes.Buffer{}, 1, 1))
}
