package musicbin

import (
	"bytes"
	"testing"

	"github.com/jsphweid/musicbin/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func stream(records ...byte) []byte {
	h := NewHeader(len(records) / 4).bytes()
	return append(h, records...)
}

func TestLayoutWidths(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(uint(18), width(initLayout))
	assert.Equal(uint(9), width(metaLayout))
	assert.Equal(uint(32), width(noteLayout))
	assert.Equal(uint(16), width(tupletLayout))
}

func TestDecodeKnownRecords(t *testing.T) {
	assert := assert.New(t)

	t.Run("measure meta", func(t *testing.T) {
		h, els, err := Decode(stream(0x4e, 0x00, 0x00, 0x00))
		assert.Nil(err)
		assert.Equal(uint32(4), h.Length)
		assert.Equal([]model.MusicElement{model.MeasureMetaData{
			StartEnd: model.MeasureStart,
			Ending:   model.EndingThree,
			DalSegno: model.DaCapo,
		}}, els)
	})

	t.Run("measure init", func(t *testing.T) {
		_, els, err := Decode(stream(0x12, 0x0c, 0x80, 0x00))
		assert.Nil(err)
		assert.Equal([]model.MusicElement{model.NewMeasureInitializer()}, els)
		init := els[0].(model.MeasureInitializer)
		assert.Equal(120, init.Tempo.Actual())
	})

	t.Run("note", func(t *testing.T) {
		_, els, err := Decode(stream(0xa0, 0xef, 0x84, 0x01))
		assert.Nil(err)
		assert.Equal([]model.MusicElement{model.NoteData{
			NoteRest:       65,
			PhraseDynamics: model.Forte,
			NoteType:       model.SemiBreve,
			Dotted:         true,
			Articulation:   model.Marcato,
			Voice:          model.VoiceTwo,
		}}, els)
	})
}

func sampleElements() []model.MusicElement {
	tm, _ := model.NewTimeModification(3, 2)
	return []model.MusicElement{
		model.MeasureInitializer{Beats: model.BeatsSix, BeatType: model.BeatTypeEight, KeySignature: model.FMajorDminor, Tempo: model.NewTempo(88)},
		model.MeasureMetaData{StartEnd: model.RepeatStart, Ending: model.EndingOne},
		model.NoteData{NoteRest: 97, PhraseDynamics: model.Fortississimo, NoteType: model.Quaver, Slur: model.StartSlur, Ties: model.StartTie},
		model.NoteData{NoteRest: 1, NoteType: model.Quaver, Chord: model.IsChord, Arpeggiate: model.ArpeggiateUp, Trill: model.Chromatic},
		model.TupletData{StartStop: model.TupletStart, TupletNumber: model.TupletTwo, ActualNotes: tm.Actual, NormalNotes: tm.Normal},
		model.NoteData{NoteRest: model.Rest, NoteType: model.SemiQuaver, Voice: model.VoiceFour, SpecialNote: model.Fermata, Articulation: model.Stress},
		model.TupletData{StartStop: model.TupletStop, TupletNumber: model.TupletTwo, ActualNotes: tm.Actual, NormalNotes: tm.Normal, Dotted: true},
		model.MeasureMetaData{StartEnd: model.RepeatEnd, DalSegno: model.DaCapoAlFine},
	}
}

func TestRoundTrip(t *testing.T) {
	assert := assert.New(t)

	t.Run("elements", func(t *testing.T) {
		data, err := Encode(sampleElements())
		assert.Nil(err)
		assert.Len(data, HeaderSize+4*len(sampleElements()))

		h, els, err := Decode(data)
		assert.Nil(err)
		assert.Equal(sampleElements(), els)
		assert.Equal(h.Length, uint32(4*len(els)))
	})

	t.Run("bytes", func(t *testing.T) {
		in := stream(0x4e, 0x00, 0x00, 0x00, 0x12, 0x0c, 0x80, 0x00, 0xa0, 0xef, 0x84, 0x01)
		_, els, err := Decode(in)
		assert.Nil(err)
		out, err := Encode(els)
		assert.Nil(err)
		assert.Equal(in, out)
	})

	t.Run("empty", func(t *testing.T) {
		data, err := Encode(nil)
		assert.Nil(err)
		assert.Equal([]byte{'M', 'u', 'B', 'i', 0, 0, 0, 0}, data)
		_, els, err := Decode(data)
		assert.Nil(err)
		assert.Empty(els)
	})
}

func TestDecodeErrors(t *testing.T) {
	assert := assert.New(t)

	t.Run("bad magic", func(t *testing.T) {
		_, _, err := Decode([]byte{'M', 'u', 'B', 'x', 0, 0, 0, 0})
		assert.True(errors.Is(err, ErrMalformedHeader))
	})

	t.Run("length mismatch", func(t *testing.T) {
		data := stream(0x4e, 0x00, 0x00, 0x00)
		data[4] = 8
		_, _, err := Decode(data)
		assert.True(errors.Is(err, ErrMalformedHeader))
	})

	t.Run("short header", func(t *testing.T) {
		_, _, err := Decode([]byte{'M', 'u'})
		assert.True(errors.Is(err, ErrTruncated))
	})

	t.Run("truncated record", func(t *testing.T) {
		data := stream(0x4e, 0x00, 0x00, 0x00)
		_, _, err := Decode(append(data, 0x12, 0x0c))
		assert.True(errors.Is(err, ErrTruncated))
	})

	t.Run("key out of range", func(t *testing.T) {
		_, _, err := Decode(stream(0x01, 0x80, 0x00, 0x00))
		assert.True(errors.Is(err, model.ErrUnknownTag))
	})

	t.Run("trill out of range", func(t *testing.T) {
		_, _, err := Decode(stream(0x80, 0x00, 0x01, 0x80))
		assert.True(errors.Is(err, model.ErrUnknownTag))
	})
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestEncoder(t *testing.T) {
	assert := assert.New(t)

	t.Run("writes and flushes", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Nil(NewEncoder(&buf).Encode(sampleElements()))
		_, els, err := NewDecoder(&buf).Decode()
		assert.Nil(err)
		assert.Equal(sampleElements(), els)
	})

	t.Run("invalid element writes nothing", func(t *testing.T) {
		var buf bytes.Buffer
		err := NewEncoder(&buf).Encode([]model.MusicElement{model.NoteData{Voice: 9}})
		assert.True(errors.Is(err, model.ErrUnknownTag))
		assert.Equal(0, buf.Len())
	})

	t.Run("flush failure is io", func(t *testing.T) {
		err := NewEncoder(failingWriter{}).Encode(sampleElements())
		assert.True(errors.Is(err, ErrIO))
	})
}
