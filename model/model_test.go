package model

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestFromNumeric(t *testing.T) {
	assert := assert.New(t)

	t.Run("in range", func(t *testing.T) {
		b, err := BeatsFromNumeric(2)
		assert.Nil(err)
		assert.Equal(BeatsFour, b)
		assert.Equal(uint32(4), b.Value())

		d, err := PhraseDynamicsFromNumeric(13)
		assert.Nil(err)
		assert.Equal(Forte, d)

		a, err := ArticulationFromNumeric(2)
		assert.Nil(err)
		assert.Equal(Marcato, a)
		assert.Equal("strong-accent", a.String())
	})

	t.Run("out of range is unknown tag", func(t *testing.T) {
		_, err := KeySignatureFromNumeric(12)
		assert.True(errors.Is(err, ErrUnknownTag))
		_, err = TrillFromNumeric(3)
		assert.True(errors.Is(err, ErrUnknownTag))
		_, err = BeatsFromNumeric(7)
		assert.True(errors.Is(err, ErrUnknownTag))
		_, err = TupletNormalFromNumeric(9)
		assert.True(errors.Is(err, ErrUnknownTag))
		_, err = PitchRestFromNumeric(98)
		assert.True(errors.Is(err, ErrUnknownTag))
	})
}

func TestTempo(t *testing.T) {
	assert := assert.New(t)

	t.Run("raw round trip and monotonic", func(t *testing.T) {
		prev := 0
		for raw := 0; raw <= 127; raw++ {
			tempo := NewTempoFromRaw(uint8(raw))
			assert.Equal(uint8(raw), NewTempo(tempo.Actual()).Raw())
			assert.GreaterOrEqual(tempo.Actual(), prev)
			prev = tempo.Actual()
		}
	})

	t.Run("clamps", func(t *testing.T) {
		assert.Equal(MinTempo, NewTempo(3).Actual())
		assert.Equal(MaxTempo, NewTempo(400).Actual())
		assert.Equal(uint8(127), NewTempoFromRaw(200).Raw())
	})

	t.Run("default", func(t *testing.T) {
		assert.Equal(uint8(50), DefaultTempoValue().Raw())
		assert.Equal("Allegretto", DefaultTempoValue().DescriptiveTempo())
		assert.Equal("Larghissimo", NewTempo(20).DescriptiveTempo())
		assert.Equal("Prestissimo", NewTempo(260).DescriptiveTempo())
	})
}

func TestPitch(t *testing.T) {
	assert := assert.New(t)

	p, err := PitchFromStep("C", 0, 4)
	assert.Nil(err)
	assert.Equal(60, p.MIDI())
	assert.Equal(PitchRest(49), p)

	low, err := PitchFromStep("C", 0, 0)
	assert.Nil(err)
	assert.Equal(PitchRest(MinPitch), low)

	high, err := PitchFromStep("C", 0, 8)
	assert.Nil(err)
	assert.Equal(PitchRest(MaxPitch), high)

	_, err = PitchFromStep("B", 0, 8)
	assert.True(errors.Is(err, ErrUnknownTag))

	flat, err := PitchFromStep("B", -1, 3)
	assert.Nil(err)
	step, alter, octave := flat.Step()
	assert.Equal("A", step)
	assert.Equal(1, alter)
	assert.Equal(3, octave)
	assert.Equal("A#3", flat.String())

	assert.True(Rest.IsRest())
	assert.Equal("rest", Rest.String())
}

func TestKeySignature(t *testing.T) {
	assert := assert.New(t)

	cases := map[int]KeySignature{
		-7: BMajorGSharpminor,
		-6: GbMajorEbminor,
		-5: DbMajorBbminor,
		-1: FMajorDminor,
		0:  CMajorAminor,
		6:  GbMajorEbminor,
		7:  DbMajorBbminor,
	}
	for fifths, want := range cases {
		got, err := KeySignatureFromFifths(fifths)
		assert.Nil(err)
		assert.Equal(want, got, "fifths %d", fifths)
	}
	_, err := KeySignatureFromFifths(8)
	assert.True(errors.Is(err, ErrParse))

	assert.Equal("-5", DbMajorBbminor.String())
	assert.Equal("6", GbMajorEbminor.String())
}

func TestParse(t *testing.T) {
	assert := assert.New(t)

	r, err := ParseRhythmType("breve")
	assert.Nil(err)
	assert.Equal(SemiBreve, r)
	r, err = ParseRhythmType("eighth")
	assert.Nil(err)
	assert.Equal(Quaver, r)

	d, err := ParsePhraseDynamics("pppp")
	assert.Nil(err)
	assert.Equal(Pianissississimo, d)
	_, err = ParsePhraseDynamics("other-dynamics")
	assert.True(errors.Is(err, ErrParse))

	e, err := ParseEnding("1, 2")
	assert.Nil(err)
	assert.Equal(EndingOne, e)

	n, err := ParseTupletNumber("")
	assert.Nil(err)
	assert.Equal(TupletOne, n)

	_, err = NewTupletActual(17)
	assert.True(errors.Is(err, ErrParse))

	tm, err := NewTimeModification(3, 2)
	assert.Nil(err)
	assert.Equal("3:2", tm.String())
}

func TestElements(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(VoiceOne, VoiceFour.Next())
	assert.Equal(VoiceThree, VoiceTwo.Next())

	start := TupletData{StartStop: TupletStart, ActualNotes: 1, NormalNotes: 1}
	tm := start.TimeModification()
	assert.NotNil(tm)
	assert.Equal(uint32(3), tm.Actual.Value())
	assert.Equal(uint32(2), tm.Normal.Value())
	assert.Nil(TupletData{StartStop: TupletStop}.TimeModification())

	rest := NewDefaultRest(Minim, true, VoiceTwo)
	assert.True(rest.NoteRest.IsRest())
	assert.Equal(TagNoteData, rest.Tag())
	assert.Equal(TagMeasureInitializer, NewMeasureInitializer().Tag())
}
