package musicxml

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jsphweid/musicbin/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

const score = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<!DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 4.0 Partwise//EN" "http://www.musicxml.org/dtds/partwise.dtd">
<score-partwise version="4.0">
  <part-list>
    <score-part id="P1"><part-name>Piano</part-name></score-part>
    <score-part id="P2"><part-name>Drums</part-name></score-part>
    <score-part id="P3"><part-name>Choir</part-name></score-part>
  </part-list>
  <part id="P1">
    <measure number="1">
      <print/>
      <attributes>
        <divisions>6</divisions>
        <key><fifths>-1</fifths></key>
        <time><beats>3</beats><beat-type>4</beat-type></time>
      </attributes>
      <direction><direction-type><dynamics><mf/></dynamics></direction-type><sound tempo="90"/></direction>
      <barline location="left"><repeat direction="forward"/></barline>
      <note><pitch><step>C</step><octave>4</octave></pitch><duration>6</duration><voice>1</voice><type>quarter</type><notations><tied type="start"/></notations></note>
      <note><pitch><step>C</step><octave>4</octave></pitch><duration>6</duration><voice>1</voice><type>quarter</type><notations><tied type="stop"/></notations></note>
      <note><chord/><pitch><step>E</step><alter>-1</alter><octave>4</octave></pitch><duration>6</duration><voice>1</voice><type>quarter</type></note>
      <note><pitch><step>G</step><octave>4</octave></pitch><duration>6</duration><voice>1</voice><type>quarter</type><notations><articulations><staccato/></articulations></notations></note>
      <backup><duration>18</duration></backup>
      <note><pitch><step>C</step><octave>3</octave></pitch><duration>12</duration><voice>2</voice><type>half</type></note>
    </measure>
    <measure number="2">
      <barline location="left"><ending number="1" type="start"/></barline>
      <note><pitch><step>D</step><octave>5</octave></pitch><duration>2</duration><voice>1</voice><type>eighth</type><time-modification><actual-notes>3</actual-notes><normal-notes>2</normal-notes></time-modification><notations><tuplet type="start"/></notations></note>
      <note><pitch><step>E</step><octave>5</octave></pitch><duration>2</duration><voice>1</voice><type>eighth</type><time-modification><actual-notes>3</actual-notes><normal-notes>2</normal-notes></time-modification></note>
      <note><pitch><step>F</step><octave>5</octave></pitch><duration>2</duration><voice>1</voice><type>eighth</type><time-modification><actual-notes>3</actual-notes><normal-notes>2</normal-notes></time-modification><notations><tuplet type="stop"/></notations></note>
      <note><pitch><step>B</step><octave>4</octave></pitch><duration>12</duration><voice>1</voice><type>half</type></note>
      <backup><duration>18</duration></backup>
      <note><rest measure="yes"/><duration>18</duration><voice>2</voice></note>
      <barline location="right"><ending number="1" type="stop"/><repeat direction="backward"/></barline>
    </measure>
  </part>
  <part id="P2">
    <measure number="1">
      <attributes><divisions>1</divisions></attributes>
      <note><unpitched><display-step>C</display-step><display-octave>5</display-octave></unpitched><duration>1</duration><voice>1</voice><type>quarter</type></note>
    </measure>
  </part>
  <part id="P3">
    <measure number="1">
      <attributes><divisions>1</divisions></attributes>
      <note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration><voice>1</voice><type>quarter</type></note>
      <backup><duration>1</duration></backup>
      <note><pitch><step>D</step><octave>4</octave></pitch><duration>1</duration><voice>2</voice><type>quarter</type></note>
      <backup><duration>1</duration></backup>
      <note><pitch><step>E</step><octave>4</octave></pitch><duration>1</duration><voice>3</voice><type>quarter</type></note>
      <backup><duration>1</duration></backup>
      <note><pitch><step>F</step><octave>4</octave></pitch><duration>1</duration><voice>4</voice><type>quarter</type></note>
      <backup><duration>1</duration></backup>
      <note><pitch><step>G</step><octave>4</octave></pitch><duration>1</duration><voice>5</voice><type>quarter</type></note>
    </measure>
  </part>
</score-partwise>
`

func TestRead(t *testing.T) {
	assert := assert.New(t)

	pm, err := Read(strings.NewReader(score))
	assert.Nil(err)
	assert.Equal(3, pm.NumPartIDs())
	assert.Equal(1, pm.NumParts())
	assert.Equal(2, pm.RemovedParts())

	mp, ok := pm.Part("P1")
	assert.True(ok)
	assert.Equal(uint32(6), mp.Divisions())
	assert.Equal(2, mp.NumVoices())
	assert.Equal(2, mp.NumMeasures())

	els := mp.Elements()
	assert.Len(els, 18)
	assert.Equal(model.MeasureInitializer{
		Beats:        model.BeatsThree,
		BeatType:     model.BeatTypeFour,
		KeySignature: model.FMajorDminor,
		Tempo:        model.NewTempo(90),
	}, els[0])
	assert.Equal(model.NewMeasureMetaData(model.RepeatStart), els[1])
	assert.Equal(model.NoteData{
		NoteRest:       49,
		PhraseDynamics: model.MezzoForte,
		NoteType:       model.Crochet,
		Ties:           model.StartTie,
	}, els[2])
	assert.Equal(model.NoteData{NoteRest: 52, NoteType: model.Crochet, Chord: model.IsChord}, els[4])
	assert.Equal(model.Staccato, els[5].(model.NoteData).Articulation)

	t.Run("short voice is padded", func(t *testing.T) {
		assert.Equal(model.NewDefaultRest(model.Crochet, false, model.VoiceTwo), els[7])
		assert.Equal(model.NewMeasureMetaData(model.MeasureEnd), els[8])
	})

	t.Run("tuplets bracket their notes", func(t *testing.T) {
		assert.Equal(model.MeasureMetaData{StartEnd: model.MeasureStart, Ending: model.EndingOne}, els[9])
		start, ok := els[10].(model.TupletData)
		assert.True(ok)
		assert.Equal(model.TupletStart, start.StartStop)
		assert.Equal("3:2", start.TimeModification().String())
		stop, ok := els[14].(model.TupletData)
		assert.True(ok)
		assert.Equal(model.TupletStop, stop.StartStop)
	})

	t.Run("measure rest is whole", func(t *testing.T) {
		assert.Equal(model.NewDefaultRest(model.SemiBreve, false, model.VoiceTwo), els[16])
		assert.Equal(model.MeasureMetaData{StartEnd: model.RepeatEnd, Ending: model.EndingOne}, els[17])
	})
}

func TestWriteRoundTrip(t *testing.T) {
	assert := assert.New(t)

	pm, err := Read(strings.NewReader(score))
	assert.Nil(err)

	var buf bytes.Buffer
	assert.Nil(Write(&buf, pm))
	out := buf.String()
	assert.Contains(out, "<!DOCTYPE score-partwise")
	assert.Contains(out, "<fifths>-1</fifths>")
	assert.Contains(out, `<repeat direction="forward"></repeat>`)
	assert.Contains(out, "<backup>")
	assert.NotContains(out, `id="P2"`)

	again, err := Read(&buf)
	assert.Nil(err)
	first, _ := pm.Part("P1")
	second, ok := again.Part("P1")
	assert.True(ok)
	assert.Equal(first.Elements(), second.Elements())
}

func TestReadErrors(t *testing.T) {
	assert := assert.New(t)

	t.Run("not xml", func(t *testing.T) {
		_, err := Read(strings.NewReader("MuBi"))
		assert.NotNil(err)
	})

	t.Run("unrepresentable duration", func(t *testing.T) {
		doc := `<score-partwise><part-list><score-part id="P1"/></part-list><part id="P1"><measure number="1">
<attributes><divisions>480</divisions></attributes>
<note><pitch><step>C</step><octave>4</octave></pitch><duration>7</duration><voice>1</voice></note>
</measure></part></score-partwise>`
		_, err := Read(strings.NewReader(doc))
		assert.NotNil(err)
		assert.False(errors.Is(err, ErrUnsupported))
	})

	t.Run("microtones drop the part", func(t *testing.T) {
		doc := `<score-partwise><part-list><score-part id="P1"/></part-list><part id="P1"><measure number="1">
<attributes><divisions>1</divisions></attributes>
<note><pitch><step>C</step><alter>0.5</alter><octave>4</octave></pitch><duration>1</duration><voice>1</voice><type>quarter</type></note>
</measure></part></score-partwise>`
		pm, err := Read(strings.NewReader(doc))
		assert.Nil(err)
		assert.Equal(1, pm.RemovedParts())
	})
}

func TestStaff(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("1", staff(model.VoiceOne, 2))
	assert.Equal("2", staff(model.VoiceTwo, 2))
	assert.Equal("1", staff(model.VoiceTwo, 4))
	assert.Equal("2", staff(model.VoiceThree, 4))
}
