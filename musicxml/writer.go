package musicxml

import (
	"encoding/xml"
	"io"
	"strconv"

	"github.com/jsphweid/musicbin/duration"
	"github.com/jsphweid/musicbin/model"
	"github.com/jsphweid/musicbin/part"
	"github.com/pkg/errors"
)

const doctype = `<!DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 4.0 Partwise//EN" "http://www.musicxml.org/dtds/partwise.dtd">` + "\n"

const Software = "musicbin"

// Write emits the parts of pm with content as a score-partwise document.
func Write(w io.Writer, pm *part.Map) error {
	score, err := ToScore(pm)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, xml.Header+doctype); err != nil {
		return errors.WithStack(err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(score); err != nil {
		return errors.Wrap(err, "could not write musicxml")
	}
	_, err = io.WriteString(w, "\n")
	return errors.WithStack(err)
}

func ToScore(pm *part.Map) (*ScorePartwise, error) {
	score := &ScorePartwise{
		Version:        "4.0",
		Work:           &Work{Title: "Untitled"},
		Identification: &Identification{Encoding: Encoding{Software: Software}},
	}
	for _, id := range pm.Keys() {
		mp, ok := pm.Part(id)
		if !ok {
			continue
		}
		measures, err := writePart(mp)
		if err != nil {
			return nil, errors.Wrapf(err, "part %v", id)
		}
		score.PartList.ScoreParts = append(score.PartList.ScoreParts, ScorePart{ID: id, PartName: id})
		score.Parts = append(score.Parts, Part{ID: id, Measures: measures})
	}
	return score, nil
}

type partWriter struct {
	divisions uint32
	numVoices int
	init      model.MeasureInitializer

	measures []Measure
	cur      *Measure
	pending  []MeasureItem

	tm           *model.TimeModification
	tupletStarts []Tuplet
	lastNote     *Note
	voice        model.Voice
	tally        uint32
}

func writePart(mp *part.MusicalPart) ([]Measure, error) {
	pw := &partWriter{
		divisions: mp.Divisions(),
		numVoices: mp.NumVoices(),
		init:      model.NewMeasureInitializer(),
	}
	for i, el := range mp.Elements() {
		var err error
		switch e := el.(type) {
		case model.MeasureInitializer:
			pw.initializer(e)
		case model.MeasureMetaData:
			err = pw.meta(e)
		case model.NoteData:
			err = pw.note(e)
		case model.TupletData:
			pw.tuplet(e)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
	}
	if pw.cur != nil {
		return nil, errors.New("measure left open")
	}
	return pw.measures, nil
}

// staff puts the first voice (or two of four) on the upper staff.
func staff(v model.Voice, numVoices int) string {
	if numVoices < 3 {
		if v == model.VoiceOne {
			return "1"
		}
		return "2"
	}
	if v == model.VoiceOne || v == model.VoiceTwo {
		return "1"
	}
	return "2"
}

func (pw *partWriter) add(item MeasureItem) {
	if pw.cur == nil {
		pw.pending = append(pw.pending, item)
		return
	}
	pw.cur.Items = append(pw.cur.Items, item)
}

func (pw *partWriter) initializer(e model.MeasureInitializer) {
	pw.init = e
	pw.add(&Attributes{
		Divisions: strconv.Itoa(int(pw.divisions)),
		Key:       &Key{Fifths: e.KeySignature.String()},
		Time:      &Time{Beats: e.Beats.String(), BeatType: e.BeatType.String()},
		Staves:    "2",
		Clefs: []Clef{
			{Number: "1", Sign: "G", Line: "2"},
			{Number: "2", Sign: "F", Line: "4"},
		},
	})
	pw.add(&Direction{
		Placement:      "above",
		DirectionTypes: []DirectionType{{Words: e.Tempo.DescriptiveTempo()}},
		Staff:          "1",
		Sound:          &Sound{Tempo: strconv.Itoa(e.Tempo.Actual())},
	})
}

func (pw *partWriter) meta(e model.MeasureMetaData) error {
	if e.StartEnd.IsStart() {
		if pw.cur != nil {
			return errors.New("measure opened twice")
		}
		pw.cur = &Measure{Number: strconv.Itoa(len(pw.measures) + 1), Items: pw.pending}
		pw.pending = nil
		pw.voice, pw.tally, pw.lastNote = model.VoiceOne, 0, nil

		if e.StartEnd == model.RepeatStart || e.Ending != model.EndingNone {
			b := &Barline{Location: "left"}
			if e.StartEnd == model.RepeatStart {
				b.Repeat = &Repeat{Direction: "forward"}
			}
			if e.Ending != model.EndingNone {
				b.Ending = &Ending{Number: e.Ending.String(), Type: "start"}
			}
			pw.add(b)
		}
		switch e.DalSegno {
		case model.SegnoMarker:
			pw.add(&Direction{Placement: "above", DirectionTypes: []DirectionType{{Segno: &Empty{}}}, Sound: &Sound{Segno: "segno"}})
		case model.CodaMarker:
			pw.add(&Direction{Placement: "above", DirectionTypes: []DirectionType{{Coda: &Empty{}}}, Sound: &Sound{Coda: "coda"}})
		}
		return nil
	}

	if pw.cur == nil {
		return errors.New("measure closed before it was opened")
	}
	if e.DalSegno >= model.DaSegno {
		sound := &Sound{}
		if e.DalSegno == model.DaSegno {
			sound.DalSegno = "segno"
		} else {
			sound.DaCapo = "yes"
		}
		pw.add(&Direction{Placement: "above", DirectionTypes: []DirectionType{{Words: e.DalSegno.Words()}}, Sound: sound})
	}
	if e.StartEnd == model.RepeatEnd || e.Ending != model.EndingNone {
		b := &Barline{Location: "right"}
		if e.Ending != model.EndingNone {
			b.Ending = &Ending{Number: e.Ending.String(), Type: "stop"}
		}
		if e.StartEnd == model.RepeatEnd {
			b.Repeat = &Repeat{Direction: "backward"}
		}
		pw.add(b)
	}
	pw.measures = append(pw.measures, *pw.cur)
	pw.cur = nil
	return nil
}

func (pw *partWriter) tuplet(e model.TupletData) {
	pw.tm = e.TimeModification()
	t := Tuplet{Type: "start", Number: strconv.Itoa(e.TupletNumber.Value())}
	if e.StartStop == model.TupletStart {
		pw.tupletStarts = append(pw.tupletStarts, t)
		return
	}
	t.Type = "stop"
	if pw.lastNote != nil {
		notationsOf(pw.lastNote).Tuplets = append(notationsOf(pw.lastNote).Tuplets, t)
	}
}

func notationsOf(n *Note) *Notations {
	if n.Notations == nil {
		n.Notations = &Notations{}
	}
	return n.Notations
}

func (pw *partWriter) note(e model.NoteData) error {
	if pw.cur == nil {
		return errors.New("note outside of a measure")
	}
	staffNum := staff(e.Voice, pw.numVoices)

	if e.Voice != pw.voice && !e.IsChord() {
		if pw.tally > 0 {
			pw.add(&Backup{Duration: strconv.Itoa(int(pw.tally))})
		}
		pw.voice, pw.tally = e.Voice, 0
	}
	if e.PhraseDynamics != model.PhraseDynamicsNone {
		pw.add(&Direction{
			Placement:      "below",
			DirectionTypes: []DirectionType{{Dynamics: &Dynamics{Marks: []Mark{NewMark(e.PhraseDynamics.String())}}}},
			Staff:          staffNum,
		})
	}

	n := &Note{
		Voice: strconv.Itoa(int(e.Voice) + 1),
		Type:  e.NoteType.String(),
		Staff: staffNum,
	}
	switch e.SpecialNote {
	case model.Acciaccatura:
		n.Grace = &Grace{Slash: "yes"}
	case model.Appoggiatura:
		n.Grace = &Grace{Slash: "no"}
	}
	if e.IsChord() {
		n.Chord = &Empty{}
	}
	if e.NoteRest.IsRest() {
		n.Rest = &Rest{}
		if e.NoteType == model.SemiBreve {
			n.Rest.Measure = "yes"
		}
	} else {
		step, alter, octave := e.NoteRest.Step()
		n.Pitch = &Pitch{Step: step, Octave: strconv.Itoa(octave)}
		if alter != 0 {
			n.Pitch.Alter = strconv.Itoa(alter)
		}
	}
	if !e.SpecialNote.IsGrace() {
		timed := e
		timed.SpecialNote = model.SpecialNoteNone
		d := duration.Ticks(timed, pw.divisions, pw.init.Beats.Value(), pw.init.BeatType.Value(), pw.tm)
		n.Duration = strconv.Itoa(int(d))
		if !e.IsChord() {
			pw.tally += d
		}
	}
	if e.Dotted {
		n.Dots = []Empty{{}}
	}
	if pw.tm != nil {
		n.TimeModification = &TimeModification{
			ActualNotes: strconv.Itoa(int(pw.tm.Actual.Value())),
			NormalNotes: strconv.Itoa(int(pw.tm.Normal.Value())),
		}
	}
	writeNotations(n, e)
	if len(pw.tupletStarts) > 0 {
		notationsOf(n).Tuplets = append(notationsOf(n).Tuplets, pw.tupletStarts...)
		pw.tupletStarts = nil
	}

	pw.add(n)
	pw.lastNote = n
	return nil
}

func writeNotations(n *Note, e model.NoteData) {
	switch e.Ties {
	case model.StartTie:
		notationsOf(n).Tied = []Tied{{Type: "start"}}
	case model.EndTie:
		notationsOf(n).Tied = []Tied{{Type: "stop"}}
	}
	switch e.Slur {
	case model.StartSlur:
		notationsOf(n).Slurs = []Slur{{Type: "start", Number: "1"}}
	case model.EndSlur:
		notationsOf(n).Slurs = []Slur{{Type: "stop", Number: "1"}}
	}
	if e.Trill != model.TrillNone {
		o := &Ornaments{TrillMark: &Empty{}}
		if e.Trill == model.Chromatic {
			o.AccidentalMark = "sharp"
		}
		notationsOf(n).Ornaments = o
	}
	if e.Articulation != model.ArticulationNone {
		notationsOf(n).Articulations = &Articulations{Marks: []Mark{NewMark(e.Articulation.String())}}
	}
	if e.SpecialNote == model.Fermata {
		notationsOf(n).Fermata = &Empty{}
	}
	if e.Arpeggiate == model.ArpeggiateUp {
		notationsOf(n).Arpeggiate = &Empty{}
	}
}
