// Package musicxml converts between score-partwise MusicXML and parts of
// MusicBin elements.
package musicxml

import (
	"encoding/xml"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jsphweid/musicbin/duration"
	"github.com/jsphweid/musicbin/logging"
	"github.com/jsphweid/musicbin/model"
	"github.com/jsphweid/musicbin/part"
	"github.com/pkg/errors"
)

// ErrUnsupported marks content MusicBin cannot carry. A part containing
// it is dropped from the score.
var ErrUnsupported = errors.New("unsupported musicxml")

const MaxParts = 4

// Read parses a score-partwise document.
func Read(r io.Reader) (*part.Map, error) {
	var score ScorePartwise
	if err := xml.NewDecoder(r).Decode(&score); err != nil {
		return nil, errors.Wrap(err, "could not parse musicxml")
	}
	return FromScore(&score)
}

// FromScore builds a part per <part>. Parts with unpitched notes, more
// than four voices or other unsupported content are removed, keeping
// their ids.
func FromScore(score *ScorePartwise) (*part.Map, error) {
	pm := part.NewMap()
	for _, sp := range score.PartList.ScoreParts {
		if err := pm.AddPartID(sp.ID); err != nil {
			return nil, err
		}
	}
	if len(score.Parts) > MaxParts {
		return nil, errors.Wrapf(ErrUnsupported, "%d parts", len(score.Parts))
	}

	for _, p := range score.Parts {
		mp, err := readPart(p)
		switch {
		case err == nil:
			if err := pm.PushPart(p.ID, mp); err != nil {
				return nil, err
			}
		case errors.Is(err, ErrUnsupported), errors.Is(err, model.ErrTooManyVoices):
			logging.Warnf("Skipping part %v because: %v", p.ID, err)
			pm.RemovePart(p.ID)
		default:
			return nil, errors.Wrapf(err, "part %v", p.ID)
		}
	}
	return pm, nil
}

type partReader struct {
	mp            *part.MusicalPart
	partDivisions uint32
	xmlDivisions  uint32
}

func readPart(p Part) (*part.MusicalPart, error) {
	rd := &partReader{mp: part.New(p.ID)}
	for idx, m := range p.Measures {
		if err := rd.measure(idx, m); err != nil {
			return nil, err
		}
	}
	return rd.mp, nil
}

func parseUint(s, what string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, errors.Wrapf(ErrUnsupported, "%s %q", what, s)
	}
	return uint32(v), nil
}

func parseInt(s, what string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Wrapf(ErrUnsupported, "%s %q", what, s)
	}
	return v, nil
}

// scale converts a duration in the current <divisions> to the part's
// first one.
func (rd *partReader) scale(d uint32) uint32 {
	if rd.xmlDivisions == 0 || rd.xmlDivisions == rd.partDivisions {
		return d
	}
	return d * rd.partDivisions / rd.xmlDivisions
}

func (rd *partReader) duration(s string) (uint32, error) {
	d, err := parseUint(s, "duration")
	if err != nil {
		return 0, err
	}
	return rd.scale(d), nil
}

// measure makes a first pass for the initializer and the measure's
// boundaries, then a second for its notes.
func (rd *partReader) measure(idx int, m Measure) error {
	init := rd.mp.CurInitMeasure()
	start := model.NewMeasureMetaData(model.MeasureStart)
	end := model.NewMeasureMetaData(model.MeasureEnd)
	var forward uint32
	forwardSeen := false

	for _, item := range m.Items {
		switch it := item.(type) {
		case *Attributes:
			if err := rd.attributes(it, &init); err != nil {
				return err
			}
		case *Direction:
			if it.Sound != nil && it.Sound.Tempo != "" {
				if bpm, err := strconv.ParseFloat(it.Sound.Tempo, 64); err == nil {
					init.Tempo = model.NewTempo(int(math.Round(bpm)))
				}
			}
			navigation(it, &start, &end)
		case *Barline:
			barline(it, &start, &end)
		case *Forward:
			if !forwardSeen {
				d, err := rd.duration(it.Duration)
				if err != nil {
					return err
				}
				forward, forwardSeen = d, true
			}
		}
	}
	if rd.partDivisions == 0 {
		return errors.Wrapf(ErrUnsupported, "part %v has no divisions", rd.mp.ID)
	}

	rd.mp.PushInitMeasure(init)
	if err := rd.mp.PushMetaStart(start, forward, idx); err != nil {
		return err
	}
	bodyErr := rd.body(m)
	endErr := rd.mp.PushMetaEnd(end)
	if bodyErr != nil {
		return bodyErr
	}
	return endErr
}

func (rd *partReader) attributes(a *Attributes, init *model.MeasureInitializer) error {
	if a.Divisions != "" {
		d, err := parseUint(a.Divisions, "divisions")
		if err != nil || d == 0 {
			return errors.Wrapf(ErrUnsupported, "divisions %q", a.Divisions)
		}
		if rd.partDivisions == 0 {
			rd.partDivisions = d
			rd.mp.SetInitialDivisions(d)
		}
		rd.xmlDivisions = d
	}
	if a.Time != nil {
		beats, err := model.ParseBeats(a.Time.Beats)
		if err != nil {
			return errors.Wrap(ErrUnsupported, err.Error())
		}
		beatType, err := model.ParseBeatType(a.Time.BeatType)
		if err != nil {
			return errors.Wrap(ErrUnsupported, err.Error())
		}
		init.Beats, init.BeatType = beats, beatType
	}
	if a.Key != nil {
		key, err := model.ParseKeySignature(a.Key.Fifths)
		if err != nil {
			return errors.Wrap(ErrUnsupported, err.Error())
		}
		init.KeySignature = key
	}
	return nil
}

func barline(b *Barline, start, end *model.MeasureMetaData) {
	if b.Repeat != nil {
		switch b.Repeat.Direction {
		case "forward":
			start.StartEnd = model.RepeatStart
		case "backward":
			end.StartEnd = model.RepeatEnd
		}
	}
	if b.Ending != nil {
		ending, err := model.ParseEnding(b.Ending.Number)
		if err != nil {
			logging.Debugf("Ignoring ending: %v", err)
			return
		}
		if b.Ending.Type == "start" {
			start.Ending = ending
		} else {
			end.Ending = ending
		}
	}
}

// navigation picks up segno and coda marks for the start of a measure
// and jumps for its end.
func navigation(d *Direction, start, end *model.MeasureMetaData) {
	for _, dt := range d.DirectionTypes {
		switch {
		case dt.Segno != nil:
			start.DalSegno = model.SegnoMarker
		case dt.Coda != nil:
			start.DalSegno = model.CodaMarker
		case dt.Words != "":
			if jump, ok := model.DalSegnoFromWords(strings.TrimSpace(dt.Words)); ok {
				end.DalSegno = jump
			}
		}
	}
	if s := d.Sound; s != nil && end.DalSegno == model.DalSegnoNone {
		switch {
		case s.DaCapo == "yes":
			end.DalSegno = model.DaCapo
		case s.DalSegno != "":
			end.DalSegno = model.DaSegno
		}
	}
}

func (rd *partReader) body(m Measure) error {
	for _, item := range m.Items {
		switch it := item.(type) {
		case *Note:
			if err := rd.note(it); err != nil {
				return err
			}
		case *Direction:
			rd.dynamics(it)
		case *Backup:
			d, err := rd.duration(it.Duration)
			if err != nil {
				return err
			}
			if err := rd.mp.UpdateBackupDuration(d); err != nil {
				return err
			}
		}
	}
	return nil
}

func (rd *partReader) dynamics(d *Direction) {
	for _, dt := range d.DirectionTypes {
		if dt.Dynamics == nil {
			continue
		}
		for _, mark := range dt.Dynamics.Marks {
			if dyn, err := model.ParsePhraseDynamics(mark.XMLName.Local); err == nil {
				rd.mp.SetDynamics(dyn)
				return
			}
		}
	}
}

func (rd *partReader) note(n *Note) error {
	if n.Unpitched != nil {
		return errors.Wrap(ErrUnsupported, "unpitched note")
	}
	voiceNum := uint32(1)
	if n.Voice != "" {
		v, err := parseUint(n.Voice, "voice")
		if err != nil {
			return err
		}
		voiceNum = v
	}
	if voiceNum > math.MaxUint8 {
		return errors.Wrapf(ErrUnsupported, "voice %v", voiceNum)
	}
	voice, err := rd.mp.InsertNewVoice(uint8(voiceNum))
	if err != nil {
		return err
	}

	nd := model.NoteData{Voice: voice, Dotted: len(n.Dots) > 0}
	if n.Grace != nil {
		nd.SpecialNote = model.Appoggiatura
		if n.Grace.Slash == "yes" {
			nd.SpecialNote = model.Acciaccatura
		}
	}
	if n.Chord != nil {
		nd.Chord = model.IsChord
	} else {
		nd.PhraseDynamics = rd.mp.TakeDynamics()
	}
	if n.Pitch != nil {
		pitch, err := readPitch(n.Pitch)
		if err != nil {
			return err
		}
		nd.NoteRest = pitch
	}

	var tm *model.TimeModification
	if n.TimeModification != nil {
		actual, err := parseUint(n.TimeModification.ActualNotes, "actual notes")
		if err != nil {
			return err
		}
		normal, err := parseUint(n.TimeModification.NormalNotes, "normal notes")
		if err != nil {
			return err
		}
		t, err := model.NewTimeModification(actual, normal)
		if err != nil {
			return errors.Wrap(ErrUnsupported, err.Error())
		}
		tm = &t
	}

	implied, err := rd.noteType(n, &nd)
	if err != nil {
		return err
	}
	if tm == nil {
		tm = implied
	}

	var starts, stops []model.MusicElement
	if nt := n.Notations; nt != nil {
		notations(nt, &nd)
		if len(nt.Tuplets) > 4 {
			return errors.Wrapf(ErrUnsupported, "%d tuplets on one note", len(nt.Tuplets))
		}
		for _, t := range nt.Tuplets {
			if implied != nil {
				break
			}
			td, err := tupletData(t, tm, n.TimeModification)
			if err != nil {
				return err
			}
			if td.StartStop == model.TupletStart {
				starts = append(starts, td)
			} else {
				stops = append(stops, td)
			}
		}
	}
	if implied != nil {
		start := model.TupletData{StartStop: model.TupletStart, ActualNotes: implied.Actual, NormalNotes: implied.Normal}
		stop := start
		stop.StartStop = model.TupletStop
		starts = append(starts, start)
		stops = append(stops, stop)
	}

	for _, el := range append(append(starts, nd), stops...) {
		if err := rd.mp.PushMeasureElem(el); err != nil {
			return err
		}
	}
	return nil
}

func readPitch(p *Pitch) (model.PitchRest, error) {
	alter, err := parseInt(p.Alter, "alter")
	if err != nil {
		return model.Rest, err
	}
	octave, err := parseInt(p.Octave, "octave")
	if err != nil {
		return model.Rest, err
	}
	pitch, err := model.PitchFromStep(p.Step, alter, octave)
	if err != nil {
		return model.Rest, errors.Wrap(ErrUnsupported, err.Error())
	}
	return pitch, nil
}

// noteType fills the rhythm type. Without a <type> it is derived from the
// duration, which may need a tuplet ratio the note does not declare.
func (rd *partReader) noteType(n *Note, nd *model.NoteData) (*model.TimeModification, error) {
	if n.Type != "" {
		r, err := model.ParseRhythmType(n.Type)
		if err != nil {
			return nil, errors.Wrap(ErrUnsupported, err.Error())
		}
		nd.NoteType = r
		return nil, nil
	}
	if n.Rest != nil && n.Rest.Measure == "yes" {
		nd.NoteType = model.SemiBreve
		return nil, nil
	}
	if n.Grace != nil {
		nd.NoteType = model.Quaver
		return nil, nil
	}
	d, err := rd.duration(n.Duration)
	if err != nil {
		return nil, err
	}
	v, ok := duration.FromTicks(d, rd.partDivisions)
	if !ok {
		return nil, errors.Wrapf(duration.ErrUnrepresentableDuration, "%d ticks at %d divisions", d, rd.partDivisions)
	}
	nd.NoteType, nd.Dotted = v.Rhythm, v.Dotted
	if n.TimeModification != nil {
		return nil, nil
	}
	return v.TimeModification, nil
}

func notations(nt *Notations, nd *model.NoteData) {
	if len(nt.Tied) > 0 {
		switch nt.Tied[0].Type {
		case "start":
			nd.Ties = model.StartTie
		case "stop":
			nd.Ties = model.EndTie
		}
	}
	if len(nt.Slurs) > 0 {
		switch nt.Slurs[0].Type {
		case "start":
			nd.Slur = model.StartSlur
		case "stop":
			nd.Slur = model.EndSlur
		}
	}
	if nt.Arpeggiate != nil {
		nd.Arpeggiate = model.ArpeggiateUp
	}
	if nt.Articulations != nil {
		for _, mark := range nt.Articulations.Marks {
			if a, err := model.ParseArticulation(mark.XMLName.Local); err == nil {
				nd.Articulation = a
				break
			}
		}
	}
	if o := nt.Ornaments; o != nil && o.TrillMark != nil {
		nd.Trill = model.Diatonic
		if o.AccidentalMark != "" {
			nd.Trill = model.Chromatic
		}
	}
}

func tupletData(t Tuplet, tm *model.TimeModification, xtm *TimeModification) (model.TupletData, error) {
	if tm == nil {
		return model.TupletData{}, errors.Wrap(ErrUnsupported, "tuplet without time modification")
	}
	number, err := model.ParseTupletNumber(t.Number)
	if err != nil {
		return model.TupletData{}, errors.Wrap(ErrUnsupported, err.Error())
	}
	td := model.TupletData{
		TupletNumber: number,
		ActualNotes:  tm.Actual,
		NormalNotes:  tm.Normal,
		Dotted:       xtm != nil && xtm.NormalDot != nil,
	}
	switch t.Type {
	case "start":
		td.StartStop = model.TupletStart
	case "stop":
		td.StartStop = model.TupletStop
	default:
		return model.TupletData{}, errors.Wrapf(ErrUnsupported, "tuplet type %q", t.Type)
	}
	return td, nil
}
