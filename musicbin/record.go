package musicbin

import (
	"github.com/jsphweid/musicbin/model"
	"github.com/pkg/errors"
)

type packer struct {
	layout []bitRange
	word   uint32
	err    error
}

func newPacker(l []bitRange, tag model.Tag) *packer {
	return &packer{layout: l, word: tagField.set(0, uint8(tag))}
}

// put validates v against its enumeration before packing it.
func put[T ~uint8](p *packer, field int, v T, from func(uint8) (T, error)) {
	if p.err != nil {
		return
	}
	if _, err := from(uint8(v)); err != nil {
		p.err = err
		return
	}
	p.word = p.layout[field].set(p.word, uint8(v))
}

func (p *packer) putBool(field int, v bool) {
	if v {
		p.word = p.layout[field].set(p.word, 1)
	}
}

type unpacker struct {
	layout []bitRange
	word   uint32
	err    error
}

func get[T ~uint8](u *unpacker, field int, from func(uint8) (T, error)) T {
	if u.err != nil {
		return 0
	}
	v, err := from(u.layout[field].get(u.word))
	if err != nil {
		u.err = err
	}
	return v
}

func (u *unpacker) getBool(field int) bool {
	return u.layout[field].get(u.word) != 0
}

// EncodeElement packs one element into its 32-bit record. Values outside
// their enumeration fail with model.ErrUnknownTag.
func EncodeElement(el model.MusicElement) (uint32, error) {
	var p *packer
	switch e := el.(type) {
	case model.MeasureInitializer:
		p = newPacker(initLayout, model.TagMeasureInitializer)
		put(p, initBeats, e.Beats, model.BeatsFromNumeric)
		put(p, initBeatType, e.BeatType, model.BeatTypeFromNumeric)
		put(p, initKeySignature, e.KeySignature, model.KeySignatureFromNumeric)
		put(p, initTempo, e.Tempo, tempoFromNumeric)
	case model.MeasureMetaData:
		p = newPacker(metaLayout, model.TagMeasureMetaData)
		put(p, metaStartEnd, e.StartEnd, model.MeasureStartEndFromNumeric)
		put(p, metaEnding, e.Ending, model.EndingFromNumeric)
		put(p, metaDalSegno, e.DalSegno, model.DalSegnoFromNumeric)
	case model.NoteData:
		p = newPacker(noteLayout, model.TagNoteData)
		put(p, notePitch, e.NoteRest, model.PitchRestFromNumeric)
		put(p, notePhraseDynamics, e.PhraseDynamics, model.PhraseDynamicsFromNumeric)
		put(p, noteRhythm, e.NoteType, model.RhythmTypeFromNumeric)
		p.putBool(noteDotted, e.Dotted)
		put(p, noteArpeggiate, e.Arpeggiate, model.ArpeggiateFromNumeric)
		put(p, noteSpecial, e.SpecialNote, model.SpecialNoteFromNumeric)
		put(p, noteArticulation, e.Articulation, model.ArticulationFromNumeric)
		put(p, noteTrill, e.Trill, model.TrillFromNumeric)
		put(p, noteTies, e.Ties, model.NoteConnectionFromNumeric)
		put(p, noteChord, e.Chord, model.ChordFromNumeric)
		put(p, noteSlur, e.Slur, model.SlurConnectionFromNumeric)
		put(p, noteVoice, e.Voice, model.VoiceFromNumeric)
	case model.TupletData:
		p = newPacker(tupletLayout, model.TagTuplet)
		put(p, tupletStartStop, e.StartStop, model.TupletStartStopFromNumeric)
		put(p, tupletNumber, e.TupletNumber, model.TupletNumberFromNumeric)
		put(p, tupletActual, e.ActualNotes, model.TupletActualFromNumeric)
		put(p, tupletNormal, e.NormalNotes, model.TupletNormalFromNumeric)
		p.putBool(tupletDotted, e.Dotted)
	default:
		return 0, errors.Wrapf(model.ErrUnknownTag, "element %T", el)
	}
	return p.word, p.err
}

// DecodeElement unpacks one 32-bit record. Reserved bits are ignored.
func DecodeElement(word uint32) (model.MusicElement, error) {
	var el model.MusicElement
	var u *unpacker
	switch model.Tag(tagField.get(word)) {
	case model.TagMeasureInitializer:
		u = &unpacker{layout: initLayout, word: word}
		el = model.MeasureInitializer{
			Beats:        get(u, initBeats, model.BeatsFromNumeric),
			BeatType:     get(u, initBeatType, model.BeatTypeFromNumeric),
			KeySignature: get(u, initKeySignature, model.KeySignatureFromNumeric),
			Tempo:        get(u, initTempo, tempoFromNumeric),
		}
	case model.TagMeasureMetaData:
		u = &unpacker{layout: metaLayout, word: word}
		el = model.MeasureMetaData{
			StartEnd: get(u, metaStartEnd, model.MeasureStartEndFromNumeric),
			Ending:   get(u, metaEnding, model.EndingFromNumeric),
			DalSegno: get(u, metaDalSegno, model.DalSegnoFromNumeric),
		}
	case model.TagNoteData:
		u = &unpacker{layout: noteLayout, word: word}
		el = model.NoteData{
			NoteRest:       get(u, notePitch, model.PitchRestFromNumeric),
			PhraseDynamics: get(u, notePhraseDynamics, model.PhraseDynamicsFromNumeric),
			NoteType:       get(u, noteRhythm, model.RhythmTypeFromNumeric),
			Dotted:         u.getBool(noteDotted),
			Arpeggiate:     get(u, noteArpeggiate, model.ArpeggiateFromNumeric),
			SpecialNote:    get(u, noteSpecial, model.SpecialNoteFromNumeric),
			Articulation:   get(u, noteArticulation, model.ArticulationFromNumeric),
			Trill:          get(u, noteTrill, model.TrillFromNumeric),
			Ties:           get(u, noteTies, model.NoteConnectionFromNumeric),
			Chord:          get(u, noteChord, model.ChordFromNumeric),
			Slur:           get(u, noteSlur, model.SlurConnectionFromNumeric),
			Voice:          get(u, noteVoice, model.VoiceFromNumeric),
		}
	case model.TagTuplet:
		u = &unpacker{layout: tupletLayout, word: word}
		el = model.TupletData{
			StartStop:    get(u, tupletStartStop, model.TupletStartStopFromNumeric),
			TupletNumber: get(u, tupletNumber, model.TupletNumberFromNumeric),
			ActualNotes:  get(u, tupletActual, model.TupletActualFromNumeric),
			NormalNotes:  get(u, tupletNormal, model.TupletNormalFromNumeric),
			Dotted:       u.getBool(tupletDotted),
		}
	}
	if u.err != nil {
		return nil, errors.Wrapf(u.err, "record %08x", word)
	}
	return el, nil
}

// Every 7-bit value is a legal tempo.
func tempoFromNumeric(v uint8) (model.Tempo, error) {
	if v > 127 {
		return 0, errors.Wrapf(model.ErrUnknownTag, "tempo value %d out of range", v)
	}
	return model.NewTempoFromRaw(v), nil
}
