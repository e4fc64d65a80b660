package model

import "fmt"

// Tag is the 2-bit record id that selects an element's layout.
type Tag uint8

const (
	TagMeasureInitializer Tag = iota
	TagMeasureMetaData
	TagNoteData
	TagTuplet
)

func (t Tag) String() string {
	return [...]string{"MeasureInitializer", "MeasureMetaData", "NoteData", "Tuplet"}[t&3]
}

// MusicElement is one record of a part: a MeasureInitializer,
// MeasureMetaData, NoteData or TupletData value.
type MusicElement interface {
	Tag() Tag
}

// MeasureInitializer changes the time signature, key or tempo.
type MeasureInitializer struct {
	Beats        Beats
	BeatType     BeatType
	KeySignature KeySignature
	Tempo        Tempo
}

func NewMeasureInitializer() MeasureInitializer {
	return MeasureInitializer{
		Beats:    BeatsFour,
		BeatType: BeatTypeFour,
		Tempo:    DefaultTempoValue(),
	}
}

func (MeasureInitializer) Tag() Tag { return TagMeasureInitializer }

func (m MeasureInitializer) String() string {
	return fmt.Sprintf("MeasureInit{%v/%v key=%v tempo=%v}", m.Beats, m.BeatType, m.KeySignature, m.Tempo.Actual())
}

// MeasureMetaData opens or closes a measure.
type MeasureMetaData struct {
	StartEnd MeasureStartEnd
	Ending   Ending
	DalSegno DalSegno
}

func NewMeasureMetaData(startEnd MeasureStartEnd) MeasureMetaData {
	return MeasureMetaData{StartEnd: startEnd}
}

func (MeasureMetaData) Tag() Tag { return TagMeasureMetaData }

func (m MeasureMetaData) String() string {
	return fmt.Sprintf("MeasureMeta{%v ending=%v dalsegno=%d}", m.StartEnd, m.Ending, m.DalSegno)
}

// NoteData is a pitched note or a rest.
type NoteData struct {
	NoteRest       PitchRest
	PhraseDynamics PhraseDynamics
	NoteType       RhythmType
	Dotted         bool
	Arpeggiate     Arpeggiate
	SpecialNote    SpecialNote
	Articulation   Articulation
	Trill          Trill
	Ties           NoteConnection
	Chord          Chord
	Slur           SlurConnection
	Voice          Voice
}

// NewDefaultRest is an otherwise unadorned rest.
func NewDefaultRest(rhythm RhythmType, dotted bool, voice Voice) NoteData {
	return NoteData{NoteRest: Rest, NoteType: rhythm, Dotted: dotted, Voice: voice}
}

func (NoteData) Tag() Tag { return TagNoteData }

// IsChord is true when the note shares its onset with the previous note.
func (n NoteData) IsChord() bool { return n.Chord == IsChord }

func (n NoteData) String() string {
	dot := ""
	if n.Dotted {
		dot = "."
	}
	return fmt.Sprintf("Note{%v %v%s voice=%d chord=%d}", n.NoteRest, n.NoteType, dot, n.Voice, n.Chord)
}

// TupletData marks the start or end of a tuplet.
type TupletData struct {
	StartStop    TupletStartStop
	TupletNumber TupletNumber
	ActualNotes  TupletActual
	NormalNotes  TupletNormal
	Dotted       bool
}

func (TupletData) Tag() Tag { return TagTuplet }

// TimeModification is the ratio a TupletStart activates. Any other
// marker yields nil, which ends the active ratio.
func (t TupletData) TimeModification() *TimeModification {
	if t.StartStop != TupletStart {
		return nil
	}
	return &TimeModification{Actual: t.ActualNotes, Normal: t.NormalNotes}
}

func (t TupletData) String() string {
	kind := "stop"
	if t.StartStop == TupletStart {
		kind = "start"
	}
	return fmt.Sprintf("Tuplet{%s #%d %d:%d}", kind, t.TupletNumber.Value(), t.ActualNotes.Value(), t.NormalNotes.Value())
}
