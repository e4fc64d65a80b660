package model

import (
	"github.com/pkg/errors"
)

// PhraseDynamics is a dynamic marking that applies from its note onwards.
type PhraseDynamics uint8

const (
	PhraseDynamicsNone PhraseDynamics = iota
	Sforzando
	Fortepiano
	Crescendo
	Diminuendo
	Niente
	Rinforzando
	Pianissississimo
	Pianississimo
	Pianissimo
	Piano
	MezzoPiano
	MezzoForte
	Forte
	Fortissimo
	Fortississimo
	phraseDynamicsCount
)

// MusicXML element names inside <dynamics>, by PhraseDynamics value.
var phraseDynamicsNames = [phraseDynamicsCount]string{
	"", "sfz", "fp", "cresc", "dim", "n", "rf",
	"pppp", "ppp", "pp", "p", "mp", "mf", "f", "ff", "fff",
}

func PhraseDynamicsFromNumeric(v uint8) (PhraseDynamics, error) {
	return fromNumeric[PhraseDynamics](v, int(phraseDynamicsCount), "phrase dynamics")
}

// ParsePhraseDynamics reads the name of a MusicXML dynamics element.
func ParsePhraseDynamics(s string) (PhraseDynamics, error) {
	for i := Sforzando; i < phraseDynamicsCount; i++ {
		if phraseDynamicsNames[i] == s {
			return i, nil
		}
	}
	return PhraseDynamicsNone, errors.Wrapf(ErrParse, "dynamics %q", s)
}

func (p PhraseDynamics) Numeric() uint8 { return uint8(p) }
func (p PhraseDynamics) String() string { return phraseDynamicsNames[p] }

// Velocity is the MIDI velocity used when playing notes at this dynamic.
func (p PhraseDynamics) Velocity() uint8 {
	switch p {
	case Pianissississimo:
		return 8
	case Pianississimo:
		return 20
	case Pianissimo:
		return 33
	case Piano:
		return 49
	case MezzoPiano:
		return 64
	case Forte, Sforzando, Rinforzando, Fortepiano:
		return 96
	case Fortissimo:
		return 112
	case Fortississimo:
		return 127
	}
	return 80
}

// RhythmType is the notated length of a note, from a 128th up to a whole.
type RhythmType uint8

const (
	SemiHemiDemiSemiQuaver RhythmType = iota
	HemiDemiSemiQuaver
	DemiSemiQuaver
	SemiQuaver
	Quaver
	Crochet
	Minim
	SemiBreve
	rhythmTypeCount
)

var rhythmTypeNames = [rhythmTypeCount]string{
	"128th", "64th", "32nd", "16th", "eighth", "quarter", "half", "whole",
}

func RhythmTypeFromNumeric(v uint8) (RhythmType, error) {
	return fromNumeric[RhythmType](v, int(rhythmTypeCount), "rhythm type")
}

// ParseRhythmType reads a MusicXML <type> value. Breves are stored as
// whole notes.
func ParseRhythmType(s string) (RhythmType, error) {
	if s == "breve" {
		return SemiBreve, nil
	}
	for i, name := range rhythmTypeNames {
		if name == s {
			return RhythmType(i), nil
		}
	}
	return Crochet, errors.Wrapf(ErrParse, "note type %q", s)
}

func (r RhythmType) Numeric() uint8 { return uint8(r) }
func (r RhythmType) String() string { return rhythmTypeNames[r] }

// Arpeggiate marks a chord rolled from bottom to top.
type Arpeggiate uint8

const (
	NoArpeggiation Arpeggiate = iota
	ArpeggiateUp
	arpeggiateCount
)

func ArpeggiateFromNumeric(v uint8) (Arpeggiate, error) {
	return fromNumeric[Arpeggiate](v, int(arpeggiateCount), "arpeggiate")
}

func (a Arpeggiate) Numeric() uint8 { return uint8(a) }

// SpecialNote covers notes that do not take up time in their voice.
type SpecialNote uint8

const (
	SpecialNoteNone SpecialNote = iota
	Acciaccatura
	Appoggiatura
	Fermata
	specialNoteCount
)

func SpecialNoteFromNumeric(v uint8) (SpecialNote, error) {
	return fromNumeric[SpecialNote](v, int(specialNoteCount), "special note")
}

func (s SpecialNote) Numeric() uint8 { return uint8(s) }

// IsGrace is true for acciaccaturas and appoggiaturas.
func (s SpecialNote) IsGrace() bool { return s == Acciaccatura || s == Appoggiatura }

// Articulation is a single articulation mark on a note.
type Articulation uint8

const (
	ArticulationNone Articulation = iota
	Accent
	Marcato
	Staccato
	Staccatissimo
	Tenuto
	DetachedLegato
	Stress
	articulationCount
)

var articulationNames = [articulationCount]string{
	"", "accent", "strong-accent", "staccato", "staccatissimo", "tenuto", "detached-legato", "stress",
}

func ArticulationFromNumeric(v uint8) (Articulation, error) {
	return fromNumeric[Articulation](v, int(articulationCount), "articulation")
}

// ParseArticulation reads the name of an element inside <articulations>.
func ParseArticulation(s string) (Articulation, error) {
	for i := Accent; i < articulationCount; i++ {
		if articulationNames[i] == s {
			return i, nil
		}
	}
	return ArticulationNone, errors.Wrapf(ErrParse, "articulation %q", s)
}

func (a Articulation) Numeric() uint8 { return uint8(a) }
func (a Articulation) String() string { return articulationNames[a] }

type Trill uint8

const (
	TrillNone Trill = iota
	Diatonic
	Chromatic
	trillCount
)

func TrillFromNumeric(v uint8) (Trill, error) {
	return fromNumeric[Trill](v, int(trillCount), "trill")
}

func (t Trill) Numeric() uint8 { return uint8(t) }

// NoteConnection is the tie state of a note.
type NoteConnection uint8

const (
	NoTie NoteConnection = iota
	StartTie
	EndTie
	noteConnectionCount
)

func NoteConnectionFromNumeric(v uint8) (NoteConnection, error) {
	return fromNumeric[NoteConnection](v, int(noteConnectionCount), "tie")
}

func (n NoteConnection) Numeric() uint8 { return uint8(n) }

// Chord marks a note that sounds together with the note before it.
type Chord uint8

const (
	NoChord Chord = iota
	IsChord
	chordCount
)

func ChordFromNumeric(v uint8) (Chord, error) {
	return fromNumeric[Chord](v, int(chordCount), "chord")
}

func (c Chord) Numeric() uint8 { return uint8(c) }

type SlurConnection uint8

const (
	NoSlur SlurConnection = iota
	StartSlur
	EndSlur
	slurConnectionCount
)

func SlurConnectionFromNumeric(v uint8) (SlurConnection, error) {
	return fromNumeric[SlurConnection](v, int(slurConnectionCount), "slur")
}

func (s SlurConnection) Numeric() uint8 { return uint8(s) }

// Voice is a zero-based voice index within a part.
type Voice uint8

const (
	VoiceOne Voice = iota
	VoiceTwo
	VoiceThree
	VoiceFour
	voiceCount
)

func VoiceFromNumeric(v uint8) (Voice, error) {
	return fromNumeric[Voice](v, int(voiceCount), "voice")
}

func (v Voice) Numeric() uint8 { return uint8(v) }

// Next rotates through the four voices.
func (v Voice) Next() Voice { return (v + 1) % voiceCount }
