package model

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Beats is the numerator of a time signature.
type Beats uint8

const (
	BeatsTwo Beats = iota
	BeatsThree
	BeatsFour
	BeatsFive
	BeatsSix
	BeatsNine
	BeatsTwelve
	beatsCount
)

var beatsValues = [beatsCount]uint32{2, 3, 4, 5, 6, 9, 12}

func BeatsFromNumeric(v uint8) (Beats, error) {
	return fromNumeric[Beats](v, int(beatsCount), "beats")
}

// ParseBeats reads a MusicXML <beats> value.
func ParseBeats(s string) (Beats, error) {
	n, err := strconv.Atoi(s)
	if err == nil {
		for i, v := range beatsValues {
			if int(v) == n {
				return Beats(i), nil
			}
		}
	}
	return BeatsFour, errors.Wrapf(ErrParse, "beats %q", s)
}

func (b Beats) Numeric() uint8 { return uint8(b) }
func (b Beats) Value() uint32  { return beatsValues[b] }
func (b Beats) String() string { return strconv.Itoa(int(b.Value())) }

// BeatType is the denominator of a time signature.
type BeatType uint8

const (
	BeatTypeTwo BeatType = iota
	BeatTypeFour
	BeatTypeEight
	BeatTypeSixteen
	beatTypeCount
)

var beatTypeValues = [beatTypeCount]uint32{2, 4, 8, 16}

func BeatTypeFromNumeric(v uint8) (BeatType, error) {
	return fromNumeric[BeatType](v, int(beatTypeCount), "beat type")
}

// ParseBeatType reads a MusicXML <beat-type> value.
func ParseBeatType(s string) (BeatType, error) {
	n, err := strconv.Atoi(s)
	if err == nil {
		for i, v := range beatTypeValues {
			if int(v) == n {
				return BeatType(i), nil
			}
		}
	}
	return BeatTypeFour, errors.Wrapf(ErrParse, "beat type %q", s)
}

func (b BeatType) Numeric() uint8 { return uint8(b) }
func (b BeatType) Value() uint32  { return beatTypeValues[b] }
func (b BeatType) String() string { return strconv.Itoa(int(b.Value())) }

// KeySignature names a major key and its relative minor. The numbering
// follows the circle of fifths from C with the flat keys at the end.
type KeySignature uint8

const (
	CMajorAminor KeySignature = iota
	GMajorEminor
	DMajorBminor
	AMajorFSharpminor
	EMajorCSharpminor
	BMajorGSharpminor
	GbMajorEbminor
	DbMajorBbminor
	AbMajorFminor
	EbMajorCminor
	BbMajorGminor
	FMajorDminor
	keySignatureCount
)

var keySignatureFifths = [keySignatureCount]int{0, 1, 2, 3, 4, 5, 6, -5, -4, -3, -2, -1}

func KeySignatureFromNumeric(v uint8) (KeySignature, error) {
	return fromNumeric[KeySignature](v, int(keySignatureCount), "key signature")
}

// KeySignatureFromFifths maps a MusicXML <fifths> count onto the twelve
// representable keys. Enharmonic keys beyond six accidentals fold onto
// their equivalents.
func KeySignatureFromFifths(fifths int) (KeySignature, error) {
	switch {
	case fifths == -7:
		return BMajorGSharpminor, nil
	case fifths == -6:
		return GbMajorEbminor, nil
	case fifths == 7:
		return DbMajorBbminor, nil
	case fifths >= 0 && fifths <= 6:
		return KeySignature(fifths), nil
	case fifths < 0 && fifths >= -5:
		return KeySignature(12 + fifths), nil
	}
	return CMajorAminor, errors.Wrapf(ErrParse, "fifths %d", fifths)
}

// ParseKeySignature reads a MusicXML <fifths> value.
func ParseKeySignature(s string) (KeySignature, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return CMajorAminor, errors.Wrapf(ErrParse, "fifths %q", s)
	}
	return KeySignatureFromFifths(n)
}

func (k KeySignature) Numeric() uint8 { return uint8(k) }
func (k KeySignature) Fifths() int    { return keySignatureFifths[k] }
func (k KeySignature) String() string { return strconv.Itoa(k.Fifths()) }

// MeasureStartEnd says which side of a measure a meta record brackets.
type MeasureStartEnd uint8

const (
	MeasureStart MeasureStartEnd = iota
	MeasureEnd
	RepeatStart
	RepeatEnd
	measureStartEndCount
)

func MeasureStartEndFromNumeric(v uint8) (MeasureStartEnd, error) {
	return fromNumeric[MeasureStartEnd](v, int(measureStartEndCount), "measure start/end")
}

func (m MeasureStartEnd) Numeric() uint8 { return uint8(m) }

// IsStart is true for both MeasureStart and RepeatStart.
func (m MeasureStartEnd) IsStart() bool { return m == MeasureStart || m == RepeatStart }

func (m MeasureStartEnd) String() string {
	return [...]string{"MeasureStart", "MeasureEnd", "RepeatStart", "RepeatEnd"}[m]
}

// Ending is a volta number attached to a measure boundary.
type Ending uint8

const (
	EndingNone Ending = iota
	EndingOne
	EndingTwo
	EndingThree
	endingCount
)

func EndingFromNumeric(v uint8) (Ending, error) {
	return fromNumeric[Ending](v, int(endingCount), "ending")
}

// ParseEnding reads the number attribute of a MusicXML <ending>. Lists
// such as "1, 2" use their first number.
func ParseEnding(s string) (Ending, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) > 0 {
		switch fields[0] {
		case "1":
			return EndingOne, nil
		case "2":
			return EndingTwo, nil
		case "3":
			return EndingThree, nil
		}
	}
	return EndingNone, errors.Wrapf(ErrParse, "ending %q", s)
}

func (e Ending) Numeric() uint8 { return uint8(e) }
func (e Ending) String() string  { return strconv.Itoa(int(e)) }

// DalSegno is a repeat-navigation marker.
type DalSegno uint8

const (
	DalSegnoNone DalSegno = iota
	SegnoMarker
	CodaMarker
	DaSegno
	DaCapo
	DaCapoAlSegno
	DaCapoAlCoda
	DaCapoAlFine
	dalSegnoCount
)

func DalSegnoFromNumeric(v uint8) (DalSegno, error) {
	return fromNumeric[DalSegno](v, int(dalSegnoCount), "dal segno")
}

func (d DalSegno) Numeric() uint8 { return uint8(d) }

// Words is the text a score prints for a navigation instruction.
func (d DalSegno) Words() string {
	return [...]string{"", "Segno", "Coda", "D.S.", "D.C.", "D.C. al Segno", "D.C. al Coda", "D.C. al Fine"}[d]
}

// DalSegnoFromWords recognizes the printed navigation instructions
// produced by Words.
func DalSegnoFromWords(s string) (DalSegno, bool) {
	for i := DaSegno; i < dalSegnoCount; i++ {
		if i.Words() == s {
			return i, true
		}
	}
	return DalSegnoNone, false
}
