package duration

import (
	"math/big"

	"github.com/jsphweid/musicbin/model"
	"github.com/jsphweid/musicbin/util"
	"github.com/pkg/errors"
)

// ErrUnrepresentableDuration is returned when no rhythm type, dot and
// tuplet ratio reproduces a tick count.
var ErrUnrepresentableDuration = errors.New("unrepresentable duration")

// MIDIResolution is the ticks per quarter note of exported MIDI files.
const MIDIResolution = 960

// Value is a symbolic note length.
type Value struct {
	Rhythm           model.RhythmType
	Dotted           bool
	TimeModification *model.TimeModification
}

// Next folds one element into the active tuplet ratio. Tuplet markers
// replace it, anything else leaves it unchanged.
func Next(tm *model.TimeModification, el model.MusicElement) *model.TimeModification {
	if t, ok := el.(model.TupletData); ok {
		return t.TimeModification()
	}
	return tm
}

func ratio(dotted bool, tm *model.TimeModification) (num, den uint32) {
	num, den = 1, 1
	if dotted {
		num, den = 3, 2
	}
	if tm != nil {
		num *= tm.Normal.Value()
		den *= tm.Actual.Value()
	}
	return num, den
}

// Ticks is the length of a note at divisions ticks per quarter. A whole
// rest fills the measure of the given meter while a whole note is always
// four quarters. Grace notes and fermatas take no time.
func Ticks(n model.NoteData, divisions, beats, beatType uint32, tm *model.TimeModification) uint32 {
	if n.SpecialNote != model.SpecialNoteNone {
		return 0
	}
	num, den := ratio(n.Dotted, tm)
	switch n.NoteType {
	case model.SemiBreve:
		if n.NoteRest.IsRest() {
			return divisions * num * beats * 4 / beatType / den
		}
		return divisions * 4 * num / den
	case model.Minim:
		return divisions * 2 * num / den
	case model.Crochet:
		return divisions * num / den
	}
	shift := uint(model.Crochet - n.NoteType)
	return (divisions * num >> shift) / den
}

// MIDITicks is Ticks at MIDIResolution.
func MIDITicks(n model.NoteData, beats, beatType uint32, tm *model.TimeModification) uint32 {
	return Ticks(n, MIDIResolution, beats, beatType, tm)
}

// length is the exact length of a rhythm type in ticks, num/den.
type length struct {
	num, den uint64
}

func rhythmLength(r model.RhythmType, divisions uint32) length {
	if r >= model.Crochet {
		return length{num: uint64(divisions) << (r - model.Crochet), den: 1}
	}
	return length{num: uint64(divisions), den: 1 << (model.Crochet - r)}
}

// scaled reports whether ticks equals the length times mul/div.
func (l length) scaled(ticks, mul, div uint64) bool {
	return ticks*l.den*div == l.num*mul
}

func (l length) above(ticks uint64) bool { return l.num > ticks*l.den }
func (l length) below(ticks uint64) bool { return l.num < ticks*l.den }

// FromTicks finds the rhythm type, dot and tuplet ratio for a tick count.
// Plain and dotted values are preferred, searching outwards from the
// quarter note. Failing that, tuplet ratios are tried at the closest
// rhythm type first, plain before dotted, smallest normal first.
func FromTicks(ticks, divisions uint32) (Value, bool) {
	if ticks == 0 || divisions == 0 {
		return Value{}, false
	}
	t := uint64(ticks)
	rhythm := model.Crochet
	match := func() (Value, bool) {
		l := rhythmLength(rhythm, divisions)
		switch {
		case l.scaled(t, 3, 2):
			return Value{Rhythm: rhythm, Dotted: true}, true
		case l.scaled(t, 1, 1):
			return Value{Rhythm: rhythm}, true
		}
		return Value{}, false
	}

	if v, ok := match(); ok {
		return v, true
	}
	for rhythmLength(rhythm, divisions).above(t) && rhythm > model.SemiHemiDemiSemiQuaver {
		rhythm--
		if v, ok := match(); ok {
			return v, true
		}
	}
	for rhythmLength(rhythm, divisions).below(t) && rhythm < model.SemiBreve {
		rhythm++
		if v, ok := match(); ok {
			return v, true
		}
	}

	for _, r := range outwards(rhythm) {
		if v, ok := tupletFromTicks(t, r, divisions); ok {
			return v, true
		}
	}
	return Value{}, false
}

// outwards lists every rhythm type by distance from r, longer first on
// ties.
func outwards(r model.RhythmType) []model.RhythmType {
	res := []model.RhythmType{r}
	for d := model.RhythmType(1); d <= model.SemiBreve; d++ {
		if r+d <= model.SemiBreve {
			res = append(res, r+d)
		}
		if d <= r {
			res = append(res, r-d)
		}
	}
	return res
}

func tupletFromTicks(t uint64, r model.RhythmType, divisions uint32) (Value, bool) {
	l := rhythmLength(r, divisions)
	for _, dotted := range []bool{false, true} {
		mul, div := uint64(1), uint64(1)
		if dotted {
			mul, div = 3, 2
		}
		for _, normal := range model.TupletNormalValues() {
			for _, actual := range model.TupletActualValues() {
				if actual == normal || !l.scaled(t, mul*uint64(normal), div*uint64(actual)) {
					continue
				}
				tm, err := model.NewTimeModification(actual, normal)
				if err != nil {
					continue
				}
				return Value{Rhythm: r, Dotted: dotted, TimeModification: &tm}, true
			}
		}
	}
	return Value{}, false
}

// Rests builds the rests filling ticks in the given voice. A rest that
// needs a tuplet ratio is wrapped in tuplet markers.
func Rests(ticks, divisions uint32, voice model.Voice) ([]model.MusicElement, error) {
	v, ok := FromTicks(ticks, divisions)
	if !ok {
		return nil, errors.Wrapf(ErrUnrepresentableDuration, "%d ticks at %d divisions", ticks, divisions)
	}
	rest := model.NewDefaultRest(v.Rhythm, v.Dotted, voice)
	if v.TimeModification == nil {
		return []model.MusicElement{rest}, nil
	}
	start := model.TupletData{
		StartStop:   model.TupletStart,
		ActualNotes: v.TimeModification.Actual,
		NormalNotes: v.TimeModification.Normal,
	}
	stop := start
	stop.StartStop = model.TupletStop
	return []model.MusicElement{start, rest, stop}, nil
}

// NoteMultiple is the denominator of a note's length in quarter notes,
// once reduced.
func NoteMultiple(n model.NoteData, beats, beatType uint32, tm *model.TimeModification) uint32 {
	num, den := ratio(n.Dotted, tm)
	length := big.NewRat(int64(num), int64(den))
	switch {
	case n.NoteType == model.SemiBreve && n.NoteRest.IsRest():
		length.Mul(length, big.NewRat(int64(beats)*4, int64(beatType)))
	case n.NoteType >= model.Crochet:
		length.Mul(length, big.NewRat(int64(1)<<(n.NoteType-model.Crochet), 1))
	default:
		length.Mul(length, big.NewRat(1, int64(1)<<(model.Crochet-n.NoteType)))
	}
	return uint32(length.Denom().Uint64())
}

// CalcDivisions is the smallest ticks per quarter at which every note in
// elements lasts a whole number of ticks. Chord notes and grace notes do
// not count. It is 1 when there are no notes.
func CalcDivisions(elements []model.MusicElement) uint32 {
	divisions := uint32(1)
	init := model.NewMeasureInitializer()
	var tm *model.TimeModification
	for _, el := range elements {
		tm = Next(tm, el)
		switch e := el.(type) {
		case model.MeasureInitializer:
			init = e
		case model.NoteData:
			if e.IsChord() || e.SpecialNote != model.SpecialNoteNone {
				continue
			}
			m := NoteMultiple(e, init.Beats.Value(), init.BeatType.Value(), tm)
			divisions = util.LCM(divisions, m)
		}
	}
	return divisions
}

// Voices lists the distinct voices used by elements in the order they
// first appear.
func Voices(elements []model.MusicElement) []model.Voice {
	var seen [model.MaxSupportedVoices]bool
	var res []model.Voice
	for _, el := range elements {
		if n, ok := el.(model.NoteData); ok && int(n.Voice) < len(seen) && !seen[n.Voice] {
			seen[n.Voice] = true
			res = append(res, n.Voice)
		}
	}
	return res
}
