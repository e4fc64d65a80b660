package model

import (
	"strconv"

	"github.com/pkg/errors"
)

const (
	// PitchOffset is subtracted from a MIDI key to get the stored pitch.
	PitchOffset = 11
	MinPitch    = 1
	MaxPitch    = 97
)

var stepSemitones = map[string]int{"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11}

var sharpSpelling = [12]struct {
	step  string
	alter int
}{
	{"C", 0}, {"C", 1}, {"D", 0}, {"D", 1}, {"E", 0}, {"F", 0},
	{"F", 1}, {"G", 0}, {"G", 1}, {"A", 0}, {"A", 1}, {"B", 0},
}

// PitchRest is either a rest (0) or a pitch from C0 (1) to C8 (97).
type PitchRest uint8

const Rest PitchRest = 0

func PitchRestFromNumeric(v uint8) (PitchRest, error) {
	return fromNumeric[PitchRest](v, MaxPitch+1, "pitch")
}

// PitchFromMIDI converts a MIDI key number, failing outside C0..C8.
func PitchFromMIDI(key int) (PitchRest, error) {
	p := key - PitchOffset
	if p < MinPitch || p > MaxPitch {
		return Rest, errors.Wrapf(ErrUnknownTag, "midi key %d out of range", key)
	}
	return PitchRest(p), nil
}

// PitchFromStep converts a MusicXML step, alter and octave.
func PitchFromStep(step string, alter, octave int) (PitchRest, error) {
	semitone, ok := stepSemitones[step]
	if !ok {
		return Rest, errors.Wrapf(ErrParse, "step %q", step)
	}
	return PitchFromMIDI((octave+1)*12 + semitone + alter)
}

func (p PitchRest) Numeric() uint8 { return uint8(p) }
func (p PitchRest) IsRest() bool   { return p == Rest }
func (p PitchRest) MIDI() int      { return int(p) + PitchOffset }

// Step spells the pitch with sharps. Rests report an empty step.
func (p PitchRest) Step() (step string, alter, octave int) {
	if p.IsRest() {
		return "", 0, 0
	}
	key := p.MIDI()
	s := sharpSpelling[key%12]
	return s.step, s.alter, key/12 - 1
}

func (p PitchRest) String() string {
	if p.IsRest() {
		return "rest"
	}
	step, alter, octave := p.Step()
	if alter > 0 {
		step += "#"
	}
	return step + strconv.Itoa(octave)
}
