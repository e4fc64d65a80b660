package model

import (
	"strconv"

	"github.com/pkg/errors"
)

type TupletStartStop uint8

const (
	TupletNone TupletStartStop = iota
	TupletStart
	TupletStop
	tupletStartStopCount
)

func TupletStartStopFromNumeric(v uint8) (TupletStartStop, error) {
	return fromNumeric[TupletStartStop](v, int(tupletStartStopCount), "tuplet start/stop")
}

func (t TupletStartStop) Numeric() uint8 { return uint8(t) }

// TupletNumber distinguishes nested or overlapping tuplets, 1 through 4.
type TupletNumber uint8

const (
	TupletOne TupletNumber = iota
	TupletTwo
	TupletThree
	TupletFour
	tupletNumberCount
)

func TupletNumberFromNumeric(v uint8) (TupletNumber, error) {
	return fromNumeric[TupletNumber](v, int(tupletNumberCount), "tuplet number")
}

// ParseTupletNumber reads the number attribute of a MusicXML <tuplet>.
// A missing attribute is tuplet one.
func ParseTupletNumber(s string) (TupletNumber, error) {
	if s == "" {
		return TupletOne, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > int(tupletNumberCount) {
		return TupletOne, errors.Wrapf(ErrParse, "tuplet number %q", s)
	}
	return TupletNumber(n - 1), nil
}

func (t TupletNumber) Numeric() uint8 { return uint8(t) }
func (t TupletNumber) Value() int     { return int(t) + 1 }

// TupletActual is the number of notes played in a tuplet. Only the counts
// listed here fit the four bits the record reserves for them.
type TupletActual uint8

var tupletActualValues = []uint32{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 16, 18, 21, 25}

func TupletActualFromNumeric(v uint8) (TupletActual, error) {
	return fromNumeric[TupletActual](v, len(tupletActualValues), "tuplet actual")
}

// NewTupletActual looks up the enumerated value for an actual-notes count.
func NewTupletActual(n uint32) (TupletActual, error) {
	for i, v := range tupletActualValues {
		if v == n {
			return TupletActual(i), nil
		}
	}
	return 0, errors.Wrapf(ErrParse, "tuplet actual notes %d", n)
}

func (t TupletActual) Numeric() uint8 { return uint8(t) }
func (t TupletActual) Value() uint32  { return tupletActualValues[t] }

// TupletNormal is the number of notes a tuplet takes the time of.
type TupletNormal uint8

var tupletNormalValues = []uint32{1, 2, 3, 4, 6, 8, 9, 12, 16}

func TupletNormalFromNumeric(v uint8) (TupletNormal, error) {
	return fromNumeric[TupletNormal](v, len(tupletNormalValues), "tuplet normal")
}

// NewTupletNormal looks up the enumerated value for a normal-notes count.
func NewTupletNormal(n uint32) (TupletNormal, error) {
	for i, v := range tupletNormalValues {
		if v == n {
			return TupletNormal(i), nil
		}
	}
	return 0, errors.Wrapf(ErrParse, "tuplet normal notes %d", n)
}

func (t TupletNormal) Numeric() uint8 { return uint8(t) }
func (t TupletNormal) Value() uint32  { return tupletNormalValues[t] }

// TupletActualValues lists every representable actual-notes count in
// ascending order.
func TupletActualValues() []uint32 { return append([]uint32(nil), tupletActualValues...) }

// TupletNormalValues lists every representable normal-notes count in
// ascending order.
func TupletNormalValues() []uint32 { return append([]uint32(nil), tupletNormalValues...) }

// TimeModification is the ratio of an active tuplet: Actual notes in the
// time of Normal.
type TimeModification struct {
	Actual TupletActual
	Normal TupletNormal
}

// NewTimeModification builds a ratio from plain note counts.
func NewTimeModification(actual, normal uint32) (TimeModification, error) {
	a, err := NewTupletActual(actual)
	if err != nil {
		return TimeModification{}, err
	}
	n, err := NewTupletNormal(normal)
	if err != nil {
		return TimeModification{}, err
	}
	return TimeModification{Actual: a, Normal: n}, nil
}

func (t TimeModification) String() string {
	return strconv.Itoa(int(t.Actual.Value())) + ":" + strconv.Itoa(int(t.Normal.Value()))
}
