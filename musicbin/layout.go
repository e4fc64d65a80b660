package musicbin

// bitRange is a field inside a 32-bit record, numbered from the most
// significant bit.
type bitRange struct {
	offset uint
	width  uint
}

func (r bitRange) mask() uint32 { return 1<<r.width - 1 }

func (r bitRange) shift() uint { return 32 - r.offset - r.width }

func (r bitRange) get(word uint32) uint8 {
	return uint8(word >> r.shift() & r.mask())
}

func (r bitRange) set(word uint32, v uint8) uint32 {
	return word | (uint32(v)&r.mask())<<r.shift()
}

// layout lays fields out back to back starting at the top bit.
func layout(widths ...uint) []bitRange {
	res := make([]bitRange, len(widths))
	var offset uint
	for i, w := range widths {
		res[i] = bitRange{offset: offset, width: w}
		offset += w
	}
	if offset > 32 {
		panic("record layout wider than 32 bits")
	}
	return res
}

// Field indexes into each record's layout. Index 0 is always the 2-bit
// tag.
const (
	initBeats = iota + 1
	initBeatType
	initKeySignature
	initTempo
)

const (
	metaStartEnd = iota + 1
	metaEnding
	metaDalSegno
)

const (
	notePitch = iota + 1
	notePhraseDynamics
	noteRhythm
	noteDotted
	noteArpeggiate
	noteSpecial
	noteArticulation
	noteTrill
	noteTies
	noteChord
	noteSlur
	noteVoice
)

const (
	tupletStartStop = iota + 1
	tupletNumber
	tupletActual
	tupletNormal
	tupletDotted
)

var (
	tagField = bitRange{offset: 0, width: 2}

	// tag, beats, beat type, key, tempo; 14 reserved bits follow
	initLayout = layout(2, 3, 2, 4, 7)
	// tag, start/end, ending, dal segno; 23 reserved bits follow
	metaLayout = layout(2, 2, 2, 3)
	// tag, pitch, dynamics, rhythm, dotted, arpeggiate, special,
	// articulation, trill, ties, chord, slur, voice
	noteLayout = layout(2, 7, 4, 3, 1, 1, 2, 3, 2, 2, 1, 2, 2)
	// tag, start/stop, number, actual, normal, dotted; 16 reserved bits follow
	tupletLayout = layout(2, 2, 3, 4, 4, 1)
)

func width(l []bitRange) uint {
	last := l[len(l)-1]
	return last.offset + last.width
}
