package model

const (
	MinTempo     = 20
	MaxTempo     = 274
	DefaultTempo = 120
	maxRawTempo  = 127
)

// Tempo is a BPM value stored in 7 bits: real = raw*2 + 20.
type Tempo uint8

// NewTempo converts a BPM value, clamped to [MinTempo, MaxTempo].
func NewTempo(bpm int) Tempo {
	if bpm < MinTempo {
		bpm = MinTempo
	}
	if bpm > MaxTempo {
		bpm = MaxTempo
	}
	return Tempo((bpm - MinTempo) / 2)
}

// NewTempoFromRaw accepts a stored raw value, clamped to [0,127].
func NewTempoFromRaw(raw uint8) Tempo {
	if raw > maxRawTempo {
		raw = maxRawTempo
	}
	return Tempo(raw)
}

func DefaultTempoValue() Tempo { return NewTempo(DefaultTempo) }

func (t Tempo) Raw() uint8 { return uint8(t) }

// Actual is the tempo in beats per minute.
func (t Tempo) Actual() int {
	bpm := int(t)*2 + MinTempo
	if bpm > MaxTempo {
		return MaxTempo
	}
	return bpm
}

// DescriptiveTempo is the Italian tempo word for the BPM range.
func (t Tempo) DescriptiveTempo() string {
	bpm := t.Actual()
	switch {
	case bpm <= 24:
		return "Larghissimo"
	case bpm <= 40:
		return "Grave"
	case bpm <= 45:
		return "Lento"
	case bpm <= 50:
		return "Largo"
	case bpm <= 65:
		return "Adagio"
	case bpm <= 69:
		return "Adagietto"
	case bpm <= 77:
		return "Andante"
	case bpm <= 97:
		return "Moderato"
	case bpm <= 120:
		return "Allegretto"
	case bpm <= 150:
		return "Allegro"
	case bpm <= 176:
		return "Vivace"
	case bpm <= 200:
		return "Presto"
	}
	return "Prestissimo"
}
