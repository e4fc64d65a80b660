package model

import "github.com/pkg/errors"

var (
	// ErrUnknownTag is returned when a numeric value does not map to any
	// member of an enumerated type, including the 2-bit record tag itself.
	ErrUnknownTag = errors.New("unknown tag")

	// ErrTooManyVoices is returned when a fifth distinct voice would be
	// admitted into a part or measure.
	ErrTooManyVoices = errors.New("too many voices")

	// ErrParse is returned when a MusicXML text value has no enumerated
	// equivalent.
	ErrParse = errors.New("parse error")
)

// MaxSupportedVoices is the number of concurrent voices a part may carry.
const MaxSupportedVoices = 4

func fromNumeric[T ~uint8](v uint8, count int, name string) (T, error) {
	if int(v) >= count {
		return 0, errors.Wrapf(ErrUnknownTag, "%s value %d out of range [0,%d)", name, v, count)
	}
	return T(v), nil
}
