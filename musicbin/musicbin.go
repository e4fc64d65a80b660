// Package musicbin reads and writes MusicBin streams: an 8-byte header
// followed by one 32-bit record per element.
package musicbin

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"

	"github.com/jsphweid/musicbin/constants"
	"github.com/jsphweid/musicbin/model"
	"github.com/pkg/errors"
)

var (
	ErrMalformedHeader = errors.New("malformed header")
	ErrTruncated       = errors.New("truncated stream")
	ErrIO              = errors.New("io failure")
)

// Magic opens every stream.
var Magic = [4]byte{'M', 'u', 'B', 'i'}

const HeaderSize = 8

// Header is the stream preamble. Length is the byte length of the
// records that follow it.
type Header struct {
	Magic  [4]byte
	Length uint32
}

func NewHeader(elements int) Header {
	return Header{Magic: Magic, Length: uint32(elements * constants.RecordSize)}
}

// Elements is the record count the header declares.
func (h Header) Elements() int { return int(h.Length) / constants.RecordSize }

func (h Header) bytes() []byte {
	buf := make([]byte, HeaderSize)
	copy(buf, h.Magic[:])
	binary.LittleEndian.PutUint32(buf[4:], h.Length)
	return buf
}

func parseHeader(data []byte) (Header, error) {
	var h Header
	if len(data) < HeaderSize {
		return h, errors.Wrapf(ErrTruncated, "header needs %d bytes, got %d", HeaderSize, len(data))
	}
	copy(h.Magic[:], data[:4])
	if h.Magic != Magic {
		return h, errors.Wrapf(ErrMalformedHeader, "bad magic %q", data[:4])
	}
	h.Length = binary.LittleEndian.Uint32(data[4:HeaderSize])
	return h, nil
}

// Encode serializes elements into a complete stream.
func Encode(elements []model.MusicElement) ([]byte, error) {
	buf := make([]byte, 0, HeaderSize+len(elements)*constants.RecordSize)
	buf = append(buf, NewHeader(len(elements)).bytes()...)
	record := make([]byte, constants.RecordSize)
	for i, el := range elements {
		word, err := EncodeElement(el)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		binary.BigEndian.PutUint32(record, word)
		buf = append(buf, record...)
	}
	return buf, nil
}

// Decode parses a complete stream. Any bad record fails the whole call.
func Decode(data []byte) (Header, []model.MusicElement, error) {
	h, err := parseHeader(data)
	if err != nil {
		return h, nil, err
	}
	body := data[HeaderSize:]
	elements := make([]model.MusicElement, 0, len(body)/constants.RecordSize)
	for len(body) > 0 {
		if len(body) < constants.RecordSize {
			return h, nil, errors.Wrapf(ErrTruncated, "%d trailing bytes after record %d", len(body), len(elements))
		}
		el, err := DecodeElement(binary.BigEndian.Uint32(body))
		if err != nil {
			return h, nil, errors.Wrapf(err, "record %d", len(elements))
		}
		elements = append(elements, el)
		body = body[constants.RecordSize:]
	}
	if h.Elements() != len(elements) || h.Length%constants.RecordSize != 0 {
		return h, nil, errors.Wrapf(ErrMalformedHeader, "header length %d does not match %d records", h.Length, len(elements))
	}
	return h, elements, nil
}

// Encoder writes one stream per Encode call to an underlying writer.
type Encoder struct {
	w *bufio.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// Encode writes the stream for elements. The buffered writer is flushed
// exactly once, whether or not encoding succeeds.
func (e *Encoder) Encode(elements []model.MusicElement) (err error) {
	defer func() {
		if ferr := e.w.Flush(); ferr != nil && err == nil {
			err = errors.Wrap(ErrIO, ferr.Error())
		}
	}()

	data, err := Encode(elements)
	if err != nil {
		return err
	}
	if _, err := e.w.Write(data); err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	return nil
}

// Decoder reads a whole stream into memory before parsing it.
type Decoder struct {
	r io.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

func (d *Decoder) Decode() (Header, []model.MusicElement, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(d.r); err != nil {
		return Header{}, nil, errors.Wrap(ErrIO, err.Error())
	}
	return Decode(buf.Bytes())
}
