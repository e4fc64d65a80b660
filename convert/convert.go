// Package convert ties the readers and writers together into the
// conversions offered by the command line and the server.
package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jsphweid/musicbin/logging"
	"github.com/jsphweid/musicbin/midi"
	"github.com/jsphweid/musicbin/model"
	"github.com/jsphweid/musicbin/musicbin"
	"github.com/jsphweid/musicbin/musicxml"
	"github.com/jsphweid/musicbin/part"
	"github.com/jsphweid/musicbin/sample"
	"github.com/pkg/errors"
)

// ErrNoParts is returned when every part of a score was dropped.
var ErrNoParts = errors.New("score has no convertible parts")

// BinPartID names the single part a MusicBin stream carries.
const BinPartID = "P1"

// XMLToIR reads a MusicXML score into parts.
func XMLToIR(r io.Reader) (*part.Map, error) {
	return musicxml.Read(r)
}

// FirstPart is the first part in id order that has content.
func FirstPart(pm *part.Map) (*part.MusicalPart, error) {
	parts := pm.Parts()
	if len(parts) == 0 {
		return nil, ErrNoParts
	}
	if len(parts) > 1 {
		logging.Infof("Score has %v parts, keeping %v", len(parts), parts[0].ID)
	}
	return parts[0], nil
}

// XMLToBin writes the first part of a MusicXML score as MusicBin.
func XMLToBin(r io.Reader, w io.Writer) (*part.MusicalPart, error) {
	pm, err := XMLToIR(r)
	if err != nil {
		return nil, err
	}
	mp, err := FirstPart(pm)
	if err != nil {
		return nil, err
	}
	return mp, musicbin.NewEncoder(w).Encode(mp.Elements())
}

// BinToIR decodes a MusicBin stream into a part.
func BinToIR(r io.Reader) (*part.MusicalPart, error) {
	_, els, err := musicbin.NewDecoder(r).Decode()
	if err != nil {
		return nil, err
	}
	return part.NewFromElements(BinPartID, els)
}

func singlePartMap(mp *part.MusicalPart) (*part.Map, error) {
	pm := part.NewMap()
	if err := pm.PushPart(mp.ID, mp); err != nil {
		return nil, err
	}
	return pm, nil
}

func BinToXML(r io.Reader, w io.Writer) error {
	mp, err := BinToIR(r)
	if err != nil {
		return err
	}
	pm, err := singlePartMap(mp)
	if err != nil {
		return err
	}
	return musicxml.Write(w, pm)
}

func BinToMIDI(r io.Reader, w io.Writer) error {
	mp, err := BinToIR(r)
	if err != nil {
		return err
	}
	return midi.WriteMidi(w, mp)
}

// XMLMulti rewrites a MusicXML score through the part representation,
// keeping every supported part.
func XMLMulti(r io.Reader, w io.Writer) error {
	pm, err := XMLToIR(r)
	if err != nil {
		return err
	}
	if pm.NumParts() == 0 {
		return ErrNoParts
	}
	return musicxml.Write(w, pm)
}

// EndToEnd converts a MusicXML file to MusicBin in tmpDir and back to
// MusicXML at outPath.
func EndToEnd(inPath, outPath, tmpDir string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer in.Close()

	binPath := filepath.Join(tmpDir, uuid.New().String()+".bin")
	bin, err := os.Create(binPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer os.Remove(binPath)
	if _, err := XMLToBin(in, bin); err != nil {
		bin.Close()
		return err
	}
	if err := bin.Close(); err != nil {
		return errors.WithStack(err)
	}

	bin, err = os.Open(binPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer bin.Close()
	out, err := os.Create(outPath)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := BinToXML(bin, out); err != nil {
		out.Close()
		return err
	}
	return errors.WithStack(out.Close())
}

// Sample writes measures [start, start+numMeasures) of a MusicBin
// stream as a new stream.
func Sample(r io.Reader, w io.Writer, start, numMeasures int) error {
	_, els, err := musicbin.NewDecoder(r).Decode()
	if err != nil {
		return err
	}
	excerpt, err := sample.Create(els, start, numMeasures)
	if err != nil {
		return err
	}
	return musicbin.NewEncoder(w).Encode(excerpt)
}

// Inspect summarizes a MusicBin stream. With dump set it lists every
// element.
func Inspect(r io.Reader, dump bool) (model.InspectResponse, error) {
	h, els, err := musicbin.NewDecoder(r).Decode()
	if err != nil {
		return model.InspectResponse{}, err
	}
	mp, err := part.NewFromElements(BinPartID, els)
	if err != nil {
		return model.InspectResponse{}, err
	}
	res := model.InspectResponse{
		Length:    h.Length,
		Elements:  len(els),
		Divisions: mp.Divisions(),
		Voices:    mp.NumVoices(),
	}
	if dump {
		for _, el := range els {
			res.Dump = append(res.Dump, fmt.Sprint(el))
		}
	}
	return res, nil
}
