package midi

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/jsphweid/musicbin/duration"
	"github.com/jsphweid/musicbin/model"
	"github.com/jsphweid/musicbin/part"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(filepath string) (*smf.SMF, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "Error reading midi file")
	}
	return ReadMidi(bytes.NewReader(dat))
}

func ReadMidi(r io.Reader) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if rec := recover(); rec != nil {
			s, e = nil, errors.Errorf("Error parsing midi file... %v", rec)
		}
	}()

	res, err := smf.ReadFrom(r)
	if err != nil {
		return nil, errors.Wrap(err, "Error parsing midi file")
	}
	return res, nil
}

type event struct {
	tick uint32
	off  bool
	msg  []byte
}

func toTrack(events []event, name string) smf.Track {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})
	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(name))
	var last uint32
	for _, e := range events {
		tr.Add(e.tick-last, e.msg)
		last = e.tick
	}
	tr.Close(0)
	return tr
}

// Export renders a part as a two track file: a conductor track with the
// meter and tempo changes, and the notes on channel 0. Voices run side by
// side from the start of each measure, chord notes share the onset of the
// note before them and tied notes sound once.
func Export(mp *part.MusicalPart) (*smf.SMF, error) {
	var conductor, notes []event
	var tm *model.TimeModification
	init := model.NewMeasureInitializer()
	var measureStart uint32
	var cursor, lastOnset [model.MaxSupportedVoices]uint32
	dynamics := model.MezzoForte

	for _, el := range mp.Elements() {
		tm = duration.Next(tm, el)
		switch e := el.(type) {
		case model.MeasureInitializer:
			init = e
			conductor = append(conductor,
				event{tick: measureStart, msg: smf.MetaMeter(uint8(e.Beats.Value()), uint8(e.BeatType.Value()))},
				event{tick: measureStart, msg: smf.MetaTempo(float64(e.Tempo.Actual()))},
			)
		case model.MeasureMetaData:
			if e.StartEnd.IsStart() {
				cursor, lastOnset = [model.MaxSupportedVoices]uint32{}, [model.MaxSupportedVoices]uint32{}
				continue
			}
			var length uint32
			for _, c := range cursor {
				if c > length {
					length = c
				}
			}
			measureStart += length
		case model.NoteData:
			if int(e.Voice) >= len(cursor) {
				return nil, errors.Wrapf(model.ErrUnknownTag, "voice %d", e.Voice)
			}
			if e.PhraseDynamics != model.PhraseDynamicsNone {
				dynamics = e.PhraseDynamics
			}
			d := duration.MIDITicks(e, init.Beats.Value(), init.BeatType.Value(), tm)
			onset := cursor[e.Voice]
			if e.IsChord() {
				onset = lastOnset[e.Voice]
			} else {
				lastOnset[e.Voice] = onset
				cursor[e.Voice] += d
			}
			if e.NoteRest.IsRest() || d == 0 {
				continue
			}
			key := uint8(e.NoteRest.MIDI())
			if e.Ties != model.EndTie {
				notes = append(notes, event{tick: measureStart + onset, msg: midi.NoteOn(0, key, dynamics.Velocity())})
			}
			if e.Ties != model.StartTie {
				notes = append(notes, event{tick: measureStart + onset + d, off: true, msg: midi.NoteOff(0, key)})
			}
		}
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(duration.MIDIResolution)
	if err := s.Add(toTrack(conductor, "conductor")); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := s.Add(toTrack(notes, mp.ID)); err != nil {
		return nil, errors.WithStack(err)
	}
	return s, nil
}

func WriteMidi(w io.Writer, mp *part.MusicalPart) error {
	s, err := Export(mp)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(w); err != nil {
		return errors.Wrap(err, "could not write midi")
	}
	return nil
}

// Summary counts what a file plays.
type Summary struct {
	Tracks   int
	NoteOns  int
	NoteOffs int
	Tempos   []float64
}

func (s Summary) String() string {
	return fmt.Sprintf("%v tracks, %v note ons, %v note offs, tempos %v", s.Tracks, s.NoteOns, s.NoteOffs, s.Tempos)
}

func Summarize(s *smf.SMF) Summary {
	res := Summary{Tracks: len(s.Tracks)}
	for _, track := range s.Tracks {
		for _, evt := range track {
			var channel, key, velocity uint8
			var bpm float64
			switch {
			case evt.Message.GetNoteOn(&channel, &key, &velocity):
				res.NoteOns++
			case evt.Message.GetNoteOff(&channel, &key, &velocity):
				res.NoteOffs++
			case evt.Message.GetMetaTempo(&bpm):
				res.Tempos = append(res.Tempos, bpm)
			}
		}
	}
	return res
}
