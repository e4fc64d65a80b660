// Package measure keeps the voices of one measure the same length.
package measure

import (
	"sort"

	"github.com/jsphweid/musicbin/duration"
	"github.com/jsphweid/musicbin/logging"
	"github.com/jsphweid/musicbin/model"
)

// Checker buffers the elements of a measure while it is being built.
type Checker struct {
	elements         []model.MusicElement
	elemsSinceBackup int

	divisions       uint32
	beats           uint32
	beatType        uint32
	forwardDuration uint32

	partID     string
	measureIdx int
}

// New starts a measure under init at the part's divisions. forward is
// the look-ahead forward duration already consumed by the measure.
func New(divisions uint32, init model.MeasureInitializer, partID string, measureIdx int, forward uint32) *Checker {
	return &Checker{
		divisions:       divisions,
		beats:           init.Beats.Value(),
		beatType:        init.BeatType.Value(),
		forwardDuration: forward,
		partID:          partID,
		measureIdx:      measureIdx,
	}
}

func (c *Checker) PushElem(el model.MusicElement) {
	c.elements = append(c.elements, el)
	c.elemsSinceBackup++
}

// Elements is the measure's buffer, including any corrective rests.
func (c *Checker) Elements() []model.MusicElement { return c.elements }

func (c *Checker) ticks(n model.NoteData, tm *model.TimeModification) uint32 {
	return duration.Ticks(n, c.divisions, c.beats, c.beatType, tm)
}

// ConformBackupPlaceholderRests compares what was written since the last
// backup with how far the backup rewinds. When the notes overshoot, the
// difference is appended as a rest in the next voice.
func (c *Checker) ConformBackupPlaceholderRests(backup uint32) error {
	defer func() { c.elemsSinceBackup = 0 }()

	if c.forwardDuration > backup {
		logging.Warnf("%vM%v backup of %v is shorter than the forward of %v, leaving the voice as written", c.partID, c.measureIdx, backup, c.forwardDuration)
		return nil
	}
	actual := backup - c.forwardDuration

	var sum uint32
	var tm *model.TimeModification
	voice := model.VoiceOne
	for _, el := range c.elements[len(c.elements)-c.elemsSinceBackup:] {
		tm = duration.Next(tm, el)
		if n, ok := el.(model.NoteData); ok {
			voice = n.Voice
			if !n.IsChord() {
				sum += c.ticks(n, tm)
			}
		}
	}

	switch {
	case sum > actual:
		logging.Infof("%vM%v voice %v runs %v ticks past its backup of %v, adding a rest", c.partID, c.measureIdx, voice, sum-actual, actual)
		rests, err := duration.Rests(sum-actual, c.divisions, voice.Next())
		if err != nil {
			return err
		}
		c.elements = append(c.elements, rests...)
	case sum < actual:
		logging.Debugf("%vM%v backup of %v past %v ticks of notes, treating as beginning of measure", c.partID, c.measureIdx, actual, sum)
	}
	return nil
}

// RemoveIncompleteVoices pads every voice shorter than the first voice
// with a rest after its last element. Voices with no notes are left
// alone.
func (c *Checker) RemoveIncompleteVoices(voices []model.Voice) error {
	var totals [model.MaxSupportedVoices]uint32
	var lastIdx [model.MaxSupportedVoices]int
	var tm *model.TimeModification
	voice := model.VoiceOne
	for i, el := range c.elements {
		tm = duration.Next(tm, el)
		switch e := el.(type) {
		case model.NoteData:
			voice = e.Voice
			lastIdx[voice] = i
			if !e.IsChord() && e.SpecialNote == model.SpecialNoteNone {
				totals[voice] += c.ticks(e, tm)
			}
		case model.TupletData:
			if e.StartStop == model.TupletStop {
				lastIdx[voice] = i
			}
		}
	}

	type insertion struct {
		at    int
		rests []model.MusicElement
	}
	var inserts []insertion
	reference := totals[model.VoiceOne]
	for _, v := range voices {
		if v == model.VoiceOne || int(v) >= len(totals) {
			continue
		}
		if totals[v] == 0 || totals[v] >= reference {
			continue
		}
		logging.Warnf("%vM%v voice %v is %v ticks short of %v, padding with a rest", c.partID, c.measureIdx, v, reference-totals[v], reference)
		rests, err := duration.Rests(reference-totals[v], c.divisions, v)
		if err != nil {
			return err
		}
		inserts = append(inserts, insertion{at: lastIdx[v] + 1, rests: rests})
	}

	sort.Slice(inserts, func(i, j int) bool { return inserts[i].at > inserts[j].at })
	for _, ins := range inserts {
		tail := append(append([]model.MusicElement(nil), ins.rests...), c.elements[ins.at:]...)
		c.elements = append(c.elements[:ins.at], tail...)
	}
	return nil
}
