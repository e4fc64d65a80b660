package part

import (
	"github.com/jsphweid/musicbin/duration"
	"github.com/jsphweid/musicbin/measure"
	"github.com/jsphweid/musicbin/model"
	"github.com/pkg/errors"
)

var (
	ErrItemExists     = errors.New("item already exists")
	ErrNotInitialized = errors.New("part not initialized")
)

// MusicalPart is the element sequence of one part under construction.
// Voices are admitted in the order they first appear and numbered from 0.
type MusicalPart struct {
	ID string

	elements     []model.MusicElement
	divisions    uint32
	voices       []uint8
	curInitIdx   int
	curDynamics  model.PhraseDynamics
	checker      *measure.Checker
	measureCount int
}

func New(id string) *MusicalPart {
	return &MusicalPart{ID: id, curInitIdx: -1}
}

// NewFromElements wraps an already finished sequence, such as one that
// was decoded from MusicBin, deriving its divisions and voices.
func NewFromElements(id string, elements []model.MusicElement) (*MusicalPart, error) {
	mp := New(id)
	mp.elements = elements
	mp.divisions = duration.CalcDivisions(elements)
	for _, v := range duration.Voices(elements) {
		if _, err := mp.InsertNewVoice(v.Numeric()); err != nil {
			return nil, err
		}
	}
	for i, el := range elements {
		switch e := el.(type) {
		case model.MeasureInitializer:
			mp.curInitIdx = i
		case model.MeasureMetaData:
			if !e.StartEnd.IsStart() {
				mp.measureCount++
			}
		}
	}
	return mp, nil
}

// InsertNewVoice admits a voice and returns its index. A fifth distinct
// voice fails with model.ErrTooManyVoices.
func (mp *MusicalPart) InsertNewVoice(voice uint8) (model.Voice, error) {
	for i, v := range mp.voices {
		if v == voice {
			return model.Voice(i), nil
		}
	}
	if len(mp.voices) >= model.MaxSupportedVoices {
		return 0, errors.Wrapf(model.ErrTooManyVoices, "part %v voice %v", mp.ID, voice)
	}
	mp.voices = append(mp.voices, voice)
	return model.Voice(len(mp.voices) - 1), nil
}

func (mp *MusicalPart) activeVoices() []model.Voice {
	res := make([]model.Voice, len(mp.voices))
	for i := range mp.voices {
		res[i] = model.Voice(i)
	}
	return res
}

// SetInitialDivisions fixes the ticks per quarter that every duration
// handed to the part is measured in.
func (mp *MusicalPart) SetInitialDivisions(divisions uint32) {
	mp.divisions = divisions
}

// CurInitMeasure is the initializer in force, or the default one before
// any was pushed.
func (mp *MusicalPart) CurInitMeasure() model.MeasureInitializer {
	if mp.curInitIdx < 0 {
		return model.NewMeasureInitializer()
	}
	return mp.elements[mp.curInitIdx].(model.MeasureInitializer)
}

// PushInitMeasure appends init unless it repeats the initializer in
// force. It reports whether init was appended.
func (mp *MusicalPart) PushInitMeasure(init model.MeasureInitializer) bool {
	if mp.curInitIdx >= 0 && mp.CurInitMeasure() == init {
		return false
	}
	mp.curInitIdx = len(mp.elements)
	mp.elements = append(mp.elements, init)
	return true
}

// PushMetaStart opens a measure. forward is the look-ahead forward
// duration the measure starts with.
func (mp *MusicalPart) PushMetaStart(meta model.MeasureMetaData, forward uint32, measureIdx int) error {
	if mp.curInitIdx < 0 || mp.divisions == 0 {
		return errors.Wrapf(ErrNotInitialized, "part %v measure %v", mp.ID, measureIdx)
	}
	mp.checker = measure.New(mp.divisions, mp.CurInitMeasure(), mp.ID, measureIdx, forward)
	mp.elements = append(mp.elements, meta)
	return nil
}

func (mp *MusicalPart) PushMeasureElem(el model.MusicElement) error {
	if mp.checker == nil {
		return errors.Wrapf(ErrNotInitialized, "part %v has no open measure", mp.ID)
	}
	mp.checker.PushElem(el)
	return nil
}

func (mp *MusicalPart) UpdateBackupDuration(backup uint32) error {
	if mp.checker == nil {
		return errors.Wrapf(ErrNotInitialized, "part %v has no open measure", mp.ID)
	}
	return mp.checker.ConformBackupPlaceholderRests(backup)
}

// PushMetaEnd equalizes the open measure's voices, moves its elements
// into the part and closes it with meta.
func (mp *MusicalPart) PushMetaEnd(meta model.MeasureMetaData) error {
	if mp.checker == nil {
		return errors.Wrapf(ErrNotInitialized, "part %v has no open measure", mp.ID)
	}
	err := mp.checker.RemoveIncompleteVoices(mp.activeVoices())
	mp.elements = append(mp.elements, mp.checker.Elements()...)
	mp.elements = append(mp.elements, meta)
	mp.checker = nil
	mp.measureCount++
	return err
}

// TakeDynamics returns the pending phrase dynamics and clears it.
func (mp *MusicalPart) TakeDynamics() model.PhraseDynamics {
	d := mp.curDynamics
	mp.curDynamics = model.PhraseDynamicsNone
	return d
}

func (mp *MusicalPart) SetDynamics(d model.PhraseDynamics) { mp.curDynamics = d }

func (mp *MusicalPart) Elements() []model.MusicElement { return mp.elements }
func (mp *MusicalPart) Divisions() uint32                { return mp.divisions }
func (mp *MusicalPart) NumVoices() int                   { return len(mp.voices) }
func (mp *MusicalPart) NumMeasures() int                 { return mp.measureCount }
