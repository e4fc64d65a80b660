// Package sample cuts excerpts out of a part.
package sample

import (
	"github.com/jsphweid/musicbin/model"
	"github.com/pkg/errors"
)

var ErrOutOfRange = errors.New("measure out of range")

// Create returns the elements of numMeasures measures starting at the
// zero-based measure start. The excerpt opens with the initializer in
// force at start. It stops early if the part runs out of measures.
func Create(elements []model.MusicElement, start, numMeasures int) ([]model.MusicElement, error) {
	if start < 0 || numMeasures < 1 {
		return nil, errors.Wrapf(ErrOutOfRange, "start %d count %d", start, numMeasures)
	}
	var res []model.MusicElement
	lastInit := model.NewMeasureInitializer()
	var measure int
	for _, el := range elements {
		inRange := measure >= start && measure < start+numMeasures
		if init, ok := el.(model.MeasureInitializer); ok {
			lastInit = init
			if inRange && len(res) > 0 {
				res = append(res, init)
			}
			continue
		}
		if inRange {
			if len(res) == 0 {
				res = append(res, lastInit)
			}
			res = append(res, el)
		}
		if meta, ok := el.(model.MeasureMetaData); ok && !meta.StartEnd.IsStart() {
			measure++
		}
	}
	if len(res) == 0 {
		return nil, errors.Wrapf(ErrOutOfRange, "start %d of %d measures", start, measure)
	}
	return res, nil
}
