package part

import (
	"github.com/jsphweid/musicbin/util"
	"github.com/pkg/errors"
)

type slotState uint8

const (
	reserved slotState = iota
	present
	removed
)

func (s slotState) String() string {
	return [...]string{"reserved", "present", "removed"}[s]
}

type slot struct {
	idx   int
	state slotState
}

// Map holds the parts of a score by id. Ids are reserved before their
// content is parsed. Removing a part leaves the indexes of the others
// untouched.
type Map struct {
	ids   map[string]slot
	parts []*MusicalPart
}

func NewMap() *Map {
	return &Map{ids: map[string]slot{}}
}

// AddPartID reserves id without content.
func (m *Map) AddPartID(id string) error {
	if _, ok := m.ids[id]; ok {
		return errors.Wrapf(ErrItemExists, "part id %v", id)
	}
	m.ids[id] = slot{}
	return nil
}

// PushPart stores the content of a reserved or unknown id. A removed id
// stays removed.
func (m *Map) PushPart(id string, mp *MusicalPart) error {
	if s, ok := m.ids[id]; ok && s.state != reserved {
		return errors.Wrapf(ErrItemExists, "part %v is %v", id, s.state)
	}
	m.ids[id] = slot{idx: len(m.parts), state: present}
	m.parts = append(m.parts, mp)
	return nil
}

// RemovePart tombstones id. It stays a known id.
func (m *Map) RemovePart(id string) {
	if s, ok := m.ids[id]; ok && s.state == present {
		m.parts[s.idx] = nil
	}
	m.ids[id] = slot{state: removed}
}

// Part returns the content stored for id, if any.
func (m *Map) Part(id string) (*MusicalPart, bool) {
	s, ok := m.ids[id]
	if !ok || s.state != present {
		return nil, false
	}
	return m.parts[s.idx], true
}

// Keys lists every known id in sorted order, removed ones included.
func (m *Map) Keys() []string { return util.GetSortedKeys(m.ids) }

func (m *Map) NumPartIDs() int { return len(m.ids) }

// NumParts counts the parts with content.
func (m *Map) NumParts() int {
	n := 0
	for _, s := range m.ids {
		if s.state == present {
			n++
		}
	}
	return n
}

// RemovedParts counts tombstoned ids. Reserved ids waiting for content
// are not counted.
func (m *Map) RemovedParts() int {
	n := 0
	for _, s := range m.ids {
		if s.state == removed {
			n++
		}
	}
	return n
}

// Parts lists the parts with content in id order.
func (m *Map) Parts() []*MusicalPart {
	var res []*MusicalPart
	for _, id := range m.Keys() {
		if mp, ok := m.Part(id); ok {
			res = append(res, mp)
		}
	}
	return res
}
