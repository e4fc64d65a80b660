package musicxml

import (
	"encoding/xml"

	"github.com/pkg/errors"
)

// The subset of score-partwise that MusicBin can carry. The same types
// are used for reading and writing; elements not listed are skipped.

type ScorePartwise struct {
	XMLName        xml.Name        `xml:"score-partwise"`
	Version        string          `xml:"version,attr,omitempty"`
	Work           *Work           `xml:"work"`
	Identification *Identification `xml:"identification"`
	PartList       PartList        `xml:"part-list"`
	Parts          []Part          `xml:"part"`
}

type Work struct {
	Title string `xml:"work-title"`
}

type Identification struct {
	Encoding Encoding `xml:"encoding"`
}

type Encoding struct {
	Software string `xml:"software"`
}

type PartList struct {
	ScoreParts []ScorePart `xml:"score-part"`
}

type ScorePart struct {
	ID       string `xml:"id,attr"`
	PartName string `xml:"part-name"`
}

type Part struct {
	ID       string    `xml:"id,attr"`
	Measures []Measure `xml:"measure"`
}

// MeasureItem is one child of a measure that is kept in document order.
type MeasureItem interface {
	elementName() string
}

// Measure keeps its notes, backups and directions in document order.
type Measure struct {
	Number string
	Items  []MeasureItem
}

func (m *Measure) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		if a.Name.Local == "number" {
			m.Number = a.Value
		}
	}
	for {
		tok, err := d.Token()
		if err != nil {
			return errors.Wrap(err, "measure "+m.Number)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var item MeasureItem
			switch t.Name.Local {
			case "note":
				item = &Note{}
			case "backup":
				item = &Backup{}
			case "forward":
				item = &Forward{}
			case "direction":
				item = &Direction{}
			case "attributes":
				item = &Attributes{}
			case "barline":
				item = &Barline{}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			if err := d.DecodeElement(item, &t); err != nil {
				return err
			}
			m.Items = append(m.Items, item)
		case xml.EndElement:
			return nil
		}
	}
}

func (m Measure) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{{Name: xml.Name{Local: "number"}, Value: m.Number}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, item := range m.Items {
		if err := e.EncodeElement(item, xml.StartElement{Name: xml.Name{Local: item.elementName()}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

type Empty struct{}

// Mark is an element whose name is its meaning, such as <f/> inside
// <dynamics> or <staccato/> inside <articulations>.
type Mark struct {
	XMLName xml.Name
}

func NewMark(name string) Mark { return Mark{XMLName: xml.Name{Local: name}} }

type Attributes struct {
	Divisions string `xml:"divisions,omitempty"`
	Key       *Key   `xml:"key"`
	Time      *Time  `xml:"time"`
	Staves    string `xml:"staves,omitempty"`
	Clefs     []Clef `xml:"clef"`
}

func (*Attributes) elementName() string { return "attributes" }

type Key struct {
	Fifths string `xml:"fifths"`
}

type Time struct {
	Beats    string `xml:"beats"`
	BeatType string `xml:"beat-type"`
}

type Clef struct {
	Number string `xml:"number,attr,omitempty"`
	Sign   string `xml:"sign"`
	Line   string `xml:"line,omitempty"`
}

type Backup struct {
	Duration string `xml:"duration"`
}

func (*Backup) elementName() string { return "backup" }

type Forward struct {
	Duration string `xml:"duration"`
}

func (*Forward) elementName() string { return "forward" }

type Direction struct {
	Placement      string          `xml:"placement,attr,omitempty"`
	DirectionTypes []DirectionType `xml:"direction-type"`
	Staff          string          `xml:"staff,omitempty"`
	Sound          *Sound          `xml:"sound"`
}

func (*Direction) elementName() string { return "direction" }

type DirectionType struct {
	Segno    *Empty    `xml:"segno"`
	Coda     *Empty    `xml:"coda"`
	Words    string    `xml:"words,omitempty"`
	Dynamics *Dynamics `xml:"dynamics"`
}

type Dynamics struct {
	Marks []Mark `xml:",any"`
}

type Sound struct {
	Tempo    string `xml:"tempo,attr,omitempty"`
	DaCapo   string `xml:"dacapo,attr,omitempty"`
	DalSegno string `xml:"dalsegno,attr,omitempty"`
	Segno    string `xml:"segno,attr,omitempty"`
	Coda     string `xml:"coda,attr,omitempty"`
	ToCoda   string `xml:"tocoda,attr,omitempty"`
	Fine     string `xml:"fine,attr,omitempty"`
}

type Barline struct {
	Location string  `xml:"location,attr,omitempty"`
	Ending   *Ending `xml:"ending"`
	Repeat   *Repeat `xml:"repeat"`
}

func (*Barline) elementName() string { return "barline" }

type Ending struct {
	Number string `xml:"number,attr"`
	Type   string `xml:"type,attr"`
}

type Repeat struct {
	Direction string `xml:"direction,attr"`
}

type Note struct {
	Grace            *Grace            `xml:"grace"`
	Chord            *Empty            `xml:"chord"`
	Pitch            *Pitch            `xml:"pitch"`
	Unpitched        *Empty            `xml:"unpitched"`
	Rest             *Rest             `xml:"rest"`
	Duration         string            `xml:"duration,omitempty"`
	Voice            string            `xml:"voice,omitempty"`
	Type             string            `xml:"type,omitempty"`
	Dots             []Empty           `xml:"dot"`
	TimeModification *TimeModification `xml:"time-modification"`
	Staff            string            `xml:"staff,omitempty"`
	Notations        *Notations        `xml:"notations"`
}

func (*Note) elementName() string { return "note" }

type Grace struct {
	Slash string `xml:"slash,attr,omitempty"`
}

type Pitch struct {
	Step   string `xml:"step"`
	Alter  string `xml:"alter,omitempty"`
	Octave string `xml:"octave"`
}

type Rest struct {
	Measure string `xml:"measure,attr,omitempty"`
}

type TimeModification struct {
	ActualNotes string `xml:"actual-notes"`
	NormalNotes string `xml:"normal-notes"`
	NormalDot   *Empty `xml:"normal-dot"`
}

type Notations struct {
	Tied          []Tied         `xml:"tied"`
	Slurs         []Slur         `xml:"slur"`
	Tuplets       []Tuplet       `xml:"tuplet"`
	Ornaments     *Ornaments     `xml:"ornaments"`
	Articulations *Articulations `xml:"articulations"`
	Fermata       *Empty         `xml:"fermata"`
	Arpeggiate    *Empty         `xml:"arpeggiate"`
}

type Tied struct {
	Type string `xml:"type,attr"`
}

type Slur struct {
	Type   string `xml:"type,attr"`
	Number string `xml:"number,attr,omitempty"`
}

type Tuplet struct {
	Type   string `xml:"type,attr"`
	Number string `xml:"number,attr,omitempty"`
}

type Ornaments struct {
	TrillMark      *Empty `xml:"trill-mark"`
	AccidentalMark string `xml:"accidental-mark,omitempty"`
}

type Articulations struct {
	Marks []Mark `xml:",any"`
}
