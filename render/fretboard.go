package render

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"github.com/Conceptual-Machines/fretwise/fingering"
	"github.com/Conceptual-Machines/fretwise/instruments"
	"github.com/Conceptual-Machines/fretwise/theory"
)

// DefaultMarkerColor is used when a marker has no color.
const DefaultMarkerColor = "dodgerblue"

const (
	fretSpacing   = 48
	stringSpacing = 24
	margin        = 40
	markerRadius  = 9
)

var inlays = map[int]bool{3: true, 5: true, 7: true, 9: true, 12: true, 15: true, 17: true, 19: true, 21: true, 24: true}

// Marker is a dot on the diagram.
type Marker struct {
	String int
	Fret   int
	Label  string
	Color  string
}

// Fretboard collects markers and draws them over a horizontal neck, lowest
// string at the bottom.
type Fretboard struct {
	Strings   int
	FirstFret int
	LastFret  int

	markers []Marker
}

// NewFretboard shows frets first through last. Fret 0 markers are drawn
// left of the nut.
func NewFretboard(nstrings, first, last int) (*Fretboard, error) {
	if nstrings <= 0 {
		return nil, fmt.Errorf("fretboard needs at least one string, got %d", nstrings)
	}
	if first < 1 || last < first {
		return nil, fmt.Errorf("invalid fret range %d-%d", first, last)
	}
	return &Fretboard{Strings: nstrings, FirstFret: first, LastFret: last}, nil
}

// AddMarker places a labelled dot. Markers off the visible range are kept
// but not drawn.
func (f *Fretboard) AddMarker(str, fret int, label, color string) {
	if color == "" {
		color = DefaultMarkerColor
	}
	f.markers = append(f.markers, Marker{String: str, Fret: fret, Label: label, Color: color})
}

// Markers returns a copy of the markers added so far.
func (f *Fretboard) Markers() []Marker {
	return append([]Marker(nil), f.markers...)
}

// Visible reports whether a marker falls on the drawn part of the neck.
func (f *Fretboard) Visible(m Marker) bool {
	if m.String < 0 || m.String >= f.Strings {
		return false
	}
	if m.Fret == 0 {
		return f.FirstFret == 1
	}
	return m.Fret >= f.FirstFret && m.Fret <= f.LastFret
}

// MarkFingering adds one marker per chosen position, labelled with the
// note name.
func (f *Fretboard) MarkFingering(result *fingering.Result, color string) {
	for note, c := range result.Steps() {
		f.AddMarker(c.String, c.Fret, note.Name, color)
	}
}

// MarkClasses adds a marker on every position that sounds one of notes.
func (f *Fretboard) MarkClasses(inst instruments.Instrument, notes []theory.Note, color string) {
	for _, n := range notes {
		positions, ok := inst.Lookup(n)
		if !ok {
			logger.Warn("fretboard: note not on instrument", "note", n.String(), "instrument", inst.Name())
			continue
		}
		for _, p := range positions {
			c := inst.Coordinates(p)
			f.AddMarker(c.String, c.Fret, n.Name, color)
		}
	}
}

func (f *Fretboard) size() (int, int) {
	frets := f.LastFret - f.FirstFret + 1
	return 2*margin + frets*fretSpacing, 2*margin + (f.Strings-1)*stringSpacing
}

func (f *Fretboard) stringY(s int) int {
	return margin + (f.Strings-1-s)*stringSpacing
}

// fretX is the centre of the space behind fret.
func (f *Fretboard) fretX(fret int) int {
	if fret == 0 {
		return margin - fretSpacing/3
	}
	return margin + (fret-f.FirstFret)*fretSpacing + fretSpacing/2
}

// Render writes the diagram as SVG.
func (f *Fretboard) Render(w io.Writer) error {
	var buf bytes.Buffer
	width, height := f.size()
	top, bottom := f.stringY(f.Strings-1), f.stringY(0)
	right := margin + (f.LastFret-f.FirstFret+1)*fretSpacing

	canvas := svg.New(&buf)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:white")

	// Inlays sit between the middle strings.
	middle := (top + bottom) / 2
	for fret := f.FirstFret; fret <= f.LastFret; fret++ {
		if inlays[fret] {
			canvas.Circle(f.fretX(fret), middle, 5, "fill:#dddddd")
		}
	}

	nut := "stroke:black;stroke-width:1"
	if f.FirstFret == 1 {
		nut = "stroke:black;stroke-width:5"
	}
	canvas.Line(margin, top, margin, bottom, nut)
	for i := 1; i <= f.LastFret-f.FirstFret+1; i++ {
		x := margin + i*fretSpacing
		canvas.Line(x, top, x, bottom, "stroke:#888888;stroke-width:2")
	}
	for s := 0; s < f.Strings; s++ {
		y := f.stringY(s)
		canvas.Line(margin, y, right, y, "stroke:#444444;stroke-width:"+strconv.Itoa(1+(f.Strings-1-s)/2))
	}

	if f.FirstFret > 1 {
		canvas.Text(margin+fretSpacing/2, bottom+margin/2+4, strconv.Itoa(f.FirstFret),
			"text-anchor:middle;font-size:11px;font-family:sans-serif;fill:#444444")
	}

	hidden := 0
	for _, m := range f.markers {
		if !f.Visible(m) {
			hidden++
			continue
		}
		x, y := f.fretX(m.Fret), f.stringY(m.String)
		canvas.Circle(x, y, markerRadius, "fill:"+m.Color+";stroke:white;stroke-width:1")
		if m.Label != "" {
			canvas.Text(x, y+4, m.Label, "text-anchor:middle;font-size:10px;font-family:sans-serif;fill:white")
		}
	}
	canvas.End()

	if hidden > 0 {
		logger.Debug("fretboard: markers outside range", "hidden", hidden, "first", f.FirstFret, "last", f.LastFret)
	}

	_, err := w.Write(buf.Bytes())
	return err
}
