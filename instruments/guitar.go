package instruments

import (
	"fmt"

	"github.com/Conceptual-Machines/fretwise/theory"
)

const (
	DefaultStrings = 6
	DefaultFrets   = 24
)

// StandardTuning returns E A D G B E, low string first. Every call builds a
// new slice.
func StandardTuning() []theory.Note {
	return []theory.Note{
		theory.NewNote("E", 82.41),
		theory.NewNote("A", 110.00),
		theory.NewNote("D", 146.83),
		theory.NewNote("G", 196.00),
		theory.NewNote("B", 246.94),
		theory.NewNote("E", 329.63),
	}
}

// Guitar is a fretted instrument. Position = string*frets + fret, where fret
// 0 is the open string and frets counts the positions per string.
type Guitar struct {
	positionMap
	strings int
	frets   int
	tuning  []theory.Note
}

// NewStandardGuitar returns a 6-string, 24-fret guitar in standard tuning.
func NewStandardGuitar() *Guitar {
	g, err := NewGuitar(DefaultStrings, DefaultFrets, StandardTuning())
	if err != nil {
		panic(err) // the defaults are always valid
	}
	return g
}

// NewGuitar builds the position map of a guitar with one open-string note
// per string in tuning.
func NewGuitar(strings, frets int, tuning []theory.Note) (*Guitar, error) {
	if strings <= 0 {
		return nil, fmt.Errorf("%w: strings must be positive, got %d", ErrInvalidConfiguration, strings)
	}
	if frets <= 0 {
		return nil, fmt.Errorf("%w: frets must be positive, got %d", ErrInvalidConfiguration, frets)
	}
	if len(tuning) != strings {
		return nil, fmt.Errorf("%w: %d strings but %d tuning notes", ErrInvalidConfiguration, strings, len(tuning))
	}

	g := &Guitar{
		positionMap: newPositionMap(strings * frets),
		strings:     strings,
		frets:       frets,
		tuning:      append([]theory.Note(nil), tuning...),
	}

	for s, open := range g.tuning {
		index, err := theory.Index(open.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: string %d: %w", ErrInvalidConfiguration, s, err)
		}
		for fret := 0; fret < frets; fret++ {
			g.add(theory.NewNote(
				theory.NameAt(index, fret),
				theory.GetPitch(open.Pitch, fret),
			))
		}
	}

	logger.Debug("guitar: built",
		"strings", strings,
		"frets", frets,
		"positions", g.Size(),
		"classes", len(g.classes),
	)
	return g, nil
}

func (g *Guitar) Name() string { return "guitar" }

// Strings returns the number of strings.
func (g *Guitar) Strings() int { return g.strings }

// Frets returns the number of positions per string.
func (g *Guitar) Frets() int { return g.frets }

// Tuning returns a copy of the open-string notes.
func (g *Guitar) Tuning() []theory.Note {
	return append([]theory.Note(nil), g.tuning...)
}

// Coordinates splits a position into (string, fret).
func (g *Guitar) Coordinates(position int) Coordinate {
	return Coordinate{String: position / g.frets, Fret: position % g.frets}
}

// Position is the inverse of Coordinates.
func (g *Guitar) Position(c Coordinate) int {
	return c.String*g.frets + c.Fret
}
