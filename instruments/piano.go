package instruments

import (
	"fmt"

	"github.com/Conceptual-Machines/fretwise/theory"
)

const DefaultKeys = 88

// LowA is A0, the lowest key of a standard piano.
func LowA() theory.Note {
	return theory.NewNote("A", 27.5)
}

// Piano is a keyboard; position is the key index from the lowest key.
type Piano struct {
	positionMap
	low theory.Note
}

// NewStandardPiano returns an 88-key piano starting at A0.
func NewStandardPiano() *Piano {
	p, err := NewPiano(DefaultKeys, LowA())
	if err != nil {
		panic(err) // the defaults are always valid
	}
	return p
}

// NewPiano builds numKeys semitone-spaced keys starting at low.
func NewPiano(numKeys int, low theory.Note) (*Piano, error) {
	if numKeys <= 0 {
		return nil, fmt.Errorf("%w: keys must be positive, got %d", ErrInvalidConfiguration, numKeys)
	}
	names, err := theory.NoteStream(low.Name, numKeys)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	p := &Piano{positionMap: newPositionMap(numKeys), low: low}
	note := low
	i := 0
	for name := range names {
		if i != 0 {
			note = theory.NewNote(name, theory.GetPitch(note.Pitch, 1))
		}
		p.add(note)
		i++
	}

	logger.Debug("piano: built", "keys", p.Size(), "low", low.String())
	return p, nil
}

func (p *Piano) Name() string { return "piano" }

// Low returns the note of key 0.
func (p *Piano) Low() theory.Note { return p.low }

// Key returns the key index of note. A piano has one key per pitch; if two
// keys ever round to the same Hz the highest one wins.
func (p *Piano) Key(note theory.Note) (int, bool) {
	positions, ok := p.Lookup(note)
	if !ok {
		return 0, false
	}
	return positions[len(positions)-1], true
}

// Keys resolves notes to key indices, nil where a note has no key.
func (p *Piano) Keys(notes []theory.Note) []*int {
	out := make([]*int, len(notes))
	for i, n := range notes {
		if k, ok := p.Key(n); ok {
			out[i] = &k
		}
	}
	return out
}

// Coordinates places every key on a single row.
func (p *Piano) Coordinates(position int) Coordinate {
	return Coordinate{String: 0, Fret: position}
}
