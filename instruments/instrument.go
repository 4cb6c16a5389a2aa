package instruments

import (
	"errors"
	"log/slog"

	"github.com/Conceptual-Machines/fretwise/theory"
)

var ErrInvalidConfiguration = errors.New("invalid instrument configuration")

var logger = slog.Default()

// SetLogger replaces the package logger. It is not safe to call while the
// package is in use.
func SetLogger(l *slog.Logger) { logger = l }

// Coordinate locates a position on a fretted board. Keyboards use String 0
// and the key index as Fret.
type Coordinate struct {
	String int
	Fret   int
}

// Class is one equivalence class: every position sounding a note equal (by
// rounded frequency) to Note. Note is the first note seen for the class.
type Class struct {
	Note      theory.Note
	Positions []int
}

// Instrument maps flat positions to notes and back. Implementations are
// built once by their constructor and never change afterwards.
type Instrument interface {
	Name() string
	// Size is the number of positions; they are 0..Size()-1.
	Size() int
	NoteAt(position int) (theory.Note, bool)
	// Lookup returns the positions sounding note, or false if none do.
	Lookup(note theory.Note) ([]int, bool)
	// Classes returns the equivalence classes in the order they were built.
	Classes() []Class
	Coordinates(position int) Coordinate
	// Play resolves each note to its positions. Unmapped notes yield nil.
	Play(notes []theory.Note) [][]int
}

// positionMap is the shared position<->note relation.
type positionMap struct {
	notes   []theory.Note
	classes []Class
	byKey   map[int]int // rounded pitch -> index into classes
}

func newPositionMap(size int) positionMap {
	return positionMap{
		notes: make([]theory.Note, 0, size),
		byKey: make(map[int]int),
	}
}

// add records note at the next position, which must be len(m.notes).
func (m *positionMap) add(note theory.Note) {
	position := len(m.notes)
	m.notes = append(m.notes, note)

	if i, ok := m.byKey[note.Key()]; ok {
		m.classes[i].Positions = append(m.classes[i].Positions, position)
		return
	}
	m.byKey[note.Key()] = len(m.classes)
	m.classes = append(m.classes, Class{Note: note, Positions: []int{position}})
}

func (m *positionMap) Size() int { return len(m.notes) }

func (m *positionMap) NoteAt(position int) (theory.Note, bool) {
	if position < 0 || position >= len(m.notes) {
		return theory.Note{}, false
	}
	return m.notes[position], true
}

func (m *positionMap) Lookup(note theory.Note) ([]int, bool) {
	i, ok := m.byKey[note.Key()]
	if !ok {
		return nil, false
	}
	return append([]int(nil), m.classes[i].Positions...), true
}

func (m *positionMap) Classes() []Class {
	out := make([]Class, len(m.classes))
	for i, c := range m.classes {
		out[i] = Class{Note: c.Note, Positions: append([]int(nil), c.Positions...)}
	}
	return out
}

func (m *positionMap) Play(notes []theory.Note) [][]int {
	out := make([][]int, len(notes))
	for i, n := range notes {
		positions, ok := m.Lookup(n)
		if !ok {
			logger.Debug("instrument: note has no position", "note", n.String())
			continue
		}
		out[i] = positions
	}
	return out
}
