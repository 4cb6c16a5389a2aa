package theory

import (
	"fmt"
	"iter"
	"strings"
)

// Scale is a fixed sequence of notes generated from a base note and a list
// of semitone steps. The last step only closes the octave and produces no
// note of its own.
type Scale struct {
	Name      string
	Base      Note
	intervals []int
	notes     []Note
}

// NewScale generates a scale from base by successive intervals.
func NewScale(name string, base Note, intervals []int) (*Scale, error) {
	index, err := Index(base.Name)
	if err != nil {
		return nil, fmt.Errorf("invalid scale base: %w", err)
	}

	s := &Scale{
		Name:      name,
		Base:      base,
		intervals: append([]int(nil), intervals...),
		notes:     make([]Note, 0, len(intervals)),
	}
	s.notes = append(s.notes, base)

	current := base
	if len(intervals) == 0 {
		return s, nil
	}
	for _, interval := range intervals[:len(intervals)-1] {
		index += interval
		current = Note{
			Name:  NameAt(index, 0),
			Pitch: GetPitch(current.Pitch, interval),
		}
		s.notes = append(s.notes, current)
	}
	return s, nil
}

// NewKindScale is NewScale over one of the built-in interval tables.
func NewKindScale(base Note, kind ScaleKind) (*Scale, error) {
	steps, err := ScaleIntervals(kind)
	if err != nil {
		return nil, err
	}
	return NewScale(string(kind), base, steps)
}

// NewModeScale is NewScale over a rotation of the major scale.
func NewModeScale(base Note, mode string) (*Scale, error) {
	steps, err := ModeIntervals(mode)
	if err != nil {
		return nil, err
	}
	return NewScale(mode, base, steps)
}

// Len returns the number of notes in the scale.
func (s *Scale) Len() int { return len(s.notes) }

// At returns the i-th degree, counting from 1 and wrapping in both
// directions, so At(0) is the last degree.
func (s *Scale) At(i int) Note {
	n := len(s.notes)
	j := (i - 1) % n
	if j < 0 {
		j += n
	}
	return s.notes[j]
}

// Intervals returns a copy of the generating steps.
func (s *Scale) Intervals() []int {
	return append([]int(nil), s.intervals...)
}

// Notes returns a copy of the scale's notes.
func (s *Scale) Notes() []Note {
	return append([]Note(nil), s.notes...)
}

// All iterates the notes in order.
func (s *Scale) All() iter.Seq[Note] {
	return func(yield func(Note) bool) {
		for _, n := range s.notes {
			if !yield(n) {
				return
			}
		}
	}
}

func (s *Scale) String() string {
	parts := make([]string, len(s.notes))
	for i, n := range s.notes {
		parts[i] = n.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
