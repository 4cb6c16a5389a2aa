package theory

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Note is a pitch-class name sounding at a frequency in Hz.
//
// Two notes are equal when their frequencies round to the same whole Hz; the
// name plays no part. Rounding is not transitive: 100.4 and 100.6 are
// unequal while each can equal some third note, so equivalence classes built
// from Equal depend on insertion order.
type Note struct {
	Name  string
	Pitch float64
}

// NewNote returns a note with the given name and frequency.
func NewNote(name string, pitch float64) Note {
	return Note{Name: name, Pitch: pitch}
}

// Key is the frequency rounded half-to-even to a whole Hz. It is the only
// thing equality and map keys look at.
func (n Note) Key() int {
	return int(math.RoundToEven(n.Pitch))
}

// Equal reports whether both notes round to the same frequency.
func (n Note) Equal(o Note) bool {
	return n.Key() == o.Key()
}

// Transpose returns the note interval semitones away, spelled from the
// chromatic table.
func (n Note) Transpose(interval int) (Note, error) {
	index, err := Index(n.Name)
	if err != nil {
		return Note{}, err
	}
	return Note{Name: NameAt(index, interval), Pitch: GetPitch(n.Pitch, interval)}, nil
}

func (n Note) String() string {
	return fmt.Sprintf("%s(%.0f Hz)", n.Name, n.Pitch)
}

// ParseNote reads "C#" or "C#:277.18". A bare name sounds in the octave of
// A4 (C4 through B4).
func ParseNote(s string) (Note, error) {
	name, freq, hasFreq := strings.Cut(strings.TrimSpace(s), ":")
	canonical, err := Canonical(name)
	if err != nil {
		return Note{}, err
	}
	if hasFreq {
		pitch, err := strconv.ParseFloat(strings.TrimSpace(freq), 64)
		if err != nil {
			return Note{}, fmt.Errorf("invalid frequency %q: %w", freq, err)
		}
		if math.IsNaN(pitch) || math.IsInf(pitch, 0) || pitch <= 0 {
			return Note{}, fmt.Errorf("invalid frequency %q: must be a positive finite number", freq)
		}
		return Note{Name: canonical, Pitch: pitch}, nil
	}
	index, _ := Index(canonical)
	a, _ := Index("A")
	return Note{Name: canonical, Pitch: GetPitch(ReferencePitch, index-a)}, nil
}

// ParseNotes splits a comma or space separated list and parses every entry.
func ParseNotes(s string) ([]Note, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
	notes := make([]Note, 0, len(fields))
	for _, f := range fields {
		n, err := ParseNote(f)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// Triad builds one note per interval above root. With inverted intervals the
// first note is no longer at the root frequency.
func Triad(root Note, intervals []int) ([]Note, error) {
	index, err := Index(root.Name)
	if err != nil {
		return nil, fmt.Errorf("invalid triad root: %w", err)
	}
	notes := make([]Note, 0, len(intervals))
	for _, interval := range intervals {
		notes = append(notes, Note{
			Name:  NameAt(index, interval),
			Pitch: GetPitch(root.Pitch, interval),
		})
	}
	return notes, nil
}
