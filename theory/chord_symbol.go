package theory

import (
	"fmt"
	"strings"
)

// ChordSymbol is a parsed lead-sheet symbol such as "Am7" or "Em/G".
type ChordSymbol struct {
	Symbol  string
	Root    string
	Quality ChordQuality
	// Bass is the slash note, empty when the symbol has none.
	Bass string
}

// ParseChordSymbol reads a chord symbol. Supports: C, Cm, Cmin, Cmaj7, Cm7,
// Cmin7, C7, Cdim, and a slash bass (Em/G). Anything outside the chord
// tables (aug, sus, 9ths, ...) is ErrInvalidChordQuality.
func ParseChordSymbol(symbol string) (ChordSymbol, error) {
	base := strings.TrimSpace(symbol)
	bass := ""
	if before, after, ok := strings.Cut(base, "/"); ok {
		base = strings.TrimSpace(before)
		b, err := Canonical(strings.TrimSpace(after))
		if err != nil {
			return ChordSymbol{}, fmt.Errorf("invalid bass note in %q: %w", symbol, err)
		}
		bass = b
	}

	root, rest, err := splitRoot(base)
	if err != nil {
		return ChordSymbol{}, fmt.Errorf("invalid chord root in %q: %w", symbol, err)
	}

	quality, err := parseSuffix(rest)
	if err != nil {
		return ChordSymbol{}, fmt.Errorf("%q: %w", symbol, err)
	}

	return ChordSymbol{Symbol: symbol, Root: root, Quality: quality, Bass: bass}, nil
}

// splitRoot extracts the first 1-2 characters (C, C#, Db, ...) as the root.
func splitRoot(s string) (string, string, error) {
	if len(s) == 0 {
		return "", "", fmt.Errorf("%w: empty chord symbol", ErrUnknownNote)
	}
	n := 1
	if len(s) > 1 && (s[1] == '#' || s[1] == 'b') {
		n = 2
	}
	root, err := Canonical(s[:n])
	if err != nil {
		return "", "", err
	}
	return root, s[n:], nil
}

func parseSuffix(suffix string) (ChordQuality, error) {
	switch suffix {
	case "", "maj", "M":
		return Major, nil
	case "maj7", "M7":
		return Major7, nil
	case "m", "min", "-":
		return Minor, nil
	case "m7", "min7", "-7":
		return Minor7, nil
	case "7", "dom7":
		return Dominant7, nil
	case "dim", "o":
		return Diminished, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidChordQuality, suffix)
}

// Notes voices the chord above root, which must be named like the symbol's
// root. A slash bass is prepended one octave below root.
func (c ChordSymbol) Notes(root Note) ([]Note, error) {
	name, err := Canonical(root.Name)
	if err != nil {
		return nil, err
	}
	if name != c.Root {
		return nil, fmt.Errorf("root %s does not match chord %s", root.Name, c.Symbol)
	}

	intervals, err := TriadIntervals(c.Quality, 0)
	if err != nil {
		return nil, err
	}
	notes, err := Triad(Note{Name: name, Pitch: root.Pitch}, intervals)
	if err != nil {
		return nil, err
	}

	if c.Bass != "" {
		rootIndex, _ := Index(c.Root)
		bassIndex, _ := Index(c.Bass)
		offset := (bassIndex-rootIndex+SemitonesPerOctave)%SemitonesPerOctave - SemitonesPerOctave
		bass := Note{Name: c.Bass, Pitch: GetPitch(root.Pitch, offset)}
		notes = append([]Note{bass}, notes...)
	}
	return notes, nil
}

// ChordNotes parses symbol and voices it with the root in the octave of A4.
func ChordNotes(symbol string) ([]Note, error) {
	c, err := ParseChordSymbol(symbol)
	if err != nil {
		return nil, err
	}
	root, err := ParseNote(c.Root)
	if err != nil {
		return nil, err
	}
	return c.Notes(root)
}
