package theory

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"strings"
)

var (
	ErrUnknownNote         = errors.New("unknown note name")
	ErrInvalidMode         = errors.New("invalid mode")
	ErrInvalidChordQuality = errors.New("invalid chord quality")
	ErrInvalidScale        = errors.New("invalid scale")
)

// SemitonesPerOctave is the size of the chromatic table.
const SemitonesPerOctave = 12

// ReferencePitch is A4 in Hz.
const ReferencePitch = 440.0

var chromatic = [SemitonesPerOctave]string{
	"C", "C#", "D", "Eb", "E", "F", "F#", "G", "G#", "A", "Bb", "B",
}

// Spellings that are not in the chromatic table but name the same pitch class.
var enharmonics = map[string]string{
	"B#": "C",
	"Db": "C#",
	"D#": "Eb",
	"Fb": "E",
	"E#": "F",
	"Gb": "F#",
	"Ab": "G#",
	"A#": "Bb",
	"Cb": "B",
}

// Chromatic returns the twelve pitch-class names starting at C.
func Chromatic() []string {
	out := make([]string, SemitonesPerOctave)
	copy(out, chromatic[:])
	return out
}

// Canonical returns the chromatic-table spelling of name.
func Canonical(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len(name) == 0 {
		return "", fmt.Errorf("%w: empty name", ErrUnknownNote)
	}
	// Accept lower-case roots ("c#", "eb")
	name = strings.ToUpper(name[:1]) + name[1:]
	for _, n := range chromatic {
		if n == name {
			return n, nil
		}
	}
	if n, ok := enharmonics[name]; ok {
		return n, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownNote, name)
}

// Index returns the position of name in the chromatic table.
func Index(name string) (int, error) {
	canonical, err := Canonical(name)
	if err != nil {
		return 0, err
	}
	for i, n := range chromatic {
		if n == canonical {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownNote, name)
}

// NameAt returns the pitch-class name offset semitones above the table index.
// Negative offsets wrap downwards.
func NameAt(index, offset int) string {
	i := (index + offset) % SemitonesPerOctave
	if i < 0 {
		i += SemitonesPerOctave
	}
	return chromatic[i]
}

// GetPitch applies interval semitones to pitch under equal temperament.
// There is no range checking.
func GetPitch(pitch float64, interval int) float64 {
	return math.Pow(2, float64(interval)/SemitonesPerOctave) * pitch
}

// NoteStream yields exactly n pitch-class names cycling the chromatic table
// from start. The sequence can be ranged over any number of times.
func NoteStream(start string, n int) (iter.Seq[string], error) {
	index, err := Index(start)
	if err != nil {
		return nil, err
	}
	return func(yield func(string) bool) {
		for i := 0; i < n; i++ {
			if !yield(chromatic[(index+i)%SemitonesPerOctave]) {
				return
			}
		}
	}, nil
}
