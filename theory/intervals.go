package theory

import "fmt"

// ChordQuality names a triad/seventh-chord interval table.
type ChordQuality string

const (
	Major      ChordQuality = "major"
	Major7     ChordQuality = "major_7"
	Minor      ChordQuality = "minor"
	Minor7     ChordQuality = "minor_7"
	Dominant7  ChordQuality = "dominant_7"
	Diminished ChordQuality = "diminished"
)

var chordIntervals = map[ChordQuality][]int{
	Major:      {0, 4, 7},
	Major7:     {0, 4, 7, 11},
	Minor:      {0, 3, 7},
	Minor7:     {0, 3, 7, 10},
	Dominant7:  {0, 4, 7, 10},
	Diminished: {0, 3, 6},
}

var chordAliases = map[string]ChordQuality{
	"dom_7": Dominant7,
	"dim":   Diminished,
}

// ScaleKind names a seven-step scale interval table.
type ScaleKind string

const (
	MajorScale      ScaleKind = "major"
	MinorScale      ScaleKind = "minor"
	DiminishedScale ScaleKind = "diminished"
)

var scaleIntervals = map[ScaleKind][]int{
	MajorScale:      {2, 2, 1, 2, 2, 2, 1},
	MinorScale:      {2, 1, 2, 2, 1, 2, 2},
	DiminishedScale: {2, 1, 2, 1, 2, 1, 2},
}

var modes = []string{
	"ionian",
	"dorian",
	"phrygian",
	"lydian",
	"mixolydian",
	"aeolian",
	"locrian",
}

// Modes returns the names accepted by ModeIntervals, in rotation order.
func Modes() []string {
	out := make([]string, len(modes))
	copy(out, modes)
	return out
}

// ParseChordQuality resolves a quality name, including the short aliases
// "dom_7" and "dim".
func ParseChordQuality(name string) (ChordQuality, error) {
	if q, ok := chordAliases[name]; ok {
		return q, nil
	}
	if _, ok := chordIntervals[ChordQuality(name)]; ok {
		return ChordQuality(name), nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidChordQuality, name)
}

// Invert rotates the first interval to the end, raised an octave, n times.
// The input slice is left untouched.
func Invert(intervals []int, n int) []int {
	out := make([]int, len(intervals))
	copy(out, intervals)
	if len(out) == 0 {
		return out
	}
	for i := 0; i < n; i++ {
		base := out[0] + SemitonesPerOctave
		out = append(out[1:], base)
	}
	return out
}

// Rotate moves the first interval to the end n times without raising it.
func Rotate(intervals []int, n int) []int {
	out := make([]int, len(intervals))
	if len(out) == 0 {
		return out
	}
	shift := n % len(out)
	if shift < 0 {
		shift += len(out)
	}
	for i := range out {
		out[i] = intervals[(i+shift)%len(out)]
	}
	return out
}

// TriadIntervals returns the semitone offsets of the chord quality, inverted
// inversion times.
func TriadIntervals(quality ChordQuality, inversion int) ([]int, error) {
	q, err := ParseChordQuality(string(quality))
	if err != nil {
		return nil, err
	}
	return Invert(chordIntervals[q], inversion), nil
}

// ScaleIntervals returns the step sizes of a scale kind.
func ScaleIntervals(kind ScaleKind) ([]int, error) {
	steps, ok := scaleIntervals[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidScale, kind)
	}
	return Invert(steps, 0), nil
}

// ModeIntervals returns the step sizes of a church mode as a rotation of the
// major scale. Steps are rotated, not octave-raised, so every mode still sums
// to twelve semitones.
func ModeIntervals(mode string) ([]int, error) {
	for i, m := range modes {
		if m == mode {
			return Rotate(scaleIntervals[MajorScale], i), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidMode, mode)
}
