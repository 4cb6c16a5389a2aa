package fingering

import (
	"context"
	"math"
	"slices"
	"testing"

	"github.com/Conceptual-Machines/fretwise/instruments"
	"github.com/Conceptual-Machines/fretwise/metrics"
	"github.com/Conceptual-Machines/fretwise/theory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoStringBoard is C and F strings with 8 positions each:
//
//	string 0: C  C# D  Eb E  F  F# G     positions 0-7
//	string 1: F  F# G  G# A  Bb B  C     positions 8-15
func twoStringBoard(t *testing.T) *instruments.Guitar {
	t.Helper()
	g, err := instruments.NewGuitar(2, 8, []theory.Note{
		theory.NewNote("C", 130.81),
		theory.NewNote("F", 174.61),
	})
	require.NoError(t, err)
	return g
}

func TestCandidates(t *testing.T) {
	a := NewAnalyzer(twoStringBoard(t))

	got := a.Candidates([]theory.Note{
		theory.NewNote("F", 0),
		theory.NewNote("C", 9999), // frequency is ignored
		theory.NewNote("Db", 0),
		theory.NewNote("A", 0),
	})

	require.Len(t, got, 4)
	assert.Equal(t, []int{5, 8}, got[0])
	// Two C classes: 130.81 Hz on string 0, 261.63 Hz on string 1
	assert.Equal(t, []int{0, 15}, got[1])
	assert.Equal(t, []int{1}, got[2])
	assert.Equal(t, []int{12}, got[3])
}

func TestDistance(t *testing.T) {
	a := NewAnalyzer(twoStringBoard(t))

	assert.Equal(t, 0.0, a.Distance(3, 3))
	assert.Equal(t, 2.0, a.Distance(5, 7))
	assert.InDelta(t, math.Sqrt(10), a.Distance(5, 10), 1e-12)
	assert.InDelta(t, math.Sqrt(50), a.Distance(8, 7), 1e-12)
	assert.Equal(t, a.Distance(8, 7), a.Distance(7, 8))
}

func TestEuclideanDistance(t *testing.T) {
	assert.Equal(t, 5.0, EuclideanDistance(Point{1, 1}, Point{4, 5}))
	assert.Equal(t, 0.0, EuclideanDistance(Point{2, 2}, Point{2, 2}))
}

func TestFingering_HandComputed(t *testing.T) {
	a := NewAnalyzer(twoStringBoard(t))

	// F: {5 (1,5), 8 (2,0)}; G: {7 (1,7), 10 (2,2)}
	//   (5,7)=2  (5,10)=sqrt(10)  (8,7)=sqrt(50)  (8,10)=2
	// (5,7) and (8,10) tie; the first one enumerated wins.
	result, err := a.Fingering(context.Background(), []theory.Note{
		theory.NewNote("F", 0),
		theory.NewNote("G", 0),
	})
	require.NoError(t, err)

	assert.Equal(t, []int{5, 7}, result.Positions)
	assert.Equal(t, 2.0, result.Distance)
	assert.Equal(t, 4, result.Combinations)
	assert.Equal(t, "guitar", result.Instrument)
	assert.Equal(t,
		[]instruments.Coordinate{{String: 0, Fret: 5}, {String: 0, Fret: 7}},
		slices.Collect(result.Coordinates()))
}

func TestFingering_PrefersCrossingStrings(t *testing.T) {
	a := NewAnalyzer(twoStringBoard(t))

	// C: {0 (1,0), 15 (2,7)}; G: {7 (1,7), 10 (2,2)}; B: {14 (2,6)}
	//   0,7,14   = 7 + sqrt(2)
	//   0,10,14  = sqrt(5) + 4
	//   15,7,14  = 1 + sqrt(2)
	//   15,10,14 = 5 + 4
	result, err := a.Fingering(context.Background(), []theory.Note{
		theory.NewNote("C", 0),
		theory.NewNote("G", 0),
		theory.NewNote("B", 0),
	})
	require.NoError(t, err)

	assert.Equal(t, []int{15, 7, 14}, result.Positions)
	assert.InDelta(t, 1+math.Sqrt2, result.Distance, 1e-12)
}

func TestFingering_MatchesBruteForce(t *testing.T) {
	g := instruments.NewStandardGuitar()
	a := NewAnalyzer(g)

	voicings := [][]string{
		{"C", "E", "G"},
		{"A", "C", "E", "G"},
		{"E", "B", "E"},
		{"F#", "Bb", "C#"},
	}
	for _, names := range voicings {
		var notes []theory.Note
		for _, n := range names {
			notes = append(notes, theory.NewNote(n, 0))
		}

		result, err := a.Fingering(context.Background(), notes)
		require.NoError(t, err)

		bestPositions, bestDistance := bruteForce(a, a.Candidates(notes))
		assert.Equal(t, bestPositions, result.Positions, "%v", names)
		assert.InDelta(t, bestDistance, result.Distance, 1e-12, "%v", names)
		assert.Equal(t, bestDistance, a.PathDistance(result.Positions))

		for i, p := range result.Positions {
			note, ok := g.NoteAt(p)
			require.True(t, ok)
			assert.Equal(t, names[i], note.Name)
		}
	}
}

// bruteForce enumerates recursively in the same order and keeps the first
// strictly smaller distance.
func bruteForce(a *Analyzer, candidates [][]int) ([]int, float64) {
	var best []int
	bestDistance := math.Inf(1)
	current := make([]int, 0, len(candidates))

	var walk func(depth int)
	walk = func(depth int) {
		if depth == len(candidates) {
			d := 0.0
			for i := 0; i+1 < len(current); i++ {
				d += a.Distance(current[i], current[i+1])
			}
			if d < bestDistance {
				bestDistance = d
				best = append([]int(nil), current...)
			}
			return
		}
		for _, p := range candidates[depth] {
			current = append(current, p)
			walk(depth + 1)
			current = current[:len(current)-1]
		}
	}
	walk(0)
	return best, bestDistance
}

func TestFingering_NoSolution(t *testing.T) {
	a := NewAnalyzer(twoStringBoard(t))

	// Nothing on this board is named "X".
	result, err := a.Fingering(context.Background(), []theory.Note{
		theory.NewNote("C", 0),
		theory.NewNote("X", 0),
	})
	assert.ErrorIs(t, err, ErrNoSolution)
	assert.Nil(t, result)
}

func TestFingering_PitchClassMissing(t *testing.T) {
	g, err := instruments.NewGuitar(1, 3, []theory.Note{theory.NewNote("C", 130.81)})
	require.NoError(t, err)
	a := NewAnalyzer(g)

	_, err = a.Fingering(context.Background(), []theory.Note{theory.NewNote("A", 440)})
	assert.ErrorIs(t, err, ErrNoSolution)
}

func TestFingering_SingleCombination(t *testing.T) {
	a := NewAnalyzer(twoStringBoard(t))

	result, err := a.Fingering(context.Background(), []theory.Note{
		theory.NewNote("D", 0),
		theory.NewNote("A", 0),
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 12}, result.Positions)
	assert.Equal(t, 1, result.Combinations)
	assert.InDelta(t, math.Sqrt(5), result.Distance, 1e-12)
}

func TestFingering_SingleNote(t *testing.T) {
	a := NewAnalyzer(twoStringBoard(t))

	result, err := a.Fingering(context.Background(), []theory.Note{theory.NewNote("F", 0)})
	require.NoError(t, err)
	assert.Equal(t, []int{5}, result.Positions)
	assert.Equal(t, 0.0, result.Distance)
}

func TestFingering_NoNotes(t *testing.T) {
	a := NewAnalyzer(twoStringBoard(t))

	result, err := a.Fingering(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Positions)
	assert.Equal(t, 0.0, result.Distance)
	assert.Empty(t, slices.Collect(result.Coordinates()))
}

func TestFingering_Piano(t *testing.T) {
	p := instruments.NewStandardPiano()
	a := NewAnalyzer(p, WithMetrics(metrics.NewSentryMetrics()))

	result, err := a.Fingering(context.Background(), []theory.Note{
		theory.NewNote("C", 0),
		theory.NewNote("E", 0),
	})
	require.NoError(t, err)
	require.Len(t, result.Positions, 2)
	// Closest C/E pair on one row is a major third apart.
	assert.Equal(t, 4.0, result.Distance)
	assert.Equal(t, "piano", result.Instrument)

	steps := 0
	for note, c := range result.Steps() {
		assert.Equal(t, 0, c.String)
		key, _ := p.NoteAt(c.Fret)
		assert.Equal(t, note.Name, key.Name)
		steps++
	}
	assert.Equal(t, 2, steps)
}

func TestFingering_SearchTooLarge(t *testing.T) {
	a := NewAnalyzer(instruments.NewStandardGuitar(), WithMaxCombinations(10))

	_, err := a.Fingering(context.Background(), []theory.Note{
		theory.NewNote("C", 0),
		theory.NewNote("E", 0),
	})
	assert.ErrorIs(t, err, ErrSearchTooLarge)

	unbounded := NewAnalyzer(instruments.NewStandardGuitar(), WithMaxCombinations(0))
	_, err = unbounded.Fingering(context.Background(), []theory.Note{
		theory.NewNote("C", 0),
		theory.NewNote("E", 0),
	})
	assert.NoError(t, err)
}

func TestFingering_SevenNoteVoicingIsUnbounded(t *testing.T) {
	if testing.Short() {
		t.Skip("walks 12^7 combinations twice")
	}
	a := NewAnalyzer(instruments.NewStandardGuitar())

	var notes []theory.Note
	for _, n := range []string{"C", "D", "E", "F", "G", "A", "B"} {
		notes = append(notes, theory.NewNote(n, 0))
	}
	candidates := a.Candidates(notes)
	require.Equal(t, 35_831_808, SearchSize(candidates))

	result, err := a.Fingering(context.Background(), notes)
	require.NoError(t, err)
	assert.Equal(t, 35_831_808, result.Combinations)

	bestPositions, bestDistance := bruteForce(a, candidates)
	assert.Equal(t, bestPositions, result.Positions)
	assert.Equal(t, bestDistance, result.Distance)
}

func TestSearchSize(t *testing.T) {
	assert.Equal(t, 1, SearchSize(nil))
	assert.Equal(t, 6, SearchSize([][]int{{1, 2}, {3, 4, 5}}))
	assert.Equal(t, 0, SearchSize([][]int{{1, 2}, {}}))

	huge := make([][]int, 70)
	for i := range huge {
		huge[i] = []int{1, 2}
	}
	assert.Equal(t, -1, SearchSize(huge))
}

func TestLeastDistance_KeepsFirstOfTies(t *testing.T) {
	a := NewAnalyzer(twoStringBoard(t))

	best, err := a.LeastDistance([][]int{{8, 5}, {10, 7}})
	require.NoError(t, err)
	// (8,10) is reached before (5,7) in this order; both are 2.
	assert.Equal(t, []int{8, 10}, best.Positions)
	assert.Equal(t, 4, best.Evaluated)
}
