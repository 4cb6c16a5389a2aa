// Package fingering picks, for a sequence of notes, the playable positions
// that minimise total hand travel on an instrument.
//
// The search is exhaustive over the cross product of every note's candidate
// positions. It is exact, and only practical because boards are small and
// voicings short.
package fingering

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"math"
	"time"

	"github.com/Conceptual-Machines/fretwise/instruments"
	"github.com/Conceptual-Machines/fretwise/metrics"
	"github.com/Conceptual-Machines/fretwise/theory"
)

var (
	// ErrNoSolution means some target note has no position on the board.
	ErrNoSolution = errors.New("no fingering: a note has no position on the instrument")
	// ErrSearchTooLarge means the cross product exceeds the configured bound.
	ErrSearchTooLarge = errors.New("fingering search space too large")
)

// DefaultMaxCombinations leaves the cross product unbounded. Eight notes on
// a 24-fret six-string guitar is 12^8 combinations and must still solve.
const DefaultMaxCombinations = 0

var logger = slog.Default()

// SetLogger replaces the package logger. It is not safe to call while the
// package is in use.
func SetLogger(l *slog.Logger) { logger = l }

// Board is what the analyzer needs from an instrument.
type Board interface {
	Name() string
	Classes() []instruments.Class
	Coordinates(position int) instruments.Coordinate
}

// Analyzer searches fingerings on one board. It keeps no per-search state
// and may be shared between goroutines.
type Analyzer struct {
	board           Board
	metrics         *metrics.SentryMetrics
	maxCombinations int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithMetrics records every Fingering call as a Sentry span.
func WithMetrics(m *metrics.SentryMetrics) Option {
	return func(a *Analyzer) { a.metrics = m }
}

// WithMaxCombinations changes the search bound. n <= 0 removes it.
func WithMaxCombinations(n int) Option {
	return func(a *Analyzer) { a.maxCombinations = n }
}

// NewAnalyzer returns an analyzer over board.
func NewAnalyzer(board Board, opts ...Option) *Analyzer {
	a := &Analyzer{
		board:           board,
		metrics:         metrics.Disabled(),
		maxCombinations: DefaultMaxCombinations,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Candidates expands every target into the positions of all classes sharing
// its pitch-class name, whatever their octave. Targets are matched by name
// only; their frequency is ignored. Class order, and position order inside a
// class, follow the board.
func (a *Analyzer) Candidates(notes []theory.Note) [][]int {
	classes := a.board.Classes()
	out := make([][]int, len(notes))
	for i, note := range notes {
		name, err := theory.Canonical(note.Name)
		if err != nil {
			name = note.Name
		}
		var positions []int
		for _, class := range classes {
			if class.Note.Name == name {
				positions = append(positions, class.Positions...)
			}
		}
		if len(positions) == 0 {
			logger.Warn("fingering: note has no position", "note", note.Name, "instrument", a.board.Name())
		}
		out[i] = positions
	}
	return out
}

// Distance is the Euclidean distance between two positions, with strings
// counted from 1.
func (a *Analyzer) Distance(p1, p2 int) float64 {
	return EuclideanDistance(a.point(p1), a.point(p2))
}

func (a *Analyzer) point(position int) Point {
	c := a.board.Coordinates(position)
	return Point{X: c.String + 1, Y: c.Fret}
}

// Point is a coordinate pair for the distance metric.
type Point struct {
	X, Y int
}

// EuclideanDistance returns the straight-line distance between two points.
func EuclideanDistance(p1, p2 Point) float64 {
	dx := float64(p2.X - p1.X)
	dy := float64(p2.Y - p1.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// PathDistance sums the distances between consecutive positions.
func (a *Analyzer) PathDistance(positions []int) float64 {
	total := 0.0
	for i := 0; i+1 < len(positions); i++ {
		total += a.Distance(positions[i], positions[i+1])
	}
	return total
}

// Combination is one choice of position per note.
type Combination struct {
	Positions []int
	Distance  float64
	// Evaluated is the number of combinations compared to find this one.
	Evaluated int
}

// SearchSize returns the number of combinations in the cross product of
// candidates, or -1 if it overflows an int.
func SearchSize(candidates [][]int) int {
	size := 1
	for _, c := range candidates {
		if len(c) == 0 {
			return 0
		}
		if size > math.MaxInt/len(c) {
			return -1
		}
		size *= len(c)
	}
	return size
}

// LeastDistance walks the cross product of candidates, last set varying
// fastest, and returns the combination with the smallest path distance. Ties
// keep the first combination reached. An empty candidate set means there is
// nothing to play and yields ErrNoSolution. No candidate sets at all yield
// an empty combination.
func (a *Analyzer) LeastDistance(candidates [][]int) (Combination, error) {
	size := SearchSize(candidates)
	if size == 0 {
		for i, c := range candidates {
			if len(c) == 0 {
				return Combination{}, fmt.Errorf("%w: note %d", ErrNoSolution, i)
			}
		}
	}
	if a.maxCombinations > 0 && (size < 0 || size > a.maxCombinations) {
		return Combination{}, fmt.Errorf("%w: %d candidate sets exceed %d combinations",
			ErrSearchTooLarge, len(candidates), a.maxCombinations)
	}

	k := len(candidates)
	odometer := make([]int, k)
	current := make([]int, k)
	best := Combination{Distance: math.Inf(1)}

	// Coordinates are resolved once per candidate, not once per combination.
	points := make([][]Point, k)
	for i, c := range candidates {
		points[i] = make([]Point, len(c))
		for j, p := range c {
			points[i][j] = a.point(p)
		}
	}

	for {
		d := 0.0
		for i, c := range candidates {
			current[i] = c[odometer[i]]
			if i > 0 {
				d += EuclideanDistance(points[i-1][odometer[i-1]], points[i][odometer[i]])
			}
		}
		best.Evaluated++
		if d < best.Distance {
			best.Distance = d
			best.Positions = append(best.Positions[:0], current...)
		}

		// Advance, rightmost digit first.
		i := k - 1
		for ; i >= 0; i-- {
			odometer[i]++
			if odometer[i] < len(candidates[i]) {
				break
			}
			odometer[i] = 0
		}
		if i < 0 {
			break
		}
	}

	if best.Positions == nil {
		best.Positions = []int{}
	}
	return best, nil
}

// Result is the chosen fingering for a sequence of notes.
type Result struct {
	Instrument   string
	Notes        []theory.Note
	Positions    []int
	Distance     float64
	Combinations int

	board Board
}

// Coordinates yields (string, fret) for each chosen position in note order.
// It can be ranged over repeatedly.
func (r *Result) Coordinates() iter.Seq[instruments.Coordinate] {
	return func(yield func(instruments.Coordinate) bool) {
		for _, p := range r.Positions {
			if !yield(r.board.Coordinates(p)) {
				return
			}
		}
	}
}

// Steps pairs each note with its chosen coordinate.
func (r *Result) Steps() iter.Seq2[theory.Note, instruments.Coordinate] {
	return func(yield func(theory.Note, instruments.Coordinate) bool) {
		for i, p := range r.Positions {
			if !yield(r.Notes[i], r.board.Coordinates(p)) {
				return
			}
		}
	}
}

// Fingering finds the least-travel way to play notes in order.
func (a *Analyzer) Fingering(ctx context.Context, notes []theory.Note) (*Result, error) {
	startTime := time.Now()

	candidates := a.Candidates(notes)
	total := 0
	for _, c := range candidates {
		total += len(c)
	}

	best, err := a.LeastDistance(candidates)
	a.metrics.RecordOptimization(ctx, metrics.Optimization{
		Instrument:   a.board.Name(),
		Notes:        len(notes),
		Candidates:   total,
		Combinations: best.Evaluated,
		Distance:     best.Distance,
		Duration:     time.Since(startTime),
		Err:          err,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("fingering: search done",
		"instrument", a.board.Name(),
		"notes", len(notes),
		"candidates", total,
		"combinations", best.Evaluated,
		"distance", best.Distance,
		"elapsed", time.Since(startTime),
	)

	return &Result{
		Instrument:   a.board.Name(),
		Notes:        append([]theory.Note(nil), notes...),
		Positions:    best.Positions,
		Distance:     best.Distance,
		Combinations: best.Evaluated,
		board:        a.board,
	}, nil
}
