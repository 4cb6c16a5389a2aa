// Package render turns notes and fingerings into artifacts: LilyPond
// scores, SVG fretboard diagrams and Standard MIDI Files.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/Conceptual-Machines/fretwise/metrics"
	"github.com/Conceptual-Machines/fretwise/theory"
)

var logger = slog.Default()

// SetLogger replaces the package logger. It is not safe to call while the
// package is in use.
func SetLogger(l *slog.Logger) { logger = l }

// LilyPondVersion is written at the top of every generated score.
const LilyPondVersion = "2.24.3"

var accidentals = map[byte]string{
	'#': "is",
	'b': "es",
}

// LilyPondNote spells a pitch-class name in LilyPond's default (Dutch)
// input language: "C#" -> "cis", "Eb" -> "ees".
func LilyPondNote(name string) (string, error) {
	canonical, err := theory.Canonical(name)
	if err != nil {
		return "", err
	}
	out := strings.ToLower(canonical[:1])
	if len(canonical) > 1 {
		suffix, ok := accidentals[canonical[1]]
		if !ok {
			return "", fmt.Errorf("%w: %q", theory.ErrUnknownNote, name)
		}
		out += suffix
	}
	return out, nil
}

// LilyPondSource builds a \relative score. The first note carries one
// octave mark so the melody starts around middle C.
func LilyPondSource(notes []theory.Note) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "\\version %q\n", LilyPondVersion)
	b.WriteString("\\relative {\n")
	for i, n := range notes {
		spelled, err := LilyPondNote(n.Name)
		if err != nil {
			return "", fmt.Errorf("note %d: %w", i, err)
		}
		b.WriteString(" ")
		b.WriteString(spelled)
		if i == 0 {
			b.WriteString("'")
		}
	}
	b.WriteString("\n}")
	return b.String(), nil
}

// Runner turns a score file into an image at outBase plus the runner's
// extension, and returns the image path.
type Runner interface {
	Run(ctx context.Context, sourcePath, outBase string) (string, error)
}

// ExecRunner invokes the lilypond binary.
type ExecRunner struct {
	Binary string // defaults to "lilypond"
	Format string // defaults to "png"
}

func (r ExecRunner) Run(ctx context.Context, sourcePath, outBase string) (string, error) {
	binary := r.Binary
	if binary == "" {
		binary = "lilypond"
	}
	format := r.Format
	if format == "" {
		format = "png"
	}

	cmd := exec.CommandContext(ctx, binary, "-o", outBase, "-f"+format, sourcePath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s failed: %w: %s", binary, err, strings.TrimSpace(string(output)))
	}
	return outBase + "." + format, nil
}

// Score is a rendered notation.
type Score struct {
	SourcePath string
	ImagePath  string
}

// Notation writes scores to disk and hands them to a Runner.
type Notation struct {
	runner  Runner
	metrics *metrics.SentryMetrics
}

// NewNotation returns a Notation using runner. A nil metrics client records
// nothing.
func NewNotation(runner Runner, m *metrics.SentryMetrics) *Notation {
	return &Notation{runner: runner, metrics: m}
}

// Render writes <dir>/<name>.ly and runs it through the runner.
func (n *Notation) Render(ctx context.Context, dir, name string, notes []theory.Note) (score Score, err error) {
	startTime := time.Now()
	defer func() {
		n.metrics.RecordRender(ctx, "notation", time.Since(startTime), err)
	}()

	source, err := LilyPondSource(notes)
	if err != nil {
		return Score{}, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Score{}, fmt.Errorf("create output dir: %w", err)
	}

	sourcePath := filepath.Join(dir, name+".ly")
	if err := os.WriteFile(sourcePath, []byte(source), 0o644); err != nil {
		return Score{}, fmt.Errorf("write score: %w", err)
	}

	imagePath, err := n.runner.Run(ctx, sourcePath, filepath.Join(dir, name))
	if err != nil {
		return Score{}, err
	}

	logger.Debug("notation: rendered", "source", sourcePath, "image", imagePath, "notes", len(notes))
	return Score{SourcePath: sourcePath, ImagePath: imagePath}, nil
}
