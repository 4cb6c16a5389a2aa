package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/fretwise/fingering"
	"github.com/Conceptual-Machines/fretwise/instruments"
	"github.com/Conceptual-Machines/fretwise/models"
	"github.com/Conceptual-Machines/fretwise/render"
	"github.com/Conceptual-Machines/fretwise/theory"
)

var (
	scaleKind    string
	scaleMode    string
	triadQuality string
	inversion    int
	instrument   string
	diagramOut   string
	midiOut      string
	firstFret    int
	lastFret     int
	allPositions bool
	markerColor  string
	scoreName    string
	chord        bool
	symbols      bool
	bpm          float64
)

var (
	pitchCmd = &cobra.Command{
		Use:   "pitch [hz] [semitones]",
		Short: "shift a frequency by semitones under equal temperament",
		Args:  cobra.ExactArgs(2),
		RunE:  pitchRun,
	}

	scaleCmd = &cobra.Command{
		Use:   "scale [root]",
		Short: "list the notes of a scale or mode",
		Args:  cobra.ExactArgs(1),
		RunE:  scaleRun,
	}

	chordCmd = &cobra.Command{
		Use:   "chord [symbol]",
		Short: "list the notes of a chord symbol such as Am7 or Em/G",
		Args:  cobra.ExactArgs(1),
		RunE:  chordRun,
	}

	triadCmd = &cobra.Command{
		Use:   "triad [root]",
		Short: "list the notes of a chord, optionally inverted",
		Args:  cobra.ExactArgs(1),
		RunE:  triadRun,
	}

	fingerCmd = &cobra.Command{
		Use:   "finger [notes...]",
		Short: "find the least-travel positions for a sequence of notes",
		Args:  cobra.MinimumNArgs(1),
		RunE:  fingerRun,
	}

	diagramCmd = &cobra.Command{
		Use:   "diagram [notes...]",
		Short: "draw a fretboard SVG of a fingering, or of every position with --all",
		Args:  cobra.MinimumNArgs(1),
		RunE:  diagramRun,
	}

	notationCmd = &cobra.Command{
		Use:   "notation [notes...]",
		Short: "engrave notes with lilypond",
		Args:  cobra.MinimumNArgs(1),
		RunE:  notationRun,
	}

	midiCmd = &cobra.Command{
		Use:   "midi [notes...]",
		Short: "write notes to a Standard MIDI File",
		Args:  cobra.MinimumNArgs(1),
		RunE:  midiRun,
	}
)

func init() {
	scaleCmd.Flags().StringVar(&scaleKind, "kind", string(theory.MajorScale), "major, minor or diminished")
	scaleCmd.Flags().StringVar(&scaleMode, "mode", "", "church mode (overrides --kind): "+strings.Join(theory.Modes(), ", "))

	triadCmd.Flags().StringVar(&triadQuality, "quality", string(theory.Major), "major, major_7, minor, minor_7, dominant_7, diminished")
	triadCmd.Flags().IntVar(&inversion, "inversion", 0, "number of inversions")

	fingerCmd.Flags().StringVar(&instrument, "instrument", "guitar", "guitar or piano")
	fingerCmd.Flags().BoolVar(&symbols, "symbols", false, "arguments are chord symbols, played one after another")

	diagramCmd.Flags().StringVarP(&diagramOut, "out", "o", "fretboard.svg", "output file")
	diagramCmd.Flags().IntVar(&firstFret, "first", 1, "first fret shown")
	diagramCmd.Flags().IntVar(&lastFret, "last", 12, "last fret shown")
	diagramCmd.Flags().BoolVar(&allPositions, "all", false, "mark every position of every note")
	diagramCmd.Flags().StringVar(&markerColor, "color", render.DefaultMarkerColor, "marker color")

	notationCmd.Flags().StringVar(&scoreName, "name", "score", "base name of the .ly and image files")

	midiCmd.Flags().StringVarP(&midiOut, "out", "o", "notes.mid", "output file")
	midiCmd.Flags().BoolVar(&chord, "chord", false, "sound all notes together")
	midiCmd.Flags().Float64Var(&bpm, "bpm", 120, "tempo")
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printNotes(notes []theory.Note) error {
	if asJSON {
		out := make([]models.NoteOutput, len(notes))
		for i, n := range notes {
			out[i] = models.NoteOutput{Name: n.Name, Pitch: n.Pitch}
		}
		return printJSON(out)
	}
	for _, n := range notes {
		fmt.Printf("%-3s %9.2f Hz\n", n.Name, n.Pitch)
	}
	return nil
}

func pitchRun(cmd *cobra.Command, args []string) error {
	hz, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid frequency %q: %w", args[0], err)
	}
	semitones, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid interval %q: %w", args[1], err)
	}
	fmt.Printf("%.4f\n", theory.GetPitch(hz, semitones))
	return nil
}

func scaleRun(cmd *cobra.Command, args []string) error {
	root, err := theory.ParseNote(args[0])
	if err != nil {
		return err
	}
	var s *theory.Scale
	if scaleMode != "" {
		s, err = theory.NewModeScale(root, scaleMode)
	} else {
		s, err = theory.NewKindScale(root, theory.ScaleKind(scaleKind))
	}
	if err != nil {
		return err
	}
	return printNotes(s.Notes())
}

func triadRun(cmd *cobra.Command, args []string) error {
	root, err := theory.ParseNote(args[0])
	if err != nil {
		return err
	}
	intervals, err := theory.TriadIntervals(theory.ChordQuality(triadQuality), inversion)
	if err != nil {
		return err
	}
	notes, err := theory.Triad(root, intervals)
	if err != nil {
		return err
	}
	return printNotes(notes)
}

// writeFile creates path, fills it with write and closes it. A failed close
// is reported like a failed write.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// outputPath places relative paths under the configured output directory.
func outputPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cfg.OutputDir, path)
}

func chordRun(cmd *cobra.Command, args []string) error {
	notes, err := theory.ChordNotes(args[0])
	if err != nil {
		return err
	}
	return printNotes(notes)
}

// targetNotes parses args as notes, or as chord symbols with --symbols.
func targetNotes(args []string) ([]theory.Note, error) {
	if !symbols {
		return theory.ParseNotes(strings.Join(args, ","))
	}
	var notes []theory.Note
	for _, a := range args {
		chordNotes, err := theory.ChordNotes(a)
		if err != nil {
			return nil, err
		}
		notes = append(notes, chordNotes...)
	}
	return notes, nil
}

func board() (fingering.Board, error) {
	switch instrument {
	case "guitar":
		return cfg.Guitar()
	case "piano":
		return cfg.Piano()
	default:
		return nil, fmt.Errorf("unknown instrument %q (guitar or piano)", instrument)
	}
}

// fingeringFor runs one search inside a Sentry transaction.
func fingeringFor(ctx context.Context, b fingering.Board, args []string) (*fingering.Result, error) {
	notes, err := targetNotes(args)
	if err != nil {
		return nil, err
	}

	transaction := sentry.StartTransaction(ctx, "fingering.search")
	defer transaction.Finish()

	analyzer := fingering.NewAnalyzer(b,
		fingering.WithMetrics(recorder),
		fingering.WithMaxCombinations(cfg.MaxCombinations),
	)
	result, err := analyzer.Fingering(transaction.Context(), notes)
	if err != nil {
		transaction.Status = sentry.SpanStatusInternalError
		return nil, err
	}
	transaction.Status = sentry.SpanStatusOK
	return result, nil
}

func fingerRun(cmd *cobra.Command, args []string) error {
	b, err := board()
	if err != nil {
		return err
	}
	result, err := fingeringFor(cmd.Context(), b, args)
	if err != nil {
		return err
	}

	out := models.FingeringOutput{
		Instrument:   result.Instrument,
		Distance:     result.Distance,
		Combinations: result.Combinations,
	}
	i := 0
	for note, c := range result.Steps() {
		out.Steps = append(out.Steps, models.FingeringStep{
			Note:     note.Name,
			Pitch:    note.Pitch,
			Position: result.Positions[i],
			String:   c.String,
			Fret:     c.Fret,
		})
		i++
	}

	if asJSON {
		return printJSON(out)
	}
	for _, s := range out.Steps {
		fmt.Printf("%-3s string %d fret %2d\n", s.Note, s.String, s.Fret)
	}
	fmt.Printf("distance %.3f over %d combinations\n", out.Distance, out.Combinations)
	return nil
}

func diagramRun(cmd *cobra.Command, args []string) (err error) {
	startTime := time.Now()
	defer func() {
		recorder.RecordRender(cmd.Context(), "fretboard", time.Since(startTime), err)
	}()

	g, err := cfg.Guitar()
	if err != nil {
		return err
	}
	fb, err := render.NewFretboard(g.Strings(), firstFret, lastFret)
	if err != nil {
		return err
	}

	if allPositions {
		notes, err := allOctaves(g, args)
		if err != nil {
			return err
		}
		fb.MarkClasses(g, notes, markerColor)
	} else {
		result, err := fingeringFor(cmd.Context(), g, args)
		if err != nil {
			return err
		}
		fb.MarkFingering(result, markerColor)
	}

	path := outputPath(diagramOut)
	if err := writeFile(path, fb.Render); err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

// allOctaves returns the representative note of every class named like one
// of args.
func allOctaves(inst instruments.Instrument, args []string) ([]theory.Note, error) {
	targets, err := theory.ParseNotes(strings.Join(args, ","))
	if err != nil {
		return nil, err
	}
	var notes []theory.Note
	for _, class := range inst.Classes() {
		for _, t := range targets {
			if class.Note.Name == t.Name {
				notes = append(notes, class.Note)
				break
			}
		}
	}
	return notes, nil
}

func notationRun(cmd *cobra.Command, args []string) error {
	notes, err := theory.ParseNotes(strings.Join(args, ","))
	if err != nil {
		return err
	}
	n := render.NewNotation(render.ExecRunner{Binary: cfg.LilyPondBinary}, recorder)
	score, err := n.Render(cmd.Context(), cfg.OutputDir, scoreName, notes)
	if err != nil {
		return err
	}
	fmt.Println(score.SourcePath)
	fmt.Println(score.ImagePath)
	return nil
}

func midiRun(cmd *cobra.Command, args []string) (err error) {
	startTime := time.Now()
	defer func() {
		recorder.RecordRender(cmd.Context(), "midi", time.Since(startTime), err)
	}()

	notes, err := theory.ParseNotes(strings.Join(args, ","))
	if err != nil {
		return err
	}
	path := outputPath(midiOut)
	opts := render.DefaultSMFOptions()
	opts.Chord = chord
	opts.BPM = bpm
	err = writeFile(path, func(w io.Writer) error {
		_, err := render.WriteSMF(w, notes, opts)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
