package render

import (
	"fmt"
	"io"
	"math"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/Conceptual-Machines/fretwise/theory"
)

// MIDIKey converts a frequency to the nearest MIDI key (A4 = 69), clamped
// to 0-127.
func MIDIKey(pitch float64) uint8 {
	if pitch <= 0 {
		return 0
	}
	key := math.Round(69 + 12*math.Log2(pitch/theory.ReferencePitch))
	return uint8(max(0, min(127, key)))
}

// SMFOptions controls WriteSMF.
type SMFOptions struct {
	Channel    uint8
	Velocity   uint8
	BPM        float64
	Resolution smf.MetricTicks
	// Chord sounds every note together instead of one per beat.
	Chord bool
}

// DefaultSMFOptions returns channel 0, velocity 100, 120 BPM, 960 ticks per
// quarter note, melodic.
func DefaultSMFOptions() SMFOptions {
	return SMFOptions{Velocity: 100, BPM: 120, Resolution: smf.MetricTicks(960)}
}

// WriteSMF writes notes as a single-track Standard MIDI File, one quarter
// note each (or one quarter-note chord).
func WriteSMF(w io.Writer, notes []theory.Note, opts SMFOptions) (int64, error) {
	if opts.Channel > 15 {
		return 0, fmt.Errorf("midi channel %d out of range", opts.Channel)
	}
	if opts.Resolution == 0 {
		opts.Resolution = smf.MetricTicks(960)
	}
	if opts.BPM <= 0 {
		opts.BPM = 120
	}
	if opts.Velocity == 0 {
		opts.Velocity = 100
	}
	quarter := opts.Resolution.Ticks4th()

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(opts.BPM))

	keys := make([]uint8, len(notes))
	for i, n := range notes {
		keys[i] = MIDIKey(n.Pitch)
	}

	if opts.Chord {
		for _, k := range keys {
			tr.Add(0, midi.NoteOn(opts.Channel, k, opts.Velocity))
		}
		for i, k := range keys {
			delta := uint32(0)
			if i == 0 {
				delta = quarter
			}
			tr.Add(delta, midi.NoteOff(opts.Channel, k))
		}
	} else {
		for _, k := range keys {
			tr.Add(0, midi.NoteOn(opts.Channel, k, opts.Velocity))
			tr.Add(quarter, midi.NoteOff(opts.Channel, k))
		}
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = opts.Resolution
	if err := s.Add(tr); err != nil {
		return 0, fmt.Errorf("add track: %w", err)
	}

	n, err := s.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("write smf: %w", err)
	}
	logger.Debug("midi: wrote smf", "notes", len(notes), "bytes", n, "chord", opts.Chord)
	return n, nil
}
