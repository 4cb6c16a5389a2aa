package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Conceptual-Machines/fretwise/fingering"
	"github.com/Conceptual-Machines/fretwise/instruments"
	"github.com/Conceptual-Machines/fretwise/theory"
)

// Config contains configuration for the fretwise tools
type Config struct {
	Strings         int           // Guitar strings (FRETWISE_STRINGS)
	Frets           int           // Positions per string (FRETWISE_FRETS)
	Tuning          []theory.Note // Open strings, low first (FRETWISE_TUNING, "E:82.41,A:110,...")
	PianoKeys       int           // FRETWISE_PIANO_KEYS
	MaxCombinations int           // Fingering search bound (FRETWISE_MAX_COMBINATIONS)
	OutputDir       string        // Where rendered files go (FRETWISE_OUTPUT_DIR)
	LilyPondBinary  string        // FRETWISE_LILYPOND
	SentryDSN       string        // SENTRY_DSN (optional)
	Debug           bool          // FRETWISE_DEBUG
}

// Default returns a standard 6-string guitar and 88-key piano setup
func Default() *Config {
	return &Config{
		Strings:         instruments.DefaultStrings,
		Frets:           instruments.DefaultFrets,
		Tuning:          instruments.StandardTuning(),
		PianoKeys:       instruments.DefaultKeys,
		MaxCombinations: fingering.DefaultMaxCombinations,
		OutputDir:       ".",
		LilyPondBinary:  "lilypond",
	}
}

// Load reads the configuration from the environment on top of Default
func Load() (*Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom reads the configuration through lookup, which has the signature
// of os.LookupEnv
func LoadFrom(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	ints := []struct {
		key string
		dst *int
	}{
		{"FRETWISE_STRINGS", &cfg.Strings},
		{"FRETWISE_FRETS", &cfg.Frets},
		{"FRETWISE_PIANO_KEYS", &cfg.PianoKeys},
		{"FRETWISE_MAX_COMBINATIONS", &cfg.MaxCombinations},
	}
	for _, v := range ints {
		raw, ok := present(lookup, v.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", v.key, err)
		}
		*v.dst = n
	}

	if raw, ok := present(lookup, "FRETWISE_TUNING"); ok {
		tuning, err := ParseTuning(raw)
		if err != nil {
			return nil, fmt.Errorf("FRETWISE_TUNING: %w", err)
		}
		cfg.Tuning = tuning
		if _, set := present(lookup, "FRETWISE_STRINGS"); !set {
			cfg.Strings = len(tuning)
		}
	}

	if raw, ok := lookup("FRETWISE_OUTPUT_DIR"); ok && raw != "" {
		cfg.OutputDir = raw
	}
	if raw, ok := lookup("FRETWISE_LILYPOND"); ok && raw != "" {
		cfg.LilyPondBinary = raw
	}
	if raw, ok := lookup("SENTRY_DSN"); ok {
		cfg.SentryDSN = raw
	}
	if raw, ok := lookup("FRETWISE_DEBUG"); ok && raw != "" {
		debug, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("FRETWISE_DEBUG: %w", err)
		}
		cfg.Debug = debug
	}

	return cfg, nil
}

// present returns the trimmed value of key; blank counts as unset
func present(lookup func(string) (string, bool), key string) (string, bool) {
	raw, ok := lookup(key)
	raw = strings.TrimSpace(raw)
	return raw, ok && raw != ""
}

// ParseTuning reads open-string notes, low string first: "E:82.41,A:110".
// Every entry needs an explicit frequency.
func ParseTuning(s string) ([]theory.Note, error) {
	var tuning []theory.Note
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if !strings.Contains(field, ":") {
			return nil, fmt.Errorf("tuning entry %q needs NAME:HZ", field)
		}
		n, err := theory.ParseNote(field)
		if err != nil {
			return nil, err
		}
		tuning = append(tuning, n)
	}
	return tuning, nil
}

// Guitar builds the configured guitar
func (c *Config) Guitar() (*instruments.Guitar, error) {
	return instruments.NewGuitar(c.Strings, c.Frets, c.Tuning)
}

// Piano builds the configured piano
func (c *Config) Piano() (*instruments.Piano, error) {
	return instruments.NewPiano(c.PianoKeys, instruments.LowA())
}
