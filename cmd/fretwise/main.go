package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/fretwise/config"
	"github.com/Conceptual-Machines/fretwise/fingering"
	"github.com/Conceptual-Machines/fretwise/instruments"
	"github.com/Conceptual-Machines/fretwise/metrics"
	"github.com/Conceptual-Machines/fretwise/render"
)

var (
	cfg      *config.Config
	recorder = metrics.Disabled()
	debug    bool
	asJSON   bool
)

var rootCmd = &cobra.Command{
	Use:           "fretwise",
	Short:         "pitch theory and least-travel fingerings for guitar and piano",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		initLogger(debug || cfg.Debug)

		if cfg.SentryDSN != "" {
			if err := sentry.Init(sentry.ClientOptions{
				Dsn:              cfg.SentryDSN,
				EnableTracing:    true,
				TracesSampleRate: 1.0,
			}); err != nil {
				return fmt.Errorf("sentry init: %w", err)
			}
			recorder = metrics.NewSentryMetrics()
		}
		return nil
	},
}

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	l := slog.New(h)
	slog.SetDefault(l)
	instruments.SetLogger(l)
	fingering.SetLogger(l)
	render.SetLogger(l)
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env file: %v\n", err)
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print JSON")
	rootCmd.AddCommand(pitchCmd, scaleCmd, chordCmd, triadCmd, fingerCmd, diagramCmd, notationCmd, midiCmd)

	err := rootCmd.Execute()
	if err != nil {
		sentry.CaptureException(err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	sentry.Flush(2 * time.Second)
	if err != nil {
		os.Exit(1)
	}
}
