package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// SentryMetrics handles custom metrics for Sentry
type SentryMetrics struct {
	enabled bool
}

// NewSentryMetrics creates a new Sentry metrics client
func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{
		enabled: true, // Spans are dropped by the SDK when Sentry is not initialised
	}
}

// Disabled returns a client that records nothing
func Disabled() *SentryMetrics {
	return &SentryMetrics{}
}

// Optimization describes one fingering search
type Optimization struct {
	Instrument   string
	Notes        int
	Candidates   int
	Combinations int
	Distance     float64
	Duration     time.Duration
	Err          error
}

// RecordOptimization records a fingering search as a span on the request context
func (m *SentryMetrics) RecordOptimization(ctx context.Context, o Optimization) {
	if m == nil || !m.enabled {
		return
	}

	if transaction := sentry.TransactionFromContext(ctx); transaction != nil {
		transaction.SetTag("fingering.instrument", o.Instrument)
		transaction.SetTag("fingering.notes", fmt.Sprintf("%d", o.Notes))
		transaction.SetData("fingering.combinations", o.Combinations)
	}

	span := sentry.StartSpan(ctx, "fingering.optimize")
	defer span.Finish()

	span.SetTag("instrument", o.Instrument)
	span.SetTag("notes", fmt.Sprintf("%d", o.Notes))
	span.SetTag("success", fmt.Sprintf("%t", o.Err == nil))

	span.SetData("notes", o.Notes)
	span.SetData("candidates", o.Candidates)
	span.SetData("combinations", o.Combinations)
	span.SetData("duration_ms", o.Duration.Milliseconds())

	if o.Err != nil {
		span.Status = sentry.SpanStatusInternalError
		span.SetData("error", o.Err.Error())
		span.Description = fmt.Sprintf("Fingering: %d notes on %s failed", o.Notes, o.Instrument)
		return
	}

	span.SetData("distance", o.Distance)
	span.Status = sentry.SpanStatusOK
	span.Description = fmt.Sprintf("Fingering: %d notes on %s", o.Notes, o.Instrument)
}

// RecordRender records an adapter producing an artifact (diagram, score, MIDI file)
func (m *SentryMetrics) RecordRender(ctx context.Context, kind string, duration time.Duration, err error) {
	if m == nil || !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "render."+kind)
	defer span.Finish()

	span.SetTag("kind", kind)
	span.SetTag("success", fmt.Sprintf("%t", err == nil))
	span.SetData("duration_ms", duration.Milliseconds())

	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		span.SetData("error", err.Error())
	} else {
		span.Status = sentry.SpanStatusOK
	}

	span.Description = fmt.Sprintf("Render %s: %t", kind, err == nil)
}
