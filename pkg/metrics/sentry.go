// Package metrics reports pass runs to Sentry
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// Init configures the Sentry client. With an empty DSN nothing is set up
// and false is returned.
func Init(dsn, environment string, tracesSampleRate float64) (bool, error) {
	if dsn == "" {
		return false, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		EnableTracing:    true,
		TracesSampleRate: tracesSampleRate,
	})
	if err != nil {
		return false, fmt.Errorf("failed to initialise sentry: %w", err)
	}
	return true, nil
}

// Flush waits for buffered events to be sent
func Flush() {
	sentry.Flush(2 * time.Second)
}

// SentryMetrics records pass spans
type SentryMetrics struct {
	enabled bool
}

// NewSentryMetrics creates a metrics client; a disabled client records nothing
func NewSentryMetrics(enabled bool) *SentryMetrics {
	return &SentryMetrics{enabled: enabled}
}

// Enabled reports whether spans are recorded
func (m *SentryMetrics) Enabled() bool {
	return m != nil && m.enabled
}

// PassSpan tracks one pass run
type PassSpan struct {
	span  *sentry.Span
	ctx   context.Context
	start time.Time
}

// StartPass starts a span for running pass over a source of the given size
func (m *SentryMetrics) StartPass(ctx context.Context, pass string, sourceBytes int) *PassSpan {
	ps := &PassSpan{ctx: ctx, start: time.Now()}
	if !m.Enabled() {
		return ps
	}

	span := sentry.StartSpan(ctx, "lyrewrite.pass")
	span.Description = fmt.Sprintf("Pass: %s", pass)
	span.SetTag("pass", pass)
	span.SetData("source_bytes", sourceBytes)

	ps.span = span
	ps.ctx = span.Context()
	return ps
}

// Context returns the context carrying the span
func (p *PassSpan) Context() context.Context {
	return p.ctx
}

// Span returns the underlying span, nil when metrics are disabled
func (p *PassSpan) Span() *sentry.Span {
	return p.span
}

// Finish records the outcome of the pass and ends the span
func (p *PassSpan) Finish(edits int, err error) {
	if p.span == nil {
		return
	}

	p.span.SetData("edits", edits)
	p.span.SetData("duration_ms", time.Since(p.start).Milliseconds())
	p.span.SetTag("success", fmt.Sprintf("%t", err == nil))
	if err != nil {
		p.span.Status = sentry.SpanStatusInternalError
		p.span.SetData("error", err.Error())
	} else {
		p.span.Status = sentry.SpanStatusOK
	}
	p.span.Finish()
}
