package metrics

import (
	"context"
	"time"
)

// Usage is token usage reported by an LLM provider.
type Usage struct {
	InputTokens     int `json:"input_tokens"`
	OutputTokens    int `json:"output_tokens"`
	ReasoningTokens int `json:"reasoning_tokens,omitempty"`
	TotalTokens     int `json:"total_tokens"`
}

// Recorder is what services report to. Request-level metrics stay in the
// middleware.
type Recorder interface {
	RecordProgression(ctx context.Context, source string, chords, unrecognized int)
	RecordIngest(ctx context.Context, successful, failed int)
	RecordTokenUsage(ctx context.Context, model string, usage Usage)
}

// Metrics fans every record out to Sentry, CloudWatch and the in-process
// totals served by /api/metrics.
type Metrics struct {
	Sentry     *SentryMetrics
	CloudWatch *Client
	Totals     *Totals
}

// New combines all backends. cloudwatch may be nil.
func New(cloudwatch *Client) *Metrics {
	return &Metrics{Sentry: NewSentryMetrics(), CloudWatch: cloudwatch, Totals: NewTotals()}
}

// Snapshot returns the in-process totals.
func (m *Metrics) Snapshot() Snapshot {
	return m.Totals.Snapshot()
}

func (m *Metrics) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	m.Totals.RecordAPIRequest(ctx, endpoint, statusCode, duration)
	m.Sentry.RecordAPIRequest(ctx, endpoint, statusCode, duration)
	m.CloudWatch.RecordAPIRequest(endpoint, statusCode, duration)
}

func (m *Metrics) RecordProgression(ctx context.Context, source string, chords, unrecognized int) {
	m.Totals.RecordProgression(ctx, source, chords, unrecognized)
	m.Sentry.RecordProgression(ctx, source, chords, unrecognized)
	m.CloudWatch.RecordChordsProcessed(source, chords, unrecognized)
}

func (m *Metrics) RecordIngest(ctx context.Context, successful, failed int) {
	m.Totals.RecordIngest(ctx, successful, failed)
	m.Sentry.RecordIngest(ctx, successful, failed)
	m.CloudWatch.RecordIngest(successful, failed)
}

func (m *Metrics) RecordTokenUsage(ctx context.Context, model string, usage Usage) {
	m.Totals.RecordTokenUsage(ctx, model, usage)
	m.Sentry.RecordTokenUsage(ctx, model, usage)
	m.CloudWatch.RecordTokenUsage(model, usage)
}

// Nop discards everything. Used by the CLI and tests.
type Nop struct{}

func (Nop) RecordProgression(context.Context, string, int, int) {}
func (Nop) RecordIngest(context.Context, int, int)              {}
func (Nop) RecordTokenUsage(context.Context, string, Usage)     {}
