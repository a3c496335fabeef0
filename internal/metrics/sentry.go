package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

const (
	// HTTP status code threshold for considering a request successful
	successStatusCodeThreshold = http.StatusBadRequest
)

// SentryMetrics records metrics as Sentry spans on the request transaction.
type SentryMetrics struct {
	enabled bool
}

// NewSentryMetrics creates a new Sentry metrics client
func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{
		enabled: true, // spans are dropped by the SDK when Sentry is not configured
	}
}

// RecordAPIRequest records API request metrics
func (m *SentryMetrics) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "api.request")
	defer span.Finish()

	span.SetTag("endpoint", endpoint)
	span.SetTag("status_code", fmt.Sprintf("%d", statusCode))
	span.SetTag("success", fmt.Sprintf("%t", statusCode < successStatusCodeThreshold))

	span.SetData("duration_ms", duration.Milliseconds())
	span.SetData("status_code", statusCode)

	if statusCode < successStatusCodeThreshold {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}
	span.Description = fmt.Sprintf("API Request: %s", endpoint)
}

// RecordProgression records one run of the harmony engine.
func (m *SentryMetrics) RecordProgression(ctx context.Context, source string, chords, unrecognized int) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "harmony.process")
	defer span.Finish()

	span.SetTag("source", source)
	span.SetData("chords", chords)
	span.SetData("unrecognized", unrecognized)
	span.Status = sentry.SpanStatusOK
	span.Description = fmt.Sprintf("Progression: %d chords", chords)
}

// RecordTokenUsage attaches LLM token usage to the current transaction.
func (m *SentryMetrics) RecordTokenUsage(ctx context.Context, model string, usage Usage) {
	if !m.enabled {
		return
	}

	if transaction := sentry.TransactionFromContext(ctx); transaction != nil {
		transaction.SetTag("llm.model", model)
		transaction.SetData("llm.total_tokens", usage.TotalTokens)
		transaction.SetData("llm.input_tokens", usage.InputTokens)
		transaction.SetData("llm.output_tokens", usage.OutputTokens)
		transaction.SetData("llm.reasoning_tokens", usage.ReasoningTokens)
	}

	span := sentry.StartSpan(ctx, "llm.token_usage")
	defer span.Finish()

	span.SetTag("model", model)
	span.SetData("total_tokens", usage.TotalTokens)
	span.SetData("input_tokens", usage.InputTokens)
	span.SetData("output_tokens", usage.OutputTokens)
	span.SetData("reasoning_tokens", usage.ReasoningTokens)
	span.Status = sentry.SpanStatusOK
	span.Description = fmt.Sprintf("Token Usage: %s", model)
}

// RecordIngest records the outcome of a tab ingestion run.
func (m *SentryMetrics) RecordIngest(ctx context.Context, successful, failed int) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "tabs.ingest")
	defer span.Finish()

	span.SetData("successful", successful)
	span.SetData("failed", failed)
	if failed > 0 {
		span.Status = sentry.SpanStatusUnknown
	} else {
		span.Status = sentry.SpanStatusOK
	}
	span.Description = fmt.Sprintf("Ingest: %d ok, %d failed", successful, failed)
}
