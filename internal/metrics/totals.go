package metrics

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Totals keeps process-lifetime counters for the /api/metrics endpoint.
type Totals struct {
	apiRequests        atomic.Int64
	apiErrors          atomic.Int64
	chordsProcessed    atomic.Int64
	chordsUnrecognized atomic.Int64
	tabsIngested       atomic.Int64
	tabsFailed         atomic.Int64
	llmCalls           atomic.Int64

	mu       sync.Mutex
	bySource map[string]int64
	tokens   Usage
}

// Snapshot is a point-in-time copy of Totals.
type Snapshot struct {
	APIRequests        int64            `json:"api_requests"`
	APIErrors          int64            `json:"api_errors"`
	ChordsProcessed    int64            `json:"chords_processed"`
	ChordsUnrecognized int64            `json:"chords_unrecognized"`
	Progressions       map[string]int64 `json:"progressions"`
	TabsIngested       int64            `json:"tabs_ingested"`
	TabsFailed         int64            `json:"tabs_failed"`
	LLMCalls           int64            `json:"llm_calls"`
	Tokens             Usage            `json:"tokens"`
}

func NewTotals() *Totals {
	return &Totals{bySource: make(map[string]int64)}
}

func (t *Totals) RecordAPIRequest(_ context.Context, _ string, statusCode int, _ time.Duration) {
	t.apiRequests.Add(1)
	if statusCode >= http.StatusInternalServerError {
		t.apiErrors.Add(1)
	}
}

func (t *Totals) RecordProgression(_ context.Context, source string, chords, unrecognized int) {
	t.chordsProcessed.Add(int64(chords))
	t.chordsUnrecognized.Add(int64(unrecognized))

	t.mu.Lock()
	t.bySource[source]++
	t.mu.Unlock()
}

func (t *Totals) RecordIngest(_ context.Context, successful, failed int) {
	t.tabsIngested.Add(int64(successful))
	t.tabsFailed.Add(int64(failed))
}

func (t *Totals) RecordTokenUsage(_ context.Context, _ string, usage Usage) {
	t.llmCalls.Add(1)

	t.mu.Lock()
	t.tokens.InputTokens += usage.InputTokens
	t.tokens.OutputTokens += usage.OutputTokens
	t.tokens.ReasoningTokens += usage.ReasoningTokens
	t.tokens.TotalTokens += usage.TotalTokens
	t.mu.Unlock()
}

func (t *Totals) Snapshot() Snapshot {
	t.mu.Lock()
	sources := make(map[string]int64, len(t.bySource))
	for source, n := range t.bySource {
		sources[source] = n
	}
	tokens := t.tokens
	t.mu.Unlock()

	return Snapshot{
		APIRequests:        t.apiRequests.Load(),
		APIErrors:          t.apiErrors.Load(),
		ChordsProcessed:    t.chordsProcessed.Load(),
		ChordsUnrecognized: t.chordsUnrecognized.Load(),
		Progressions:       sources,
		TabsIngested:       t.tabsIngested.Load(),
		TabsFailed:         t.tabsFailed.Load(),
		LLMCalls:           t.llmCalls.Load(),
		Tokens:             tokens,
	}
}
