package services

import (
	"context"

	"github.com/Conceptual-Machines/melody-api/internal/logger"
	"github.com/Conceptual-Machines/melody-api/internal/metrics"
	"github.com/Conceptual-Machines/melody-api/internal/models"
	"golang.org/x/sync/errgroup"
)

const defaultIngestConcurrency = 4

// TabIngester stores one tab. TabService implements it.
type TabIngester interface {
	Ingest(ctx context.Context, tab models.Tab) (*models.IngestResponse, error)
}

// IngestFailure names a tab that could not be ingested.
type IngestFailure struct {
	Artist string `json:"artist"`
	Track  string `json:"track"`
	Error  string `json:"error"`
}

// IngestReport summarizes a batch run.
type IngestReport struct {
	Successful int             `json:"successful"`
	Failed     int             `json:"failed"`
	Total      int             `json:"total"`
	Failures   []IngestFailure `json:"failures,omitempty"`
}

// BatchIngester ingests many tabs in parallel. A failing tab is recorded in
// the report and never stops the others.
type BatchIngester struct {
	tabs        TabIngester
	concurrency int
	metrics     metrics.Recorder
}

func NewBatchIngester(tabs TabIngester, concurrency int, recorder metrics.Recorder) *BatchIngester {
	if concurrency < 1 {
		concurrency = defaultIngestConcurrency
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &BatchIngester{tabs: tabs, concurrency: concurrency, metrics: recorder}
}

// Ingest processes every tab and reports the outcome. Failures are listed in
// input order. Tabs not yet started when ctx is cancelled count as failed.
func (b *BatchIngester) Ingest(ctx context.Context, tabs []models.Tab) IngestReport {
	errs := make([]error, len(tabs))

	g := new(errgroup.Group)
	g.SetLimit(b.concurrency)

	for i, tab := range tabs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			_, errs[i] = b.tabs.Ingest(ctx, tab)
			return nil
		})
	}
	_ = g.Wait()

	report := IngestReport{Total: len(tabs)}
	for i, err := range errs {
		if err == nil {
			report.Successful++
			continue
		}
		report.Failed++
		report.Failures = append(report.Failures, IngestFailure{
			Artist: tabs[i].Artist,
			Track:  tabs[i].Track,
			Error:  err.Error(),
		})
		logger.Warn("Tab ingestion failed", logger.Fields{
			"artist": tabs[i].Artist,
			"track":  tabs[i].Track,
			"error":  err.Error(),
		})
	}

	b.metrics.RecordIngest(ctx, report.Successful, report.Failed)
	logger.Info("Batch ingestion finished", logger.Fields{
		"total":      report.Total,
		"successful": report.Successful,
		"failed":     report.Failed,
	})
	return report
}
