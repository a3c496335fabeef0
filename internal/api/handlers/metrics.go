package handlers

import (
	"net/http"
	"time"

	"github.com/Conceptual-Machines/melody-api/internal/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsSource provides the counters reported by /api/metrics.
type MetricsSource interface {
	Snapshot() metrics.Snapshot
}

type MetricsHandler struct {
	startTime   time.Time
	version     string
	melodyModel string
	source      MetricsSource
}

func NewMetricsHandler(version, melodyModel string, source MetricsSource) *MetricsHandler {
	return &MetricsHandler{
		startTime:   time.Now(),
		version:     version,
		melodyModel: melodyModel,
		source:      source,
	}
}

type MetricsResponse struct {
	Version       string           `json:"version"`
	StartTime     string           `json:"start_time"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	MelodyModel   string           `json:"melody_model"`
	Totals        metrics.Snapshot `json:"totals"`
}

// GetMetrics reports what this process has done since it started.
func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, MetricsResponse{
		Version:       h.version,
		StartTime:     h.startTime.UTC().Format(time.RFC3339),
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		MelodyModel:   h.melodyModel,
		Totals:        h.source.Snapshot(),
	})
}
