package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/melody-api/internal/harmony"
	"github.com/Conceptual-Machines/melody-api/internal/logger"
	"github.com/Conceptual-Machines/melody-api/internal/metrics"
	"github.com/Conceptual-Machines/melody-api/internal/models"
	"github.com/Conceptual-Machines/melody-api/internal/services"
	"github.com/gin-gonic/gin"
)

type ProgressionHandler struct {
	metrics metrics.Recorder
}

func NewProgressionHandler(recorder metrics.Recorder) *ProgressionHandler {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &ProgressionHandler{metrics: recorder}
}

// Convert analyzes a chord progression and returns every chord in its six
// forms.
func (h *ProgressionHandler) Convert(c *gin.Context) {
	var req models.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis, err := harmony.Convert(req.Chords, harmony.Options{Key: req.Key, Capo: req.Capo})
	if err != nil {
		respondError(c, err)
		return
	}

	h.metrics.RecordProgression(c.Request.Context(), "convert", len(analysis.Bundles), len(analysis.Unrecognized))
	logger.LogUnrecognized(analysis.Unrecognized, logger.WithContext(c))

	c.JSON(http.StatusOK, services.NewConvertResponse(analysis))
}
