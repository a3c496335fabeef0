package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Conceptual-Machines/melody-api/internal/metrics"
	"github.com/Conceptual-Machines/melody-api/internal/models"
	"github.com/Conceptual-Machines/melody-api/internal/services"
	"github.com/gin-gonic/gin"
)

// SectionReader loads the stored chord sections of a song.
type SectionReader interface {
	Sections(ctx context.Context, songID uint) ([]models.SongChordSection, error)
}

type TabHandler struct {
	tabs     services.TabIngester
	sections SectionReader
	metrics  metrics.Recorder
}

func NewTabHandler(tabs services.TabIngester, sections SectionReader, recorder metrics.Recorder) *TabHandler {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &TabHandler{tabs: tabs, sections: sections, metrics: recorder}
}

// Ingest stores one scraped tab, replacing the song's previous sections.
func (h *TabHandler) Ingest(c *gin.Context) {
	var tab models.Tab
	if err := c.ShouldBindJSON(&tab); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.tabs.Ingest(c.Request.Context(), tab)
	if err != nil {
		h.metrics.RecordIngest(c.Request.Context(), 0, 1)
		respondError(c, err)
		return
	}
	h.metrics.RecordIngest(c.Request.Context(), 1, 0)
	c.JSON(http.StatusOK, resp)
}

// Sections lists a song's chord sections in order.
func (h *TabHandler) Sections(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid song id"})
		return
	}

	sections, err := h.sections.Sections(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"song_id":  id,
		"sections": sections,
	})
}
