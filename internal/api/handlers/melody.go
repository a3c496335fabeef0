package handlers

import (
	"context"
	"net/http"

	"github.com/Conceptual-Machines/melody-api/internal/models"
	"github.com/gin-gonic/gin"
)

// MelodySearcher finds songs sharing a chord progression.
type MelodySearcher interface {
	Search(ctx context.Context, req models.MelodySearchRequest) (*models.MelodySearchResponse, error)
	MoreLikeThese(ctx context.Context, req models.MoreLikeTheseRequest) (*models.MelodySearchResponse, error)
}

type MelodyHandler struct {
	melody MelodySearcher
}

// NewMelodyHandler wraps a searcher. A nil searcher means no LLM provider is
// configured and every request gets 503.
func NewMelodyHandler(melody MelodySearcher) *MelodyHandler {
	return &MelodyHandler{melody: melody}
}

func (h *MelodyHandler) Search(c *gin.Context) {
	if !h.available(c) {
		return
	}

	var req models.MelodySearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.melody.Search(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MelodyHandler) MoreLikeThese(c *gin.Context) {
	if !h.available(c) {
		return
	}

	var req models.MoreLikeTheseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.melody.MoreLikeThese(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MelodyHandler) available(c *gin.Context) bool {
	if h.melody == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Melody search is not configured"})
		return false
	}
	return true
}
