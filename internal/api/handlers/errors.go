package handlers

import (
	"errors"
	"net/http"

	"github.com/Conceptual-Machines/melody-api/internal/harmony"
	"github.com/Conceptual-Machines/melody-api/internal/logger"
	"github.com/Conceptual-Machines/melody-api/internal/services"
	"github.com/gin-gonic/gin"
)

// statusFor maps service and engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, harmony.ErrEmptyProgression),
		errors.Is(err, harmony.ErrInvalidKey),
		errors.Is(err, harmony.ErrInvalidCapo),
		errors.Is(err, services.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrAlternateTuning):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrSongNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidModelOutput):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": ...}. Server errors are logged and hidden
// behind a generic message.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", err, logger.WithContext(c))
		c.JSON(status, gin.H{
			"error":      "Internal server error",
			"request_id": c.GetString("request_id"),
		})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
