package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/gravity-four/backend/internal/domain"
)

// statusFor maps service errors to HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNoSuchSession), errors.Is(err, domain.ErrNoSuchGame):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrActiveGameInProgress),
		errors.Is(err, domain.ErrStaleVersion),
		errors.Is(err, domain.ErrNoActiveGame):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotSessionParticipant):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error; internal failures get a generic message
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
