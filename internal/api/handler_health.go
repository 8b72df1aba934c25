package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetHealth handles GET /api/health.
func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "amp monitor API is running",
		"timestamp":   time.Now().UTC(),
		"environment": h.environment,
	})
}
