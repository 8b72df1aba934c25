package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"amp-monitor-backend/internal/store"
	"amp-monitor-backend/internal/validate"
)

const recentWindow = 24 * time.Hour

// GetUserStats handles GET /api/user/:username/stats.
func (h *Handler) GetUserStats(c *gin.Context) {
	username, verr := validate.Username(c.Param("username"))
	if verr != nil {
		fail(c, http.StatusBadRequest, verr.Message, string(verr.Code))
		return
	}

	stats, err := h.store.UserStats(c.Request.Context(), username)
	if err != nil {
		h.storeError(c, err)
		return
	}
	respond(c, http.StatusOK, stats)
}

// GetUserRecent handles GET /api/user/:username/recent, returning the last
// 24 hours of readings, newest first, capped at 100.
func (h *Handler) GetUserRecent(c *gin.Context) {
	username, verr := validate.Username(c.Param("username"))
	if verr != nil {
		fail(c, http.StatusBadRequest, verr.Message, string(verr.Code))
		return
	}

	since := time.Now().Add(-recentWindow)
	readings, err := h.store.RecentReadings(c.Request.Context(), username, since, 100)
	if err != nil {
		h.storeError(c, err)
		return
	}

	respondMeta(c, http.StatusOK, readings, gin.H{
		"count":     len(readings),
		"timeRange": "24h",
	})
}

// GetUserReadings handles GET /api/user/:username/all with limit/page queries.
func (h *Handler) GetUserReadings(c *gin.Context) {
	username, verr := validate.Username(c.Param("username"))
	if verr != nil {
		fail(c, http.StatusBadRequest, verr.Message, string(verr.Code))
		return
	}

	limit, page := validate.Pagination(c.Query("limit"), c.Query("page"))
	readings, pagination, err := h.store.ListReadings(c.Request.Context(),
		store.ReadingFilter{Username: username}, limit, page)
	if err != nil {
		h.storeError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"readings":   readings,
		"pagination": pagination,
	})
}
