package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// respond writes the success envelope, with optional meta.
func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMeta(c *gin.Context, status int, data, meta any) {
	c.JSON(status, gin.H{"success": true, "data": data, "meta": meta})
}

// fail writes the failure envelope and stops the handler chain. detail is
// included as "error" only when the caller passes it (the handlers already
// strip it in production).
func fail(c *gin.Context, status int, message, detail string) {
	body := gin.H{"success": false, "message": message}
	if detail != "" {
		body["error"] = detail
	}
	c.AbortWithStatusJSON(status, body)
}

// storeError logs a persistence failure and reports a generic 500.
func (h *Handler) storeError(c *gin.Context, err error) {
	h.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("store operation failed")
	detail := ""
	if !h.production() {
		detail = err.Error()
	}
	fail(c, http.StatusInternalServerError, "internal server error", detail)
}
