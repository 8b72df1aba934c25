package mw

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// CORS wraps rs/cors as a gin middleware. An empty origin list allows all.
func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return func(gc *gin.Context) {
		c.HandlerFunc(gc.Writer, gc.Request)
		if gc.Request.Method == http.MethodOptions {
			gc.AbortWithStatus(http.StatusNoContent)
			return
		}
		gc.Next()
	}
}
