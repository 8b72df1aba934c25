package api

import (
	"github.com/rs/zerolog"

	"amp-monitor-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store       store.Store
	logger      zerolog.Logger
	environment string
}

// NewHandler creates a new API handler. Error detail strings are only
// surfaced to clients when environment is not "production".
func NewHandler(s store.Store, logger zerolog.Logger, environment string) *Handler {
	return &Handler{
		store:       s,
		logger:      logger,
		environment: environment,
	}
}

func (h *Handler) production() bool {
	return h.environment == "production"
}
