package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"amp-monitor-backend/internal/model"
	"amp-monitor-backend/internal/store"
	"amp-monitor-backend/internal/validate"
)

// IngestReading handles POST /api/data. Validation runs before any store
// mutation; a reading is only inserted once its product reference resolves
// and its sensor, when present, is one of the product's declared channels.
func (h *Handler) IngestReading(c *gin.Context) {
	var payload validate.IngestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, "request body must be a JSON object", "")
		return
	}

	in, verr := validate.ParseIngest(payload)
	if verr != nil {
		fail(c, http.StatusBadRequest, verr.Message, string(verr.Code))
		return
	}

	product, err := h.store.GetProduct(c.Request.Context(), in.ProductID)
	if err == store.ErrNotFound {
		fail(c, http.StatusBadRequest, "product not found", "")
		return
	}
	if err != nil {
		h.storeError(c, err)
		return
	}

	if in.Sensor != "" {
		if verr := validate.Sensor(product, in.Sensor); verr != nil {
			fail(c, http.StatusBadRequest, verr.Message, string(verr.Code))
			return
		}
	}

	reading := &model.Reading{
		ID:        model.NewID(),
		Username:  in.Username,
		Amper:     in.Amper,
		ProductID: product.ID,
		Sensor:    in.Sensor,
	}
	if err := h.store.CreateReading(c.Request.Context(), reading); err != nil {
		h.storeError(c, err)
		return
	}

	data := gin.H{
		"id":       reading.ID,
		"username": reading.Username,
		"amper":    store.Round2(reading.Amper),
		"product": gin.H{
			"id":   product.ID,
			"name": product.Name,
		},
		"timestamp": reading.CreatedAt,
	}
	if reading.Sensor != "" {
		data["sensor"] = reading.Sensor
	}
	respond(c, http.StatusCreated, data)
}
