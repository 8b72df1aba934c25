package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"amp-monitor-backend/internal/model"
	"amp-monitor-backend/internal/store"
	"amp-monitor-backend/internal/timerange"
	"amp-monitor-backend/internal/validate"
)

// GetProducts handles GET /api/products. Each product carries its derived
// reading count.
func (h *Handler) GetProducts(c *gin.Context) {
	products, err := h.store.ListProducts(c.Request.Context())
	if err != nil {
		h.storeError(c, err)
		return
	}
	respond(c, http.StatusOK, products)
}

// CreateProduct handles POST /api/products.
func (h *Handler) CreateProduct(c *gin.Context) {
	var payload validate.ProductPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, "request body must be a JSON object", "")
		return
	}

	in, verr := validate.ParseProduct(payload)
	if verr != nil {
		fail(c, http.StatusBadRequest, verr.Message, string(verr.Code))
		return
	}

	product := &model.Product{
		ID:      model.NewID(),
		Name:    in.Name,
		Sensors: in.Sensors,
	}
	if err := h.store.CreateProduct(c.Request.Context(), product); err != nil {
		h.storeError(c, err)
		return
	}
	respond(c, http.StatusCreated, product)
}

// GetProductUsers handles GET /api/products/:productId/users, grouping the
// product's readings by username.
func (h *Handler) GetProductUsers(c *gin.Context) {
	product, ok := h.lookupProduct(c)
	if !ok {
		return
	}

	limit, page := validate.Pagination(c.Query("limit"), c.Query("page"))
	filter := store.ReadingFilter{ProductID: product.ID}
	if cutoff, ok := timerange.Parse(c.Query("timeRange"), time.Now()); ok {
		filter.Since = cutoff
	}

	users, pagination, err := h.store.GroupUsers(c.Request.Context(), filter, limit, page)
	if err != nil {
		h.storeError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"product":    product,
		"users":      users,
		"pagination": pagination,
	})
}

// GetProductUserReadings handles GET /api/products/:productId/users/:username
// with limit/page/timeRange queries.
func (h *Handler) GetProductUserReadings(c *gin.Context) {
	product, ok := h.lookupProduct(c)
	if !ok {
		return
	}
	username, verr := validate.Username(c.Param("username"))
	if verr != nil {
		fail(c, http.StatusBadRequest, verr.Message, string(verr.Code))
		return
	}

	limit, page := validate.Pagination(c.Query("limit"), c.Query("page"))
	filter := store.ReadingFilter{ProductID: product.ID, Username: username}
	if cutoff, ok := timerange.Parse(c.Query("timeRange"), time.Now()); ok {
		filter.Since = cutoff
	}

	readings, pagination, err := h.store.ListReadings(c.Request.Context(), filter, limit, page)
	if err != nil {
		h.storeError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"product":    product,
		"username":   username,
		"readings":   readings,
		"pagination": pagination,
	})
}

// GetProductUserReadingsBySensor handles
// GET /api/products/:productId/users/:username/readings, optionally filtered
// to one of the product's sensor channels.
func (h *Handler) GetProductUserReadingsBySensor(c *gin.Context) {
	product, ok := h.lookupProduct(c)
	if !ok {
		return
	}
	username, verr := validate.Username(c.Param("username"))
	if verr != nil {
		fail(c, http.StatusBadRequest, verr.Message, string(verr.Code))
		return
	}

	sensor := c.Query("sensor")
	if sensor != "" {
		if verr := validate.Sensor(product, sensor); verr != nil {
			fail(c, http.StatusBadRequest, verr.Message, string(verr.Code))
			return
		}
	}

	limit, page := validate.Pagination(c.Query("limit"), c.Query("page"))
	filter := store.ReadingFilter{ProductID: product.ID, Username: username, Sensor: sensor}
	if cutoff, ok := timerange.Parse(c.Query("timeRange"), time.Now()); ok {
		filter.Since = cutoff
	}

	readings, pagination, err := h.store.ListReadings(c.Request.Context(), filter, limit, page)
	if err != nil {
		h.storeError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"product":    product,
		"username":   username,
		"sensor":     sensor,
		"readings":   readings,
		"pagination": pagination,
	})
}

// GetProductUsersBySensor handles GET /api/products/:productId/sensor. The
// sensor query parameter is required here.
func (h *Handler) GetProductUsersBySensor(c *gin.Context) {
	product, ok := h.lookupProduct(c)
	if !ok {
		return
	}

	sensor := c.Query("sensor")
	if sensor == "" {
		fail(c, http.StatusBadRequest, "sensor query parameter is required", "")
		return
	}
	if verr := validate.Sensor(product, sensor); verr != nil {
		fail(c, http.StatusBadRequest, verr.Message, string(verr.Code))
		return
	}

	limit, page := validate.Pagination(c.Query("limit"), c.Query("page"))
	filter := store.ReadingFilter{ProductID: product.ID, Sensor: sensor}
	if cutoff, ok := timerange.Parse(c.Query("timeRange"), time.Now()); ok {
		filter.Since = cutoff
	}

	users, pagination, err := h.store.GroupUsers(c.Request.Context(), filter, limit, page)
	if err != nil {
		h.storeError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"product":    product,
		"sensor":     sensor,
		"users":      users,
		"pagination": pagination,
	})
}

// GetProductUserStats handles
// GET /api/products/:productId/users/:username/readings/stats.
func (h *Handler) GetProductUserStats(c *gin.Context) {
	product, ok := h.lookupProduct(c)
	if !ok {
		return
	}
	username, verr := validate.Username(c.Param("username"))
	if verr != nil {
		fail(c, http.StatusBadRequest, verr.Message, string(verr.Code))
		return
	}

	sensor := c.Query("sensor")
	if sensor != "" {
		if verr := validate.Sensor(product, sensor); verr != nil {
			fail(c, http.StatusBadRequest, verr.Message, string(verr.Code))
			return
		}
	}

	filter := store.ReadingFilter{ProductID: product.ID, Username: username, Sensor: sensor}
	if cutoff, ok := timerange.Parse(c.Query("timeRange"), time.Now()); ok {
		filter.Since = cutoff
	}

	stats, err := h.store.Statistics(c.Request.Context(), filter)
	if err != nil {
		h.storeError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"product":    product,
		"username":   username,
		"sensor":     sensor,
		"statistics": stats,
	})
}

// lookupProduct resolves the productId path segment, writing a 404 when it
// does not resolve.
func (h *Handler) lookupProduct(c *gin.Context) (*model.Product, bool) {
	product, err := h.store.GetProduct(c.Request.Context(), c.Param("productId"))
	if err == store.ErrNotFound {
		fail(c, http.StatusNotFound, "product not found", "")
		return nil, false
	}
	if err != nil {
		h.storeError(c, err)
		return nil, false
	}
	return product, true
}
