package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"amp-monitor-backend/config"
	"amp-monitor-backend/internal/api"
	"amp-monitor-backend/internal/db"
	"amp-monitor-backend/internal/store"
)

// TestReadingLifecycle drives the full API surface end to end: a product is
// created, readings are ingested for two users, and every aggregation
// endpoint is checked against the ingested data.
func TestReadingLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testDB, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, db.Migrate(testDB))

	cfg := &config.Config{
		App: config.AppConfig{Environment: "test"},
		Server: config.ServerConfig{
			RateLimitPerSec: 10000,
			RateLimitBurst:  10000,
			CacheTTLSeconds: 1,
		},
	}
	router := api.NewRouter(store.NewGormStore(testDB), cfg, zerolog.Nop())

	request := func(method, path string, payload any) (*httptest.ResponseRecorder, map[string]any) {
		var buf bytes.Buffer
		if payload != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(payload))
		}
		req, err := http.NewRequest(method, path, &buf)
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return w, body
	}

	var productID string
	t.Run("create product", func(t *testing.T) {
		w, body := request(http.MethodPost, "/api/products", map[string]any{
			"name":    "Amp Meter",
			"sensors": []string{"main", "aux"},
		})
		require.Equal(t, http.StatusCreated, w.Code)
		productID = body["data"].(map[string]any)["id"].(string)
		require.Len(t, productID, 24)
	})

	t.Run("ingest readings", func(t *testing.T) {
		samples := []struct {
			username string
			amper    float64
			sensor   string
		}{
			{"alice", 1.0, "main"},
			{"alice", 0.5, "main"},
			{"alice", 0.0, "aux"},
			{"bob", 2.0, "main"},
		}
		for _, sample := range samples {
			w, body := request(http.MethodPost, "/api/data", map[string]any{
				"username":  sample.username,
				"amper":     sample.amper,
				"productId": productID,
				"sensor":    sample.sensor,
			})
			require.Equal(t, http.StatusCreated, w.Code, fmt.Sprintf("%+v", sample))
			assert.Equal(t, true, body["success"])
		}
	})

	t.Run("user stats", func(t *testing.T) {
		w, body := request(http.MethodGet, "/api/user/alice/stats", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := body["data"].(map[string]any)
		assert.Equal(t, float64(3), data["totalReadings"])
		assert.Equal(t, float64(1), data["highAmpCount"])
		assert.Equal(t, float64(2), data["lowAmpCount"])
		assert.Equal(t, float64(33), data["percentage"])
	})

	t.Run("recent readings", func(t *testing.T) {
		w, body := request(http.MethodGet, "/api/user/alice/recent", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, body["data"].([]any), 3)
		assert.Equal(t, "24h", body["meta"].(map[string]any)["timeRange"])
	})

	t.Run("product users", func(t *testing.T) {
		w, body := request(http.MethodGet, "/api/products/"+productID+"/users", nil)
		require.Equal(t, http.StatusOK, w.Code)
		users := body["data"].(map[string]any)["users"].([]any)
		require.Len(t, users, 2)

		alice := users[0].(map[string]any)
		assert.Equal(t, "alice", alice["username"])
		assert.Equal(t, float64(3), alice["totalReadings"])
		assert.Equal(t, 0.5, alice["averageAmper"])
	})

	t.Run("users by sensor", func(t *testing.T) {
		w, body := request(http.MethodGet, "/api/products/"+productID+"/sensor?sensor=aux", nil)
		require.Equal(t, http.StatusOK, w.Code)
		users := body["data"].(map[string]any)["users"].([]any)
		require.Len(t, users, 1)
		assert.Equal(t, "alice", users[0].(map[string]any)["username"])
	})

	t.Run("filtered statistics", func(t *testing.T) {
		w, body := request(http.MethodGet,
			"/api/products/"+productID+"/users/alice/readings/stats", nil)
		require.Equal(t, http.StatusOK, w.Code)
		stats := body["data"].(map[string]any)["statistics"].(map[string]any)
		assert.Equal(t, float64(3), stats["totalReadings"])
		assert.Equal(t, 0.5, stats["avgAmper"])

		categories := stats["categories"].(map[string]any)
		assert.Equal(t, float64(1), categories["off"])
		assert.Equal(t, float64(0), categories["low"])
		assert.Equal(t, float64(1), categories["mid"])
		assert.Equal(t, float64(1), categories["high"])
	})

	t.Run("unknown sensor rejected", func(t *testing.T) {
		w, body := request(http.MethodGet, "/api/products/"+productID+"/sensor?sensor=ground", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		message := body["message"].(string)
		assert.Contains(t, message, "main")
		assert.Contains(t, message, "aux")
	})

	t.Run("product list reflects readings", func(t *testing.T) {
		w, body := request(http.MethodGet, "/api/products", nil)
		require.Equal(t, http.StatusOK, w.Code)
		products := body["data"].([]any)
		require.Len(t, products, 1)
		assert.Equal(t, float64(4), products[0].(map[string]any)["totalReadings"])
	})
}
