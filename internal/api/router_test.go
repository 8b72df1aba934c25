package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"amp-monitor-backend/config"
	appdb "amp-monitor-backend/internal/db"
	"amp-monitor-backend/internal/model"
	"amp-monitor-backend/internal/store"
)

var testDBCounter atomic.Int64

// newTestRouter wires the full router against a fresh in-memory database.
func newTestRouter(t *testing.T) (*gin.Engine, store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:apitest%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, appdb.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	s := store.NewGormStore(db)
	cfg := &config.Config{
		App: config.AppConfig{Environment: "test"},
		Server: config.ServerConfig{
			Port:            0,
			RateLimitPerSec: 10000,
			RateLimitBurst:  10000,
			CacheTTLSeconds: 1,
		},
	}
	return NewRouter(s, cfg, zerolog.Nop()), s
}

func seedTestProduct(t *testing.T, s store.Store, name string, sensors []string) *model.Product {
	t.Helper()
	product := &model.Product{Name: name, Sensors: sensors}
	require.NoError(t, s.CreateProduct(context.Background(), product))
	return product
}

func seedTestReading(t *testing.T, s store.Store, username string, amper float64, productID, sensor string, createdAt time.Time) {
	t.Helper()
	require.NoError(t, s.CreateReading(context.Background(), &model.Reading{
		Username:  username,
		Amper:     amper,
		ProductID: productID,
		Sensor:    sensor,
		CreatedAt: createdAt,
	}))
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
