package server

import (
	"cart-app/config"
	"cart-app/repositories"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLocalStorage(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	storage, closeFn, err := NewLocalStorage(ctx, &config.Config{CartStorage: "memory"}, logger)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &repositories.MemoryStorage{}, storage)

	path := filepath.Join(t.TempDir(), "storage.json")
	storage, closeFn, err = NewLocalStorage(ctx, &config.Config{CartStorage: "file", CartFile: path}, logger)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &repositories.FileStorage{}, storage)

	_, _, err = NewLocalStorage(ctx, &config.Config{CartStorage: "floppy"}, logger)
	assert.ErrorContains(t, err, "floppy")
}

func TestNewCartApp(t *testing.T) {
	gin.SetMode(gin.TestMode)
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/couponCodes.json" {
			w.Write([]byte(`{"SAVE":{"discount":0.5}}`))
			return
		}
		w.Write([]byte(`{"id":1,"price":4}`))
	}))
	defer remote.Close()

	cfg := &config.Config{
		CartStorage:      "memory",
		CatalogBaseURL:   remote.URL,
		OrderGroupID:     "group-7",
		FetchConcurrency: 2,
		HTTPTimeout:      time.Second,
	}
	app, err := NewCartApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	app.Cart.Initialize(context.Background())
	assert.False(t, app.Cart.View().IsLoading)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
