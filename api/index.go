package api

import (
	"cart-app/config"
	"cart-app/server"
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	handler http.Handler
	once    sync.Once
)

// initApp serves the catalog API from a serverless function. A failed start
// answers every request with 503 until the instance is recycled.
func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)

		cfg := config.LoadConfig()
		logger, err := config.NewLogger("production")
		if err != nil {
			logger = zap.NewNop()
		}

		app, err := server.NewCatalogApp(context.Background(), cfg, logger)
		if err != nil {
			logger.Error("catalog init failed", zap.Error(err))
			handler = unavailable(err)
			return
		}
		handler = app.Router
	})
}

func unavailable(err error) http.Handler {
	router := gin.New()
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "service unavailable", "error": err.Error()})
	})
	return router
}

func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	handler.ServeHTTP(w, r)
}
