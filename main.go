package main

import (
	"cart-app/config"
	_ "cart-app/docs"
	"cart-app/server"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// @title Cart API
// @version 1.0
// @description Shopping cart backed by a remote JSON catalog.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.LoadConfig()

	pflag.StringVar(&cfg.AppMode, "mode", cfg.AppMode, "run mode: cart or catalog")
	pflag.StringVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	pflag.StringVar(&cfg.CatalogBaseURL, "base-url", cfg.CatalogBaseURL, "remote catalog base URL")
	pflag.StringVar(&cfg.CartStorage, "storage", cfg.CartStorage, "cart storage: memory, file, redis or postgres")
	pflag.Parse()

	logger, err := config.NewLogger(cfg.AppEnv)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		router  *gin.Engine
		cleanup func()
	)

	switch cfg.AppMode {
	case config.ModeCart:
		app, err := server.NewCartApp(ctx, cfg, logger)
		if err != nil {
			logger.Fatal("failed to start cart", zap.Error(err))
		}
		router, cleanup = app.Router, app.Close
		go app.Cart.Initialize(ctx)
	case config.ModeCatalog:
		app, err := server.NewCatalogApp(ctx, cfg, logger)
		if err != nil {
			logger.Fatal("failed to start catalog", zap.Error(err))
		}
		router, cleanup = app.Router, app.Close
	default:
		logger.Fatal("unknown mode", zap.String("mode", cfg.AppMode))
	}
	defer cleanup()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	logger.Info("server starting",
		zap.String("mode", cfg.AppMode),
		zap.String("addr", srv.Addr),
		zap.String("env", cfg.AppEnv),
		zap.String("swagger", "http://localhost:"+cfg.Port+"/swagger/index.html"))

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
