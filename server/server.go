package server

import (
	"cart-app/config"
	"cart-app/controllers"
	"cart-app/events"
	"cart-app/libs"
	"cart-app/middleware"
	"cart-app/repositories"
	"cart-app/routes"
	"cart-app/services"
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type closer func()

func (c *closer) add(fn func()) {
	prev := *c
	*c = func() {
		fn()
		if prev != nil {
			prev()
		}
	}
}

func newEngine(cfg *config.Config, logger *zap.Logger) *gin.Engine {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORSMiddleware())
	return router
}

// NewLocalStorage picks the backend named by cfg.CartStorage.
func NewLocalStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.LocalStorage, func(), error) {
	switch cfg.CartStorage {
	case "memory":
		return repositories.NewMemoryStorage(), func() {}, nil
	case "file", "":
		return repositories.NewFileStorage(cfg.CartFile), func() {}, nil
	case "redis":
		client, err := config.ConnectRedis(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewRedisStorage(client, cfg.RedisKeyPrefix), func() { client.Close() }, nil
	case "postgres":
		pool, err := config.ConnectDB(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewPostgresStorage(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown cart storage %q", cfg.CartStorage)
	}
}

type CartApp struct {
	Router *gin.Engine
	Cart   *services.CartService
	IDs    *services.ProductIDSet
	Close  func()
}

func NewCartApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*CartApp, error) {
	storage, closeStorage, err := NewLocalStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	store := repositories.NewCartStore(storage)

	ids := services.NewProductIDSet()
	if entries, err := store.Load(ctx); err == nil {
		seed := make([]int, 0, len(entries))
		for _, e := range entries {
			seed = append(seed, e.ID)
		}
		ids.SetProductIDs(seed)
	}

	api := libs.NewAPIClient(cfg.CatalogBaseURL, cfg.HTTPTimeout)
	cart := services.NewCartService(
		store,
		services.NewProductResolver(api, cfg.FetchConcurrency, logger),
		services.NewCouponService(api),
		services.NewOrderService(api, cfg.OrderGroupID, logger),
		ids,
		logger,
	)

	router := newEngine(cfg, logger)
	routes.SetupCartRoutes(router, controllers.NewCartController(cart, ids, logger))

	return &CartApp{Router: router, Cart: cart, IDs: ids, Close: closeStorage}, nil
}

type CatalogApp struct {
	Router *gin.Engine
	Close  func()
}

func NewCatalogApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*CatalogApp, error) {
	var cleanup closer

	pool, err := config.ConnectDB(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	cleanup.add(pool.Close)

	var opts []services.CatalogOption

	if cfg.ProductCacheTTL > 0 {
		client, err := config.ConnectRedis(ctx, cfg)
		if err != nil {
			logger.Warn("redis unavailable, running without product cache", zap.Error(err))
		} else {
			cleanup.add(func() { client.Close() })
			opts = append(opts, services.WithProductCache(repositories.NewProductCache(client, cfg.RedisKeyPrefix, cfg.ProductCacheTTL)))
		}
	}

	if cfg.RabbitMQURL != "" {
		publisher, err := events.Dial(cfg.RabbitMQURL)
		if err != nil {
			logger.Warn("rabbitmq unavailable, order events disabled", zap.Error(err))
		} else {
			cleanup.add(func() { publisher.Close() })
			opts = append(opts, services.WithOrderPublisher(publisher))
		}
	}

	if cfg.OrderNotify != "" {
		mailer, err := libs.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
		if err != nil {
			logger.Warn("order mail disabled", zap.Error(err))
		} else {
			opts = append(opts, services.WithOrderNotifier(mailer, cfg.OrderNotify))
		}
	}

	catalog := services.NewCatalogService(
		repositories.NewProductRepository(pool),
		repositories.NewCouponRepository(pool),
		repositories.NewOrderRepository(pool),
		logger,
		opts...,
	)

	auth := services.NewAuthService(repositories.NewUserRepository(pool), cfg.JWTSecret, cfg.JWTExpiry)
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := auth.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			cleanup()
			return nil, fmt.Errorf("ensure admin: %w", err)
		}
	}

	router := newEngine(cfg, logger)
	routes.SetupCatalogRoutes(router, routes.CatalogControllers{
		Catalog: controllers.NewCatalogController(catalog, logger),
		Product: controllers.NewProductController(catalog),
		Coupon:  controllers.NewCouponController(catalog),
		Order:   controllers.NewOrderController(catalog, cfg.OrderGroupID),
		Auth:    controllers.NewAuthController(auth),
	}, cfg.JWTSecret)

	return &CatalogApp{Router: router, Close: cleanup}, nil
}

// compile-time checks for the ports wired above
var (
	_ repositories.LocalStorage = (*repositories.RedisStorage)(nil)
	_ repositories.LocalStorage = (*repositories.PostgresStorage)(nil)
	_ services.CartStorage      = (*repositories.CartStore)(nil)
	_ services.ProductCacher    = (*repositories.ProductCache)(nil)
	_ services.OrderPublisher   = (*events.Publisher)(nil)
	_ services.OrderNotifier    = (*libs.Mailer)(nil)
	_ services.UserStore        = (*repositories.UserRepository)(nil)
	_ services.RemoteAPI        = (*libs.APIClient)(nil)
)
