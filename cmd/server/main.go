package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/shamcart/storefront/configs"
	"github.com/shamcart/storefront/internal/application/services"
	"github.com/shamcart/storefront/internal/core/ports"
	"github.com/shamcart/storefront/internal/infrastructure/cache"
	"github.com/shamcart/storefront/internal/infrastructure/db"
	"github.com/shamcart/storefront/internal/infrastructure/email"
	"github.com/shamcart/storefront/internal/infrastructure/health"
	"github.com/shamcart/storefront/internal/infrastructure/httpserver"
	"github.com/shamcart/storefront/internal/infrastructure/redis"
	"github.com/shamcart/storefront/internal/infrastructure/repositories"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting storefront application...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Run migrations
	if err := database.Migrate("./migrations"); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	healthCheckers := []ports.HealthChecker{health.NewDBHealthChecker(database)}

	// Select the cache backend. The in-memory store owns a background
	// sweeper whose lifecycle belongs to this bootstrap, not the store.
	var cacheStore ports.CacheStore
	switch cfg.Cache.Backend {
	case "redis":
		redisClient, err := redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis:", err)
		}
		defer redisClient.Close()
		logger.Info("Connected to Redis successfully")

		cacheStore = redis.NewCache(redisClient, cfg.Cache.KeyPrefix, cfg.Cache.DefaultTTL, logger)
		healthCheckers = append(healthCheckers, health.NewRedisHealthChecker(redisClient))
	default:
		memStore := cache.NewMemoryStore(cfg.Cache.MaxSize, cfg.Cache.DefaultTTL, logger)
		memStore.StartSweeper(cfg.Cache.SweepInterval)
		defer memStore.Stop()
		cacheStore = memStore
	}
	logger.WithField("backend", cfg.Cache.Backend).Info("Cache store initialized")

	// Repositories; the product repository is decorated with caching.
	baseProductRepo := repositories.NewProductRepository(database, logger)
	productRepo := repositories.NewCachedProductRepository(baseProductRepo, cacheStore, logger)
	categoryRepo := repositories.NewCategoryRepository(database, logger)
	cartRepo := repositories.NewCartRepository(database, logger)
	orderRepo := repositories.NewOrderRepository(database, logger)
	reviewRepo := repositories.NewReviewRepository(database, logger)
	userRepo := repositories.NewUserRepository(database, logger)
	wishlistRepo := repositories.NewWishlistRepository(database, logger)

	emailService, err := email.NewEmailService(cfg.Email, logger)
	if err != nil {
		logger.Fatal("Failed to initialize email service:", err)
	}

	// Services
	userService := services.NewUserService(userRepo, emailService, cacheStore, logger)
	authService := services.NewAuthService(userRepo, cacheStore, cfg.JWT, logger)
	productService := services.NewProductService(productRepo, categoryRepo, logger)
	categoryService := services.NewCategoryService(categoryRepo, cacheStore, logger)
	cartService := services.NewCartService(cartRepo, productRepo, logger)
	orderService := services.NewOrderService(orderRepo, cartRepo, productRepo, userRepo, emailService, logger)
	wishlistService := services.NewWishlistService(wishlistRepo, productRepo, logger)
	reviewService := services.NewReviewService(reviewRepo, productRepo, logger)
	searchService := services.NewSearchService(productRepo, cacheStore, logger)

	rateLimiterService := services.NewRateLimiterService(cacheStore, &services.RateLimiterConfig{
		RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
		Window:            cfg.RateLimit.Window,
		KeyPrefix:         cfg.RateLimit.KeyPrefix,
	}, logger)

	serverConfig := &httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Environment:    cfg.Server.Environment,
	}

	deps := httpserver.ServerDeps{
		AuthService:        authService,
		UserService:        userService,
		ProductService:     productService,
		CategoryService:    categoryService,
		CartService:        cartService,
		OrderService:       orderService,
		WishlistService:    wishlistService,
		ReviewService:      reviewService,
		SearchService:      searchService,
		RateLimiterService: rateLimiterService,
		CacheStore:         cacheStore,
		HealthCheckers:     healthCheckers,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	go func() {
		if err := server.Start(); err != nil {
			logger.Info("Server stopped:", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
