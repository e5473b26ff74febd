package main

import (
	"context"
	"fmt"
	"log"
	"marketReco/app/echo-server/metrics"
	"marketReco/app/echo-server/router"
	"marketReco/business/activity"
	"marketReco/business/recommendation"
	"marketReco/internal/middleware"
	psqlRepo "marketReco/internal/repository/postgres"
	redisRepo "marketReco/internal/repository/redis"
	"marketReco/internal/rest"
	"marketReco/pkg/config"
	"marketReco/pkg/database"
	redisdb "marketReco/pkg/database/redis"
	"marketReco/pkg/logger"
	recoMetrics "marketReco/pkg/metrics"
	"marketReco/pkg/vecmath"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	logger.Info("Starting marketReco", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Optional trending cache
	var (
		redisClient *goredis.Client
		trendCache  recommendation.TrendingCache
	)
	if cfg.Redis.Enabled {
		redisClient, err = redisdb.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, trending cache disabled", "error", err)
		} else {
			trendCache = redisRepo.NewTrendingCache(redisClient)
			logger.Info("Redis connected successfully")
		}
	}

	// Vector math capability
	if !cfg.Recommendation.VectorMathEnabled {
		vecmath.SetDefaultInitializer(vecmath.DisabledInitializer)
	}
	capability := vecmath.Default()

	// Metrics
	metrics.Init()
	recoMetrics.Init()

	// Init repo
	catalogRepo := psqlRepo.NewCatalogRepository(db)
	historyRepo := psqlRepo.NewUserHistoryRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)

	// Init service
	recoCfg := recommendation.ConfigFrom(cfg.Recommendation)
	recoService := recommendation.NewService(catalogRepo, historyRepo, productRepo, trendCache, capability, recoCfg)
	activityService := activity.NewActivityService(historyRepo)

	// Init handler
	recoHandler := rest.NewRecommendationHandler(recoService, rest.SparsePolicy{
		Enabled:   recoCfg.SparseBackfill,
		Threshold: recoCfg.SparseThreshold,
		Limit:     recoCfg.IdentifiedLimit,
	})
	activityHandler := rest.NewActivityHandler(activityService)
	adminHandler := rest.NewAdminHandler(capability)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, middleware.HeaderRequestID},
	}))

	// Auth middleware
	authRequired := middleware.AuthMiddleware(cfg.JWT.SecretKey)
	optionalAuth := middleware.OptionalAuth(cfg.JWT.SecretKey)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	router.SetupOpsRoutes(e)
	api := e.Group("/api/v1")
	router.SetupRecommendationRoutes(api, recoHandler, optionalAuth)
	router.SetupActivityRoutes(api, activityHandler, authRequired)
	router.SetupAdminRoutes(api, adminHandler, authRequired, adminOnly)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if err := redisdb.CloseRedisClient(redisClient); err != nil {
		logger.Error("Redis close error", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("Server stopped")
}
