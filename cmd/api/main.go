package main

// @title Route Intelligence Service API
// @version 1.0.0
// @description Сервис маршрутной аналитики для полевых сессий. Преобразует сырые GPS-треки мобильных сессий в маршруты с дистанцией и длительностью, классифицирует характер движения и агрегирует сессионную статистику по периодам.
// @description
// @description Основные возможности:
// @description - Резолв маршрута по GPS-треку с деградацией в алгоритмический расчёт
// @description - Классификация движения (статичная локация, сложность маршрута)
// @description - Суточная, недельная и месячная аналитика сессий

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/Hari1275/sdp-sub003/docs/swagger"
	"github.com/Hari1275/sdp-sub003/internal/config"
	httpDelivery "github.com/Hari1275/sdp-sub003/internal/delivery/http"
	"github.com/Hari1275/sdp-sub003/internal/delivery/http/handler"
	"github.com/Hari1275/sdp-sub003/internal/domain/repository"
	"github.com/Hari1275/sdp-sub003/internal/infrastructure/mapbox"
	"github.com/Hari1275/sdp-sub003/internal/pkg/logger"
	"github.com/Hari1275/sdp-sub003/internal/repository/cache"
	"github.com/Hari1275/sdp-sub003/internal/repository/postgres"
	"github.com/Hari1275/sdp-sub003/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Route Intelligence Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()
	log.Info("PostgreSQL connected")

	// 4. Connect to Redis. Кеш маршрутов переживает недоступный Redis:
	// сервис продолжает работать на внутрипроцессном LRU
	var cacheRepo repository.CacheRepository
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory route cache", zap.Error(err))
		cacheRepo = cache.NewMemoryCache(cfg.Routing.CacheCapacity)
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()
		cacheRepo = cache.NewCacheRepository(redisClient)
		log.Info("Redis connected")
	}

	// 5. Health check
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}
	log.Info("All connections healthy")

	// 6. Initialize repositories
	sessionRepo := postgres.NewSessionRepository(db, log)
	routeCache := cache.NewRouteCache(cacheRepo, cfg.Routing.CacheTTL, log)

	// Провайдер маршрутов опционален: без токена движок работает
	// в постоянном алгоритмическом режиме
	var provider repository.RouteProviderRepository
	if cfg.Mapbox.AccessToken != "" {
		provider = mapbox.NewMapboxClient(&cfg.Mapbox, log)
	}

	log.Info("Repositories initialized")

	// 7. Initialize use cases
	classifier := usecase.NewMovementClassifier(&cfg.Routing, log)
	routeUC := usecase.NewRouteUseCase(provider, routeCache, classifier, cfg.Routing, log)
	analyticsUC := usecase.NewAnalyticsUseCase(sessionRepo, cfg.Analytics, log)

	log.Info("Use cases initialized")

	// 8. Initialize HTTP handlers
	routeHandler := handler.NewRouteHandler(routeUC, classifier, log)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsUC, log)

	// 9. Initialize HTTP server
	server := httpDelivery.NewServer(cfg, log, routeHandler, analyticsHandler)

	log.Info("HTTP server initialized")

	// 10. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
