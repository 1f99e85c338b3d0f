package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Hari1275/sdp-sub003/internal/config"
	"github.com/Hari1275/sdp-sub003/internal/domain/repository"
	"github.com/Hari1275/sdp-sub003/internal/infrastructure/mapbox"
	"github.com/Hari1275/sdp-sub003/internal/pkg/logger"
	"github.com/Hari1275/sdp-sub003/internal/repository/cache"
	"github.com/Hari1275/sdp-sub003/internal/repository/postgres"
	redisRepo "github.com/Hari1275/sdp-sub003/internal/repository/redis"
	"github.com/Hari1275/sdp-sub003/internal/usecase"
	"github.com/Hari1275/sdp-sub003/internal/worker"
	"github.com/Hari1275/sdp-sub003/internal/worker/session"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Session Checkout Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup))

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

	// 4. Connect to Redis (стримы обязательны для воркера)
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Initialize repositories
	sessionRepo := postgres.NewSessionRepository(db, log)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)
	cacheRepo := cache.NewCacheRepository(redisClient)
	routeCache := cache.NewRouteCache(cacheRepo, cfg.Routing.CacheTTL, log)

	var provider repository.RouteProviderRepository
	if cfg.Mapbox.AccessToken != "" {
		provider = mapbox.NewMapboxClient(&cfg.Mapbox, log)
	}

	// 6. Initialize use cases
	classifier := usecase.NewMovementClassifier(&cfg.Routing, log)
	routeUC := usecase.NewRouteUseCase(provider, routeCache, classifier, cfg.Routing, log)

	// 7. Initialize workers
	checkoutWorker := session.NewCheckoutWorker(
		streamRepo,
		sessionRepo,
		routeUC,
		cfg.Worker.ConsumerGroup,
		log,
	)

	// 8. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(checkoutWorker)

	// 9. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
