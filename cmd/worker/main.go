package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/swasthyaid/health-api/internal/config"
	"github.com/swasthyaid/health-api/internal/model"
	"github.com/swasthyaid/health-api/internal/repository"
	"github.com/swasthyaid/health-api/internal/repository/postgres"
	syncService "github.com/swasthyaid/health-api/internal/service/sync"
	"github.com/swasthyaid/health-api/pkg/logger"
	redisBroker "github.com/swasthyaid/health-api/pkg/messaging/redis"
)

// outboxRetention is how long processed outbox rows are kept before pruning.
const outboxRetention = 7 * 24 * time.Hour

func setupHealthCheck(appLogger *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(":8081", mux); err != nil {
			appLogger.Fatal(err, "health check server failed")
		}
	}()
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	statsRepo := postgres.NewStatsRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)
	syncSvc := syncService.NewService(statsRepo, appLogger)

	zl := log.Logger
	broker, err := redisBroker.NewRedisBroker(redisBroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &zl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setupHealthCheck(appLogger)

	recordEvents, err := broker.Subscribe(ctx, model.EventRecordCreated)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to subscribe to record events")
	}
	workerEvents, err := broker.Subscribe(ctx, model.EventWorkerRegistered)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to subscribe to worker events")
	}

	go consume(ctx, recordEvents, syncSvc.HandleRecordCreated, appLogger)
	go consume(ctx, workerEvents, syncSvc.HandleWorkerRegistered, appLogger)
	go pruneOutbox(ctx, outboxRepo, appLogger)

	appLogger.Info("dashboard sync worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down dashboard sync worker")
}

func consume(ctx context.Context, events <-chan []byte,
	handle func(context.Context, []byte) error, appLogger *logger.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-events:
			if !ok {
				return
			}
			if err := handle(ctx, payload); err != nil {
				appLogger.Error(err, "failed to handle event")
			}
		}
	}
}

// pruneOutbox deletes processed outbox rows older than the retention window.
func pruneOutbox(ctx context.Context, repo repository.OutboxRepository, appLogger *logger.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rows, err := repo.DeleteProcessedBefore(ctx, time.Now().Add(-outboxRetention))
			if err != nil {
				appLogger.Error(err, "failed to prune outbox")
				continue
			}
			if rows > 0 {
				appLogger.Info("pruned processed outbox events", "rows", rows)
			}
		}
	}
}
