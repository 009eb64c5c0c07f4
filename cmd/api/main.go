package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/swasthyaid/health-api/internal/config"
	"github.com/swasthyaid/health-api/internal/handler"
	aiHandler "github.com/swasthyaid/health-api/internal/handler/ai"
	authHandler "github.com/swasthyaid/health-api/internal/handler/auth"
	doctorHandler "github.com/swasthyaid/health-api/internal/handler/doctor"
	recordHandler "github.com/swasthyaid/health-api/internal/handler/record"
	statsHandler "github.com/swasthyaid/health-api/internal/handler/stats"
	workerHandler "github.com/swasthyaid/health-api/internal/handler/worker"
	"github.com/swasthyaid/health-api/internal/middleware"
	"github.com/swasthyaid/health-api/internal/notifier"
	"github.com/swasthyaid/health-api/internal/repository/postgres"
	"github.com/swasthyaid/health-api/internal/router"
	aiService "github.com/swasthyaid/health-api/internal/service/ai"
	doctorService "github.com/swasthyaid/health-api/internal/service/doctor"
	otpService "github.com/swasthyaid/health-api/internal/service/otp"
	recordService "github.com/swasthyaid/health-api/internal/service/record"
	statsService "github.com/swasthyaid/health-api/internal/service/stats"
	workerService "github.com/swasthyaid/health-api/internal/service/worker"
	"github.com/swasthyaid/health-api/internal/storage"
	internalWorker "github.com/swasthyaid/health-api/internal/worker"
	"github.com/swasthyaid/health-api/pkg/auth"
	"github.com/swasthyaid/health-api/pkg/gemini"
	"github.com/swasthyaid/health-api/pkg/logger"
	redisBroker "github.com/swasthyaid/health-api/pkg/messaging/redis"
	"github.com/swasthyaid/health-api/pkg/metrics"
	"github.com/swasthyaid/health-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.NewMetrics("health_api", "core")

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	workerRepo := postgres.NewWorkerRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	otpRepo := postgres.NewOTPRepository(db)
	recordRepo := postgres.NewRecordRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	documentRepo := postgres.NewDocumentRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)
	statsRepo := postgres.NewStatsRepository(db)

	// Shared infrastructure
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	otpNotifier := notifier.NewEmailNotifier(cfg.SMTP)
	documentStore, err := storage.NewFileStore(cfg.Storage.Root)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize document store")
	}
	geminiClient := gemini.NewClient(gemini.Config{
		BaseURL: cfg.AI.BaseURL,
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.Timeout,
	})

	// Services
	workerSvc := workerService.NewService(workerRepo, recordRepo, appointmentRepo, documentRepo)
	doctorSvc := doctorService.NewService(doctorRepo, jwtSvc)
	otpSvc := otpService.NewService(otpRepo, workerRepo, jwtSvc, otpNotifier, appLogger,
		appMetrics, cfg.OTP.Expiry, cfg.OTP.DevMode)
	recordSvc := recordService.NewService(workerRepo, doctorRepo, recordRepo, documentStore, appMetrics)
	statsSvc := statsService.NewService(workerRepo, recordRepo, documentRepo, statsRepo,
		geminiClient, appLogger)
	aiSvc := aiService.NewService(geminiClient, documentStore, appMetrics)

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	h := handler.NewHandler(db)
	authH := authHandler.NewHandler(otpSvc)
	workerH := workerHandler.NewHandler(workerSvc, outboxRepo, appLogger)
	doctorH := doctorHandler.NewHandler(doctorSvc)
	recordH := recordHandler.NewHandler(recordSvc)
	statsH := statsHandler.NewHandler(statsSvc)
	aiH := aiHandler.NewHandler(aiSvc)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	}

	r := router.NewRouter(
		authMiddleware,
		authH,
		workerH,
		doctorH,
		recordH,
		statsH,
		aiH,
		h,
		router.Config{
			RateLimit:  rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:  cfg.RateLimit.Burst,
			CORSConfig: corsConfig,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	// The outbox processor drains sync events to Redis; the dashboard worker
	// in cmd/worker consumes them.
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

	outboxProcessor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: cfg.Outbox.RetryAttempts,
		RetryDelay:    cfg.Outbox.RetryDelay,
	}, appLogger, appMetrics)
	go outboxProcessor.Start(workerCtx)

	otpCleanup := internalWorker.NewOTPCleanupWorker(otpRepo, cfg.OTP.CleanupInterval, appLogger)
	go otpCleanup.Start(workerCtx)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
