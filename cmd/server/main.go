package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/bankaccounts/internal/adapter/http"
	"github.com/iho/bankaccounts/internal/adapter/http/handler"
	"github.com/iho/bankaccounts/internal/adapter/http/middleware"
	kafkaAdapter "github.com/iho/bankaccounts/internal/adapter/kafka"
	postgresRepo "github.com/iho/bankaccounts/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/bankaccounts/internal/adapter/repository/redis"
	"github.com/iho/bankaccounts/internal/infrastructure/config"
	"github.com/iho/bankaccounts/internal/infrastructure/logger"
	"github.com/iho/bankaccounts/internal/infrastructure/postgres"
	"github.com/iho/bankaccounts/internal/infrastructure/redis"
	"github.com/iho/bankaccounts/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger
	zerolog.DefaultContextLogger = &appLogger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	movementRepo := postgresRepo.NewMovementRepository(pool)
	customerRepo := redisRepo.NewCustomerCache(
		postgresRepo.NewCustomerRepository(pool),
		redisClient,
		cfg.CustomerCacheTTL,
		appLogger,
	)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(appLogger)

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(accountRepo, movementRepo, customerRepo, idGen)
	movementUC := usecase.NewMovementUseCase(txManager, accountRepo, movementRepo, customerRepo, idGen, retrier)
	reportUC := usecase.NewReportUseCase(accountRepo, movementRepo, customerRepo)
	projectorUC := usecase.NewProjectorUseCase(customerRepo, appLogger)

	// Identity sync consumer
	consumer := kafkaAdapter.NewConsumer(
		cfg.KafkaBrokers,
		cfg.KafkaTopic,
		cfg.KafkaConsumerGroup,
		projectorUC.HandleMessage,
		appLogger,
	)

	consumerCtx, stopConsumer := context.WithCancel(ctx)
	go func() {
		log.Info().
			Strs("brokers", cfg.KafkaBrokers).
			Str("topic", cfg.KafkaTopic).
			Msg("starting identity sync consumer")

		if err := consumer.Start(consumerCtx); err != nil {
			log.Error().Err(err).Msg("identity sync consumer stopped")
		}
	}()

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountUC)
	movementHandler := handler.NewMovementHandler(movementUC)
	reportHandler := handler.NewReportHandler(reportUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   accountHandler,
		MovementHandler:  movementHandler,
		ReportHandler:    reportHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		Logger:           appLogger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	stopConsumer()
	if err := consumer.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close consumer")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
