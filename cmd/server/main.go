package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/pocketbank/pocketbank/internal/adapter/http"
	"github.com/pocketbank/pocketbank/internal/adapter/http/handler"
	httpMiddleware "github.com/pocketbank/pocketbank/internal/adapter/http/middleware"
	postgresRepo "github.com/pocketbank/pocketbank/internal/adapter/repository/postgres"
	redisRepo "github.com/pocketbank/pocketbank/internal/adapter/repository/redis"
	"github.com/pocketbank/pocketbank/internal/infrastructure/config"
	"github.com/pocketbank/pocketbank/internal/infrastructure/logger"
	"github.com/pocketbank/pocketbank/internal/infrastructure/metrics"
	"github.com/pocketbank/pocketbank/internal/infrastructure/postgres"
	"github.com/pocketbank/pocketbank/internal/infrastructure/redis"
	"github.com/pocketbank/pocketbank/internal/scheduler"
	"github.com/pocketbank/pocketbank/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	lg := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = lg

	ctx := context.Background()

	// PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	lg.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		lg.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	lg.Info().Msg("connected to redis")

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	cdRepo := postgresRepo.NewCDRepository(pool)
	loanRepo := postgresRepo.NewLoanRepository(pool)
	chargeRepo := postgresRepo.NewRecurringChargeRepository(pool)
	settingsRepo := postgresRepo.NewSettingsRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	clock := usecase.SystemClock{}
	m := metrics.New()

	// Use cases
	interestUC := usecase.NewInterestUseCase(txManager, accountRepo, entryRepo, idGen, clock, m)
	feeUC := usecase.NewFeeUseCase(txManager, accountRepo, entryRepo, idGen, clock, m)
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, entryRepo, settingsRepo, interestUC, feeUC, idGen, clock, m)
	accountUC := usecase.NewAccountUseCase(accountRepo, settingsRepo, interestUC, idGen, clock)
	cdUC := usecase.NewCDUseCase(txManager, cdRepo, ledgerUC, idGen, clock, lg, m)
	loanUC := usecase.NewLoanUseCase(txManager, loanRepo, ledgerUC, idGen, clock, lg, m)
	recurringUC := usecase.NewRecurringUseCase(chargeRepo, ledgerUC, idGen, clock, lg, m)
	maintenanceUC := usecase.NewMaintenanceUseCase(accountRepo, settingsRepo, interestUC, feeUC, cdUC, loanUC, recurringUC, clock, lg, m)

	// Handlers
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC),
		LedgerHandler:      handler.NewLedgerHandler(ledgerUC),
		CDHandler:          handler.NewCDHandler(cdUC),
		LoanHandler:        handler.NewLoanHandler(loanUC),
		RecurringHandler:   handler.NewRecurringHandler(recurringUC),
		SettingsHandler:    handler.NewSettingsHandler(settingsRepo),
		MaintenanceHandler: handler.NewMaintenanceHandler(maintenanceUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		RateLimiter:        httpMiddleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		Logger:             lg,
	})

	// Daily maintenance scheduler
	retrier := postgresRepo.NewRetrier().WithLogger(lg)
	sched := scheduler.New(maintenanceUC, retrier, cfg.MaintenanceInterval, cfg.MaintenanceOnBoot, lg)

	schedCtx, stopSched := context.WithCancel(ctx)
	go sched.Run(schedCtx)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		lg.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info().Msg("shutting down server...")
	stopSched()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		lg.Fatal().Err(err).Msg("server forced to shutdown")
	}

	lg.Info().Msg("server stopped")
}
