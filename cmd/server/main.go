package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dailymatch-engine/internal/api/routes"
	"dailymatch-engine/internal/categorize"
	"dailymatch-engine/internal/config"
	"dailymatch-engine/internal/ingest"
	"dailymatch-engine/internal/logging"
	"dailymatch-engine/internal/picks"
	"dailymatch-engine/internal/storage/postgres"
	redisstore "dailymatch-engine/internal/storage/redis"
	"dailymatch-engine/internal/streak"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger, err := logging.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logging.SetGlobal(logger)
	logger.Info("starting DailyMatch engine")

	ctx := context.Background()

	// Connect stores
	pool, err := postgres.NewPool(ctx, cfg.Postgres.URL)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := redisstore.NewClient(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	corpusStore := postgres.NewCorpusStore(pool, logger)
	profileReader := postgres.NewProfileReader(pool, logger)
	pickStore := redisstore.NewPickSetStore(rdb, logger)
	streakStore := redisstore.NewStreakStore(rdb, logger)

	// Initialize categorization manager
	categorizer := categorize.NewManager(cfg, logger)
	if err := categorizer.Start(ctx); err != nil {
		logger.Fatal("failed to start categorization manager", zap.Error(err))
	}

	// Core engine
	tracker := streak.NewTracker(streak.StepDecay(cfg.Streak.GraceDays, cfg.Streak.DecayHorizonDays))
	scheduler := picks.NewScheduler(profileReader, corpusStore, pickStore, streakStore, tracker, cfg, logger, nil)
	dedup := ingest.NewDeduplicator(corpusStore, categorizer, cfg, logger, nil)

	// Scheduled ingestion sweeps, when a feed is configured
	var runner *ingest.Runner
	if cfg.Ingest.Enabled && cfg.Ingest.FeedURL != "" {
		runner = ingest.NewRunner(dedup, ingest.NewFeedSource(cfg.Ingest.FeedURL), cfg.Ingest.Schedule, logger)
		if err := runner.Start(ctx); err != nil {
			logger.Fatal("failed to start ingestion cron", zap.Error(err))
		}
	}

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	routes.SetupRoutes(e, cfg, scheduler, dedup, pool, rdb)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if runner != nil {
			runner.Stop()
		}

		if err := categorizer.Stop(); err != nil {
			logger.Error("error stopping categorization manager", zap.Error(err))
		}

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("error shutting down server", zap.Error(err))
		}

		logger.Info("server shutdown complete")
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting", zap.String("address", address))

	if err := e.Start(address); err != nil {
		logger.Fatal("server failed to start", zap.Error(err))
	}
}
