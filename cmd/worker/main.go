package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"cennik/internal/app"
	"cennik/internal/config"
	"cennik/internal/logger"
	"cennik/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel, cfg.Env)
	defer logger.Sync()

	if cfg.KafkaBrokers == "" {
		logger.Fatal("KAFKA_BROKERS must be set to run the worker")
	}

	c, err := app.NewCache(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to set up cache: %v", err)
	}
	processor := app.NewEventProcessor(c, app.NewNotifier(cfg, logger), logger)

	// Initialize worker
	w := worker.New(cfg, logger, processor)

	// Start worker
	logger.Info("Starting worker...")
	go w.Start()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	w.Stop()
}
