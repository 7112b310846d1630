// Package app wires configuration into the running components shared by the
// API server, the worker and the serverless entry point.
package app

import (
	"context"
	"fmt"
	"time"

	"cennik/internal/api"
	"cennik/internal/auth"
	"cennik/internal/cache"
	"cennik/internal/config"
	"cennik/internal/database"
	"cennik/internal/datastore"
	"cennik/internal/events"
	"cennik/internal/ingest"
	"cennik/internal/logger"
	"cennik/internal/repository"
	"cennik/internal/schedule"
	"cennik/internal/search"
	"cennik/internal/services/mailer"
	"cennik/internal/services/notify"
	"cennik/internal/services/uploads"
	"cennik/internal/services/vision"
	"cennik/internal/worker/processors"
	"cennik/internal/worker/processors/cachesync"
	"cennik/internal/worker/processors/notification"
)

type App struct {
	Server    *api.Server
	Checker   *schedule.Checker
	Processor *processors.EventProcessor

	db        *database.Database
	cache     cache.Cache
	publisher events.Publisher
	logger    *logger.Logger
}

// NewCache returns a Redis cache when REDIS_URL is set, otherwise an
// in-process one.
func NewCache(ctx context.Context, cfg *config.Config, log *logger.Logger) (cache.Cache, error) {
	if cfg.RedisURL == "" {
		log.Info("REDIS_URL not set, using in-memory cache")
		return cache.NewMemory(), nil
	}
	r, err := cache.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	log.Info("Using Redis cache")
	return r, nil
}

// NewNotifier builds the notifier with the configured mailer and recipients.
func NewNotifier(cfg *config.Config, log *logger.Logger) *notify.Notifier {
	return notify.New(mailer.New(cfg, log), notify.Recipients{
		FactorChange: cfg.FactorChangeRecipients,
		PriceError:   cfg.PriceErrorRecipients,
		Schedule:     cfg.ScheduleRecipients,
	})
}

// NewEventProcessor builds the processor that handles published events.
func NewEventProcessor(c cache.Cache, notifier *notify.Notifier, log *logger.Logger) *processors.EventProcessor {
	return processors.NewEventProcessor(log,
		notification.New(notifier, log),
		cachesync.New(c, log),
	)
}

// New connects to the database and cache and builds the API server.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	db, err := database.New(cfg.DatabaseURL, cfg.DatabaseDriver, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	c, err := NewCache(ctx, cfg, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up cache: %w", err)
	}

	store := datastore.New(cfg.DataDir)
	notifier := NewNotifier(cfg, log)
	processor := NewEventProcessor(c, notifier, log)
	publisher := events.New(cfg.KafkaBrokers, cfg.KafkaTopic, processor, log)

	var extractor ingest.TextExtractor
	if cfg.AnthropicAPIKey != "" {
		extractor = vision.NewClient(cfg.AnthropicAPIKey, cfg.VisionModel, log)
	}

	scheduleService := schedule.NewService(store, c, seconds(cfg.ScheduleCacheTTLSeconds), publisher, notifier, log)

	server := api.New(cfg, log, db, api.Services{
		Store:     store,
		Overrides: repository.NewOverrideRepository(db.DB),
		Search:    search.NewService(store, c, seconds(cfg.SearchCacheTTLSeconds), log),
		Schedule:  scheduleService,
		Auth:      auth.NewService(store),
		Notifier:  notifier,
		Publisher: publisher,
		Uploads:   uploads.NewStore(cfg.UploadDir, cfg.ImageMaxDimension, log),
		Analyzer:  ingest.NewPDFAnalyzer(extractor, log),
	})

	a := &App{
		Server:    server,
		Processor: processor,
		db:        db,
		cache:     c,
		publisher: publisher,
		logger:    log,
	}
	if cfg.ScheduleCheckIntervalMinutes > 0 {
		a.Checker = schedule.NewChecker(scheduleService, log, cfg.ScheduleCheckIntervalMinutes)
	}
	return a, nil
}

// Close releases the publisher, cache and database.
func (a *App) Close() {
	if err := a.publisher.Close(); err != nil {
		a.logger.Error("Failed to close event publisher: %v", err)
	}
	if r, ok := a.cache.(*cache.Redis); ok {
		if err := r.Close(); err != nil {
			a.logger.Error("Failed to close redis: %v", err)
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("Failed to close database: %v", err)
	}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
