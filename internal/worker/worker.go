package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"cennik/internal/config"
	"cennik/internal/logger"
	"cennik/internal/models"
	"cennik/internal/worker/processors"

	"github.com/segmentio/kafka-go"
)

type Worker struct {
	config    *config.Config
	logger    *logger.Logger
	reader    *kafka.Reader
	processor *processors.EventProcessor
	ctx       context.Context
	cancel    context.CancelFunc
}

func New(cfg *config.Config, logger *logger.Logger, processor *processors.EventProcessor) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        strings.Split(cfg.KafkaBrokers, ","),
		GroupID:        cfg.KafkaGroupID,
		Topic:          cfg.KafkaTopic,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		config:    cfg,
		logger:    logger,
		reader:    reader,
		processor: processor,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (w *Worker) Start() {
	w.logger.Info("Worker started, listening on topic %s...", w.config.KafkaTopic)

	for {
		message, err := w.reader.ReadMessage(w.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				w.logger.Info("Worker reader closed")
				return
			}
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		w.logger.Debug("Received message: %s", string(message.Value))

		// Parse event
		var event models.Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}

		// Process event
		ctx, cancel := context.WithTimeout(w.ctx, 30*time.Second)
		err = w.processor.Process(ctx, event)
		cancel()
		if err != nil {
			w.logger.Error("Failed to process event %s: %v", event.Type, err)
			continue
		}

		w.logger.Debug("Event %s processed successfully", event.Type)
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.cancel()
	w.reader.Close()
}
