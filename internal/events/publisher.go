// Package events publishes catalog events, either to Kafka for the worker
// or directly to an in-process handler.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cennik/internal/logger"
	"cennik/internal/models"

	"github.com/segmentio/kafka-go"
)

type Publisher interface {
	Publish(ctx context.Context, event models.Event) error
	Close() error
}

// Handler consumes events. The worker's event processor implements it.
type Handler interface {
	Process(ctx context.Context, event models.Event) error
}

// New returns a Kafka publisher when brokers are configured, otherwise a
// publisher that hands events straight to handler.
func New(brokers, topic string, handler Handler, log *logger.Logger) Publisher {
	if strings.TrimSpace(brokers) == "" {
		log.Info("KAFKA_BROKERS not set, events are processed in-process")
		return NewLocal(handler, log)
	}
	return NewKafka(strings.Split(brokers, ","), topic, log)
}

type KafkaPublisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewKafka(brokers []string, topic string, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireAll,
		},
		logger: log,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event models.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.ProducerSlug),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write event %s: %w", event.Type, err)
	}
	p.logger.Debug("Published event %s for %s", event.Type, event.ProducerSlug)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LocalPublisher runs the handler synchronously in the caller's goroutine.
type LocalPublisher struct {
	handler Handler
	logger  *logger.Logger
}

func NewLocal(handler Handler, log *logger.Logger) *LocalPublisher {
	return &LocalPublisher{handler: handler, logger: log}
}

func (p *LocalPublisher) Publish(ctx context.Context, event models.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if p.handler == nil {
		return nil
	}
	return p.handler.Process(ctx, event)
}

func (p *LocalPublisher) Close() error {
	return nil
}
