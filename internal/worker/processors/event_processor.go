package processors

import (
	"context"

	"cennik/internal/logger"
	"cennik/internal/models"
	"cennik/internal/worker/processors/cachesync"
	"cennik/internal/worker/processors/notification"
)

// EventProcessor routes events to the processors interested in them.
type EventProcessor struct {
	logger       *logger.Logger
	notification *notification.Processor
	cacheSync    *cachesync.Processor
}

func NewEventProcessor(logger *logger.Logger, n *notification.Processor, c *cachesync.Processor) *EventProcessor {
	return &EventProcessor{
		logger:       logger,
		notification: n,
		cacheSync:    c,
	}
}

func (ep *EventProcessor) Process(ctx context.Context, event models.Event) error {
	ep.logger.Debug("Processing event: %s (%s)", event.Type, event.ProducerSlug)

	switch event.Type {
	case models.EventCatalogUpdated:
		return ep.cacheSync.CatalogUpdated(ctx, event)
	case models.EventScheduledChangeApplied:
		if err := ep.cacheSync.CatalogUpdated(ctx, event); err != nil {
			ep.logger.Error("Cache sync failed for %s: %v", event.ProducerSlug, err)
		}
		return ep.notification.ScheduledChangeApplied(ctx, event)
	case models.EventScheduledChangeCreated, models.EventPriceErrorReported:
		// Emails for these are sent synchronously by the API.
		return nil
	default:
		ep.logger.Info("Ignoring unknown event type %q", event.Type)
		return nil
	}
}
