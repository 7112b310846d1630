package models

import "time"

// Event is published after catalog mutations and consumed by the worker.
type Event struct {
	Type         EventType              `json:"type"`
	ProducerSlug string                 `json:"producer_slug,omitempty"`
	Data         map[string]interface{} `json:"data,omitempty"`
	Timestamp    time.Time              `json:"timestamp"`
}

type EventType string

const (
	EventCatalogUpdated         EventType = "catalog.updated"
	EventScheduledChangeCreated EventType = "scheduled_change.created"
	EventScheduledChangeApplied EventType = "scheduled_change.applied"
	EventPriceErrorReported     EventType = "price_error.reported"
)
