package events

import (
	"context"
	"testing"

	"cennik/internal/logger"
	"cennik/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	events []models.Event
}

func (h *recordingHandler) Process(ctx context.Context, event models.Event) error {
	h.events = append(h.events, event)
	return nil
}

func TestNew_WithoutBrokersDispatchesLocally(t *testing.T) {
	h := &recordingHandler{}
	p := New("  ", "topic", h, logger.Nop())
	_, ok := p.(*LocalPublisher)
	require.True(t, ok)

	require.NoError(t, p.Publish(context.Background(), models.Event{Type: models.EventCatalogUpdated, ProducerSlug: "halex"}))
	require.Len(t, h.events, 1)
	assert.Equal(t, "halex", h.events[0].ProducerSlug)
	assert.False(t, h.events[0].Timestamp.IsZero())
	assert.NoError(t, p.Close())
}

func TestNew_WithBrokersUsesKafka(t *testing.T) {
	p := New("localhost:9092", "cennik-events", nil, logger.Nop())
	kp, ok := p.(*KafkaPublisher)
	require.True(t, ok)
	assert.Equal(t, "cennik-events", kp.writer.Topic)
}
