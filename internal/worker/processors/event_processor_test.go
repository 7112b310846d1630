package processors

import (
	"context"
	"testing"
	"time"

	"cennik/internal/cache"
	"cennik/internal/logger"
	"cennik/internal/models"
	"cennik/internal/search"
	"cennik/internal/services/mailer"
	"cennik/internal/services/notify"
	"cennik/internal/worker/processors/cachesync"
	"cennik/internal/worker/processors/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	sent []mailer.Message
}

func (m *recordingMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

func newProcessor(c cache.Cache, m mailer.Mailer) *EventProcessor {
	log := logger.Nop()
	n := notify.New(m, notify.Recipients{Schedule: []string{"biuro@example.com"}})
	return NewEventProcessor(log, notification.New(n, log), cachesync.New(c, log))
}

func TestEventProcessor_AppliedChangeInvalidatesAndMails(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory()
	require.NoError(t, c.Set(ctx, search.IndexCacheKey, []search.Entry{{ProductName: "x"}}, time.Hour))
	m := &recordingMailer{}

	err := newProcessor(c, m).Process(ctx, models.Event{
		Type:         models.EventScheduledChangeApplied,
		ProducerSlug: "bizzarto",
		Data: map[string]interface{}{
			"producerName":  "Bizzarto",
			"scheduledDate": "2026-10-01",
			"applied":       float64(3),
			"skipped":       float64(1),
		},
	})
	require.NoError(t, err)

	var entries []search.Entry
	ok, _ := c.Get(ctx, search.IndexCacheKey, &entries)
	assert.False(t, ok)

	require.Len(t, m.sent, 1)
	assert.Contains(t, m.sent[0].Subject, "Bizzarto")
	assert.Contains(t, m.sent[0].Body, "Zaktualizowane pozycje: 3")
	assert.Contains(t, m.sent[0].Body, "Pominięte pozycje (nie znaleziono w cenniku): 1")
}

func TestEventProcessor_IgnoresUnknownEvents(t *testing.T) {
	m := &recordingMailer{}
	err := newProcessor(cache.NewMemory(), m).Process(context.Background(), models.Event{Type: "something.else"})
	assert.NoError(t, err)
	assert.Empty(t, m.sent)
}
