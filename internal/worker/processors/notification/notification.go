package notification

import (
	"context"

	"cennik/internal/logger"
	"cennik/internal/models"
	"cennik/internal/services/notify"
)

type Processor struct {
	notifier *notify.Notifier
	logger   *logger.Logger
}

func New(n *notify.Notifier, logger *logger.Logger) *Processor {
	return &Processor{notifier: n, logger: logger}
}

// ScheduledChangeApplied mails the schedule recipients. Event data carries
// producerName, scheduledDate, applied and skipped.
func (p *Processor) ScheduledChangeApplied(ctx context.Context, event models.Event) error {
	name := stringField(event.Data, "producerName")
	if name == "" {
		name = event.ProducerSlug
	}
	return p.notifier.ScheduleApplied(ctx,
		name,
		stringField(event.Data, "scheduledDate"),
		intField(event.Data, "applied"),
		intField(event.Data, "skipped"),
	)
}

func stringField(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

// intField accepts both int (in-process events) and float64 (decoded JSON).
func intField(data map[string]interface{}, key string) int {
	switch v := data[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}
