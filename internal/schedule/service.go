// Package schedule manages future-dated price changes: creating them,
// cancelling them and writing them into the catalogs once their date passes.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"cennik/internal/cache"
	"cennik/internal/datastore"
	"cennik/internal/events"
	"cennik/internal/logger"
	"cennik/internal/models"
	"cennik/internal/services/notify"

	"github.com/google/uuid"
)

// ErrNotPending is returned when cancelling a change that was already
// applied or cancelled.
var ErrNotPending = errors.New("scheduled change is not pending")

const changesCacheKey = "schedule:changes"

type Service struct {
	store     *datastore.Store
	cache     cache.Cache
	ttl       time.Duration
	publisher events.Publisher
	notifier  *notify.Notifier
	logger    *logger.Logger
	now       func() time.Time

	applyMu sync.Mutex
}

func NewService(store *datastore.Store, c cache.Cache, ttl time.Duration, publisher events.Publisher, notifier *notify.Notifier, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		cache:     c,
		ttl:       ttl,
		publisher: publisher,
		notifier:  notifier,
		logger:    log,
		now:       time.Now,
	}
}

type CreateRequest struct {
	ProducerSlug  string        `json:"producerSlug"`
	ScheduledDate string        `json:"scheduledDate"`
	Changes       []ChangeInput `json:"changes"`
	CreatedBy     string        `json:"-"`
}

// Preview is the response of a dry run.
type Preview struct {
	ProducerSlug string               `json:"producerSlug"`
	ProducerName string               `json:"producerName"`
	Changes      []models.ChangeItem  `json:"changes"`
	Summary      models.ChangeSummary `json:"summary"`
}

type Filter struct {
	ProducerSlug string
	Status       models.ScheduledChangeStatus
}

// ApplyResult reports what happened to one applicable change.
type ApplyResult struct {
	ID            string `json:"id"`
	ProducerSlug  string `json:"producerSlug"`
	ProducerName  string `json:"producerName"`
	ScheduledDate string `json:"scheduledDate"`
	Applied       int    `json:"applied"`
	Skipped       int    `json:"skipped"`
	Error         string `json:"error,omitempty"`
}

// Create validates and stores a new pending change and mails the schedule
// recipients.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.ScheduledChange, error) {
	date, err := s.parseDate(req.ScheduledDate)
	if err != nil {
		return nil, err
	}

	preview, err := s.Preview(req.ProducerSlug, req.Changes)
	if err != nil {
		return nil, err
	}

	change := models.ScheduledChange{
		ID:            uuid.New().String(),
		ProducerSlug:  preview.ProducerSlug,
		ProducerName:  preview.ProducerName,
		ScheduledDate: date,
		CreatedAt:     s.now().UTC(),
		CreatedBy:     req.CreatedBy,
		Changes:       preview.Changes,
		Summary:       preview.Summary,
		Status:        models.ScheduledChangePending,
	}

	err = s.store.UpdateScheduledChanges(func(changes []models.ScheduledChange) ([]models.ScheduledChange, error) {
		return append(changes, change), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save scheduled change: %w", err)
	}
	s.dropCache(ctx)

	s.logger.Info("Scheduled %d price changes for %s on %s", len(change.Changes), change.ProducerSlug, change.ScheduledDate)

	if s.notifier != nil {
		if err := s.notifier.ScheduleCreated(ctx, &change); err != nil {
			s.logger.Error("Failed to send schedule notification: %v", err)
		}
	}
	s.publish(ctx, models.Event{
		Type:         models.EventScheduledChangeCreated,
		ProducerSlug: change.ProducerSlug,
		Data: map[string]interface{}{
			"id":            change.ID,
			"scheduledDate": change.ScheduledDate,
			"itemCount":     change.Summary.ItemCount,
		},
	})

	return &change, nil
}

// Preview builds the change items for a producer without storing anything.
func (s *Service) Preview(slug string, inputs []ChangeInput) (*Preview, error) {
	producer, err := s.store.Producer(slug)
	if err != nil {
		return nil, err
	}
	catalog, err := s.store.Catalog(producer.DataFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog for %s: %w", slug, err)
	}

	items, err := BuildChanges(catalog, inputs)
	if err != nil {
		return nil, err
	}

	return &Preview{
		ProducerSlug: producer.Slug,
		ProducerName: producer.DisplayName,
		Changes:      items,
		Summary:      Summarize(items),
	}, nil
}

// List returns the changes matching f, ordered by scheduled date.
func (s *Service) List(ctx context.Context, f Filter) ([]models.ScheduledChange, error) {
	changes, err := s.cached(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.ScheduledChange, 0, len(changes))
	for _, c := range changes {
		if f.ProducerSlug != "" && c.ProducerSlug != f.ProducerSlug {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ScheduledDate != out[j].ScheduledDate {
			return out[i].ScheduledDate < out[j].ScheduledDate
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.ScheduledChange, error) {
	changes, err := s.cached(ctx)
	if err != nil {
		return nil, err
	}
	for i := range changes {
		if changes[i].ID == id {
			return &changes[i], nil
		}
	}
	return nil, fmt.Errorf("scheduled change %q: %w", id, datastore.ErrNotFound)
}

// Cancel moves a pending change to cancelled.
func (s *Service) Cancel(ctx context.Context, id string) (*models.ScheduledChange, error) {
	var result models.ScheduledChange
	err := s.store.UpdateScheduledChanges(func(changes []models.ScheduledChange) ([]models.ScheduledChange, error) {
		for i := range changes {
			if changes[i].ID != id {
				continue
			}
			if changes[i].Status != models.ScheduledChangePending {
				return nil, fmt.Errorf("%w: %s is %s", ErrNotPending, id, changes[i].Status)
			}
			now := s.now().UTC()
			changes[i].Status = models.ScheduledChangeCancelled
			changes[i].CancelledAt = &now
			result = changes[i]
			return changes, nil
		}
		return nil, fmt.Errorf("scheduled change %q: %w", id, datastore.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	s.dropCache(ctx)

	s.logger.Info("Cancelled scheduled change %s for %s", id, result.ProducerSlug)
	return &result, nil
}

// Applicable returns the pending changes whose date is on or before now.
func (s *Service) Applicable(ctx context.Context, now time.Time) ([]models.ScheduledChange, error) {
	changes, err := s.cached(ctx)
	if err != nil {
		return nil, err
	}
	return applicable(changes, now), nil
}

func applicable(changes []models.ScheduledChange, now time.Time) []models.ScheduledChange {
	today := now.Format(models.ScheduledDateLayout)
	out := []models.ScheduledChange{}
	for _, c := range changes {
		if c.Status == models.ScheduledChangePending && c.ScheduledDate <= today {
			out = append(out, c)
		}
	}
	return out
}

// ApplyDue writes every applicable change into its catalog. A change whose
// catalog cannot be written stays pending and is retried on the next call.
func (s *Service) ApplyDue(ctx context.Context) ([]ApplyResult, error) {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	// Read the file directly so a stale cache never re-applies a change.
	changes, err := s.store.ScheduledChanges()
	if err != nil {
		return nil, err
	}
	due := applicable(changes, s.now())
	if len(due) == 0 {
		return []ApplyResult{}, nil
	}

	results := make([]ApplyResult, 0, len(due))
	for _, change := range due {
		res := ApplyResult{
			ID:            change.ID,
			ProducerSlug:  change.ProducerSlug,
			ProducerName:  change.ProducerName,
			ScheduledDate: change.ScheduledDate,
		}

		if err := s.apply(ctx, change, &res); err != nil {
			s.logger.Error("Failed to apply scheduled change %s: %v", change.ID, err)
			res.Error = err.Error()
		}
		results = append(results, res)
	}
	s.dropCache(ctx)

	return results, nil
}

func (s *Service) apply(ctx context.Context, change models.ScheduledChange, res *ApplyResult) error {
	producer, err := s.store.Producer(change.ProducerSlug)
	if err != nil {
		return err
	}

	err = s.store.UpdateCatalog(producer.DataFile, func(c *models.Catalog) error {
		res.Applied, res.Skipped = applyItems(c, change.Changes)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write catalog %s: %w", producer.DataFile, err)
	}

	err = s.store.UpdateScheduledChanges(func(changes []models.ScheduledChange) ([]models.ScheduledChange, error) {
		now := s.now().UTC()
		for i := range changes {
			if changes[i].ID == change.ID {
				changes[i].Status = models.ScheduledChangeApplied
				changes[i].AppliedAt = &now
			}
		}
		return changes, nil
	})
	if err != nil {
		return fmt.Errorf("failed to mark change applied: %w", err)
	}

	if res.Skipped > 0 {
		s.logger.Warn("Scheduled change %s: %d items not found in %s", change.ID, res.Skipped, producer.DataFile)
	}
	s.logger.Info("Applied scheduled change %s for %s (%d items)", change.ID, change.ProducerSlug, res.Applied)

	s.publish(ctx, models.Event{
		Type:         models.EventScheduledChangeApplied,
		ProducerSlug: change.ProducerSlug,
		Data: map[string]interface{}{
			"id":            change.ID,
			"producerName":  change.ProducerName,
			"scheduledDate": change.ScheduledDate,
			"applied":       res.Applied,
			"skipped":       res.Skipped,
		},
	})
	return nil
}

func (s *Service) parseDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	date, err := time.Parse(models.ScheduledDateLayout, value)
	if err != nil {
		return "", fmt.Errorf("%w: scheduledDate must be YYYY-MM-DD", datastore.ErrInvalid)
	}
	today := s.now().Format(models.ScheduledDateLayout)
	if formatted := date.Format(models.ScheduledDateLayout); formatted < today {
		return "", fmt.Errorf("%w: scheduledDate %s is in the past", datastore.ErrInvalid, formatted)
	}
	return date.Format(models.ScheduledDateLayout), nil
}

func (s *Service) cached(ctx context.Context) ([]models.ScheduledChange, error) {
	var changes []models.ScheduledChange
	if ok, err := s.cache.Get(ctx, changesCacheKey, &changes); err != nil {
		s.logger.Debug("Schedule cache read failed: %v", err)
	} else if ok {
		return changes, nil
	}

	changes, err := s.store.ScheduledChanges()
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, changesCacheKey, changes, s.ttl); err != nil {
		s.logger.Debug("Schedule cache write failed: %v", err)
	}
	return changes, nil
}

func (s *Service) dropCache(ctx context.Context) {
	if err := s.cache.Delete(ctx, changesCacheKey); err != nil {
		s.logger.Error("Failed to drop schedule cache: %v", err)
	}
}

func (s *Service) publish(ctx context.Context, event models.Event) {
	if s.publisher == nil {
		return
	}
	event.Timestamp = s.now().UTC()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish %s event: %v", event.Type, err)
	}
}
