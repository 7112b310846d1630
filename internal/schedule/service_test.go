package schedule

import (
	"context"
	"testing"
	"time"

	"cennik/internal/cache"
	"cennik/internal/datastore"
	"cennik/internal/events"
	"cennik/internal/logger"
	"cennik/internal/models"
	"cennik/internal/services/mailer"
	"cennik/internal/services/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

type recordingHandler struct {
	events []models.Event
}

func (h *recordingHandler) Process(ctx context.Context, event models.Event) error {
	h.events = append(h.events, event)
	return nil
}

type recordingMailer struct {
	sent []mailer.Message
}

func (m *recordingMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

type fixture struct {
	store   *datastore.Store
	service *Service
	events  *recordingHandler
	mail    *recordingMailer
}

func newFixture(t *testing.T, today string) *fixture {
	t.Helper()

	store := datastore.New(t.TempDir())
	require.NoError(t, store.SaveProducers([]models.Producer{
		{Slug: "bizzarto", DisplayName: "Bizzarto", DataFile: "Bizzarto.json", LayoutType: models.LayoutGroups},
	}))

	catalog := models.NewCatalog("Cennik Bizzarto")
	catalog.Categories["Fotele"] = map[string]*models.Product{
		"Fotel Nidzica": {Prices: map[string]float64{"Grupa I": 1000, "Grupa II": 1200}},
		"Fotel Ustka": {Sizes: []models.Size{
			{Dimension: "80x90", Price: f(900)},
			{Dimension: "90x90", Prices: map[string]float64{"Grupa I": 1100}},
		}},
	}
	require.NoError(t, store.SaveCatalog("Bizzarto.json", catalog))

	log := logger.Nop()
	h := &recordingHandler{}
	m := &recordingMailer{}
	svc := NewService(store, cache.NewMemory(), time.Minute, events.NewLocal(h, log),
		notify.New(m, notify.Recipients{Schedule: []string{"biuro@example.com"}}), log)

	now, err := time.Parse(models.ScheduledDateLayout, today)
	require.NoError(t, err)
	svc.now = func() time.Time { return now.Add(10 * time.Hour) }

	return &fixture{store: store, service: svc, events: h, mail: m}
}

func TestBuildChanges_LooksUpOldPricesAndPercent(t *testing.T) {
	fx := newFixture(t, "2026-03-01")
	catalog, err := fx.store.Catalog("Bizzarto.json")
	require.NoError(t, err)

	items, err := BuildChanges(catalog, []ChangeInput{
		{Category: "Fotele", Element: "Fotel Nidzica", PriceGroup: "Grupa I", NewPrice: f(1100)},
		{Category: "Fotele", Element: "Fotel Ustka", Dimension: "80x90", Percent: f(-10)},
		{Category: "Fotele", Element: "Fotel Ustka", Dimension: "90x90", PriceGroup: "Grupa I", OldPrice: f(1000), NewPrice: f(1050)},
	})
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, 1000.0, items[0].OldPrice)
	assert.Equal(t, 10.0, items[0].PercentChange)
	assert.Equal(t, 900.0, items[1].OldPrice)
	assert.Equal(t, 810.0, items[1].NewPrice)
	assert.Equal(t, -10.0, items[1].PercentChange)
	assert.Equal(t, 5.0, items[2].PercentChange)

	summary := Summarize(items)
	assert.Equal(t, 3, summary.ItemCount)
	assert.Equal(t, 1.67, summary.AverageChange)
	assert.Equal(t, -10.0, summary.MinChange)
	assert.Equal(t, 10.0, summary.MaxChange)
}

func TestBuildChanges_Errors(t *testing.T) {
	catalog := models.NewCatalog("x")

	_, err := BuildChanges(catalog, nil)
	assert.ErrorIs(t, err, datastore.ErrInvalid)

	_, err = BuildChanges(catalog, []ChangeInput{{Category: "A", Element: "B", NewPrice: f(1)}})
	assert.ErrorIs(t, err, datastore.ErrInvalid, "old price cannot be looked up")

	_, err = BuildChanges(catalog, []ChangeInput{{Category: "A", Element: "B", OldPrice: f(1)}})
	assert.ErrorIs(t, err, datastore.ErrInvalid, "neither newPrice nor percent")
}

func TestService_CreateValidatesDate(t *testing.T) {
	fx := newFixture(t, "2026-03-01")
	ctx := context.Background()
	changes := []ChangeInput{{Category: "Fotele", Element: "Fotel Nidzica", PriceGroup: "Grupa I", NewPrice: f(1100)}}

	_, err := fx.service.Create(ctx, CreateRequest{ProducerSlug: "bizzarto", ScheduledDate: "01.04.2026", Changes: changes})
	assert.ErrorIs(t, err, datastore.ErrInvalid)

	_, err = fx.service.Create(ctx, CreateRequest{ProducerSlug: "bizzarto", ScheduledDate: "2026-02-28", Changes: changes})
	assert.ErrorIs(t, err, datastore.ErrInvalid)

	_, err = fx.service.Create(ctx, CreateRequest{ProducerSlug: "nope", ScheduledDate: "2026-04-01", Changes: changes})
	assert.ErrorIs(t, err, datastore.ErrNotFound)
}

func TestService_CreateStoresPendingAndNotifies(t *testing.T) {
	fx := newFixture(t, "2026-03-01")
	ctx := context.Background()

	change, err := fx.service.Create(ctx, CreateRequest{
		ProducerSlug:  "bizzarto",
		ScheduledDate: "2026-04-01",
		CreatedBy:     "admin",
		Changes:       []ChangeInput{{Category: "Fotele", Element: "Fotel Nidzica", PriceGroup: "Grupa I", NewPrice: f(1100)}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, change.ID)
	assert.Equal(t, models.ScheduledChangePending, change.Status)
	assert.Equal(t, "Bizzarto", change.ProducerName)

	got, err := fx.service.Get(ctx, change.ID)
	require.NoError(t, err)
	assert.Equal(t, change.Changes, got.Changes)

	require.Len(t, fx.mail.sent, 1)
	require.Len(t, fx.events.events, 1)
	assert.Equal(t, models.EventScheduledChangeCreated, fx.events.events[0].Type)
}

func TestService_ApplicableOnlyPendingAndPastDated(t *testing.T) {
	fx := newFixture(t, "2026-03-10")
	require.NoError(t, fx.store.UpdateScheduledChanges(func([]models.ScheduledChange) ([]models.ScheduledChange, error) {
		return []models.ScheduledChange{
			{ID: "past", ScheduledDate: "2026-03-01", Status: models.ScheduledChangePending},
			{ID: "today", ScheduledDate: "2026-03-10", Status: models.ScheduledChangePending},
			{ID: "future", ScheduledDate: "2026-03-11", Status: models.ScheduledChangePending},
			{ID: "applied", ScheduledDate: "2026-03-01", Status: models.ScheduledChangeApplied},
			{ID: "cancelled", ScheduledDate: "2026-03-01", Status: models.ScheduledChangeCancelled},
		}, nil
	}))

	due, err := fx.service.Applicable(context.Background(), fx.service.now())
	require.NoError(t, err)

	var ids []string
	for _, c := range due {
		ids = append(ids, c.ID)
	}
	assert.ElementsMatch(t, []string{"past", "today"}, ids)
}

func TestService_ApplyDueWritesPricesAndSkipsMissing(t *testing.T) {
	fx := newFixture(t, "2026-03-10")
	ctx := context.Background()
	require.NoError(t, fx.store.UpdateScheduledChanges(func([]models.ScheduledChange) ([]models.ScheduledChange, error) {
		return []models.ScheduledChange{{
			ID:            "c1",
			ProducerSlug:  "bizzarto",
			ProducerName:  "Bizzarto",
			ScheduledDate: "2026-03-09",
			Status:        models.ScheduledChangePending,
			Changes: []models.ChangeItem{
				{Category: "Fotele", Element: "Fotel Nidzica", PriceGroup: "Grupa II", OldPrice: 1200, NewPrice: 1300},
				{Category: "Fotele", Element: "Fotel Ustka", Dimension: "80x90", OldPrice: 900, NewPrice: 950},
				{Category: "Fotele", Element: "Fotel Ustka", Dimension: "90x90", PriceGroup: "Grupa I", OldPrice: 1100, NewPrice: 1150},
				{Category: "Fotele", Element: "Fotel Zniknięty", PriceGroup: "Grupa I", OldPrice: 1, NewPrice: 2},
			},
		}}, nil
	}))

	results, err := fx.service.ApplyDue(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].Applied)
	assert.Equal(t, 1, results[0].Skipped)
	assert.Empty(t, results[0].Error)

	catalog, err := fx.store.Catalog("Bizzarto.json")
	require.NoError(t, err)
	nidzica, _ := catalog.Lookup("Fotele", "Fotel Nidzica")
	assert.Equal(t, 1300.0, nidzica.Prices["Grupa II"])
	assert.Equal(t, 1000.0, nidzica.Prices["Grupa I"])
	ustka, _ := catalog.Lookup("Fotele", "Fotel Ustka")
	assert.Equal(t, 950.0, *ustka.Sizes[0].Price)
	assert.Equal(t, 1150.0, ustka.Sizes[1].Prices["Grupa I"])

	change, err := fx.service.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, models.ScheduledChangeApplied, change.Status)
	require.NotNil(t, change.AppliedAt)

	require.Len(t, fx.events.events, 1)
	assert.Equal(t, models.EventScheduledChangeApplied, fx.events.events[0].Type)
	assert.Equal(t, 3, fx.events.events[0].Data["applied"])

	again, err := fx.service.ApplyDue(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestService_ApplyDueLeavesPendingOnFailure(t *testing.T) {
	fx := newFixture(t, "2026-03-10")
	ctx := context.Background()
	require.NoError(t, fx.store.UpdateScheduledChanges(func([]models.ScheduledChange) ([]models.ScheduledChange, error) {
		return []models.ScheduledChange{{
			ID: "c1", ProducerSlug: "missing", ScheduledDate: "2026-03-01", Status: models.ScheduledChangePending,
		}}, nil
	}))

	results, err := fx.service.ApplyDue(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.NotEmpty(t, results[0].Error)

	change, err := fx.service.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, models.ScheduledChangePending, change.Status)
}

func TestService_Cancel(t *testing.T) {
	fx := newFixture(t, "2026-03-01")
	ctx := context.Background()
	require.NoError(t, fx.store.UpdateScheduledChanges(func([]models.ScheduledChange) ([]models.ScheduledChange, error) {
		return []models.ScheduledChange{
			{ID: "p", ScheduledDate: "2026-04-01", Status: models.ScheduledChangePending},
			{ID: "a", ScheduledDate: "2026-02-01", Status: models.ScheduledChangeApplied},
		}, nil
	}))

	// Warm the cache so Cancel has to drop it.
	_, err := fx.service.List(ctx, Filter{})
	require.NoError(t, err)

	cancelled, err := fx.service.Cancel(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, models.ScheduledChangeCancelled, cancelled.Status)

	pending, err := fx.service.List(ctx, Filter{Status: models.ScheduledChangePending})
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = fx.service.Cancel(ctx, "a")
	assert.ErrorIs(t, err, ErrNotPending)

	_, err = fx.service.Cancel(ctx, "nope")
	assert.ErrorIs(t, err, datastore.ErrNotFound)
}
