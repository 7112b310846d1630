package handlers

import (
	"context"
	"net/http"

	"cennik/internal/datastore"
	"cennik/internal/events"
	"cennik/internal/logger"
	"cennik/internal/models"
	"cennik/internal/pricing"
	"cennik/internal/repository"

	"github.com/gin-gonic/gin"
)

type ProducerHandler struct {
	store     *datastore.Store
	overrides *repository.OverrideRepository
	publisher events.Publisher
	logger    *logger.Logger
}

func NewProducerHandler(store *datastore.Store, overrides *repository.OverrideRepository, publisher events.Publisher, logger *logger.Logger) *ProducerHandler {
	return &ProducerHandler{
		store:     store,
		overrides: overrides,
		publisher: publisher,
		logger:    logger,
	}
}

func (h *ProducerHandler) List(c *gin.Context) {
	producers, err := h.store.Producers()
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch producers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": producers})
}

func (h *ProducerHandler) Get(c *gin.Context) {
	producer, err := h.store.Producer(c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch producer")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": producer})
}

// Data returns the raw catalog of a producer.
func (h *ProducerHandler) Data(c *gin.Context) {
	producer, err := h.store.Producer(c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch producer")
		return
	}
	catalog, err := h.store.Catalog(producer.DataFile)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load catalog")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": catalog})
}

// Prices returns the catalog with every price computed.
func (h *ProducerHandler) Prices(c *gin.Context) {
	producer, err := h.store.Producer(c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch producer")
		return
	}
	catalog, err := h.store.Catalog(producer.DataFile)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load catalog")
		return
	}
	overrides, err := h.overrides.ByManufacturer(c.Request.Context(), producer.Slug)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch overrides")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": pricing.BuildPriceList(producer, catalog, overrides)})
}

// BulkUpdate replaces producers.json.
func (h *ProducerHandler) BulkUpdate(c *gin.Context) {
	var producers []models.Producer
	if err := c.ShouldBindJSON(&producers); err != nil {
		badRequest(c, "Invalid producer list: "+err.Error())
		return
	}
	if err := h.store.SaveProducers(producers); err != nil {
		respondError(c, h.logger, err, "Failed to save producers")
		return
	}
	h.logger.Info("Producer registry replaced (%d producers)", len(producers))
	catalogUpdated(c.Request.Context(), h.publisher, h.logger, "", "producers")
	c.JSON(http.StatusOK, gin.H{"data": producers})
}

// catalogUpdated announces a catalog write; failures are only logged.
func catalogUpdated(ctx context.Context, publisher events.Publisher, log *logger.Logger, slug, action string) {
	err := publisher.Publish(ctx, models.Event{
		Type:         models.EventCatalogUpdated,
		ProducerSlug: slug,
		Data:         map[string]interface{}{"action": action},
	})
	if err != nil {
		log.Error("Failed to publish catalog update for %s: %v", slug, err)
	}
}
