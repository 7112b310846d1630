package handlers

import (
	"net/http"

	"cennik/internal/datastore"
	"cennik/internal/events"
	"cennik/internal/logger"
	"cennik/internal/models"
	"cennik/internal/services/notify"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	store     *datastore.Store
	notifier  *notify.Notifier
	publisher events.Publisher
	logger    *logger.Logger
}

func NewNotificationHandler(store *datastore.Store, notifier *notify.Notifier, publisher events.Publisher, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		store:     store,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
	}
}

// FactorChange emails a proposal for a new producer price factor.
func (h *NotificationHandler) FactorChange(c *gin.Context) {
	var req notify.FactorChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}
	if req.ProducerName == "" {
		req.ProducerName = h.producerName(req.ProducerSlug)
	}

	if err := h.notifier.FactorChange(c.Request.Context(), req); err != nil {
		respondError(c, h.logger, err, "Failed to send notification")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification sent"})
}

// PriceError emails a report about a wrong price.
func (h *NotificationHandler) PriceError(c *gin.Context) {
	var req notify.PriceErrorReport
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}
	if req.ProducerName == "" {
		req.ProducerName = h.producerName(req.ProducerSlug)
	}

	if err := h.notifier.PriceError(c.Request.Context(), req); err != nil {
		respondError(c, h.logger, err, "Failed to send notification")
		return
	}

	err := h.publisher.Publish(c.Request.Context(), models.Event{
		Type:         models.EventPriceErrorReported,
		ProducerSlug: req.ProducerSlug,
		Data: map[string]interface{}{
			"category":    req.Category,
			"productName": req.ProductName,
		},
	})
	if err != nil {
		h.logger.Error("Failed to publish price error event: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification sent"})
}

func (h *NotificationHandler) producerName(slug string) string {
	if slug == "" {
		return ""
	}
	producer, err := h.store.Producer(slug)
	if err != nil {
		return ""
	}
	return producer.DisplayName
}
