package handlers

import (
	"net/http"
	"time"

	"cennik/internal/logger"
	"cennik/internal/models"
	"cennik/internal/schedule"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	service *schedule.Service
	logger  *logger.Logger
}

func NewScheduleHandler(service *schedule.Service, logger *logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{service: service, logger: logger}
}

// List accepts optional producer and status filters.
func (h *ScheduleHandler) List(c *gin.Context) {
	changes, err := h.service.List(c.Request.Context(), schedule.Filter{
		ProducerSlug: c.Query("producer"),
		Status:       models.ScheduledChangeStatus(c.Query("status")),
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch scheduled changes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": changes})
}

// Check lists the changes that are due without applying them.
func (h *ScheduleHandler) Check(c *gin.Context) {
	due, err := h.service.Applicable(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, h.logger, err, "Failed to check scheduled changes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": due, "count": len(due)})
}

// Apply writes every due change into its catalog.
func (h *ScheduleHandler) Apply(c *gin.Context) {
	results, err := h.service.ApplyDue(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to apply scheduled changes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": results})
}

func (h *ScheduleHandler) Create(c *gin.Context) {
	var req schedule.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid scheduled change: "+err.Error())
		return
	}
	req.CreatedBy = username(c)

	change, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create scheduled change")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": change})
}

type previewRequest struct {
	ProducerSlug string                 `json:"producerSlug"`
	Changes      []schedule.ChangeInput `json:"changes"`
}

func (h *ScheduleHandler) Preview(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid preview request: "+err.Error())
		return
	}

	preview, err := h.service.Preview(req.ProducerSlug, req.Changes)
	if err != nil {
		respondError(c, h.logger, err, "Failed to preview changes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": preview})
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	change, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch scheduled change")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": change})
}

func (h *ScheduleHandler) Cancel(c *gin.Context) {
	change, err := h.service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to cancel scheduled change")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": change})
}
