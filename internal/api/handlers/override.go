package handlers

import (
	"net/http"

	"cennik/internal/logger"
	"cennik/internal/models"
	"cennik/internal/repository"

	"github.com/gin-gonic/gin"
)

type OverrideHandler struct {
	repo   *repository.OverrideRepository
	logger *logger.Logger
}

func NewOverrideHandler(repo *repository.OverrideRepository, logger *logger.Logger) *OverrideHandler {
	return &OverrideHandler{repo: repo, logger: logger}
}

func (h *OverrideHandler) List(c *gin.Context) {
	overrides, err := h.repo.List(c.Request.Context(), c.Query("manufacturer"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch overrides")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": overrides})
}

type overrideRequest struct {
	Manufacturer string   `json:"manufacturer"`
	Category     string   `json:"category"`
	ProductName  string   `json:"productName"`
	CustomName   *string  `json:"customName"`
	PriceFactor  float64  `json:"priceFactor"`
	Discount     *float64 `json:"discount"`
}

// Upsert creates or updates the override for (manufacturer, category, productName).
func (h *OverrideHandler) Upsert(c *gin.Context) {
	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid override: "+err.Error())
		return
	}

	override, err := h.repo.Upsert(c.Request.Context(), &models.ProductOverride{
		Manufacturer: req.Manufacturer,
		Category:     req.Category,
		ProductName:  req.ProductName,
		CustomName:   req.CustomName,
		PriceFactor:  req.PriceFactor,
		Discount:     req.Discount,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to save override")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": override})
}

func (h *OverrideHandler) Delete(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Failed to delete override")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Override deleted"})
}
