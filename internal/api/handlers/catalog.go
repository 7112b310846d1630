package handlers

import (
	"net/http"
	"strings"

	"cennik/internal/api/middleware"
	"cennik/internal/datastore"
	"cennik/internal/events"
	"cennik/internal/logger"
	"cennik/internal/models"
	"cennik/internal/repository"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	store     *datastore.Store
	overrides *repository.OverrideRepository
	publisher events.Publisher
	logger    *logger.Logger
}

func NewCatalogHandler(store *datastore.Store, overrides *repository.OverrideRepository, publisher events.Publisher, logger *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		store:     store,
		overrides: overrides,
		publisher: publisher,
		logger:    logger,
	}
}

// ReplaceData overwrites a producer's catalog file.
func (h *CatalogHandler) ReplaceData(c *gin.Context) {
	producer, err := h.store.Producer(c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch producer")
		return
	}

	var catalog models.Catalog
	if err := c.ShouldBindJSON(&catalog); err != nil {
		badRequest(c, "Invalid catalog: "+err.Error())
		return
	}
	if catalog.Categories == nil {
		catalog.Categories = map[string]map[string]*models.Product{}
	}

	if err := h.store.SaveCatalog(producer.DataFile, &catalog); err != nil {
		respondError(c, h.logger, err, "Failed to save catalog")
		return
	}

	h.logger.Info("Catalog %s replaced by %s", producer.DataFile, username(c))
	catalogUpdated(c.Request.Context(), h.publisher, h.logger, producer.Slug, "replace")
	c.JSON(http.StatusOK, gin.H{"data": catalog})
}

type updateProductRequest struct {
	Category    string          `json:"category"`
	ProductName string          `json:"productName"`
	CustomName  string          `json:"customName"`
	Data        *models.Product `json:"data"`
}

// UpdateProduct edits one product. A customName different from productName
// renames the product key and moves its override along.
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	producer, err := h.store.Producer(c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch producer")
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	name, product, err := h.store.UpdateProduct(producer.DataFile, datastore.ProductUpdate{
		Category: req.Category,
		Name:     req.ProductName,
		NewName:  req.CustomName,
		Data:     req.Data,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to update product")
		return
	}

	renamed := name != req.ProductName
	if renamed {
		key := models.OverrideKey{Manufacturer: producer.Slug, Category: req.Category, ProductName: req.ProductName}
		if err := h.overrides.Rename(c.Request.Context(), key, name); err != nil {
			h.logger.Error("Product %s renamed but override was not moved: %v", name, err)
		}
		h.logger.Info("Product %s/%s renamed to %s in %s", req.Category, req.ProductName, name, producer.DataFile)
	}

	catalogUpdated(c.Request.Context(), h.publisher, h.logger, producer.Slug, "update-product")
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"category":    req.Category,
			"productName": name,
			"renamed":     renamed,
			"product":     product,
		},
	})
}

// DeleteProduct removes category/productName given as query parameters.
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	producer, err := h.store.Producer(c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch producer")
		return
	}

	category := strings.TrimSpace(c.Query("category"))
	name := strings.TrimSpace(c.Query("productName"))
	if category == "" || name == "" {
		badRequest(c, "category and productName are required")
		return
	}

	if err := h.store.DeleteProduct(producer.DataFile, category, name); err != nil {
		respondError(c, h.logger, err, "Failed to delete product")
		return
	}
	key := models.OverrideKey{Manufacturer: producer.Slug, Category: category, ProductName: name}
	if err := h.overrides.DeleteByKey(c.Request.Context(), key); err != nil {
		h.logger.Error("Product %s deleted but its override was kept: %v", name, err)
	}

	h.logger.Info("Product %s/%s deleted from %s by %s", category, name, producer.DataFile, username(c))
	catalogUpdated(c.Request.Context(), h.publisher, h.logger, producer.Slug, "delete-product")
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

func username(c *gin.Context) string {
	if u := middleware.CurrentUser(c); u != nil {
		return u.Username
	}
	return "anonymous"
}
