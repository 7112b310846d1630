package handlers

import (
	"net/http"
	"strings"

	"cennik/internal/logger"
	"cennik/internal/search"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	service *search.Service
	logger  *logger.Logger
}

func NewSearchHandler(service *search.Service, logger *logger.Logger) *SearchHandler {
	return &SearchHandler{service: service, logger: logger}
}

func (h *SearchHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusOK, gin.H{"data": []search.Result{}})
		return
	}
	results, err := h.service.Search(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.logger, err, "Search failed")
		return
	}
	if results == nil {
		results = []search.Result{}
	}
	c.JSON(http.StatusOK, gin.H{"data": results})
}
