package handlers

import (
	"errors"
	"net/http"

	"cennik/internal/auth"
	"cennik/internal/datastore"
	"cennik/internal/logger"
	"cennik/internal/repository"
	"cennik/internal/schedule"
	"cennik/internal/services/notify"
	"cennik/internal/services/uploads"
	"cennik/internal/services/vision"

	"github.com/gin-gonic/gin"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, datastore.ErrNotFound), errors.Is(err, repository.ErrOverrideNotFound):
		return http.StatusNotFound
	case errors.Is(err, datastore.ErrInvalid),
		errors.Is(err, repository.ErrInvalidOverride),
		errors.Is(err, notify.ErrInvalidRequest),
		errors.Is(err, uploads.ErrInvalidFile):
		return http.StatusBadRequest
	case errors.Is(err, datastore.ErrConflict), errors.Is(err, schedule.ErrNotPending):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, vision.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": ...}. Client errors carry the error text;
// server errors are logged and answered with fallback.
func respondError(c *gin.Context, logger *logger.Logger, err error, fallback string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("%s %s: %s: %v", c.Request.Method, c.Request.URL.Path, fallback, err)
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	logger.Debug("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
