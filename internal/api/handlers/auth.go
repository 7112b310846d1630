package handlers

import (
	"net/http"

	"cennik/internal/api/middleware"
	"cennik/internal/auth"
	"cennik/internal/logger"

	"github.com/gin-gonic/gin"
)

const sessionMaxAge = 7 * 24 * 60 * 60

type AuthHandler struct {
	service *auth.Service
	secure  bool
	logger  *logger.Logger
}

func NewAuthHandler(service *auth.Service, secureCookie bool, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{service: service, secure: secureCookie, logger: logger}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username and password are required")
		return
	}

	token, user, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		h.logger.Info("Failed login for %q from %s", req.Username, c.ClientIP())
		respondError(c, h.logger, err, "Login failed")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookie, token, sessionMaxAge, "/", "", h.secure, true)
	h.logger.Info("User %s logged in", user.Username)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"token": token, "user": user}})
}

func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": middleware.CurrentUser(c)})
}
