package handlers

import (
	"errors"
	"net/http"

	"kitchen_display/internal/services"
	"kitchen_display/pkg/kds"

	"github.com/MonkyMars/gecho"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
	logger      *gecho.Logger
}

func NewAuthHandler(authService services.AuthService, logger *gecho.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req kds.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	token, expiresAt, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		h.logger.Error("Login failed", gecho.Field("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, kds.LoginResponse{Token: token, ExpiresAt: expiresAt})
}
