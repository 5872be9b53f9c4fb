package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/confjudge/api-server/internal/apperr"
	"github.com/confjudge/api-server/internal/models"
	"github.com/confjudge/api-server/internal/services"
)

// AuthHandler handles authentication operations
type AuthHandler struct {
	auth services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		// Bad credentials are 401 here, not the generic 403.
		if apperr.IsAuthorization(err) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Register handles user registration. New accounts start as students.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Register(&req)
	if err != nil {
		if apperr.IsValidation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}
