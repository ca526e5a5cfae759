// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/user"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/interfaces/http/middleware"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	userService *user.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *user.Service) *AuthHandler {
	return &AuthHandler{
		userService: users,
	}
}

// Register handles POST /auth/register and signs the new user in
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if _, err := h.userService.Register(&req); err != nil {
		respondError(c, err)
		return
	}

	response, err := h.userService.Login(&user.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "User registered successfully", response)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := h.userService.Login(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Login successful", response)
}

// RefreshToken handles POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req user.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := h.userService.RefreshToken(req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Token refreshed successfully", response)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		respondError(c, apperror.ErrUnauthorized)
		return
	}

	profile, err := h.userService.GetUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Profile retrieved successfully", profile)
}
