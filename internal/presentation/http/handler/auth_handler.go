package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopfront-pos/internal/application/service"
	"github.com/sangkips/shopfront-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/shopfront-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/shopfront-pos/internal/presentation/http/middleware"
)

// AuthHandler handles operator login
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles operator PIN login
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	out, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Operator: req.Operator,
		PIN:      req.PIN,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", out)
}

// RefreshToken handles token refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req request.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	out, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Token refreshed successfully", out)
}

// Me returns the logged-in operator
func (h *AuthHandler) Me(c *gin.Context) {
	response.OK(c, "Operator retrieved", gin.H{
		"operator":   GetOperator(c),
		"session_id": c.GetString(middleware.SessionIDKey),
	})
}
