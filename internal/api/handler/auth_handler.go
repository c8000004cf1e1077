package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ferrosero91/asistencia/internal/dto"
	"github.com/ferrosero91/asistencia/internal/service"
	"github.com/ferrosero91/asistencia/pkg/response"
)

// AuthHandler serves the authentication endpoints.
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates the AuthHandler.
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register registers a professor account.
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Datos de registro inválidos")
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Created(c, result)
}

// Login exchanges credentials for a session token pair.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Email y contraseña son requeridos")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// Refresh rotates the refresh token and issues a new access token.
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "refresh_token es requerido")
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout revokes the current access token.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, exp := tokenInfo(c)
	if jti != "" {
		if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
			response.InternalError(c)
			return
		}
	}

	response.OK(c, gin.H{"message": "Sesión cerrada exitosamente"})
}

// Me returns the authenticated account.
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.authSvc.Me(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, result)
}
