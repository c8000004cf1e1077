package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ferrosero91/asistencia/internal/dto"
	"github.com/ferrosero91/asistencia/internal/service"
	"github.com/ferrosero91/asistencia/pkg/response"
)

// AdminHandler serves the super-admin panel. Every route is behind
// RoleAuth(SUPER_ADMIN).
type AdminHandler struct {
	adminSvc service.AdminService
}

// NewAdminHandler creates the AdminHandler.
func NewAdminHandler(adminSvc service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// Stats returns the global dashboard statistics.
// GET /api/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	result, err := h.adminSvc.Stats(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// Activity returns the recent-activity feed.
// GET /api/admin/activity?tipo=...&fecha=YYYY-MM-DD&usuario=...
func (h *AdminHandler) Activity(c *gin.Context) {
	var filters dto.ActivityFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.BadRequest(c, "Filtros de actividad inválidos")
		return
	}

	result, err := h.adminSvc.Activity(c.Request.Context(), &filters)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// ListUsers returns every professor account with usage counters.
// GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	result, err := h.adminSvc.ListUsers(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// CreateUser registers a professor account from the admin panel.
// POST /api/admin/users
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req dto.CreateAdminUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Datos del usuario inválidos")
		return
	}

	result, err := h.adminSvc.CreateUser(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateUser modifies a professor account.
// PUT /api/admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req dto.UpdateAdminUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Datos del usuario inválidos")
		return
	}

	result, err := h.adminSvc.UpdateUser(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteUser removes a professor account and everything it owns.
// DELETE /api/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.adminSvc.DeleteUser(c.Request.Context(), adminID, c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "Usuario eliminado exitosamente"})
}
