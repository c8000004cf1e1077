package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ferrosero91/asistencia/internal/dto"
	"github.com/ferrosero91/asistencia/internal/service"
	"github.com/ferrosero91/asistencia/pkg/response"
)

// MateriaHandler serves course management for the authenticated
// professor. Ownership is resolved from the token, never from the
// request.
type MateriaHandler struct {
	materiaSvc service.MateriaService
}

// NewMateriaHandler creates the MateriaHandler.
func NewMateriaHandler(materiaSvc service.MateriaService) *MateriaHandler {
	return &MateriaHandler{materiaSvc: materiaSvc}
}

// List returns the professor's courses.
// GET /api/materias
func (h *MateriaHandler) List(c *gin.Context) {
	profesorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.materiaSvc.List(c.Request.Context(), profesorID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// Create registers a new course.
// POST /api/materias
func (h *MateriaHandler) Create(c *gin.Context) {
	profesorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateMateriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "nombre y codigo son requeridos")
		return
	}

	result, err := h.materiaSvc.Create(c.Request.Context(), profesorID, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Created(c, result)
}

// Update modifies a course the professor owns.
// PUT /api/materias/:id
func (h *MateriaHandler) Update(c *gin.Context) {
	profesorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateMateriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Datos de la materia inválidos")
		return
	}

	result, err := h.materiaSvc.Update(c.Request.Context(), profesorID, c.Param("id"), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete removes a course, its students and its attendance records.
// DELETE /api/materias/:id
func (h *MateriaHandler) Delete(c *gin.Context) {
	profesorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.materiaSvc.Delete(c.Request.Context(), profesorID, c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "Materia eliminada exitosamente"})
}
