package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ferrosero91/asistencia/internal/dto"
	"github.com/ferrosero91/asistencia/internal/service"
	"github.com/ferrosero91/asistencia/pkg/response"
)

// AsistenciaHandler serves attendance marking and queries.
type AsistenciaHandler struct {
	asistenciaSvc service.AsistenciaService
}

// NewAsistenciaHandler creates the AsistenciaHandler.
func NewAsistenciaHandler(asistenciaSvc service.AsistenciaService) *AsistenciaHandler {
	return &AsistenciaHandler{asistenciaSvc: asistenciaSvc}
}

// List returns the professor's attendance records, optionally filtered
// by course and date.
// GET /api/asistencias?materiaId=...&fecha=YYYY-MM-DD
func (h *AsistenciaHandler) List(c *gin.Context) {
	profesorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.asistenciaSvc.List(c.Request.Context(), profesorID, c.Query("materiaId"), c.Query("fecha"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// Save upserts one attendance mark or a whole class session, depending
// on whether the body carries an asistencias array.
// POST /api/asistencias
func (h *AsistenciaHandler) Save(c *gin.Context) {
	profesorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SaveAsistenciasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Datos de asistencia inválidos")
		return
	}

	if len(req.Asistencias) > 0 {
		result, err := h.asistenciaSvc.SaveBatch(c.Request.Context(), profesorID, req.Asistencias)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		response.Created(c, result)
		return
	}

	result, err := h.asistenciaSvc.Save(c.Request.Context(), profesorID, &req.AsistenciaData)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Created(c, result)
}
