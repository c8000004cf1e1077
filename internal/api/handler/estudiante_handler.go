package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ferrosero91/asistencia/internal/dto"
	"github.com/ferrosero91/asistencia/internal/service"
	"github.com/ferrosero91/asistencia/pkg/response"
)

// maxImportFileBytes caps the uploaded roster file size.
const maxImportFileBytes = 5 << 20

// EstudianteHandler serves student roster management.
type EstudianteHandler struct {
	estudianteSvc service.EstudianteService
}

// NewEstudianteHandler creates the EstudianteHandler.
func NewEstudianteHandler(estudianteSvc service.EstudianteService) *EstudianteHandler {
	return &EstudianteHandler{estudianteSvc: estudianteSvc}
}

// List returns the professor's students, optionally limited to one
// course.
// GET /api/estudiantes?materiaId=...
func (h *EstudianteHandler) List(c *gin.Context) {
	profesorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.estudianteSvc.List(c.Request.Context(), profesorID, c.Query("materiaId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// Create registers one student or a bulk load, depending on whether
// the body carries an estudiantes array.
// POST /api/estudiantes
func (h *EstudianteHandler) Create(c *gin.Context) {
	profesorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateEstudiantesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Datos de estudiantes inválidos")
		return
	}

	if len(req.Estudiantes) > 0 {
		result, err := h.estudianteSvc.BulkCreate(c.Request.Context(), profesorID, req.Estudiantes)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		response.Created(c, result)
		return
	}

	result, err := h.estudianteSvc.Create(c.Request.Context(), profesorID, &req.EstudianteData)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Created(c, result)
}

// Import loads a roster file (CSV or Excel) into a course.
// POST /api/estudiantes/import (multipart: file, materiaId)
func (h *EstudianteHandler) Import(c *gin.Context) {
	profesorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	materiaID := c.PostForm("materiaId")
	if materiaID == "" {
		response.BadRequest(c, "materiaId es requerido")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Se requiere un archivo (campo file)")
		return
	}
	if fileHeader.Size > maxImportFileBytes {
		response.BadRequest(c, "El archivo supera el tamaño máximo de 5MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer file.Close()

	rows, err := h.estudianteSvc.ParseRosterFile(file, fileHeader.Filename)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	result, err := h.estudianteSvc.Import(c.Request.Context(), profesorID, materiaID, rows)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Created(c, result)
}

// Update modifies a student of one of the professor's courses.
// PUT /api/estudiantes/:id
func (h *EstudianteHandler) Update(c *gin.Context) {
	profesorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateEstudianteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Datos del estudiante inválidos")
		return
	}

	result, err := h.estudianteSvc.Update(c.Request.Context(), profesorID, c.Param("id"), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete removes a student and their attendance records.
// DELETE /api/estudiantes/:id
func (h *EstudianteHandler) Delete(c *gin.Context) {
	profesorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.estudianteSvc.Delete(c.Request.Context(), profesorID, c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "Estudiante eliminado exitosamente"})
}
