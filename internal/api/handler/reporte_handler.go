package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ferrosero91/asistencia/internal/service"
	"github.com/ferrosero91/asistencia/pkg/response"
)

// ReporteHandler serves per-course attendance reports and their
// downloadable formats.
type ReporteHandler struct {
	reporteSvc service.ReporteService
}

// NewReporteHandler creates the ReporteHandler.
func NewReporteHandler(reporteSvc service.ReporteService) *ReporteHandler {
	return &ReporteHandler{reporteSvc: reporteSvc}
}

// Reporte returns the aggregated attendance report of a course.
// GET /api/materias/:id/reporte?desde=YYYY-MM-DD&hasta=YYYY-MM-DD
func (h *ReporteHandler) Reporte(c *gin.Context) {
	profesorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.reporteSvc.ReporteMateria(
		c.Request.Context(), profesorID, c.Param("id"),
		c.Query("desde"), c.Query("hasta"),
	)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// Export downloads the report as CSV or Excel.
// GET /api/materias/:id/reporte/export?formato=csv|excel
func (h *ReporteHandler) Export(c *gin.Context) {
	profesorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	formato := c.DefaultQuery("formato", "csv")

	var (
		data        []byte
		filename    string
		contentType string
		err         error
	)
	switch formato {
	case "csv":
		data, filename, err = h.reporteSvc.ExportCSV(
			c.Request.Context(), profesorID, c.Param("id"),
			c.Query("desde"), c.Query("hasta"),
		)
		contentType = "text/csv; charset=utf-8"
	case "excel", "xlsx":
		data, filename, err = h.reporteSvc.ExportExcel(
			c.Request.Context(), profesorID, c.Param("id"),
			c.Query("desde"), c.Query("hasta"),
		)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		response.BadRequest(c, "formato inválido: debe ser csv o excel")
		return
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, data)
}

// Calendario downloads the course's class dates as an iCalendar file.
// GET /api/materias/:id/calendario.ics
func (h *ReporteHandler) Calendario(c *gin.Context) {
	profesorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ical, filename, err := h.reporteSvc.CalendarioICS(c.Request.Context(), profesorID, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ical))
}
