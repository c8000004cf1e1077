package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ferrosero91/asistencia/internal/service"
	"github.com/ferrosero91/asistencia/pkg/response"
)

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth       *AuthHandler
	Materia    *MateriaHandler
	Estudiante *EstudianteHandler
	Asistencia *AsistenciaHandler
	Reporte    *ReporteHandler
	Admin      *AdminHandler
}

// NewHandler creates the Handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Materia:    NewMateriaHandler(svc.Materia),
		Estudiante: NewEstudianteHandler(svc.Estudiante),
		Asistencia: NewAsistenciaHandler(svc.Asistencia),
		Reporte:    NewReporteHandler(svc.Reporte),
		Admin:      NewAdminHandler(svc.Admin),
	}
}

// writeServiceError maps service-layer errors onto the HTTP error
// codes of the API contract. Unrecognized errors become a generic 500
// so internals never leak to the client.
func writeServiceError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		response.BadRequest(c, vErr.Message)
		return
	}

	switch {
	case errors.Is(err, service.ErrImportNoData),
		errors.Is(err, service.ErrImportTooManyRows):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrRefreshInvalid):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrCuentaInactiva),
		errors.Is(err, service.ErrNoPermission),
		errors.Is(err, service.ErrSuperAdminEdit),
		errors.Is(err, service.ErrSuperAdminDelete),
		errors.Is(err, service.ErrSelfDelete):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrMateriaNotFound),
		errors.Is(err, service.ErrEstudianteNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrEmailExists),
		errors.Is(err, service.ErrCedulaExists),
		errors.Is(err, service.ErrCodigoExists):
		response.Conflict(c, err.Error())
	default:
		response.InternalError(c)
	}
}
