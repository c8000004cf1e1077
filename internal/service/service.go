package service

import (
	"errors"

	"go.uber.org/zap"

	"github.com/ferrosero91/asistencia/config"
	"github.com/ferrosero91/asistencia/internal/repository"
	"github.com/ferrosero91/asistencia/pkg/jwt"
	"github.com/ferrosero91/asistencia/pkg/redis"
)

// Errors shared across service modules.
var (
	ErrUserNotFound = errors.New("Usuario no encontrado")
	ErrNoPermission = errors.New("No tienes permisos para realizar esta acción")
)

// ValidationError is a request-content failure carrying the message
// shown to the user. Handlers map it to HTTP 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Service aggregates all business-logic interfaces.
type Service struct {
	Auth       AuthService
	Materia    MateriaService
	Estudiante EstudianteService
	Asistencia AsistenciaService
	Reporte    ReporteService
	Admin      AdminService
}

// NewService wires every service over the shared repository.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Materia:    NewMateriaService(repo, logger),
		Estudiante: NewEstudianteService(repo, logger),
		Asistencia: NewAsistenciaService(repo, logger),
		Reporte:    NewReporteService(repo, logger),
		Admin:      NewAdminService(cfg, repo, logger),
	}
}
