package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ferrosero91/asistencia/internal/dto"
	"github.com/ferrosero91/asistencia/internal/model"
	"github.com/ferrosero91/asistencia/internal/repository"
)

const fechaLayout = "2006-01-02"

// AsistenciaService handles attendance marking. Saving is an upsert on
// (estudiante, materia, fecha): re-marking a student on the same date
// overwrites the stored status and notes.
type AsistenciaService interface {
	List(ctx context.Context, profesorID, materiaID, fecha string) ([]dto.AsistenciaResponse, error)
	Save(ctx context.Context, profesorID string, data *dto.AsistenciaData) (*dto.AsistenciaResponse, error)
	SaveBatch(ctx context.Context, profesorID string, items []dto.AsistenciaData) (*dto.SaveAsistenciasResponse, error)
}

type asistenciaService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAsistenciaService creates the AsistenciaService.
func NewAsistenciaService(repo *repository.Repository, logger *zap.Logger) AsistenciaService {
	return &asistenciaService{repo: repo, logger: logger}
}

func (s *asistenciaService) List(ctx context.Context, profesorID, materiaID, fecha string) ([]dto.AsistenciaResponse, error) {
	filters := &repository.AsistenciaFilters{
		ProfesorID: profesorID,
		MateriaID:  materiaID,
	}
	if fecha != "" {
		parsed, err := time.Parse(fechaLayout, fecha)
		if err != nil {
			return nil, &ValidationError{Message: "fecha inválida, se espera el formato YYYY-MM-DD"}
		}
		filters.Fecha = &parsed
	}

	asistencias, err := s.repo.Asistencia.List(ctx, filters)
	if err != nil {
		s.logger.Error("error al listar asistencias", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AsistenciaResponse, 0, len(asistencias))
	for i := range asistencias {
		result = append(result, toAsistenciaResponse(&asistencias[i]))
	}
	return result, nil
}

func (s *asistenciaService) Save(ctx context.Context, profesorID string, data *dto.AsistenciaData) (*dto.AsistenciaResponse, error) {
	asistencia, err := s.validateItem(data)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(ctx, profesorID, data.MateriaID); err != nil {
		return nil, err
	}

	if err := s.repo.Asistencia.Upsert(ctx, asistencia); err != nil {
		s.logger.Error("error al guardar la asistencia", zap.Error(err))
		return nil, err
	}

	resp := toAsistenciaResponse(asistencia)
	return &resp, nil
}

func (s *asistenciaService) SaveBatch(ctx context.Context, profesorID string, items []dto.AsistenciaData) (*dto.SaveAsistenciasResponse, error) {
	if len(items) == 0 {
		return nil, &ValidationError{Message: "Se requiere un array de asistencias"}
	}

	// Validate the whole batch before writing anything; a malformed
	// item rejects the submission as a unit.
	asistencias := make([]*model.Asistencia, 0, len(items))
	checked := make(map[string]bool)
	for _, item := range items {
		asistencia, err := s.validateItem(&item)
		if err != nil {
			return nil, err
		}
		if !checked[item.MateriaID] {
			if err := s.checkOwnership(ctx, profesorID, item.MateriaID); err != nil {
				return nil, err
			}
			checked[item.MateriaID] = true
		}
		asistencias = append(asistencias, asistencia)
	}

	// Per-item upserts, results collected; no rollback on failure
	// partway through.
	result := &dto.SaveAsistenciasResponse{}
	for _, asistencia := range asistencias {
		if err := s.repo.Asistencia.Upsert(ctx, asistencia); err != nil {
			s.logger.Error("error al guardar la asistencia",
				zap.String("estudiante_id", asistencia.EstudianteID),
				zap.Error(err))
			return nil, err
		}
		result.Asistencias = append(result.Asistencias, toAsistenciaResponse(asistencia))
	}

	result.Message = fmt.Sprintf("%d asistencias guardadas exitosamente", len(result.Asistencias))
	return result, nil
}

func (s *asistenciaService) validateItem(data *dto.AsistenciaData) (*model.Asistencia, error) {
	if data.EstudianteID == "" || data.MateriaID == "" || data.Fecha == "" || data.Estado == "" {
		return nil, &ValidationError{Message: "Todas las asistencias deben tener estudianteId, materiaId, fecha y estado"}
	}
	if !model.ValidEstado(data.Estado) {
		return nil, &ValidationError{Message: "estado inválido: debe ser presente, ausente o justificado"}
	}
	fecha, err := time.Parse(fechaLayout, data.Fecha)
	if err != nil {
		return nil, &ValidationError{Message: "fecha inválida, se espera el formato YYYY-MM-DD"}
	}

	return &model.Asistencia{
		EstudianteID:  data.EstudianteID,
		MateriaID:     data.MateriaID,
		Fecha:         fecha,
		Estado:        data.Estado,
		Observaciones: data.Observaciones,
	}, nil
}

func (s *asistenciaService) checkOwnership(ctx context.Context, profesorID, materiaID string) error {
	materia, err := s.repo.Materia.GetByID(ctx, materiaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMateriaNotFound
		}
		return err
	}
	if materia.ProfesorID != profesorID {
		return ErrNoPermission
	}
	return nil
}

func toAsistenciaResponse(a *model.Asistencia) dto.AsistenciaResponse {
	resp := dto.AsistenciaResponse{
		ID:            a.ID,
		EstudianteID:  a.EstudianteID,
		MateriaID:     a.MateriaID,
		Fecha:         a.Fecha.Format(fechaLayout),
		Estado:        a.Estado,
		Observaciones: a.Observaciones,
	}
	if a.Estudiante != nil {
		e := toEstudianteResponse(a.Estudiante)
		resp.Estudiante = &e
	}
	return resp
}
