package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ferrosero91/asistencia/internal/dto"
	"github.com/ferrosero91/asistencia/internal/model"
	"github.com/ferrosero91/asistencia/internal/repository"
)

var (
	ErrMateriaNotFound = errors.New("Materia no encontrada")
	ErrCodigoExists    = errors.New("Ya existe una materia con este código en el sistema")
)

// MateriaService handles course CRUD. Every mutation re-verifies that
// the acting professor owns the course.
type MateriaService interface {
	List(ctx context.Context, profesorID string) ([]dto.MateriaResponse, error)
	Create(ctx context.Context, profesorID string, req *dto.CreateMateriaRequest) (*dto.MateriaResponse, error)
	Update(ctx context.Context, profesorID, materiaID string, req *dto.UpdateMateriaRequest) (*dto.MateriaResponse, error)
	Delete(ctx context.Context, profesorID, materiaID string) error
}

type materiaService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMateriaService creates the MateriaService.
func NewMateriaService(repo *repository.Repository, logger *zap.Logger) MateriaService {
	return &materiaService{repo: repo, logger: logger}
}

func (s *materiaService) List(ctx context.Context, profesorID string) ([]dto.MateriaResponse, error) {
	materias, err := s.repo.Materia.ListByProfesor(ctx, profesorID)
	if err != nil {
		s.logger.Error("error al listar materias", zap.Error(err))
		return nil, err
	}

	result := make([]dto.MateriaResponse, 0, len(materias))
	for i := range materias {
		total, err := s.repo.Estudiante.CountByMateria(ctx, materias[i].ID)
		if err != nil {
			return nil, err
		}
		result = append(result, toMateriaResponse(&materias[i], total))
	}
	return result, nil
}

func (s *materiaService) Create(ctx context.Context, profesorID string, req *dto.CreateMateriaRequest) (*dto.MateriaResponse, error) {
	activa := true
	if req.Activa != nil {
		activa = *req.Activa
	}

	materia := &model.Materia{
		Nombre:      req.Nombre,
		Codigo:      req.Codigo,
		Descripcion: req.Descripcion,
		Activa:      activa,
		ProfesorID:  profesorID,
	}

	// codigo is globally unique; the constraint decides the conflict.
	if err := s.repo.Materia.Create(ctx, materia); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCodigoExists
		}
		s.logger.Error("error al crear la materia", zap.Error(err))
		return nil, err
	}

	resp := toMateriaResponse(materia, 0)
	return &resp, nil
}

func (s *materiaService) Update(ctx context.Context, profesorID, materiaID string, req *dto.UpdateMateriaRequest) (*dto.MateriaResponse, error) {
	materia, err := s.ownedMateria(ctx, profesorID, materiaID)
	if err != nil {
		return nil, err
	}

	if req.Nombre != nil {
		materia.Nombre = *req.Nombre
	}
	if req.Codigo != nil {
		materia.Codigo = *req.Codigo
	}
	if req.Descripcion != nil {
		materia.Descripcion = req.Descripcion
	}
	if req.Activa != nil {
		materia.Activa = *req.Activa
	}

	if err := s.repo.Materia.Update(ctx, materia); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCodigoExists
		}
		s.logger.Error("error al actualizar la materia", zap.Error(err))
		return nil, err
	}

	total, err := s.repo.Estudiante.CountByMateria(ctx, materia.ID)
	if err != nil {
		return nil, err
	}
	resp := toMateriaResponse(materia, total)
	return &resp, nil
}

func (s *materiaService) Delete(ctx context.Context, profesorID, materiaID string) error {
	if _, err := s.ownedMateria(ctx, profesorID, materiaID); err != nil {
		return err
	}
	if err := s.repo.Materia.Delete(ctx, materiaID); err != nil {
		s.logger.Error("error al eliminar la materia", zap.Error(err))
		return err
	}
	return nil
}

// ownedMateria loads a course and verifies the acting professor owns
// it. Ownership is checked server-side on every access.
func (s *materiaService) ownedMateria(ctx context.Context, profesorID, materiaID string) (*model.Materia, error) {
	materia, err := s.repo.Materia.GetByID(ctx, materiaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMateriaNotFound
		}
		return nil, err
	}
	if materia.ProfesorID != profesorID {
		return nil, ErrNoPermission
	}
	return materia, nil
}

func toMateriaResponse(m *model.Materia, totalEstudiantes int64) dto.MateriaResponse {
	return dto.MateriaResponse{
		ID:               m.ID,
		Nombre:           m.Nombre,
		Codigo:           m.Codigo,
		Descripcion:      m.Descripcion,
		Activa:           m.Activa,
		ProfesorID:       m.ProfesorID,
		TotalEstudiantes: totalEstudiantes,
		CreatedAt:        m.CreatedAt,
	}
}
