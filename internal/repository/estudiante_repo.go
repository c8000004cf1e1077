package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ferrosero91/asistencia/internal/model"
)

// EstudianteRepository is the student data-access interface.
type EstudianteRepository interface {
	Create(ctx context.Context, estudiante *model.Estudiante) error
	GetByID(ctx context.Context, id string) (*model.Estudiante, error)
	Update(ctx context.Context, estudiante *model.Estudiante) error
	Delete(ctx context.Context, id string) error
	ListByMateria(ctx context.Context, materiaID string) ([]model.Estudiante, error)
	ListByProfesor(ctx context.Context, profesorID string) ([]model.Estudiante, error)
	ListCreatedSince(ctx context.Context, since time.Time, limit int) ([]model.Estudiante, error)
	Count(ctx context.Context) (int64, error)
	CountByMateria(ctx context.Context, materiaID string) (int64, error)
	CountByProfesor(ctx context.Context, profesorID string) (int64, error)
}

type estudianteRepo struct {
	db *gorm.DB
}

// NewEstudianteRepo creates the GORM-backed EstudianteRepository.
func NewEstudianteRepo(db *gorm.DB) EstudianteRepository {
	return &estudianteRepo{db: db}
}

func (r *estudianteRepo) Create(ctx context.Context, estudiante *model.Estudiante) error {
	return r.db.WithContext(ctx).Create(estudiante).Error
}

func (r *estudianteRepo) GetByID(ctx context.Context, id string) (*model.Estudiante, error) {
	var estudiante model.Estudiante
	err := r.db.WithContext(ctx).
		Preload("Materia").
		Where("id = ?", id).
		First(&estudiante).Error
	if err != nil {
		return nil, err
	}
	return &estudiante, nil
}

func (r *estudianteRepo) Update(ctx context.Context, estudiante *model.Estudiante) error {
	return r.db.WithContext(ctx).Save(estudiante).Error
}

func (r *estudianteRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Estudiante{}).Error
}

func (r *estudianteRepo) ListByMateria(ctx context.Context, materiaID string) ([]model.Estudiante, error) {
	var estudiantes []model.Estudiante
	err := r.db.WithContext(ctx).
		Preload("Materia").
		Where("materia_id = ?", materiaID).
		Order("created_at DESC").
		Find(&estudiantes).Error
	return estudiantes, err
}

func (r *estudianteRepo) ListByProfesor(ctx context.Context, profesorID string) ([]model.Estudiante, error) {
	var estudiantes []model.Estudiante
	err := r.db.WithContext(ctx).
		Preload("Materia").
		Joins("JOIN materias ON materias.id = estudiantes.materia_id").
		Where("materias.profesor_id = ?", profesorID).
		Order("estudiantes.created_at DESC").
		Find(&estudiantes).Error
	return estudiantes, err
}

func (r *estudianteRepo) ListCreatedSince(ctx context.Context, since time.Time, limit int) ([]model.Estudiante, error) {
	var estudiantes []model.Estudiante
	err := r.db.WithContext(ctx).
		Preload("Materia.Profesor").
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Limit(limit).
		Find(&estudiantes).Error
	return estudiantes, err
}

func (r *estudianteRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Estudiante{}).
		Count(&count).Error
	return count, err
}

func (r *estudianteRepo) CountByMateria(ctx context.Context, materiaID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Estudiante{}).
		Where("materia_id = ?", materiaID).
		Count(&count).Error
	return count, err
}

func (r *estudianteRepo) CountByProfesor(ctx context.Context, profesorID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Estudiante{}).
		Joins("JOIN materias ON materias.id = estudiantes.materia_id").
		Where("materias.profesor_id = ?", profesorID).
		Count(&count).Error
	return count, err
}
