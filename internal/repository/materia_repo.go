package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ferrosero91/asistencia/internal/model"
)

// MateriaRepository is the course data-access interface.
type MateriaRepository interface {
	Create(ctx context.Context, materia *model.Materia) error
	GetByID(ctx context.Context, id string) (*model.Materia, error)
	Update(ctx context.Context, materia *model.Materia) error
	Delete(ctx context.Context, id string) error
	ListByProfesor(ctx context.Context, profesorID string) ([]model.Materia, error)
	ListCreatedSince(ctx context.Context, since time.Time, limit int) ([]model.Materia, error)
	Count(ctx context.Context, activasOnly bool) (int64, error)
	CountByProfesor(ctx context.Context, profesorID string) (int64, error)
}

type materiaRepo struct {
	db *gorm.DB
}

// NewMateriaRepo creates the GORM-backed MateriaRepository.
func NewMateriaRepo(db *gorm.DB) MateriaRepository {
	return &materiaRepo{db: db}
}

func (r *materiaRepo) Create(ctx context.Context, materia *model.Materia) error {
	return r.db.WithContext(ctx).Create(materia).Error
}

func (r *materiaRepo) GetByID(ctx context.Context, id string) (*model.Materia, error) {
	var materia model.Materia
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&materia).Error
	if err != nil {
		return nil, err
	}
	return &materia, nil
}

func (r *materiaRepo) Update(ctx context.Context, materia *model.Materia) error {
	return r.db.WithContext(ctx).Save(materia).Error
}

func (r *materiaRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Materia{}).Error
}

func (r *materiaRepo) ListByProfesor(ctx context.Context, profesorID string) ([]model.Materia, error) {
	var materias []model.Materia
	err := r.db.WithContext(ctx).
		Where("profesor_id = ?", profesorID).
		Order("created_at DESC").
		Find(&materias).Error
	return materias, err
}

func (r *materiaRepo) ListCreatedSince(ctx context.Context, since time.Time, limit int) ([]model.Materia, error) {
	var materias []model.Materia
	err := r.db.WithContext(ctx).
		Preload("Profesor").
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Limit(limit).
		Find(&materias).Error
	return materias, err
}

func (r *materiaRepo) Count(ctx context.Context, activasOnly bool) (int64, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&model.Materia{})
	if activasOnly {
		db = db.Where("activa = ?", true)
	}
	err := db.Count(&count).Error
	return count, err
}

func (r *materiaRepo) CountByProfesor(ctx context.Context, profesorID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Materia{}).
		Where("profesor_id = ?", profesorID).
		Count(&count).Error
	return count, err
}
