package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ferrosero91/asistencia/internal/model"
)

// AsistenciaFilters narrows attendance listings. ProfesorID is always
// set by the service from the authenticated identity.
type AsistenciaFilters struct {
	ProfesorID string
	MateriaID  string
	Fecha      *time.Time
}

// AsistenciaRepository is the attendance data-access interface.
type AsistenciaRepository interface {
	// Upsert writes one record keyed by (estudiante, materia, fecha);
	// an existing row gets its estado and observaciones replaced.
	Upsert(ctx context.Context, asistencia *model.Asistencia) error
	List(ctx context.Context, filters *AsistenciaFilters) ([]model.Asistencia, error)
	ListByMateriaRange(ctx context.Context, materiaID string, desde, hasta *time.Time) ([]model.Asistencia, error)
	ListCreatedSince(ctx context.Context, since time.Time, limit int) ([]model.Asistencia, error)
	Count(ctx context.Context) (int64, error)
	CountBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountByProfesor(ctx context.Context, profesorID string) (int64, error)
}

type asistenciaRepo struct {
	db *gorm.DB
}

// NewAsistenciaRepo creates the GORM-backed AsistenciaRepository.
func NewAsistenciaRepo(db *gorm.DB) AsistenciaRepository {
	return &asistenciaRepo{db: db}
}

func (r *asistenciaRepo) Upsert(ctx context.Context, asistencia *model.Asistencia) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "estudiante_id"},
				{Name: "materia_id"},
				{Name: "fecha"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"estado":        asistencia.Estado,
				"observaciones": asistencia.Observaciones,
				"updated_at":    gorm.Expr("CURRENT_TIMESTAMP"),
			}),
		}).
		Create(asistencia).Error
}

func (r *asistenciaRepo) List(ctx context.Context, filters *AsistenciaFilters) ([]model.Asistencia, error) {
	db := r.db.WithContext(ctx).
		Preload("Estudiante").
		Preload("Materia").
		Joins("JOIN materias ON materias.id = asistencias.materia_id").
		Where("materias.profesor_id = ?", filters.ProfesorID)

	if filters.MateriaID != "" {
		db = db.Where("asistencias.materia_id = ?", filters.MateriaID)
	}
	if filters.Fecha != nil {
		db = db.Where("asistencias.fecha = ?", filters.Fecha.Format("2006-01-02"))
	}

	var asistencias []model.Asistencia
	err := db.Order("asistencias.fecha DESC").Find(&asistencias).Error
	return asistencias, err
}

func (r *asistenciaRepo) ListByMateriaRange(ctx context.Context, materiaID string, desde, hasta *time.Time) ([]model.Asistencia, error) {
	db := r.db.WithContext(ctx).
		Where("materia_id = ?", materiaID)

	if desde != nil {
		db = db.Where("fecha >= ?", desde.Format("2006-01-02"))
	}
	if hasta != nil {
		db = db.Where("fecha <= ?", hasta.Format("2006-01-02"))
	}

	var asistencias []model.Asistencia
	err := db.Order("fecha ASC").Find(&asistencias).Error
	return asistencias, err
}

func (r *asistenciaRepo) ListCreatedSince(ctx context.Context, since time.Time, limit int) ([]model.Asistencia, error) {
	var asistencias []model.Asistencia
	err := r.db.WithContext(ctx).
		Preload("Materia.Profesor").
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Limit(limit).
		Find(&asistencias).Error
	return asistencias, err
}

func (r *asistenciaRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Asistencia{}).
		Count(&count).Error
	return count, err
}

func (r *asistenciaRepo) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Asistencia{}).
		Where("fecha >= ? AND fecha < ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Count(&count).Error
	return count, err
}

func (r *asistenciaRepo) CountByProfesor(ctx context.Context, profesorID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Asistencia{}).
		Joins("JOIN materias ON materias.id = asistencias.materia_id").
		Where("materias.profesor_id = ?", profesorID).
		Count(&count).Error
	return count, err
}
