package repository

import "gorm.io/gorm"

// Repository aggregates all data-access interfaces.
type Repository struct {
	User       UserRepository
	Materia    MateriaRepository
	Estudiante EstudianteRepository
	Asistencia AsistenciaRepository
}

// NewRepository builds the aggregate over one GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:       NewUserRepo(db),
		Materia:    NewMateriaRepo(db),
		Estudiante: NewEstudianteRepo(db),
		Asistencia: NewAsistenciaRepo(db),
	}
}
