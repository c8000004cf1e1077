package model

import "time"

// Estudiante is a student enrolled in exactly one materia. The cedula
// is unique within the materia, not globally.
type Estudiante struct {
	ID             string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Cedula         string    `gorm:"type:varchar(30);not null;uniqueIndex:uq_estudiante_cedula_materia" json:"cedula"`
	NombreCompleto string    `gorm:"type:varchar(200);not null"                     json:"nombreCompleto"`
	Email          string    `gorm:"type:varchar(255);not null"                     json:"email"`
	MateriaID      string    `gorm:"type:uuid;not null;uniqueIndex:uq_estudiante_cedula_materia" json:"materiaId"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"createdAt"`

	Materia *Materia `gorm:"foreignKey:MateriaID" json:"materia,omitempty"`
}

// TableName overrides the table name.
func (Estudiante) TableName() string { return "estudiantes" }
