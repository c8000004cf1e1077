package model

import "time"

// Asistencia is one student's attendance status for one materia on one
// calendar date. The (estudiante, materia, fecha) key is unique;
// re-marking the same student on the same date overwrites the record.
type Asistencia struct {
	ID            string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EstudianteID  string    `gorm:"type:uuid;not null;uniqueIndex:uq_asistencia_estudiante_materia_fecha" json:"estudianteId"`
	MateriaID     string    `gorm:"type:uuid;not null;uniqueIndex:uq_asistencia_estudiante_materia_fecha" json:"materiaId"`
	Fecha         time.Time `gorm:"type:date;not null;uniqueIndex:uq_asistencia_estudiante_materia_fecha" json:"fecha"`
	Estado        string    `gorm:"type:varchar(20);not null"                      json:"estado"`
	Observaciones *string   `gorm:"type:text"                                      json:"observaciones,omitempty"`
	Timestamps

	Estudiante *Estudiante `gorm:"foreignKey:EstudianteID" json:"estudiante,omitempty"`
	Materia    *Materia    `gorm:"foreignKey:MateriaID"    json:"materia,omitempty"`
}

// TableName overrides the table name.
func (Asistencia) TableName() string { return "asistencias" }
