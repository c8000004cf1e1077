package model

// Materia is a course owned by exactly one professor. Its codigo is
// unique across the whole system, not per professor.
type Materia struct {
	ID          string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Nombre      string  `gorm:"type:varchar(200);not null"                     json:"nombre"`
	Codigo      string  `gorm:"type:varchar(50);not null;uniqueIndex"          json:"codigo"`
	Descripcion *string `gorm:"type:text"                                      json:"descripcion,omitempty"`
	Activa      bool    `gorm:"not null;default:true"                          json:"activa"`
	ProfesorID  string  `gorm:"type:uuid;not null"                             json:"profesorId"`
	Timestamps

	Profesor *User `gorm:"foreignKey:ProfesorID" json:"profesor,omitempty"`
}

// TableName overrides the table name.
func (Materia) TableName() string { return "materias" }
