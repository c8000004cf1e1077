package model

import "time"

// User is an account: a professor or the super administrator.
type User struct {
	ID            string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Nombre        string    `gorm:"type:varchar(100);not null"                     json:"nombre"`
	Apellido      string    `gorm:"type:varchar(100);not null"                     json:"apellido"`
	Email         string    `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	Telefono      *string   `gorm:"type:varchar(30)"                               json:"telefono,omitempty"`
	Departamento  *string   `gorm:"type:varchar(100)"                              json:"departamento,omitempty"`
	PasswordHash  string    `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	Role          string    `gorm:"type:varchar(20);not null;default:'PROFESOR'"   json:"role"`
	Activo        bool      `gorm:"not null;default:true"                          json:"activo"`
	FechaRegistro time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"fechaRegistro"`
	Timestamps

	Materias []Materia `gorm:"foreignKey:ProfesorID" json:"materias,omitempty"`
}

// TableName overrides the table name.
func (User) TableName() string { return "users" }

// NombreCompleto returns "Nombre Apellido" as shown in reports and the
// activity feed.
func (u *User) NombreCompleto() string {
	return u.Nombre + " " + u.Apellido
}
