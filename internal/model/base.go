package model

import "time"

// Roles de cuenta.
const (
	RoleProfesor   = "PROFESOR"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// Estados de asistencia.
const (
	EstadoPresente    = "presente"
	EstadoAusente     = "ausente"
	EstadoJustificado = "justificado"
)

// ValidEstado reports whether s is a known attendance status.
func ValidEstado(s string) bool {
	return s == EstadoPresente || s == EstadoAusente || s == EstadoJustificado
}

// Timestamps are the audit fields shared by all mutable models.
type Timestamps struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}
