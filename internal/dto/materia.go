package dto

import "time"

// ── Materia requests ──

// CreateMateriaRequest is the course creation form.
type CreateMateriaRequest struct {
	Nombre      string  `json:"nombre"      binding:"required,max=200"`
	Codigo      string  `json:"codigo"      binding:"required,max=50"`
	Descripcion *string `json:"descripcion" binding:"omitempty"`
	Activa      *bool   `json:"activa"`
}

// UpdateMateriaRequest updates only the fields that are present.
type UpdateMateriaRequest struct {
	Nombre      *string `json:"nombre"      binding:"omitempty,max=200"`
	Codigo      *string `json:"codigo"      binding:"omitempty,max=50"`
	Descripcion *string `json:"descripcion"`
	Activa      *bool   `json:"activa"`
}

// ── Materia responses ──

// MateriaResponse is a course plus its enrolled-student count.
type MateriaResponse struct {
	ID               string    `json:"id"`
	Nombre           string    `json:"nombre"`
	Codigo           string    `json:"codigo"`
	Descripcion      *string   `json:"descripcion,omitempty"`
	Activa           bool      `json:"activa"`
	ProfesorID       string    `json:"profesorId"`
	TotalEstudiantes int64     `json:"totalEstudiantes"`
	CreatedAt        time.Time `json:"createdAt"`
}
