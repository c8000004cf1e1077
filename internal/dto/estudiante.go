package dto

import "time"

// ── Estudiante requests ──

// EstudianteData is one student row, used for single creation and as
// the element of a bulk load. Field checks follow the roster rules
// (cedula length, email shape), so they are validated in the service
// rather than with binding tags.
type EstudianteData struct {
	Cedula         string `json:"cedula"`
	NombreCompleto string `json:"nombreCompleto"`
	Email          string `json:"email"`
	MateriaID      string `json:"materiaId"`
}

// CreateEstudiantesRequest accepts either a single student (inline
// fields) or a bulk load (estudiantes array), mirroring the original
// API shape.
type CreateEstudiantesRequest struct {
	EstudianteData
	Estudiantes []EstudianteData `json:"estudiantes"`
}

// UpdateEstudianteRequest updates only the fields that are present.
type UpdateEstudianteRequest struct {
	Cedula         *string `json:"cedula"`
	NombreCompleto *string `json:"nombreCompleto"`
	Email          *string `json:"email"`
}

// ── Estudiante responses ──

// EstudianteResponse is a student, optionally with its materia.
type EstudianteResponse struct {
	ID             string           `json:"id"`
	Cedula         string           `json:"cedula"`
	NombreCompleto string           `json:"nombreCompleto"`
	Email          string           `json:"email"`
	MateriaID      string           `json:"materiaId"`
	CreatedAt      time.Time        `json:"createdAt"`
	Materia        *MateriaResponse `json:"materia,omitempty"`
}

// ImportRowError reports why one roster row was rejected.
type ImportRowError struct {
	Fila   int    `json:"fila"`
	Motivo string `json:"motivo"`
}

// ImportEstudiantesResponse summarizes a bulk load: created rows,
// skipped duplicates and per-row validation errors.
type ImportEstudiantesResponse struct {
	Message  string           `json:"message"`
	Total    int              `json:"total"`
	Creados  int              `json:"creados"`
	Omitidos int              `json:"omitidos"`
	Errores  []ImportRowError `json:"errores,omitempty"`
}
