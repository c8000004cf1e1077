package dto

// ── Asistencia requests ──

// AsistenciaData is one attendance mark. Fecha uses the YYYY-MM-DD
// format. Required-field checks are done in the service so that bulk
// submissions report which item is malformed.
type AsistenciaData struct {
	EstudianteID  string  `json:"estudianteId"`
	MateriaID     string  `json:"materiaId"`
	Fecha         string  `json:"fecha"`
	Estado        string  `json:"estado"`
	Observaciones *string `json:"observaciones"`
}

// SaveAsistenciasRequest accepts either a single mark (inline fields)
// or a whole class session (asistencias array), with upsert semantics
// either way.
type SaveAsistenciasRequest struct {
	AsistenciaData
	Asistencias []AsistenciaData `json:"asistencias"`
}

// ── Asistencia responses ──

// AsistenciaResponse is a stored attendance record.
type AsistenciaResponse struct {
	ID            string              `json:"id"`
	EstudianteID  string              `json:"estudianteId"`
	MateriaID     string              `json:"materiaId"`
	Fecha         string              `json:"fecha"`
	Estado        string              `json:"estado"`
	Observaciones *string             `json:"observaciones,omitempty"`
	Estudiante    *EstudianteResponse `json:"estudiante,omitempty"`
}

// SaveAsistenciasResponse summarizes a batch save.
type SaveAsistenciasResponse struct {
	Message     string               `json:"message"`
	Asistencias []AsistenciaResponse `json:"asistencias"`
}
