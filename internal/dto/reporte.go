package dto

// ── Attendance report ──

// EstudianteReporte is one student's attendance statistics within the
// filtered range. TotalClases is the number of distinct class dates of
// the materia, not the number of records for this student.
type EstudianteReporte struct {
	Estudiante           EstudianteResponse `json:"estudiante"`
	TotalClases          int                `json:"totalClases"`
	Presentes            int                `json:"presentes"`
	Ausentes             int                `json:"ausentes"`
	Justificados         int                `json:"justificados"`
	PorcentajeAsistencia float64            `json:"porcentajeAsistencia"`
	Clasificacion        string             `json:"clasificacion"` // Excelente | Regular | Deficiente
}

// ReporteResumen aggregates the course-level numbers shown in the
// report header cards.
type ReporteResumen struct {
	TotalEstudiantes   int     `json:"totalEstudiantes"`
	TotalClases        int     `json:"totalClases"`
	PromedioAsistencia float64 `json:"promedioAsistencia"`
	Excelentes         int     `json:"excelentes"`
	Regulares          int     `json:"regulares"`
	Deficientes        int     `json:"deficientes"`
}

// ReporteMateriaResponse is the full per-course attendance report.
type ReporteMateriaResponse struct {
	Materia     MateriaResponse     `json:"materia"`
	Desde       string              `json:"desde,omitempty"`
	Hasta       string              `json:"hasta,omitempty"`
	Estudiantes []EstudianteReporte `json:"estudiantes"`
	Resumen     ReporteResumen      `json:"resumen"`
}
