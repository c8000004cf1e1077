package dto

import "time"

// ── System-wide statistics (GET /api/admin/stats) ──

// ResumenGeneral holds the global dashboard counters.
type ResumenGeneral struct {
	TotalUsuarios     int64 `json:"totalUsuarios"`
	UsuariosActivos   int64 `json:"usuariosActivos"`
	UsuariosInactivos int64 `json:"usuariosInactivos"`
	TotalMaterias     int64 `json:"totalMaterias"`
	MateriasActivas   int64 `json:"materiasActivas"`
	TotalEstudiantes  int64 `json:"totalEstudiantes"`
	TotalAsistencias  int64 `json:"totalAsistencias"`
	AsistenciasHoy    int64 `json:"asistenciasHoy"`
}

// RegistroMes is one month bucket of professor registrations.
type RegistroMes struct {
	Mes       string `json:"mes"` // e.g. "enero de 2026"
	Registros int    `json:"registros"`
}

// TopProfesor ranks one professor by attendance records taken.
type TopProfesor struct {
	ID               string  `json:"id"`
	Nombre           string  `json:"nombre"`
	Departamento     *string `json:"departamento,omitempty"`
	TotalAsistencias int64   `json:"totalAsistencias"`
	TotalMaterias    int64   `json:"totalMaterias"`
}

// DepartamentoStats is the roll-up for one department.
type DepartamentoStats struct {
	Departamento string `json:"departamento"`
	Profesores   int    `json:"profesores"`
	Materias     int64  `json:"materias"`
	Estudiantes  int64  `json:"estudiantes"`
	Asistencias  int64  `json:"asistencias"`
}

// AdminStatsResponse is the aggregated dashboard payload.
type AdminStatsResponse struct {
	ResumenGeneral              ResumenGeneral      `json:"resumenGeneral"`
	RegistrosPorMes             []RegistroMes       `json:"registrosPorMes"`
	TopProfesores               []TopProfesor       `json:"topProfesores"`
	EstadisticasPorDepartamento []DepartamentoStats `json:"estadisticasPorDepartamento"`
}

// ── Activity feed (GET /api/admin/activity) ──

// Activity feed entry types.
const (
	ActividadUsuario    = "USUARIO"
	ActividadMateria    = "MATERIA"
	ActividadEstudiante = "ESTUDIANTE"
	ActividadAsistencia = "ASISTENCIA"
)

// ActivityFilters are the optional feed filters.
type ActivityFilters struct {
	Tipo    string `form:"tipo"`
	Fecha   string `form:"fecha"` // YYYY-MM-DD
	Usuario string `form:"usuario"`
}

// ActivityEntry is one event in the merged feed.
type ActivityEntry struct {
	ID          string                 `json:"id"`
	Usuario     string                 `json:"usuario"`
	Accion      string                 `json:"accion"`
	Tipo        string                 `json:"tipo"`
	Descripcion string                 `json:"descripcion"`
	Fecha       time.Time              `json:"fecha"`
	Detalles    map[string]interface{} `json:"detalles,omitempty"`
}

// ActivityStats counts feed entries per type.
type ActivityStats struct {
	Total       int `json:"total"`
	Login       int `json:"login"`
	Materias    int `json:"materias"`
	Estudiantes int `json:"estudiantes"`
	Asistencias int `json:"asistencias"`
	Reportes    int `json:"reportes"`
	Usuarios    int `json:"usuarios"`
}

// ActivityResponse is the filtered activity feed.
type ActivityResponse struct {
	Activities   []ActivityEntry `json:"activities"`
	Estadisticas ActivityStats   `json:"estadisticas"`
}

// ── Professor account management (/api/admin/users) ──

// AdminUserResponse is an account plus its usage counters.
type AdminUserResponse struct {
	UserResponse
	TotalMaterias    int64 `json:"totalMaterias"`
	TotalEstudiantes int64 `json:"totalEstudiantes"`
	TotalAsistencias int64 `json:"totalAsistencias"`
}

// CreateAdminUserRequest creates a professor account from the admin
// panel. The role is always PROFESOR.
type CreateAdminUserRequest struct {
	Nombre       string  `json:"nombre"       binding:"required,max=100"`
	Apellido     string  `json:"apellido"     binding:"required,max=100"`
	Email        string  `json:"email"        binding:"required,email"`
	Telefono     *string `json:"telefono"     binding:"omitempty,max=30"`
	Departamento *string `json:"departamento" binding:"omitempty,max=100"`
	Password     string  `json:"password"     binding:"required,min=6"`
}

// UpdateAdminUserRequest updates only the fields that are present.
// A non-empty Password is re-hashed before storing.
type UpdateAdminUserRequest struct {
	Nombre       *string `json:"nombre"       binding:"omitempty,max=100"`
	Apellido     *string `json:"apellido"     binding:"omitempty,max=100"`
	Email        *string `json:"email"        binding:"omitempty,email"`
	Telefono     *string `json:"telefono"     binding:"omitempty,max=30"`
	Departamento *string `json:"departamento" binding:"omitempty,max=100"`
	Activo       *bool   `json:"activo"`
	Password     *string `json:"password"     binding:"omitempty,min=6"`
}
