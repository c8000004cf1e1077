package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ferrosero91/asistencia/config"
	"github.com/ferrosero91/asistencia/internal/dto"
	"github.com/ferrosero91/asistencia/internal/model"
	"github.com/ferrosero91/asistencia/internal/repository"
)

// Admin-panel errors.
var (
	ErrSuperAdminEdit   = errors.New("No se puede modificar una cuenta de super administrador")
	ErrSuperAdminDelete = errors.New("No se puede eliminar una cuenta de super administrador")
	ErrSelfDelete       = errors.New("No puedes eliminar tu propia cuenta")
)

// Activity feed bounds.
const (
	activityWindow      = 7 * 24 * time.Hour
	activityMaxEntries  = 100
	activityUsuarios    = 10
	activityMaterias    = 20
	activityEstudiantes = 30
	activityAsistencias = 50

	// Rows fetched before grouping collapses them into entries.
	activityFetchRows = 2000
)

var mesesES = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// AdminService serves the super-admin dashboard: global statistics, the
// recent-activity feed and professor account management.
type AdminService interface {
	Stats(ctx context.Context) (*dto.AdminStatsResponse, error)
	Activity(ctx context.Context, filters *dto.ActivityFilters) (*dto.ActivityResponse, error)
	ListUsers(ctx context.Context) ([]dto.AdminUserResponse, error)
	CreateUser(ctx context.Context, req *dto.CreateAdminUserRequest) (*dto.AdminUserResponse, error)
	UpdateUser(ctx context.Context, userID string, req *dto.UpdateAdminUserRequest) (*dto.AdminUserResponse, error)
	DeleteUser(ctx context.Context, adminID, userID string) error
}

type adminService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewAdminService creates the AdminService.
func NewAdminService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) AdminService {
	return &adminService{cfg: cfg, repo: repo, logger: logger, now: time.Now}
}

// ── Statistics ──

func (s *adminService) Stats(ctx context.Context) (*dto.AdminStatsResponse, error) {
	resumen, err := s.resumenGeneral(ctx)
	if err != nil {
		return nil, err
	}

	profesores, err := s.repo.User.ListProfesores(ctx)
	if err != nil {
		s.logger.Error("error al listar profesores para estadísticas", zap.Error(err))
		return nil, err
	}

	top, departamentos, err := s.statsPorProfesor(ctx, profesores)
	if err != nil {
		return nil, err
	}

	return &dto.AdminStatsResponse{
		ResumenGeneral:              *resumen,
		RegistrosPorMes:             registrosPorMes(profesores, s.now()),
		TopProfesores:               top,
		EstadisticasPorDepartamento: departamentos,
	}, nil
}

func (s *adminService) resumenGeneral(ctx context.Context) (*dto.ResumenGeneral, error) {
	resumen := &dto.ResumenGeneral{}

	var err error
	if resumen.TotalUsuarios, err = s.repo.User.CountProfesores(ctx, false); err != nil {
		return nil, err
	}
	if resumen.UsuariosActivos, err = s.repo.User.CountProfesores(ctx, true); err != nil {
		return nil, err
	}
	resumen.UsuariosInactivos = resumen.TotalUsuarios - resumen.UsuariosActivos

	if resumen.TotalMaterias, err = s.repo.Materia.Count(ctx, false); err != nil {
		return nil, err
	}
	if resumen.MateriasActivas, err = s.repo.Materia.Count(ctx, true); err != nil {
		return nil, err
	}
	if resumen.TotalEstudiantes, err = s.repo.Estudiante.Count(ctx); err != nil {
		return nil, err
	}
	if resumen.TotalAsistencias, err = s.repo.Asistencia.Count(ctx); err != nil {
		return nil, err
	}

	hoy := s.now()
	inicio := time.Date(hoy.Year(), hoy.Month(), hoy.Day(), 0, 0, 0, 0, hoy.Location())
	if resumen.AsistenciasHoy, err = s.repo.Asistencia.CountBetween(ctx, inicio, inicio.AddDate(0, 0, 1)); err != nil {
		return nil, err
	}

	return resumen, nil
}

// registrosPorMes buckets professor registrations into the trailing six
// calendar months, oldest first, including empty months.
func registrosPorMes(profesores []model.User, ahora time.Time) []dto.RegistroMes {
	type bucket struct {
		label string
		count int
	}
	buckets := make([]bucket, 0, 6)
	index := make(map[string]int, 6)
	for i := 5; i >= 0; i-- {
		mes := time.Date(ahora.Year(), ahora.Month(), 1, 0, 0, 0, 0, ahora.Location()).AddDate(0, -i, 0)
		key := mes.Format("2006-01")
		index[key] = len(buckets)
		buckets = append(buckets, bucket{
			label: fmt.Sprintf("%s de %d", mesesES[mes.Month()-1], mes.Year()),
		})
	}

	for i := range profesores {
		key := profesores[i].FechaRegistro.Format("2006-01")
		if pos, ok := index[key]; ok {
			buckets[pos].count++
		}
	}

	result := make([]dto.RegistroMes, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, dto.RegistroMes{Mes: b.label, Registros: b.count})
	}
	return result
}

func (s *adminService) statsPorProfesor(ctx context.Context, profesores []model.User) ([]dto.TopProfesor, []dto.DepartamentoStats, error) {
	ranking := make([]dto.TopProfesor, 0, len(profesores))
	porDepartamento := make(map[string]*dto.DepartamentoStats)

	for i := range profesores {
		p := &profesores[i]

		materias, err := s.repo.Materia.CountByProfesor(ctx, p.ID)
		if err != nil {
			return nil, nil, err
		}
		estudiantes, err := s.repo.Estudiante.CountByProfesor(ctx, p.ID)
		if err != nil {
			return nil, nil, err
		}
		asistencias, err := s.repo.Asistencia.CountByProfesor(ctx, p.ID)
		if err != nil {
			return nil, nil, err
		}

		// Only active professors compete in the ranking; the
		// department roll-up counts every professor with a department.
		if p.Activo {
			ranking = append(ranking, dto.TopProfesor{
				ID:               p.ID,
				Nombre:           p.NombreCompleto(),
				Departamento:     p.Departamento,
				TotalAsistencias: asistencias,
				TotalMaterias:    materias,
			})
		}

		if p.Departamento == nil || *p.Departamento == "" {
			continue
		}
		stats := porDepartamento[*p.Departamento]
		if stats == nil {
			stats = &dto.DepartamentoStats{Departamento: *p.Departamento}
			porDepartamento[*p.Departamento] = stats
		}
		stats.Profesores++
		stats.Materias += materias
		stats.Estudiantes += estudiantes
		stats.Asistencias += asistencias
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].TotalAsistencias != ranking[j].TotalAsistencias {
			return ranking[i].TotalAsistencias > ranking[j].TotalAsistencias
		}
		return ranking[i].Nombre < ranking[j].Nombre
	})
	if len(ranking) > 5 {
		ranking = ranking[:5]
	}

	departamentos := make([]dto.DepartamentoStats, 0, len(porDepartamento))
	for _, stats := range porDepartamento {
		departamentos = append(departamentos, *stats)
	}
	sort.Slice(departamentos, func(i, j int) bool {
		return departamentos[i].Departamento < departamentos[j].Departamento
	})

	return ranking, departamentos, nil
}

// ── Activity feed ──

// Activity derives the recent-activity feed from the stored records of
// the last seven days. Loads of students and attendance sessions are
// grouped into one entry per action rather than one per row.
func (s *adminService) Activity(ctx context.Context, filters *dto.ActivityFilters) (*dto.ActivityResponse, error) {
	since := s.now().Add(-activityWindow)

	entries, err := s.collectActivity(ctx, since)
	if err != nil {
		return nil, err
	}

	entries = filterActivity(entries, filters)

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Fecha.After(entries[j].Fecha)
	})
	if len(entries) > activityMaxEntries {
		entries = entries[:activityMaxEntries]
	}

	stats := dto.ActivityStats{Total: len(entries)}
	for _, e := range entries {
		switch e.Tipo {
		case dto.ActividadUsuario:
			stats.Usuarios++
		case dto.ActividadMateria:
			stats.Materias++
		case dto.ActividadEstudiante:
			stats.Estudiantes++
		case dto.ActividadAsistencia:
			stats.Asistencias++
		}
	}

	return &dto.ActivityResponse{Activities: entries, Estadisticas: stats}, nil
}

func (s *adminService) collectActivity(ctx context.Context, since time.Time) ([]dto.ActivityEntry, error) {
	var entries []dto.ActivityEntry

	profesores, err := s.repo.User.ListProfesoresSince(ctx, since, activityUsuarios)
	if err != nil {
		s.logger.Error("error al consultar registros de usuarios", zap.Error(err))
		return nil, err
	}
	for i := range profesores {
		p := &profesores[i]
		entries = append(entries, dto.ActivityEntry{
			ID:          "usuario-" + p.ID,
			Usuario:     p.NombreCompleto(),
			Accion:      "Registro de usuario",
			Tipo:        dto.ActividadUsuario,
			Descripcion: fmt.Sprintf("Nuevo profesor registrado: %s", p.NombreCompleto()),
			Fecha:       p.FechaRegistro,
		})
	}

	materias, err := s.repo.Materia.ListCreatedSince(ctx, since, activityMaterias)
	if err != nil {
		s.logger.Error("error al consultar materias recientes", zap.Error(err))
		return nil, err
	}
	for i := range materias {
		m := &materias[i]
		usuario := ""
		if m.Profesor != nil {
			usuario = m.Profesor.NombreCompleto()
		}
		entries = append(entries, dto.ActivityEntry{
			ID:          "materia-" + m.ID,
			Usuario:     usuario,
			Accion:      "Creación de materia",
			Tipo:        dto.ActividadMateria,
			Descripcion: fmt.Sprintf("Materia creada: %s (%s)", m.Nombre, m.Codigo),
			Fecha:       m.CreatedAt,
		})
	}

	estudiantes, err := s.repo.Estudiante.ListCreatedSince(ctx, since, activityFetchRows)
	if err != nil {
		s.logger.Error("error al consultar estudiantes recientes", zap.Error(err))
		return nil, err
	}
	entries = append(entries, groupEstudiantes(estudiantes)...)

	asistencias, err := s.repo.Asistencia.ListCreatedSince(ctx, since, activityFetchRows)
	if err != nil {
		s.logger.Error("error al consultar asistencias recientes", zap.Error(err))
		return nil, err
	}
	entries = append(entries, groupAsistencias(asistencias)...)

	return entries, nil
}

// groupEstudiantes collapses each roster load (same professor, same
// day) into a single feed entry with the row count in Detalles.
func groupEstudiantes(estudiantes []model.Estudiante) []dto.ActivityEntry {
	type grupo struct {
		entry dto.ActivityEntry
		count int
	}
	grupos := make(map[string]*grupo)
	var orden []string

	for i := range estudiantes {
		e := &estudiantes[i]
		usuario := ""
		profesorID := ""
		if e.Materia != nil && e.Materia.Profesor != nil {
			usuario = e.Materia.Profesor.NombreCompleto()
			profesorID = e.Materia.ProfesorID
		}
		key := profesorID + "|" + e.CreatedAt.Format(fechaLayout)

		g := grupos[key]
		if g == nil {
			g = &grupo{entry: dto.ActivityEntry{
				ID:      "estudiantes-" + key,
				Usuario: usuario,
				Accion:  "Carga de estudiantes",
				Tipo:    dto.ActividadEstudiante,
				Fecha:   e.CreatedAt,
			}}
			grupos[key] = g
			orden = append(orden, key)
		}
		g.count++
		if e.CreatedAt.After(g.entry.Fecha) {
			g.entry.Fecha = e.CreatedAt
		}
	}

	entries := make([]dto.ActivityEntry, 0, len(orden))
	for _, key := range orden {
		g := grupos[key]
		g.entry.Descripcion = fmt.Sprintf("%d estudiantes cargados", g.count)
		g.entry.Detalles = map[string]interface{}{"cantidad": g.count}
		entries = append(entries, g.entry)
		if len(entries) == activityEstudiantes {
			break
		}
	}
	return entries
}

// groupAsistencias collapses one marking session (professor, course,
// class date) into a single feed entry.
func groupAsistencias(asistencias []model.Asistencia) []dto.ActivityEntry {
	type grupo struct {
		entry dto.ActivityEntry
		count int
	}
	grupos := make(map[string]*grupo)
	var orden []string

	for i := range asistencias {
		a := &asistencias[i]
		usuario := ""
		materiaNombre := ""
		if a.Materia != nil {
			materiaNombre = a.Materia.Nombre
			if a.Materia.Profesor != nil {
				usuario = a.Materia.Profesor.NombreCompleto()
			}
		}
		key := a.MateriaID + "|" + a.Fecha.Format(fechaLayout)

		g := grupos[key]
		if g == nil {
			g = &grupo{entry: dto.ActivityEntry{
				ID:      "asistencias-" + key,
				Usuario: usuario,
				Accion:  "Registro de asistencia",
				Tipo:    dto.ActividadAsistencia,
				Fecha:   a.CreatedAt,
				Detalles: map[string]interface{}{
					"materia": materiaNombre,
					"fecha":   a.Fecha.Format(fechaLayout),
				},
			}}
			grupos[key] = g
			orden = append(orden, key)
		}
		g.count++
		if a.CreatedAt.After(g.entry.Fecha) {
			g.entry.Fecha = a.CreatedAt
		}
	}

	entries := make([]dto.ActivityEntry, 0, len(orden))
	for _, key := range orden {
		g := grupos[key]
		materia, _ := g.entry.Detalles["materia"].(string)
		fecha, _ := g.entry.Detalles["fecha"].(string)
		g.entry.Descripcion = fmt.Sprintf("Asistencia registrada en %s (%s): %d estudiantes", materia, fecha, g.count)
		g.entry.Detalles["cantidad"] = g.count
		entries = append(entries, g.entry)
		if len(entries) == activityAsistencias {
			break
		}
	}
	return entries
}

func filterActivity(entries []dto.ActivityEntry, filters *dto.ActivityFilters) []dto.ActivityEntry {
	if filters == nil || (filters.Tipo == "" && filters.Fecha == "" && filters.Usuario == "") {
		return entries
	}

	usuario := strings.ToLower(filters.Usuario)
	filtered := entries[:0]
	for _, e := range entries {
		if filters.Tipo != "" && e.Tipo != filters.Tipo {
			continue
		}
		if filters.Fecha != "" && e.Fecha.Format(fechaLayout) != filters.Fecha {
			continue
		}
		if usuario != "" && !strings.Contains(strings.ToLower(e.Usuario), usuario) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

// ── Account management ──

func (s *adminService) ListUsers(ctx context.Context) ([]dto.AdminUserResponse, error) {
	profesores, err := s.repo.User.ListProfesores(ctx)
	if err != nil {
		s.logger.Error("error al listar profesores", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AdminUserResponse, 0, len(profesores))
	for i := range profesores {
		resp, err := s.toAdminUserResponse(ctx, &profesores[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *resp)
	}
	return result, nil
}

func (s *adminService) CreateUser(ctx context.Context, req *dto.CreateAdminUserRequest) (*dto.AdminUserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost())
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Nombre:        strings.TrimSpace(req.Nombre),
		Apellido:      strings.TrimSpace(req.Apellido),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Telefono:      req.Telefono,
		Departamento:  req.Departamento,
		PasswordHash:  string(hash),
		Role:          model.RoleProfesor,
		Activo:        true,
		FechaRegistro: s.now(),
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		s.logger.Error("error al crear el usuario", zap.Error(err))
		return nil, err
	}

	s.logger.Info("usuario creado desde el panel de administración",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email))
	return s.toAdminUserResponse(ctx, user)
}

func (s *adminService) UpdateUser(ctx context.Context, userID string, req *dto.UpdateAdminUserRequest) (*dto.AdminUserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Role == model.RoleSuperAdmin {
		return nil, ErrSuperAdminEdit
	}

	if req.Nombre != nil {
		user.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.Apellido != nil {
		user.Apellido = strings.TrimSpace(*req.Apellido)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Telefono != nil {
		user.Telefono = req.Telefono
	}
	if req.Departamento != nil {
		user.Departamento = req.Departamento
	}
	if req.Activo != nil {
		user.Activo = *req.Activo
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.bcryptCost())
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		s.logger.Error("error al actualizar el usuario", zap.Error(err))
		return nil, err
	}

	return s.toAdminUserResponse(ctx, user)
}

func (s *adminService) DeleteUser(ctx context.Context, adminID, userID string) error {
	if adminID == userID {
		return ErrSelfDelete
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.Role == model.RoleSuperAdmin {
		return ErrSuperAdminDelete
	}

	if err := s.repo.User.Delete(ctx, userID); err != nil {
		s.logger.Error("error al eliminar el usuario", zap.Error(err))
		return err
	}

	s.logger.Info("usuario eliminado desde el panel de administración",
		zap.String("user_id", userID),
		zap.String("admin_id", adminID))
	return nil
}

func (s *adminService) toAdminUserResponse(ctx context.Context, user *model.User) (*dto.AdminUserResponse, error) {
	materias, err := s.repo.Materia.CountByProfesor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	estudiantes, err := s.repo.Estudiante.CountByProfesor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	asistencias, err := s.repo.Asistencia.CountByProfesor(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.AdminUserResponse{
		UserResponse:     toUserResponse(user),
		TotalMaterias:    materias,
		TotalEstudiantes: estudiantes,
		TotalAsistencias: asistencias,
	}, nil
}

func (s *adminService) bcryptCost() int {
	if s.cfg.Auth.BcryptCost > 0 {
		return s.cfg.Auth.BcryptCost
	}
	return bcrypt.DefaultCost
}
