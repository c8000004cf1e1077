package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ferrosero91/asistencia/internal/model"
	"github.com/ferrosero91/asistencia/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == "" {
		m.seq++
		user.ID = fmt.Sprintf("user-%d", m.seq)
	}
	if user.FechaRegistro.IsZero() {
		user.FechaRegistro = time.Now()
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	for id, u := range m.users {
		if id != user.ID && u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) ListProfesores(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.Role == model.RoleProfesor {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].FechaRegistro.After(result[j].FechaRegistro)
	})
	return result, nil
}

func (m *mockUserRepo) ListProfesoresSince(_ context.Context, since time.Time, limit int) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.Role == model.RoleProfesor && !u.FechaRegistro.Before(since) {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].FechaRegistro.After(result[j].FechaRegistro)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockUserRepo) CountProfesores(_ context.Context, activosOnly bool) (int64, error) {
	var count int64
	for _, u := range m.users {
		if u.Role != model.RoleProfesor {
			continue
		}
		if activosOnly && !u.Activo {
			continue
		}
		count++
	}
	return count, nil
}

// ── Mock MateriaRepository ──

type mockMateriaRepo struct {
	materias map[string]*model.Materia
	seq      int
}

func newMockMateriaRepo() *mockMateriaRepo {
	return &mockMateriaRepo{materias: make(map[string]*model.Materia)}
}

func (m *mockMateriaRepo) Create(_ context.Context, materia *model.Materia) error {
	for _, x := range m.materias {
		if x.Codigo == materia.Codigo {
			return gorm.ErrDuplicatedKey
		}
	}
	if materia.ID == "" {
		m.seq++
		materia.ID = fmt.Sprintf("materia-%d", m.seq)
	}
	if materia.CreatedAt.IsZero() {
		materia.CreatedAt = time.Now()
	}
	m.materias[materia.ID] = materia
	return nil
}

func (m *mockMateriaRepo) GetByID(_ context.Context, id string) (*model.Materia, error) {
	if x, ok := m.materias[id]; ok {
		return x, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMateriaRepo) Update(_ context.Context, materia *model.Materia) error {
	for id, x := range m.materias {
		if id != materia.ID && x.Codigo == materia.Codigo {
			return gorm.ErrDuplicatedKey
		}
	}
	m.materias[materia.ID] = materia
	return nil
}

func (m *mockMateriaRepo) Delete(_ context.Context, id string) error {
	delete(m.materias, id)
	return nil
}

func (m *mockMateriaRepo) ListByProfesor(_ context.Context, profesorID string) ([]model.Materia, error) {
	var result []model.Materia
	for _, x := range m.materias {
		if x.ProfesorID == profesorID {
			result = append(result, *x)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockMateriaRepo) ListCreatedSince(_ context.Context, since time.Time, limit int) ([]model.Materia, error) {
	var result []model.Materia
	for _, x := range m.materias {
		if !x.CreatedAt.Before(since) {
			result = append(result, *x)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockMateriaRepo) Count(_ context.Context, activasOnly bool) (int64, error) {
	var count int64
	for _, x := range m.materias {
		if activasOnly && !x.Activa {
			continue
		}
		count++
	}
	return count, nil
}

func (m *mockMateriaRepo) CountByProfesor(_ context.Context, profesorID string) (int64, error) {
	var count int64
	for _, x := range m.materias {
		if x.ProfesorID == profesorID {
			count++
		}
	}
	return count, nil
}

// ── Mock EstudianteRepository ──

type mockEstudianteRepo struct {
	estudiantes map[string]*model.Estudiante
	materias    *mockMateriaRepo // for ListByProfesor / CountByProfesor
	seq         int
}

func newMockEstudianteRepo(materias *mockMateriaRepo) *mockEstudianteRepo {
	return &mockEstudianteRepo{
		estudiantes: make(map[string]*model.Estudiante),
		materias:    materias,
	}
}

func (m *mockEstudianteRepo) Create(_ context.Context, estudiante *model.Estudiante) error {
	for _, e := range m.estudiantes {
		if e.Cedula == estudiante.Cedula && e.MateriaID == estudiante.MateriaID {
			return gorm.ErrDuplicatedKey
		}
	}
	if estudiante.ID == "" {
		m.seq++
		estudiante.ID = fmt.Sprintf("est-%d", m.seq)
	}
	if estudiante.CreatedAt.IsZero() {
		estudiante.CreatedAt = time.Now()
	}
	m.estudiantes[estudiante.ID] = estudiante
	return nil
}

func (m *mockEstudianteRepo) GetByID(_ context.Context, id string) (*model.Estudiante, error) {
	if e, ok := m.estudiantes[id]; ok {
		copia := *e
		if m.materias != nil {
			if mat, ok := m.materias.materias[e.MateriaID]; ok {
				copia.Materia = mat
			}
		}
		return &copia, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEstudianteRepo) Update(_ context.Context, estudiante *model.Estudiante) error {
	for id, e := range m.estudiantes {
		if id != estudiante.ID && e.Cedula == estudiante.Cedula && e.MateriaID == estudiante.MateriaID {
			return gorm.ErrDuplicatedKey
		}
	}
	m.estudiantes[estudiante.ID] = estudiante
	return nil
}

func (m *mockEstudianteRepo) Delete(_ context.Context, id string) error {
	delete(m.estudiantes, id)
	return nil
}

func (m *mockEstudianteRepo) ListByMateria(_ context.Context, materiaID string) ([]model.Estudiante, error) {
	var result []model.Estudiante
	for _, e := range m.estudiantes {
		if e.MateriaID == materiaID {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].NombreCompleto) < strings.ToLower(result[j].NombreCompleto)
	})
	return result, nil
}

func (m *mockEstudianteRepo) ListByProfesor(_ context.Context, profesorID string) ([]model.Estudiante, error) {
	var result []model.Estudiante
	for _, e := range m.estudiantes {
		if mat, ok := m.materias.materias[e.MateriaID]; ok && mat.ProfesorID == profesorID {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockEstudianteRepo) ListCreatedSince(_ context.Context, since time.Time, limit int) ([]model.Estudiante, error) {
	var result []model.Estudiante
	for _, e := range m.estudiantes {
		if !e.CreatedAt.Before(since) {
			copia := *e
			if mat, ok := m.materias.materias[e.MateriaID]; ok {
				copia.Materia = mat
			}
			result = append(result, copia)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockEstudianteRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.estudiantes)), nil
}

func (m *mockEstudianteRepo) CountByMateria(_ context.Context, materiaID string) (int64, error) {
	var count int64
	for _, e := range m.estudiantes {
		if e.MateriaID == materiaID {
			count++
		}
	}
	return count, nil
}

func (m *mockEstudianteRepo) CountByProfesor(_ context.Context, profesorID string) (int64, error) {
	var count int64
	for _, e := range m.estudiantes {
		if mat, ok := m.materias.materias[e.MateriaID]; ok && mat.ProfesorID == profesorID {
			count++
		}
	}
	return count, nil
}

// ── Mock AsistenciaRepository ──

// mockAsistenciaRepo stores records keyed by (estudiante, materia,
// fecha) so Upsert is naturally idempotent, like the SQL unique index.
type mockAsistenciaRepo struct {
	asistencias map[string]*model.Asistencia
	materias    *mockMateriaRepo
	seq         int
}

func newMockAsistenciaRepo(materias *mockMateriaRepo) *mockAsistenciaRepo {
	return &mockAsistenciaRepo{
		asistencias: make(map[string]*model.Asistencia),
		materias:    materias,
	}
}

func asistenciaKey(a *model.Asistencia) string {
	return a.EstudianteID + "|" + a.MateriaID + "|" + a.Fecha.Format("2006-01-02")
}

func (m *mockAsistenciaRepo) Upsert(_ context.Context, asistencia *model.Asistencia) error {
	key := asistenciaKey(asistencia)
	if existing, ok := m.asistencias[key]; ok {
		existing.Estado = asistencia.Estado
		existing.Observaciones = asistencia.Observaciones
		existing.UpdatedAt = time.Now()
		*asistencia = *existing
		return nil
	}
	m.seq++
	asistencia.ID = fmt.Sprintf("asis-%d", m.seq)
	if asistencia.CreatedAt.IsZero() {
		asistencia.CreatedAt = time.Now()
	}
	copia := *asistencia
	m.asistencias[key] = &copia
	return nil
}

func (m *mockAsistenciaRepo) List(_ context.Context, filters *repository.AsistenciaFilters) ([]model.Asistencia, error) {
	var result []model.Asistencia
	for _, a := range m.asistencias {
		mat, ok := m.materias.materias[a.MateriaID]
		if !ok || mat.ProfesorID != filters.ProfesorID {
			continue
		}
		if filters.MateriaID != "" && a.MateriaID != filters.MateriaID {
			continue
		}
		if filters.Fecha != nil && !a.Fecha.Equal(*filters.Fecha) {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Fecha.After(result[j].Fecha) })
	return result, nil
}

func (m *mockAsistenciaRepo) ListByMateriaRange(_ context.Context, materiaID string, desde, hasta *time.Time) ([]model.Asistencia, error) {
	var result []model.Asistencia
	for _, a := range m.asistencias {
		if a.MateriaID != materiaID {
			continue
		}
		if desde != nil && a.Fecha.Before(*desde) {
			continue
		}
		if hasta != nil && a.Fecha.After(*hasta) {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Fecha.Before(result[j].Fecha) })
	return result, nil
}

func (m *mockAsistenciaRepo) ListCreatedSince(_ context.Context, since time.Time, limit int) ([]model.Asistencia, error) {
	var result []model.Asistencia
	for _, a := range m.asistencias {
		if !a.CreatedAt.Before(since) {
			copia := *a
			if mat, ok := m.materias.materias[a.MateriaID]; ok {
				copia.Materia = mat
			}
			result = append(result, copia)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockAsistenciaRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.asistencias)), nil
}

func (m *mockAsistenciaRepo) CountBetween(_ context.Context, from, to time.Time) (int64, error) {
	var count int64
	for _, a := range m.asistencias {
		if !a.CreatedAt.Before(from) && a.CreatedAt.Before(to) {
			count++
		}
	}
	return count, nil
}

func (m *mockAsistenciaRepo) CountByProfesor(_ context.Context, profesorID string) (int64, error) {
	var count int64
	for _, a := range m.asistencias {
		if mat, ok := m.materias.materias[a.MateriaID]; ok && mat.ProfesorID == profesorID {
			count++
		}
	}
	return count, nil
}

// ── Fixture helpers ──

// newMockRepository wires the four mocks into a repository.Repository
// ready for service construction.
func newMockRepository() (*repository.Repository, *mockUserRepo, *mockMateriaRepo, *mockEstudianteRepo, *mockAsistenciaRepo) {
	users := newMockUserRepo()
	materias := newMockMateriaRepo()
	estudiantes := newMockEstudianteRepo(materias)
	asistencias := newMockAsistenciaRepo(materias)

	repo := &repository.Repository{
		User:       users,
		Materia:    materias,
		Estudiante: estudiantes,
		Asistencia: asistencias,
	}
	return repo, users, materias, estudiantes, asistencias
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
