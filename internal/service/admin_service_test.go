package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ferrosero91/asistencia/config"
	"github.com/ferrosero91/asistencia/internal/dto"
	"github.com/ferrosero91/asistencia/internal/model"
)

func testAdminConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:  "secreto-de-prueba-suficientemente-largo",
			BcryptCost: 4, // rápido para las pruebas
		},
	}
}

func setupTestAdminService(ahora time.Time) (AdminService, *mockUserRepo, *mockMateriaRepo, *mockEstudianteRepo, *mockAsistenciaRepo) {
	repo, users, materias, estudiantes, asistencias := newMockRepository()
	svc := NewAdminService(testAdminConfig(), repo, zap.NewNop())
	svc.(*adminService).now = func() time.Time { return ahora }
	return svc, users, materias, estudiantes, asistencias
}

func crearProfesorDePrueba(t *testing.T, users *mockUserRepo, id, nombre, apellido string, departamento *string, registro time.Time) {
	t.Helper()
	err := users.Create(context.Background(), &model.User{
		ID: id, Nombre: nombre, Apellido: apellido,
		Email:         id + "@aunar.edu.co",
		Departamento:  departamento,
		Role:          model.RoleProfesor,
		Activo:        true,
		FechaRegistro: registro,
	})
	if err != nil {
		t.Fatalf("no se pudo crear el profesor de prueba: %v", err)
	}
}

// ── Stats ──

func TestAdminService_Stats_ResumenGeneral(t *testing.T) {
	ahora := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	svc, users, materias, estudiantes, asistencias := setupTestAdminService(ahora)

	crearProfesorDePrueba(t, users, "prof-1", "Ana", "Gómez", strPtr("Sistemas"), ahora.AddDate(0, -1, 0))
	inactivo := &model.User{
		ID: "prof-2", Nombre: "Luis", Apellido: "Pérez",
		Email: "prof-2@aunar.edu.co", Role: model.RoleProfesor,
		Activo: false, FechaRegistro: ahora.AddDate(0, -2, 0),
	}
	users.Create(context.Background(), inactivo)

	materias.Create(context.Background(), &model.Materia{
		ID: "m1", Nombre: "Redes", Codigo: "RED101", Activa: true, ProfesorID: "prof-1",
	})
	estudiantes.Create(context.Background(), &model.Estudiante{
		Cedula: "1000001", NombreCompleto: "Pedro", Email: "p@mail.com", MateriaID: "m1",
	})
	asistencias.Upsert(context.Background(), &model.Asistencia{
		EstudianteID: "e1", MateriaID: "m1", Fecha: ahora, Estado: model.EstadoPresente,
		Timestamps: model.Timestamps{CreatedAt: ahora},
	})

	result, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats debería funcionar: %v", err)
	}

	r := result.ResumenGeneral
	if r.TotalUsuarios != 2 || r.UsuariosActivos != 1 || r.UsuariosInactivos != 1 {
		t.Errorf("conteos de usuarios inesperados: %+v", r)
	}
	if r.TotalMaterias != 1 || r.MateriasActivas != 1 {
		t.Errorf("conteos de materias inesperados: %+v", r)
	}
	if r.TotalEstudiantes != 1 || r.TotalAsistencias != 1 {
		t.Errorf("conteos de estudiantes/asistencias inesperados: %+v", r)
	}
	if r.AsistenciasHoy != 1 {
		t.Errorf("se esperaba 1 asistencia hoy, se obtuvo %d", r.AsistenciasHoy)
	}
}

func TestRegistrosPorMes_SeisMesesConEtiquetasEnEspanol(t *testing.T) {
	ahora := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

	profesores := []model.User{
		{Role: model.RoleProfesor, FechaRegistro: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{Role: model.RoleProfesor, FechaRegistro: time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)},
		{Role: model.RoleProfesor, FechaRegistro: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)},
		// Fuera de la ventana de seis meses: no cuenta.
		{Role: model.RoleProfesor, FechaRegistro: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)},
	}

	buckets := registrosPorMes(profesores, ahora)

	if len(buckets) != 6 {
		t.Fatalf("se esperaban 6 meses, se obtuvieron %d", len(buckets))
	}
	// Del más antiguo al más reciente.
	if buckets[0].Mes != "octubre de 2025" {
		t.Errorf("primer mes inesperado: %s", buckets[0].Mes)
	}
	if buckets[5].Mes != "marzo de 2026" {
		t.Errorf("último mes inesperado: %s", buckets[5].Mes)
	}
	if buckets[5].Registros != 2 {
		t.Errorf("marzo debería tener 2 registros, tiene %d", buckets[5].Registros)
	}
	if buckets[3].Mes != "enero de 2026" || buckets[3].Registros != 1 {
		t.Errorf("enero inesperado: %+v", buckets[3])
	}
	if buckets[1].Registros != 0 {
		t.Errorf("noviembre debería estar vacío, tiene %d", buckets[1].Registros)
	}
}

func TestAdminService_Stats_TopProfesoresDeterminista(t *testing.T) {
	ahora := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	svc, users, materias, _, asistencias := setupTestAdminService(ahora)

	// Siete profesores activos; prof-7 sin asistencias queda fuera del
	// top 5 y los empates se resuelven por nombre.
	for i, nombre := range []string{"Gloria", "Berta", "Ana", "Diana", "Elena", "Carlos", "Zoe"} {
		id := []string{"prof-1", "prof-2", "prof-3", "prof-4", "prof-5", "prof-6", "prof-7"}[i]
		crearProfesorDePrueba(t, users, id, nombre, "Test", nil, ahora.AddDate(0, -1, 0))
	}
	registros := map[string]int{
		"prof-1": 3, "prof-2": 3, "prof-3": 5, "prof-4": 2, "prof-5": 2, "prof-6": 1,
	}
	dia := 0
	for prof, n := range registros {
		materiaID := "mat-" + prof
		materias.Create(context.Background(), &model.Materia{
			ID: materiaID, Nombre: "Materia " + prof, Codigo: "C-" + prof, Activa: true, ProfesorID: prof,
		})
		for j := 0; j < n; j++ {
			dia++
			asistencias.Upsert(context.Background(), &model.Asistencia{
				EstudianteID: "e1", MateriaID: materiaID,
				Fecha:  time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, dia),
				Estado: model.EstadoPresente,
			})
		}
	}

	result, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats debería funcionar: %v", err)
	}

	top := result.TopProfesores
	if len(top) != 5 {
		t.Fatalf("se esperaban 5 profesores, se obtuvieron %d", len(top))
	}
	if top[0].ID != "prof-3" {
		t.Errorf("prof-3 debería ir primero, se obtuvo %s", top[0].ID)
	}
	// Empate 3-3 entre Berta (prof-2) y Gloria (prof-1): alfabético.
	if top[1].Nombre != "Berta Test" || top[2].Nombre != "Gloria Test" {
		t.Errorf("desempate por nombre incorrecto: %s, %s", top[1].Nombre, top[2].Nombre)
	}
}

func TestAdminService_Stats_Departamentos(t *testing.T) {
	ahora := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	svc, users, materias, estudiantes, _ := setupTestAdminService(ahora)

	crearProfesorDePrueba(t, users, "prof-1", "Ana", "Gómez", strPtr("Sistemas"), ahora.AddDate(0, -1, 0))
	crearProfesorDePrueba(t, users, "prof-2", "Luis", "Pérez", strPtr("Sistemas"), ahora.AddDate(0, -1, 0))
	// Sin departamento: no aparece en el desglose.
	crearProfesorDePrueba(t, users, "prof-3", "Zoe", "Ruiz", nil, ahora.AddDate(0, -1, 0))
	// Inactivo pero con departamento: cuenta en el desglose, no en el
	// ranking.
	users.Create(context.Background(), &model.User{
		ID: "prof-4", Nombre: "Iván", Apellido: "Soto",
		Email:         "prof-4@aunar.edu.co",
		Departamento:  strPtr("Sistemas"),
		Role:          model.RoleProfesor,
		Activo:        false,
		FechaRegistro: ahora.AddDate(0, -1, 0),
	})

	materias.Create(context.Background(), &model.Materia{
		ID: "m1", Nombre: "Redes", Codigo: "RED101", Activa: true, ProfesorID: "prof-1",
	})
	estudiantes.Create(context.Background(), &model.Estudiante{
		Cedula: "1000001", NombreCompleto: "Pedro", Email: "p@mail.com", MateriaID: "m1",
	})

	result, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats debería funcionar: %v", err)
	}

	if len(result.EstadisticasPorDepartamento) != 1 {
		t.Fatalf("se esperaba 1 departamento, se obtuvieron %d", len(result.EstadisticasPorDepartamento))
	}
	d := result.EstadisticasPorDepartamento[0]
	if d.Departamento != "Sistemas" || d.Profesores != 3 || d.Materias != 1 || d.Estudiantes != 1 {
		t.Errorf("desglose inesperado: %+v", d)
	}
	// La suma por departamento iguala el total de profesores con
	// departamento, activos o no.
	for _, p := range result.TopProfesores {
		if p.ID == "prof-4" {
			t.Error("un profesor inactivo no debería aparecer en el ranking")
		}
	}
}

// ── Activity ──

func TestAdminService_Activity_AgrupaYFiltra(t *testing.T) {
	ahora := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	svc, users, materias, _, asistencias := setupTestAdminService(ahora)

	crearProfesorDePrueba(t, users, "prof-1", "Ana", "Gómez", nil, ahora.Add(-2*time.Hour))
	materias.Create(context.Background(), &model.Materia{
		ID: "m1", Nombre: "Redes", Codigo: "RED101", Activa: true, ProfesorID: "prof-1",
		Timestamps: model.Timestamps{CreatedAt: ahora.Add(-1 * time.Hour)},
	})

	// Una sesión de clase: tres marcas, una sola entrada en el feed.
	for _, est := range []string{"e1", "e2", "e3"} {
		asistencias.Upsert(context.Background(), &model.Asistencia{
			EstudianteID: est, MateriaID: "m1",
			Fecha: fecha(t, "2026-03-14"), Estado: model.EstadoPresente,
			Timestamps: model.Timestamps{CreatedAt: ahora.Add(-30 * time.Minute)},
		})
	}

	result, err := svc.Activity(context.Background(), &dto.ActivityFilters{})
	if err != nil {
		t.Fatalf("Activity debería funcionar: %v", err)
	}

	if result.Estadisticas.Usuarios != 1 {
		t.Errorf("se esperaba 1 entrada de usuario, se obtuvieron %d", result.Estadisticas.Usuarios)
	}
	if result.Estadisticas.Materias != 1 {
		t.Errorf("se esperaba 1 entrada de materia, se obtuvieron %d", result.Estadisticas.Materias)
	}
	if result.Estadisticas.Asistencias != 1 {
		t.Errorf("tres marcas de una sesión deberían ser 1 entrada, se obtuvieron %d", result.Estadisticas.Asistencias)
	}
	if result.Estadisticas.Login != 0 || result.Estadisticas.Reportes != 0 {
		t.Errorf("login y reportes deberían ser 0: %+v", result.Estadisticas)
	}

	// Orden descendente por fecha.
	for i := 1; i < len(result.Activities); i++ {
		if result.Activities[i].Fecha.After(result.Activities[i-1].Fecha) {
			t.Fatal("el feed debería estar ordenado del más reciente al más antiguo")
		}
	}

	// Filtro por tipo.
	soloAsistencias, err := svc.Activity(context.Background(), &dto.ActivityFilters{Tipo: dto.ActividadAsistencia})
	if err != nil {
		t.Fatalf("Activity con filtro debería funcionar: %v", err)
	}
	if soloAsistencias.Estadisticas.Total != 1 {
		t.Errorf("el filtro tipo=ASISTENCIA debería dejar 1 entrada, dejó %d", soloAsistencias.Estadisticas.Total)
	}

	// Filtro por usuario (subcadena, sin distinguir mayúsculas).
	porUsuario, err := svc.Activity(context.Background(), &dto.ActivityFilters{Usuario: "ana"})
	if err != nil {
		t.Fatalf("Activity con filtro de usuario debería funcionar: %v", err)
	}
	if porUsuario.Estadisticas.Total == 0 {
		t.Error("el filtro usuario=ana debería encontrar entradas de Ana Gómez")
	}
}

func TestAdminService_Activity_FueraDeVentana(t *testing.T) {
	ahora := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	svc, users, _, _, _ := setupTestAdminService(ahora)

	// Registrado hace diez días: fuera de la ventana de siete.
	crearProfesorDePrueba(t, users, "prof-1", "Ana", "Gómez", nil, ahora.AddDate(0, 0, -10))

	result, err := svc.Activity(context.Background(), &dto.ActivityFilters{})
	if err != nil {
		t.Fatalf("Activity debería funcionar: %v", err)
	}
	if result.Estadisticas.Total != 0 {
		t.Errorf("no debería haber entradas, hay %d", result.Estadisticas.Total)
	}
}

// ── Gestión de cuentas ──

func TestAdminService_CreateUser_Success(t *testing.T) {
	ahora := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	svc, users, _, _, _ := setupTestAdminService(ahora)

	result, err := svc.CreateUser(context.Background(), &dto.CreateAdminUserRequest{
		Nombre: "Ana", Apellido: "Gómez", Email: "ANA@aunar.edu.co", Password: "secreta1",
	})
	if err != nil {
		t.Fatalf("CreateUser debería funcionar: %v", err)
	}
	if result.Email != "ana@aunar.edu.co" {
		t.Errorf("el email debería normalizarse a minúsculas, se obtuvo %s", result.Email)
	}
	if result.Role != model.RoleProfesor {
		t.Errorf("el rol debería ser PROFESOR, se obtuvo %s", result.Role)
	}

	guardado, err := users.GetByEmail(context.Background(), "ana@aunar.edu.co")
	if err != nil {
		t.Fatalf("el usuario debería existir: %v", err)
	}
	if guardado.PasswordHash == "secreta1" || guardado.PasswordHash == "" {
		t.Error("la contraseña debería almacenarse hasheada")
	}
}

func TestAdminService_CreateUser_EmailDuplicado(t *testing.T) {
	ahora := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	svc, _, _, _, _ := setupTestAdminService(ahora)

	req := &dto.CreateAdminUserRequest{
		Nombre: "Ana", Apellido: "Gómez", Email: "ana@aunar.edu.co", Password: "secreta1",
	}
	if _, err := svc.CreateUser(context.Background(), req); err != nil {
		t.Fatalf("la primera creación debería funcionar: %v", err)
	}
	_, err := svc.CreateUser(context.Background(), req)
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("se esperaba ErrEmailExists, se obtuvo: %v", err)
	}
}

func TestAdminService_UpdateUser_NoTocaSuperAdmin(t *testing.T) {
	ahora := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	svc, users, _, _, _ := setupTestAdminService(ahora)

	users.Create(context.Background(), &model.User{
		ID: "admin-2", Nombre: "Root", Apellido: "Dos", Email: "root2@aunar.edu.co",
		Role: model.RoleSuperAdmin, Activo: true,
	})

	activo := false
	_, err := svc.UpdateUser(context.Background(), "admin-2", &dto.UpdateAdminUserRequest{Activo: &activo})
	if !errors.Is(err, ErrSuperAdminEdit) {
		t.Errorf("se esperaba ErrSuperAdminEdit, se obtuvo: %v", err)
	}
}

func TestAdminService_UpdateUser_Desactivar(t *testing.T) {
	ahora := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	svc, _, _, _, _ := setupTestAdminService(ahora)

	creado, err := svc.CreateUser(context.Background(), &dto.CreateAdminUserRequest{
		Nombre: "Ana", Apellido: "Gómez", Email: "ana@aunar.edu.co", Password: "secreta1",
	})
	if err != nil {
		t.Fatalf("CreateUser debería funcionar: %v", err)
	}

	result, err := svc.UpdateUser(context.Background(), creado.ID, &dto.UpdateAdminUserRequest{Activo: boolPtr(false)})
	if err != nil {
		t.Fatalf("UpdateUser debería funcionar: %v", err)
	}
	if result.Activo {
		t.Error("la cuenta debería quedar desactivada")
	}
}

func TestAdminService_DeleteUser_Reglas(t *testing.T) {
	ahora := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	svc, users, _, _, _ := setupTestAdminService(ahora)

	users.Create(context.Background(), &model.User{
		ID: "admin-1", Nombre: "Root", Apellido: "Uno", Email: "root@aunar.edu.co",
		Role: model.RoleSuperAdmin, Activo: true,
	})
	users.Create(context.Background(), &model.User{
		ID: "admin-2", Nombre: "Root", Apellido: "Dos", Email: "root2@aunar.edu.co",
		Role: model.RoleSuperAdmin, Activo: true,
	})
	crearProfesorDePrueba(t, users, "prof-1", "Ana", "Gómez", nil, ahora)

	if err := svc.DeleteUser(context.Background(), "admin-1", "admin-1"); !errors.Is(err, ErrSelfDelete) {
		t.Errorf("se esperaba ErrSelfDelete, se obtuvo: %v", err)
	}
	if err := svc.DeleteUser(context.Background(), "admin-1", "admin-2"); !errors.Is(err, ErrSuperAdminDelete) {
		t.Errorf("se esperaba ErrSuperAdminDelete, se obtuvo: %v", err)
	}
	if err := svc.DeleteUser(context.Background(), "admin-1", "prof-1"); err != nil {
		t.Errorf("eliminar un profesor debería funcionar: %v", err)
	}
	if err := svc.DeleteUser(context.Background(), "admin-1", "prof-1"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("se esperaba ErrUserNotFound, se obtuvo: %v", err)
	}
}
