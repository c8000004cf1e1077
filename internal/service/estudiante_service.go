package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ferrosero91/asistencia/internal/dto"
	"github.com/ferrosero91/asistencia/internal/model"
	"github.com/ferrosero91/asistencia/internal/repository"
)

const maxImportRows = 1000

var (
	ErrEstudianteNotFound = errors.New("Estudiante no encontrado")
	ErrCedulaExists       = errors.New("Ya existe un estudiante con esta cédula en la materia seleccionada")
	ErrImportNoData       = errors.New("El archivo no tiene filas de datos")
	ErrImportTooManyRows  = fmt.Errorf("El archivo supera el máximo de %d filas", maxImportRows)
)

// RosterRow is one parsed roster line before validation.
type RosterRow struct {
	Fila           int
	Cedula         string
	NombreCompleto string
	Email          string
}

// EstudianteService handles students: CRUD and roster bulk loads. The
// roster rules: cedula non-empty with at least 6 characters, non-empty
// full name, email containing "@". Invalid rows are reported and
// excluded; duplicate (cedula, materia) pairs are skipped.
type EstudianteService interface {
	List(ctx context.Context, profesorID, materiaID string) ([]dto.EstudianteResponse, error)
	Create(ctx context.Context, profesorID string, data *dto.EstudianteData) (*dto.EstudianteResponse, error)
	BulkCreate(ctx context.Context, profesorID string, rows []dto.EstudianteData) (*dto.ImportEstudiantesResponse, error)
	ParseRosterFile(reader io.Reader, filename string) ([]RosterRow, error)
	Import(ctx context.Context, profesorID, materiaID string, rows []RosterRow) (*dto.ImportEstudiantesResponse, error)
	Update(ctx context.Context, profesorID, estudianteID string, req *dto.UpdateEstudianteRequest) (*dto.EstudianteResponse, error)
	Delete(ctx context.Context, profesorID, estudianteID string) error
}

type estudianteService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEstudianteService creates the EstudianteService.
func NewEstudianteService(repo *repository.Repository, logger *zap.Logger) EstudianteService {
	return &estudianteService{repo: repo, logger: logger}
}

func (s *estudianteService) List(ctx context.Context, profesorID, materiaID string) ([]dto.EstudianteResponse, error) {
	var (
		estudiantes []model.Estudiante
		err         error
	)
	if materiaID != "" {
		if _, err := s.ownedMateria(ctx, profesorID, materiaID); err != nil {
			return nil, err
		}
		estudiantes, err = s.repo.Estudiante.ListByMateria(ctx, materiaID)
	} else {
		estudiantes, err = s.repo.Estudiante.ListByProfesor(ctx, profesorID)
	}
	if err != nil {
		s.logger.Error("error al listar estudiantes", zap.Error(err))
		return nil, err
	}

	result := make([]dto.EstudianteResponse, 0, len(estudiantes))
	for i := range estudiantes {
		result = append(result, toEstudianteResponse(&estudiantes[i]))
	}
	return result, nil
}

func (s *estudianteService) Create(ctx context.Context, profesorID string, data *dto.EstudianteData) (*dto.EstudianteResponse, error) {
	if motivo := validateRosterFields(data.Cedula, data.NombreCompleto, data.Email); motivo != "" {
		return nil, &ValidationError{Message: motivo}
	}
	if data.MateriaID == "" {
		return nil, &ValidationError{Message: "cedula, nombreCompleto, email y materiaId son requeridos"}
	}
	if _, err := s.ownedMateria(ctx, profesorID, data.MateriaID); err != nil {
		return nil, err
	}

	estudiante := &model.Estudiante{
		Cedula:         strings.TrimSpace(data.Cedula),
		NombreCompleto: strings.TrimSpace(data.NombreCompleto),
		Email:          strings.TrimSpace(data.Email),
		MateriaID:      data.MateriaID,
	}

	if err := s.repo.Estudiante.Create(ctx, estudiante); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCedulaExists
		}
		s.logger.Error("error al crear el estudiante", zap.Error(err))
		return nil, err
	}

	resp := toEstudianteResponse(estudiante)
	return &resp, nil
}

func (s *estudianteService) BulkCreate(ctx context.Context, profesorID string, rows []dto.EstudianteData) (*dto.ImportEstudiantesResponse, error) {
	if len(rows) == 0 {
		return nil, &ValidationError{Message: "Se requiere un array de estudiantes"}
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}

	// Every distinct materia in the batch must belong to the caller.
	checked := make(map[string]bool)
	for _, row := range rows {
		if row.MateriaID == "" {
			return nil, &ValidationError{Message: "Todos los estudiantes deben tener cedula, nombreCompleto, email y materiaId"}
		}
		if checked[row.MateriaID] {
			continue
		}
		if _, err := s.ownedMateria(ctx, profesorID, row.MateriaID); err != nil {
			return nil, err
		}
		checked[row.MateriaID] = true
	}

	result := &dto.ImportEstudiantesResponse{Total: len(rows)}
	for i, row := range rows {
		if motivo := validateRosterFields(row.Cedula, row.NombreCompleto, row.Email); motivo != "" {
			result.Errores = append(result.Errores, dto.ImportRowError{Fila: i + 1, Motivo: motivo})
			continue
		}

		estudiante := &model.Estudiante{
			Cedula:         strings.TrimSpace(row.Cedula),
			NombreCompleto: strings.TrimSpace(row.NombreCompleto),
			Email:          strings.TrimSpace(row.Email),
			MateriaID:      row.MateriaID,
		}
		if err := s.repo.Estudiante.Create(ctx, estudiante); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				result.Omitidos++ // duplicate in this materia: skip, not fail
				continue
			}
			s.logger.Error("error al crear el estudiante", zap.Error(err))
			return nil, err
		}
		result.Creados++
	}

	result.Message = fmt.Sprintf("%d estudiantes creados exitosamente", result.Creados)
	return result, nil
}

// ParseRosterFile reads a roster from CSV or Excel, keyed on the file
// extension. The expected columns are cedula, nombre completo, email;
// a header row is detected and skipped.
func (s *estudianteService) ParseRosterFile(reader io.Reader, filename string) ([]RosterRow, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		return parseRosterExcel(reader)
	}
	return parseRosterCSV(reader)
}

func (s *estudianteService) Import(ctx context.Context, profesorID, materiaID string, rows []RosterRow) (*dto.ImportEstudiantesResponse, error) {
	data := make([]dto.EstudianteData, 0, len(rows))
	for _, row := range rows {
		data = append(data, dto.EstudianteData{
			Cedula:         row.Cedula,
			NombreCompleto: row.NombreCompleto,
			Email:          row.Email,
			MateriaID:      materiaID,
		})
	}
	result, err := s.BulkCreate(ctx, profesorID, data)
	if err != nil {
		return nil, err
	}
	// Report the original file line numbers instead of batch indexes.
	for i := range result.Errores {
		result.Errores[i].Fila = rows[result.Errores[i].Fila-1].Fila
	}
	return result, nil
}

func (s *estudianteService) Update(ctx context.Context, profesorID, estudianteID string, req *dto.UpdateEstudianteRequest) (*dto.EstudianteResponse, error) {
	estudiante, err := s.ownedEstudiante(ctx, profesorID, estudianteID)
	if err != nil {
		return nil, err
	}

	if req.Cedula != nil {
		estudiante.Cedula = *req.Cedula
	}
	if req.NombreCompleto != nil {
		estudiante.NombreCompleto = *req.NombreCompleto
	}
	if req.Email != nil {
		estudiante.Email = *req.Email
	}
	if motivo := validateRosterFields(estudiante.Cedula, estudiante.NombreCompleto, estudiante.Email); motivo != "" {
		return nil, &ValidationError{Message: motivo}
	}

	if err := s.repo.Estudiante.Update(ctx, estudiante); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCedulaExists
		}
		s.logger.Error("error al actualizar el estudiante", zap.Error(err))
		return nil, err
	}

	resp := toEstudianteResponse(estudiante)
	return &resp, nil
}

func (s *estudianteService) Delete(ctx context.Context, profesorID, estudianteID string) error {
	if _, err := s.ownedEstudiante(ctx, profesorID, estudianteID); err != nil {
		return err
	}
	if err := s.repo.Estudiante.Delete(ctx, estudianteID); err != nil {
		s.logger.Error("error al eliminar el estudiante", zap.Error(err))
		return err
	}
	return nil
}

// ── helpers ──

func (s *estudianteService) ownedMateria(ctx context.Context, profesorID, materiaID string) (*model.Materia, error) {
	materia, err := s.repo.Materia.GetByID(ctx, materiaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMateriaNotFound
		}
		return nil, err
	}
	if materia.ProfesorID != profesorID {
		return nil, ErrNoPermission
	}
	return materia, nil
}

func (s *estudianteService) ownedEstudiante(ctx context.Context, profesorID, estudianteID string) (*model.Estudiante, error) {
	estudiante, err := s.repo.Estudiante.GetByID(ctx, estudianteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEstudianteNotFound
		}
		return nil, err
	}
	if estudiante.Materia == nil || estudiante.Materia.ProfesorID != profesorID {
		return nil, ErrNoPermission
	}
	return estudiante, nil
}

// validateRosterFields applies the roster row rules and returns a
// reason when the row is invalid, or "" when it passes.
func validateRosterFields(cedula, nombreCompleto, email string) string {
	cedula = strings.TrimSpace(cedula)
	nombreCompleto = strings.TrimSpace(nombreCompleto)
	email = strings.TrimSpace(email)

	switch {
	case cedula == "":
		return "la cédula es requerida"
	case len(cedula) < 6:
		return "la cédula debe tener al menos 6 caracteres"
	case nombreCompleto == "":
		return "el nombre completo es requerido"
	case email == "" || !strings.Contains(email, "@"):
		return "el email no es válido"
	}
	return ""
}

func parseRosterCSV(reader io.Reader) ([]RosterRow, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows []RosterRow
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error al leer el archivo CSV: %w", err)
		}
		line++
		row := rosterRowFromRecord(line, record)
		if row == nil {
			continue
		}
		rows = append(rows, *row)
	}
	return finishRoster(rows)
}

func parseRosterExcel(reader io.Reader) ([]RosterRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("error al leer el archivo Excel: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	records, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("error al leer la hoja de cálculo: %w", err)
	}

	var rows []RosterRow
	for i, record := range records {
		row := rosterRowFromRecord(i+1, record)
		if row == nil {
			continue
		}
		rows = append(rows, *row)
	}
	return finishRoster(rows)
}

// rosterRowFromRecord maps one raw record onto a roster row, skipping
// blank lines and the header line.
func rosterRowFromRecord(line int, record []string) *RosterRow {
	get := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}
	row := RosterRow{
		Fila:           line,
		Cedula:         get(0),
		NombreCompleto: get(1),
		Email:          get(2),
	}
	if row.Cedula == "" && row.NombreCompleto == "" && row.Email == "" {
		return nil
	}
	if strings.EqualFold(row.Cedula, "cedula") || strings.EqualFold(row.Cedula, "cédula") {
		return nil
	}
	return &row
}

func finishRoster(rows []RosterRow) ([]RosterRow, error) {
	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	return rows, nil
}

func toEstudianteResponse(e *model.Estudiante) dto.EstudianteResponse {
	resp := dto.EstudianteResponse{
		ID:             e.ID,
		Cedula:         e.Cedula,
		NombreCompleto: e.NombreCompleto,
		Email:          e.Email,
		MateriaID:      e.MateriaID,
		CreatedAt:      e.CreatedAt,
	}
	if e.Materia != nil {
		m := toMateriaResponse(e.Materia, 0)
		resp.Materia = &m
	}
	return resp
}
