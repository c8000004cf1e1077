package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ferrosero91/asistencia/internal/dto"
	"github.com/ferrosero91/asistencia/internal/model"
	"github.com/ferrosero91/asistencia/internal/repository"
)

// Classification thresholds over the attendance percentage.
const (
	umbralExcelente = 80.0
	umbralRegular   = 60.0
)

// ReporteService builds per-course attendance reports and their export
// formats. All aggregation happens server-side over the stored marks.
type ReporteService interface {
	ReporteMateria(ctx context.Context, profesorID, materiaID, desde, hasta string) (*dto.ReporteMateriaResponse, error)
	ExportCSV(ctx context.Context, profesorID, materiaID, desde, hasta string) ([]byte, string, error)
	ExportExcel(ctx context.Context, profesorID, materiaID, desde, hasta string) ([]byte, string, error)
	CalendarioICS(ctx context.Context, profesorID, materiaID string) (string, string, error)
}

type reporteService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReporteService creates the ReporteService.
func NewReporteService(repo *repository.Repository, logger *zap.Logger) ReporteService {
	return &reporteService{repo: repo, logger: logger}
}

func (s *reporteService) ReporteMateria(ctx context.Context, profesorID, materiaID, desde, hasta string) (*dto.ReporteMateriaResponse, error) {
	materia, err := s.ownedMateria(ctx, profesorID, materiaID)
	if err != nil {
		return nil, err
	}

	rango, err := parseRango(desde, hasta)
	if err != nil {
		return nil, err
	}

	estudiantes, err := s.repo.Estudiante.ListByMateria(ctx, materiaID)
	if err != nil {
		s.logger.Error("error al listar estudiantes para el reporte", zap.Error(err))
		return nil, err
	}
	asistencias, err := s.repo.Asistencia.ListByMateriaRange(ctx, materiaID, rango.desde, rango.hasta)
	if err != nil {
		s.logger.Error("error al listar asistencias para el reporte", zap.Error(err))
		return nil, err
	}

	reportes, resumen := buildReporte(estudiantes, asistencias)

	resp := &dto.ReporteMateriaResponse{
		Materia:     toMateriaResponse(materia, int64(len(estudiantes))),
		Desde:       desde,
		Hasta:       hasta,
		Estudiantes: reportes,
		Resumen:     resumen,
	}
	return resp, nil
}

func (s *reporteService) ExportCSV(ctx context.Context, profesorID, materiaID, desde, hasta string) ([]byte, string, error) {
	reporte, err := s.ReporteMateria(ctx, profesorID, materiaID, desde, hasta)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Cédula", "Nombre", "Email", "Total Clases", "Presentes", "Ausentes", "Justificados", "% Asistencia"})
	for _, e := range reporte.Estudiantes {
		_ = w.Write([]string{
			e.Estudiante.Cedula,
			e.Estudiante.NombreCompleto,
			e.Estudiante.Email,
			strconv.Itoa(e.TotalClases),
			strconv.Itoa(e.Presentes),
			strconv.Itoa(e.Ausentes),
			strconv.Itoa(e.Justificados),
			fmt.Sprintf("%.2f", e.PorcentajeAsistencia),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), exportFilename(reporte.Materia.Codigo, "csv"), nil
}

func (s *reporteService) ExportExcel(ctx context.Context, profesorID, materiaID, desde, hasta string) ([]byte, string, error) {
	reporte, err := s.ReporteMateria(ctx, profesorID, materiaID, desde, hasta)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Reporte"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Cédula", "Nombre", "Email", "Total Clases", "Presentes", "Ausentes", "Justificados", "% Asistencia", "Clasificación"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for row, e := range reporte.Estudiantes {
		values := []interface{}{
			e.Estudiante.Cedula,
			e.Estudiante.NombreCompleto,
			e.Estudiante.Email,
			e.TotalClases,
			e.Presentes,
			e.Ausentes,
			e.Justificados,
			math.Round(e.PorcentajeAsistencia*100) / 100,
			e.Clasificacion,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("error al generar el archivo Excel", zap.Error(err))
		return nil, "", err
	}
	return buf.Bytes(), exportFilename(reporte.Materia.Codigo, "xlsx"), nil
}

// CalendarioICS exports the course's class dates as all-day events, one
// per distinct date with at least one attendance record.
func (s *reporteService) CalendarioICS(ctx context.Context, profesorID, materiaID string) (string, string, error) {
	materia, err := s.ownedMateria(ctx, profesorID, materiaID)
	if err != nil {
		return "", "", err
	}

	asistencias, err := s.repo.Asistencia.ListByMateriaRange(ctx, materiaID, nil, nil)
	if err != nil {
		s.logger.Error("error al listar asistencias para el calendario", zap.Error(err))
		return "", "", err
	}

	fechas := distinctFechas(asistencias)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//AUNAR//Sistema de Asistencia//ES")
	cal.SetCalscale("GREGORIAN")
	for _, fecha := range fechas {
		event := cal.AddEvent(fmt.Sprintf("%s-%s@asistencia.aunar.edu.co", materia.ID, fecha.Format(fechaLayout)))
		event.SetSummary(fmt.Sprintf("Clase de %s (%s)", materia.Nombre, materia.Codigo))
		event.SetAllDayStartAt(fecha)
		event.SetAllDayEndAt(fecha.AddDate(0, 0, 1))
		event.SetDtStampTime(time.Now().UTC())
	}

	return cal.Serialize(), exportFilename(materia.Codigo, "ics"), nil
}

// buildReporte aggregates raw attendance rows into per-student rows and
// a course summary. The class count is the number of distinct dates in
// the range; a student with no marks scores 0%, never NaN.
func buildReporte(estudiantes []model.Estudiante, asistencias []model.Asistencia) ([]dto.EstudianteReporte, dto.ReporteResumen) {
	totalClases := len(distinctFechas(asistencias))

	type conteo struct {
		presentes, ausentes, justificados int
	}
	porEstudiante := make(map[string]*conteo)
	for i := range asistencias {
		a := &asistencias[i]
		c := porEstudiante[a.EstudianteID]
		if c == nil {
			c = &conteo{}
			porEstudiante[a.EstudianteID] = c
		}
		switch a.Estado {
		case model.EstadoPresente:
			c.presentes++
		case model.EstadoAusente:
			c.ausentes++
		case model.EstadoJustificado:
			c.justificados++
		}
	}

	reportes := make([]dto.EstudianteReporte, 0, len(estudiantes))
	var sumaPorcentajes float64
	resumen := dto.ReporteResumen{
		TotalEstudiantes: len(estudiantes),
		TotalClases:      totalClases,
	}
	for i := range estudiantes {
		e := &estudiantes[i]
		c := porEstudiante[e.ID]
		if c == nil {
			c = &conteo{}
		}

		porcentaje := 0.0
		if totalClases > 0 {
			porcentaje = float64(c.presentes) / float64(totalClases) * 100
		}
		porcentaje = math.Round(porcentaje*100) / 100

		clasificacion := clasificar(porcentaje)
		switch clasificacion {
		case "Excelente":
			resumen.Excelentes++
		case "Regular":
			resumen.Regulares++
		default:
			resumen.Deficientes++
		}
		sumaPorcentajes += porcentaje

		reportes = append(reportes, dto.EstudianteReporte{
			Estudiante:           toEstudianteResponse(e),
			TotalClases:          totalClases,
			Presentes:            c.presentes,
			Ausentes:             c.ausentes,
			Justificados:         c.justificados,
			PorcentajeAsistencia: porcentaje,
			Clasificacion:        clasificacion,
		})
	}

	if len(reportes) > 0 {
		resumen.PromedioAsistencia = math.Round(sumaPorcentajes/float64(len(reportes))*100) / 100
	}

	// Worst-attendance-last ordering, cedula breaks ties so the output
	// is stable across requests.
	sort.SliceStable(reportes, func(i, j int) bool {
		if reportes[i].PorcentajeAsistencia != reportes[j].PorcentajeAsistencia {
			return reportes[i].PorcentajeAsistencia > reportes[j].PorcentajeAsistencia
		}
		return reportes[i].Estudiante.Cedula < reportes[j].Estudiante.Cedula
	})

	return reportes, resumen
}

func clasificar(porcentaje float64) string {
	switch {
	case porcentaje >= umbralExcelente:
		return "Excelente"
	case porcentaje >= umbralRegular:
		return "Regular"
	default:
		return "Deficiente"
	}
}

func distinctFechas(asistencias []model.Asistencia) []time.Time {
	seen := make(map[string]time.Time)
	for i := range asistencias {
		key := asistencias[i].Fecha.Format(fechaLayout)
		if _, ok := seen[key]; !ok {
			seen[key] = asistencias[i].Fecha
		}
	}
	fechas := make([]time.Time, 0, len(seen))
	for _, f := range seen {
		fechas = append(fechas, f)
	}
	sort.Slice(fechas, func(i, j int) bool { return fechas[i].Before(fechas[j]) })
	return fechas
}

type rangoFechas struct {
	desde, hasta *time.Time
}

func parseRango(desde, hasta string) (rangoFechas, error) {
	var r rangoFechas
	if desde != "" {
		d, err := time.Parse(fechaLayout, desde)
		if err != nil {
			return r, &ValidationError{Message: "desde inválido, se espera el formato YYYY-MM-DD"}
		}
		r.desde = &d
	}
	if hasta != "" {
		h, err := time.Parse(fechaLayout, hasta)
		if err != nil {
			return r, &ValidationError{Message: "hasta inválido, se espera el formato YYYY-MM-DD"}
		}
		r.hasta = &h
	}
	return r, nil
}

func exportFilename(codigo, ext string) string {
	return fmt.Sprintf("reporte_%s_%s.%s", codigo, time.Now().Format(fechaLayout), ext)
}

func (s *reporteService) ownedMateria(ctx context.Context, profesorID, materiaID string) (*model.Materia, error) {
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
