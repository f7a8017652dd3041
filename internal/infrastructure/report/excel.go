package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Consola-api/internal/application/dto"
)

// usageHeader encabezados de la hoja de uso.
var usageHeader = []string{
	"Rank",
	"Organización",
	"Estado del plan",
	"Tareas totales",
	"Tareas completadas",
	"% Avance",
	"Usuarios",
	"Tickets pendientes",
	"Tickets resueltos",
}

// ExcelExporter genera el reporte de uso en XLSX.
type ExcelExporter struct{}

// NewExcelExporter construye el generador.
func NewExcelExporter() *ExcelExporter { return &ExcelExporter{} }

// Export genera el archivo y devuelve sus bytes.
func (g *ExcelExporter) Export(report *dto.UsageReportDTO, title string) ([]byte, error) {
	f := excelize.NewFile()

	const sheet = "Uso por organización"
	index, err := f.NewSheet(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("xlsx: crear hoja: %w", err)
	}
	_ = f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("xlsx: estilo de encabezado: %w", err)
	}

	for i, h := range usageHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for rowIdx, item := range report.Items {
		values := []any{
			item.Rank,
			item.CompanyName,
			item.PlanStatus,
			item.TotalTasks,
			item.CompletedTasks,
			item.CompletionPercent,
			item.TotalUsers,
			item.PendingTickets,
			item.ResolvedTickets,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	// Fila resumen al pie, separada por una fila vacía.
	base := len(report.Items) + 3
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", base), title)
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", base),
		fmt.Sprintf("%d organizaciones · %d usuarios · MRR %s",
			report.Summary.TenantCount, report.Summary.TotalUsers, report.Summary.TotalMRR.StringFixed(2)))
	if report.Skipped > 0 {
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", base+1),
			fmt.Sprintf("%d organizaciones excluidas por fallos de consulta", report.Skipped))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("xlsx: escribir archivo: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("xlsx: cerrar archivo: %w", err)
	}
	return buf.Bytes(), nil
}
