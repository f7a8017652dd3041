// Package report exporta el reporte de uso cross-tenant a PDF y Excel para
// descarga desde la consola.
package report

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Consola-api/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// PDFExporter genera el reporte de uso en PDF usando Maroto v2.
type PDFExporter struct{}

// NewPDFExporter construye el generador.
func NewPDFExporter() *PDFExporter { return &PDFExporter{} }

// Export genera el PDF y devuelve sus bytes.
func (g *PDFExporter) Export(report *dto.UsageReportDTO, title string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de uso por organización", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(title, report.Summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, item := range report.Items {
		m.AddRows(tableRow(item))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título del reporte (izq) y totales (der).
func headerRow(title string, s dto.UsageSummaryDTO) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("Reporte de uso por organización", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(title, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("%d organizaciones · %d usuarios", s.TenantCount, s.TotalUsers), props.Text{
				Size: 9, Align: align.Right, Top: 3, Color: colorGray,
			}),
			text.New("MRR: "+s.TotalMRR.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 9,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary}
	headerRight := props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Align: align.Right}
	return row.New(7).Add(
		col.New(1).Add(text.New("#", header)),
		col.New(3).Add(text.New("Organización", header)),
		col.New(2).Add(text.New("Plan", header)),
		col.New(2).Add(text.New("Tareas (compl.)", headerRight)),
		col.New(1).Add(text.New("% Avance", headerRight)),
		col.New(1).Add(text.New("Usuarios", headerRight)),
		col.New(2).Add(text.New("Tickets (pend/res)", headerRight)),
	)
}

func tableRow(item dto.TenantUsageDTO) core.Row {
	cell := props.Text{Size: 8}
	cellRight := props.Text{Size: 8, Align: align.Right}
	return row.New(6).Add(
		col.New(1).Add(text.New(fmt.Sprintf("%d", item.Rank), cell)),
		col.New(3).Add(text.New(item.CompanyName, cell)),
		col.New(2).Add(text.New(item.PlanStatus, props.Text{Size: 7, Color: colorGray})),
		col.New(2).Add(text.New(fmt.Sprintf("%d (%d)", item.TotalTasks, item.CompletedTasks), cellRight)),
		col.New(1).Add(text.New(fmt.Sprintf("%d%%", item.CompletionPercent), cellRight)),
		col.New(1).Add(text.New(fmt.Sprintf("%d", item.TotalUsers), cellRight)),
		col.New(2).Add(text.New(fmt.Sprintf("%d / %d", item.PendingTickets, item.ResolvedTickets), cellRight)),
	)
}

func footerRow(report *dto.UsageReportDTO) core.Row {
	note := fmt.Sprintf("%d filas", len(report.Items))
	if report.Skipped > 0 {
		note += fmt.Sprintf(" · %d organizaciones excluidas por fallos de consulta", report.Skipped)
	}
	return row.New(6).Add(
		col.New(12).Add(text.New(note, props.Text{Size: 7, Color: colorGray})),
	)
}
