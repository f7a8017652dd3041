package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Consola-api/internal/application/dto"
	"github.com/jhoicas/Consola-api/internal/application/reporting"
	"github.com/jhoicas/Consola-api/internal/infrastructure/report"
)

// ReportHandler maneja el reporte de uso cross-tenant y sus exportaciones.
type ReportHandler struct {
	uc    *reporting.UsageUseCase
	pdf   *report.PDFExporter
	excel *report.ExcelExporter
}

// NewReportHandler construye el handler inyectando el agregador y los exportadores.
func NewReportHandler(uc *reporting.UsageUseCase, pdf *report.PDFExporter, excel *report.ExcelExporter) *ReportHandler {
	return &ReportHandler{uc: uc, pdf: pdf, excel: excel}
}

// Usage godoc
// @Summary      Reporte de uso rankeado por tareas totales
// @Tags         reports
// @Produce      json
// @Param        status  query  string  false  "all|active|trial|trial_expired|expired"  default(all)
// @Param        range   query  string  false  "today|yesterday|this_week|last_week|this_month|last_month|this_year|all|custom"  default(all)
// @Param        from    query  string  false  "YYYY-MM-DD (solo range=custom)"
// @Param        to      query  string  false  "YYYY-MM-DD (solo range=custom)"
// @Success      200     {object}  dto.UsageReportDTO
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/reports/usage [get]
func (h *ReportHandler) Usage(c *fiber.Ctx) error {
	filters, err := parseFilters(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.TenantUsage(c.Context(), filters)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar el reporte de uso (PDF o Excel)
// @Tags         reports
// @Produce      application/octet-stream
// @Param        format  query  string  true   "pdf|xlsx"
// @Param        status  query  string  false  "Filtro de estado"
// @Param        range   query  string  false  "Rango de fechas"
// @Success      200     {file}  file
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/reports/usage/export [get]
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	filters, err := parseFilters(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.TenantUsage(c.Context(), filters)
	if err != nil {
		return domainError(c, err)
	}

	title := fmt.Sprintf("Filtro: %s · Rango: %s · %s",
		filters.Status, rangeLabel(filters.Range), time.Now().Format("2006-01-02"))

	switch c.Query("format", "pdf") {
	case "pdf":
		data, err := h.pdf.Export(out, title)
		if err != nil {
			return domainError(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="uso-organizaciones.pdf"`)
		return c.Send(data)
	case "xlsx":
		data, err := h.excel.Export(out, title)
		if err != nil {
			return domainError(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="uso-organizaciones.xlsx"`)
		return c.Send(data)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "format debe ser pdf o xlsx"})
	}
}

// parseFilters extrae status/rango/fechas del query string.
func parseFilters(c *fiber.Ctx) (reporting.Filters, error) {
	f := reporting.Filters{
		Status: reporting.StatusFilter(c.Query("status", string(reporting.StatusAll))),
		Range:  reporting.RangeFilter(c.Query("range", string(reporting.RangeAll))),
	}
	if f.Range == reporting.RangeCustom {
		from, err := time.Parse("2006-01-02", c.Query("from"))
		if err != nil {
			return f, errors.New("from inválido, formato YYYY-MM-DD")
		}
		to, err := time.Parse("2006-01-02", c.Query("to"))
		if err != nil {
			return f, errors.New("to inválido, formato YYYY-MM-DD")
		}
		f.From, f.To = from, to
	}
	return f, nil
}

func rangeLabel(r reporting.RangeFilter) string {
	if r == "" {
		return string(reporting.RangeAll)
	}
	return string(r)
}
