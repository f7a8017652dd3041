package dto

import "github.com/shopspring/decimal"

// TenantUsageDTO fila del reporte de uso por organización.
// Derivado por consulta; nunca se persiste.
type TenantUsageDTO struct {
	Rank              int    `json:"rank"` // denso: empates comparten número, sin huecos
	TenantID          string `json:"tenant_id"`
	CompanyName       string `json:"company_name"`
	PlanStatus        string `json:"plan_status"`
	TotalTasks        int    `json:"total_tasks"`
	CompletedTasks    int    `json:"completed_tasks"`
	CompletionPercent int    `json:"completion_percent"`
	TotalUsers        int    `json:"total_users"`
	PendingTickets    int    `json:"pending_tickets"`
	ResolvedTickets   int    `json:"resolved_tickets"`
}

// UsageSummaryDTO totales del reporte.
type UsageSummaryDTO struct {
	TenantCount int             `json:"tenant_count"`
	TotalUsers  int             `json:"total_users"`
	TotalMRR    decimal.Decimal `json:"total_mrr"` // suma mensual de planes subscribed_active
}

// UsageReportDTO reporte de uso cross-tenant, rankeado por tareas totales.
// Skipped cuenta los tenants excluidos por fallos al calcular sus métricas.
type UsageReportDTO struct {
	Items   []TenantUsageDTO `json:"items"`
	Summary UsageSummaryDTO  `json:"summary"`
	Skipped int              `json:"skipped"`
}
