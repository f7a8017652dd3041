package repository

import "context"

// TaskCounts totales de tareas de un tenant.
type TaskCounts struct {
	Total     int
	Completed int
}

// TicketCounts totales de tickets de soporte de un tenant.
type TicketCounts struct {
	Pending  int
	Resolved int
}

// StatsRepository define las consultas read-only sobre los colaboradores de
// tareas y tickets, agregadas por tenant. Las implementaciones nunca
// modifican datos.
type StatsRepository interface {
	GetTaskCounts(ctx context.Context, tenantID string) (TaskCounts, error)
	GetTicketCounts(ctx context.Context, tenantID string) (TicketCounts, error)
}
