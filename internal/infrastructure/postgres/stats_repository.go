package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Consola-api/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo consultas read-only sobre las tablas de los colaboradores de
// tareas y tickets, agregadas por tenant. Nunca modifica datos.
type StatsRepo struct {
	q Querier
}

// NewStatsRepository construye el adaptador de estadísticas.
func NewStatsRepository(q Querier) *StatsRepo {
	return &StatsRepo{q: q}
}

// GetTaskCounts devuelve el total de tareas y las completadas del tenant.
// COALESCE garantiza ceros cuando el tenant no tiene tareas.
func (r *StatsRepo) GetTaskCounts(ctx context.Context, tenantID string) (repository.TaskCounts, error) {
	query := `
		SELECT COALESCE(COUNT(*), 0),
		       COALESCE(COUNT(*) FILTER (WHERE status = 'completed'), 0)
		FROM tasks WHERE tenant_id = $1`
	var c repository.TaskCounts
	if err := r.q.QueryRow(ctx, query, tenantID).Scan(&c.Total, &c.Completed); err != nil {
		return repository.TaskCounts{}, fmt.Errorf("task counts: %w", err)
	}
	return c, nil
}

// GetTicketCounts devuelve los tickets pendientes y resueltos del tenant.
func (r *StatsRepo) GetTicketCounts(ctx context.Context, tenantID string) (repository.TicketCounts, error) {
	query := `
		SELECT COALESCE(COUNT(*) FILTER (WHERE status = 'pending'), 0),
		       COALESCE(COUNT(*) FILTER (WHERE status = 'resolved'), 0)
		FROM tickets WHERE tenant_id = $1`
	var c repository.TicketCounts
	if err := r.q.QueryRow(ctx, query, tenantID).Scan(&c.Pending, &c.Resolved); err != nil {
		return repository.TicketCounts{}, fmt.Errorf("ticket counts: %w", err)
	}
	return c, nil
}
