// Package reporting contiene el agregador de uso cross-tenant: estadísticas
// de tareas, tickets y usuarios por organización, filtradas y rankeadas.
package reporting

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Consola-api/internal/application/dto"
	"github.com/jhoicas/Consola-api/internal/domain"
	"github.com/jhoicas/Consola-api/internal/domain/entity"
	"github.com/jhoicas/Consola-api/internal/domain/repository"
	"github.com/jhoicas/Consola-api/pkg/logger"
)

// StatusFilter filtro por estado de plan del reporte.
type StatusFilter string

const (
	StatusAll          StatusFilter = "all"
	StatusActive       StatusFilter = "active"        // subscribed_active
	StatusTrial        StatusFilter = "trial"         // trial_active
	StatusTrialExpired StatusFilter = "trial_expired" // trial_expired
	StatusExpired      StatusFilter = "expired"       // subscribed_expired
)

// DefaultWorkers tamaño por defecto del pool de consultas por tenant.
const DefaultWorkers = 8

// Filters parámetros del reporte de uso.
type Filters struct {
	Status StatusFilter
	Range  RangeFilter
	From   time.Time // solo para RangeCustom
	To     time.Time // solo para RangeCustom
}

// UsageUseCase calcula el reporte de uso por organización.
//
// Nunca muta estado: lee tenants del store y los contadores de tareas/tickets
// de los colaboradores read-only. El snapshot es derivado y se recalcula en
// cada consulta.
type UsageUseCase struct {
	tenantRepo repository.TenantRepository
	userRepo   repository.UserRepository
	statsRepo  repository.StatsRepository
	workers    int
	log        *logger.Logger
	now        func() time.Time
}

// NewUsageUseCase construye el agregador. workers <= 0 usa DefaultWorkers.
func NewUsageUseCase(
	tenantRepo repository.TenantRepository,
	userRepo repository.UserRepository,
	statsRepo repository.StatsRepository,
	workers int,
	log *logger.Logger,
) *UsageUseCase {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &UsageUseCase{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		statsRepo:  statsRepo,
		workers:    workers,
		log:        log,
		now:        time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UsageUseCase) WithClock(now func() time.Time) *UsageUseCase {
	uc.now = now
	return uc
}

// TenantUsage genera el reporte rankeado.
//
// Algoritmo:
//  1. Listar tenants (orden estable del repositorio) y filtrar por estado de
//     plan derivado y por fecha de creación dentro del rango [start, end).
//  2. Consultar métricas por tenant en paralelo con un pool acotado
//     (errgroup + SetLimit): tareas, tickets y usuarios.
//  3. Un fallo en las métricas de UN tenant lo excluye del reporte (se loguea
//     y cuenta en Skipped); jamás aborta el reporte completo.
//  4. Con TODOS los resultados reunidos: orden estable por TotalTasks
//     descendente. El desempate conserva el orden de fetch (el orden del
//     listado de tenants), y el rank denso comparte número entre empates.
func (uc *UsageUseCase) TenantUsage(ctx context.Context, f Filters) (*dto.UsageReportDTO, error) {
	if f.Status == "" {
		f.Status = StatusAll
	}
	if !validStatus(f.Status) {
		return nil, fmt.Errorf("%w: status %q no es válido", domain.ErrValidation, f.Status)
	}
	now := uc.now()
	dateRange, err := ResolveRange(f.Range, now, f.From, f.To)
	if err != nil {
		return nil, err
	}

	tenants, err := uc.tenantRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	selected := make([]*entity.Tenant, 0, len(tenants))
	for _, t := range tenants {
		if !matchesStatus(t, f.Status, now) {
			continue
		}
		if !dateRange.Contains(t.CreatedAt) {
			continue
		}
		selected = append(selected, t)
	}

	// Slots por índice para conservar el orden de fetch al reunir resultados.
	rows := make([]*dto.TenantUsageDTO, len(selected))
	var (
		mu      sync.Mutex
		skipped int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)
	for i, t := range selected {
		g.Go(func() error {
			row, err := uc.tenantRow(gctx, t, now)
			if err != nil {
				// Exclusión, no aborto: el reporte sigue sin este tenant.
				uc.log.Warn().Err(err).
					Str("tenant_id", t.ID).
					Str("company", t.CompanyName).
					Msg("tenant excluido del reporte de uso")
				mu.Lock()
				skipped++
				mu.Unlock()
				return nil
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	collected := make([]dto.TenantUsageDTO, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			collected = append(collected, *r)
		}
	}

	// Orden estable: empates en TotalTasks conservan el orden de fetch.
	sort.SliceStable(collected, func(i, j int) bool {
		return collected[i].TotalTasks > collected[j].TotalTasks
	})
	assignDenseRanks(collected)

	return &dto.UsageReportDTO{
		Items:   collected,
		Summary: uc.summarize(selected, collected, now),
		Skipped: skipped,
	}, nil
}

// tenantRow reúne las métricas de un tenant. Las tres consultas se hacen en
// secuencia dentro del worker; el paralelismo vive a nivel de tenants.
func (uc *UsageUseCase) tenantRow(ctx context.Context, t *entity.Tenant, now time.Time) (*dto.TenantUsageDTO, error) {
	tasks, err := uc.statsRepo.GetTaskCounts(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("tareas: %w", err)
	}
	tickets, err := uc.statsRepo.GetTicketCounts(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("tickets: %w", err)
	}
	users, err := uc.userRepo.CountByTenant(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("usuarios: %w", err)
	}
	return &dto.TenantUsageDTO{
		TenantID:          t.ID,
		CompanyName:       t.CompanyName,
		PlanStatus:        string(entity.DerivePlanStatus(t, now)),
		TotalTasks:        tasks.Total,
		CompletedTasks:    tasks.Completed,
		CompletionPercent: completionPercent(tasks.Completed, tasks.Total),
		TotalUsers:        users,
		PendingTickets:    tickets.Pending,
		ResolvedTickets:   tickets.Resolved,
	}, nil
}

func (uc *UsageUseCase) summarize(tenants []*entity.Tenant, rows []dto.TenantUsageDTO, now time.Time) dto.UsageSummaryDTO {
	totalUsers := 0
	for _, r := range rows {
		totalUsers += r.TotalUsers
	}
	mrr := decimal.Zero
	for _, t := range tenants {
		if entity.DerivePlanStatus(t, now) == entity.PlanSubscribedActive {
			mrr = mrr.Add(t.SubscribedAmount)
		}
	}
	return dto.UsageSummaryDTO{
		TenantCount: len(rows),
		TotalUsers:  totalUsers,
		TotalMRR:    mrr,
	}
}

// completionPercent calcula round(100*completed/total), con 0 cuando no hay
// tareas completadas. Nunca divide por cero.
func completionPercent(completed, total int) int {
	if completed <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// assignDenseRanks asigna rank 1..N sobre la lista ya ordenada: los empates
// en TotalTasks comparten número y la secuencia no deja huecos.
func assignDenseRanks(rows []dto.TenantUsageDTO) {
	rank := 0
	prev := -1
	for i := range rows {
		if rows[i].TotalTasks != prev {
			rank++
			prev = rows[i].TotalTasks
		}
		rows[i].Rank = rank
	}
}

func validStatus(s StatusFilter) bool {
	switch s {
	case StatusAll, StatusActive, StatusTrial, StatusTrialExpired, StatusExpired:
		return true
	}
	return false
}

// matchesStatus traduce el filtro del reporte al estado de plan derivado.
func matchesStatus(t *entity.Tenant, f StatusFilter, now time.Time) bool {
	if f == StatusAll {
		return true
	}
	status := entity.DerivePlanStatus(t, now)
	switch f {
	case StatusActive:
		return status == entity.PlanSubscribedActive
	case StatusTrial:
		return status == entity.PlanTrialActive
	case StatusTrialExpired:
		return status == entity.PlanTrialExpired
	case StatusExpired:
		return status == entity.PlanSubscribedExpired
	}
	return false
}
