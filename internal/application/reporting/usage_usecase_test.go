package reporting_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Consola-api/internal/application/reporting"
	"github.com/jhoicas/Consola-api/internal/domain"
	"github.com/jhoicas/Consola-api/internal/domain/entity"
	"github.com/jhoicas/Consola-api/internal/domain/repository"
	"github.com/jhoicas/Consola-api/pkg/logger"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

// fakeTenantStore devuelve los tenants en el orden de inserción, que hace de
// orden de fetch (desempate del ranking).
type fakeTenantStore struct {
	tenants []*entity.Tenant
}

func (r *fakeTenantStore) Create(_ context.Context, t *entity.Tenant) error {
	r.tenants = append(r.tenants, t)
	return nil
}
func (r *fakeTenantStore) GetByID(_ context.Context, id string) (*entity.Tenant, error) {
	for _, t := range r.tenants {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}
func (r *fakeTenantStore) Update(_ context.Context, _ *entity.Tenant) error { return nil }
func (r *fakeTenantStore) List(_ context.Context, _, _ int) ([]*entity.Tenant, error) {
	return r.tenants, nil
}
func (r *fakeTenantStore) ListAll(_ context.Context) ([]*entity.Tenant, error) {
	return r.tenants, nil
}
func (r *fakeTenantStore) Delete(_ context.Context, _ string) error { return nil }

// fakeUserCounter solo implementa el conteo por tenant; el resto no se usa.
type fakeUserCounter struct {
	counts map[string]int
	err    map[string]error
}

func (r *fakeUserCounter) Create(_ context.Context, _ *entity.User) error { return nil }
func (r *fakeUserCounter) GetByID(_ context.Context, _ string) (*entity.User, error) {
	return nil, nil
}
func (r *fakeUserCounter) GetByEmail(_ context.Context, _ string) (*entity.User, error) {
	return nil, nil
}
func (r *fakeUserCounter) ListByTenant(_ context.Context, _ string, _, _ int) ([]*entity.User, error) {
	return nil, nil
}
func (r *fakeUserCounter) CountByTenant(_ context.Context, tenantID string) (int, error) {
	if err := r.err[tenantID]; err != nil {
		return 0, err
	}
	return r.counts[tenantID], nil
}
func (r *fakeUserCounter) Update(_ context.Context, _ *entity.User) error   { return nil }
func (r *fakeUserCounter) Delete(_ context.Context, _ string) error         { return nil }
func (r *fakeUserCounter) DeleteByTenant(_ context.Context, _ string) error { return nil }

type fakeStats struct {
	tasks   map[string]repository.TaskCounts
	tickets map[string]repository.TicketCounts
	err     map[string]error
}

func (r *fakeStats) GetTaskCounts(_ context.Context, tenantID string) (repository.TaskCounts, error) {
	if err := r.err[tenantID]; err != nil {
		return repository.TaskCounts{}, err
	}
	return r.tasks[tenantID], nil
}

func (r *fakeStats) GetTicketCounts(_ context.Context, tenantID string) (repository.TicketCounts, error) {
	return r.tickets[tenantID], nil
}

var reportNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type reportFixture struct {
	uc      *reporting.UsageUseCase
	tenants *fakeTenantStore
	users   *fakeUserCounter
	stats   *fakeStats
}

func newReportFixture() *reportFixture {
	tenants := &fakeTenantStore{}
	users := &fakeUserCounter{counts: map[string]int{}, err: map[string]error{}}
	stats := &fakeStats{
		tasks:   map[string]repository.TaskCounts{},
		tickets: map[string]repository.TicketCounts{},
		err:     map[string]error{},
	}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	uc := reporting.NewUsageUseCase(tenants, users, stats, 4, log).
		WithClock(func() time.Time { return reportNow })
	return &reportFixture{uc: uc, tenants: tenants, users: users, stats: stats}
}

// addTenant registra un tenant con sus métricas. trial activo por defecto.
func (f *reportFixture) addTenant(id, name string, totalTasks, completed int) *entity.Tenant {
	t := &entity.Tenant{
		ID:           id,
		CompanyName:  name,
		TrialExpires: reportNow.AddDate(0, 0, 5),
		CreatedAt:    reportNow.AddDate(0, 0, -30),
	}
	f.tenants.tenants = append(f.tenants.tenants, t)
	f.stats.tasks[id] = repository.TaskCounts{Total: totalTasks, Completed: completed}
	return t
}

// ── Ranking y porcentaje de completitud ───────────────────────────────────────

func TestTenantUsage_OrdenaPorTareasDescendente(t *testing.T) {
	f := newReportFixture()
	f.addTenant("t1", "Chica", 10, 5)
	f.addTenant("t2", "Grande", 100, 80)
	f.addTenant("t3", "Media", 50, 10)

	report, err := f.uc.TenantUsage(context.Background(), reporting.Filters{})
	require.NoError(t, err)
	require.Len(t, report.Items, 3)

	assert.Equal(t, "Grande", report.Items[0].CompanyName)
	assert.Equal(t, "Media", report.Items[1].CompanyName)
	assert.Equal(t, "Chica", report.Items[2].CompanyName)
	assert.Equal(t, []int{1, 2, 3}, []int{report.Items[0].Rank, report.Items[1].Rank, report.Items[2].Rank})
}

func TestTenantUsage_RankDensoYDesempateEstable(t *testing.T) {
	f := newReportFixture()
	// t1 y t2 empatan en 50 tareas; el desempate conserva el orden de fetch.
	f.addTenant("t1", "Primera", 50, 10)
	f.addTenant("t2", "Segunda", 50, 20)
	f.addTenant("t3", "Tercera", 20, 5)

	report, err := f.uc.TenantUsage(context.Background(), reporting.Filters{})
	require.NoError(t, err)
	require.Len(t, report.Items, 3)

	assert.Equal(t, "Primera", report.Items[0].CompanyName, "Empate: se conserva el orden de fetch")
	assert.Equal(t, "Segunda", report.Items[1].CompanyName)
	assert.Equal(t, 1, report.Items[0].Rank)
	assert.Equal(t, 1, report.Items[1].Rank, "Los empates comparten rank")
	assert.Equal(t, 2, report.Items[2].Rank, "El rank denso no deja huecos")
}

func TestTenantUsage_PorcentajeDeCompletitud(t *testing.T) {
	f := newReportFixture()
	f.addTenant("t1", "Mitad", 200, 100)  // 50%
	f.addTenant("t2", "Redondeo", 3, 2)   // round(66.67) = 67
	f.addTenant("t3", "SinTareas", 0, 0)  // 0, sin división por cero
	f.addTenant("t4", "SinHechas", 10, 0) // completed=0 → 0

	report, err := f.uc.TenantUsage(context.Background(), reporting.Filters{})
	require.NoError(t, err)

	byName := map[string]int{}
	for _, it := range report.Items {
		byName[it.CompanyName] = it.CompletionPercent
	}
	assert.Equal(t, 50, byName["Mitad"])
	assert.Equal(t, 67, byName["Redondeo"])
	assert.Equal(t, 0, byName["SinTareas"])
	assert.Equal(t, 0, byName["SinHechas"])
}

// ── Filtros ───────────────────────────────────────────────────────────────────

func TestTenantUsage_FiltroPorEstadoDePlan(t *testing.T) {
	f := newReportFixture()
	f.addTenant("t1", "EnTrial", 10, 1)

	vencido := f.addTenant("t2", "TrialVencido", 20, 2)
	vencido.TrialExpires = reportNow.AddDate(0, 0, -3)

	pro := f.addTenant("t3", "ProActiva", 30, 3)
	exp := reportNow.AddDate(0, 1, 0)
	pro.IsPro = true
	pro.SubscriptionExpires = &exp

	caducada := f.addTenant("t4", "ProCaducada", 40, 4)
	expPast := reportNow.AddDate(0, -1, 0)
	caducada.IsPro = true
	caducada.SubscriptionExpires = &expPast

	cases := map[reporting.StatusFilter]string{
		reporting.StatusTrial:        "EnTrial",
		reporting.StatusTrialExpired: "TrialVencido",
		reporting.StatusActive:       "ProActiva",
		reporting.StatusExpired:      "ProCaducada",
	}
	for filter, want := range cases {
		report, err := f.uc.TenantUsage(context.Background(), reporting.Filters{Status: filter})
		require.NoError(t, err)
		require.Len(t, report.Items, 1, "filtro %s", filter)
		assert.Equal(t, want, report.Items[0].CompanyName)
	}

	all, err := f.uc.TenantUsage(context.Background(), reporting.Filters{Status: reporting.StatusAll})
	require.NoError(t, err)
	assert.Len(t, all.Items, 4)
}

func TestTenantUsage_EstadoInvalido(t *testing.T) {
	f := newReportFixture()
	_, err := f.uc.TenantUsage(context.Background(), reporting.Filters{Status: "premium"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTenantUsage_FiltroPorFechaDeCreacion(t *testing.T) {
	f := newReportFixture()
	vieja := f.addTenant("t1", "Vieja", 10, 1)
	vieja.CreatedAt = reportNow.AddDate(-1, 0, 0)
	reciente := f.addTenant("t2", "Reciente", 20, 2)
	reciente.CreatedAt = reportNow.Add(-2 * time.Hour)

	report, err := f.uc.TenantUsage(context.Background(), reporting.Filters{Range: reporting.RangeToday})
	require.NoError(t, err)
	require.Len(t, report.Items, 1)
	assert.Equal(t, "Reciente", report.Items[0].CompanyName)
}

// ── Exclusión por fallo parcial ───────────────────────────────────────────────

func TestTenantUsage_FalloDeUnTenantLoExcluyeSinAbortar(t *testing.T) {
	f := newReportFixture()
	f.addTenant("t1", "Sana", 10, 5)
	f.addTenant("t2", "Rota", 99, 0)
	f.stats.err["t2"] = errors.New("timeout del colaborador de tareas")
	f.addTenant("t3", "TambienSana", 30, 15)

	report, err := f.uc.TenantUsage(context.Background(), reporting.Filters{})
	require.NoError(t, err, "Un fallo por tenant jamás aborta el reporte")

	require.Len(t, report.Items, 2)
	assert.Equal(t, 1, report.Skipped)
	for _, it := range report.Items {
		assert.NotEqual(t, "Rota", it.CompanyName)
	}
	// El ranking se asigna sobre los que quedaron.
	assert.Equal(t, "TambienSana", report.Items[0].CompanyName)
	assert.Equal(t, 1, report.Items[0].Rank)
}

func TestTenantUsage_FalloEnConteoDeUsuariosTambienExcluye(t *testing.T) {
	f := newReportFixture()
	f.addTenant("t1", "Sana", 10, 5)
	f.addTenant("t2", "SinUsuarios", 20, 5)
	f.users.err["t2"] = errors.New("conexión perdida")

	report, err := f.uc.TenantUsage(context.Background(), reporting.Filters{})
	require.NoError(t, err)
	require.Len(t, report.Items, 1)
	assert.Equal(t, 1, report.Skipped)
}

// ── Resumen ───────────────────────────────────────────────────────────────────

func TestTenantUsage_ResumenConMRR(t *testing.T) {
	f := newReportFixture()
	f.addTenant("t1", "Trial", 10, 5)
	f.users.counts["t1"] = 3

	pro := f.addTenant("t2", "Pro", 20, 10)
	exp := reportNow.AddDate(0, 1, 0)
	pro.IsPro = true
	pro.SubscriptionExpires = &exp
	pro.SubscribedAmount = decimal.NewFromInt(99)
	f.users.counts["t2"] = 7

	caducada := f.addTenant("t3", "Caducada", 5, 1)
	expPast := reportNow.AddDate(0, -2, 0)
	caducada.IsPro = true
	caducada.SubscriptionExpires = &expPast
	caducada.SubscribedAmount = decimal.NewFromInt(49)

	report, err := f.uc.TenantUsage(context.Background(), reporting.Filters{})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Summary.TenantCount)
	assert.Equal(t, 10, report.Summary.TotalUsers)
	assert.True(t, decimal.NewFromInt(99).Equal(report.Summary.TotalMRR),
		"El MRR solo suma planes subscribed_active; los caducados no cuentan")
}

func TestTenantUsage_SinTenants(t *testing.T) {
	f := newReportFixture()
	report, err := f.uc.TenantUsage(context.Background(), reporting.Filters{})
	require.NoError(t, err)
	assert.Empty(t, report.Items)
	assert.Zero(t, report.Skipped)
	assert.Zero(t, report.Summary.TenantCount)
	assert.True(t, report.Summary.TotalMRR.IsZero())
}
