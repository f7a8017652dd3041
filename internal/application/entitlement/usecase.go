// Package entitlement contiene los casos de uso del ciclo de vida de
// entitlement de una organización: trial, suscripción y créditos.
package entitlement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Consola-api/internal/application/dto"
	"github.com/jhoicas/Consola-api/internal/domain"
	"github.com/jhoicas/Consola-api/internal/domain/entity"
	"github.com/jhoicas/Consola-api/internal/domain/repository"
)

// UseCase aplica reglas de negocio de entitlement sobre tenants.
//
// Las mutaciones son read-modify-write sin control de concurrencia optimista:
// dos ediciones concurrentes sobre el mismo tenant pueden perder la primera.
// Riesgo documentado en DESIGN.md; la consola es de uso interno y baja
// concurrencia.
type UseCase struct {
	repo repository.TenantRepository
	now  func() time.Time
}

// NewUseCase construye el caso de uso con el puerto de persistencia.
func NewUseCase(repo repository.TenantRepository) *UseCase {
	return &UseCase{repo: repo, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// CreateTenant da de alta una organización con una ventana de trial de
// entity.TrialDays días a partir del momento del alta.
func (uc *UseCase) CreateTenant(ctx context.Context, in dto.CreateTenantRequest) (*dto.TenantResponse, error) {
	if in.CompanyName == "" {
		return nil, fmt.Errorf("%w: company_name es requerido", domain.ErrValidation)
	}
	if !entity.ValidIndustry(in.Industry) {
		return nil, fmt.Errorf("%w: industry %q no es válida", domain.ErrValidation, in.Industry)
	}
	if !entity.ValidTeamSize(in.TeamSize) {
		return nil, fmt.Errorf("%w: team_size %q no es válido", domain.ErrValidation, in.TeamSize)
	}
	now := uc.now()
	tenant := &entity.Tenant{
		ID:           uuid.New().String(),
		CompanyName:  in.CompanyName,
		Industry:     in.Industry,
		TeamSize:     in.TeamSize,
		TrialExpires: now.AddDate(0, 0, entity.TrialDays),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, tenant); err != nil {
		return nil, err
	}
	return uc.toResponse(tenant), nil
}

// GetTenant obtiene una organización por ID con su estado de plan derivado.
func (uc *UseCase) GetTenant(ctx context.Context, id string) (*dto.TenantResponse, error) {
	tenant, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(tenant), nil
}

// ListTenants lista organizaciones con paginación.
func (uc *UseCase) ListTenants(ctx context.Context, page dto.PageRequest) (*dto.TenantListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TenantResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *uc.toResponse(t))
	}
	return &dto.TenantListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ExtendTrial suma `days` días al vencimiento de trial ALMACENADO, no a "ahora".
// Si el trial almacenado ya venció, el resultado puede seguir en el pasado;
// ese comportamiento se conserva a propósito (ver DESIGN.md, pregunta abierta).
// Solo si el tenant no tiene trial registrado se parte de "ahora".
func (uc *UseCase) ExtendTrial(ctx context.Context, tenantID string, days int) (*dto.TenantResponse, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days debe ser un entero positivo", domain.ErrValidation)
	}
	tenant, err := uc.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	base := tenant.TrialExpires
	if base.IsZero() {
		base = uc.now()
	}
	tenant.TrialExpires = base.AddDate(0, 0, days)
	return uc.save(ctx, tenant)
}

// RevokeTrial fija el vencimiento del trial en "ahora", independiente del
// estado de suscripción del tenant.
func (uc *UseCase) RevokeTrial(ctx context.Context, tenantID string) (*dto.TenantResponse, error) {
	tenant, err := uc.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	tenant.TrialExpires = uc.now()
	return uc.save(ctx, tenant)
}

// RenewSubscription extiende la suscripción `days` días a partir de
// max(vencimiento actual, ahora) y marca el tenant como Pro incondicionalmente.
// Plan y Amount actualizan el plan contratado si vienen informados.
func (uc *UseCase) RenewSubscription(ctx context.Context, tenantID string, in dto.RenewSubscriptionRequest) (*dto.TenantResponse, error) {
	if in.Days <= 0 {
		return nil, fmt.Errorf("%w: days debe ser un entero positivo", domain.ErrValidation)
	}
	tenant, err := uc.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	base := now
	if tenant.SubscriptionExpires != nil && tenant.SubscriptionExpires.After(now) {
		base = *tenant.SubscriptionExpires
	}
	expires := base.AddDate(0, 0, in.Days)
	tenant.SubscriptionExpires = &expires
	tenant.IsPro = true
	if in.Plan != nil {
		tenant.SubscribedPlan = in.Plan
	}
	if in.Amount != nil {
		tenant.SubscribedAmount = *in.Amount
	}
	return uc.save(ctx, tenant)
}

// SetCredits sobreescribe el saldo de créditos (no lo incrementa).
func (uc *UseCase) SetCredits(ctx context.Context, tenantID string, credits int) (*dto.TenantResponse, error) {
	if credits < 0 {
		return nil, fmt.Errorf("%w: credits debe ser >= 0", domain.ErrValidation)
	}
	tenant, err := uc.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	tenant.Credits = credits
	return uc.save(ctx, tenant)
}

// UpdateSubscribedUserCount fija la cantidad de usuarios contratados del plan.
func (uc *UseCase) UpdateSubscribedUserCount(ctx context.Context, tenantID string, count int) (*dto.TenantResponse, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: count debe ser >= 0", domain.ErrValidation)
	}
	tenant, err := uc.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	tenant.SubscribedUserCount = count
	return uc.save(ctx, tenant)
}

func (uc *UseCase) load(ctx context.Context, id string) (*entity.Tenant, error) {
	tenant, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrTenantNotFound
	}
	return tenant, nil
}

func (uc *UseCase) save(ctx context.Context, tenant *entity.Tenant) (*dto.TenantResponse, error) {
	tenant.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, tenant); err != nil {
		return nil, err
	}
	return uc.toResponse(tenant), nil
}

func (uc *UseCase) toResponse(t *entity.Tenant) *dto.TenantResponse {
	if t == nil {
		return nil
	}
	return &dto.TenantResponse{
		ID:                  t.ID,
		CompanyName:         t.CompanyName,
		Industry:            t.Industry,
		TeamSize:            t.TeamSize,
		Credits:             t.Credits,
		SubscribedPlan:      t.SubscribedPlan,
		SubscribedAmount:    t.SubscribedAmount,
		SubscribedUserCount: t.SubscribedUserCount,
		TrialExpires:        t.TrialExpires,
		SubscriptionExpires: t.SubscriptionExpires,
		IsPro:               t.IsPro,
		PlanStatus:          string(entity.DerivePlanStatus(t, uc.now())),
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}
