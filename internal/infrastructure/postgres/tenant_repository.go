package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Consola-api/internal/domain/entity"
	"github.com/jhoicas/Consola-api/internal/domain/repository"
)

var _ repository.TenantRepository = (*TenantRepo)(nil)

const tenantColumns = `id, company_name, industry, team_size, credits, subscribed_plan,
	subscribed_amount, subscribed_user_count, trial_expires, subscription_expires,
	is_pro, created_at, updated_at`

// TenantRepo implementación del puerto TenantRepository sobre PostgreSQL
// (usable con pool o tx).
type TenantRepo struct {
	q Querier
}

// NewTenantRepository construye el adaptador de persistencia para tenants. Pasar pool o tx (Querier).
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

// Create persiste una nueva organización.
func (r *TenantRepo) Create(ctx context.Context, t *entity.Tenant) error {
	query := `
		INSERT INTO tenants (` + tenantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.CompanyName, t.Industry, t.TeamSize, t.Credits, t.SubscribedPlan,
		t.SubscribedAmount, t.SubscribedUserCount, t.TrialExpires, t.SubscriptionExpires,
		t.IsPro, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

// GetByID obtiene una organización por ID. Devuelve nil sin error si no existe.
func (r *TenantRepo) GetByID(ctx context.Context, id string) (*entity.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	t, err := scanTenant(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant by id: %w", err)
	}
	return t, nil
}

// Update actualiza el estado de entitlement de una organización.
func (r *TenantRepo) Update(ctx context.Context, t *entity.Tenant) error {
	query := `
		UPDATE tenants SET company_name = $2, industry = $3, team_size = $4, credits = $5,
			subscribed_plan = $6, subscribed_amount = $7, subscribed_user_count = $8,
			trial_expires = $9, subscription_expires = $10, is_pro = $11, updated_at = $12
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.CompanyName, t.Industry, t.TeamSize, t.Credits,
		t.SubscribedPlan, t.SubscribedAmount, t.SubscribedUserCount,
		t.TrialExpires, t.SubscriptionExpires, t.IsPro, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update tenant: %w", err)
	}
	return nil
}

// List lista organizaciones con paginación.
// El orden (created_at DESC, id ASC) es el desempate estable del ranking de uso.
func (r *TenantRepo) List(ctx context.Context, limit, offset int) ([]*entity.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + ` FROM tenants
		ORDER BY created_at DESC, id ASC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()
	return collectTenants(rows)
}

// ListAll devuelve todas las organizaciones en el mismo orden que List.
func (r *TenantRepo) ListAll(ctx context.Context) ([]*entity.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants ORDER BY created_at DESC, id ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all tenants: %w", err)
	}
	defer rows.Close()
	return collectTenants(rows)
}

// Delete elimina una organización por ID.
func (r *TenantRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tenant: %w", err)
	}
	return nil
}

func scanTenant(row pgx.Row) (*entity.Tenant, error) {
	var t entity.Tenant
	err := row.Scan(
		&t.ID, &t.CompanyName, &t.Industry, &t.TeamSize, &t.Credits, &t.SubscribedPlan,
		&t.SubscribedAmount, &t.SubscribedUserCount, &t.TrialExpires, &t.SubscriptionExpires,
		&t.IsPro, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTenants(rows pgx.Rows) ([]*entity.Tenant, error) {
	var list []*entity.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
