package repository

import (
	"context"

	"github.com/jhoicas/Consola-api/internal/domain/entity"
)

// TenantRepository define el puerto de persistencia para Tenant (DIP).
// La implementación vive en infrastructure.
type TenantRepository interface {
	Create(ctx context.Context, tenant *entity.Tenant) error
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
	Update(ctx context.Context, tenant *entity.Tenant) error
	// List devuelve tenants ordenados por created_at DESC, id ASC.
	// Ese orden es el desempate estable del ranking de uso.
	List(ctx context.Context, limit, offset int) ([]*entity.Tenant, error)
	// ListAll devuelve todos los tenants en el mismo orden que List (reportes).
	ListAll(ctx context.Context) ([]*entity.Tenant, error)
	Delete(ctx context.Context, id string) error
}
