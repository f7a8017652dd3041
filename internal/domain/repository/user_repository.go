package repository

import (
	"context"

	"github.com/jhoicas/Consola-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail busca por email en todas las organizaciones (unicidad global).
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.User, error)
	CountByTenant(ctx context.Context, tenantID string) (int, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
	// DeleteByTenant elimina todos los usuarios del tenant (borrado en cascada).
	DeleteByTenant(ctx context.Context, tenantID string) error
}
