package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Consola-api/internal/application/provisioning"
	"github.com/jhoicas/Consola-api/internal/domain/repository"
)

var _ provisioning.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunCascadeDelete inicia una transacción, ejecuta fn con repos atados a la tx
// y hace Commit o Rollback. Soporta el borrado en cascada de un tenant: los
// usuarios y el registro del tenant se eliminan de forma atómica.
func (r *TxRunner) RunCascadeDelete(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	tenantRepo repository.TenantRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewUserRepository(tx), NewTenantRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
