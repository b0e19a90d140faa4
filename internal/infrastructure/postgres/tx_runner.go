package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casaempenos/prestamos-api/internal/application/contratos"
	"github.com/casaempenos/prestamos-api/internal/domain/repository"
)

// Ensure TxRunner implements contratos.LiquidezTxRunner.
var _ contratos.LiquidezTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunLiquidez inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Las transferencias entre sucursales usan este camino: débito, crédito y registro en una sola tx.
func (r *TxRunner) RunLiquidez(ctx context.Context, fn func(
	liqRepo repository.LiquidezRepository,
	transfRepo repository.TransferenciaRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	liqRepo := NewLiquidezRepository(tx)
	transfRepo := NewTransferenciaRepository(tx)

	if err := fn(liqRepo, transfRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
