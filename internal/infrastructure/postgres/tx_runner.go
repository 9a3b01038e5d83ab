package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/margenes-api/internal/application/metrics"
	"github.com/jhoicas/margenes-api/internal/application/purchasing"
	"github.com/jhoicas/margenes-api/internal/application/sales"
	"github.com/jhoicas/margenes-api/internal/domain/repository"
)

// Ensure TxRunner implements los puertos transaccionales de cada caso de uso.
var _ purchasing.TxRunner = (*TxRunner)(nil)
var _ sales.TxRunner = (*TxRunner)(nil)
var _ metrics.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunPurchasing inicia una transacción con los repos de compras y auditoría
// atados a la tx, y hace Commit o Rollback.
func (r *TxRunner) RunPurchasing(ctx context.Context, fn func(
	purchaseRepo repository.PurchaseRepository,
	auditRepo repository.AuditRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewPurchaseRepository(tx), NewAuditRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunSales inicia una transacción con los repos que necesita el pipeline de
// ventas: ventas, catálogo, compras (historial de costos) y auditoría.
func (r *TxRunner) RunSales(ctx context.Context, fn func(
	salesRepo repository.SalesRepository,
	itemRepo repository.ItemRepository,
	purchaseRepo repository.PurchaseRepository,
	auditRepo repository.AuditRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewSalesRepository(tx), NewItemRepository(tx), NewPurchaseRepository(tx), NewAuditRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunMetrics inicia la transacción del recálculo de métricas (borrar rango +
// reinsertar es atómico: o todo o nada).
func (r *TxRunner) RunMetrics(ctx context.Context, fn func(
	metricsRepo repository.MetricsRepository,
	auditRepo repository.AuditRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewMetricsRepository(tx), NewAuditRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
