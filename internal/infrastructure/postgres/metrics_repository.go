package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/margenes-api/internal/domain"
	"github.com/jhoicas/margenes-api/internal/domain/costing"
	"github.com/jhoicas/margenes-api/internal/domain/entity"
	"github.com/jhoicas/margenes-api/internal/domain/repository"
)

var _ repository.MetricsRepository = (*MetricsRepo)(nil)

// Clave del advisory lock que serializa recálculos de métricas concurrentes.
const recomputeLockKey = 874201

// MetricsRepo implementación del puerto MetricsRepository sobre PostgreSQL.
// Debe construirse sobre la transacción del recálculo (TxRunner.RunMetrics):
// el advisory lock es pg_advisory_xact_lock y se libera con el commit/rollback.
type MetricsRepo struct {
	q Querier
}

// NewMetricsRepository construye el adaptador de métricas. Pasar pool o tx (Querier).
func NewMetricsRepository(q Querier) *MetricsRepo {
	return &MetricsRepo{q: q}
}

// AcquireRecomputeLock bloquea hasta que ningún otro recálculo esté en curso.
func (r *MetricsRepo) AcquireRecomputeLock() error {
	_, err := r.q.Exec(context.Background(), `SELECT pg_advisory_xact_lock($1)`, recomputeLockKey)
	if err != nil {
		return fmt.Errorf("acquire recompute lock: %w", err)
	}
	return nil
}

// SnapshotsInRange materializa las líneas de venta del rango con el SKU
// resuelto por join. Un artículo desaparecido bajo una línea persistida es un
// estado inconsistente: se aborta con domain.ErrItemMissing en vez de agregar
// datos huérfanos.
func (r *MetricsRepo) SnapshotsInRange(from, to time.Time) ([]costing.LineSnapshot, error) {
	const query = `
	SELECT
	    so.order_date::date      AS day,
	    so.id                    AS order_id,
	    sl.item_id,
	    i.sku,
	    sl.qty,
	    sl.revenue_net,
	    sl.cost_total,
	    sl.profit,
	    sl.line_discount_gross + sl.order_discount_alloc_gross AS discount_gross,
	    sl.vat_rate
	FROM sales_lines sl
	JOIN sales_orders so ON so.id = sl.sales_order_id
	LEFT JOIN items i    ON i.id  = sl.item_id
	WHERE so.order_date::date BETWEEN $1 AND $2
	ORDER BY day, so.id, sl.id`

	rows, err := r.q.Query(context.Background(), query, from, to)
	if err != nil {
		return nil, fmt.Errorf("snapshots in range: %w", err)
	}
	defer rows.Close()
	var list []costing.LineSnapshot
	for rows.Next() {
		var s costing.LineSnapshot
		var sku *string
		if err := rows.Scan(&s.Day, &s.OrderID, &s.ItemID, &sku, &s.Qty,
			&s.RevenueNet, &s.CostTotal, &s.Profit, &s.DiscountGross, &s.VATRate); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if sku == nil {
			return nil, fmt.Errorf("línea %s sin artículo: %w", s.OrderID, domain.ErrItemMissing)
		}
		s.SKU = *sku
		list = append(list, s)
	}
	return list, rows.Err()
}

// DeleteRange elimina los agregados del rango (ambas tablas).
func (r *MetricsRepo) DeleteRange(from, to time.Time) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM daily_metrics WHERE day BETWEEN $1 AND $2`, from, to); err != nil {
		return fmt.Errorf("delete daily metrics: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM sku_metrics_daily WHERE day BETWEEN $1 AND $2`, from, to); err != nil {
		return fmt.Errorf("delete sku metrics: %w", err)
	}
	return nil
}

// InsertDaily inserta los agregados diarios regenerados.
func (r *MetricsRepo) InsertDaily(rows []entity.DailyMetric) error {
	query := `
		INSERT INTO daily_metrics (day, orders_count, units_sold, revenue_net, cogs, profit, discount_gross, discount_net, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, m := range rows {
		if _, err := r.q.Exec(context.Background(), query,
			m.Day, m.OrdersCount, m.UnitsSold, m.RevenueNet, m.COGS, m.Profit,
			m.DiscountGross, m.DiscountNet, m.ComputedAt,
		); err != nil {
			return fmt.Errorf("insert daily metric: %w", err)
		}
	}
	return nil
}

// InsertSkuDaily inserta los agregados por SKU regenerados.
func (r *MetricsRepo) InsertSkuDaily(rows []entity.SkuMetricDaily) error {
	query := `
		INSERT INTO sku_metrics_daily (day, item_id, sku, units_sold, revenue_net, profit, discount_gross, discount_net, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, m := range rows {
		if _, err := r.q.Exec(context.Background(), query,
			m.Day, m.ItemID, m.SKU, m.UnitsSold, m.RevenueNet, m.Profit,
			m.DiscountGross, m.DiscountNet, m.ComputedAt,
		); err != nil {
			return fmt.Errorf("insert sku metric: %w", err)
		}
	}
	return nil
}

// DailyRange devuelve los agregados diarios del rango, ordenados por día.
func (r *MetricsRepo) DailyRange(from, to time.Time) ([]entity.DailyMetric, error) {
	query := `
		SELECT day, orders_count, units_sold, revenue_net, cogs, profit, discount_gross, discount_net, computed_at
		FROM daily_metrics WHERE day BETWEEN $1 AND $2 ORDER BY day`
	rows, err := r.q.Query(context.Background(), query, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily range: %w", err)
	}
	defer rows.Close()
	var list []entity.DailyMetric
	for rows.Next() {
		var m entity.DailyMetric
		if err := rows.Scan(&m.Day, &m.OrdersCount, &m.UnitsSold, &m.RevenueNet, &m.COGS,
			&m.Profit, &m.DiscountGross, &m.DiscountNet, &m.ComputedAt); err != nil {
			return nil, fmt.Errorf("scan daily metric: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
