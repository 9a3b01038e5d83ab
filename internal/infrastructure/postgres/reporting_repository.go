package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/margenes-api/internal/domain/repository"
)

var _ repository.ReportingRepository = (*ReportingRepo)(nil)

// ReportingRepo consultas de solo lectura para dashboard y reportes.
type ReportingRepo struct {
	pool *pgxpool.Pool
}

// NewReportingRepository construye el adaptador de reportes.
func NewReportingRepository(pool *pgxpool.Pool) *ReportingRepo {
	return &ReportingRepo{pool: pool}
}

// LiveTotals agrega los snapshots de líneas del rango directamente.
// Usa COALESCE para devolver ceros si el rango no tiene ventas.
func (r *ReportingRepo) LiveTotals(ctx context.Context, from, to time.Time) (repository.LiveTotalsResult, error) {
	const query = `
	SELECT
	    COUNT(DISTINCT so.id)                                                       AS orders_count,
	    COALESCE(SUM(sl.qty), 0)                                                    AS units_sold,
	    COALESCE(SUM(sl.revenue_net), 0)                                            AS revenue_net,
	    COALESCE(SUM(sl.cost_total), 0)                                             AS cogs,
	    COALESCE(SUM(sl.profit), 0)                                                 AS profit,
	    COALESCE(SUM(sl.line_discount_gross + sl.order_discount_alloc_gross), 0)    AS discount_gross
	FROM sales_lines sl
	JOIN sales_orders so ON so.id = sl.sales_order_id
	WHERE so.order_date::date BETWEEN $1 AND $2`

	var res repository.LiveTotalsResult
	err := r.pool.QueryRow(ctx, query, from, to).Scan(
		&res.OrdersCount, &res.UnitsSold, &res.RevenueNet, &res.COGS, &res.Profit, &res.DiscountGross,
	)
	if err != nil {
		return repository.LiveTotalsResult{}, fmt.Errorf("reporting.LiveTotals: %w", err)
	}
	return res, nil
}

// MetricDaysCovered cuenta los días del rango con agregado diario presente.
// El dashboard solo usa los agregados si cubren el rango completo.
func (r *ReportingRepo) MetricDaysCovered(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM daily_metrics WHERE day BETWEEN $1 AND $2`,
		from, to,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("reporting.MetricDaysCovered: %w", err)
	}
	return n, nil
}

const skuSalesSelect = `
	SELECT
	    i.id                                                                        AS item_id,
	    i.sku,
	    i.description,
	    COALESCE(SUM(sl.qty), 0)                                                    AS units_sold,
	    COALESCE(SUM(sl.revenue_net), 0)                                            AS revenue_net,
	    COALESCE(SUM(sl.cost_total), 0)                                             AS cost_total,
	    COALESCE(SUM(sl.profit), 0)                                                 AS profit,
	    COALESCE(SUM(sl.line_discount_gross + sl.order_discount_alloc_gross), 0)    AS discount_gross,
	    COALESCE(SUM(
	        (sl.line_discount_gross + sl.order_discount_alloc_gross)
	        / (1 + sl.vat_rate / 100)
	    ), 0)                                                                       AS discount_net
	FROM sales_lines sl
	JOIN sales_orders so ON so.id = sl.sales_order_id
	JOIN items i         ON i.id  = sl.item_id
	WHERE so.order_date::date BETWEEN $1 AND $2
	GROUP BY i.id, i.sku, i.description`

// TopSKUsByUnits devuelve los `limit` SKUs con más unidades vendidas.
func (r *ReportingRepo) TopSKUsByUnits(ctx context.Context, from, to time.Time, limit int) ([]repository.SKUSalesResult, error) {
	return r.skuSales(ctx, skuSalesSelect+` ORDER BY units_sold DESC LIMIT $3`, from, to, limit)
}

// TopSKUsByProfit devuelve los `limit` SKUs con mayor beneficio.
func (r *ReportingRepo) TopSKUsByProfit(ctx context.Context, from, to time.Time, limit int) ([]repository.SKUSalesResult, error) {
	return r.skuSales(ctx, skuSalesSelect+` ORDER BY profit DESC LIMIT $3`, from, to, limit)
}

// SKUSales devuelve las ventas agregadas por SKU del rango (reporte completo).
// El descuento neto divide el bruto de cada línea por SU tasa de IVA.
func (r *ReportingRepo) SKUSales(ctx context.Context, from, to time.Time) ([]repository.SKUSalesResult, error) {
	return r.skuSales(ctx, skuSalesSelect+` ORDER BY revenue_net DESC`, from, to)
}

func (r *ReportingRepo) skuSales(ctx context.Context, query string, args ...any) ([]repository.SKUSalesResult, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reporting.skuSales: %w", err)
	}
	defer rows.Close()

	results := []repository.SKUSalesResult{}
	for rows.Next() {
		var row repository.SKUSalesResult
		if err := rows.Scan(
			&row.ItemID, &row.SKU, &row.Description, &row.UnitsSold,
			&row.RevenueNet, &row.CostTotal, &row.Profit,
			&row.DiscountGross, &row.DiscountNet,
		); err != nil {
			return nil, fmt.Errorf("reporting.skuSales scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// AlertRows devuelve las líneas del rango con los campos que necesita el
// caso de uso de alertas para aplicar umbrales (margen bajo, descuento alto).
func (r *ReportingRepo) AlertRows(ctx context.Context, from, to time.Time) ([]repository.AlertRowResult, error) {
	const query = `
	SELECT
	    so.id                                                    AS order_id,
	    so.channel,
	    so.order_number,
	    so.order_date,
	    i.sku,
	    sl.qty,
	    sl.revenue_net,
	    sl.profit,
	    sl.line_discount_gross + sl.order_discount_alloc_gross   AS discount_gross,
	    sl.unit_price_gross * sl.qty                             AS line_gross
	FROM sales_lines sl
	JOIN sales_orders so ON so.id = sl.sales_order_id
	JOIN items i         ON i.id  = sl.item_id
	WHERE so.order_date::date BETWEEN $1 AND $2
	ORDER BY so.order_date DESC, so.id, sl.id`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("reporting.AlertRows: %w", err)
	}
	defer rows.Close()

	var results []repository.AlertRowResult
	for rows.Next() {
		var row repository.AlertRowResult
		if err := rows.Scan(
			&row.OrderID, &row.Channel, &row.OrderNumber, &row.OrderDate,
			&row.SKU, &row.Qty, &row.RevenueNet, &row.Profit,
			&row.DiscountGross, &row.LineGross,
		); err != nil {
			return nil, fmt.Errorf("reporting.AlertRows scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// RecentOrders devuelve las últimas órdenes con sus totales por línea.
func (r *ReportingRepo) RecentOrders(ctx context.Context, limit int) ([]repository.RecentOrderResult, error) {
	const query = `
	SELECT
	    so.id, so.channel, so.order_number, so.order_date,
	    COUNT(sl.id)                       AS line_count,
	    COALESCE(SUM(sl.revenue_net), 0)   AS revenue_net,
	    COALESCE(SUM(sl.profit), 0)        AS profit
	FROM sales_orders so
	LEFT JOIN sales_lines sl ON sl.sales_order_id = so.id
	GROUP BY so.id, so.channel, so.order_number, so.order_date
	ORDER BY so.order_date DESC, so.created_at DESC
	LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("reporting.RecentOrders: %w", err)
	}
	defer rows.Close()

	var results []repository.RecentOrderResult
	for rows.Next() {
		var row repository.RecentOrderResult
		if err := rows.Scan(&row.OrderID, &row.Channel, &row.OrderNumber, &row.OrderDate,
			&row.LineCount, &row.RevenueNet, &row.Profit); err != nil {
			return nil, fmt.Errorf("reporting.RecentOrders scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// MissingCostCount cuenta líneas con cantidad pero costo base cero: ventas
// sin historial de compras que el motor costeó en cero silenciosamente.
func (r *ReportingRepo) MissingCostCount(ctx context.Context, from, to time.Time) (int64, error) {
	const query = `
	SELECT COUNT(*)
	FROM sales_lines sl
	JOIN sales_orders so ON so.id = sl.sales_order_id
	WHERE so.order_date::date BETWEEN $1 AND $2
	  AND sl.qty > 0
	  AND sl.unit_cost_basis = 0`

	var n int64
	if err := r.pool.QueryRow(ctx, query, from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("reporting.MissingCostCount: %w", err)
	}
	return n, nil
}
