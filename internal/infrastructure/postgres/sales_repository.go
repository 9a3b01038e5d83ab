package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/margenes-api/internal/domain"
	"github.com/jhoicas/margenes-api/internal/domain/entity"
	"github.com/jhoicas/margenes-api/internal/domain/repository"
)

var _ repository.SalesRepository = (*SalesRepo)(nil)

// SalesRepo implementación del puerto SalesRepository sobre PostgreSQL (usable con pool o tx).
type SalesRepo struct {
	q Querier
}

// NewSalesRepository construye el adaptador de persistencia para ventas. Pasar pool o tx (Querier).
func NewSalesRepository(q Querier) *SalesRepo {
	return &SalesRepo{q: q}
}

// CreateOrder persiste la orden con sus líneas y snapshots. La violación del
// constraint único (channel, order_number) se traduce a domain.ErrDuplicate.
func (r *SalesRepo) CreateOrder(order *entity.SalesOrder) error {
	query := `
		INSERT INTO sales_orders (id, channel, order_number, order_date, customer, order_discount_gross, shipping_gross, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.Channel, order.OrderNumber, order.OrderDate, order.Customer,
		order.OrderDiscountGross, order.ShippingGross, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sales order: %w", err)
	}
	for _, l := range order.Lines {
		if err := r.insertLine(l); err != nil {
			return err
		}
	}
	return nil
}

func (r *SalesRepo) insertLine(l *entity.SalesLine) error {
	query := `
		INSERT INTO sales_lines (id, sales_order_id, item_id, qty, unit_price_gross, line_discount_gross,
			order_discount_alloc_gross, vat_rate, unit_price_net, unit_cost_basis, cost_method,
			cost_source_po_id, revenue_net, cost_total, profit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.SalesOrderID, l.ItemID, l.Qty, l.UnitPriceGross, l.LineDiscountGross,
		l.OrderDiscountAllocGross, l.VATRate, l.UnitPriceNet, l.UnitCostBasis, l.CostMethod,
		l.CostSourcePOID, l.RevenueNet, l.CostTotal, l.Profit, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sales line: %w", err)
	}
	return nil
}

const salesOrderColumns = `id, channel, order_number, order_date, customer, order_discount_gross, shipping_gross, created_at, updated_at`

// GetOrderByID obtiene una orden con sus líneas.
func (r *SalesRepo) GetOrderByID(id string) (*entity.SalesOrder, error) {
	return r.getOne(`SELECT `+salesOrderColumns+` FROM sales_orders WHERE id = $1`, id)
}

// GetOrderByIDForUpdate obtiene la orden y bloquea su fila (SELECT FOR UPDATE).
// El recálculo de una orden la lee así dentro de su transacción para que dos
// recálculos concurrentes de la misma orden queden serializados.
func (r *SalesRepo) GetOrderByIDForUpdate(id string) (*entity.SalesOrder, error) {
	return r.getOne(`SELECT `+salesOrderColumns+` FROM sales_orders WHERE id = $1 FOR UPDATE`, id)
}

// GetOrderByChannelAndNumber obtiene una orden por su clave natural.
func (r *SalesRepo) GetOrderByChannelAndNumber(channel, orderNumber string) (*entity.SalesOrder, error) {
	return r.getOne(
		`SELECT `+salesOrderColumns+` FROM sales_orders WHERE channel = $1 AND order_number = $2`,
		channel, orderNumber,
	)
}

func (r *SalesRepo) getOne(query string, args ...any) (*entity.SalesOrder, error) {
	var o entity.SalesOrder
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&o.ID, &o.Channel, &o.OrderNumber, &o.OrderDate, &o.Customer,
		&o.OrderDiscountGross, &o.ShippingGross, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	lines, err := r.linesByOrder(o.ID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return &o, nil
}

func (r *SalesRepo) linesByOrder(orderID string) ([]*entity.SalesLine, error) {
	query := `
		SELECT id, sales_order_id, item_id, qty, unit_price_gross, line_discount_gross,
			order_discount_alloc_gross, vat_rate, unit_price_net, unit_cost_basis, cost_method,
			cost_source_po_id, revenue_net, cost_total, profit, created_at
		FROM sales_lines WHERE sales_order_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list sales lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.SalesLine
	for rows.Next() {
		var l entity.SalesLine
		if err := rows.Scan(&l.ID, &l.SalesOrderID, &l.ItemID, &l.Qty, &l.UnitPriceGross,
			&l.LineDiscountGross, &l.OrderDiscountAllocGross, &l.VATRate, &l.UnitPriceNet,
			&l.UnitCostBasis, &l.CostMethod, &l.CostSourcePOID, &l.RevenueNet, &l.CostTotal,
			&l.Profit, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sales line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// ListOrders lista órdenes (solo cabeceras) con paginación.
func (r *SalesRepo) ListOrders(limit, offset int) ([]*entity.SalesOrder, error) {
	query := `SELECT ` + salesOrderColumns + ` FROM sales_orders ORDER BY order_date DESC, created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.SalesOrder
	for rows.Next() {
		var o entity.SalesOrder
		if err := rows.Scan(&o.ID, &o.Channel, &o.OrderNumber, &o.OrderDate, &o.Customer,
			&o.OrderDiscountGross, &o.ShippingGross, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sales order: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

// UpdateLineSnapshot reescribe el snapshot económico de una línea (recálculo explícito).
func (r *SalesRepo) UpdateLineSnapshot(line *entity.SalesLine) error {
	query := `
		UPDATE sales_lines SET order_discount_alloc_gross = $2, vat_rate = $3, unit_price_net = $4,
			unit_cost_basis = $5, cost_method = $6, cost_source_po_id = $7,
			revenue_net = $8, cost_total = $9, profit = $10
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.OrderDiscountAllocGross, line.VATRate, line.UnitPriceNet,
		line.UnitCostBasis, line.CostMethod, line.CostSourcePOID,
		line.RevenueNet, line.CostTotal, line.Profit,
	)
	if err != nil {
		return fmt.Errorf("update line snapshot: %w", err)
	}
	return nil
}
