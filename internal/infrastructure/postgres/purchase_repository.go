package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/margenes-api/internal/domain/costing"
	"github.com/jhoicas/margenes-api/internal/domain/entity"
	"github.com/jhoicas/margenes-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación del puerto PurchaseRepository sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador de persistencia para compras. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// CreateOrder persiste la orden con sus líneas. Debe llamarse dentro de una
// transacción (TxRunner) para que cabecera y líneas entren juntas.
func (r *PurchaseRepo) CreateOrder(order *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (id, order_number, supplier, order_date, arrival_date, freight_total, allocation_method, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.OrderNumber, order.Supplier, order.OrderDate, order.ArrivalDate,
		order.FreightTotal, order.AllocationMethod, order.Notes, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase order: %w", err)
	}
	for _, l := range order.Lines {
		if err := r.insertLine(l); err != nil {
			return err
		}
	}
	return nil
}

func (r *PurchaseRepo) insertLine(l *entity.PurchaseLine) error {
	query := `
		INSERT INTO purchase_lines (id, purchase_order_id, item_id, qty, unit_cost_net, packaging_per_unit, freight_allocated, freight_per_unit, landed_unit_cost, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.PurchaseOrderID, l.ItemID, l.Qty, l.UnitCostNet, l.PackagingPerUnit,
		l.FreightAllocated, l.FreightPerUnit, l.LandedUnitCost, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase line: %w", err)
	}
	return nil
}

// GetOrderByID obtiene una orden con sus líneas.
func (r *PurchaseRepo) GetOrderByID(id string) (*entity.PurchaseOrder, error) {
	query := `
		SELECT id, order_number, supplier, order_date, arrival_date, freight_total, allocation_method, notes, created_at, updated_at
		FROM purchase_orders WHERE id = $1`
	return r.getOrder(query, id)
}

// GetOrderByIDForUpdate obtiene la orden y bloquea su fila (SELECT FOR UPDATE).
// Usar dentro de una transacción antes de re-prorratear: serializa los
// recálculos concurrentes sobre la misma orden.
func (r *PurchaseRepo) GetOrderByIDForUpdate(id string) (*entity.PurchaseOrder, error) {
	query := `
		SELECT id, order_number, supplier, order_date, arrival_date, freight_total, allocation_method, notes, created_at, updated_at
		FROM purchase_orders WHERE id = $1
		FOR UPDATE`
	return r.getOrder(query, id)
}

func (r *PurchaseRepo) getOrder(query, id string) (*entity.PurchaseOrder, error) {
	var o entity.PurchaseOrder
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.OrderNumber, &o.Supplier, &o.OrderDate, &o.ArrivalDate,
		&o.FreightTotal, &o.AllocationMethod, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	lines, err := r.linesByOrder(id)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return &o, nil
}

func (r *PurchaseRepo) linesByOrder(orderID string) ([]*entity.PurchaseLine, error) {
	query := `
		SELECT id, purchase_order_id, item_id, qty, unit_cost_net, packaging_per_unit, freight_allocated, freight_per_unit, landed_unit_cost, created_at
		FROM purchase_lines WHERE purchase_order_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseLine
	for rows.Next() {
		var l entity.PurchaseLine
		if err := rows.Scan(&l.ID, &l.PurchaseOrderID, &l.ItemID, &l.Qty, &l.UnitCostNet,
			&l.PackagingPerUnit, &l.FreightAllocated, &l.FreightPerUnit, &l.LandedUnitCost,
			&l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// ListOrders lista órdenes (solo cabeceras) con paginación.
func (r *PurchaseRepo) ListOrders(limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `
		SELECT id, order_number, supplier, order_date, arrival_date, freight_total, allocation_method, notes, created_at, updated_at
		FROM purchase_orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		var o entity.PurchaseOrder
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.Supplier, &o.OrderDate, &o.ArrivalDate,
			&o.FreightTotal, &o.AllocationMethod, &o.Notes, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

// UpdateOrder actualiza la cabecera de la orden (flete, fechas, método).
func (r *PurchaseRepo) UpdateOrder(order *entity.PurchaseOrder) error {
	query := `
		UPDATE purchase_orders SET supplier = $2, order_date = $3, arrival_date = $4, freight_total = $5, allocation_method = $6, notes = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.Supplier, order.OrderDate, order.ArrivalDate,
		order.FreightTotal, order.AllocationMethod, order.Notes, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	return nil
}

// UpdateLineAllocations actualiza solo los campos que escribe el motor de prorrateo.
func (r *PurchaseRepo) UpdateLineAllocations(line *entity.PurchaseLine) error {
	query := `
		UPDATE purchase_lines SET freight_allocated = $2, freight_per_unit = $3, landed_unit_cost = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.FreightAllocated, line.FreightPerUnit, line.LandedUnitCost,
	)
	if err != nil {
		return fmt.Errorf("update line allocations: %w", err)
	}
	return nil
}

// CostCandidates materializa el historial de compras de un artículo para el
// resolutor de costo base. La fecha efectiva y el fallback de landed cost se
// resuelven aquí en SQL; la aritmética de resolución vive en costing.
func (r *PurchaseRepo) CostCandidates(itemID string) ([]costing.CostCandidate, error) {
	const query = `
	SELECT
	    po.id                                                              AS purchase_order_id,
	    COALESCE(po.arrival_date, po.order_date, po.created_at::date)      AS effective_date,
	    pl.qty,
	    CASE
	        WHEN pl.landed_unit_cost > 0 THEN pl.landed_unit_cost
	        ELSE pl.unit_cost_net + pl.packaging_per_unit
	    END                                                                AS landed_unit_cost
	FROM purchase_lines pl
	JOIN purchase_orders po ON po.id = pl.purchase_order_id
	WHERE pl.item_id = $1
	  AND pl.qty > 0`

	rows, err := r.q.Query(context.Background(), query, itemID)
	if err != nil {
		return nil, fmt.Errorf("cost candidates: %w", err)
	}
	defer rows.Close()
	var list []costing.CostCandidate
	for rows.Next() {
		var c costing.CostCandidate
		if err := rows.Scan(&c.PurchaseOrderID, &c.EffectiveDate, &c.Qty, &c.LandedUnitCost); err != nil {
			return nil, fmt.Errorf("scan cost candidate: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
