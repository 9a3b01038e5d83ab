package repository

import (
	"github.com/jhoicas/margenes-api/internal/domain/costing"
	"github.com/jhoicas/margenes-api/internal/domain/entity"
)

// PurchaseRepository define el puerto de persistencia para órdenes de compra.
//
// CostCandidates materializa el historial de compras de un artículo como
// candidatas para el resolutor de costo base: excluye líneas con qty <= 0,
// resuelve la fecha efectiva (llegada > orden > creación) y aplica el
// fallback de landed cost (neto + empaque) si el prorrateo nunca corrió.
// La aritmética de resolución vive en costing; aquí solo se materializa.
type PurchaseRepository interface {
	CreateOrder(order *entity.PurchaseOrder) error
	GetOrderByID(id string) (*entity.PurchaseOrder, error)
	// GetOrderByIDForUpdate bloquea la fila de la orden (SELECT FOR UPDATE).
	// Los re-prorrateos leen la orden con este método dentro de su
	// transacción para serializar recálculos concurrentes.
	GetOrderByIDForUpdate(id string) (*entity.PurchaseOrder, error)
	ListOrders(limit, offset int) ([]*entity.PurchaseOrder, error)
	UpdateOrder(order *entity.PurchaseOrder) error
	UpdateLineAllocations(line *entity.PurchaseLine) error
	CostCandidates(itemID string) ([]costing.CostCandidate, error)
}
