package sales

import (
	"context"

	"github.com/jhoicas/margenes-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. El pipeline de ventas necesita el catálogo
// (crear artículos faltantes), el historial de compras (costo base) y la
// auditoría en la MISMA transacción que la orden: o se persiste todo el
// snapshot costeado o nada.
type TxRunner interface {
	RunSales(ctx context.Context, fn func(
		salesRepo repository.SalesRepository,
		itemRepo repository.ItemRepository,
		purchaseRepo repository.PurchaseRepository,
		auditRepo repository.AuditRepository,
	) error) error
}
