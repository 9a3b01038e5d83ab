package purchasing

import (
	"context"

	"github.com/jhoicas/margenes-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la orden, su prorrateo y su
// rastro de auditoría se persistan de forma atómica.
type TxRunner interface {
	RunPurchasing(ctx context.Context, fn func(
		purchaseRepo repository.PurchaseRepository,
		auditRepo repository.AuditRepository,
	) error) error
}
