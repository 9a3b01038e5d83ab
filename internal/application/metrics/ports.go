package metrics

import (
	"context"

	"github.com/jhoicas/margenes-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD. El recálculo
// borra el rango y reinserta los agregados en la MISMA transacción: un lector
// concurrente ve los agregados viejos o los nuevos, nunca un rango vacío.
type TxRunner interface {
	RunMetrics(ctx context.Context, fn func(
		metricsRepo repository.MetricsRepository,
		auditRepo repository.AuditRepository,
	) error) error
}
