package repository

import (
	"time"

	"github.com/jhoicas/margenes-api/internal/domain/costing"
	"github.com/jhoicas/margenes-api/internal/domain/entity"
)

// MetricsRepository define el puerto de persistencia para los agregados
// diarios. El recálculo borra el rango y reinserta dentro de UNA transacción;
// AcquireRecomputeLock serializa recálculos concurrentes (advisory lock de
// Postgres ligado a la transacción).
//
// SnapshotsInRange materializa las líneas de venta persistidas del rango,
// con su SKU resuelto por join. Una línea cuyo artículo ya no existe es un
// estado inconsistente: devuelve domain.ErrItemMissing y el recálculo aborta.
type MetricsRepository interface {
	AcquireRecomputeLock() error
	SnapshotsInRange(from, to time.Time) ([]costing.LineSnapshot, error)
	DeleteRange(from, to time.Time) error
	InsertDaily(rows []entity.DailyMetric) error
	InsertSkuDaily(rows []entity.SkuMetricDaily) error
	DailyRange(from, to time.Time) ([]entity.DailyMetric, error)
}
