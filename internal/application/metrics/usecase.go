package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/margenes-api/internal/domain"
	"github.com/jhoicas/margenes-api/internal/domain/costing"
	"github.com/jhoicas/margenes-api/internal/domain/entity"
	"github.com/jhoicas/margenes-api/internal/domain/repository"
)

const dayLayout = "2006-01-02"

// UseCase regenera los agregados diarios a partir de los snapshots de líneas
// persistidos. El recálculo es idempotente: borra el rango completo y lo
// reconstruye desde cero, nunca acumula sobre lo existente.
type UseCase struct {
	txRunner    TxRunner
	metricsRepo repository.MetricsRepository
}

// NewUseCase construye el caso de uso de métricas.
func NewUseCase(txRunner TxRunner, metricsRepo repository.MetricsRepository) *UseCase {
	return &UseCase{txRunner: txRunner, metricsRepo: metricsRepo}
}

// Result resumen de un recálculo ejecutado.
type Result struct {
	From       time.Time
	To         time.Time
	DaysStored int
	SkuRows    int
	ComputedAt time.Time
}

// Recompute regenera los agregados del rango [from, to] (fechas YYYY-MM-DD,
// inclusive). Adquiere un advisory lock ligado a la transacción para
// serializar recálculos concurrentes del mismo proceso o de otros.
// Una línea cuyo artículo ya no existe aborta el recálculo completo.
func (uc *UseCase) Recompute(ctx context.Context, from, to, actorID string) (*Result, error) {
	fromDay, toDay, err := ParseRange(from, to)
	if err != nil {
		return nil, err
	}

	computedAt := time.Now()
	res := &Result{From: fromDay, To: toDay, ComputedAt: computedAt}

	err = uc.txRunner.RunMetrics(ctx, func(
		metricsRepo repository.MetricsRepository,
		auditRepo repository.AuditRepository,
	) error {
		if err := metricsRepo.AcquireRecomputeLock(); err != nil {
			return err
		}
		snapshots, err := metricsRepo.SnapshotsInRange(fromDay, toDay)
		if err != nil {
			return err
		}
		daily, skuDaily := costing.AggregateDaily(snapshots, computedAt)

		if err := metricsRepo.DeleteRange(fromDay, toDay); err != nil {
			return err
		}
		if err := metricsRepo.InsertDaily(daily); err != nil {
			return err
		}
		if err := metricsRepo.InsertSkuDaily(skuDaily); err != nil {
			return err
		}
		res.DaysStored = len(daily)
		res.SkuRows = len(skuDaily)

		return auditRepo.Append(&entity.AuditLog{
			ID:         uuid.New().String(),
			EntityType: "metrics",
			EntityID:   fmt.Sprintf("%s..%s", fromDay.Format(dayLayout), toDay.Format(dayLayout)),
			Action:     "recompute",
			NewValue:   fmt.Sprintf("%d días, %d filas por SKU", len(daily), len(skuDaily)),
			ActorID:    actorID,
			CreatedAt:  computedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// DailyRange devuelve los agregados diarios persistidos del rango.
func (uc *UseCase) DailyRange(from, to string) ([]entity.DailyMetric, error) {
	fromDay, toDay, err := ParseRange(from, to)
	if err != nil {
		return nil, err
	}
	return uc.metricsRepo.DailyRange(fromDay, toDay)
}

// ParseRange parsea un rango de fechas YYYY-MM-DD inclusive.
// Devuelve domain.ErrInvalidDateRange si alguna fecha es inválida o si
// from es posterior a to.
func ParseRange(from, to string) (time.Time, time.Time, error) {
	fromDay, err := time.Parse(dayLayout, from)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidDateRange
	}
	toDay, err := time.Parse(dayLayout, to)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidDateRange
	}
	if fromDay.After(toDay) {
		return time.Time{}, time.Time{}, domain.ErrInvalidDateRange
	}
	return fromDay, toDay, nil
}
