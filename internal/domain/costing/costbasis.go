package costing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/margenes-api/internal/domain/entity"
)

// CostCandidate es una línea de compra candidata para resolver el costo base
// de una venta. La capa de persistencia la materializa con el landed cost ya
// resuelto (o su fallback neto + empaque si nunca se prorrateó flete) y la
// fecha efectiva de la orden (llegada > orden > creación).
type CostCandidate struct {
	PurchaseOrderID string
	EffectiveDate   *time.Time
	Qty             int64
	LandedUnitCost  decimal.Decimal
}

// ResolveUnitCost resuelve el costo unitario base para una venta de un SKU.
//
// Reglas:
//   - Se descartan candidatas con qty <= 0.
//   - Se prefieren las compras con fecha efectiva <= fecha de venta; si
//     ninguna existe (venta anterior a toda compra), se usa el historial
//     completo como fallback.
//   - last: costo de la compra más reciente; devuelve además el ID de la
//     orden de compra origen.
//   - weighted_avg (por defecto): Σ(qty × landed) / Σ(qty); sin orden origen.
//   - Sin historial, o suma de cantidades cero, devuelve (0, "").
//
// Pura y determinista: mismo historial y fecha producen siempre el mismo costo.
func ResolveUnitCost(candidates []CostCandidate, saleDate time.Time, method string) (decimal.Decimal, string) {
	var valid []CostCandidate
	for _, c := range candidates {
		if c.Qty > 0 {
			valid = append(valid, c)
		}
	}
	if len(valid) == 0 {
		return decimal.Zero, ""
	}

	var before []CostCandidate
	for _, c := range valid {
		if c.EffectiveDate != nil && !c.EffectiveDate.After(saleDate) {
			before = append(before, c)
		}
	}
	pool := before
	if len(pool) == 0 {
		pool = valid
	}

	// Más reciente primero; sin fecha al final. Orden estable para que
	// empates de fecha resuelvan igual en cada corrida.
	sort.SliceStable(pool, func(i, j int) bool {
		di, dj := pool[i].EffectiveDate, pool[j].EffectiveDate
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return di.After(*dj)
	})

	if method == entity.CostMethodLast {
		return pool[0].LandedUnitCost, pool[0].PurchaseOrderID
	}

	var totalQty int64
	var totalCost decimal.Decimal
	for _, c := range pool {
		totalQty += c.Qty
		totalCost = totalCost.Add(c.LandedUnitCost.Mul(decimal.NewFromInt(c.Qty)))
	}
	if totalQty <= 0 {
		return decimal.Zero, ""
	}
	return totalCost.Div(decimal.NewFromInt(totalQty)), ""
}
