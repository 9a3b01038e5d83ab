package costing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/margenes-api/internal/domain/costing"
	"github.com/jhoicas/margenes-api/internal/domain/entity"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func candidate(po string, eff string, qty int64, landed string) costing.CostCandidate {
	c := costing.CostCandidate{PurchaseOrderID: po, Qty: qty, LandedUnitCost: d(landed)}
	if eff != "" {
		e := day(eff)
		c.EffectiveDate = &e
	}
	return c
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolución del costo base
// ──────────────────────────────────────────────────────────────────────────────

// Promedio ponderado: 10 uds a 5.00 y 10 uds a 7.00 → 6.00.
func TestResolveUnitCost_PromedioPonderado(t *testing.T) {
	candidates := []costing.CostCandidate{
		candidate("po-1", "2026-01-10", 10, "5.00"),
		candidate("po-2", "2026-02-10", 10, "7.00"),
	}
	cost, source := costing.ResolveUnitCost(candidates, day("2026-03-01"), entity.CostMethodWeightedAvg)

	assert.True(t, cost.Equal(d("6.00")), "promedio ponderado: %s", cost)
	assert.Empty(t, source, "weighted_avg no tiene orden origen")
}

// last: costo de la compra más reciente, con su orden origen.
func TestResolveUnitCost_UltimaCompra(t *testing.T) {
	candidates := []costing.CostCandidate{
		candidate("po-1", "2026-01-10", 10, "5.00"),
		candidate("po-2", "2026-02-10", 10, "7.00"),
	}
	cost, source := costing.ResolveUnitCost(candidates, day("2026-03-01"), entity.CostMethodLast)

	assert.True(t, cost.Equal(d("7.00")))
	assert.Equal(t, "po-2", source)
}

// Frontera temporal: una venta del 2026-01-15 ignora la compra de febrero.
func TestResolveUnitCost_FronteraTemporal(t *testing.T) {
	candidates := []costing.CostCandidate{
		candidate("po-1", "2026-01-10", 10, "5.00"),
		candidate("po-2", "2026-02-10", 10, "7.00"),
	}
	cost, _ := costing.ResolveUnitCost(candidates, day("2026-01-15"), entity.CostMethodWeightedAvg)

	assert.True(t, cost.Equal(d("5.00")),
		"solo la compra anterior a la venta participa: %s", cost)
}

// Venta anterior a todo el historial: fallback al historial completo.
func TestResolveUnitCost_VentaAnteriorAlHistorial(t *testing.T) {
	candidates := []costing.CostCandidate{
		candidate("po-1", "2026-01-10", 10, "5.00"),
		candidate("po-2", "2026-02-10", 10, "7.00"),
	}
	cost, _ := costing.ResolveUnitCost(candidates, day("2025-12-01"), entity.CostMethodWeightedAvg)

	assert.True(t, cost.Equal(d("6.00")),
		"sin compras previas se usa todo el historial: %s", cost)
}

// Sin historial: costo cero, sin error (hueco de datos, no validación).
func TestResolveUnitCost_SinHistorial(t *testing.T) {
	cost, source := costing.ResolveUnitCost(nil, day("2026-01-01"), entity.CostMethodWeightedAvg)
	assert.True(t, cost.IsZero())
	assert.Empty(t, source)
}

// Las líneas con qty <= 0 no participan.
func TestResolveUnitCost_IgnoraCantidadesNoPositivas(t *testing.T) {
	candidates := []costing.CostCandidate{
		candidate("po-1", "2026-01-10", 0, "999.00"),
		candidate("po-2", "2026-01-20", 5, "4.00"),
	}
	cost, _ := costing.ResolveUnitCost(candidates, day("2026-02-01"), entity.CostMethodWeightedAvg)
	assert.True(t, cost.Equal(d("4.00")))

	soloInvalidas := []costing.CostCandidate{candidate("po-1", "2026-01-10", 0, "999.00")}
	cost, _ = costing.ResolveUnitCost(soloInvalidas, day("2026-02-01"), entity.CostMethodLast)
	assert.True(t, cost.IsZero())
}

// Candidata sin fecha efectiva: se ordena al final, pero participa en el
// fallback si ninguna compra es anterior a la venta.
func TestResolveUnitCost_SinFechaEfectiva(t *testing.T) {
	candidates := []costing.CostCandidate{
		candidate("po-1", "", 10, "3.00"),
		candidate("po-2", "2026-02-10", 10, "7.00"),
	}
	// Venta anterior a todo: pool completo, la línea con fecha gana en `last`
	cost, source := costing.ResolveUnitCost(candidates, day("2026-01-01"), entity.CostMethodLast)
	assert.True(t, cost.Equal(d("7.00")))
	assert.Equal(t, "po-2", source)
}
