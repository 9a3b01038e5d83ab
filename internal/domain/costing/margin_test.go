package costing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/margenes-api/internal/domain/costing"
	"github.com/jhoicas/margenes-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Snapshot económico de línea
// ──────────────────────────────────────────────────────────────────────────────

// 2 uds a 59 bruto (18% IVA) con costo base 30: revenue 100, cost 60, profit 40.
func TestComputeLineEconomics_Basico(t *testing.T) {
	l := &entity.SalesLine{
		Qty:            2,
		UnitPriceGross: d("59"),
		VATRate:        d("18"),
		UnitCostBasis:  d("30"),
	}
	eco := costing.ComputeLineEconomics(l)

	assert.True(t, eco.RevenueNet.Equal(d("100")), "revenue neto: %s", eco.RevenueNet)
	assert.True(t, eco.CostTotal.Equal(d("60")))
	assert.True(t, eco.Profit.Equal(d("40")))
	assert.True(t, eco.UnitPriceNet.Equal(d("50")))
}

// Los descuentos reducen el revenue antes de quitar el IVA.
func TestComputeLineEconomics_ConDescuentos(t *testing.T) {
	l := &entity.SalesLine{
		Qty:                     2,
		UnitPriceGross:          d("59"),
		LineDiscountGross:       d("11.80"),
		OrderDiscountAllocGross: d("5.90"),
		VATRate:                 d("18"),
		UnitCostBasis:           d("30"),
	}
	eco := costing.ComputeLineEconomics(l)

	// bruto tras descuentos: 118 - 11.80 - 5.90 = 100.30; neto = 85
	assert.True(t, eco.RevenueNet.Equal(d("85")), "revenue neto: %s", eco.RevenueNet)
	assert.True(t, eco.Profit.Equal(d("25")))
}

func TestMarginPct(t *testing.T) {
	assert.True(t, costing.MarginPct(d("40"), d("100")).Equal(d("40")))
	assert.True(t, costing.MarginPct(d("10"), d("0")).IsZero(),
		"sin revenue el margen es cero, no división por cero")
}

// ──────────────────────────────────────────────────────────────────────────────
// Agregación diaria
// ──────────────────────────────────────────────────────────────────────────────

func snapshot(dayStr, orderID, sku string, qty int64, revenue, cost, discGross, vat string) costing.LineSnapshot {
	return costing.LineSnapshot{
		Day:           day(dayStr),
		OrderID:       orderID,
		ItemID:        "item-" + sku,
		SKU:           sku,
		Qty:           qty,
		RevenueNet:    d(revenue),
		CostTotal:     d(cost),
		Profit:        d(revenue).Sub(d(cost)),
		DiscountGross: d(discGross),
		VATRate:       d(vat),
	}
}

func TestAggregateDaily_AgrupaPorDiaYSKU(t *testing.T) {
	now := time.Now()
	lines := []costing.LineSnapshot{
		snapshot("2026-03-01", "o-1", "SKU-A", 2, "100", "60", "0", "18"),
		snapshot("2026-03-01", "o-1", "SKU-B", 1, "50", "20", "0", "18"),
		snapshot("2026-03-01", "o-2", "SKU-A", 3, "150", "90", "0", "18"),
		snapshot("2026-03-02", "o-3", "SKU-A", 1, "50", "30", "0", "18"),
	}

	daily, skuDaily := costing.AggregateDaily(lines, now)

	require.Len(t, daily, 2)
	require.Len(t, skuDaily, 3)

	d1 := daily[0]
	assert.Equal(t, day("2026-03-01"), d1.Day)
	assert.Equal(t, int64(2), d1.OrdersCount, "dos órdenes distintas el día 1")
	assert.Equal(t, int64(6), d1.UnitsSold)
	assert.True(t, d1.RevenueNet.Equal(d("300")))
	assert.True(t, d1.COGS.Equal(d("170")))
	assert.True(t, d1.Profit.Equal(d("130")))

	// Orden estable: día asc, SKU asc dentro del día
	assert.Equal(t, "SKU-A", skuDaily[0].SKU)
	assert.Equal(t, "SKU-B", skuDaily[1].SKU)
	assert.True(t, skuDaily[0].RevenueNet.Equal(d("250")))
	assert.Equal(t, day("2026-03-02"), skuDaily[2].Day)
}

// El descuento neto se calcula con la tasa de IVA de cada línea, no con una
// tasa plana sobre el total.
func TestAggregateDaily_DescuentoNetoPorTasa(t *testing.T) {
	lines := []costing.LineSnapshot{
		snapshot("2026-03-01", "o-1", "SKU-A", 1, "100", "0", "11.80", "18"),
		snapshot("2026-03-01", "o-1", "SKU-B", 1, "100", "0", "10.50", "5"),
	}

	daily, _ := costing.AggregateDaily(lines, time.Now())
	require.Len(t, daily, 1)

	// 11.80/1.18 = 10; 10.50/1.05 = 10 → neto 20
	assert.True(t, daily[0].DiscountGross.Equal(d("22.30")))
	assert.True(t, daily[0].DiscountNet.Equal(d("20")),
		"descuento neto ponderado por tasa de cada línea: %s", daily[0].DiscountNet)
}

// Determinismo: el mismo insumo produce el mismo agregado (recalcular es idempotente).
func TestAggregateDaily_Determinista(t *testing.T) {
	now := time.Now()
	lines := []costing.LineSnapshot{
		snapshot("2026-03-02", "o-2", "SKU-B", 1, "33.33", "11.11", "1.23", "18"),
		snapshot("2026-03-01", "o-1", "SKU-A", 2, "66.67", "22.22", "0", "18"),
	}

	d1, s1 := costing.AggregateDaily(lines, now)
	d2, s2 := costing.AggregateDaily(lines, now)

	assert.Equal(t, d1, d2)
	assert.Equal(t, s1, s2)
}

func TestAggregateDaily_SinLineas(t *testing.T) {
	daily, skuDaily := costing.AggregateDaily(nil, time.Now())
	assert.Empty(t, daily)
	assert.Empty(t, skuDaily)
}
