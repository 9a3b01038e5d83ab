package costing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/margenes-api/internal/domain/costing"
	"github.com/jhoicas/margenes-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func purchaseLine(qty int64, unitCost, packaging string) *entity.PurchaseLine {
	return &entity.PurchaseLine{
		Qty:              qty,
		UnitCostNet:      d(unitCost),
		PackagingPerUnit: d(packaging),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Prorrateo de flete
// ──────────────────────────────────────────────────────────────────────────────

// Método value: el flete se reparte proporcional al valor (costo × qty).
// Flete 100, líneas de valor 300 y 100 → 75 y 25.
func TestAllocateFreight_PorValor(t *testing.T) {
	order := &entity.PurchaseOrder{
		FreightTotal:     d("100"),
		AllocationMethod: entity.AllocationByValue,
		Lines: []*entity.PurchaseLine{
			purchaseLine(30, "10", "0"), // valor 300
			purchaseLine(10, "10", "0"), // valor 100
		},
	}
	costing.AllocateFreight(order)

	assert.True(t, order.Lines[0].FreightAllocated.Equal(d("75")),
		"línea de valor 300 recibe 75: %s", order.Lines[0].FreightAllocated)
	assert.True(t, order.Lines[1].FreightAllocated.Equal(d("25")))
	assert.True(t, order.Lines[0].FreightPerUnit.Equal(d("2.5")))
	assert.True(t, order.Lines[0].LandedUnitCost.Equal(d("12.5")),
		"landed = neto + flete/unidad + empaque")
}

// Método qty: flete 40, cantidades 30 y 10 → 30 y 10.
func TestAllocateFreight_PorCantidad(t *testing.T) {
	order := &entity.PurchaseOrder{
		FreightTotal:     d("40"),
		AllocationMethod: entity.AllocationByQuantity,
		Lines: []*entity.PurchaseLine{
			purchaseLine(30, "5", "0"),
			purchaseLine(10, "50", "0"), // valor alto pero solo 10 unidades
		},
	}
	costing.AllocateFreight(order)

	assert.True(t, order.Lines[0].FreightAllocated.Equal(d("30")))
	assert.True(t, order.Lines[1].FreightAllocated.Equal(d("10")))
	assert.True(t, order.Lines[0].FreightPerUnit.Equal(d("1")))
	assert.True(t, order.Lines[1].FreightPerUnit.Equal(d("1")))
}

// Sin flete (cero o negativo): asignaciones en cero y landed = neto + empaque.
func TestAllocateFreight_SinFlete(t *testing.T) {
	order := &entity.PurchaseOrder{
		FreightTotal:     decimal.Zero,
		AllocationMethod: entity.AllocationByValue,
		Lines: []*entity.PurchaseLine{
			purchaseLine(5, "8", "0.50"),
		},
	}
	costing.AllocateFreight(order)

	l := order.Lines[0]
	assert.True(t, l.FreightAllocated.IsZero())
	assert.True(t, l.FreightPerUnit.IsZero())
	assert.True(t, l.LandedUnitCost.Equal(d("8.50")),
		"sin flete el landed es neto + empaque: %s", l.LandedUnitCost)
}

// Suma de pesos cero (todas las líneas con qty 0 en método qty): todo en cero.
func TestAllocateFreight_PesoTotalCero(t *testing.T) {
	order := &entity.PurchaseOrder{
		FreightTotal:     d("50"),
		AllocationMethod: entity.AllocationByQuantity,
		Lines: []*entity.PurchaseLine{
			purchaseLine(0, "10", "0"),
			purchaseLine(0, "20", "0"),
		},
	}
	costing.AllocateFreight(order)

	for i, l := range order.Lines {
		assert.True(t, l.FreightAllocated.IsZero(), "línea %d sin asignación", i)
		assert.True(t, l.LandedUnitCost.Equal(l.UnitCostNet), "línea %d", i)
	}
}

// Línea con qty 0 dentro de una orden con flete: alloc/max(qty,1) no divide por cero.
func TestAllocateFreight_LineaSinCantidad(t *testing.T) {
	order := &entity.PurchaseOrder{
		FreightTotal:     d("10"),
		AllocationMethod: entity.AllocationByValue,
		Lines: []*entity.PurchaseLine{
			purchaseLine(0, "100", "0"), // valor 0: no recibe flete
			purchaseLine(10, "10", "0"),
		},
	}
	costing.AllocateFreight(order)

	assert.True(t, order.Lines[0].FreightAllocated.IsZero())
	assert.True(t, order.Lines[1].FreightAllocated.Equal(d("10")))
}

// Conservación: la suma de asignaciones es exactamente el flete total, incluso
// cuando las proporciones producen decimales periódicos (1/3).
func TestAllocateFreight_ConservacionConRedondeo(t *testing.T) {
	order := &entity.PurchaseOrder{
		FreightTotal:     d("100"),
		AllocationMethod: entity.AllocationByQuantity,
		Lines: []*entity.PurchaseLine{
			purchaseLine(1, "10", "0"),
			purchaseLine(1, "10", "0"),
			purchaseLine(1, "10", "0"),
		},
	}
	costing.AllocateFreight(order)

	var sum decimal.Decimal
	for _, l := range order.Lines {
		sum = sum.Add(l.FreightAllocated)
	}
	assert.True(t, sum.Equal(d("100")),
		"la suma de asignaciones debe conservar el flete total: %s", sum)
}

// Idempotencia: recalcular sobre una orden ya asignada no cambia nada.
func TestAllocateFreight_Idempotente(t *testing.T) {
	order := &entity.PurchaseOrder{
		FreightTotal:     d("33.33"),
		AllocationMethod: entity.AllocationByValue,
		Lines: []*entity.PurchaseLine{
			purchaseLine(7, "12.40", "0.30"),
			purchaseLine(3, "8.10", "0"),
		},
	}
	costing.AllocateFreight(order)

	first := make([]decimal.Decimal, len(order.Lines))
	for i, l := range order.Lines {
		first[i] = l.LandedUnitCost
	}

	costing.AllocateFreight(order)
	for i, l := range order.Lines {
		require.True(t, l.LandedUnitCost.Equal(first[i]),
			"línea %d: segundo cálculo debe ser idéntico", i)
	}
}
