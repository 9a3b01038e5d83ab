package costing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/margenes-api/internal/domain/costing"
	"github.com/jhoicas/margenes-api/internal/domain/entity"
)

func salesLine(qty int64, priceGross, lineDisc string) *entity.SalesLine {
	return &entity.SalesLine{
		Qty:               qty,
		UnitPriceGross:    d(priceGross),
		LineDiscountGross: d(lineDisc),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Distribución del descuento de orden
// ──────────────────────────────────────────────────────────────────────────────

// Descuento 10 sobre bases 60 y 40 → 6 y 4.
func TestAllocateOrderDiscount_Proporcional(t *testing.T) {
	order := &entity.SalesOrder{
		OrderDiscountGross: d("10"),
		Lines: []*entity.SalesLine{
			salesLine(2, "30", "0"), // base 60
			salesLine(1, "40", "0"), // base 40
		},
	}
	costing.AllocateOrderDiscount(order)

	assert.True(t, order.Lines[0].OrderDiscountAllocGross.Equal(d("6")))
	assert.True(t, order.Lines[1].OrderDiscountAllocGross.Equal(d("4")))
}

// La base de cada línea descuenta primero su descuento propio.
func TestAllocateOrderDiscount_BaseTrasDescuentoDeLinea(t *testing.T) {
	order := &entity.SalesOrder{
		OrderDiscountGross: d("10"),
		Lines: []*entity.SalesLine{
			salesLine(2, "30", "20"), // base 60-20 = 40
			salesLine(1, "60", "0"),  // base 60
		},
	}
	costing.AllocateOrderDiscount(order)

	assert.True(t, order.Lines[0].OrderDiscountAllocGross.Equal(d("4")))
	assert.True(t, order.Lines[1].OrderDiscountAllocGross.Equal(d("6")))
}

// Sin descuento de orden, o base total cero: asignaciones en cero.
func TestAllocateOrderDiscount_SinDescuentoOBaseCero(t *testing.T) {
	sinDescuento := &entity.SalesOrder{
		OrderDiscountGross: decimal.Zero,
		Lines:              []*entity.SalesLine{salesLine(1, "50", "0")},
	}
	costing.AllocateOrderDiscount(sinDescuento)
	assert.True(t, sinDescuento.Lines[0].OrderDiscountAllocGross.IsZero())

	// Descuento de línea mayor que el bruto: base clavada en cero
	baseCero := &entity.SalesOrder{
		OrderDiscountGross: d("5"),
		Lines:              []*entity.SalesLine{salesLine(1, "10", "999")},
	}
	costing.AllocateOrderDiscount(baseCero)
	assert.True(t, baseCero.Lines[0].OrderDiscountAllocGross.IsZero(),
		"base total cero no debe repartir descuento")
}

// Conservación: la suma de porciones es igual al descuento de orden.
func TestAllocateOrderDiscount_Conservacion(t *testing.T) {
	order := &entity.SalesOrder{
		OrderDiscountGross: d("10"),
		Lines: []*entity.SalesLine{
			salesLine(1, "33.33", "0"),
			salesLine(1, "33.33", "0"),
			salesLine(1, "33.34", "0"),
		},
	}
	costing.AllocateOrderDiscount(order)

	var sum decimal.Decimal
	for _, l := range order.Lines {
		sum = sum.Add(l.OrderDiscountAllocGross)
	}
	assert.True(t, sum.Equal(d("10")),
		"la suma de porciones debe conservar el descuento: %s", sum)
}

// GrossAfterDiscounts nunca baja de cero.
func TestGrossAfterDiscounts_PisoEnCero(t *testing.T) {
	l := salesLine(1, "10", "0")
	l.OrderDiscountAllocGross = d("25")
	assert.True(t, costing.GrossAfterDiscounts(l).IsZero())
}
