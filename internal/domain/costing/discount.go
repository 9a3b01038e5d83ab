package costing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/margenes-api/internal/domain/entity"
)

// LineBase devuelve la base bruta de la línea después de su propio descuento:
// max(0, precio_bruto × qty - descuento_linea). Nunca negativa.
func LineBase(l *entity.SalesLine) decimal.Decimal {
	base := l.UnitPriceGross.Mul(decimal.NewFromInt(l.Qty)).Sub(l.LineDiscountGross)
	if base.IsNegative() {
		return decimal.Zero
	}
	return base
}

// GrossAfterDiscounts devuelve el bruto de la línea tras ambos descuentos
// (propio y porción del descuento de orden), con piso en cero.
func GrossAfterDiscounts(l *entity.SalesLine) decimal.Decimal {
	after := LineBase(l).Sub(l.OrderDiscountAllocGross)
	if after.IsNegative() {
		return decimal.Zero
	}
	return after
}

// AllocateOrderDiscount distribuye el descuento de la orden entre sus líneas
// en proporción a la base de cada una (tras descuentos de línea) y escribe
// OrderDiscountAllocGross. Si el descuento o la base total no son positivos,
// todas las asignaciones quedan en cero.
//
// Corre una sola vez al crear la orden (o en un recálculo explícito); el
// resultado queda persistido como snapshot. El remanente del redondeo a
// 4 decimales se asigna a la línea de mayor base para conservar el total.
func AllocateOrderDiscount(order *entity.SalesOrder) {
	lines := order.Lines
	if len(lines) == 0 {
		return
	}

	bases := make([]decimal.Decimal, len(lines))
	var totalBase decimal.Decimal
	for i, l := range lines {
		bases[i] = LineBase(l)
		totalBase = totalBase.Add(bases[i])
	}

	if !order.OrderDiscountGross.IsPositive() || !totalBase.IsPositive() {
		for _, l := range lines {
			l.OrderDiscountAllocGross = decimal.Zero
		}
		return
	}

	largest := 0
	var assigned decimal.Decimal
	for i, l := range lines {
		if bases[i].GreaterThan(bases[largest]) {
			largest = i
		}
		alloc := RoundCost(order.OrderDiscountGross.Mul(bases[i]).Div(totalBase))
		l.OrderDiscountAllocGross = alloc
		assigned = assigned.Add(alloc)
	}

	if rem := order.OrderDiscountGross.Sub(assigned); !rem.IsZero() {
		lines[largest].OrderDiscountAllocGross = lines[largest].OrderDiscountAllocGross.Add(rem)
	}
}
