package costing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/margenes-api/internal/domain/entity"
)

// AllocateFreight prorratea el flete total de la orden entre sus líneas y
// escribe FreightAllocated, FreightPerUnit y LandedUnitCost en cada una.
//
// Peso por línea según el método de la orden:
//   - value (por defecto): costo_neto × cantidad
//   - qty: cantidad
//
// asignado = flete_total × peso / suma_pesos. El per-unit divide entre
// max(qty, 1) para no dividir por cero en líneas sin cantidad. Si no hay
// flete o la suma de pesos es cero, todas las asignaciones quedan en cero y
// el landed cost es neto + empaque.
//
// Determinista e idempotente: recalcular sobre una orden ya asignada produce
// exactamente los mismos valores. El remanente de redondeo (4 decimales) se
// asigna a la línea de mayor peso para que la suma de asignaciones sea igual
// al flete total.
func AllocateFreight(order *entity.PurchaseOrder) {
	lines := order.Lines
	if len(lines) == 0 {
		return
	}

	if !order.FreightTotal.IsPositive() {
		for _, l := range lines {
			l.FreightAllocated = decimal.Zero
			l.FreightPerUnit = decimal.Zero
			l.LandedUnitCost = RoundCost(l.UnitCostNet.Add(l.PackagingPerUnit))
		}
		return
	}

	weights := make([]decimal.Decimal, len(lines))
	var totalWeight decimal.Decimal
	for i, l := range lines {
		weights[i] = lineWeight(l, order.AllocationMethod)
		totalWeight = totalWeight.Add(weights[i])
	}

	if !totalWeight.IsPositive() {
		for _, l := range lines {
			l.FreightAllocated = decimal.Zero
			l.FreightPerUnit = decimal.Zero
			l.LandedUnitCost = RoundCost(l.UnitCostNet.Add(l.PackagingPerUnit))
		}
		return
	}

	largest := 0
	var assigned decimal.Decimal
	for i, l := range lines {
		if weights[i].GreaterThan(weights[largest]) {
			largest = i
		}
		alloc := RoundCost(order.FreightTotal.Mul(weights[i]).Div(totalWeight))
		l.FreightAllocated = alloc
		assigned = assigned.Add(alloc)
	}

	// Conservación: el residuo del redondeo va a la línea de mayor peso.
	if rem := order.FreightTotal.Sub(assigned); !rem.IsZero() {
		lines[largest].FreightAllocated = lines[largest].FreightAllocated.Add(rem)
	}

	for _, l := range lines {
		l.FreightPerUnit = RoundCost(l.FreightAllocated.Div(atLeastOne(l.Qty)))
		l.LandedUnitCost = RoundCost(l.UnitCostNet.Add(l.FreightPerUnit).Add(l.PackagingPerUnit))
	}
}

func lineWeight(l *entity.PurchaseLine, method string) decimal.Decimal {
	qty := decimal.NewFromInt(l.Qty)
	if method == entity.AllocationByQuantity {
		return qty
	}
	return l.UnitCostNet.Mul(qty)
}

func atLeastOne(qty int64) decimal.Decimal {
	if qty < 1 {
		return one
	}
	return decimal.NewFromInt(qty)
}
