// Package costing implementa los servicios de dominio del motor de costos:
// conversión IVA, prorrateo de flete, distribución de descuentos, resolución
// de costo base y agregación de márgenes. Todas las funciones son puras y
// operan sobre colecciones ya materializadas; la capa de persistencia alimenta
// los datos y este paquete nunca consulta nada.
package costing

import "github.com/shopspring/decimal"

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// GrossToNet convierte un monto bruto (IVA incluido) a neto: bruto / (1 + tasa/100).
// Si el factor resultante no es positivo (tasa <= -100) devuelve el bruto sin
// cambios: una tasa corrupta no debe producir montos negativos ni división por cero.
func GrossToNet(gross, vatRatePercent decimal.Decimal) decimal.Decimal {
	factor := one.Add(vatRatePercent.Div(hundred))
	if factor.LessThanOrEqual(decimal.Zero) {
		return gross
	}
	return gross.Div(factor)
}

// VATAmount devuelve la porción de IVA de un monto bruto.
// Se deriva como bruto - neto para que neto + IVA == bruto siempre.
func VATAmount(gross, vatRatePercent decimal.Decimal) decimal.Decimal {
	return gross.Sub(GrossToNet(gross, vatRatePercent))
}

// RoundMoney redondea a 2 decimales (mitades hacia arriba). Solo se aplica en
// la frontera de persistencia o presentación; los intermedios conservan la
// precisión completa.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// RoundCost redondea a 4 decimales. Los costos unitarios y las asignaciones
// por línea se guardan con esta precisión para que la suma de las partes
// conserve el total.
func RoundCost(d decimal.Decimal) decimal.Decimal {
	return d.Round(4)
}
