package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyMetric agregado diario de ventas, derivado de los snapshots de líneas.
// Se regenera con el recálculo de métricas (borrar rango + reinsertar);
// nunca se actualiza incrementalmente.
type DailyMetric struct {
	Day           time.Time // fecha (sin hora)
	OrdersCount   int64
	UnitsSold     int64
	RevenueNet    decimal.Decimal
	COGS          decimal.Decimal
	Profit        decimal.Decimal
	DiscountGross decimal.Decimal
	DiscountNet   decimal.Decimal // descuento neto por tasa de IVA de cada línea
	ComputedAt    time.Time
}

// SkuMetricDaily agregado diario por artículo.
type SkuMetricDaily struct {
	Day           time.Time
	ItemID        string
	SKU           string
	UnitsSold     int64
	RevenueNet    decimal.Decimal
	Profit        decimal.Decimal
	DiscountGross decimal.Decimal
	DiscountNet   decimal.Decimal
	ComputedAt    time.Time
}
