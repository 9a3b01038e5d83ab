package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LiveTotalsResult totales del rango calculados en vivo desde los snapshots
// de líneas (sin pasar por los agregados diarios).
type LiveTotalsResult struct {
	OrdersCount   int64
	UnitsSold     int64
	RevenueNet    decimal.Decimal
	COGS          decimal.Decimal
	Profit        decimal.Decimal
	DiscountGross decimal.Decimal
}

// SKUSalesResult ventas agregadas por SKU en un rango.
type SKUSalesResult struct {
	ItemID        string
	SKU           string
	Description   string
	UnitsSold     int64
	RevenueNet    decimal.Decimal
	CostTotal     decimal.Decimal
	Profit        decimal.Decimal
	DiscountGross decimal.Decimal
	DiscountNet   decimal.Decimal
}

// AlertRowResult línea de venta candidata a alerta (margen, descuento).
type AlertRowResult struct {
	OrderID       string
	Channel       string
	OrderNumber   string
	OrderDate     time.Time
	SKU           string
	Qty           int64
	RevenueNet    decimal.Decimal
	Profit        decimal.Decimal
	DiscountGross decimal.Decimal
	LineGross     decimal.Decimal // bruto de línea antes de descuentos
}

// RecentOrderResult orden reciente para el widget del dashboard.
type RecentOrderResult struct {
	OrderID     string
	Channel     string
	OrderNumber string
	OrderDate   time.Time
	LineCount   int64
	RevenueNet  decimal.Decimal
	Profit      decimal.Decimal
}

// ReportingRepository consultas de solo lectura para dashboard y reportes.
// Siempre opera sobre el pool (nunca dentro de una transacción de escritura).
type ReportingRepository interface {
	// LiveTotals agrega directamente los snapshots de líneas del rango.
	// Es el fallback del dashboard cuando los agregados diarios no cubren
	// el rango completo.
	LiveTotals(ctx context.Context, from, to time.Time) (LiveTotalsResult, error)
	// MetricDaysCovered cuenta los días del rango con DailyMetric presente.
	MetricDaysCovered(ctx context.Context, from, to time.Time) (int, error)
	TopSKUsByUnits(ctx context.Context, from, to time.Time, limit int) ([]SKUSalesResult, error)
	TopSKUsByProfit(ctx context.Context, from, to time.Time, limit int) ([]SKUSalesResult, error)
	SKUSales(ctx context.Context, from, to time.Time) ([]SKUSalesResult, error)
	AlertRows(ctx context.Context, from, to time.Time) ([]AlertRowResult, error)
	RecentOrders(ctx context.Context, limit int) ([]RecentOrderResult, error)
	// MissingCostCount líneas del rango con costo base en cero pese a tener
	// cantidad: huecos de datos silenciosos que el dashboard hace visibles.
	MissingCostCount(ctx context.Context, from, to time.Time) (int64, error)
}
