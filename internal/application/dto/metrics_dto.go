package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecomputeMetricsRequest rango de fechas a recalcular (inclusive).
type RecomputeMetricsRequest struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

// RecomputeMetricsResponse resumen del recálculo ejecutado.
type RecomputeMetricsResponse struct {
	From       string    `json:"from"`
	To         string    `json:"to"`
	DaysStored int       `json:"days_stored"`
	SkuRows    int       `json:"sku_rows"`
	ComputedAt time.Time `json:"computed_at"`
}

// DailyMetricResponse agregado diario persistido.
type DailyMetricResponse struct {
	Day           string          `json:"day"`
	OrdersCount   int64           `json:"orders_count"`
	UnitsSold     int64           `json:"units_sold"`
	RevenueNet    decimal.Decimal `json:"revenue_net"`
	COGS          decimal.Decimal `json:"cogs"`
	Profit        decimal.Decimal `json:"profit"`
	MarginPct     decimal.Decimal `json:"margin_pct"`
	DiscountGross decimal.Decimal `json:"discount_gross"`
	DiscountNet   decimal.Decimal `json:"discount_net"`
	ComputedAt    time.Time       `json:"computed_at"`
}

// DailyMetricListResponse serie diaria de un rango.
type DailyMetricListResponse struct {
	From  string                `json:"from"`
	To    string                `json:"to"`
	Items []DailyMetricResponse `json:"items"`
}
