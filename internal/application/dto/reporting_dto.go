package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─────────────────────────────────────────────
// Dashboard y reportes
// ─────────────────────────────────────────────

// DashboardSummaryResponse resumen del rango para el dashboard.
// Source indica si los totales salieron de los agregados diarios
// ("metrics") o de un cálculo en vivo sobre las líneas ("live").
type DashboardSummaryResponse struct {
	From             string          `json:"from"`
	To               string          `json:"to"`
	Source           string          `json:"source"`
	OrdersCount      int64           `json:"orders_count"`
	UnitsSold        int64           `json:"units_sold"`
	RevenueNet       decimal.Decimal `json:"revenue_net"`
	COGS             decimal.Decimal `json:"cogs"`
	Profit           decimal.Decimal `json:"profit"`
	MarginPct        decimal.Decimal `json:"margin_pct"`
	DiscountGross    decimal.Decimal `json:"discount_gross"`
	MissingCostLines int64           `json:"missing_cost_lines"`
	TopByUnits       []SKUSalesRow   `json:"top_by_units"`
	TopByProfit      []SKUSalesRow   `json:"top_by_profit"`
	RecentOrders     []RecentOrder   `json:"recent_orders"`
}

// SKUSalesRow fila agregada por SKU en un rango.
type SKUSalesRow struct {
	ItemID        string          `json:"item_id"`
	SKU           string          `json:"sku"`
	Description   string          `json:"description"`
	UnitsSold     int64           `json:"units_sold"`
	RevenueNet    decimal.Decimal `json:"revenue_net"`
	CostTotal     decimal.Decimal `json:"cost_total"`
	Profit        decimal.Decimal `json:"profit"`
	MarginPct     decimal.Decimal `json:"margin_pct"`
	DiscountGross decimal.Decimal `json:"discount_gross"`
	DiscountNet   decimal.Decimal `json:"discount_net"`
}

// RecentOrder orden reciente para el widget del dashboard.
type RecentOrder struct {
	OrderID     string          `json:"order_id"`
	Channel     string          `json:"channel"`
	OrderNumber string          `json:"order_number"`
	OrderDate   time.Time       `json:"order_date"`
	LineCount   int64           `json:"line_count"`
	RevenueNet  decimal.Decimal `json:"revenue_net"`
	Profit      decimal.Decimal `json:"profit"`
}

// SKUReportResponse reporte de margen por SKU de un rango.
type SKUReportResponse struct {
	From  string        `json:"from"`
	To    string        `json:"to"`
	Items []SKUSalesRow `json:"items"`
}

// DiscountReportResponse descuentos del rango, bruto y neto.
// El neto se obtiene dividiendo el bruto de cada línea por su tasa de IVA.
type DiscountReportResponse struct {
	From               string          `json:"from"`
	To                 string          `json:"to"`
	TotalDiscountGross decimal.Decimal `json:"total_discount_gross"`
	TotalDiscountNet   decimal.Decimal `json:"total_discount_net"`
	Items              []SKUSalesRow   `json:"items"`
}

// AlertRow línea o SKU que cruzó un umbral configurado.
type AlertRow struct {
	Kind        string          `json:"kind"`
	OrderID     string          `json:"order_id,omitempty"`
	Channel     string          `json:"channel,omitempty"`
	OrderNumber string          `json:"order_number,omitempty"`
	OrderDate   *time.Time      `json:"order_date,omitempty"`
	SKU         string          `json:"sku"`
	MarginPct   decimal.Decimal `json:"margin_pct"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	RevenueNet  decimal.Decimal `json:"revenue_net"`
	Profit      decimal.Decimal `json:"profit"`
}

// AlertsResponse alertas del rango con los umbrales aplicados.
type AlertsResponse struct {
	From                 string          `json:"from"`
	To                   string          `json:"to"`
	MarginThresholdPct   decimal.Decimal `json:"margin_threshold_pct"`
	DiscountThresholdPct decimal.Decimal `json:"discount_threshold_pct"`
	Items                []AlertRow      `json:"items"`
}
