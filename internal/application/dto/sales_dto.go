package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─────────────────────────────────────────────
// Ventas: órdenes con descuentos y costeo
// ─────────────────────────────────────────────

// CreateSalesLineRequest línea de venta entrante (valores brutos con IVA).
type CreateSalesLineRequest struct {
	SKU               string           `json:"sku" validate:"required"`
	Description       string           `json:"description"`
	Qty               int64            `json:"qty" validate:"required,min=1"`
	UnitPriceGross    decimal.Decimal  `json:"unit_price_gross"`
	LineDiscountGross decimal.Decimal  `json:"line_discount_gross"`
	VATRate           *decimal.Decimal `json:"vat_rate"`
}

// CreateSalesOrderRequest entrada para registrar una venta. El par
// (channel, order_number) es único: reenviar la misma orden es un conflicto.
type CreateSalesOrderRequest struct {
	Channel            string                   `json:"channel" validate:"required,min=1,max=50"`
	OrderNumber        string                   `json:"order_number" validate:"required,min=1,max=100"`
	OrderDate          time.Time                `json:"order_date" validate:"required"`
	Customer           string                   `json:"customer"`
	OrderDiscountGross decimal.Decimal          `json:"order_discount_gross"`
	ShippingGross      decimal.Decimal          `json:"shipping_gross"`
	CostMethod         string                   `json:"cost_method" validate:"omitempty,oneof=weighted_avg last"`
	Lines              []CreateSalesLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// SalesLineResponse línea con su snapshot económico congelado.
type SalesLineResponse struct {
	ID                      string          `json:"id"`
	ItemID                  string          `json:"item_id"`
	SKU                     string          `json:"sku,omitempty"`
	Qty                     int64           `json:"qty"`
	UnitPriceGross          decimal.Decimal `json:"unit_price_gross"`
	LineDiscountGross       decimal.Decimal `json:"line_discount_gross"`
	OrderDiscountAllocGross decimal.Decimal `json:"order_discount_alloc_gross"`
	VATRate                 decimal.Decimal `json:"vat_rate"`
	UnitPriceNet            decimal.Decimal `json:"unit_price_net"`
	UnitCostBasis           decimal.Decimal `json:"unit_cost_basis"`
	CostMethod              string          `json:"cost_method"`
	CostSourcePOID          *string         `json:"cost_source_po_id,omitempty"`
	RevenueNet              decimal.Decimal `json:"revenue_net"`
	CostTotal               decimal.Decimal `json:"cost_total"`
	Profit                  decimal.Decimal `json:"profit"`
}

// SalesOrderResponse salida de una venta con sus líneas costeadas.
type SalesOrderResponse struct {
	ID                 string              `json:"id"`
	Channel            string              `json:"channel"`
	OrderNumber        string              `json:"order_number"`
	OrderDate          time.Time           `json:"order_date"`
	Customer           string              `json:"customer,omitempty"`
	OrderDiscountGross decimal.Decimal     `json:"order_discount_gross"`
	ShippingGross      decimal.Decimal     `json:"shipping_gross"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
	Lines              []SalesLineResponse `json:"lines"`
}

// SalesOrderListResponse lista paginada de ventas.
type SalesOrderListResponse struct {
	Items []SalesOrderResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// ImportSalesResult resumen de una importación por lotes.
type ImportSalesResult struct {
	Created    int      `json:"created"`
	Duplicates int      `json:"duplicates"`
	Errors     []string `json:"errors,omitempty"`
}
