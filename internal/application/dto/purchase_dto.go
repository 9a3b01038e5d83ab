package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─────────────────────────────────────────────
// Compras: órdenes con flete prorrateado
// ─────────────────────────────────────────────

// CreatePurchaseLineRequest línea de una orden de compra entrante.
type CreatePurchaseLineRequest struct {
	SKU              string          `json:"sku" validate:"required"`
	Qty              int64           `json:"qty" validate:"required,min=1"`
	UnitCostNet      decimal.Decimal `json:"unit_cost_net"`
	PackagingPerUnit decimal.Decimal `json:"packaging_per_unit"`
}

// CreatePurchaseOrderRequest entrada para registrar una orden de compra.
type CreatePurchaseOrderRequest struct {
	OrderNumber      string                      `json:"order_number" validate:"required,min=1,max=100"`
	Supplier         string                      `json:"supplier"`
	OrderDate        *time.Time                  `json:"order_date"`
	ArrivalDate      *time.Time                  `json:"arrival_date"`
	FreightTotal     decimal.Decimal             `json:"freight_total"`
	AllocationMethod string                      `json:"allocation_method" validate:"omitempty,oneof=value qty"`
	Notes            string                      `json:"notes"`
	Lines            []CreatePurchaseLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// PurchaseLineResponse línea con su prorrateo de flete y costo aterrizado.
type PurchaseLineResponse struct {
	ID               string          `json:"id"`
	ItemID           string          `json:"item_id"`
	SKU              string          `json:"sku,omitempty"`
	Qty              int64           `json:"qty"`
	UnitCostNet      decimal.Decimal `json:"unit_cost_net"`
	PackagingPerUnit decimal.Decimal `json:"packaging_per_unit"`
	FreightAllocated decimal.Decimal `json:"freight_allocated"`
	FreightPerUnit   decimal.Decimal `json:"freight_per_unit"`
	LandedUnitCost   decimal.Decimal `json:"landed_unit_cost"`
}

// PurchaseOrderResponse salida de una orden de compra con sus líneas.
type PurchaseOrderResponse struct {
	ID               string                 `json:"id"`
	OrderNumber      string                 `json:"order_number"`
	Supplier         string                 `json:"supplier"`
	OrderDate        *time.Time             `json:"order_date,omitempty"`
	ArrivalDate      *time.Time             `json:"arrival_date,omitempty"`
	FreightTotal     decimal.Decimal        `json:"freight_total"`
	AllocationMethod string                 `json:"allocation_method"`
	Notes            string                 `json:"notes,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
	Lines            []PurchaseLineResponse `json:"lines"`
}

// PurchaseOrderListResponse lista paginada de órdenes de compra.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// UpdatePurchaseOrderRequest cambios de cabecera que disparan re-prorrateo.
type UpdatePurchaseOrderRequest struct {
	Supplier         *string          `json:"supplier"`
	OrderDate        *time.Time       `json:"order_date"`
	ArrivalDate      *time.Time       `json:"arrival_date"`
	FreightTotal     *decimal.Decimal `json:"freight_total"`
	AllocationMethod *string          `json:"allocation_method" validate:"omitempty,oneof=value qty"`
	Notes            *string          `json:"notes"`
}
