package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un artículo del catálogo.
type CreateItemRequest struct {
	SKU         string           `json:"sku" validate:"required,min=1,max=100"`
	Description string           `json:"description" validate:"required,min=1,max=300"`
	Brand       string           `json:"brand"`
	Supplier    string           `json:"supplier"`
	Colour      string           `json:"colour"`
	Size        string           `json:"size"`
	Weight      *decimal.Decimal `json:"weight"`
	VATRate     *decimal.Decimal `json:"vat_rate"`
}

// UpdateItemRequest entrada para actualizar un artículo (SKU inmutable).
type UpdateItemRequest struct {
	Description *string          `json:"description" validate:"omitempty,min=1,max=300"`
	Brand       *string          `json:"brand"`
	Supplier    *string          `json:"supplier"`
	Colour      *string          `json:"colour"`
	Size        *string          `json:"size"`
	Weight      *decimal.Decimal `json:"weight"`
	VATRate     *decimal.Decimal `json:"vat_rate"`
	IsActive    *bool            `json:"is_active"`
}

// ItemResponse salida de un artículo.
type ItemResponse struct {
	ID          string           `json:"id"`
	SKU         string           `json:"sku"`
	Description string           `json:"description"`
	Brand       string           `json:"brand"`
	Supplier    string           `json:"supplier"`
	Colour      string           `json:"colour"`
	Size        string           `json:"size"`
	Weight      *decimal.Decimal `json:"weight,omitempty"`
	VATRate     decimal.Decimal  `json:"vat_rate"`
	IsActive    bool             `json:"is_active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ItemListResponse lista paginada de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
