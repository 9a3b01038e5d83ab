package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo del catálogo (SKU único).
// VATRate es el porcentaje de IVA aplicable a sus ventas (ej: 18.00);
// se copia como snapshot en cada línea de venta al momento de crearla.
type Item struct {
	ID          string
	SKU         string // código único
	Description string
	Brand       string
	Supplier    string
	Colour      string
	Size        string
	Weight      *decimal.Decimal // kg, opcional
	VATRate     decimal.Decimal  // porcentaje: 18.00
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
