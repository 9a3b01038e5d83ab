package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de prorrateo de flete.
const (
	AllocationByValue    = "value" // peso = costo_neto × cantidad
	AllocationByQuantity = "qty"   // peso = cantidad
)

// PurchaseOrder representa una orden de compra con su flete total a prorratear.
// El número de orden NO es único: un mismo proveedor puede reutilizar numeración.
type PurchaseOrder struct {
	ID               string
	OrderNumber      string
	Supplier         string
	OrderDate        *time.Time
	ArrivalDate      *time.Time
	FreightTotal     decimal.Decimal
	AllocationMethod string // value | qty
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Lines            []*PurchaseLine
}

// EffectiveDate devuelve la fecha efectiva de disponibilidad del costo:
// fecha de llegada si existe, si no la de orden, si no la de creación.
func (o *PurchaseOrder) EffectiveDate() time.Time {
	if o.ArrivalDate != nil {
		return *o.ArrivalDate
	}
	if o.OrderDate != nil {
		return *o.OrderDate
	}
	return o.CreatedAt
}

// PurchaseLine línea de una orden de compra.
// FreightAllocated/FreightPerUnit/LandedUnitCost los escribe el motor de
// prorrateo; nunca se editan a mano.
type PurchaseLine struct {
	ID               string
	PurchaseOrderID  string
	ItemID           string
	Qty              int64
	UnitCostNet      decimal.Decimal // costo unitario neto (sin IVA)
	PackagingPerUnit decimal.Decimal // empaque por unidad
	FreightAllocated decimal.Decimal // flete total asignado a la línea
	FreightPerUnit   decimal.Decimal
	LandedUnitCost   decimal.Decimal // neto + flete/unidad + empaque
	CreatedAt        time.Time
}
