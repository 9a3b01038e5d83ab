package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de costeo para el costo base de una venta.
const (
	CostMethodWeightedAvg = "weighted_avg"
	CostMethodLast        = "last"
)

// SalesOrder representa una orden de venta. La pareja (Channel, OrderNumber)
// es única: el mismo número puede repetirse entre canales distintos.
type SalesOrder struct {
	ID                 string
	Channel            string
	OrderNumber        string
	OrderDate          time.Time
	Customer           string
	OrderDiscountGross decimal.Decimal // descuento de orden, con IVA incluido
	ShippingGross      decimal.Decimal // envío cobrado al cliente; informativo, fuera del margen
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Lines              []*SalesLine
}

// SalesLine línea de venta con su snapshot económico.
//
// Los campos desde OrderDiscountAllocGross hacia abajo los escribe el motor
// al crear o recalcular la orden; quedan congelados hasta un recálculo
// explícito. Las métricas diarias se derivan exclusivamente de estos snapshots.
type SalesLine struct {
	ID                string
	SalesOrderID      string
	ItemID            string
	Qty               int64
	UnitPriceGross    decimal.Decimal // precio unitario con IVA
	LineDiscountGross decimal.Decimal // descuento propio de la línea, con IVA

	OrderDiscountAllocGross decimal.Decimal // porción del descuento de orden asignada
	VATRate                 decimal.Decimal // snapshot del IVA del artículo
	UnitPriceNet            decimal.Decimal
	UnitCostBasis           decimal.Decimal // costo unitario resuelto (landed)
	CostMethod              string          // weighted_avg | last
	CostSourcePOID          *string         // orden de compra origen (solo method=last)
	RevenueNet              decimal.Decimal
	CostTotal               decimal.Decimal
	Profit                  decimal.Decimal
	CreatedAt               time.Time
}
