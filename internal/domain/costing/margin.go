package costing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/margenes-api/internal/domain/entity"
)

// LineEconomics resultado económico de una línea de venta.
type LineEconomics struct {
	UnitPriceNet decimal.Decimal
	RevenueNet   decimal.Decimal
	CostTotal    decimal.Decimal
	Profit       decimal.Decimal
}

// ComputeLineEconomics calcula el snapshot económico de una línea a partir de
// sus descuentos ya asignados, su tasa de IVA y su costo base resuelto.
// revenue_net = neto(bruto_tras_descuentos); cost = costo_base × qty.
func ComputeLineEconomics(l *entity.SalesLine) LineEconomics {
	revenueNet := GrossToNet(GrossAfterDiscounts(l), l.VATRate)
	costTotal := l.UnitCostBasis.Mul(decimal.NewFromInt(l.Qty))
	return LineEconomics{
		UnitPriceNet: GrossToNet(l.UnitPriceGross, l.VATRate),
		RevenueNet:   revenueNet,
		CostTotal:    costTotal,
		Profit:       revenueNet.Sub(costTotal),
	}
}

// MarginPct margen porcentual sobre el ingreso neto; cero si no hay ingreso.
func MarginPct(profit, revenueNet decimal.Decimal) decimal.Decimal {
	if !revenueNet.IsPositive() {
		return decimal.Zero
	}
	return profit.Div(revenueNet).Mul(hundred)
}

// LineSnapshot es la proyección de una línea de venta persistida, tal como la
// materializa la capa de persistencia para regenerar métricas.
type LineSnapshot struct {
	Day           time.Time // fecha de la orden (sin hora)
	OrderID       string
	ItemID        string
	SKU           string
	Qty           int64
	RevenueNet    decimal.Decimal
	CostTotal     decimal.Decimal
	Profit        decimal.Decimal
	DiscountGross decimal.Decimal // descuento de línea + porción del de orden
	VATRate       decimal.Decimal
}

// AggregateDaily reconstruye los agregados diarios y por SKU a partir de los
// snapshots de líneas. El descuento neto divide el bruto de CADA línea por su
// propio factor de IVA; no se aplica una tasa plana al total.
//
// Salida ordenada por día ascendente (y por SKU dentro del día) y redondeada
// a 2 decimales: estos valores van directo a persistencia.
func AggregateDaily(lines []LineSnapshot, computedAt time.Time) ([]entity.DailyMetric, []entity.SkuMetricDaily) {
	type skuKey struct {
		day time.Time
		sku string
	}

	days := make(map[time.Time]*entity.DailyMetric)
	orders := make(map[time.Time]map[string]struct{})
	skus := make(map[skuKey]*entity.SkuMetricDaily)

	for _, ln := range lines {
		day := ln.Day
		dm := days[day]
		if dm == nil {
			dm = &entity.DailyMetric{Day: day, ComputedAt: computedAt}
			days[day] = dm
			orders[day] = make(map[string]struct{})
		}
		orders[day][ln.OrderID] = struct{}{}

		discountNet := GrossToNet(ln.DiscountGross, ln.VATRate)

		dm.UnitsSold += ln.Qty
		dm.RevenueNet = dm.RevenueNet.Add(ln.RevenueNet)
		dm.COGS = dm.COGS.Add(ln.CostTotal)
		dm.Profit = dm.Profit.Add(ln.Profit)
		dm.DiscountGross = dm.DiscountGross.Add(ln.DiscountGross)
		dm.DiscountNet = dm.DiscountNet.Add(discountNet)

		key := skuKey{day: day, sku: ln.SKU}
		sm := skus[key]
		if sm == nil {
			sm = &entity.SkuMetricDaily{Day: day, ItemID: ln.ItemID, SKU: ln.SKU, ComputedAt: computedAt}
			skus[key] = sm
		}
		sm.UnitsSold += ln.Qty
		sm.RevenueNet = sm.RevenueNet.Add(ln.RevenueNet)
		sm.Profit = sm.Profit.Add(ln.Profit)
		sm.DiscountGross = sm.DiscountGross.Add(ln.DiscountGross)
		sm.DiscountNet = sm.DiscountNet.Add(discountNet)
	}

	daily := make([]entity.DailyMetric, 0, len(days))
	for day, dm := range days {
		dm.OrdersCount = int64(len(orders[day]))
		dm.RevenueNet = RoundMoney(dm.RevenueNet)
		dm.COGS = RoundMoney(dm.COGS)
		dm.Profit = RoundMoney(dm.Profit)
		dm.DiscountGross = RoundMoney(dm.DiscountGross)
		dm.DiscountNet = RoundMoney(dm.DiscountNet)
		daily = append(daily, *dm)
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Day.Before(daily[j].Day) })

	skuDaily := make([]entity.SkuMetricDaily, 0, len(skus))
	for _, sm := range skus {
		sm.RevenueNet = RoundMoney(sm.RevenueNet)
		sm.Profit = RoundMoney(sm.Profit)
		sm.DiscountGross = RoundMoney(sm.DiscountGross)
		sm.DiscountNet = RoundMoney(sm.DiscountNet)
		skuDaily = append(skuDaily, *sm)
	}
	sort.Slice(skuDaily, func(i, j int) bool {
		if !skuDaily[i].Day.Equal(skuDaily[j].Day) {
			return skuDaily[i].Day.Before(skuDaily[j].Day)
		}
		return skuDaily[i].SKU < skuDaily[j].SKU
	})

	return daily, skuDaily
}
