// Package reporting contiene los casos de uso de dashboard, reportes de
// margen y descuento, y alertas por umbral.
package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/margenes-api/internal/application/dto"
	appmetrics "github.com/jhoicas/margenes-api/internal/application/metrics"
	"github.com/jhoicas/margenes-api/internal/domain"
	"github.com/jhoicas/margenes-api/internal/domain/costing"
	"github.com/jhoicas/margenes-api/internal/domain/repository"
)

const (
	dashboardTopSKUs      = 5 // número de SKUs en los widgets del dashboard
	dashboardRecentOrders = 5

	sourceMetrics = "metrics"
	sourceLive    = "live"

	dayLayout = "2006-01-02"
)

// UseCase arma las vistas de lectura del negocio. El dashboard es de dos
// niveles: si los agregados diarios cubren el rango completo los usa; si
// falta algún día, cae a un cálculo en vivo sobre los snapshots de líneas.
type UseCase struct {
	reportingRepo     repository.ReportingRepository
	metricsRepo       repository.MetricsRepository
	pdfGenerator      ReportPDFGenerator
	marginThreshold   decimal.Decimal // % mínimo de margen antes de alertar
	discountThreshold decimal.Decimal // % máximo de descuento antes de alertar
}

// NewUseCase construye el caso de uso de reportes.
func NewUseCase(
	reportingRepo repository.ReportingRepository,
	metricsRepo repository.MetricsRepository,
	pdfGenerator ReportPDFGenerator,
	marginThreshold, discountThreshold decimal.Decimal,
) *UseCase {
	return &UseCase{
		reportingRepo:     reportingRepo,
		metricsRepo:       metricsRepo,
		pdfGenerator:      pdfGenerator,
		marginThreshold:   marginThreshold,
		discountThreshold: discountThreshold,
	}
}

// GetDashboard construye el resumen del rango.
//
// Cuatro llamadas en paralelo tras resolver los totales:
//  1. TopSKUsByUnits    → widget de más vendidos
//  2. TopSKUsByProfit   → widget de más rentables
//  3. RecentOrders      → últimas ventas
//  4. MissingCostCount  → líneas vendidas sin costo base
func (uc *UseCase) GetDashboard(ctx context.Context, from, to string) (*dto.DashboardSummaryResponse, error) {
	fromDay, toDay, err := appmetrics.ParseRange(from, to)
	if err != nil {
		return nil, err
	}

	summary, err := uc.resolveTotals(ctx, fromDay, toDay)
	if err != nil {
		return nil, err
	}

	type skuResult struct {
		rows []repository.SKUSalesResult
		err  error
	}
	type ordersResult struct {
		rows []repository.RecentOrderResult
		err  error
	}
	type countResult struct {
		n   int64
		err error
	}

	unitsCh := make(chan skuResult, 1)
	profitCh := make(chan skuResult, 1)
	recentCh := make(chan ordersResult, 1)
	missingCh := make(chan countResult, 1)

	go func() {
		rows, err := uc.reportingRepo.TopSKUsByUnits(ctx, fromDay, toDay, dashboardTopSKUs)
		unitsCh <- skuResult{rows, err}
	}()
	go func() {
		rows, err := uc.reportingRepo.TopSKUsByProfit(ctx, fromDay, toDay, dashboardTopSKUs)
		profitCh <- skuResult{rows, err}
	}()
	go func() {
		rows, err := uc.reportingRepo.RecentOrders(ctx, dashboardRecentOrders)
		recentCh <- ordersResult{rows, err}
	}()
	go func() {
		n, err := uc.reportingRepo.MissingCostCount(ctx, fromDay, toDay)
		missingCh <- countResult{n, err}
	}()

	units := <-unitsCh
	profit := <-profitCh
	recent := <-recentCh
	missing := <-missingCh

	if units.err != nil {
		return nil, fmt.Errorf("dashboard: top por unidades: %w", units.err)
	}
	if profit.err != nil {
		return nil, fmt.Errorf("dashboard: top por beneficio: %w", profit.err)
	}
	if recent.err != nil {
		return nil, fmt.Errorf("dashboard: órdenes recientes: %w", recent.err)
	}
	if missing.err != nil {
		return nil, fmt.Errorf("dashboard: líneas sin costo: %w", missing.err)
	}

	summary.TopByUnits = toSKURows(units.rows)
	summary.TopByProfit = toSKURows(profit.rows)
	summary.RecentOrders = toRecentOrders(recent.rows)
	summary.MissingCostLines = missing.n
	return summary, nil
}

// resolveTotals decide la fuente de los totales del rango: los agregados
// diarios si cubren TODOS los días, o el cálculo en vivo si falta alguno.
func (uc *UseCase) resolveTotals(ctx context.Context, fromDay, toDay time.Time) (*dto.DashboardSummaryResponse, error) {
	summary := &dto.DashboardSummaryResponse{
		From: fromDay.Format(dayLayout),
		To:   toDay.Format(dayLayout),
	}

	daysInRange := int(toDay.Sub(fromDay).Hours()/24) + 1
	covered, err := uc.reportingRepo.MetricDaysCovered(ctx, fromDay, toDay)
	if err != nil {
		return nil, fmt.Errorf("dashboard: cobertura de métricas: %w", err)
	}

	if covered >= daysInRange {
		rows, err := uc.metricsRepo.DailyRange(fromDay, toDay)
		if err != nil {
			return nil, fmt.Errorf("dashboard: agregados diarios: %w", err)
		}
		summary.Source = sourceMetrics
		for _, r := range rows {
			summary.OrdersCount += r.OrdersCount
			summary.UnitsSold += r.UnitsSold
			summary.RevenueNet = summary.RevenueNet.Add(r.RevenueNet)
			summary.COGS = summary.COGS.Add(r.COGS)
			summary.Profit = summary.Profit.Add(r.Profit)
			summary.DiscountGross = summary.DiscountGross.Add(r.DiscountGross)
		}
	} else {
		live, err := uc.reportingRepo.LiveTotals(ctx, fromDay, toDay)
		if err != nil {
			return nil, fmt.Errorf("dashboard: totales en vivo: %w", err)
		}
		summary.Source = sourceLive
		summary.OrdersCount = live.OrdersCount
		summary.UnitsSold = live.UnitsSold
		summary.RevenueNet = live.RevenueNet.Round(2)
		summary.COGS = live.COGS.Round(2)
		summary.Profit = live.Profit.Round(2)
		summary.DiscountGross = live.DiscountGross.Round(2)
	}

	summary.MarginPct = costing.MarginPct(summary.Profit, summary.RevenueNet).Round(2)
	return summary, nil
}

// GetSKUReport genera el reporte de margen por SKU del rango, ordenado por
// ingreso neto descendente.
func (uc *UseCase) GetSKUReport(ctx context.Context, from, to string) (*dto.SKUReportResponse, error) {
	fromDay, toDay, err := appmetrics.ParseRange(from, to)
	if err != nil {
		return nil, err
	}
	rows, err := uc.reportingRepo.SKUSales(ctx, fromDay, toDay)
	if err != nil {
		return nil, fmt.Errorf("reporte SKU: %w", err)
	}
	return &dto.SKUReportResponse{
		From:  fromDay.Format(dayLayout),
		To:    toDay.Format(dayLayout),
		Items: toSKURows(rows),
	}, nil
}

// GetSKUReportPDF genera el reporte de margen por SKU y lo renderiza a PDF.
func (uc *UseCase) GetSKUReportPDF(ctx context.Context, from, to string) ([]byte, string, error) {
	report, err := uc.GetSKUReport(ctx, from, to)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := uc.pdfGenerator.GenerateSKUReportPDF(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("reporte SKU: generación PDF: %w", err)
	}
	filename := fmt.Sprintf("margenes_%s_%s.pdf", report.From, report.To)
	return pdfBytes, filename, nil
}

// GetDiscountReport genera el reporte de descuentos del rango. El neto por
// SKU ya viene calculado línea por línea con la tasa de IVA de cada una.
func (uc *UseCase) GetDiscountReport(ctx context.Context, from, to string) (*dto.DiscountReportResponse, error) {
	fromDay, toDay, err := appmetrics.ParseRange(from, to)
	if err != nil {
		return nil, err
	}
	rows, err := uc.reportingRepo.SKUSales(ctx, fromDay, toDay)
	if err != nil {
		return nil, fmt.Errorf("reporte de descuentos: %w", err)
	}

	report := &dto.DiscountReportResponse{
		From: fromDay.Format(dayLayout),
		To:   toDay.Format(dayLayout),
	}
	items := make([]dto.SKUSalesRow, 0, len(rows))
	for _, r := range rows {
		if r.DiscountGross.IsZero() {
			continue
		}
		report.TotalDiscountGross = report.TotalDiscountGross.Add(r.DiscountGross)
		report.TotalDiscountNet = report.TotalDiscountNet.Add(r.DiscountNet)
		items = append(items, toSKURow(r))
	}
	report.TotalDiscountGross = report.TotalDiscountGross.Round(2)
	report.TotalDiscountNet = report.TotalDiscountNet.Round(2)
	report.Items = items
	return report, nil
}

// GetAlerts recorre las líneas del rango y devuelve las que cruzan algún
// umbral: margen por debajo del mínimo o descuento por encima del máximo.
// Una línea en pérdida siempre alerta, tenga o no ingreso neto.
// marginPct y discountPct son overrides opcionales ("" usa el configurado).
func (uc *UseCase) GetAlerts(ctx context.Context, from, to, marginPct, discountPct string) (*dto.AlertsResponse, error) {
	fromDay, toDay, err := appmetrics.ParseRange(from, to)
	if err != nil {
		return nil, err
	}

	marginThreshold, err := parseThreshold(marginPct, uc.marginThreshold)
	if err != nil {
		return nil, err
	}
	discountThreshold, err := parseThreshold(discountPct, uc.discountThreshold)
	if err != nil {
		return nil, err
	}

	rows, err := uc.reportingRepo.AlertRows(ctx, fromDay, toDay)
	if err != nil {
		return nil, fmt.Errorf("alertas: %w", err)
	}

	resp := &dto.AlertsResponse{
		From:                 fromDay.Format(dayLayout),
		To:                   toDay.Format(dayLayout),
		MarginThresholdPct:   marginThreshold,
		DiscountThresholdPct: discountThreshold,
		Items:                []dto.AlertRow{},
	}
	for _, r := range rows {
		lineMargin := costing.MarginPct(r.Profit, r.RevenueNet).Round(2)
		lineDiscount := decimal.Zero
		if r.LineGross.IsPositive() {
			lineDiscount = r.DiscountGross.Div(r.LineGross).Mul(decimal.NewFromInt(100)).Round(2)
		}

		kind, alert := classifyAlert(lineMargin, lineDiscount, r.RevenueNet, r.Profit, marginThreshold, discountThreshold)
		if !alert {
			continue
		}
		orderDate := r.OrderDate
		resp.Items = append(resp.Items, dto.AlertRow{
			Kind:        kind,
			OrderID:     r.OrderID,
			Channel:     r.Channel,
			OrderNumber: r.OrderNumber,
			OrderDate:   &orderDate,
			SKU:         r.SKU,
			MarginPct:   lineMargin,
			DiscountPct: lineDiscount,
			RevenueNet:  r.RevenueNet.Round(2),
			Profit:      r.Profit.Round(2),
		})
	}
	return resp, nil
}

// classifyAlert decide si una línea cruza algún umbral y con qué clase.
// Una línea en pérdida (beneficio negativo) siempre cuenta como margen bajo,
// incluso con ingreso neto cero, donde el margen porcentual no es representativo.
func classifyAlert(marginPct, discountPct, revenueNet, profit, marginThreshold, discountThreshold decimal.Decimal) (string, bool) {
	lowMargin := (revenueNet.IsPositive() && marginPct.LessThan(marginThreshold)) || profit.IsNegative()
	highDiscount := discountPct.GreaterThan(discountThreshold)
	switch {
	case lowMargin && highDiscount:
		return "low_margin_high_discount", true
	case lowMargin:
		return "low_margin", true
	case highDiscount:
		return "high_discount", true
	}
	return "", false
}

// parseThreshold parsea un umbral en porcentaje; "" usa el valor por defecto.
func parseThreshold(s string, fallback decimal.Decimal) (decimal.Decimal, error) {
	if s == "" {
		return fallback, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil || v.IsNegative() {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return v, nil
}

func toSKURows(rows []repository.SKUSalesResult) []dto.SKUSalesRow {
	out := make([]dto.SKUSalesRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, toSKURow(r))
	}
	return out
}

func toSKURow(r repository.SKUSalesResult) dto.SKUSalesRow {
	return dto.SKUSalesRow{
		ItemID:        r.ItemID,
		SKU:           r.SKU,
		Description:   r.Description,
		UnitsSold:     r.UnitsSold,
		RevenueNet:    r.RevenueNet.Round(2),
		CostTotal:     r.CostTotal.Round(2),
		Profit:        r.Profit.Round(2),
		MarginPct:     costing.MarginPct(r.Profit, r.RevenueNet).Round(2),
		DiscountGross: r.DiscountGross.Round(2),
		DiscountNet:   r.DiscountNet.Round(2),
	}
}

func toRecentOrders(rows []repository.RecentOrderResult) []dto.RecentOrder {
	out := make([]dto.RecentOrder, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.RecentOrder{
			OrderID:     r.OrderID,
			Channel:     r.Channel,
			OrderNumber: r.OrderNumber,
			OrderDate:   r.OrderDate,
			LineCount:   r.LineCount,
			RevenueNet:  r.RevenueNet.Round(2),
			Profit:      r.Profit.Round(2),
		})
	}
	return out
}
