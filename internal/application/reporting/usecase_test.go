package reporting_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/margenes-api/internal/application/reporting"
	"github.com/jhoicas/margenes-api/internal/domain"
	"github.com/jhoicas/margenes-api/internal/domain/repository"
)

// reportingRepoStub solo necesita responder AlertRows; el resto de las
// consultas no se ejercita en estos tests.
type reportingRepoStub struct {
	alertRows []repository.AlertRowResult
}

func (s *reportingRepoStub) LiveTotals(context.Context, time.Time, time.Time) (repository.LiveTotalsResult, error) {
	return repository.LiveTotalsResult{}, nil
}

func (s *reportingRepoStub) MetricDaysCovered(context.Context, time.Time, time.Time) (int, error) {
	return 0, nil
}

func (s *reportingRepoStub) TopSKUsByUnits(context.Context, time.Time, time.Time, int) ([]repository.SKUSalesResult, error) {
	return nil, nil
}

func (s *reportingRepoStub) TopSKUsByProfit(context.Context, time.Time, time.Time, int) ([]repository.SKUSalesResult, error) {
	return nil, nil
}

func (s *reportingRepoStub) SKUSales(context.Context, time.Time, time.Time) ([]repository.SKUSalesResult, error) {
	return nil, nil
}

func (s *reportingRepoStub) AlertRows(context.Context, time.Time, time.Time) ([]repository.AlertRowResult, error) {
	return s.alertRows, nil
}

func (s *reportingRepoStub) RecentOrders(context.Context, int) ([]repository.RecentOrderResult, error) {
	return nil, nil
}

func (s *reportingRepoStub) MissingCostCount(context.Context, time.Time, time.Time) (int64, error) {
	return 0, nil
}

func nuevoUseCase(repo *reportingRepoStub) *reporting.UseCase {
	return reporting.NewUseCase(repo, nil, nil, decimal.NewFromInt(20), decimal.NewFromInt(15))
}

func filaAlerta(sku string, revenue, profit, lineGross, discount int64) repository.AlertRowResult {
	return repository.AlertRowResult{
		OrderID:       "so-" + sku,
		Channel:       "web",
		OrderNumber:   "V-" + sku,
		OrderDate:     time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		SKU:           sku,
		Qty:           1,
		RevenueNet:    decimal.NewFromInt(revenue),
		Profit:        decimal.NewFromInt(profit),
		LineGross:     decimal.NewFromInt(lineGross),
		DiscountGross: decimal.NewFromInt(discount),
	}
}

func TestGetAlerts_ClasificaPorUmbral(t *testing.T) {
	repo := &reportingRepoStub{alertRows: []repository.AlertRowResult{
		filaAlerta("SANA", 100, 40, 118, 0),       // margen 40%, sin descuento
		filaAlerta("MARGEN", 100, 10, 118, 0),     // margen 10% < 20%
		filaAlerta("DESC", 100, 30, 100, 20),      // descuento 20% > 15%
		filaAlerta("AMBOS", 100, 5, 100, 25),      // margen 5% y descuento 25%
	}}
	uc := nuevoUseCase(repo)

	resp, err := uc.GetAlerts(context.Background(), "2026-08-01", "2026-08-31", "", "")
	require.NoError(t, err)

	require.Len(t, resp.Items, 3)
	assert.Equal(t, "low_margin", resp.Items[0].Kind)
	assert.Equal(t, "MARGEN", resp.Items[0].SKU)
	assert.Equal(t, "high_discount", resp.Items[1].Kind)
	assert.Equal(t, "low_margin_high_discount", resp.Items[2].Kind)
}

// Una línea regalada (ingreso neto cero) con costo real es una pérdida y debe
// alertar aunque su margen porcentual no sea representativo.
func TestGetAlerts_PerdidaSinIngreso_Alerta(t *testing.T) {
	repo := &reportingRepoStub{alertRows: []repository.AlertRowResult{
		filaAlerta("REGALO", 0, -45, 0, 0),
	}}
	uc := nuevoUseCase(repo)

	resp, err := uc.GetAlerts(context.Background(), "2026-08-01", "2026-08-31", "", "")
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, "low_margin", resp.Items[0].Kind)
	assert.True(t, resp.Items[0].Profit.Equal(decimal.NewFromInt(-45)))
}

func TestGetAlerts_UmbralPorParametro(t *testing.T) {
	repo := &reportingRepoStub{alertRows: []repository.AlertRowResult{
		filaAlerta("SKU-1", 100, 25, 118, 0), // margen 25%
	}}
	uc := nuevoUseCase(repo)

	// Con el umbral por defecto (20%) no alerta.
	resp, err := uc.GetAlerts(context.Background(), "2026-08-01", "2026-08-31", "", "")
	require.NoError(t, err)
	assert.Empty(t, resp.Items)

	// Subiendo el umbral a 30% sí.
	resp, err = uc.GetAlerts(context.Background(), "2026-08-01", "2026-08-31", "30", "")
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "low_margin", resp.Items[0].Kind)
}

func TestGetAlerts_UmbralInvalido_RetornaError(t *testing.T) {
	uc := nuevoUseCase(&reportingRepoStub{})

	_, err := uc.GetAlerts(context.Background(), "2026-08-01", "2026-08-31", "no-numero", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetAlerts(context.Background(), "2026-08-01", "2026-08-31", "", "-5")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
