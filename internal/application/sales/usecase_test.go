package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsales "github.com/jhoicas/margenes-api/internal/application/sales"
	"github.com/jhoicas/margenes-api/internal/domain"
	"github.com/jhoicas/margenes-api/internal/domain/costing"
	"github.com/jhoicas/margenes-api/internal/domain/entity"
	"github.com/jhoicas/margenes-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba. El stub de ventas distingue la lectura simple del estado
// confirmado de la fila (lectura con bloqueo dentro de la transacción), para
// poder simular una escritura concurrente entre ambas.
// ──────────────────────────────────────────────────────────────────────────────

type txRunnerStub struct {
	salesRepo    repository.SalesRepository
	itemRepo     repository.ItemRepository
	purchaseRepo repository.PurchaseRepository
	auditRepo    repository.AuditRepository
	runs         int
}

func (s *txRunnerStub) RunSales(_ context.Context, fn func(
	salesRepo repository.SalesRepository,
	itemRepo repository.ItemRepository,
	purchaseRepo repository.PurchaseRepository,
	auditRepo repository.AuditRepository,
) error) error {
	s.runs++
	return fn(s.salesRepo, s.itemRepo, s.purchaseRepo, s.auditRepo)
}

type salesRepoStub struct {
	stale     *entity.SalesOrder
	committed *entity.SalesOrder

	lockedReads int
	created     *entity.SalesOrder
	snapshots   []*entity.SalesLine
}

func (s *salesRepoStub) CreateOrder(order *entity.SalesOrder) error {
	s.created = order
	return nil
}

func (s *salesRepoStub) GetOrderByID(string) (*entity.SalesOrder, error) { return s.stale, nil }

func (s *salesRepoStub) GetOrderByIDForUpdate(string) (*entity.SalesOrder, error) {
	s.lockedReads++
	return s.committed, nil
}

func (s *salesRepoStub) GetOrderByChannelAndNumber(string, string) (*entity.SalesOrder, error) {
	return nil, nil
}

func (s *salesRepoStub) ListOrders(int, int) ([]*entity.SalesOrder, error) { return nil, nil }

func (s *salesRepoStub) UpdateLineSnapshot(line *entity.SalesLine) error {
	s.snapshots = append(s.snapshots, line)
	return nil
}

type itemRepoStub struct {
	bySKU map[string]*entity.Item
}

func (s *itemRepoStub) Create(item *entity.Item) error {
	s.bySKU[item.SKU] = item
	return nil
}

func (s *itemRepoStub) GetByID(string) (*entity.Item, error) { return nil, nil }

func (s *itemRepoStub) GetBySKU(sku string) (*entity.Item, error) {
	return s.bySKU[sku], nil
}

func (s *itemRepoStub) Update(*entity.Item) error             { return nil }
func (s *itemRepoStub) List(int, int) ([]*entity.Item, error) { return nil, nil }
func (s *itemRepoStub) Delete(string) error                   { return nil }

type purchaseRepoStub struct{}

func (purchaseRepoStub) CreateOrder(*entity.PurchaseOrder) error { return nil }
func (purchaseRepoStub) GetOrderByID(string) (*entity.PurchaseOrder, error) {
	return nil, nil
}
func (purchaseRepoStub) GetOrderByIDForUpdate(string) (*entity.PurchaseOrder, error) {
	return nil, nil
}
func (purchaseRepoStub) ListOrders(int, int) ([]*entity.PurchaseOrder, error) { return nil, nil }
func (purchaseRepoStub) UpdateOrder(*entity.PurchaseOrder) error              { return nil }
func (purchaseRepoStub) UpdateLineAllocations(*entity.PurchaseLine) error     { return nil }
func (purchaseRepoStub) CostCandidates(string) ([]costing.CostCandidate, error) {
	return nil, nil
}

type auditRepoStub struct {
	entries []*entity.AuditLog
}

func (s *auditRepoStub) Append(e *entity.AuditLog) error {
	s.entries = append(s.entries, e)
	return nil
}

func (s *auditRepoStub) ListByEntity(string, string, int, int) ([]*entity.AuditLog, error) {
	return nil, nil
}

func nuevoUseCase(salesRepo *salesRepoStub) (*appsales.UseCase, *txRunnerStub) {
	runner := &txRunnerStub{
		salesRepo:    salesRepo,
		itemRepo:     &itemRepoStub{bySKU: map[string]*entity.Item{}},
		purchaseRepo: purchaseRepoStub{},
		auditRepo:    &auditRepoStub{},
	}
	uc := appsales.NewUseCase(runner, salesRepo, entity.CostMethodWeightedAvg, decimal.NewFromInt(18))
	return uc, runner
}

func ventaBase() appsales.OrderInput {
	return appsales.OrderInput{
		Channel:     "web",
		OrderNumber: "V-001",
		OrderDate:   time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		Lines: []appsales.LineInput{
			{SKU: "SKU-A", Qty: 2, UnitPriceGross: decimal.NewFromInt(59)},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de entrada
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateOrder_PrecioCero_RetornaInvalido(t *testing.T) {
	uc, runner := nuevoUseCase(&salesRepoStub{})

	input := ventaBase()
	input.Lines[0].UnitPriceGross = decimal.Zero

	_, err := uc.CreateOrder(context.Background(), input, "admin")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, runner.runs, "la validación debe cortar antes de abrir la transacción")
}

func TestCreateOrder_PrecioNegativo_RetornaInvalido(t *testing.T) {
	uc, _ := nuevoUseCase(&salesRepoStub{})

	input := ventaBase()
	input.Lines[0].UnitPriceGross = decimal.NewFromInt(-10)

	_, err := uc.CreateOrder(context.Background(), input, "admin")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateOrder_EnvioNegativo_RetornaInvalido(t *testing.T) {
	uc, _ := nuevoUseCase(&salesRepoStub{})

	input := ventaBase()
	input.ShippingGross = decimal.NewFromInt(-5)

	_, err := uc.CreateOrder(context.Background(), input, "admin")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// El envío cobrado al cliente se persiste tal cual pero queda fuera de la
// economía: con costo cero el beneficio debe ser exactamente el ingreso neto.
func TestCreateOrder_EnvioInformativo_NoEntraAlMargen(t *testing.T) {
	repo := &salesRepoStub{}
	uc, _ := nuevoUseCase(repo)

	input := ventaBase()
	input.ShippingGross = decimal.RequireFromString("12.50")

	order, err := uc.CreateOrder(context.Background(), input, "admin")
	require.NoError(t, err)

	require.NotNil(t, repo.created)
	assert.True(t, repo.created.ShippingGross.Equal(decimal.RequireFromString("12.50")))

	require.Len(t, order.Lines, 1)
	line := order.Lines[0]
	assert.True(t, line.Profit.Equal(line.RevenueNet),
		"sin costo base el beneficio es el ingreso neto; el envío no suma")
}

// ──────────────────────────────────────────────────────────────────────────────
// Recálculo: debe partir de la fila bloqueada dentro de la transacción.
// Se simula otra transacción que subió el descuento de orden de 0 a 30 entre
// la lectura vieja y el recálculo: la distribución tiene que sumar 30.
// ──────────────────────────────────────────────────────────────────────────────

func ventaDosLineas(descuento int64) *entity.SalesOrder {
	return &entity.SalesOrder{
		ID:                 "so-1",
		Channel:            "web",
		OrderNumber:        "V-001",
		OrderDate:          time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		OrderDiscountGross: decimal.NewFromInt(descuento),
		Lines: []*entity.SalesLine{
			{ID: "sl-1", SalesOrderID: "so-1", ItemID: "item-1", Qty: 2,
				UnitPriceGross: decimal.NewFromInt(50), VATRate: decimal.NewFromInt(18),
				CostMethod: entity.CostMethodWeightedAvg},
			{ID: "sl-2", SalesOrderID: "so-1", ItemID: "item-2", Qty: 1,
				UnitPriceGross: decimal.NewFromInt(100), VATRate: decimal.NewFromInt(18),
				CostMethod: entity.CostMethodWeightedAvg},
		},
	}
}

func TestRecomputeOrder_ParteDelEstadoConfirmado(t *testing.T) {
	repo := &salesRepoStub{
		stale:     ventaDosLineas(0),
		committed: ventaDosLineas(30),
	}
	uc, _ := nuevoUseCase(repo)

	order, err := uc.RecomputeOrder(context.Background(), "so-1", "admin")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.lockedReads)

	distribuido := decimal.Zero
	for _, l := range order.Lines {
		distribuido = distribuido.Add(l.OrderDiscountAllocGross)
	}
	assert.True(t, distribuido.Equal(decimal.NewFromInt(30)),
		"la distribución debe partir del descuento confirmado, no del snapshot viejo")
	assert.Len(t, repo.snapshots, 2)
}

func TestRecomputeOrder_OrdenInexistente_RetornaNotFound(t *testing.T) {
	uc, _ := nuevoUseCase(&salesRepoStub{})

	_, err := uc.RecomputeOrder(context.Background(), "no-existe", "admin")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
