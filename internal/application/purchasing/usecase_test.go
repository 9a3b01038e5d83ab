package purchasing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/margenes-api/internal/application/purchasing"
	"github.com/jhoicas/margenes-api/internal/domain"
	"github.com/jhoicas/margenes-api/internal/domain/costing"
	"github.com/jhoicas/margenes-api/internal/domain/entity"
	"github.com/jhoicas/margenes-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba. El stub de repositorio distingue la lectura simple (lo
// que vería cualquier conexión del pool) del estado confirmado de la fila
// (lo que devuelve la lectura con bloqueo dentro de la transacción): así se
// puede simular una escritura concurrente entre ambas lecturas.
// ──────────────────────────────────────────────────────────────────────────────

type txRunnerStub struct {
	purchaseRepo repository.PurchaseRepository
	auditRepo    repository.AuditRepository
	runs         int
}

func (s *txRunnerStub) RunPurchasing(_ context.Context, fn func(
	purchaseRepo repository.PurchaseRepository,
	auditRepo repository.AuditRepository,
) error) error {
	s.runs++
	return fn(s.purchaseRepo, s.auditRepo)
}

type purchaseRepoStub struct {
	stale     *entity.PurchaseOrder // snapshot viejo, anterior a la tx
	committed *entity.PurchaseOrder // estado confirmado de la fila

	lockedReads  int
	updatedOrder *entity.PurchaseOrder
	updatedLines []*entity.PurchaseLine
}

func (s *purchaseRepoStub) CreateOrder(*entity.PurchaseOrder) error { return nil }

func (s *purchaseRepoStub) GetOrderByID(string) (*entity.PurchaseOrder, error) {
	return s.stale, nil
}

func (s *purchaseRepoStub) GetOrderByIDForUpdate(string) (*entity.PurchaseOrder, error) {
	s.lockedReads++
	return s.committed, nil
}

func (s *purchaseRepoStub) ListOrders(int, int) ([]*entity.PurchaseOrder, error) { return nil, nil }

func (s *purchaseRepoStub) UpdateOrder(order *entity.PurchaseOrder) error {
	s.updatedOrder = order
	return nil
}

func (s *purchaseRepoStub) UpdateLineAllocations(line *entity.PurchaseLine) error {
	s.updatedLines = append(s.updatedLines, line)
	return nil
}

func (s *purchaseRepoStub) CostCandidates(string) ([]costing.CostCandidate, error) {
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

// ordenDosLineas arma una orden con dos líneas de igual peso por valor.
func ordenDosLineas(freight int64) *entity.PurchaseOrder {
	return &entity.PurchaseOrder{
		ID:               "po-1",
		OrderNumber:      "OC-100",
		AllocationMethod: entity.AllocationByValue,
		FreightTotal:     decimal.NewFromInt(freight),
		Lines: []*entity.PurchaseLine{
			{ID: "pl-1", PurchaseOrderID: "po-1", ItemID: "item-1", Qty: 10, UnitCostNet: decimal.NewFromInt(5)},
			{ID: "pl-2", PurchaseOrderID: "po-1", ItemID: "item-2", Qty: 5, UnitCostNet: decimal.NewFromInt(10)},
		},
	}
}

func fleteAsignadoTotal(order *entity.PurchaseOrder) decimal.Decimal {
	total := decimal.Zero
	for _, l := range order.Lines {
		total = total.Add(l.FreightAllocated)
	}
	return total
}

// ──────────────────────────────────────────────────────────────────────────────
// El recálculo debe partir de la fila bloqueada dentro de la transacción.
// Se simula otra transacción que subió el flete de 100 a 250 entre la
// lectura vieja y el recálculo: el reparto tiene que sumar 250.
// ──────────────────────────────────────────────────────────────────────────────

func TestRecalculateAllocations_ParteDelEstadoConfirmado(t *testing.T) {
	repo := &purchaseRepoStub{
		stale:     ordenDosLineas(100),
		committed: ordenDosLineas(250),
	}
	runner := &txRunnerStub{purchaseRepo: repo, auditRepo: &auditRepoStub{}}
	uc := purchasing.NewUseCase(runner, repo, nil, decimal.NewFromInt(18))

	order, err := uc.RecalculateAllocations(context.Background(), "po-1", "admin")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.lockedReads)
	assert.True(t, order.FreightTotal.Equal(decimal.NewFromInt(250)),
		"el flete debe ser el confirmado, no el del snapshot viejo")
	assert.True(t, fleteAsignadoTotal(order).Equal(decimal.NewFromInt(250)),
		"el reparto debe conservar el flete confirmado")
	assert.Len(t, repo.updatedLines, 2)
}

func TestUpdateOrder_ProrrateaSobreLaFilaBloqueada(t *testing.T) {
	repo := &purchaseRepoStub{
		stale:     ordenDosLineas(100),
		committed: ordenDosLineas(250),
	}
	audit := &auditRepoStub{}
	runner := &txRunnerStub{purchaseRepo: repo, auditRepo: audit}
	uc := purchasing.NewUseCase(runner, repo, nil, decimal.NewFromInt(18))

	notas := "llegó incompleta"
	order, err := uc.UpdateOrder(context.Background(), "po-1", purchasing.HeaderChanges{Notes: &notas}, "admin")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.lockedReads)
	assert.True(t, fleteAsignadoTotal(order).Equal(decimal.NewFromInt(250)))
	require.NotNil(t, repo.updatedOrder)
	assert.Equal(t, "llegó incompleta", repo.updatedOrder.Notes)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, "250", audit.entries[0].OldValue)
	assert.Equal(t, "250", audit.entries[0].NewValue)
}

func TestUpdateOrder_FleteNuevoReemplazaAlConfirmado(t *testing.T) {
	repo := &purchaseRepoStub{
		stale:     ordenDosLineas(100),
		committed: ordenDosLineas(250),
	}
	runner := &txRunnerStub{purchaseRepo: repo, auditRepo: &auditRepoStub{}}
	uc := purchasing.NewUseCase(runner, repo, nil, decimal.NewFromInt(18))

	nuevoFlete := decimal.NewFromInt(80)
	order, err := uc.UpdateOrder(context.Background(), "po-1",
		purchasing.HeaderChanges{FreightTotal: &nuevoFlete}, "admin")
	require.NoError(t, err)

	assert.True(t, order.FreightTotal.Equal(decimal.NewFromInt(80)))
	assert.True(t, fleteAsignadoTotal(order).Equal(decimal.NewFromInt(80)))
}

func TestUpdateOrder_MetodoInvalido_RetornaError(t *testing.T) {
	repo := &purchaseRepoStub{committed: ordenDosLineas(100)}
	runner := &txRunnerStub{purchaseRepo: repo, auditRepo: &auditRepoStub{}}
	uc := purchasing.NewUseCase(runner, repo, nil, decimal.NewFromInt(18))

	metodo := "por_peso"
	_, err := uc.UpdateOrder(context.Background(), "po-1", purchasing.HeaderChanges{AllocationMethod: &metodo}, "admin")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, runner.runs, "la validación debe cortar antes de abrir la transacción")
}

func TestRecalculateAllocations_OrdenInexistente_RetornaNotFound(t *testing.T) {
	repo := &purchaseRepoStub{}
	runner := &txRunnerStub{purchaseRepo: repo, auditRepo: &auditRepoStub{}}
	uc := purchasing.NewUseCase(runner, repo, nil, decimal.NewFromInt(18))

	_, err := uc.RecalculateAllocations(context.Background(), "no-existe", "admin")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
