package purchasing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/margenes-api/internal/domain"
	"github.com/jhoicas/margenes-api/internal/domain/costing"
	"github.com/jhoicas/margenes-api/internal/domain/entity"
	"github.com/jhoicas/margenes-api/internal/domain/repository"
)

// UseCase registra órdenes de compra y mantiene su prorrateo de flete.
// El prorrateo corre en memoria (costing.AllocateFreight) y se persiste
// junto con la orden en una sola transacción.
type UseCase struct {
	txRunner       TxRunner
	purchaseRepo   repository.PurchaseRepository
	itemRepo       repository.ItemRepository
	defaultVATRate decimal.Decimal
}

// NewUseCase construye el caso de uso de compras.
func NewUseCase(
	txRunner TxRunner,
	purchaseRepo repository.PurchaseRepository,
	itemRepo repository.ItemRepository,
	defaultVATRate decimal.Decimal,
) *UseCase {
	return &UseCase{
		txRunner:       txRunner,
		purchaseRepo:   purchaseRepo,
		itemRepo:       itemRepo,
		defaultVATRate: defaultVATRate,
	}
}

// LineInput línea entrante de una orden de compra.
type LineInput struct {
	SKU              string
	Qty              int64
	UnitCostNet      decimal.Decimal
	PackagingPerUnit decimal.Decimal
}

// OrderInput entrada para registrar una orden de compra.
type OrderInput struct {
	OrderNumber      string
	Supplier         string
	OrderDate        *time.Time
	ArrivalDate      *time.Time
	FreightTotal     decimal.Decimal
	AllocationMethod string
	Notes            string
	Lines            []LineInput
}

// HeaderChanges cambios de cabecera de una orden existente. Cualquier cambio
// de flete o método dispara un nuevo prorrateo sobre las líneas.
type HeaderChanges struct {
	Supplier         *string
	OrderDate        *time.Time
	ArrivalDate      *time.Time
	FreightTotal     *decimal.Decimal
	AllocationMethod *string
	Notes            *string
}

// CreateOrder valida la entrada, resuelve (o crea) los artículos por SKU,
// prorratea el flete y persiste la orden con sus líneas y auditoría.
// Flete negativo se trata como cero.
func (uc *UseCase) CreateOrder(ctx context.Context, input OrderInput, actorID string) (*entity.PurchaseOrder, error) {
	if strings.TrimSpace(input.OrderNumber) == "" || len(input.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	method := input.AllocationMethod
	if method == "" {
		method = entity.AllocationByValue
	}
	if method != entity.AllocationByValue && method != entity.AllocationByQuantity {
		return nil, domain.ErrInvalidInput
	}
	for _, l := range input.Lines {
		if strings.TrimSpace(l.SKU) == "" || l.Qty < 1 {
			return nil, domain.ErrInvalidInput
		}
		if l.UnitCostNet.IsNegative() || l.PackagingPerUnit.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}

	freight := input.FreightTotal
	if freight.IsNegative() {
		freight = decimal.Zero
	}

	now := time.Now()
	order := &entity.PurchaseOrder{
		ID:               uuid.New().String(),
		OrderNumber:      strings.TrimSpace(input.OrderNumber),
		Supplier:         input.Supplier,
		OrderDate:        input.OrderDate,
		ArrivalDate:      input.ArrivalDate,
		FreightTotal:     freight,
		AllocationMethod: method,
		Notes:            input.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for _, l := range input.Lines {
		item, err := uc.resolveItem(l.SKU, input.Supplier, now)
		if err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, &entity.PurchaseLine{
			ID:               uuid.New().String(),
			PurchaseOrderID:  order.ID,
			ItemID:           item.ID,
			Qty:              l.Qty,
			UnitCostNet:      l.UnitCostNet,
			PackagingPerUnit: l.PackagingPerUnit,
			CreatedAt:        now,
		})
	}

	costing.AllocateFreight(order)

	err := uc.txRunner.RunPurchasing(ctx, func(
		purchaseRepo repository.PurchaseRepository,
		auditRepo repository.AuditRepository,
	) error {
		if err := purchaseRepo.CreateOrder(order); err != nil {
			return err
		}
		return auditRepo.Append(&entity.AuditLog{
			ID:         uuid.New().String(),
			EntityType: "purchase_order",
			EntityID:   order.ID,
			Action:     "create",
			NewValue:   fmt.Sprintf("orden %s con %d líneas", order.OrderNumber, len(order.Lines)),
			ActorID:    actorID,
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// resolveItem busca el artículo por SKU y lo crea si no existe todavía.
// Los artículos creados al vuelo nacen con la tasa de IVA por defecto.
func (uc *UseCase) resolveItem(sku, supplier string, now time.Time) (*entity.Item, error) {
	sku = strings.TrimSpace(sku)
	item, err := uc.itemRepo.GetBySKU(sku)
	if err != nil {
		return nil, err
	}
	if item != nil {
		return item, nil
	}
	item = &entity.Item{
		ID:          uuid.New().String(),
		SKU:         sku,
		Description: sku,
		Supplier:    supplier,
		VATRate:     uc.defaultVATRate,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.itemRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetOrder devuelve una orden con sus líneas.
func (uc *UseCase) GetOrder(id string) (*entity.PurchaseOrder, error) {
	order, err := uc.purchaseRepo.GetOrderByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// ListOrders devuelve órdenes paginadas, más recientes primero.
func (uc *UseCase) ListOrders(limit, offset int) ([]*entity.PurchaseOrder, error) {
	return uc.purchaseRepo.ListOrders(limit, offset)
}

// UpdateOrder aplica cambios de cabecera y re-prorratea el flete.
// La orden se relee con FOR UPDATE dentro de la transacción: dos escrituras
// concurrentes sobre la misma orden quedan serializadas y la cabecera siempre
// coincide con el prorrateo de sus líneas.
// Registra en auditoría el cambio de flete con valor viejo y nuevo.
func (uc *UseCase) UpdateOrder(ctx context.Context, id string, changes HeaderChanges, actorID string) (*entity.PurchaseOrder, error) {
	if changes.AllocationMethod != nil &&
		*changes.AllocationMethod != entity.AllocationByValue && *changes.AllocationMethod != entity.AllocationByQuantity {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var order *entity.PurchaseOrder
	err := uc.txRunner.RunPurchasing(ctx, func(
		purchaseRepo repository.PurchaseRepository,
		auditRepo repository.AuditRepository,
	) error {
		var err error
		order, err = purchaseRepo.GetOrderByIDForUpdate(id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}

		oldFreight := order.FreightTotal
		if changes.Supplier != nil {
			order.Supplier = *changes.Supplier
		}
		if changes.OrderDate != nil {
			order.OrderDate = changes.OrderDate
		}
		if changes.ArrivalDate != nil {
			order.ArrivalDate = changes.ArrivalDate
		}
		if changes.FreightTotal != nil {
			freight := *changes.FreightTotal
			if freight.IsNegative() {
				freight = decimal.Zero
			}
			order.FreightTotal = freight
		}
		if changes.AllocationMethod != nil {
			order.AllocationMethod = *changes.AllocationMethod
		}
		if changes.Notes != nil {
			order.Notes = *changes.Notes
		}

		order.UpdatedAt = now
		costing.AllocateFreight(order)

		if err := purchaseRepo.UpdateOrder(order); err != nil {
			return err
		}
		for _, line := range order.Lines {
			if err := purchaseRepo.UpdateLineAllocations(line); err != nil {
				return err
			}
		}
		return auditRepo.Append(&entity.AuditLog{
			ID:         uuid.New().String(),
			EntityType: "purchase_order",
			EntityID:   order.ID,
			Action:     "update",
			Field:      "freight_total",
			OldValue:   oldFreight.String(),
			NewValue:   order.FreightTotal.String(),
			ActorID:    actorID,
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// RecalculateAllocations vuelve a correr el prorrateo de flete de una orden
// y persiste las líneas actualizadas. Es idempotente: repetirlo sin cambios
// de entrada produce exactamente los mismos valores. La orden se relee con
// FOR UPDATE dentro de la transacción; el prorrateo siempre parte del estado
// confirmado de la cabecera, nunca de una lectura vieja.
func (uc *UseCase) RecalculateAllocations(ctx context.Context, orderID, actorID string) (*entity.PurchaseOrder, error) {
	now := time.Now()
	var order *entity.PurchaseOrder
	err := uc.txRunner.RunPurchasing(ctx, func(
		purchaseRepo repository.PurchaseRepository,
		auditRepo repository.AuditRepository,
	) error {
		var err error
		order, err = purchaseRepo.GetOrderByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}

		if order.FreightTotal.IsNegative() {
			order.FreightTotal = decimal.Zero
			order.UpdatedAt = now
			if err := purchaseRepo.UpdateOrder(order); err != nil {
				return err
			}
		}
		costing.AllocateFreight(order)

		for _, line := range order.Lines {
			if err := purchaseRepo.UpdateLineAllocations(line); err != nil {
				return err
			}
		}
		return auditRepo.Append(&entity.AuditLog{
			ID:         uuid.New().String(),
			EntityType: "purchase_order",
			EntityID:   order.ID,
			Action:     "recalculate_allocations",
			NewValue:   fmt.Sprintf("flete %s repartido en %d líneas", order.FreightTotal.String(), len(order.Lines)),
			ActorID:    actorID,
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
