package sales

import (
	"context"
	"errors"
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

// UseCase registra órdenes de venta y congela su snapshot económico:
// descuento de orden distribuido, tasa de IVA, costo base resuelto y
// economía de línea. Todo se calcula y persiste en una sola transacción.
type UseCase struct {
	txRunner          TxRunner
	salesRepo         repository.SalesRepository
	defaultCostMethod string
	defaultVATRate    decimal.Decimal
}

// NewUseCase construye el caso de uso de ventas.
func NewUseCase(
	txRunner TxRunner,
	salesRepo repository.SalesRepository,
	defaultCostMethod string,
	defaultVATRate decimal.Decimal,
) *UseCase {
	return &UseCase{
		txRunner:          txRunner,
		salesRepo:         salesRepo,
		defaultCostMethod: defaultCostMethod,
		defaultVATRate:    defaultVATRate,
	}
}

// LineInput línea de venta entrante, en valores brutos (IVA incluido).
type LineInput struct {
	SKU               string
	Description       string
	Qty               int64
	UnitPriceGross    decimal.Decimal
	LineDiscountGross decimal.Decimal
	VATRate           *decimal.Decimal
}

// OrderInput entrada para registrar una venta.
type OrderInput struct {
	Channel            string
	OrderNumber        string
	OrderDate          time.Time
	Customer           string
	OrderDiscountGross decimal.Decimal
	ShippingGross      decimal.Decimal // informativo; no participa del margen
	CostMethod         string
	Lines              []LineInput
}

// ImportResult resumen de una importación por lotes.
type ImportResult struct {
	Created    int
	Duplicates int
	Errors     []string
}

// CreateOrder valida la entrada y corre el pipeline completo de costeo:
// resolver artículos (creando los faltantes), distribuir el descuento de
// orden, resolver el costo base por línea contra el historial de compras y
// congelar la economía de cada línea. El par (channel, order_number) es
// único; un reenvío devuelve domain.ErrDuplicate sin tocar nada.
func (uc *UseCase) CreateOrder(ctx context.Context, input OrderInput, actorID string) (*entity.SalesOrder, error) {
	if err := uc.validate(&input); err != nil {
		return nil, err
	}

	now := time.Now()
	order := &entity.SalesOrder{
		ID:                 uuid.New().String(),
		Channel:            strings.TrimSpace(input.Channel),
		OrderNumber:        strings.TrimSpace(input.OrderNumber),
		OrderDate:          input.OrderDate,
		Customer:           input.Customer,
		OrderDiscountGross: input.OrderDiscountGross,
		ShippingGross:      input.ShippingGross,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err := uc.txRunner.RunSales(ctx, func(
		salesRepo repository.SalesRepository,
		itemRepo repository.ItemRepository,
		purchaseRepo repository.PurchaseRepository,
		auditRepo repository.AuditRepository,
	) error {
		for _, l := range input.Lines {
			item, err := resolveItem(itemRepo, l, uc.defaultVATRate, now)
			if err != nil {
				return err
			}
			vatRate := item.VATRate
			if l.VATRate != nil {
				vatRate = *l.VATRate
			}
			order.Lines = append(order.Lines, &entity.SalesLine{
				ID:                uuid.New().String(),
				SalesOrderID:      order.ID,
				ItemID:            item.ID,
				Qty:               l.Qty,
				UnitPriceGross:    l.UnitPriceGross,
				LineDiscountGross: l.LineDiscountGross,
				VATRate:           vatRate,
				CostMethod:        input.CostMethod,
				CreatedAt:         now,
			})
		}

		costing.AllocateOrderDiscount(order)

		for _, line := range order.Lines {
			if err := costLine(purchaseRepo, line, order.OrderDate); err != nil {
				return err
			}
		}

		if err := salesRepo.CreateOrder(order); err != nil {
			return err
		}
		return auditRepo.Append(&entity.AuditLog{
			ID:         uuid.New().String(),
			EntityType: "sales_order",
			EntityID:   order.ID,
			Action:     "create",
			NewValue:   fmt.Sprintf("venta %s/%s con %d líneas", order.Channel, order.OrderNumber, len(order.Lines)),
			ActorID:    actorID,
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (uc *UseCase) validate(input *OrderInput) error {
	if strings.TrimSpace(input.Channel) == "" || strings.TrimSpace(input.OrderNumber) == "" {
		return domain.ErrInvalidInput
	}
	if input.OrderDate.IsZero() || len(input.Lines) == 0 {
		return domain.ErrInvalidInput
	}
	if input.OrderDiscountGross.IsNegative() || input.ShippingGross.IsNegative() {
		return domain.ErrInvalidInput
	}
	if input.CostMethod == "" {
		input.CostMethod = uc.defaultCostMethod
	}
	if input.CostMethod != entity.CostMethodWeightedAvg && input.CostMethod != entity.CostMethodLast {
		return domain.ErrInvalidInput
	}
	for _, l := range input.Lines {
		if strings.TrimSpace(l.SKU) == "" || l.Qty < 1 {
			return domain.ErrInvalidInput
		}
		// El precio de venta debe ser mayor que cero; cero también se rechaza.
		if !l.UnitPriceGross.IsPositive() || l.LineDiscountGross.IsNegative() {
			return domain.ErrInvalidInput
		}
		if l.VATRate != nil && l.VATRate.LessThanOrEqual(decimal.NewFromInt(-100)) {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// resolveItem busca el artículo por SKU dentro de la transacción y lo crea si
// es la primera vez que ese SKU aparece en una venta.
func resolveItem(itemRepo repository.ItemRepository, l LineInput, defaultVATRate decimal.Decimal, now time.Time) (*entity.Item, error) {
	sku := strings.TrimSpace(l.SKU)
	item, err := itemRepo.GetBySKU(sku)
	if err != nil {
		return nil, err
	}
	if item != nil {
		return item, nil
	}
	description := l.Description
	if description == "" {
		description = sku
	}
	vatRate := defaultVATRate
	if l.VATRate != nil {
		vatRate = *l.VATRate
	}
	item = &entity.Item{
		ID:          uuid.New().String(),
		SKU:         sku,
		Description: description,
		VATRate:     vatRate,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := itemRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// costLine resuelve el costo base de la línea contra el historial de compras
// y congela su economía. Sin historial el costo queda en cero y la venta se
// registra igual; el dashboard expone esas líneas como hueco de datos.
// Los montos se redondean recién aquí, al borde de la persistencia.
func costLine(purchaseRepo repository.PurchaseRepository, line *entity.SalesLine, orderDate time.Time) error {
	candidates, err := purchaseRepo.CostCandidates(line.ItemID)
	if err != nil {
		return err
	}
	unitCost, sourcePO := costing.ResolveUnitCost(candidates, orderDate, line.CostMethod)
	line.UnitCostBasis = costing.RoundCost(unitCost)
	if sourcePO != "" {
		line.CostSourcePOID = &sourcePO
	} else {
		line.CostSourcePOID = nil
	}

	eco := costing.ComputeLineEconomics(line)
	line.UnitPriceNet = costing.RoundCost(eco.UnitPriceNet)
	line.RevenueNet = costing.RoundMoney(eco.RevenueNet)
	line.CostTotal = costing.RoundMoney(eco.CostTotal)
	line.Profit = costing.RoundMoney(eco.Profit)
	return nil
}

// RecomputeOrder vuelve a resolver descuentos, costos y economía de una
// orden existente contra el historial de compras ACTUAL, y persiste el
// snapshot actualizado de cada línea. Idempotente con entradas iguales.
// La orden se relee con FOR UPDATE dentro de la transacción: dos recálculos
// concurrentes de la misma orden quedan serializados.
func (uc *UseCase) RecomputeOrder(ctx context.Context, orderID, actorID string) (*entity.SalesOrder, error) {
	now := time.Now()
	var order *entity.SalesOrder
	err := uc.txRunner.RunSales(ctx, func(
		salesRepo repository.SalesRepository,
		_ repository.ItemRepository,
		purchaseRepo repository.PurchaseRepository,
		auditRepo repository.AuditRepository,
	) error {
		var err error
		order, err = salesRepo.GetOrderByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}

		costing.AllocateOrderDiscount(order)
		for _, line := range order.Lines {
			if err := costLine(purchaseRepo, line, order.OrderDate); err != nil {
				return err
			}
			if err := salesRepo.UpdateLineSnapshot(line); err != nil {
				return err
			}
		}
		return auditRepo.Append(&entity.AuditLog{
			ID:         uuid.New().String(),
			EntityType: "sales_order",
			EntityID:   order.ID,
			Action:     "recompute",
			NewValue:   fmt.Sprintf("%d líneas recosteadas", len(order.Lines)),
			ActorID:    actorID,
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ImportOrders registra un lote de ventas. Los reenvíos exactos (mismo canal
// y número de orden) se cuentan como duplicados y no interrumpen el lote;
// cualquier otro error se acumula con su contexto.
func (uc *UseCase) ImportOrders(ctx context.Context, inputs []OrderInput, actorID string) ImportResult {
	var res ImportResult
	for _, input := range inputs {
		_, err := uc.CreateOrder(ctx, input, actorID)
		switch {
		case err == nil:
			res.Created++
		case errors.Is(err, domain.ErrDuplicate):
			res.Duplicates++
		default:
			res.Errors = append(res.Errors, fmt.Sprintf("%s/%s: %v", input.Channel, input.OrderNumber, err))
		}
	}
	return res
}

// GetOrder devuelve una venta con sus líneas.
func (uc *UseCase) GetOrder(id string) (*entity.SalesOrder, error) {
	order, err := uc.salesRepo.GetOrderByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// ListOrders devuelve ventas paginadas, más recientes primero.
func (uc *UseCase) ListOrders(limit, offset int) ([]*entity.SalesOrder, error) {
	return uc.salesRepo.ListOrders(limit, offset)
}
