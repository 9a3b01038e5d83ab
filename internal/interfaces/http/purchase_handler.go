package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/margenes-api/internal/application/dto"
	"github.com/jhoicas/margenes-api/internal/application/purchasing"
	"github.com/jhoicas/margenes-api/internal/domain"
	"github.com/jhoicas/margenes-api/internal/domain/entity"
)

// PurchaseHandler maneja órdenes de compra y su prorrateo de flete.
type PurchaseHandler struct {
	uc *purchasing.UseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *purchasing.UseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar orden de compra
// @Description  Registra la orden, prorratea el flete entre sus líneas según el
//               método indicado (value | qty) y calcula el costo aterrizado.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "orden de compra"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	input := purchasing.OrderInput{
		OrderNumber:      in.OrderNumber,
		Supplier:         in.Supplier,
		OrderDate:        in.OrderDate,
		ArrivalDate:      in.ArrivalDate,
		FreightTotal:     in.FreightTotal,
		AllocationMethod: in.AllocationMethod,
		Notes:            in.Notes,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, purchasing.LineInput{
			SKU:              l.SKU,
			Qty:              l.Qty,
			UnitCostNet:      l.UnitCostNet,
			PackagingPerUnit: l.PackagingPerUnit,
		})
	}

	order, err := h.uc.CreateOrder(c.Context(), input, GetUserID(c))
	if err != nil {
		return purchaseError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPurchaseOrderResponse(order))
}

// GetByID godoc
// @Summary      Obtener orden de compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.GetOrder(c.Params("id"))
	if err != nil {
		return purchaseError(c, err)
	}
	return c.JSON(toPurchaseOrderResponse(order))
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máx. resultados (default 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.PurchaseOrderListResponse
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos"})
	}
	page.DefaultPage()
	orders, err := h.uc.ListOrders(page.Limit, page.Offset)
	if err != nil {
		return purchaseError(c, err)
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, toPurchaseOrderResponse(o))
	}
	return c.JSON(dto.PurchaseOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// Update godoc
// @Summary      Actualizar cabecera de una orden de compra
// @Description  Cambios de flete o método de prorrateo re-prorratean las líneas.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID de la orden"
// @Param        body  body  dto.UpdatePurchaseOrderRequest  true  "cabecera"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [put]
func (h *PurchaseHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.UpdateOrder(c.Context(), c.Params("id"), purchasing.HeaderChanges{
		Supplier:         in.Supplier,
		OrderDate:        in.OrderDate,
		ArrivalDate:      in.ArrivalDate,
		FreightTotal:     in.FreightTotal,
		AllocationMethod: in.AllocationMethod,
		Notes:            in.Notes,
	}, GetUserID(c))
	if err != nil {
		return purchaseError(c, err)
	}
	return c.JSON(toPurchaseOrderResponse(order))
}

// RecalculateAllocations godoc
// @Summary      Re-prorratear el flete de una orden
// @Description  Vuelve a correr el prorrateo con los datos actuales de la
//               orden. Idempotente: repetirlo produce los mismos valores.
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/recalculate-allocations [post]
func (h *PurchaseHandler) RecalculateAllocations(c *fiber.Ctx) error {
	order, err := h.uc.RecalculateAllocations(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return purchaseError(c, err)
	}
	return c.JSON(toPurchaseOrderResponse(order))
}

func purchaseError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden de compra no encontrada"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "la orden ya existe"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos de la orden inválidos"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func toPurchaseOrderResponse(o *entity.PurchaseOrder) dto.PurchaseOrderResponse {
	resp := dto.PurchaseOrderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		Supplier:         o.Supplier,
		OrderDate:        o.OrderDate,
		ArrivalDate:      o.ArrivalDate,
		FreightTotal:     o.FreightTotal,
		AllocationMethod: o.AllocationMethod,
		Notes:            o.Notes,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
		Lines:            make([]dto.PurchaseLineResponse, 0, len(o.Lines)),
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, dto.PurchaseLineResponse{
			ID:               l.ID,
			ItemID:           l.ItemID,
			Qty:              l.Qty,
			UnitCostNet:      l.UnitCostNet,
			PackagingPerUnit: l.PackagingPerUnit,
			FreightAllocated: l.FreightAllocated,
			FreightPerUnit:   l.FreightPerUnit,
			LandedUnitCost:   l.LandedUnitCost,
		})
	}
	return resp
}
