package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/margenes-api/internal/application/dto"
	"github.com/jhoicas/margenes-api/internal/application/sales"
	"github.com/jhoicas/margenes-api/internal/domain"
	"github.com/jhoicas/margenes-api/internal/domain/entity"
)

// SalesHandler maneja órdenes de venta y su snapshot económico.
type SalesHandler struct {
	uc *sales.UseCase
}

// NewSalesHandler construye el handler.
func NewSalesHandler(uc *sales.UseCase) *SalesHandler {
	return &SalesHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar orden de venta
// @Description  Corre el pipeline de costeo completo: distribuye el descuento
//               de orden, resuelve el costo base contra el historial de compras
//               y congela la economía de cada línea. El par (channel,
//               order_number) es único: un reenvío devuelve 409.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSalesOrderRequest  true  "orden de venta"
// @Success      201   {object}  dto.SalesOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SalesHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSalesOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	order, err := h.uc.CreateOrder(c.Context(), toSalesOrderInput(in), GetUserID(c))
	if err != nil {
		return salesError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSalesOrderResponse(order))
}

// Import godoc
// @Summary      Importar ventas por lotes
// @Description  Registra varias órdenes; los reenvíos exactos se cuentan como
//               duplicados sin interrumpir el lote.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  []dto.CreateSalesOrderRequest  true  "órdenes"
// @Success      200   {object}  dto.ImportSalesResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sales/import [post]
func (h *SalesHandler) Import(c *fiber.Ctx) error {
	var in []dto.CreateSalesOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el lote está vacío"})
	}

	inputs := make([]sales.OrderInput, 0, len(in))
	for _, req := range in {
		inputs = append(inputs, toSalesOrderInput(req))
	}
	res := h.uc.ImportOrders(c.Context(), inputs, GetUserID(c))
	return c.JSON(dto.ImportSalesResult{
		Created:    res.Created,
		Duplicates: res.Duplicates,
		Errors:     res.Errors,
	})
}

// GetByID godoc
// @Summary      Obtener orden de venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SalesHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.GetOrder(c.Params("id"))
	if err != nil {
		return salesError(c, err)
	}
	return c.JSON(toSalesOrderResponse(order))
}

// List godoc
// @Summary      Listar órdenes de venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máx. resultados (default 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.SalesOrderListResponse
// @Router       /api/sales [get]
func (h *SalesHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos"})
	}
	page.DefaultPage()
	orders, err := h.uc.ListOrders(page.Limit, page.Offset)
	if err != nil {
		return salesError(c, err)
	}
	items := make([]dto.SalesOrderResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, toSalesOrderResponse(o))
	}
	return c.JSON(dto.SalesOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// Recompute godoc
// @Summary      Recostear una orden de venta
// @Description  Vuelve a resolver descuentos y costos de la orden contra el
//               historial de compras actual y persiste el snapshot nuevo.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/recompute [post]
func (h *SalesHandler) Recompute(c *fiber.Ctx) error {
	order, err := h.uc.RecomputeOrder(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return salesError(c, err)
	}
	return c.JSON(toSalesOrderResponse(order))
}

func salesError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden de venta no encontrada"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_ORDER", Message: "la orden ya fue registrada para ese canal"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos de la orden inválidos"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func toSalesOrderInput(in dto.CreateSalesOrderRequest) sales.OrderInput {
	input := sales.OrderInput{
		Channel:            in.Channel,
		OrderNumber:        in.OrderNumber,
		OrderDate:          in.OrderDate,
		Customer:           in.Customer,
		OrderDiscountGross: in.OrderDiscountGross,
		ShippingGross:      in.ShippingGross,
		CostMethod:         in.CostMethod,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, sales.LineInput{
			SKU:               l.SKU,
			Description:       l.Description,
			Qty:               l.Qty,
			UnitPriceGross:    l.UnitPriceGross,
			LineDiscountGross: l.LineDiscountGross,
			VATRate:           l.VATRate,
		})
	}
	return input
}

func toSalesOrderResponse(o *entity.SalesOrder) dto.SalesOrderResponse {
	resp := dto.SalesOrderResponse{
		ID:                 o.ID,
		Channel:            o.Channel,
		OrderNumber:        o.OrderNumber,
		OrderDate:          o.OrderDate,
		Customer:           o.Customer,
		OrderDiscountGross: o.OrderDiscountGross,
		ShippingGross:      o.ShippingGross,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
		Lines:              make([]dto.SalesLineResponse, 0, len(o.Lines)),
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, dto.SalesLineResponse{
			ID:                      l.ID,
			ItemID:                  l.ItemID,
			Qty:                     l.Qty,
			UnitPriceGross:          l.UnitPriceGross,
			LineDiscountGross:       l.LineDiscountGross,
			OrderDiscountAllocGross: l.OrderDiscountAllocGross,
			VATRate:                 l.VATRate,
			UnitPriceNet:            l.UnitPriceNet,
			UnitCostBasis:           l.UnitCostBasis,
			CostMethod:              l.CostMethod,
			CostSourcePOID:          l.CostSourcePOID,
			RevenueNet:              l.RevenueNet,
			CostTotal:               l.CostTotal,
			Profit:                  l.Profit,
		})
	}
	return resp
}
