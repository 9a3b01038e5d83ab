package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/margenes-api/internal/application/dto"
	"github.com/jhoicas/margenes-api/internal/application/metrics"
	"github.com/jhoicas/margenes-api/internal/domain"
	"github.com/jhoicas/margenes-api/internal/domain/costing"
)

const dayLayout = "2006-01-02"

// MetricsHandler maneja el recálculo y consulta de agregados diarios.
type MetricsHandler struct {
	uc *metrics.UseCase
}

// NewMetricsHandler construye el handler.
func NewMetricsHandler(uc *metrics.UseCase) *MetricsHandler {
	return &MetricsHandler{uc: uc}
}

// Recompute godoc
// @Summary      Recalcular métricas diarias (solo admin)
// @Description  Borra los agregados del rango y los reconstruye desde los
//               snapshots de líneas, todo en una transacción. Idempotente.
// @Tags         metrics
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecomputeMetricsRequest  true  "rango YYYY-MM-DD inclusive"
// @Success      200   {object}  dto.RecomputeMetricsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/metrics/recompute [post]
func (h *MetricsHandler) Recompute(c *fiber.Ctx) error {
	var in dto.RecomputeMetricsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	res, err := h.uc.Recompute(c.Context(), in.From, in.To, GetUserID(c))
	if err != nil {
		return metricsError(c, err)
	}
	return c.JSON(dto.RecomputeMetricsResponse{
		From:       res.From.Format(dayLayout),
		To:         res.To.Format(dayLayout),
		DaysStored: res.DaysStored,
		SkuRows:    res.SkuRows,
		ComputedAt: res.ComputedAt,
	})
}

// Daily godoc
// @Summary      Serie diaria de métricas
// @Tags         metrics
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  true  "inicio (YYYY-MM-DD)"
// @Param        to    query  string  true  "fin (YYYY-MM-DD)"
// @Success      200  {object}  dto.DailyMetricListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/metrics/daily [get]
func (h *MetricsHandler) Daily(c *fiber.Ctx) error {
	from := c.Query("from")
	to := c.Query("to")

	rows, err := h.uc.DailyRange(from, to)
	if err != nil {
		return metricsError(c, err)
	}
	items := make([]dto.DailyMetricResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.DailyMetricResponse{
			Day:           r.Day.Format(dayLayout),
			OrdersCount:   r.OrdersCount,
			UnitsSold:     r.UnitsSold,
			RevenueNet:    r.RevenueNet,
			COGS:          r.COGS,
			Profit:        r.Profit,
			MarginPct:     costing.MarginPct(r.Profit, r.RevenueNet).Round(2),
			DiscountGross: r.DiscountGross,
			DiscountNet:   r.DiscountNet,
			ComputedAt:    r.ComputedAt,
		})
	}
	return c.JSON(dto.DailyMetricListResponse{From: from, To: to, Items: items})
}

func metricsError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidDateRange):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_RANGE", Message: "rango de fechas inválido (formato YYYY-MM-DD, from <= to)"})
	case errors.Is(err, domain.ErrItemMissing):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ITEM_MISSING", Message: "hay líneas de venta cuyo artículo ya no existe"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
