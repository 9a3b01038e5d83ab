package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/margenes-api/internal/application/dto"
	"github.com/jhoicas/margenes-api/internal/application/reporting"
	"github.com/jhoicas/margenes-api/internal/domain"
)

// ReportingHandler maneja dashboard, reportes y alertas.
type ReportingHandler struct {
	uc *reporting.UseCase
}

// NewReportingHandler construye el handler.
func NewReportingHandler(uc *reporting.UseCase) *ReportingHandler {
	return &ReportingHandler{uc: uc}
}

// Dashboard godoc
// @Summary      Resumen del rango para el dashboard
// @Description  Usa los agregados diarios si cubren todo el rango; si falta
//               algún día, calcula en vivo desde los snapshots de líneas.
// @Tags         reporting
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "inicio (YYYY-MM-DD, default hace 6 días)"
// @Param        to    query  string  false  "fin (YYYY-MM-DD, default hoy)"
// @Success      200  {object}  dto.DashboardSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/dashboard [get]
func (h *ReportingHandler) Dashboard(c *fiber.Ctx) error {
	from, to := c.Query("from"), c.Query("to")
	if from == "" && to == "" {
		// Sin rango: últimos 7 días incluyendo hoy.
		now := time.Now().UTC()
		from = now.AddDate(0, 0, -6).Format(dayLayout)
		to = now.Format(dayLayout)
	}
	summary, err := h.uc.GetDashboard(c.Context(), from, to)
	if err != nil {
		return reportingError(c, err)
	}
	return c.JSON(summary)
}

// SKUReport godoc
// @Summary      Reporte de margen por SKU
// @Tags         reporting
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  true  "inicio (YYYY-MM-DD)"
// @Param        to    query  string  true  "fin (YYYY-MM-DD)"
// @Success      200  {object}  dto.SKUReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sku [get]
func (h *ReportingHandler) SKUReport(c *fiber.Ctx) error {
	report, err := h.uc.GetSKUReport(c.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		return reportingError(c, err)
	}
	return c.JSON(report)
}

// SKUReportPDF godoc
// @Summary      Reporte de margen por SKU en PDF
// @Tags         reporting
// @Security     Bearer
// @Produce      application/pdf
// @Param        from  query  string  true  "inicio (YYYY-MM-DD)"
// @Param        to    query  string  true  "fin (YYYY-MM-DD)"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sku/pdf [get]
func (h *ReportingHandler) SKUReportPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.uc.GetSKUReportPDF(c.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		return reportingError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// DiscountReport godoc
// @Summary      Reporte de descuentos (bruto y neto por tasa de IVA)
// @Tags         reporting
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  true  "inicio (YYYY-MM-DD)"
// @Param        to    query  string  true  "fin (YYYY-MM-DD)"
// @Success      200  {object}  dto.DiscountReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/discounts [get]
func (h *ReportingHandler) DiscountReport(c *fiber.Ctx) error {
	report, err := h.uc.GetDiscountReport(c.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		return reportingError(c, err)
	}
	return c.JSON(report)
}

// Alerts godoc
// @Summary      Alertas de margen bajo y descuento alto
// @Tags         reporting
// @Security     Bearer
// @Produce      json
// @Param        from          query  string  true   "inicio (YYYY-MM-DD)"
// @Param        to            query  string  true   "fin (YYYY-MM-DD)"
// @Param        margin_pct    query  string  false  "umbral de margen mínimo (default configurado)"
// @Param        discount_pct  query  string  false  "umbral de descuento máximo (default configurado)"
// @Success      200  {object}  dto.AlertsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/alerts [get]
func (h *ReportingHandler) Alerts(c *fiber.Ctx) error {
	alerts, err := h.uc.GetAlerts(c.Context(), c.Query("from"), c.Query("to"),
		c.Query("margin_pct"), c.Query("discount_pct"))
	if err != nil {
		return reportingError(c, err)
	}
	return c.JSON(alerts)
}

func reportingError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidDateRange) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_RANGE", Message: "rango de fechas inválido (formato YYYY-MM-DD, from <= to)"})
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
