package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/margenes-api/internal/application/auth"
	"github.com/jhoicas/margenes-api/internal/application/metrics"
	"github.com/jhoicas/margenes-api/internal/application/purchasing"
	"github.com/jhoicas/margenes-api/internal/application/reporting"
	"github.com/jhoicas/margenes-api/internal/application/sales"
	"github.com/jhoicas/margenes-api/internal/application/usecase"
	"github.com/jhoicas/margenes-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	ItemUC      *usecase.ItemUseCase
	PurchaseUC  *purchasing.UseCase
	SalesUC     *sales.UseCase
	MetricsUC   *metrics.UseCase
	ReportingUC *reporting.UseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
//
// RBAC: viewer solo lee; editor registra órdenes y recálculos de orden;
// admin además administra usuarios, artículos y el recálculo de métricas.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	editorUp := RequireRole(entity.RoleAdmin, entity.RoleEditor)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleEditor, entity.RoleViewer)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Users (solo admin)
	userHandler := NewUserHandler(deps.UserUC)
	protected.Post("/users", adminOnly, authHandler.CreateUser)
	protected.Get("/users", adminOnly, userHandler.List)
	protected.Get("/users/:id", adminOnly, userHandler.GetByID)

	// Items (catálogo)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", editorUp, itemHandler.Create)
	items.Get("/", anyRole, itemHandler.List)
	items.Get("/:id", anyRole, itemHandler.GetByID)
	items.Put("/:id", editorUp, itemHandler.Update)
	items.Delete("/:id", adminOnly, itemHandler.Delete)

	// Purchases (órdenes de compra + prorrateo de flete)
	purchases := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases.Post("/", editorUp, purchaseHandler.Create)
	purchases.Get("/", anyRole, purchaseHandler.List)
	purchases.Get("/:id", anyRole, purchaseHandler.GetByID)
	purchases.Put("/:id", editorUp, purchaseHandler.Update)
	purchases.Post("/:id/recalculate-allocations", editorUp, purchaseHandler.RecalculateAllocations)

	// Sales (órdenes de venta + pipeline de costeo)
	salesGroup := protected.Group("/sales")
	salesHandler := NewSalesHandler(deps.SalesUC)
	salesGroup.Post("/", editorUp, salesHandler.Create)
	salesGroup.Post("/import", editorUp, salesHandler.Import)
	salesGroup.Get("/", anyRole, salesHandler.List)
	salesGroup.Get("/:id", anyRole, salesHandler.GetByID)
	salesGroup.Post("/:id/recompute", editorUp, salesHandler.Recompute)

	// Metrics (agregados diarios)
	metricsGroup := protected.Group("/metrics")
	metricsHandler := NewMetricsHandler(deps.MetricsUC)
	metricsGroup.Post("/recompute", adminOnly, metricsHandler.Recompute)
	metricsGroup.Get("/daily", anyRole, metricsHandler.Daily)

	// Reporting (dashboard, reportes, alertas)
	reportingHandler := NewReportingHandler(deps.ReportingUC)
	protected.Get("/dashboard", anyRole, reportingHandler.Dashboard)
	protected.Get("/reports/sku", anyRole, reportingHandler.SKUReport)
	protected.Get("/reports/sku/pdf", anyRole, reportingHandler.SKUReportPDF)
	protected.Get("/reports/discounts", anyRole, reportingHandler.DiscountReport)
	protected.Get("/alerts", anyRole, reportingHandler.Alerts)
}
