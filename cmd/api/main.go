package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/margenes-api/internal/application/auth"
	appmetrics "github.com/jhoicas/margenes-api/internal/application/metrics"
	"github.com/jhoicas/margenes-api/internal/application/purchasing"
	appreporting "github.com/jhoicas/margenes-api/internal/application/reporting"
	appsales "github.com/jhoicas/margenes-api/internal/application/sales"
	"github.com/jhoicas/margenes-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/margenes-api/internal/infrastructure/pdf"
	"github.com/jhoicas/margenes-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/margenes-api/internal/interfaces/http"
	"github.com/jhoicas/margenes-api/pkg/config"
	"github.com/jhoicas/margenes-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	salesRepo := postgres.NewSalesRepository(pool)
	metricsRepo := postgres.NewMetricsRepository(pool)
	reportingRepo := postgres.NewReportingRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	defaultVATRate := decimal.NewFromInt(int64(cfg.Engine.DefaultVATRate))

	userUC := usecase.NewUserUseCase(userRepo)
	itemUC := usecase.NewItemUseCase(itemRepo, defaultVATRate)
	purchaseUC := purchasing.NewUseCase(txRunner, purchaseRepo, itemRepo, defaultVATRate)
	salesUC := appsales.NewUseCase(txRunner, salesRepo, cfg.Engine.DefaultCostMethod, defaultVATRate)
	metricsUC := appmetrics.NewUseCase(txRunner, metricsRepo)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	reportingUC := appreporting.NewUseCase(
		reportingRepo, metricsRepo, pdfGenerator,
		decimal.NewFromInt(int64(cfg.Engine.AlertMarginPct)),
		decimal.NewFromInt(int64(cfg.Engine.AlertDiscountPct)),
	)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Margenes API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		ItemUC:      itemUC,
		PurchaseUC:  purchaseUC,
		SalesUC:     salesUC,
		MetricsUC:   metricsUC,
		ReportingUC: reportingUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
