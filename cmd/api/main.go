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
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/application/report"
	"github.com/jhoicas/inventory-ledger/internal/application/usecase"
	infrapdf "github.com/jhoicas/inventory-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/sheet"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/inventory-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventory-ledger/pkg/config"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.Store.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx := context.Background()
	be, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir persistencia")
	}
	defer be.Close()

	alertEngine := inventory.NewAlertEngine(be.TxRunner, be.Alerts, be.Stores, log)
	ledger := inventory.NewLedger(be.TxRunner, be.Items, be.Stores, alertEngine, log)
	historySvc := inventory.NewHistoryService(be.Items, be.History, be.Users, cfg.Ledger.HistoryLimit)
	importer := inventory.NewImporter(ledger, be.Items, be.Stores, log)
	replenishmentUC := inventory.NewReplenishmentUseCase(be.Items, be.History, be.Stores)
	storeUC := usecase.NewStoreUseCase(be.Stores, be.TxRunner, log)

	exportUC := report.NewExportUseCase(be.Items, be.Stores,
		sheet.CSVWriter{},
		sheet.XLSXWriter{},
		infrapdf.NewMarotoExportWriter(cfg.App.Name),
	)
	dashboardUC := report.NewDashboardUseCase(be.Items, be.Stores, be.Alerts)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    16 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(requestid.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventory Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "driver": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		StoreUC:         storeUC,
		Ledger:          ledger,
		History:         historySvc,
		Importer:        importer,
		Alerts:          alertEngine,
		Replenishment:   replenishmentUC,
		Export:          exportUC,
		Dashboard:       dashboardUC,
		JWTSecret:       cfg.JWT.Secret,
		ImportRateLimit: cfg.Ledger.ImportRateLimit,
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
