package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/application/report"
	"github.com/jhoicas/inventory-ledger/internal/application/usecase"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StoreUC         *usecase.StoreUseCase
	Ledger          *inventory.Ledger
	History         *inventory.HistoryService
	Importer        *inventory.Importer
	Alerts          *inventory.AlertEngine
	Replenishment   *inventory.ReplenishmentUseCase
	Export          *report.ExportUseCase
	Dashboard       *report.DashboardUseCase
	JWTSecret       string
	ImportRateLimit int // importaciones por minuto y usuario; <= 0 desactiva el límite
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)

	// Stores: lectura para cualquier rol, escritura solo admin
	stores := api.Group("/stores")
	storeHandler := NewStoreHandler(deps.StoreUC)
	stores.Get("/", storeHandler.List)
	stores.Post("/", adminOnly, storeHandler.Create)
	stores.Get("/:id", storeHandler.GetByID)
	stores.Put("/:id", adminOnly, storeHandler.Update)
	stores.Delete("/:id", adminOnly, storeHandler.Delete)

	// Inventory: las rutas fijas van antes de /:id
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.History, deps.Importer, deps.Export, deps.Replenishment)
	inv.Get("/", inventoryHandler.List)
	inv.Post("/", inventoryHandler.Create)
	inv.Post("/adjust", inventoryHandler.Adjust)
	inv.Post("/import", importLimiter(deps.ImportRateLimit), inventoryHandler.Import)
	inv.Get("/export", inventoryHandler.Export)
	inv.Get("/replenishment-list", inventoryHandler.GetReplenishmentList)
	inv.Get("/:id", inventoryHandler.GetByID)
	inv.Put("/:id", inventoryHandler.Update)
	inv.Delete("/:id", adminOnly, inventoryHandler.Delete)
	inv.Get("/:id/history", inventoryHandler.History)

	// Alerts
	alerts := api.Group("/alerts")
	alertHandler := NewAlertHandler(deps.Alerts)
	alerts.Get("/", alertHandler.List)
	alerts.Put("/:id/resolve", alertHandler.Resolve)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.Dashboard)
	api.Get("/dashboard/stats", dashboardHandler.GetStats)
}

// importLimiter limita las importaciones por usuario en una ventana de un minuto.
func importLimiter(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if id := GetUserID(c); id != "" {
				return "import:" + id
			}
			return "import:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "demasiadas importaciones, intente en un minuto",
			})
		},
	})
}
