package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-ledger/internal/application/report"
)

// DashboardHandler maneja los endpoints del dashboard.
type DashboardHandler struct {
	uc *report.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *report.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetStats godoc
// @Summary      Estadísticas del dashboard
// @Description  Totales de ítems y tiendas, alertas activas, valor del inventario y ítems bajo nivel.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardStatsDTO
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.uc.GetStats(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stats)
}
