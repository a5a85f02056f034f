package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// AlertHandler expone el listado y la resolución manual de alertas de reposición.
type AlertHandler struct {
	engine *inventory.AlertEngine
}

// NewAlertHandler construye el handler.
func NewAlertHandler(engine *inventory.AlertEngine) *AlertHandler {
	return &AlertHandler{engine: engine}
}

// List godoc
// @Summary      Listar alertas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        resolved  query  bool  false  "false = solo abiertas"
// @Success      200  {array}  dto.AlertResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	onlyOpen := c.Query("resolved") == "false"
	alerts, err := h.engine.List(c.Context(), onlyOpen)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, toAlertResponse(a.Alert, a.StoreName))
	}
	return c.JSON(out)
}

// Resolve godoc
// @Summary      Resolver alerta manualmente
// @Description  Si el ítem sigue bajo su nivel, la próxima mutación abre una alerta nueva.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/resolve [put]
func (h *AlertHandler) Resolve(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	a, err := h.engine.ResolveManually(c.Context(), id, actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toAlertResponse(a, ""))
}

func toAlertResponse(a *entity.Alert, storeName string) dto.AlertResponse {
	return dto.AlertResponse{
		ID:           a.ID,
		ItemID:       a.ItemID,
		StoreID:      a.StoreID,
		StoreName:    storeName,
		SKU:          a.SKU,
		ProductName:  a.ProductName,
		Quantity:     a.Quantity,
		ReorderLevel: a.ReorderLevel,
		AlertType:    a.Type,
		TriggeredAt:  a.TriggeredAt,
		Resolved:     a.Resolved,
		ResolvedBy:   a.ResolvedBy,
		ResolvedAt:   a.ResolvedAt,
	}
}
