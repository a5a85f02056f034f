package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/application/report"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/sheet"
)

// InventoryHandler maneja las peticiones HTTP del ledger de inventario (protegido).
type InventoryHandler struct {
	ledger        *inventory.Ledger
	history       *inventory.HistoryService
	importer      *inventory.Importer
	export        *report.ExportUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	ledger *inventory.Ledger,
	history *inventory.HistoryService,
	importer *inventory.Importer,
	export *report.ExportUseCase,
	replenishment *inventory.ReplenishmentUseCase,
) *InventoryHandler {
	return &InventoryHandler{
		ledger:        ledger,
		history:       history,
		importer:      importer,
		export:        export,
		replenishment: replenishment,
	}
}

// List godoc
// @Summary      Listar ítems de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        store_id   query  string  false  "Filtrar por tienda"
// @Param        search     query  string  false  "Subcadena de SKU o nombre"
// @Param        low_stock  query  bool    false  "Solo ítems en o bajo el nivel de reorden"
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	filter := repository.ItemFilter{
		StoreID:  strings.TrimSpace(c.Query("store_id")),
		Search:   strings.TrimSpace(c.Query("search")),
		LowStock: c.QueryBool("low_stock", false),
	}
	items, err := h.ledger.ListItems(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener ítem por ID
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	it, err := h.ledger.GetItem(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toItemResponse(*it))
}

// Create godoc
// @Summary      Crear ítem de inventario
// @Description  Registra la entrada "created" en el historial y abre la alerta si nace en o bajo su nivel.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del ítem"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory [post]
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := decodeStrict(c, &in); err != nil {
		return invalidBody(c, err)
	}
	if in.Quantity == nil || in.ReorderLevel == nil {
		return writeError(c, domain.Errorf(domain.ErrInvalidInput, "quantity y reorder_level son requeridos"))
	}
	item, err := h.ledger.CreateItem(c.Context(), inventory.CreateItemInput{
		SKU:          in.SKU,
		ProductName:  in.ProductName,
		Quantity:     *in.Quantity,
		ReorderLevel: *in.ReorderLevel,
		UnitCost:     in.UnitCost,
		StoreID:      in.StoreID,
	}, actor(c))
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.ledger.GetItem(c.Context(), item.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toItemResponse(*out))
}

// Update godoc
// @Summary      Actualizar ítem de inventario
// @Description  Solo se aplican los campos presentes. Un cambio de cantidad queda en el historial.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del ítem"
// @Param        body  body  dto.UpdateItemRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/{id} [put]
func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	var in dto.UpdateItemRequest
	if err := decodeStrict(c, &in); err != nil {
		return invalidBody(c, err)
	}
	if _, err := h.ledger.Update(c.Context(), id, inventory.UpdateItemInput{
		SKU:          in.SKU,
		ProductName:  in.ProductName,
		Quantity:     in.Quantity,
		ReorderLevel: in.ReorderLevel,
		UnitCost:     in.UnitCost,
		StoreID:      in.StoreID,
	}, actor(c)); err != nil {
		return writeError(c, err)
	}
	out, err := h.ledger.GetItem(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toItemResponse(*out))
}

// Delete godoc
// @Summary      Eliminar ítem de inventario
// @Description  Borra también su historial y sus alertas.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.DeleteItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{id} [delete]
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	res, err := h.ledger.Delete(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeleteItemResponse{
		Success:        true,
		HistoryRemoved: res.HistoryRemoved,
		AlertsRemoved:  res.AlertsRemoved,
	})
}

// Adjust godoc
// @Summary      Ajustar cantidad
// @Description  Suma quantity_change (puede ser negativo). Un resultado negativo se rechaza completo.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustRequest  true  "item_id, quantity_change, change_type, notes"
// @Success      200   {object}  dto.AdjustResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustRequest
	if err := decodeStrict(c, &in); err != nil {
		return invalidBody(c, err)
	}
	if in.QuantityChange == nil {
		return writeError(c, domain.Errorf(domain.ErrInvalidInput, "quantity_change es requerido"))
	}
	res, err := h.ledger.Adjust(c.Context(), inventory.AdjustInput{
		ItemID:     in.ItemID,
		Delta:      *in.QuantityChange,
		ChangeType: in.ChangeType,
		Notes:      in.Notes,
	}, actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.AdjustResponse{Success: true, PreviousQty: res.PreviousQty, NewQty: res.NewQty})
}

// History godoc
// @Summary      Historial de un ítem
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del ítem"
// @Param        limit  query  int     false  "Máximo de entradas (tope 50)"  default(50)
// @Success      200  {array}  dto.HistoryEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{id}/history [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	views, err := h.history.HistoryFor(c.Context(), id, c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.HistoryEntryResponse, 0, len(views))
	for _, v := range views {
		e := v.Entry
		out = append(out, dto.HistoryEntryResponse{
			ID:          e.ID,
			ItemID:      e.ItemID,
			ChangeType:  e.ChangeType,
			Delta:       e.Delta,
			PreviousQty: e.PreviousQty,
			NewQty:      e.NewQty,
			UserID:      e.UserID,
			Username:    v.Username,
			Notes:       e.Notes,
			Timestamp:   e.Timestamp,
		})
	}
	return c.JSON(out)
}

// Import godoc
// @Summary      Importar ítems en lote
// @Description  JSON {csv_data, store_id} o multipart con "file" (.csv/.xlsx) y "store_id".
// @Description  Los SKU existentes en la tienda se omiten; los errores por fila no abortan el lote.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Accept       mpfd
// @Produce      json
// @Param        body      body      dto.ImportRequest  false  "CSV embebido"
// @Param        file      formData  file               false  "Archivo .csv o .xlsx"
// @Param        store_id  formData  string             false  "Tienda destino"
// @Success      200  {object}  dto.ImportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      429  {object}  dto.ErrorResponse
// @Router       /api/inventory/import [post]
func (h *InventoryHandler) Import(c *fiber.Ctx) error {
	var (
		rows    []inventory.ImportRow
		storeID string
		err     error
	)
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		rows, storeID, err = h.rowsFromUpload(c)
	} else {
		var in dto.ImportRequest
		if err := decodeStrict(c, &in); err != nil {
			return invalidBody(c, err)
		}
		storeID = in.StoreID
		rows, err = sheet.ParseCSV(strings.NewReader(in.CSVData))
	}
	if err != nil {
		return writeError(c, err)
	}

	res, err := h.importer.ImportBatch(c.Context(), rows, storeID, actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ImportResponse{Imported: res.Imported, Skipped: res.Skipped, Errors: res.Errors})
}

func (h *InventoryHandler) rowsFromUpload(c *fiber.Ctx) ([]inventory.ImportRow, string, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, "", domain.Errorf(domain.ErrInvalidInput, "el campo file es requerido")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("abrir archivo: %w", err)
	}
	defer f.Close()
	rows, err := sheet.ParseFile(fh.Filename, f)
	if err != nil {
		return nil, "", err
	}
	return rows, c.FormValue("store_id"), nil
}

// Export godoc
// @Summary      Exportar inventario
// @Description  Una fila por ítem con valor total y marca de reposición.
// @Tags         inventory
// @Security     Bearer
// @Produce      text/csv
// @Produce      application/pdf
// @Param        format  query  string  false  "csv | xlsx | pdf"  default(csv)
// @Success      200  {file}  file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/export [get]
func (h *InventoryHandler) Export(c *fiber.Ctx) error {
	file, err := h.export.Export(c.Context(), c.Query("format"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Filename))
	return c.Send(file.Data)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición sugerida
// @Description  Ítems en o bajo su nivel de reorden, priorizados por ventas recientes y déficit.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        store_id  query  string  false  "Filtrar por tienda"
// @Success      200  {array}  dto.ReplenishmentSuggestionDTO
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.Context(), strings.TrimSpace(c.Query("store_id")))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

func toItemResponse(it inventory.ItemWithStore) dto.ItemResponse {
	i := it.Item
	return dto.ItemResponse{
		ID:           i.ID,
		SKU:          i.SKU,
		ProductName:  i.ProductName,
		Quantity:     i.Quantity,
		ReorderLevel: i.ReorderLevel,
		UnitCost:     i.UnitCost,
		StoreID:      i.StoreID,
		StoreName:    it.StoreName,
		NeedsReorder: i.NeedsReorder(),
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}
