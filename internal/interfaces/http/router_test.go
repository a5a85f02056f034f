package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/application/report"
	"github.com/jhoicas/inventory-ledger/internal/application/usecase"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/sheet"
	apphttp "github.com/jhoicas/inventory-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers: API completa sobre el driver en memoria
// ──────────────────────────────────────────────────────────────────────────────

const staffUserID = "00000000-0000-0000-0000-000000000009"

func newTestAPI(t *testing.T, importRateLimit int) *fiber.App {
	t.Helper()
	log := logger.Nop()
	db := memory.NewDB()
	txRunner := memory.NewTxRunner(db)
	stores := memory.NewStoreRepository(db)
	items := memory.NewInventoryItemRepository(db)
	history := memory.NewHistoryRepository(db)
	alerts := memory.NewAlertRepository(db)
	users := memory.NewUserDirectory(db)
	require.NoError(t, users.Save(context.Background(), &entity.User{ID: testUserID, Username: testUsername, Role: entity.RoleAdmin}))

	engine := inventory.NewAlertEngine(txRunner, alerts, stores, log)
	ledger := inventory.NewLedger(txRunner, items, stores, engine, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		StoreUC:         usecase.NewStoreUseCase(stores, txRunner, log),
		Ledger:          ledger,
		History:         inventory.NewHistoryService(items, history, users, inventory.MaxHistoryLimit),
		Importer:        inventory.NewImporter(ledger, items, stores, log),
		Alerts:          engine,
		Replenishment:   inventory.NewReplenishmentUseCase(items, history, stores),
		Export:          report.NewExportUseCase(items, stores, sheet.CSVWriter{}, sheet.XLSXWriter{}),
		Dashboard:       report.NewDashboardUseCase(items, stores, alerts),
		JWTSecret:       testJWTSecret,
		ImportRateLimit: importRateLimit,
	})
	return app
}

// call envía body como JSON (o nada si body es nil) con el token indicado.
func call(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createStore(t *testing.T, app *fiber.App, token, name string) dto.StoreResponse {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/stores", token, dto.CreateStoreRequest{Name: name, Location: "Centro"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.StoreResponse](t, resp)
}

func intPtr(n int) *int { return &n }

func createItem(t *testing.T, app *fiber.App, token, storeID, sku string, qty, reorder int) dto.ItemResponse {
	t.Helper()
	body := map[string]any{
		"sku": sku, "product_name": "Producto " + sku, "quantity": qty,
		"reorder_level": reorder, "unit_cost": "2.50", "store_id": storeID,
	}
	resp := call(t, app, http.MethodPost, "/api/inventory", token, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.ItemResponse](t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de flujo: ítems, ajustes y alertas
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_SinToken_Retorna401(t *testing.T) {
	app := newTestAPI(t, 0)
	resp := call(t, app, http.MethodGet, "/api/inventory", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_CicloDeAlerta(t *testing.T) {
	app := newTestAPI(t, 0)
	admin := tokenForRole(t, entity.RoleAdmin)
	store := createStore(t, app, admin, "Norte")

	item := createItem(t, app, admin, store.ID, "A-1", 5, 10)
	assert.Equal(t, "Norte", item.StoreName)
	assert.True(t, item.NeedsReorder)

	open := decode[[]dto.AlertResponse](t, call(t, app, http.MethodGet, "/api/alerts?resolved=false", admin, nil))
	require.Len(t, open, 1, "crear bajo el nivel abre una alerta")
	assert.Equal(t, 5, open[0].Quantity)
	assert.Equal(t, "Norte", open[0].StoreName)

	resp := call(t, app, http.MethodPost, "/api/inventory/adjust", admin, dto.AdjustRequest{ItemID: item.ID, QuantityChange: intPtr(10), ChangeType: "reorder"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	adj := decode[dto.AdjustResponse](t, resp)
	assert.Equal(t, 5, adj.PreviousQty)
	assert.Equal(t, 15, adj.NewQty)

	open = decode[[]dto.AlertResponse](t, call(t, app, http.MethodGet, "/api/alerts?resolved=false", admin, nil))
	assert.Empty(t, open, "subir sobre el nivel cierra la alerta")

	all := decode[[]dto.AlertResponse](t, call(t, app, http.MethodGet, "/api/alerts", admin, nil))
	require.Len(t, all, 1)
	assert.True(t, all[0].Resolved)
	assert.Equal(t, string(entity.SystemActor), all[0].ResolvedBy)
}

func TestAPI_ResolverAlertaManualmente(t *testing.T) {
	app := newTestAPI(t, 0)
	admin := tokenForRole(t, entity.RoleAdmin)
	store := createStore(t, app, admin, "Sur")
	createItem(t, app, admin, store.ID, "B-1", 0, 3)

	open := decode[[]dto.AlertResponse](t, call(t, app, http.MethodGet, "/api/alerts?resolved=false", admin, nil))
	require.Len(t, open, 1)

	resp := call(t, app, http.MethodPut, "/api/alerts/"+open[0].ID+"/resolve", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resolved := decode[dto.AlertResponse](t, resp)
	assert.True(t, resolved.Resolved)
	assert.Equal(t, testUserID, resolved.ResolvedBy)

	resp = call(t, app, http.MethodPut, "/api/alerts/no-existe/resolve", admin, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_AjusteInsuficienteNoCambiaNada(t *testing.T) {
	app := newTestAPI(t, 0)
	admin := tokenForRole(t, entity.RoleAdmin)
	store := createStore(t, app, admin, "Este")
	item := createItem(t, app, admin, store.ID, "C-1", 4, 1)

	resp := call(t, app, http.MethodPost, "/api/inventory/adjust", admin, dto.AdjustRequest{ItemID: item.ID, QuantityChange: intPtr(-5), ChangeType: "sale"})
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_QUANTITY", errBody.Code)

	got := decode[dto.ItemResponse](t, call(t, app, http.MethodGet, "/api/inventory/"+item.ID, admin, nil))
	assert.Equal(t, 4, got.Quantity)

	hist := decode[[]dto.HistoryEntryResponse](t, call(t, app, http.MethodGet, "/api/inventory/"+item.ID+"/history", admin, nil))
	require.Len(t, hist, 1, "solo la entrada de creación")
	assert.Equal(t, entity.ChangeTypeCreated, hist[0].ChangeType)
	assert.Equal(t, testUsername, hist[0].Username)
}

func TestAPI_ErroresDeValidacion(t *testing.T) {
	app := newTestAPI(t, 0)
	admin := tokenForRole(t, entity.RoleAdmin)
	store := createStore(t, app, admin, "Oeste")

	// campo desconocido
	resp := call(t, app, http.MethodPost, "/api/inventory", admin, `{"sku":"X","product_name":"X","store_id":"`+store.ID+`","color":"rojo"}`)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", errBody.Code)

	// cantidad negativa
	resp = call(t, app, http.MethodPost, "/api/inventory", admin, map[string]any{"sku": "X", "product_name": "X", "store_id": store.ID, "quantity": -1, "reorder_level": 0})
	errBody = decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errBody.Code)

	// SKU duplicado en la misma tienda
	createItem(t, app, admin, store.ID, "DUP", 1, 0)
	resp = call(t, app, http.MethodPost, "/api/inventory", admin, map[string]any{"sku": "DUP", "product_name": "Otro", "store_id": store.ID, "quantity": 1, "reorder_level": 0})
	errBody = decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errBody.Code)

	// tienda inexistente
	resp = call(t, app, http.MethodPost, "/api/inventory", admin, map[string]any{"sku": "Z", "product_name": "Z", "store_id": "nope", "quantity": 1, "reorder_level": 0})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// Cantidades omitidas no se toman como 0.
func TestAPI_CamposNumericosRequeridos(t *testing.T) {
	app := newTestAPI(t, 0)
	admin := tokenForRole(t, entity.RoleAdmin)
	store := createStore(t, app, admin, "Requeridos")

	for name, body := range map[string]map[string]any{
		"sin quantity":      {"sku": "R-1", "product_name": "R", "store_id": store.ID, "reorder_level": 2},
		"sin reorder_level": {"sku": "R-1", "product_name": "R", "store_id": store.ID, "quantity": 2},
	} {
		resp := call(t, app, http.MethodPost, "/api/inventory", admin, body)
		errBody := decode[dto.ErrorResponse](t, resp)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, name)
		assert.Equal(t, "VALIDATION", errBody.Code, name)
	}
	resp := call(t, app, http.MethodGet, "/api/inventory?store_id="+store.ID, admin, nil)
	assert.Empty(t, decode[[]dto.ItemResponse](t, resp), "no se crea nada")

	item := createItem(t, app, admin, store.ID, "R-2", 4, 1)
	resp = call(t, app, http.MethodPost, "/api/inventory/adjust", admin, map[string]any{"item_id": item.ID, "change_type": "sale"})
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errBody.Code)

	resp = call(t, app, http.MethodGet, "/api/inventory/"+item.ID+"/history", admin, nil)
	assert.Len(t, decode[[]dto.HistoryEntryResponse](t, resp), 1, "solo la entrada created")

	// quantity_change explícito en 0 sí es válido
	resp = call(t, app, http.MethodPost, "/api/inventory/adjust", admin, dto.AdjustRequest{ItemID: item.ID, QuantityChange: intPtr(0)})
	adj := decode[dto.AdjustResponse](t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 4, adj.NewQty)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tiendas
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_BorrarTiendaConItems_Retorna409(t *testing.T) {
	app := newTestAPI(t, 0)
	admin := tokenForRole(t, entity.RoleAdmin)
	store := createStore(t, app, admin, "Bodega")
	item := createItem(t, app, admin, store.ID, "D-1", 2, 1)

	resp := call(t, app, http.MethodDelete, "/api/stores/"+store.ID, admin, nil)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DEPENDENCY_CONFLICT", errBody.Code)

	del := decode[dto.DeleteItemResponse](t, call(t, app, http.MethodDelete, "/api/inventory/"+item.ID, admin, nil))
	assert.True(t, del.Success)
	assert.Equal(t, int64(1), del.HistoryRemoved)

	resp = call(t, app, http.MethodDelete, "/api/stores/"+store.ID, admin, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_StaffNoPuedeModificarTiendas(t *testing.T) {
	app := newTestAPI(t, 0)
	staff := tokenFor(t, staffUserID, "pedro", entity.RoleStaff)

	resp := call(t, app, http.MethodPost, "/api/stores", staff, dto.CreateStoreRequest{Name: "X", Location: "Y"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	list := decode[[]dto.StoreResponse](t, call(t, app, http.MethodGet, "/api/stores", staff, nil))
	assert.Empty(t, list)
}

// ──────────────────────────────────────────────────────────────────────────────
// Importación y exportación
// ──────────────────────────────────────────────────────────────────────────────

const importCSV = "SKU,Product Name,Current Quantity,Reorder Level,Unit Cost\n" +
	"I-1,Tornillo,10,2,0.10\n" +
	"I-2,Tuerca,1,5,0.05\n" +
	",Sin SKU,3,1,1\n"

func TestAPI_ImportarJSONEsIdempotente(t *testing.T) {
	app := newTestAPI(t, 0)
	admin := tokenForRole(t, entity.RoleAdmin)
	store := createStore(t, app, admin, "Import")

	first := decode[dto.ImportResponse](t, call(t, app, http.MethodPost, "/api/inventory/import", admin, dto.ImportRequest{CSVData: importCSV, StoreID: store.ID}))
	assert.Equal(t, 2, first.Imported)
	assert.Equal(t, 0, first.Skipped)
	assert.Empty(t, first.Errors)

	second := decode[dto.ImportResponse](t, call(t, app, http.MethodPost, "/api/inventory/import", admin, dto.ImportRequest{CSVData: importCSV, StoreID: store.ID}))
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 2, second.Skipped)

	low := decode[[]dto.ItemResponse](t, call(t, app, http.MethodGet, "/api/inventory?low_stock=true", admin, nil))
	require.Len(t, low, 1)
	assert.Equal(t, "I-2", low[0].SKU)
}

// Encabezados con otro texto o sin columnas clave no importan nada, pero la llamada responde 200.
func TestAPI_ImportarEncabezadosNoReconocidos(t *testing.T) {
	app := newTestAPI(t, 0)
	admin := tokenForRole(t, entity.RoleAdmin)
	store := createStore(t, app, admin, "Encabezados")

	for _, csvData := range []string{
		"sku,product name,current quantity\nB1,Bee,3\n",
		"Code,Name\nC1,Cee\n",
	} {
		resp := call(t, app, http.MethodPost, "/api/inventory/import", admin, dto.ImportRequest{CSVData: csvData, StoreID: store.ID})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		res := decode[dto.ImportResponse](t, resp)
		assert.Equal(t, 0, res.Imported)
		assert.Equal(t, 0, res.Skipped)
		assert.Empty(t, res.Errors)
	}
	items := decode[[]dto.ItemResponse](t, call(t, app, http.MethodGet, "/api/inventory?store_id="+store.ID, admin, nil))
	assert.Empty(t, items)
}

func TestAPI_ImportarMultipart(t *testing.T) {
	app := newTestAPI(t, 0)
	admin := tokenForRole(t, entity.RoleAdmin)
	store := createStore(t, app, admin, "Multipart")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "items.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(importCSV))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("store_id", store.ID))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/inventory/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", admin)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[dto.ImportResponse](t, resp)
	assert.Equal(t, 2, res.Imported)
}

func TestAPI_ImportarRespetaLimite(t *testing.T) {
	app := newTestAPI(t, 1)
	admin := tokenForRole(t, entity.RoleAdmin)
	store := createStore(t, app, admin, "Limite")

	resp := call(t, app, http.MethodPost, "/api/inventory/import", admin, dto.ImportRequest{CSVData: importCSV, StoreID: store.ID})
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/inventory/import", admin, dto.ImportRequest{CSVData: importCSV, StoreID: store.ID})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestAPI_ExportarCSV(t *testing.T) {
	app := newTestAPI(t, 0)
	admin := tokenForRole(t, entity.RoleAdmin)
	store := createStore(t, app, admin, "Export")
	createItem(t, app, admin, store.ID, "E-1", 3, 5)

	resp := call(t, app, http.MethodGet, "/api/inventory/export?format=csv", admin, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "inventory-export-")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(dto.ExportHeader, ","), lines[0])
	assert.Equal(t, "E-1,Producto E-1,Export,3,5,2.5,7.50,Yes", lines[1])

	resp = call(t, app, http.MethodGet, "/api/inventory/export?format=docx", admin, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_DashboardYReposicion(t *testing.T) {
	app := newTestAPI(t, 0)
	admin := tokenForRole(t, entity.RoleAdmin)
	store := createStore(t, app, admin, "Dash")
	createItem(t, app, admin, store.ID, "F-1", 2, 4)
	createItem(t, app, admin, store.ID, "F-2", 10, 1)

	stats := decode[dto.DashboardStatsDTO](t, call(t, app, http.MethodGet, "/api/dashboard/stats", admin, nil))
	assert.Equal(t, 2, stats.TotalItems)
	assert.Equal(t, 1, stats.TotalStores)
	assert.Equal(t, 1, stats.ActiveAlerts)
	assert.Equal(t, 1, stats.LowStockCount)
	assert.True(t, stats.TotalValue.Equal(decimal.NewFromInt(30)), "valor total %s", stats.TotalValue)

	list := decode[[]dto.ReplenishmentSuggestionDTO](t, call(t, app, http.MethodGet, "/api/inventory/replenishment-list?store_id="+store.ID, admin, nil))
	require.Len(t, list, 1)
	assert.Equal(t, "F-1", list[0].SKU)
	assert.Equal(t, 6, list[0].IdealStock)
	assert.Equal(t, 4, list[0].SuggestedOrderQty)
	assert.Equal(t, 1, list[0].Priority)
}
