package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

// Columnas reconocidas en archivos de importación (CSV o XLSX).
const (
	ColumnSKU          = "SKU"
	ColumnProductName  = "Product Name"
	ColumnQuantity     = "Current Quantity"
	ColumnReorderLevel = "Reorder Level"
	ColumnUnitCost     = "Unit Cost"
)

// ImportRow fila cruda tal como viene del archivo; los números se interpretan al importar.
type ImportRow struct {
	SKU          string
	ProductName  string
	Quantity     string
	ReorderLevel string
	UnitCost     string
}

// ImportResult resumen de un lote.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []string
}

// Importer crea ítems en lote vía Ledger.CreateItem, una transacción por fila.
type Importer struct {
	ledger    *Ledger
	itemRepo  repository.InventoryItemRepository
	storeRepo repository.StoreRepository
	log       *logger.Logger
}

// NewImporter construye el importador.
func NewImporter(
	ledger *Ledger,
	itemRepo repository.InventoryItemRepository,
	storeRepo repository.StoreRepository,
	log *logger.Logger,
) *Importer {
	return &Importer{
		ledger:    ledger,
		itemRepo:  itemRepo,
		storeRepo: storeRepo,
		log:       log.Component("importer"),
	}
}

// ImportBatch importa las filas en la tienda indicada. Filas sin SKU o nombre se descartan
// sin contarse; un (sku, tienda) existente cuenta como omitido; los fallos por fila se
// acumulan en Errors sin abortar el lote. Reimportar el mismo lote no crea duplicados.
func (im *Importer) ImportBatch(ctx context.Context, rows []ImportRow, storeID string, actor entity.Actor) (*ImportResult, error) {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return nil, domain.Errorf(domain.ErrInvalidInput, "store_id es requerido")
	}
	store, err := im.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "tienda %s no encontrada", storeID)
	}

	res := &ImportResult{Errors: []string{}}
	for _, row := range rows {
		sku := strings.TrimSpace(row.SKU)
		name := strings.TrimSpace(row.ProductName)
		if sku == "" || name == "" {
			continue
		}

		existing, err := im.itemRepo.GetBySKUAndStore(ctx, sku, storeID)
		if err != nil {
			res.Errors = append(res.Errors, rowError(sku, err))
			continue
		}
		if existing != nil {
			res.Skipped++
			continue
		}

		qty, err := parseCount(row.Quantity)
		if err != nil {
			res.Errors = append(res.Errors, rowError(sku, err))
			continue
		}
		reorder, err := parseCount(row.ReorderLevel)
		if err != nil {
			res.Errors = append(res.Errors, rowError(sku, err))
			continue
		}

		_, err = im.ledger.CreateItem(ctx, CreateItemInput{
			SKU:          sku,
			ProductName:  name,
			Quantity:     qty,
			ReorderLevel: reorder,
			UnitCost:     parseCost(row.UnitCost),
			StoreID:      storeID,
		}, actor)
		switch {
		case err == nil:
			res.Imported++
		case errors.Is(err, domain.ErrConflict):
			// otro creador ganó la carrera entre la verificación y el insert
			res.Skipped++
		default:
			res.Errors = append(res.Errors, rowError(sku, err))
		}
	}

	im.log.Info().Str("store_id", storeID).Int("rows", len(rows)).Int("imported", res.Imported).
		Int("skipped", res.Skipped).Int("errors", len(res.Errors)).Msg("importación terminada")
	return res, nil
}

func rowError(sku string, err error) string {
	return fmt.Sprintf("SKU %s: %s", sku, domain.MessageOf(err))
}

// parseCount interpreta un entero; texto vacío o no numérico vale 0 y los decimales se truncan.
// Un valor fuera de [-MaxQuantity, MaxQuantity] es error; los negativos los rechaza el ledger.
func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, nil
	}
	d = d.Truncate(0)
	if d.Abs().GreaterThan(maxCount) {
		return 0, domain.Errorf(domain.ErrInvalidInput, "valor %s fuera de rango", s)
	}
	return int(d.IntPart()), nil
}

var maxCount = decimal.NewFromInt(entity.MaxQuantity)

func parseCost(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
