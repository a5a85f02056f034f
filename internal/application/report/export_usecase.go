// Package report contiene las proyecciones de solo lectura del inventario:
// la vista de exportación y las estadísticas del dashboard.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

// ExportFile archivo ya renderizado listo para descargar.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportUseCase proyecta ítems y tiendas a filas planas. No muta nada.
type ExportUseCase struct {
	itemRepo  repository.InventoryItemRepository
	storeRepo repository.StoreRepository
	writers   map[string]ExportWriter
}

// NewExportUseCase construye el caso de uso con los writers disponibles (uno por formato).
func NewExportUseCase(
	itemRepo repository.InventoryItemRepository,
	storeRepo repository.StoreRepository,
	writers ...ExportWriter,
) *ExportUseCase {
	byFormat := make(map[string]ExportWriter, len(writers))
	for _, w := range writers {
		byFormat[w.Format()] = w
	}
	return &ExportUseCase{itemRepo: itemRepo, storeRepo: storeRepo, writers: byFormat}
}

// Rows devuelve una fila por ítem. Tiendas desconocidas quedan con nombre vacío.
func (uc *ExportUseCase) Rows(ctx context.Context) ([]dto.ExportRow, error) {
	items, err := uc.itemRepo.List(ctx, repository.ItemFilter{})
	if err != nil {
		return nil, fmt.Errorf("export: listar ítems: %w", err)
	}
	stores, err := uc.storeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: listar tiendas: %w", err)
	}
	names := make(map[string]string, len(stores))
	for _, s := range stores {
		names[s.ID] = s.Name
	}

	rows := make([]dto.ExportRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, dto.ExportRow{
			SKU:          it.SKU,
			ProductName:  it.ProductName,
			StoreName:    names[it.StoreID],
			Quantity:     it.Quantity,
			ReorderLevel: it.ReorderLevel,
			UnitCost:     it.UnitCost,
			TotalValue:   it.TotalValue().Round(2),
			NeedsReorder: it.NeedsReorder(),
		})
	}
	return rows, nil
}

// Export renderiza las filas en el formato pedido (csv por defecto).
func (uc *ExportUseCase) Export(ctx context.Context, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	w, ok := uc.writers[format]
	if !ok {
		return nil, domain.Errorf(domain.ErrInvalidInput, "formato de exportación no soportado: %s", format)
	}
	rows, err := uc.Rows(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	data, err := w.Render(rows, now)
	if err != nil {
		return nil, fmt.Errorf("export: render %s: %w", format, err)
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("inventory-export-%s.%s", now.Format("2006-01-02"), format),
		ContentType: w.ContentType(),
		Data:        data,
	}, nil
}
