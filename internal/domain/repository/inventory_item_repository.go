package repository

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// ItemFilter filtros opcionales para listar ítems.
type ItemFilter struct {
	StoreID  string
	Search   string // coincide por subcadena en SKU o nombre
	LowStock bool   // solo ítems con NeedsReorder
}

// InventoryItemRepository define el puerto de persistencia para InventoryItem.
// Usado dentro de transacciones (TxRunner) para las mutaciones.
type InventoryItemRepository interface {
	// Create devuelve un error de kind domain.ErrConflict si (sku, store) ya existe.
	Create(ctx context.Context, item *entity.InventoryItem) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	// GetForUpdate como GetByID pero bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error)
	GetBySKUAndStore(ctx context.Context, sku, storeID string) (*entity.InventoryItem, error)
	Update(ctx context.Context, item *entity.InventoryItem) error
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter ItemFilter) ([]*entity.InventoryItem, error)
	CountByStore(ctx context.Context, storeID string) (int, error)
}
