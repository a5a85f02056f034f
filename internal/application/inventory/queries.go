package inventory

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

// UnknownStoreName se muestra cuando el ítem apunta a una tienda que ya no está en el directorio.
const UnknownStoreName = "Unknown"

// ItemWithStore ítem con el nombre de su tienda.
type ItemWithStore struct {
	Item      *entity.InventoryItem
	StoreName string
}

// GetItem devuelve un ítem por ID con el nombre de su tienda.
func (l *Ledger) GetItem(ctx context.Context, itemID string) (*ItemWithStore, error) {
	item, err := l.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "ítem %s no encontrado", itemID)
	}
	name := UnknownStoreName
	store, err := l.storeRepo.GetByID(ctx, item.StoreID)
	if err != nil {
		return nil, err
	}
	if store != nil {
		name = store.Name
	}
	return &ItemWithStore{Item: item, StoreName: name}, nil
}

// ListItems lista ítems filtrando por tienda, texto (SKU o nombre) y bajo stock.
func (l *Ledger) ListItems(ctx context.Context, filter repository.ItemFilter) ([]ItemWithStore, error) {
	items, err := l.itemRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	names, err := storeNames(ctx, l.storeRepo)
	if err != nil {
		return nil, err
	}
	out := make([]ItemWithStore, 0, len(items))
	for _, it := range items {
		out = append(out, ItemWithStore{Item: it, StoreName: storeNameOr(names, it.StoreID)})
	}
	return out, nil
}

func storeNames(ctx context.Context, repo repository.StoreRepository) (map[string]string, error) {
	stores, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(stores))
	for _, s := range stores {
		names[s.ID] = s.Name
	}
	return names, nil
}

func storeNameOr(names map[string]string, storeID string) string {
	if n, ok := names[storeID]; ok {
		return n
	}
	return UnknownStoreName
}
