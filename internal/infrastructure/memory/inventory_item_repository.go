package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

// InventoryItemRepo ítems en memoria.
type InventoryItemRepo struct {
	acc access
}

// NewInventoryItemRepository repositorio sobre el DB compartido.
func NewInventoryItemRepository(db *DB) *InventoryItemRepo { return &InventoryItemRepo{acc: db} }

func skuTaken(d *dataset, sku, storeID, exceptID string) bool {
	for _, it := range d.items {
		if it.SKU == sku && it.StoreID == storeID && it.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *InventoryItemRepo) Create(_ context.Context, it *entity.InventoryItem) error {
	return r.acc.write(func(d *dataset) error {
		if _, ok := d.stores[it.StoreID]; !ok {
			return domain.Errorf(domain.ErrNotFound, "tienda %s no encontrada", it.StoreID)
		}
		if skuTaken(d, it.SKU, it.StoreID, "") {
			return domain.Errorf(domain.ErrConflict, "el SKU %s ya existe en esta tienda", it.SKU)
		}
		d.items[it.ID] = *it
		return nil
	})
}

func (r *InventoryItemRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	var out *entity.InventoryItem
	r.acc.read(func(d *dataset) {
		if it, ok := d.items[id]; ok {
			out = &it
		}
	})
	return out, nil
}

// GetForUpdate equivale a GetByID: dentro de una tx el lock de escritura ya serializa.
func (r *InventoryItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.GetByID(ctx, id)
}

func (r *InventoryItemRepo) GetBySKUAndStore(_ context.Context, sku, storeID string) (*entity.InventoryItem, error) {
	var out *entity.InventoryItem
	r.acc.read(func(d *dataset) {
		for _, it := range d.items {
			if it.SKU == sku && it.StoreID == storeID {
				it := it
				out = &it
				return
			}
		}
	})
	return out, nil
}

func (r *InventoryItemRepo) Update(_ context.Context, it *entity.InventoryItem) error {
	return r.acc.write(func(d *dataset) error {
		if _, ok := d.items[it.ID]; !ok {
			return domain.Errorf(domain.ErrNotFound, "ítem %s no encontrado", it.ID)
		}
		if skuTaken(d, it.SKU, it.StoreID, it.ID) {
			return domain.Errorf(domain.ErrConflict, "el SKU %s ya existe en esta tienda", it.SKU)
		}
		d.items[it.ID] = *it
		return nil
	})
}

func (r *InventoryItemRepo) Delete(_ context.Context, id string) (bool, error) {
	found := false
	err := r.acc.write(func(d *dataset) error {
		if _, ok := d.items[id]; ok {
			delete(d.items, id)
			found = true
		}
		return nil
	})
	return found, err
}

func (r *InventoryItemRepo) List(_ context.Context, f repository.ItemFilter) ([]*entity.InventoryItem, error) {
	search := strings.ToLower(f.Search)
	var out []*entity.InventoryItem
	r.acc.read(func(d *dataset) {
		for _, it := range d.items {
			if f.StoreID != "" && it.StoreID != f.StoreID {
				continue
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(it.SKU), search) &&
				!strings.Contains(strings.ToLower(it.ProductName), search) {
				continue
			}
			if f.LowStock && !it.NeedsReorder() {
				continue
			}
			it := it
			out = append(out, &it)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].SKU != out[j].SKU {
			return out[i].SKU < out[j].SKU
		}
		return out[i].StoreID < out[j].StoreID
	})
	return out, nil
}

func (r *InventoryItemRepo) CountByStore(_ context.Context, storeID string) (int, error) {
	n := 0
	r.acc.read(func(d *dataset) {
		for _, it := range d.items {
			if it.StoreID == storeID {
				n++
			}
		}
	})
	return n, nil
}
