package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo tiendas en memoria.
type StoreRepo struct {
	acc access
}

// NewStoreRepository repositorio sobre el DB compartido.
func NewStoreRepository(db *DB) *StoreRepo { return &StoreRepo{acc: db} }

func (r *StoreRepo) Create(_ context.Context, s *entity.Store) error {
	return r.acc.write(func(d *dataset) error {
		if _, ok := d.stores[s.ID]; ok {
			return domain.Errorf(domain.ErrConflict, "tienda %s ya existe", s.ID)
		}
		d.stores[s.ID] = *s
		return nil
	})
}

func (r *StoreRepo) GetByID(_ context.Context, id string) (*entity.Store, error) {
	var out *entity.Store
	r.acc.read(func(d *dataset) {
		if s, ok := d.stores[id]; ok {
			out = &s
		}
	})
	return out, nil
}

func (r *StoreRepo) Update(_ context.Context, s *entity.Store) error {
	return r.acc.write(func(d *dataset) error {
		if _, ok := d.stores[s.ID]; !ok {
			return domain.Errorf(domain.ErrNotFound, "tienda %s no encontrada", s.ID)
		}
		d.stores[s.ID] = *s
		return nil
	})
}

func (r *StoreRepo) List(_ context.Context) ([]*entity.Store, error) {
	var out []*entity.Store
	r.acc.read(func(d *dataset) {
		out = make([]*entity.Store, 0, len(d.stores))
		for _, s := range d.stores {
			s := s
			out = append(out, &s)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Delete rechaza con ErrDependencyConflict si la tienda aún tiene ítems.
func (r *StoreRepo) Delete(_ context.Context, id string) (bool, error) {
	found := false
	err := r.acc.write(func(d *dataset) error {
		if _, ok := d.stores[id]; !ok {
			return nil
		}
		for _, it := range d.items {
			if it.StoreID == id {
				return domain.Errorf(domain.ErrDependencyConflict, "la tienda tiene ítems de inventario")
			}
		}
		delete(d.stores, id)
		found = true
		return nil
	})
	return found, err
}
