package repository

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// StoreRepository define el puerto de persistencia para Store (directorio de tiendas).
type StoreRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	// GetByID devuelve nil, nil si la tienda no existe.
	GetByID(ctx context.Context, id string) (*entity.Store, error)
	Update(ctx context.Context, store *entity.Store) error
	List(ctx context.Context) ([]*entity.Store, error)
	// Delete devuelve false si no había fila que borrar.
	Delete(ctx context.Context, id string) (bool, error)
}
