package repository

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// UserDirectory es el colaborador externo que resuelve nombres de usuario
// para enriquecer el historial.
type UserDirectory interface {
	// UsernamesByIDs devuelve id → username para los IDs conocidos; los desconocidos se omiten.
	UsernamesByIDs(ctx context.Context, ids []string) (map[string]string, error)
	Save(ctx context.Context, user *entity.User) error
}
