package repository

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// HistoryRepository define el puerto del historial (append-only).
// No hay Update: las entradas solo desaparecen en cascada al borrar el ítem.
type HistoryRepository interface {
	Append(ctx context.Context, entry *entity.HistoryEntry) error
	// ListByItem devuelve las entradas más recientes primero, como máximo limit.
	ListByItem(ctx context.Context, itemID string, limit int) ([]*entity.HistoryEntry, error)
	DeleteByItem(ctx context.Context, itemID string) (int64, error)
}
