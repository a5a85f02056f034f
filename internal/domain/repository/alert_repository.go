package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// AlertFilter filtros para listar alertas.
type AlertFilter struct {
	OnlyOpen bool
}

// AlertRepository define el puerto de persistencia de alertas.
// Invariante: como máximo una alerta sin resolver por ítem.
type AlertRepository interface {
	Create(ctx context.Context, alert *entity.Alert) error
	GetByID(ctx context.Context, id string) (*entity.Alert, error)
	// GetOpenByItem devuelve la alerta abierta del ítem o nil, nil.
	GetOpenByItem(ctx context.Context, itemID string) (*entity.Alert, error)
	// Resolve cierra la alerta si sigue abierta; sobre una ya resuelta no hace nada,
	// así resolved_by y resolved_at conservan al primero que la cerró.
	Resolve(ctx context.Context, id, resolvedBy string, at time.Time) error
	// List ordena por fecha de disparo descendente.
	List(ctx context.Context, filter AlertFilter) ([]*entity.Alert, error)
	CountOpen(ctx context.Context) (int, error)
	DeleteByItem(ctx context.Context, itemID string) (int64, error)
}
