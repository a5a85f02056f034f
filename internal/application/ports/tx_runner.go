package ports

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Stores  repository.StoreRepository
	Items   repository.InventoryItemRepository
	History repository.HistoryRepository
	Alerts  repository.AlertRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y ningún cambio es visible; si no, Commit.
// Es la única frontera de atomicidad del ledger: cantidad, historial y alertas cambian juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx TxRepos) error) error
}
