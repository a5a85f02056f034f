// Package storage elige el driver de persistencia configurado y expone sus repositorios.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventory-ledger/internal/application/ports"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/sqlite"
	"github.com/jhoicas/inventory-ledger/pkg/config"
)

// Backend agrupa los repositorios de un driver de persistencia.
type Backend struct {
	TxRunner ports.TxRunner
	Stores   repository.StoreRepository
	Items    repository.InventoryItemRepository
	History  repository.HistoryRepository
	Alerts   repository.AlertRepository
	Users    repository.UserDirectory
	close    func()
}

// Close libera las conexiones del driver.
func (b *Backend) Close() { b.close() }

// Open abre el driver elegido en STORE_DRIVER y aplica el esquema.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Backend{
			TxRunner: postgres.NewTxRunner(pool),
			Stores:   postgres.NewStoreRepository(pool),
			Items:    postgres.NewInventoryItemRepository(pool),
			History:  postgres.NewHistoryRepository(pool),
			Alerts:   postgres.NewAlertRepository(pool),
			Users:    postgres.NewUserDirectory(pool),
			close:    pool.Close,
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Backend{
			TxRunner: sqlite.NewTxRunner(db),
			Stores:   sqlite.NewStoreRepository(db),
			Items:    sqlite.NewInventoryItemRepository(db),
			History:  sqlite.NewHistoryRepository(db),
			Alerts:   sqlite.NewAlertRepository(db),
			Users:    sqlite.NewUserDirectory(db),
			close:    func() { _ = db.Close() },
		}, nil

	case config.DriverMemory:
		db := memory.NewDB()
		return &Backend{
			TxRunner: memory.NewTxRunner(db),
			Stores:   memory.NewStoreRepository(db),
			Items:    memory.NewInventoryItemRepository(db),
			History:  memory.NewHistoryRepository(db),
			Alerts:   memory.NewAlertRepository(db),
			Users:    memory.NewUserDirectory(db),
			close:    func() {},
		}, nil
	}
	return nil, fmt.Errorf("driver no soportado: %s", cfg.Store.Driver)
}
