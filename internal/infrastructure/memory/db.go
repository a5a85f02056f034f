// Package memory implementa los puertos de persistencia en memoria.
// Cada transacción toma el lock de escritura, trabaja sobre una copia del dataset y
// la publica solo si fn termina sin error: rollback es descartar la copia.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventory-ledger/internal/application/ports"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

type historyRow struct {
	seq   int64
	entry entity.HistoryEntry
}

type dataset struct {
	stores  map[string]entity.Store
	items   map[string]entity.InventoryItem
	history []historyRow
	alerts  map[string]entity.Alert
	users   map[string]entity.User
	seq     int64
}

func newDataset() *dataset {
	return &dataset{
		stores: map[string]entity.Store{},
		items:  map[string]entity.InventoryItem{},
		alerts: map[string]entity.Alert{},
		users:  map[string]entity.User{},
	}
}

func (d *dataset) clone() *dataset {
	c := &dataset{
		stores:  make(map[string]entity.Store, len(d.stores)),
		items:   make(map[string]entity.InventoryItem, len(d.items)),
		history: make([]historyRow, len(d.history)),
		alerts:  make(map[string]entity.Alert, len(d.alerts)),
		users:   make(map[string]entity.User, len(d.users)),
		seq:     d.seq,
	}
	for k, v := range d.stores {
		c.stores[k] = v
	}
	for k, v := range d.items {
		c.items[k] = v
	}
	copy(c.history, d.history)
	for k, v := range d.alerts {
		c.alerts[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	return c
}

// access abstrae dónde operan los repos: el DB compartido (con lock) o la copia de una tx.
type access interface {
	read(fn func(d *dataset))
	write(fn func(d *dataset) error) error
}

// DB almacén en memoria seguro para uso concurrente.
type DB struct {
	mu   sync.RWMutex
	data *dataset
}

// NewDB crea un almacén vacío.
func NewDB() *DB {
	return &DB{data: newDataset()}
}

func (db *DB) read(fn func(d *dataset)) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	fn(db.data)
}

func (db *DB) write(fn func(d *dataset) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	work := db.data.clone()
	if err := fn(work); err != nil {
		return err
	}
	db.data = work
	return nil
}

// txAccess opera sobre la copia de la tx; el lock ya lo tiene TxRunner.Run.
type txAccess struct {
	data *dataset
}

func (t txAccess) read(fn func(d *dataset)) { fn(t.data) }

func (t txAccess) write(fn func(d *dataset) error) error { return fn(t.data) }

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner serializa las transacciones con el lock de escritura del DB.
type TxRunner struct {
	db *DB
}

// NewTxRunner construye el runner.
func NewTxRunner(db *DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run ejecuta fn sobre una copia del dataset y la publica si no hubo error.
func (r *TxRunner) Run(ctx context.Context, fn func(tx ports.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.write(func(work *dataset) error {
		acc := txAccess{data: work}
		return fn(ports.TxRepos{
			Stores:  &StoreRepo{acc: acc},
			Items:   &InventoryItemRepo{acc: acc},
			History: &HistoryRepo{acc: acc},
			Alerts:  &AlertRepo{acc: acc},
		})
	})
}
