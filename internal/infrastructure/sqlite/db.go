// Package sqlite implementa los puertos de persistencia sobre SQLite (sqlx + go-sqlite3).
// Las transacciones abren con BEGIN IMMEDIATE: un solo escritor a la vez, lo que
// serializa las mutaciones del ledger sin locks en la aplicación.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS stores (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    location      TEXT NOT NULL,
    contact_email TEXT NOT NULL DEFAULT '',
    contact_phone TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
    id       TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    role     TEXT NOT NULL DEFAULT 'staff'
);

CREATE TABLE IF NOT EXISTS inventory_items (
    id            TEXT PRIMARY KEY,
    sku           TEXT NOT NULL,
    product_name  TEXT NOT NULL,
    quantity      INTEGER NOT NULL CHECK (quantity >= 0),
    reorder_level INTEGER NOT NULL CHECK (reorder_level >= 0),
    unit_cost     TEXT NOT NULL DEFAULT '0',
    store_id      TEXT NOT NULL REFERENCES stores(id) ON DELETE RESTRICT,
    created_at    TIMESTAMP NOT NULL,
    updated_at    TIMESTAMP NOT NULL,
    UNIQUE (sku, store_id)
);
CREATE INDEX IF NOT EXISTS idx_inventory_items_store ON inventory_items(store_id);

CREATE TABLE IF NOT EXISTS inventory_history (
    id                TEXT PRIMARY KEY,
    item_id           TEXT NOT NULL REFERENCES inventory_items(id) ON DELETE CASCADE,
    change_type       TEXT NOT NULL,
    quantity_change   INTEGER NOT NULL,
    previous_quantity INTEGER NOT NULL,
    new_quantity      INTEGER NOT NULL,
    user_id           TEXT NOT NULL DEFAULT '',
    notes             TEXT NOT NULL DEFAULT '',
    created_at        TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_inventory_history_item ON inventory_history(item_id, created_at);

CREATE TABLE IF NOT EXISTS alerts (
    id               TEXT PRIMARY KEY,
    item_id          TEXT NOT NULL REFERENCES inventory_items(id) ON DELETE CASCADE,
    store_id         TEXT NOT NULL,
    sku              TEXT NOT NULL,
    product_name     TEXT NOT NULL,
    current_quantity INTEGER NOT NULL,
    reorder_level    INTEGER NOT NULL,
    alert_type       TEXT NOT NULL DEFAULT 'reorder',
    triggered_at     TIMESTAMP NOT NULL,
    resolved         INTEGER NOT NULL DEFAULT 0,
    resolved_by      TEXT NOT NULL DEFAULT '',
    resolved_at      TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS alerts_one_open_per_item ON alerts(item_id) WHERE resolved = 0;
CREATE INDEX IF NOT EXISTS idx_alerts_triggered ON alerts(triggered_at);
`

// Open abre (o crea) la base SQLite en path y aplica el esquema.
// Usar ":memory:" para una base efímera.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	dsn := path + "?_txlock=immediate&_busy_timeout=5000&_foreign_keys=on"
	if path != ":memory:" {
		dsn += "&_journal_mode=WAL"
	}
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Una sola conexión: SQLite admite un escritor y ":memory:" es por conexión.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQLite); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return db, nil
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
