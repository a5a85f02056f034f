package postgres

import (
	"context"
	"fmt"
)

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS stores (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    location      TEXT NOT NULL,
    contact_email TEXT,
    contact_phone TEXT,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
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
    unit_cost     NUMERIC(14, 4) NOT NULL DEFAULT 0 CHECK (unit_cost >= 0),
    store_id      TEXT NOT NULL REFERENCES stores(id) ON DELETE RESTRICT,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    CONSTRAINT inventory_items_sku_store_key UNIQUE (sku, store_id)
);
CREATE INDEX IF NOT EXISTS idx_inventory_items_store ON inventory_items(store_id);

CREATE TABLE IF NOT EXISTS inventory_history (
    seq               BIGSERIAL,
    id                TEXT PRIMARY KEY,
    item_id           TEXT NOT NULL REFERENCES inventory_items(id) ON DELETE CASCADE,
    change_type       TEXT NOT NULL,
    quantity_change   INTEGER NOT NULL,
    previous_quantity INTEGER NOT NULL,
    new_quantity      INTEGER NOT NULL,
    user_id           TEXT,
    notes             TEXT,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_inventory_history_item ON inventory_history(item_id, created_at DESC, seq DESC);

CREATE TABLE IF NOT EXISTS alerts (
    id               TEXT PRIMARY KEY,
    item_id          TEXT NOT NULL REFERENCES inventory_items(id) ON DELETE CASCADE,
    store_id         TEXT NOT NULL,
    sku              TEXT NOT NULL,
    product_name     TEXT NOT NULL,
    current_quantity INTEGER NOT NULL,
    reorder_level    INTEGER NOT NULL,
    alert_type       TEXT NOT NULL DEFAULT 'reorder',
    triggered_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
    resolved         BOOLEAN NOT NULL DEFAULT FALSE,
    resolved_by      TEXT,
    resolved_at      TIMESTAMPTZ
);
CREATE UNIQUE INDEX IF NOT EXISTS alerts_one_open_per_item ON alerts(item_id) WHERE NOT resolved;
CREATE INDEX IF NOT EXISTS idx_alerts_triggered ON alerts(triggered_at DESC);
`

// Migrate crea las tablas e índices si no existen.
func Migrate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schemaPostgres); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
