package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

type itemRow struct {
	ID           string          `db:"id"`
	SKU          string          `db:"sku"`
	ProductName  string          `db:"product_name"`
	Quantity     int             `db:"quantity"`
	ReorderLevel int             `db:"reorder_level"`
	UnitCost     decimal.Decimal `db:"unit_cost"`
	StoreID      string          `db:"store_id"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func newItemRow(it *entity.InventoryItem) itemRow {
	return itemRow{
		ID: it.ID, SKU: it.SKU, ProductName: it.ProductName, Quantity: it.Quantity,
		ReorderLevel: it.ReorderLevel, UnitCost: it.UnitCost, StoreID: it.StoreID,
		CreatedAt: it.CreatedAt, UpdatedAt: it.UpdatedAt,
	}
}

func (r itemRow) toEntity() *entity.InventoryItem {
	return &entity.InventoryItem{
		ID: r.ID, SKU: r.SKU, ProductName: r.ProductName, Quantity: r.Quantity,
		ReorderLevel: r.ReorderLevel, UnitCost: r.UnitCost, StoreID: r.StoreID,
		CreatedAt: r.CreatedAt.UTC(), UpdatedAt: r.UpdatedAt.UTC(),
	}
}

// InventoryItemRepo ítems sobre SQLite. Acepta *sqlx.DB o *sqlx.Tx.
type InventoryItemRepo struct {
	q sqlx.ExtContext
}

// NewInventoryItemRepository construye el adaptador.
func NewInventoryItemRepository(q sqlx.ExtContext) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

func (r *InventoryItemRepo) Create(ctx context.Context, it *entity.InventoryItem) error {
	const q = `
		INSERT INTO inventory_items (id, sku, product_name, quantity, reorder_level, unit_cost, store_id, created_at, updated_at)
		VALUES (:id, :sku, :product_name, :quantity, :reorder_level, :unit_cost, :store_id, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.q, q, newItemRow(it)); err != nil {
		if isUniqueViolation(err) {
			return domain.Errorf(domain.ErrConflict, "el SKU %s ya existe en esta tienda", it.SKU)
		}
		if isForeignKeyViolation(err) {
			return domain.Errorf(domain.ErrNotFound, "tienda %s no encontrada", it.StoreID)
		}
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

func (r *InventoryItemRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.InventoryItem, error) {
	var row itemRow
	if err := sqlx.GetContext(ctx, r.q, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return row.toEntity(), nil
}

func (r *InventoryItemRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, "get inventory item", `SELECT * FROM inventory_items WHERE id = ?`, id)
}

// GetForUpdate equivale a GetByID: la tx ya tiene el lock de escritura (BEGIN IMMEDIATE).
func (r *InventoryItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.GetByID(ctx, id)
}

func (r *InventoryItemRepo) GetBySKUAndStore(ctx context.Context, sku, storeID string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, "get inventory item by sku",
		`SELECT * FROM inventory_items WHERE sku = ? AND store_id = ?`, sku, storeID)
}

func (r *InventoryItemRepo) Update(ctx context.Context, it *entity.InventoryItem) error {
	const q = `
		UPDATE inventory_items
		SET sku = :sku, product_name = :product_name, quantity = :quantity, reorder_level = :reorder_level,
		    unit_cost = :unit_cost, store_id = :store_id, updated_at = :updated_at
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, r.q, q, newItemRow(it))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Errorf(domain.ErrConflict, "el SKU %s ya existe en esta tienda", it.SKU)
		}
		return fmt.Errorf("update inventory item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Errorf(domain.ErrNotFound, "ítem %s no encontrado", it.ID)
	}
	return nil
}

func (r *InventoryItemRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete inventory item: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *InventoryItemRepo) List(ctx context.Context, f repository.ItemFilter) ([]*entity.InventoryItem, error) {
	var (
		where []string
		args  []any
	)
	if f.StoreID != "" {
		where = append(where, "store_id = ?")
		args = append(args, f.StoreID)
	}
	if f.Search != "" {
		where = append(where, "(sku LIKE ? OR product_name LIKE ?)")
		p := "%" + f.Search + "%"
		args = append(args, p, p)
	}
	if f.LowStock {
		where = append(where, "quantity <= reorder_level")
	}
	query := `SELECT * FROM inventory_items`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY sku, store_id"

	var rows []itemRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	out := make([]*entity.InventoryItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *InventoryItemRepo) CountByStore(ctx context.Context, storeID string) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM inventory_items WHERE store_id = ?`, storeID); err != nil {
		return 0, fmt.Errorf("count inventory items: %w", err)
	}
	return n, nil
}
