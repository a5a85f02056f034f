package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

// InventoryItemRepo implementación de InventoryItemRepository sobre PostgreSQL (usable con pool o tx).
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

const itemColumns = `id, sku, product_name, quantity, reorder_level, unit_cost, store_id, created_at, updated_at`

// Create inserta el ítem; (sku, store_id) duplicado devuelve ErrConflict.
func (r *InventoryItemRepo) Create(ctx context.Context, it *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.SKU, it.ProductName, it.Quantity, it.ReorderLevel, it.UnitCost,
		it.StoreID, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
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

// GetByID obtiene un ítem por ID.
func (r *InventoryItemRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, "get inventory item", id)
}

// GetForUpdate obtiene el ítem y bloquea la fila (SELECT FOR UPDATE).
func (r *InventoryItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1 FOR UPDATE`, "get inventory item for update", id)
}

// GetBySKUAndStore busca por la llave natural.
func (r *InventoryItemRepo) GetBySKUAndStore(ctx context.Context, sku, storeID string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE sku = $1 AND store_id = $2`, "get inventory item by sku", sku, storeID)
}

func (r *InventoryItemRepo) getOne(ctx context.Context, query, op string, args ...any) (*entity.InventoryItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return it, nil
}

// Update reescribe todos los campos mutables del ítem.
func (r *InventoryItemRepo) Update(ctx context.Context, it *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET sku = $2, product_name = $3, quantity = $4, reorder_level = $5, unit_cost = $6,
		    store_id = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		it.ID, it.SKU, it.ProductName, it.Quantity, it.ReorderLevel, it.UnitCost, it.StoreID, it.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Errorf(domain.ErrConflict, "el SKU %s ya existe en esta tienda", it.SKU)
		}
		return fmt.Errorf("update inventory item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.Errorf(domain.ErrNotFound, "ítem %s no encontrado", it.ID)
	}
	return nil
}

// Delete elimina el ítem por ID.
func (r *InventoryItemRepo) Delete(ctx context.Context, id string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete inventory item: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// List lista ítems aplicando los filtros presentes.
func (r *InventoryItemRepo) List(ctx context.Context, f repository.ItemFilter) ([]*entity.InventoryItem, error) {
	var (
		where []string
		args  []any
	)
	if f.StoreID != "" {
		args = append(args, f.StoreID)
		where = append(where, fmt.Sprintf("store_id = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("(sku ILIKE $%d OR product_name ILIKE $%d)", len(args), len(args)))
	}
	if f.LowStock {
		where = append(where, "quantity <= reorder_level")
	}
	query := `SELECT ` + itemColumns + ` FROM inventory_items`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY sku, store_id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// CountByStore cuenta los ítems de una tienda.
func (r *InventoryItemRepo) CountByStore(ctx context.Context, storeID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM inventory_items WHERE store_id = $1`, storeID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count inventory items: %w", err)
	}
	return n, nil
}

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	err := row.Scan(
		&it.ID, &it.SKU, &it.ProductName, &it.Quantity, &it.ReorderLevel, &it.UnitCost,
		&it.StoreID, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
