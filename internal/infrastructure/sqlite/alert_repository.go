package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

type alertRow struct {
	ID           string       `db:"id"`
	ItemID       string       `db:"item_id"`
	StoreID      string       `db:"store_id"`
	SKU          string       `db:"sku"`
	ProductName  string       `db:"product_name"`
	Quantity     int          `db:"current_quantity"`
	ReorderLevel int          `db:"reorder_level"`
	Type         string       `db:"alert_type"`
	TriggeredAt  time.Time    `db:"triggered_at"`
	Resolved     bool         `db:"resolved"`
	ResolvedBy   string       `db:"resolved_by"`
	ResolvedAt   sql.NullTime `db:"resolved_at"`
}

func (r alertRow) toEntity() *entity.Alert {
	a := &entity.Alert{
		ID: r.ID, ItemID: r.ItemID, StoreID: r.StoreID, SKU: r.SKU, ProductName: r.ProductName,
		Quantity: r.Quantity, ReorderLevel: r.ReorderLevel, Type: r.Type,
		TriggeredAt: r.TriggeredAt.UTC(), Resolved: r.Resolved, ResolvedBy: r.ResolvedBy,
	}
	if r.ResolvedAt.Valid {
		t := r.ResolvedAt.Time.UTC()
		a.ResolvedAt = &t
	}
	return a
}

// AlertRepo alertas sobre SQLite; el índice parcial alerts_one_open_per_item
// impide dos alertas abiertas para el mismo ítem.
type AlertRepo struct {
	q sqlx.ExtContext
}

// NewAlertRepository construye el adaptador.
func NewAlertRepository(q sqlx.ExtContext) *AlertRepo {
	return &AlertRepo{q: q}
}

func (r *AlertRepo) Create(ctx context.Context, a *entity.Alert) error {
	const q = `
		INSERT INTO alerts (id, item_id, store_id, sku, product_name, current_quantity, reorder_level,
		                    alert_type, triggered_at, resolved, resolved_by, resolved_at)
		VALUES (:id, :item_id, :store_id, :sku, :product_name, :current_quantity, :reorder_level,
		        :alert_type, :triggered_at, :resolved, :resolved_by, :resolved_at)`
	row := alertRow{
		ID: a.ID, ItemID: a.ItemID, StoreID: a.StoreID, SKU: a.SKU, ProductName: a.ProductName,
		Quantity: a.Quantity, ReorderLevel: a.ReorderLevel, Type: a.Type, TriggeredAt: a.TriggeredAt,
		Resolved: a.Resolved, ResolvedBy: a.ResolvedBy,
	}
	if a.ResolvedAt != nil {
		row.ResolvedAt = sql.NullTime{Time: *a.ResolvedAt, Valid: true}
	}
	if _, err := sqlx.NamedExecContext(ctx, r.q, q, row); err != nil {
		if isUniqueViolation(err) {
			return domain.Errorf(domain.ErrConflict, "el ítem %s ya tiene una alerta abierta", a.ItemID)
		}
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

func (r *AlertRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Alert, error) {
	var row alertRow
	if err := sqlx.GetContext(ctx, r.q, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return row.toEntity(), nil
}

func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.Alert, error) {
	return r.getOne(ctx, "get alert", `SELECT * FROM alerts WHERE id = ?`, id)
}

func (r *AlertRepo) GetOpenByItem(ctx context.Context, itemID string) (*entity.Alert, error) {
	return r.getOne(ctx, "get open alert", `SELECT * FROM alerts WHERE item_id = ? AND resolved = 0`, itemID)
}

func (r *AlertRepo) Resolve(ctx context.Context, id, resolvedBy string, at time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE alerts SET resolved = 1, resolved_by = ?, resolved_at = ? WHERE id = ? AND resolved = 0`,
		resolvedBy, at, id,
	)
	if err != nil {
		return fmt.Errorf("resolve alert: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.Errorf(domain.ErrNotFound, "alerta %s no encontrada", id)
	}
	return nil
}

func (r *AlertRepo) List(ctx context.Context, f repository.AlertFilter) ([]*entity.Alert, error) {
	query := `SELECT * FROM alerts`
	if f.OnlyOpen {
		query += ` WHERE resolved = 0`
	}
	query += ` ORDER BY triggered_at DESC, id`
	var rows []alertRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query); err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	out := make([]*entity.Alert, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *AlertRepo) CountOpen(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM alerts WHERE resolved = 0`); err != nil {
		return 0, fmt.Errorf("count open alerts: %w", err)
	}
	return n, nil
}

func (r *AlertRepo) DeleteByItem(ctx context.Context, itemID string) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM alerts WHERE item_id = ?`, itemID)
	if err != nil {
		return 0, fmt.Errorf("delete alerts: %w", err)
	}
	return res.RowsAffected()
}
