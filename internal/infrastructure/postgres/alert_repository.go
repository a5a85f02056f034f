package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo alertas sobre PostgreSQL. El índice único parcial alerts_one_open_per_item
// garantiza a lo sumo una alerta abierta por ítem.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

const alertColumns = `id, item_id, store_id, sku, product_name, current_quantity, reorder_level,
	alert_type, triggered_at, resolved, resolved_by, resolved_at`

// Create inserta una alerta abierta.
func (r *AlertRepo) Create(ctx context.Context, a *entity.Alert) error {
	query := `
		INSERT INTO alerts (` + alertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.ItemID, a.StoreID, a.SKU, a.ProductName, a.Quantity, a.ReorderLevel,
		a.Type, a.TriggeredAt, a.Resolved, nullable(a.ResolvedBy), a.ResolvedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Errorf(domain.ErrConflict, "el ítem %s ya tiene una alerta abierta", a.ItemID)
		}
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// GetByID obtiene una alerta por ID.
func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.Alert, error) {
	return r.getOne(ctx, `SELECT `+alertColumns+` FROM alerts WHERE id = $1`, "get alert", id)
}

// GetOpenByItem obtiene la alerta sin resolver del ítem.
func (r *AlertRepo) GetOpenByItem(ctx context.Context, itemID string) (*entity.Alert, error) {
	return r.getOne(ctx, `SELECT `+alertColumns+` FROM alerts WHERE item_id = $1 AND NOT resolved`, "get open alert", itemID)
}

func (r *AlertRepo) getOne(ctx context.Context, query, op string, args ...any) (*entity.Alert, error) {
	a, err := scanAlert(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// Resolve marca la alerta como resuelta si sigue abierta.
func (r *AlertRepo) Resolve(ctx context.Context, id, resolvedBy string, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE alerts SET resolved = TRUE, resolved_by = $2, resolved_at = $3 WHERE id = $1 AND NOT resolved`,
		id, resolvedBy, at,
	)
	if err != nil {
		return fmt.Errorf("resolve alert: %w", err)
	}
	if cmd.RowsAffected() > 0 {
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

// List lista alertas por fecha de disparo descendente.
func (r *AlertRepo) List(ctx context.Context, f repository.AlertFilter) ([]*entity.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts`
	if f.OnlyOpen {
		query += ` WHERE NOT resolved`
	}
	query += ` ORDER BY triggered_at DESC, id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// CountOpen cuenta las alertas sin resolver.
func (r *AlertRepo) CountOpen(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM alerts WHERE NOT resolved`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count open alerts: %w", err)
	}
	return n, nil
}

// DeleteByItem borra todas las alertas del ítem.
func (r *AlertRepo) DeleteByItem(ctx context.Context, itemID string) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM alerts WHERE item_id = $1`, itemID)
	if err != nil {
		return 0, fmt.Errorf("delete alerts: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func scanAlert(row pgx.Row) (*entity.Alert, error) {
	var (
		a          entity.Alert
		resolvedBy *string
	)
	err := row.Scan(
		&a.ID, &a.ItemID, &a.StoreID, &a.SKU, &a.ProductName, &a.Quantity, &a.ReorderLevel,
		&a.Type, &a.TriggeredAt, &a.Resolved, &resolvedBy, &a.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	a.ResolvedBy = deref(resolvedBy)
	return &a, nil
}
