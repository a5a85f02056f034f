package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

type historyRow struct {
	ID          string    `db:"id"`
	ItemID      string    `db:"item_id"`
	ChangeType  string    `db:"change_type"`
	Delta       int       `db:"quantity_change"`
	PreviousQty int       `db:"previous_quantity"`
	NewQty      int       `db:"new_quantity"`
	UserID      string    `db:"user_id"`
	Notes       string    `db:"notes"`
	CreatedAt   time.Time `db:"created_at"`
}

// HistoryRepo historial append-only sobre SQLite; el rowid desempata timestamps iguales.
type HistoryRepo struct {
	q sqlx.ExtContext
}

// NewHistoryRepository construye el adaptador.
func NewHistoryRepository(q sqlx.ExtContext) *HistoryRepo {
	return &HistoryRepo{q: q}
}

func (r *HistoryRepo) Append(ctx context.Context, e *entity.HistoryEntry) error {
	const q = `
		INSERT INTO inventory_history (id, item_id, change_type, quantity_change, previous_quantity, new_quantity, user_id, notes, created_at)
		VALUES (:id, :item_id, :change_type, :quantity_change, :previous_quantity, :new_quantity, :user_id, :notes, :created_at)`
	row := historyRow{e.ID, e.ItemID, e.ChangeType, e.Delta, e.PreviousQty, e.NewQty, e.UserID, e.Notes, e.Timestamp}
	if _, err := sqlx.NamedExecContext(ctx, r.q, q, row); err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

func (r *HistoryRepo) ListByItem(ctx context.Context, itemID string, limit int) ([]*entity.HistoryEntry, error) {
	const q = `
		SELECT id, item_id, change_type, quantity_change, previous_quantity, new_quantity, user_id, notes, created_at
		FROM inventory_history
		WHERE item_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`
	var rows []historyRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, q, itemID, limit); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	out := make([]*entity.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.HistoryEntry{
			ID: row.ID, ItemID: row.ItemID, ChangeType: row.ChangeType, Delta: row.Delta,
			PreviousQty: row.PreviousQty, NewQty: row.NewQty, UserID: row.UserID,
			Notes: row.Notes, Timestamp: row.CreatedAt.UTC(),
		})
	}
	return out, nil
}

func (r *HistoryRepo) DeleteByItem(ctx context.Context, itemID string) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM inventory_history WHERE item_id = ?`, itemID)
	if err != nil {
		return 0, fmt.Errorf("delete history: %w", err)
	}
	return res.RowsAffected()
}
