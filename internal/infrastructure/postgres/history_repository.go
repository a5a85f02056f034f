package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo historial append-only sobre PostgreSQL. La columna seq (BIGSERIAL) desempata
// entradas con el mismo timestamp por orden de inserción.
type HistoryRepo struct {
	q Querier
}

// NewHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewHistoryRepository(q Querier) *HistoryRepo {
	return &HistoryRepo{q: q}
}

// Append inserta una entrada.
func (r *HistoryRepo) Append(ctx context.Context, e *entity.HistoryEntry) error {
	query := `
		INSERT INTO inventory_history (id, item_id, change_type, quantity_change, previous_quantity,
		                               new_quantity, user_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.ItemID, e.ChangeType, e.Delta, e.PreviousQty, e.NewQty,
		nullable(e.UserID), nullable(e.Notes), e.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

// ListByItem devuelve las entradas del ítem, más recientes primero.
func (r *HistoryRepo) ListByItem(ctx context.Context, itemID string, limit int) ([]*entity.HistoryEntry, error) {
	query := `
		SELECT id, item_id, change_type, quantity_change, previous_quantity, new_quantity,
		       user_id, notes, created_at
		FROM inventory_history
		WHERE item_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, itemID, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()
	var list []*entity.HistoryEntry
	for rows.Next() {
		var (
			e            entity.HistoryEntry
			userID, note *string
		)
		if err := rows.Scan(&e.ID, &e.ItemID, &e.ChangeType, &e.Delta, &e.PreviousQty, &e.NewQty,
			&userID, &note, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		e.UserID = deref(userID)
		e.Notes = deref(note)
		list = append(list, &e)
	}
	return list, rows.Err()
}

// DeleteByItem borra el historial del ítem (solo durante Ledger.Delete).
func (r *HistoryRepo) DeleteByItem(ctx context.Context, itemID string) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM inventory_history WHERE item_id = $1`, itemID)
	if err != nil {
		return 0, fmt.Errorf("delete history: %w", err)
	}
	return cmd.RowsAffected(), nil
}
