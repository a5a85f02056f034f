package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo historial append-only en memoria.
type HistoryRepo struct {
	acc access
}

// NewHistoryRepository repositorio sobre el DB compartido.
func NewHistoryRepository(db *DB) *HistoryRepo { return &HistoryRepo{acc: db} }

func (r *HistoryRepo) Append(_ context.Context, e *entity.HistoryEntry) error {
	return r.acc.write(func(d *dataset) error {
		d.seq++
		d.history = append(d.history, historyRow{seq: d.seq, entry: *e})
		return nil
	})
}

func (r *HistoryRepo) ListByItem(_ context.Context, itemID string, limit int) ([]*entity.HistoryEntry, error) {
	var rows []historyRow
	r.acc.read(func(d *dataset) {
		for _, h := range d.history {
			if h.entry.ItemID == itemID {
				rows = append(rows, h)
			}
		}
	})
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.entry.Timestamp.Equal(b.entry.Timestamp) {
			return a.entry.Timestamp.After(b.entry.Timestamp)
		}
		return a.seq > b.seq
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]*entity.HistoryEntry, 0, len(rows))
	for _, h := range rows {
		e := h.entry
		out = append(out, &e)
	}
	return out, nil
}

func (r *HistoryRepo) DeleteByItem(_ context.Context, itemID string) (int64, error) {
	var n int64
	err := r.acc.write(func(d *dataset) error {
		kept := d.history[:0]
		for _, h := range d.history {
			if h.entry.ItemID == itemID {
				n++
				continue
			}
			kept = append(kept, h)
		}
		d.history = kept
		return nil
	})
	return n, err
}
