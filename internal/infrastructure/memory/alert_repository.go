package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo alertas en memoria; Create rechaza una segunda alerta abierta por ítem.
type AlertRepo struct {
	acc access
}

// NewAlertRepository repositorio sobre el DB compartido.
func NewAlertRepository(db *DB) *AlertRepo { return &AlertRepo{acc: db} }

func (r *AlertRepo) Create(_ context.Context, a *entity.Alert) error {
	return r.acc.write(func(d *dataset) error {
		for _, other := range d.alerts {
			if other.ItemID == a.ItemID && !other.Resolved {
				return domain.Errorf(domain.ErrConflict, "el ítem %s ya tiene una alerta abierta", a.ItemID)
			}
		}
		d.alerts[a.ID] = *a
		return nil
	})
}

func (r *AlertRepo) GetByID(_ context.Context, id string) (*entity.Alert, error) {
	var out *entity.Alert
	r.acc.read(func(d *dataset) {
		if a, ok := d.alerts[id]; ok {
			out = &a
		}
	})
	return out, nil
}

func (r *AlertRepo) GetOpenByItem(_ context.Context, itemID string) (*entity.Alert, error) {
	var out *entity.Alert
	r.acc.read(func(d *dataset) {
		for _, a := range d.alerts {
			if a.ItemID == itemID && !a.Resolved {
				a := a
				out = &a
				return
			}
		}
	})
	return out, nil
}

func (r *AlertRepo) Resolve(_ context.Context, id, resolvedBy string, at time.Time) error {
	return r.acc.write(func(d *dataset) error {
		a, ok := d.alerts[id]
		if !ok {
			return domain.Errorf(domain.ErrNotFound, "alerta %s no encontrada", id)
		}
		if !a.IsOpen() {
			return nil
		}
		a.Resolved = true
		a.ResolvedBy = resolvedBy
		a.ResolvedAt = &at
		d.alerts[id] = a
		return nil
	})
}

func (r *AlertRepo) List(_ context.Context, f repository.AlertFilter) ([]*entity.Alert, error) {
	var out []*entity.Alert
	r.acc.read(func(d *dataset) {
		for _, a := range d.alerts {
			if f.OnlyOpen && a.Resolved {
				continue
			}
			a := a
			out = append(out, &a)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TriggeredAt.Equal(out[j].TriggeredAt) {
			return out[i].TriggeredAt.After(out[j].TriggeredAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *AlertRepo) CountOpen(_ context.Context) (int, error) {
	n := 0
	r.acc.read(func(d *dataset) {
		for _, a := range d.alerts {
			if !a.Resolved {
				n++
			}
		}
	})
	return n, nil
}

func (r *AlertRepo) DeleteByItem(_ context.Context, itemID string) (int64, error) {
	var n int64
	err := r.acc.write(func(d *dataset) error {
		for id, a := range d.alerts {
			if a.ItemID == itemID {
				delete(d.alerts, id)
				n++
			}
		}
		return nil
	})
	return n, err
}
