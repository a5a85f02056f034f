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

var _ repository.StoreRepository = (*StoreRepo)(nil)

type storeRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Location     string    `db:"location"`
	ContactEmail string    `db:"contact_email"`
	ContactPhone string    `db:"contact_phone"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r storeRow) toEntity() *entity.Store {
	return &entity.Store{
		ID:           r.ID,
		Name:         r.Name,
		Location:     r.Location,
		ContactEmail: r.ContactEmail,
		ContactPhone: r.ContactPhone,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

// StoreRepo tiendas sobre SQLite. Acepta *sqlx.DB o *sqlx.Tx.
type StoreRepo struct {
	q sqlx.ExtContext
}

// NewStoreRepository construye el adaptador.
func NewStoreRepository(q sqlx.ExtContext) *StoreRepo {
	return &StoreRepo{q: q}
}

func (r *StoreRepo) Create(ctx context.Context, s *entity.Store) error {
	const q = `
		INSERT INTO stores (id, name, location, contact_email, contact_phone, created_at)
		VALUES (:id, :name, :location, :contact_email, :contact_phone, :created_at)`
	row := storeRow{s.ID, s.Name, s.Location, s.ContactEmail, s.ContactPhone, s.CreatedAt}
	if _, err := sqlx.NamedExecContext(ctx, r.q, q, row); err != nil {
		return fmt.Errorf("insert store: %w", err)
	}
	return nil
}

func (r *StoreRepo) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	var row storeRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT * FROM stores WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store: %w", err)
	}
	return row.toEntity(), nil
}

func (r *StoreRepo) Update(ctx context.Context, s *entity.Store) error {
	const q = `
		UPDATE stores SET name = ?, location = ?, contact_email = ?, contact_phone = ?
		WHERE id = ?`
	res, err := r.q.ExecContext(ctx, q, s.Name, s.Location, s.ContactEmail, s.ContactPhone, s.ID)
	if err != nil {
		return fmt.Errorf("update store: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Errorf(domain.ErrNotFound, "tienda %s no encontrada", s.ID)
	}
	return nil
}

func (r *StoreRepo) List(ctx context.Context) ([]*entity.Store, error) {
	var rows []storeRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, `SELECT * FROM stores ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	out := make([]*entity.Store, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *StoreRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM stores WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, domain.Errorf(domain.ErrDependencyConflict, "la tienda tiene ítems de inventario")
		}
		return false, fmt.Errorf("delete store: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
