package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo implementación del puerto StoreRepository sobre PostgreSQL (usable con pool o tx).
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador de persistencia para tiendas.
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

const storeColumns = `id, name, location, contact_email, contact_phone, created_at`

// Create persiste una nueva tienda.
func (r *StoreRepo) Create(ctx context.Context, s *entity.Store) error {
	query := `
		INSERT INTO stores (` + storeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.Location, nullable(s.ContactEmail), nullable(s.ContactPhone), s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert store: %w", err)
	}
	return nil
}

// GetByID obtiene una tienda por ID.
func (r *StoreRepo) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE id = $1`
	s, err := scanStore(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store: %w", err)
	}
	return s, nil
}

// Update actualiza los metadatos de la tienda.
func (r *StoreRepo) Update(ctx context.Context, s *entity.Store) error {
	query := `
		UPDATE stores SET name = $2, location = $3, contact_email = $4, contact_phone = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.Location, nullable(s.ContactEmail), nullable(s.ContactPhone),
	)
	if err != nil {
		return fmt.Errorf("update store: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.Errorf(domain.ErrNotFound, "tienda %s no encontrada", s.ID)
	}
	return nil
}

// List lista todas las tiendas por nombre.
func (r *StoreRepo) List(ctx context.Context) ([]*entity.Store, error) {
	rows, err := r.q.Query(ctx, `SELECT `+storeColumns+` FROM stores ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()
	var list []*entity.Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Delete elimina una tienda por ID. Una llave foránea activa se traduce a ErrDependencyConflict.
func (r *StoreRepo) Delete(ctx context.Context, id string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, domain.Errorf(domain.ErrDependencyConflict, "la tienda tiene ítems de inventario")
		}
		return false, fmt.Errorf("delete store: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

func scanStore(row pgx.Row) (*entity.Store, error) {
	var (
		s            entity.Store
		email, phone *string
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Location, &email, &phone, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.ContactEmail = deref(email)
	s.ContactPhone = deref(phone)
	return &s, nil
}
