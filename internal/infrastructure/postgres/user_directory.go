package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.UserDirectory = (*UserDirectory)(nil)

// UserDirectory resuelve nombres de usuario desde la tabla users.
type UserDirectory struct {
	q Querier
}

// NewUserDirectory construye el adaptador.
func NewUserDirectory(q Querier) *UserDirectory {
	return &UserDirectory{q: q}
}

// UsernamesByIDs devuelve id → username; los IDs desconocidos no aparecen.
func (d *UserDirectory) UsernamesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := d.q.Query(ctx, `SELECT id, username FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup usernames: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan username: %w", err)
		}
		out[id] = name
	}
	return out, rows.Err()
}

// Save inserta o actualiza un usuario (seed y tests).
func (d *UserDirectory) Save(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (id, username, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username, role = EXCLUDED.role`
	if _, err := d.q.Exec(ctx, query, u.ID, u.Username, u.Role); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}
