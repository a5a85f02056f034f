package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.UserDirectory = (*UserDirectory)(nil)

// UserDirectory resuelve nombres de usuario desde la tabla users.
type UserDirectory struct {
	q sqlx.ExtContext
}

// NewUserDirectory construye el adaptador.
func NewUserDirectory(q sqlx.ExtContext) *UserDirectory {
	return &UserDirectory{q: q}
}

func (d *UserDirectory) UsernamesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`SELECT id, username FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("build username lookup: %w", err)
	}
	var rows []struct {
		ID       string `db:"id"`
		Username string `db:"username"`
	}
	if err := sqlx.SelectContext(ctx, d.q, &rows, d.q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("lookup usernames: %w", err)
	}
	for _, r := range rows {
		out[r.ID] = r.Username
	}
	return out, nil
}

func (d *UserDirectory) Save(ctx context.Context, u *entity.User) error {
	const q = `
		INSERT INTO users (id, username, role) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET username = excluded.username, role = excluded.role`
	if _, err := d.q.ExecContext(ctx, q, u.ID, u.Username, u.Role); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}
