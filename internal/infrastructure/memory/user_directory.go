package memory

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.UserDirectory = (*UserDirectory)(nil)

// UserDirectory directorio de usuarios en memoria.
type UserDirectory struct {
	acc access
}

// NewUserDirectory directorio sobre el DB compartido.
func NewUserDirectory(db *DB) *UserDirectory { return &UserDirectory{acc: db} }

func (u *UserDirectory) UsernamesByIDs(_ context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	u.acc.read(func(d *dataset) {
		for _, id := range ids {
			if usr, ok := d.users[id]; ok {
				out[id] = usr.Username
			}
		}
	})
	return out, nil
}

func (u *UserDirectory) Save(_ context.Context, usr *entity.User) error {
	return u.acc.write(func(d *dataset) error {
		d.users[usr.ID] = *usr
		return nil
	})
}
