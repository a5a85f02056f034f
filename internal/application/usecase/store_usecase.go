package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/ports"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

// StoreUseCase casos de uso CRUD para el directorio de tiendas.
type StoreUseCase struct {
	repo     repository.StoreRepository
	txRunner ports.TxRunner
	log      *logger.Logger
}

// NewStoreUseCase construye el caso de uso.
func NewStoreUseCase(repo repository.StoreRepository, txRunner ports.TxRunner, log *logger.Logger) *StoreUseCase {
	return &StoreUseCase{repo: repo, txRunner: txRunner, log: log.Component("stores")}
}

// Create crea una nueva tienda. name y location son requeridos.
func (uc *StoreUseCase) Create(ctx context.Context, in dto.CreateStoreRequest) (*dto.StoreResponse, error) {
	name := strings.TrimSpace(in.Name)
	location := strings.TrimSpace(in.Location)
	if name == "" || location == "" {
		return nil, domain.Errorf(domain.ErrInvalidInput, "name y location son requeridos")
	}
	store := &entity.Store{
		ID:           uuid.New().String(),
		Name:         name,
		Location:     location,
		ContactEmail: strings.TrimSpace(in.ContactEmail),
		ContactPhone: strings.TrimSpace(in.ContactPhone),
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, store); err != nil {
		return nil, err
	}
	uc.log.Info().Str("store_id", store.ID).Str("name", store.Name).Msg("tienda creada")
	return toStoreResponse(store), nil
}

// GetByID obtiene una tienda por ID.
func (uc *StoreUseCase) GetByID(ctx context.Context, id string) (*dto.StoreResponse, error) {
	store, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "tienda %s no encontrada", id)
	}
	return toStoreResponse(store), nil
}

// Update actualiza los metadatos editables de una tienda.
func (uc *StoreUseCase) Update(ctx context.Context, id string, in dto.UpdateStoreRequest) (*dto.StoreResponse, error) {
	store, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "tienda %s no encontrada", id)
	}
	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		if v == "" {
			return nil, domain.Errorf(domain.ErrInvalidInput, "name no puede ser vacío")
		}
		store.Name = v
	}
	if in.Location != nil {
		v := strings.TrimSpace(*in.Location)
		if v == "" {
			return nil, domain.Errorf(domain.ErrInvalidInput, "location no puede ser vacío")
		}
		store.Location = v
	}
	if in.ContactEmail != nil {
		store.ContactEmail = strings.TrimSpace(*in.ContactEmail)
	}
	if in.ContactPhone != nil {
		store.ContactPhone = strings.TrimSpace(*in.ContactPhone)
	}
	if err := uc.repo.Update(ctx, store); err != nil {
		return nil, err
	}
	return toStoreResponse(store), nil
}

// List lista todas las tiendas ordenadas por nombre.
func (uc *StoreUseCase) List(ctx context.Context) ([]dto.StoreResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StoreResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toStoreResponse(s))
	}
	return items, nil
}

// Delete elimina una tienda. Falla con ErrDependencyConflict si todavía tiene ítems.
// La verificación y el borrado van en la misma transacción que las mutaciones del ledger.
func (uc *StoreUseCase) Delete(ctx context.Context, id string) error {
	err := uc.txRunner.Run(ctx, func(tx ports.TxRepos) error {
		store, err := tx.Stores.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if store == nil {
			return domain.Errorf(domain.ErrNotFound, "tienda %s no encontrada", id)
		}
		n, err := tx.Items.CountByStore(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.Errorf(domain.ErrDependencyConflict, "la tienda tiene %d ítems de inventario", n)
		}
		ok, err := tx.Stores.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.Errorf(domain.ErrNotFound, "tienda %s no encontrada", id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("store_id", id).Msg("tienda eliminada")
	return nil
}

func toStoreResponse(s *entity.Store) *dto.StoreResponse {
	if s == nil {
		return nil
	}
	return &dto.StoreResponse{
		ID:           s.ID,
		Name:         s.Name,
		Location:     s.Location,
		ContactEmail: s.ContactEmail,
		ContactPhone: s.ContactPhone,
		CreatedAt:    s.CreatedAt,
	}
}
