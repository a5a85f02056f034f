package inventory

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

// MaxHistoryLimit tope de entradas devueltas por HistoryFor.
const MaxHistoryLimit = 50

// SystemUsername nombre mostrado para entradas sin usuario (automáticas o desconocidas).
const SystemUsername = "System"

// HistoryView entrada del historial con el nombre de usuario resuelto.
type HistoryView struct {
	Entry    *entity.HistoryEntry
	Username string
}

// HistoryService lectura del historial de auditoría. La escritura solo la hace el Ledger.
type HistoryService struct {
	itemRepo    repository.InventoryItemRepository
	historyRepo repository.HistoryRepository
	users       repository.UserDirectory
	limit       int
}

// NewHistoryService construye el servicio. defaultLimit se acota a [1, MaxHistoryLimit].
func NewHistoryService(
	itemRepo repository.InventoryItemRepository,
	historyRepo repository.HistoryRepository,
	users repository.UserDirectory,
	defaultLimit int,
) *HistoryService {
	return &HistoryService{
		itemRepo:    itemRepo,
		historyRepo: historyRepo,
		users:       users,
		limit:       clampLimit(defaultLimit, MaxHistoryLimit),
	}
}

// HistoryFor devuelve el historial del ítem, más reciente primero.
// limit <= 0 usa el valor por defecto; mayores al tope se recortan.
func (s *HistoryService) HistoryFor(ctx context.Context, itemID string, limit int) ([]HistoryView, error) {
	if itemID == "" {
		return nil, domain.Errorf(domain.ErrInvalidInput, "item_id es requerido")
	}
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "ítem %s no encontrado", itemID)
	}
	if limit <= 0 {
		limit = s.limit
	}
	entries, err := s.historyRepo.ListByItem(ctx, itemID, clampLimit(limit, MaxHistoryLimit))
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.UserID == "" {
			continue
		}
		if _, ok := seen[e.UserID]; !ok {
			seen[e.UserID] = struct{}{}
			ids = append(ids, e.UserID)
		}
	}
	names := map[string]string{}
	if len(ids) > 0 && s.users != nil {
		if names, err = s.users.UsernamesByIDs(ctx, ids); err != nil {
			return nil, err
		}
	}

	out := make([]HistoryView, 0, len(entries))
	for _, e := range entries {
		name, ok := names[e.UserID]
		if !ok || name == "" {
			name = SystemUsername
		}
		out = append(out, HistoryView{Entry: e, Username: name})
	}
	return out, nil
}

func clampLimit(n, max int) int {
	if n < 1 {
		return max
	}
	if n > max {
		return max
	}
	return n
}
