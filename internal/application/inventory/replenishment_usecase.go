package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición de una tienda (o de todas).
// Combina el stock actual con las ventas recientes del historial para priorizar los SKUs críticos.
type ReplenishmentUseCase struct {
	itemRepo    repository.InventoryItemRepository
	historyRepo repository.HistoryRepository
	storeRepo   repository.StoreRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	itemRepo repository.InventoryItemRepository,
	historyRepo repository.HistoryRepository,
	storeRepo repository.StoreRepository,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		itemRepo:    itemRepo,
		historyRepo: historyRepo,
		storeRepo:   storeRepo,
	}
}

// GenerateReplenishmentList devuelve los ítems en o bajo su nivel de reorden con la cantidad
// sugerida de pedido y la prioridad. storeID vacío considera todas las tiendas.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, storeID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	items, err := uc.itemRepo.List(ctx, repository.ItemFilter{StoreID: storeID, LowStock: true})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}
	names, err := storeNames(ctx, uc.storeRepo)
	if err != nil {
		return nil, err
	}

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(items))
	for _, item := range items {
		sold, err := uc.recentUnitsSold(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		ideal := idealStock(item.ReorderLevel)
		suggested := ideal - item.Quantity
		if suggested < 0 {
			suggested = 0
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ItemID:             item.ID,
			SKU:                item.SKU,
			ProductName:        item.ProductName,
			StoreID:            item.StoreID,
			StoreName:          storeNameOr(names, item.StoreID),
			CurrentStock:       item.Quantity,
			ReorderLevel:       item.ReorderLevel,
			IdealStock:         ideal,
			SuggestedOrderQty:  suggested,
			UnitCost:           item.UnitCost,
			EstimatedOrderCost: item.UnitCost.Mul(decimal.NewFromInt(int64(suggested))),
			RecentUnitsSold:    sold,
		})
	}

	// Primero mayor volumen de ventas reciente, luego mayor déficit bajo el nivel, por último SKU.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.RecentUnitsSold != b.RecentUnitsSold {
			return a.RecentUnitsSold > b.RecentUnitsSold
		}
		defA := a.ReorderLevel - a.CurrentStock
		defB := b.ReorderLevel - b.CurrentStock
		if defA != defB {
			return defA > defB
		}
		return a.SKU < b.SKU
	})

	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

// recentUnitsSold suma las salidas tipo "sale" dentro de la ventana acotada del historial.
func (uc *ReplenishmentUseCase) recentUnitsSold(ctx context.Context, itemID string) (int, error) {
	entries, err := uc.historyRepo.ListByItem(ctx, itemID, MaxHistoryLimit)
	if err != nil {
		return 0, err
	}
	sold := 0
	for _, e := range entries {
		if e.ChangeType == entity.ChangeTypeSale && e.Delta < 0 {
			sold += -e.Delta
		}
	}
	return sold, nil
}

// idealStock es 1.5 veces el nivel de reorden, redondeado hacia arriba.
func idealStock(reorderLevel int) int {
	return int(decimal.NewFromInt(int64(reorderLevel)).Mul(decimal.NewFromFloat(1.5)).Ceil().IntPart())
}
