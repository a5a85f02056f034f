package report

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

// DashboardUseCase calcula los indicadores del dashboard.
//
// Fuentes: ítems, tiendas y alertas abiertas (consultas read-only, en paralelo).
type DashboardUseCase struct {
	itemRepo  repository.InventoryItemRepository
	storeRepo repository.StoreRepository
	alertRepo repository.AlertRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	itemRepo repository.InventoryItemRepository,
	storeRepo repository.StoreRepository,
	alertRepo repository.AlertRepository,
) *DashboardUseCase {
	return &DashboardUseCase{itemRepo: itemRepo, storeRepo: storeRepo, alertRepo: alertRepo}
}

// GetStats construye el DashboardStatsDTO.
//
// Tres consultas en paralelo:
//  1. ítems       → TotalItems, TotalValue, LowStockCount
//  2. tiendas     → TotalStores
//  3. alertas     → ActiveAlerts
func (uc *DashboardUseCase) GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	type itemsResult struct {
		total, lowStock int
		value           decimal.Decimal
		err             error
	}
	type countResult struct {
		n   int
		err error
	}

	itemsCh := make(chan itemsResult, 1)
	storesCh := make(chan countResult, 1)
	alertsCh := make(chan countResult, 1)

	go func() {
		items, err := uc.itemRepo.List(ctx, repository.ItemFilter{})
		if err != nil {
			itemsCh <- itemsResult{err: err}
			return
		}
		res := itemsResult{total: len(items), value: decimal.Zero}
		for _, it := range items {
			res.value = res.value.Add(it.TotalValue())
			if it.NeedsReorder() {
				res.lowStock++
			}
		}
		itemsCh <- res
	}()
	go func() {
		stores, err := uc.storeRepo.List(ctx)
		storesCh <- countResult{len(stores), err}
	}()
	go func() {
		n, err := uc.alertRepo.CountOpen(ctx)
		alertsCh <- countResult{n, err}
	}()

	items := <-itemsCh
	stores := <-storesCh
	alerts := <-alertsCh

	if items.err != nil {
		return nil, fmt.Errorf("dashboard: ítems: %w", items.err)
	}
	if stores.err != nil {
		return nil, fmt.Errorf("dashboard: tiendas: %w", stores.err)
	}
	if alerts.err != nil {
		return nil, fmt.Errorf("dashboard: alertas: %w", alerts.err)
	}

	return &dto.DashboardStatsDTO{
		TotalItems:    items.total,
		TotalStores:   stores.n,
		ActiveAlerts:  alerts.n,
		TotalValue:    items.value.Round(2),
		LowStockCount: items.lowStock,
	}, nil
}
