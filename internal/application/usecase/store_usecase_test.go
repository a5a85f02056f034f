package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/application/usecase"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

func newStoreUC() (*usecase.StoreUseCase, *inventory.Ledger) {
	db := memory.NewDB()
	tx := memory.NewTxRunner(db)
	stores := memory.NewStoreRepository(db)
	items := memory.NewInventoryItemRepository(db)
	engine := inventory.NewAlertEngine(tx, memory.NewAlertRepository(db), stores, logger.Nop())
	ledger := inventory.NewLedger(tx, items, stores, engine, logger.Nop())
	return usecase.NewStoreUseCase(stores, tx, logger.Nop()), ledger
}

func TestStoreUseCase_CRUD(t *testing.T) {
	ctx := context.Background()
	uc, _ := newStoreUC()

	created, err := uc.Create(ctx, dto.CreateStoreRequest{Name: "  Norte ", Location: "Av. 1", ContactEmail: "n@example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Norte", created.Name)

	_, err = uc.Create(ctx, dto.CreateStoreRequest{Name: "Sin ubicación"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	phone := "+57 300"
	updated, err := uc.Update(ctx, created.ID, dto.UpdateStoreRequest{ContactPhone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Norte", updated.Name, "campos ausentes no cambian")
	assert.Equal(t, phone, updated.ContactPhone)

	empty := " "
	_, err = uc.Update(ctx, created.ID, dto.UpdateStoreRequest{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateStoreRequest{Name: "Alfa", Location: "Av. 2"})
	require.NoError(t, err)
	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alfa", list[0].Name, "ordenadas por nombre")

	_, err = uc.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStoreUseCase_DeleteConItems(t *testing.T) {
	ctx := context.Background()
	uc, ledger := newStoreUC()
	s, err := uc.Create(ctx, dto.CreateStoreRequest{Name: "Norte", Location: "Av. 1"})
	require.NoError(t, err)
	it, err := ledger.CreateItem(ctx, inventory.CreateItemInput{SKU: "A", ProductName: "A", StoreID: s.ID, UnitCost: decimal.Zero}, entity.SystemActor)
	require.NoError(t, err)

	err = uc.Delete(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrDependencyConflict)

	_, err = ledger.Delete(ctx, it.ID)
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, s.ID))

	err = uc.Delete(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
