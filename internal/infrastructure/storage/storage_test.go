package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/application/usecase"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/storage"
	"github.com/jhoicas/inventory-ledger/pkg/config"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Los mismos escenarios corren contra cada driver. PostgreSQL solo si
// TEST_DATABASE_URL apunta a una base desechable.
// ──────────────────────────────────────────────────────────────────────────────

type backendCase struct {
	name string
	cfg  func(t *testing.T) *config.Config
}

func backends() []backendCase {
	return []backendCase{
		{"memory", func(*testing.T) *config.Config {
			return &config.Config{Store: config.StoreConfig{Driver: config.DriverMemory}}
		}},
		{"sqlite", func(t *testing.T) *config.Config {
			return &config.Config{Store: config.StoreConfig{
				Driver:     config.DriverSQLite,
				SQLitePath: filepath.Join(t.TempDir(), "ledger.db"),
			}}
		}},
		{"postgres", func(t *testing.T) *config.Config {
			url := os.Getenv("TEST_DATABASE_URL")
			if url == "" {
				t.Skip("TEST_DATABASE_URL no definido")
			}
			return &config.Config{
				Store: config.StoreConfig{Driver: config.DriverPostgres},
				DB:    config.DBConfig{DatabaseURL: url},
			}
		}},
	}
}

type services struct {
	backend *storage.Backend
	stores  *usecase.StoreUseCase
	ledger  *inventory.Ledger
	alerts  *inventory.AlertEngine
	history *inventory.HistoryService
}

func openServices(t *testing.T, cfg *config.Config) services {
	t.Helper()
	b, err := storage.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(b.Close)

	log := logger.Nop()
	engine := inventory.NewAlertEngine(b.TxRunner, b.Alerts, b.Stores, log)
	return services{
		backend: b,
		stores:  usecase.NewStoreUseCase(b.Stores, b.TxRunner, log),
		ledger:  inventory.NewLedger(b.TxRunner, b.Items, b.Stores, engine, log),
		alerts:  engine,
		history: inventory.NewHistoryService(b.Items, b.History, b.Users, 50),
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s services)) {
	for _, bc := range backends() {
		bc := bc
		t.Run(bc.name, func(t *testing.T) {
			fn(t, openServices(t, bc.cfg(t)))
		})
	}
}

func newStore(t *testing.T, s services) *entity.Store {
	t.Helper()
	st := &entity.Store{ID: uuid.NewString(), Name: "Tienda " + uuid.NewString()[:8], Location: "Centro", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.backend.Stores.Create(context.Background(), st))
	return st
}

func newItem(t *testing.T, s services, storeID, sku string, qty, reorder int) *entity.InventoryItem {
	t.Helper()
	it, err := s.ledger.CreateItem(context.Background(), inventory.CreateItemInput{
		SKU: sku, ProductName: "Producto " + sku, StoreID: storeID,
		Quantity: qty, ReorderLevel: reorder, UnitCost: decimal.RequireFromString("1.25"),
	}, entity.SystemActor)
	require.NoError(t, err)
	return it
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios
// ──────────────────────────────────────────────────────────────────────────────

func TestOpen_DriverDesconocido(t *testing.T) {
	_, err := storage.Open(context.Background(), &config.Config{Store: config.StoreConfig{Driver: "mongo"}})
	assert.Error(t, err)
}

func TestBackend_ItemRoundTrip(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s services) {
		ctx := context.Background()
		st := newStore(t, s)
		created := newItem(t, s, st.ID, "RT-1", 7, 3)

		got, err := s.backend.Items.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "RT-1", got.SKU)
		assert.Equal(t, 7, got.Quantity)
		assert.True(t, decimal.RequireFromString("1.25").Equal(got.UnitCost))

		missing, err := s.backend.Items.GetByID(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.Nil(t, missing)

		bySKU, err := s.backend.Items.GetBySKUAndStore(ctx, "RT-1", st.ID)
		require.NoError(t, err)
		require.NotNil(t, bySKU)
		assert.Equal(t, created.ID, bySKU.ID)
	})
}

func TestBackend_SKUUnicoPorTienda(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s services) {
		ctx := context.Background()
		a, b := newStore(t, s), newStore(t, s)
		first := newItem(t, s, a.ID, "DUP", 1, 0)
		newItem(t, s, b.ID, "DUP", 1, 0)

		dup := *first
		dup.ID = uuid.NewString()
		err := s.backend.Items.Create(ctx, &dup)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestBackend_UnaAlertaAbiertaPorItem(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s services) {
		ctx := context.Background()
		st := newStore(t, s)
		it := newItem(t, s, st.ID, "AL-1", 1, 5)

		open, err := s.backend.Alerts.GetOpenByItem(ctx, it.ID)
		require.NoError(t, err)
		require.NotNil(t, open, "crear en el nivel abre la alerta")

		again := *open
		again.ID = uuid.NewString()
		assert.ErrorIs(t, s.backend.Alerts.Create(ctx, &again), domain.ErrConflict)

		require.NoError(t, s.backend.Alerts.Resolve(ctx, open.ID, "system", time.Now().UTC()))
		again.ID = uuid.NewString()
		assert.NoError(t, s.backend.Alerts.Create(ctx, &again), "con la anterior resuelta se puede abrir otra")
	})
}

// Una segunda resolución no pisa a quien cerró primero la alerta.
func TestBackend_ResolverDosVecesConservaLaPrimera(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s services) {
		ctx := context.Background()
		st := newStore(t, s)
		it := newItem(t, s, st.ID, "RR-1", 1, 5)

		open, err := s.backend.Alerts.GetOpenByItem(ctx, it.ID)
		require.NoError(t, err)
		require.NotNil(t, open)

		first := time.Now().UTC().Truncate(time.Second)
		require.NoError(t, s.backend.Alerts.Resolve(ctx, open.ID, "ana", first))
		require.NoError(t, s.backend.Alerts.Resolve(ctx, open.ID, "beto", first.Add(time.Hour)), "resolver de nuevo no es error")

		got, err := s.backend.Alerts.GetByID(ctx, open.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Resolved)
		assert.Equal(t, "ana", got.ResolvedBy)
		require.NotNil(t, got.ResolvedAt)
		assert.True(t, first.Equal(*got.ResolvedAt), "resolved_at %v", *got.ResolvedAt)

		err = s.backend.Alerts.Resolve(ctx, uuid.NewString(), "ana", first)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

// Resoluciones manuales concurrentes devuelven todas el mismo resolutor.
func TestBackend_ResolucionManualConcurrente(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s services) {
		ctx := context.Background()
		st := newStore(t, s)
		it := newItem(t, s, st.ID, "RR-2", 1, 5)
		open, err := s.backend.Alerts.GetOpenByItem(ctx, it.ID)
		require.NoError(t, err)
		require.NotNil(t, open)

		actors := []entity.Actor{"user-a", "user-b", "user-c", "user-d"}
		results := make([]*entity.Alert, len(actors))
		var wg sync.WaitGroup
		for i, actor := range actors {
			wg.Add(1)
			go func(i int, actor entity.Actor) {
				defer wg.Done()
				a, err := s.alerts.ResolveManually(ctx, open.ID, actor)
				assert.NoError(t, err)
				results[i] = a
			}(i, actor)
		}
		wg.Wait()

		stored, err := s.backend.Alerts.GetByID(ctx, open.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		for _, r := range results {
			require.NotNil(t, r)
			assert.Equal(t, stored.ResolvedBy, r.ResolvedBy)
		}
	})
}

func TestBackend_AjustesConcurrentes(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s services) {
		ctx := context.Background()
		st := newStore(t, s)
		it := newItem(t, s, st.ID, "CC-1", 0, 0)

		const n = 20
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.ledger.Adjust(ctx, inventory.AdjustInput{ItemID: it.ID, Delta: 1}, entity.SystemActor)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		got, err := s.backend.Items.GetByID(ctx, it.ID)
		require.NoError(t, err)
		assert.Equal(t, n, got.Quantity)

		entries, err := s.backend.History.ListByItem(ctx, it.ID, 100)
		require.NoError(t, err)
		require.Len(t, entries, n+1)
		assert.Equal(t, n, entries[0].NewQty, "la más reciente primero")

		alert, err := s.backend.Alerts.GetOpenByItem(ctx, it.ID)
		require.NoError(t, err)
		assert.Nil(t, alert, "la alerta inicial se cerró al subir el stock")
	})
}

func TestBackend_RollbackEnStockInsuficiente(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s services) {
		ctx := context.Background()
		st := newStore(t, s)
		it := newItem(t, s, st.ID, "RB-1", 2, 0)

		_, err := s.ledger.Adjust(ctx, inventory.AdjustInput{ItemID: it.ID, Delta: -3}, entity.SystemActor)
		assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)

		got, err := s.backend.Items.GetByID(ctx, it.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Quantity)
		entries, err := s.backend.History.ListByItem(ctx, it.ID, 10)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestBackend_BorrarTiendaYItem(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s services) {
		ctx := context.Background()
		st := newStore(t, s)
		it := newItem(t, s, st.ID, "DEL-1", 0, 1)

		assert.ErrorIs(t, s.stores.Delete(ctx, st.ID), domain.ErrDependencyConflict)

		res, err := s.ledger.Delete(ctx, it.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, res.HistoryRemoved)
		assert.EqualValues(t, 1, res.AlertsRemoved)

		open, err := s.backend.Alerts.List(ctx, repository.AlertFilter{OnlyOpen: true})
		require.NoError(t, err)
		for _, a := range open {
			assert.NotEqual(t, it.ID, a.ItemID)
		}
		require.NoError(t, s.stores.Delete(ctx, st.ID))
	})
}

func TestBackend_HistorialConUsuario(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s services) {
		ctx := context.Background()
		user := &entity.User{ID: uuid.NewString(), Username: "u-" + uuid.NewString()[:8], Role: entity.RoleStaff}
		require.NoError(t, s.backend.Users.Save(ctx, user))

		st := newStore(t, s)
		it := newItem(t, s, st.ID, "HU-1", 5, 0)
		_, err := s.ledger.Adjust(ctx, inventory.AdjustInput{ItemID: it.ID, Delta: -1, ChangeType: entity.ChangeTypeSale}, entity.UserActor(user.ID))
		require.NoError(t, err)

		views, err := s.history.HistoryFor(ctx, it.ID, 0)
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, entity.ChangeTypeSale, views[0].Entry.ChangeType)
		assert.Equal(t, user.Username, views[0].Username)
		assert.Equal(t, "System", views[1].Username)
	})
}
