package report_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/report"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: memoria con dos tiendas y tres ítems
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	items  *memory.InventoryItemRepo
	stores *memory.StoreRepo
	alerts *memory.AlertRepo
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	db := memory.NewDB()
	f := fixture{
		items:  memory.NewInventoryItemRepository(db),
		stores: memory.NewStoreRepository(db),
		alerts: memory.NewAlertRepository(db),
	}
	now := time.Now().UTC()
	require.NoError(t, f.stores.Create(ctx, &entity.Store{ID: "s-1", Name: "Norte", Location: "A", CreatedAt: now}))
	require.NoError(t, f.stores.Create(ctx, &entity.Store{ID: "s-2", Name: "Sur", Location: "B", CreatedAt: now}))

	for _, it := range []entity.InventoryItem{
		{ID: "i-1", SKU: "A", ProductName: "Alfa", StoreID: "s-1", Quantity: 2, ReorderLevel: 5, UnitCost: decimal.RequireFromString("1.005")},
		{ID: "i-2", SKU: "B", ProductName: "Beta", StoreID: "s-1", Quantity: 10, ReorderLevel: 1, UnitCost: decimal.RequireFromString("3")},
		{ID: "i-3", SKU: "C", ProductName: "Gama", StoreID: "s-2", Quantity: 0, ReorderLevel: 0, UnitCost: decimal.Zero},
	} {
		it := it
		it.CreatedAt, it.UpdatedAt = now, now
		require.NoError(t, f.items.Create(ctx, &it))
	}
	require.NoError(t, f.alerts.Create(ctx, &entity.Alert{ID: "a-1", ItemID: "i-1", StoreID: "s-1", Type: entity.AlertTypeReorder, TriggeredAt: now}))
	return f
}

// recordingWriter captura las filas que recibe.
type recordingWriter struct{ rows []dto.ExportRow }

func (*recordingWriter) Format() string      { return "txt" }
func (*recordingWriter) ContentType() string { return "text/plain" }
func (w *recordingWriter) Render(rows []dto.ExportRow, _ time.Time) ([]byte, error) {
	w.rows = rows
	return []byte("ok"), nil
}

// partialStores simula una tienda que ya no está en el directorio.
type partialStores struct {
	*memory.StoreRepo
	hide string
}

func (p partialStores) List(ctx context.Context) ([]*entity.Store, error) {
	all, err := p.StoreRepo.List(ctx)
	out := all[:0]
	for _, s := range all {
		if s.ID != p.hide {
			out = append(out, s)
		}
	}
	return out, err
}

// ──────────────────────────────────────────────────────────────────────────────
// ExportUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestExport_FilasPorItem(t *testing.T) {
	f := newFixture(t)
	uc := report.NewExportUseCase(f.items, f.stores)

	rows, err := uc.Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "A", rows[0].SKU)
	assert.Equal(t, "Norte", rows[0].StoreName)
	assert.Equal(t, "2.01", rows[0].TotalValue.StringFixed(2))
	assert.True(t, rows[0].NeedsReorder)
	assert.False(t, rows[1].NeedsReorder)
	assert.True(t, rows[2].NeedsReorder, "0 <= 0 necesita reposición")
	assert.Equal(t, "Sur", rows[2].StoreName)
}

func TestExport_TiendaDesconocidaQuedaVacia(t *testing.T) {
	f := newFixture(t)
	uc := report.NewExportUseCase(f.items, partialStores{StoreRepo: f.stores, hide: "s-2"})

	rows, err := uc.Rows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", rows[2].StoreName)
}

func TestExport_Formato(t *testing.T) {
	f := newFixture(t)
	w := &recordingWriter{}
	uc := report.NewExportUseCase(f.items, f.stores, w)

	file, err := uc.Export(context.Background(), " TXT ")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", file.ContentType)
	assert.True(t, strings.HasPrefix(file.Filename, "inventory-export-"))
	assert.True(t, strings.HasSuffix(file.Filename, ".txt"))
	assert.Len(t, w.rows, 3)

	_, err = uc.Export(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "csv no está registrado en este caso de uso")
}

// ──────────────────────────────────────────────────────────────────────────────
// DashboardUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboard_Stats(t *testing.T) {
	f := newFixture(t)
	uc := report.NewDashboardUseCase(f.items, f.stores, f.alerts)

	stats, err := uc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalItems)
	assert.Equal(t, 2, stats.TotalStores)
	assert.Equal(t, 1, stats.ActiveAlerts)
	assert.Equal(t, 2, stats.LowStockCount)
	assert.True(t, decimal.RequireFromString("32.01").Equal(stats.TotalValue), "got %s", stats.TotalValue)
}

type failingStores struct{ *memory.StoreRepo }

func (failingStores) List(context.Context) ([]*entity.Store, error) {
	return nil, errors.New("conexión perdida")
}

func TestDashboard_PropagaErrores(t *testing.T) {
	f := newFixture(t)
	uc := report.NewDashboardUseCase(f.items, failingStores{f.stores}, f.alerts)

	_, err := uc.GetStats(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conexión perdida")
}
