// Command seed carga datos de ejemplo (tiendas, usuarios e ítems) e imprime tokens de desarrollo.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/application/usecase"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/storage"
	"github.com/jhoicas/inventory-ledger/pkg/config"
	"github.com/jhoicas/inventory-ledger/pkg/jwt"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

type seedItem struct {
	sku, name    string
	qty, reorder int
	cost         string
}

var seedItems = []seedItem{
	{"SKU-1001", "Arroz 1kg", 40, 15, "1.20"},
	{"SKU-1002", "Aceite 1L", 8, 10, "3.45"},
	{"SKU-1003", "Azúcar 1kg", 25, 10, "0.95"},
	{"SKU-1004", "Café 500g", 3, 6, "5.80"},
	{"SKU-1005", "Sal 1kg", 60, 12, "0.40"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if cfg.Store.Driver == config.DriverMemory {
		log.Warn().Msg("STORE_DRIVER=memory: los datos sembrados se pierden al terminar")
	}
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido para emitir tokens")
	}

	ctx := context.Background()
	be, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir persistencia")
	}
	defer be.Close()

	admin := &entity.User{ID: uuid.New().String(), Username: "admin", Role: entity.RoleAdmin}
	staff := &entity.User{ID: uuid.New().String(), Username: "staff", Role: entity.RoleStaff}
	for _, u := range []*entity.User{admin, staff} {
		if err := be.Users.Save(ctx, u); err != nil {
			log.Fatal().Err(err).Str("username", u.Username).Msg("guardar usuario")
		}
	}

	storeUC := usecase.NewStoreUseCase(be.Stores, be.TxRunner, log)
	engine := inventory.NewAlertEngine(be.TxRunner, be.Alerts, be.Stores, log)
	ledger := inventory.NewLedger(be.TxRunner, be.Items, be.Stores, engine, log)
	actor := entity.UserActor(admin.ID)

	for _, s := range []dto.CreateStoreRequest{
		{Name: "Tienda Centro", Location: "Calle 10 #5-20", ContactEmail: "centro@example.com"},
		{Name: "Tienda Norte", Location: "Av. 68 #100-15", ContactPhone: "+57 601 555 0101"},
	} {
		store, err := storeUC.Create(ctx, s)
		if err != nil {
			log.Fatal().Err(err).Str("store", s.Name).Msg("crear tienda")
		}
		for _, it := range seedItems {
			_, err := ledger.CreateItem(ctx, inventory.CreateItemInput{
				SKU:          it.sku,
				ProductName:  it.name,
				Quantity:     it.qty,
				ReorderLevel: it.reorder,
				UnitCost:     decimal.RequireFromString(it.cost),
				StoreID:      store.ID,
			}, actor)
			if err != nil {
				log.Fatal().Err(err).Str("sku", it.sku).Msg("crear ítem")
			}
		}
		log.Info().Str("store_id", store.ID).Int("items", len(seedItems)).Msg("tienda sembrada")
	}

	for _, u := range []*entity.User{admin, staff} {
		tok, err := jwt.Generate(cfg.JWT.Secret, jwt.Identity{UserID: u.ID, Username: u.Username, Role: u.Role}, cfg.JWT.Issuer, cfg.JWT.Expiration)
		if err != nil {
			log.Fatal().Err(err).Msg("generar token")
		}
		fmt.Printf("%s (%s): Bearer %s\n", u.Username, u.Role, tok)
	}
}
