package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/application/ports"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

// Ledger es el único componente que muta la cantidad de un ítem. Cada operación corre en
// una transacción (TxRunner) que además escribe el historial y evalúa la alerta, de modo
// que cantidad, auditoría y alertas nunca quedan desincronizadas.
type Ledger struct {
	txRunner  ports.TxRunner
	itemRepo  repository.InventoryItemRepository
	storeRepo repository.StoreRepository
	alerts    *AlertEngine
	log       *logger.Logger
}

// NewLedger construye el ledger.
func NewLedger(
	txRunner ports.TxRunner,
	itemRepo repository.InventoryItemRepository,
	storeRepo repository.StoreRepository,
	alerts *AlertEngine,
	log *logger.Logger,
) *Ledger {
	return &Ledger{
		txRunner:  txRunner,
		itemRepo:  itemRepo,
		storeRepo: storeRepo,
		alerts:    alerts,
		log:       log.Component("ledger"),
	}
}

// CreateItemInput entrada validada para crear un ítem.
type CreateItemInput struct {
	SKU          string
	ProductName  string
	Quantity     int
	ReorderLevel int
	UnitCost     decimal.Decimal
	StoreID      string
}

func (in *CreateItemInput) normalize() error {
	in.SKU = strings.TrimSpace(in.SKU)
	in.ProductName = strings.TrimSpace(in.ProductName)
	in.StoreID = strings.TrimSpace(in.StoreID)
	if in.SKU == "" || in.ProductName == "" || in.StoreID == "" {
		return domain.Errorf(domain.ErrInvalidInput, "sku, product_name y store_id son requeridos")
	}
	if in.Quantity < 0 || in.ReorderLevel < 0 {
		return domain.Errorf(domain.ErrInvalidInput, "quantity y reorder_level no pueden ser negativos")
	}
	if in.Quantity > entity.MaxQuantity || in.ReorderLevel > entity.MaxQuantity {
		return domain.Errorf(domain.ErrInvalidInput, "quantity y reorder_level no pueden superar %d", entity.MaxQuantity)
	}
	if in.UnitCost.IsNegative() {
		return domain.Errorf(domain.ErrInvalidInput, "unit_cost no puede ser negativo")
	}
	return nil
}

// AdjustInput entrada para ajustar la cantidad de un ítem.
type AdjustInput struct {
	ItemID     string
	Delta      int
	ChangeType string // por defecto "adjustment"
	Notes      string
}

// AdjustResult cantidades antes y después del ajuste.
type AdjustResult struct {
	PreviousQty int
	NewQty      int
}

// UpdateItemInput campos opcionales; nil significa "sin cambio".
type UpdateItemInput struct {
	SKU          *string
	ProductName  *string
	Quantity     *int
	ReorderLevel *int
	UnitCost     *decimal.Decimal
	StoreID      *string
}

func (in *UpdateItemInput) normalize() error {
	for _, s := range []**string{&in.SKU, &in.ProductName, &in.StoreID} {
		if *s == nil {
			continue
		}
		v := strings.TrimSpace(**s)
		if v == "" {
			return domain.Errorf(domain.ErrInvalidInput, "sku, product_name y store_id no pueden ser vacíos")
		}
		*s = &v
	}
	if (in.Quantity != nil && *in.Quantity < 0) || (in.ReorderLevel != nil && *in.ReorderLevel < 0) {
		return domain.Errorf(domain.ErrInvalidInput, "quantity y reorder_level no pueden ser negativos")
	}
	if (in.Quantity != nil && *in.Quantity > entity.MaxQuantity) || (in.ReorderLevel != nil && *in.ReorderLevel > entity.MaxQuantity) {
		return domain.Errorf(domain.ErrInvalidInput, "quantity y reorder_level no pueden superar %d", entity.MaxQuantity)
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return domain.Errorf(domain.ErrInvalidInput, "unit_cost no puede ser negativo")
	}
	return nil
}

// touchesThreshold indica si el cambio puede alterar el estado de la alerta.
func (in *UpdateItemInput) touchesThreshold() bool {
	return in.Quantity != nil || in.ReorderLevel != nil
}

// DeleteResult filas eliminadas en cascada junto al ítem.
type DeleteResult struct {
	HistoryRemoved int64
	AlertsRemoved  int64
}

// CreateItem persiste un ítem nuevo, registra la entrada "created" y evalúa la alerta.
func (l *Ledger) CreateItem(ctx context.Context, in CreateItemInput, actor entity.Actor) (*entity.InventoryItem, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	item := &entity.InventoryItem{
		ID:           uuid.New().String(),
		SKU:          in.SKU,
		ProductName:  in.ProductName,
		Quantity:     in.Quantity,
		ReorderLevel: in.ReorderLevel,
		UnitCost:     in.UnitCost,
		StoreID:      in.StoreID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var transition Transition
	err := l.txRunner.Run(ctx, func(tx ports.TxRepos) error {
		store, err := tx.Stores.GetByID(ctx, item.StoreID)
		if err != nil {
			return err
		}
		if store == nil {
			return domain.Errorf(domain.ErrNotFound, "tienda %s no encontrada", item.StoreID)
		}
		existing, err := tx.Items.GetBySKUAndStore(ctx, item.SKU, item.StoreID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.Errorf(domain.ErrConflict, "el SKU %s ya existe en esta tienda", item.SKU)
		}
		if err := tx.Items.Create(ctx, item); err != nil {
			return err
		}
		if err := l.appendHistory(ctx, tx, item, entity.ChangeTypeCreated, item.Quantity, 0, actor, "Item created", now); err != nil {
			return err
		}
		transition, err = l.alerts.Evaluate(ctx, tx.Alerts, item)
		return err
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().Str("item_id", item.ID).Str("sku", item.SKU).Str("store_id", item.StoreID).
		Int("quantity", item.Quantity).Str("alert", transition.String()).Msg("ítem creado")
	return item, nil
}

// Adjust suma delta a la cantidad del ítem bajo bloqueo de fila.
// Si el resultado sería negativo la operación completa se rechaza con ErrInsufficientQuantity.
func (l *Ledger) Adjust(ctx context.Context, in AdjustInput, actor entity.Actor) (*AdjustResult, error) {
	in.ItemID = strings.TrimSpace(in.ItemID)
	if in.ItemID == "" {
		return nil, domain.Errorf(domain.ErrInvalidInput, "item_id es requerido")
	}
	if in.ChangeType == "" {
		in.ChangeType = entity.ChangeTypeAdjustment
	}
	if !entity.IsAdjustmentChangeType(in.ChangeType) {
		return nil, domain.Errorf(domain.ErrInvalidInput, "change_type inválido: %s", in.ChangeType)
	}

	var (
		result     AdjustResult
		transition Transition
	)
	err := l.txRunner.Run(ctx, func(tx ports.TxRepos) error {
		item, err := tx.Items.GetForUpdate(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.Errorf(domain.ErrNotFound, "ítem %s no encontrado", in.ItemID)
		}
		prev := item.Quantity
		if in.Delta > entity.MaxQuantity-prev {
			return domain.Errorf(domain.ErrInvalidInput, "stock actual %d, ajuste %d supera el máximo %d", prev, in.Delta, entity.MaxQuantity)
		}
		next := prev + in.Delta
		if next < 0 {
			return domain.Errorf(domain.ErrInsufficientQuantity, "stock actual %d, ajuste %d", prev, in.Delta)
		}
		now := time.Now().UTC()
		item.Quantity = next
		item.UpdatedAt = now
		if err := tx.Items.Update(ctx, item); err != nil {
			return err
		}
		if err := l.appendHistory(ctx, tx, item, in.ChangeType, in.Delta, prev, actor, in.Notes, now); err != nil {
			return err
		}
		result = AdjustResult{PreviousQty: prev, NewQty: next}
		transition, err = l.alerts.Evaluate(ctx, tx.Alerts, item)
		return err
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().Str("item_id", in.ItemID).Str("change_type", in.ChangeType).
		Int("previous_qty", result.PreviousQty).Int("new_qty", result.NewQty).
		Str("alert", transition.String()).Msg("inventario ajustado")
	return &result, nil
}

// Update aplica solo los campos presentes en in. Un cambio de cantidad queda en el
// historial como "adjustment"; si cambió cantidad o nivel de reposición se reevalúa la alerta.
func (l *Ledger) Update(ctx context.Context, itemID string, in UpdateItemInput, actor entity.Actor) (*entity.InventoryItem, error) {
	if itemID == "" {
		return nil, domain.Errorf(domain.ErrInvalidInput, "item_id es requerido")
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	var (
		updated    *entity.InventoryItem
		transition Transition
	)
	err := l.txRunner.Run(ctx, func(tx ports.TxRepos) error {
		item, err := tx.Items.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.Errorf(domain.ErrNotFound, "ítem %s no encontrado", itemID)
		}
		prevQty := item.Quantity
		keyChanged := false

		if in.SKU != nil && *in.SKU != item.SKU {
			item.SKU = *in.SKU
			keyChanged = true
		}
		if in.StoreID != nil && *in.StoreID != item.StoreID {
			store, err := tx.Stores.GetByID(ctx, *in.StoreID)
			if err != nil {
				return err
			}
			if store == nil {
				return domain.Errorf(domain.ErrNotFound, "tienda %s no encontrada", *in.StoreID)
			}
			item.StoreID = *in.StoreID
			keyChanged = true
		}
		if keyChanged {
			other, err := tx.Items.GetBySKUAndStore(ctx, item.SKU, item.StoreID)
			if err != nil {
				return err
			}
			if other != nil && other.ID != item.ID {
				return domain.Errorf(domain.ErrConflict, "el SKU %s ya existe en esta tienda", item.SKU)
			}
		}
		if in.ProductName != nil {
			item.ProductName = *in.ProductName
		}
		if in.Quantity != nil {
			item.Quantity = *in.Quantity
		}
		if in.ReorderLevel != nil {
			item.ReorderLevel = *in.ReorderLevel
		}
		if in.UnitCost != nil {
			item.UnitCost = *in.UnitCost
		}

		now := time.Now().UTC()
		item.UpdatedAt = now
		if err := tx.Items.Update(ctx, item); err != nil {
			return err
		}
		if item.Quantity != prevQty {
			delta := item.Quantity - prevQty
			if err := l.appendHistory(ctx, tx, item, entity.ChangeTypeAdjustment, delta, prevQty, actor, "Manual edit", now); err != nil {
				return err
			}
		}
		if in.touchesThreshold() {
			if transition, err = l.alerts.Evaluate(ctx, tx.Alerts, item); err != nil {
				return err
			}
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().Str("item_id", updated.ID).Str("alert", transition.String()).Msg("ítem actualizado")
	return updated, nil
}

// Delete elimina el ítem junto con su historial y todas sus alertas.
func (l *Ledger) Delete(ctx context.Context, itemID string) (*DeleteResult, error) {
	if itemID == "" {
		return nil, domain.Errorf(domain.ErrInvalidInput, "item_id es requerido")
	}
	var result DeleteResult
	err := l.txRunner.Run(ctx, func(tx ports.TxRepos) error {
		item, err := tx.Items.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.Errorf(domain.ErrNotFound, "ítem %s no encontrado", itemID)
		}
		if result.AlertsRemoved, err = tx.Alerts.DeleteByItem(ctx, itemID); err != nil {
			return err
		}
		if result.HistoryRemoved, err = tx.History.DeleteByItem(ctx, itemID); err != nil {
			return err
		}
		ok, err := tx.Items.Delete(ctx, itemID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.Errorf(domain.ErrNotFound, "ítem %s no encontrado", itemID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().Str("item_id", itemID).Int64("history_removed", result.HistoryRemoved).
		Int64("alerts_removed", result.AlertsRemoved).Msg("ítem eliminado")
	return &result, nil
}

// appendHistory es el único punto de escritura del historial.
func (l *Ledger) appendHistory(
	ctx context.Context,
	tx ports.TxRepos,
	item *entity.InventoryItem,
	changeType string,
	delta, prev int,
	actor entity.Actor,
	notes string,
	now time.Time,
) error {
	return tx.History.Append(ctx, &entity.HistoryEntry{
		ID:          uuid.New().String(),
		ItemID:      item.ID,
		ChangeType:  changeType,
		Delta:       delta,
		PreviousQty: prev,
		NewQty:      item.Quantity,
		UserID:      actor.UserID(),
		Notes:       notes,
		Timestamp:   now,
	})
}
