package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventory-ledger/internal/application/ports"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

// Transition resultado de evaluar las alertas de un ítem.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionOpened
	TransitionResolved
)

func (t Transition) String() string {
	switch t {
	case TransitionOpened:
		return "opened"
	case TransitionResolved:
		return "resolved"
	}
	return "none"
}

// AlertEngine mantiene el ciclo de vida de las alertas de reposición.
// Por ítem hay dos estados (sin alerta / alerta abierta) y la transición depende solo de
// entity.NeedsReorder, sin banda de histéresis.
type AlertEngine struct {
	txRunner  ports.TxRunner
	alertRepo repository.AlertRepository
	storeRepo repository.StoreRepository
	log       *logger.Logger
}

// NewAlertEngine construye el motor de alertas.
func NewAlertEngine(
	txRunner ports.TxRunner,
	alertRepo repository.AlertRepository,
	storeRepo repository.StoreRepository,
	log *logger.Logger,
) *AlertEngine {
	return &AlertEngine{
		txRunner:  txRunner,
		alertRepo: alertRepo,
		storeRepo: storeRepo,
		log:       log.Component("alerts"),
	}
}

// Evaluate abre o cierra la alerta del ítem según su cantidad actual.
// Debe llamarse con el repositorio de la transacción que mutó el ítem.
// La foto de una alerta abierta no se actualiza en evaluaciones posteriores.
func (e *AlertEngine) Evaluate(ctx context.Context, alerts repository.AlertRepository, item *entity.InventoryItem) (Transition, error) {
	open, err := alerts.GetOpenByItem(ctx, item.ID)
	if err != nil {
		return TransitionNone, err
	}
	shouldAlert := item.NeedsReorder()

	switch {
	case shouldAlert && open == nil:
		alert := &entity.Alert{
			ID:           uuid.New().String(),
			ItemID:       item.ID,
			StoreID:      item.StoreID,
			SKU:          item.SKU,
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			ReorderLevel: item.ReorderLevel,
			Type:         entity.AlertTypeReorder,
			TriggeredAt:  time.Now().UTC(),
		}
		if err := alerts.Create(ctx, alert); err != nil {
			return TransitionNone, err
		}
		e.log.Debug().Str("alert_id", alert.ID).Str("item_id", item.ID).
			Int("quantity", item.Quantity).Int("reorder_level", item.ReorderLevel).Msg("alerta abierta")
		return TransitionOpened, nil
	case !shouldAlert && open != nil:
		if err := alerts.Resolve(ctx, open.ID, entity.SystemActor.String(), time.Now().UTC()); err != nil {
			return TransitionNone, err
		}
		e.log.Debug().Str("alert_id", open.ID).Str("item_id", item.ID).Msg("alerta resuelta por reposición")
		return TransitionResolved, nil
	}
	return TransitionNone, nil
}

// ResolveManually cierra una alerta a mano sin mirar la cantidad del ítem.
// Si el ítem sigue bajo el nivel, la próxima mutación abrirá una alerta nueva.
// Resolver una alerta ya resuelta la devuelve sin cambios.
func (e *AlertEngine) ResolveManually(ctx context.Context, alertID string, actor entity.Actor) (*entity.Alert, error) {
	if alertID == "" {
		return nil, domain.Errorf(domain.ErrInvalidInput, "alert_id es requerido")
	}
	var out *entity.Alert
	err := e.txRunner.Run(ctx, func(tx ports.TxRepos) error {
		alert, err := tx.Alerts.GetByID(ctx, alertID)
		if err != nil {
			return err
		}
		if alert == nil {
			return domain.Errorf(domain.ErrNotFound, "alerta %s no encontrada", alertID)
		}
		if !alert.IsOpen() {
			out = alert
			return nil
		}
		if err := tx.Alerts.Resolve(ctx, alert.ID, actor.String(), time.Now().UTC()); err != nil {
			return err
		}
		// relectura: si otra resolución ganó la carrera se devuelve la suya
		out, err = tx.Alerts.GetByID(ctx, alertID)
		if err != nil {
			return err
		}
		if out == nil {
			return domain.Errorf(domain.ErrNotFound, "alerta %s no encontrada", alertID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("alert_id", out.ID).Str("item_id", out.ItemID).Str("resolved_by", out.ResolvedBy).Msg("alerta resuelta manualmente")
	return out, nil
}

// AlertWithStore alerta con el nombre de su tienda.
type AlertWithStore struct {
	Alert     *entity.Alert
	StoreName string
}

// List devuelve las alertas (todas o solo abiertas), más recientes primero.
func (e *AlertEngine) List(ctx context.Context, onlyOpen bool) ([]AlertWithStore, error) {
	alerts, err := e.alertRepo.List(ctx, repository.AlertFilter{OnlyOpen: onlyOpen})
	if err != nil {
		return nil, err
	}
	names, err := storeNames(ctx, e.storeRepo)
	if err != nil {
		return nil, err
	}
	out := make([]AlertWithStore, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, AlertWithStore{Alert: a, StoreName: storeNameOr(names, a.StoreID)})
	}
	return out, nil
}
