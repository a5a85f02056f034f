package entity

import "time"

// AlertTypeReorder es el único tipo de alerta actual.
const AlertTypeReorder = "reorder"

// Alert marca que un ítem llegó a su nivel de reposición.
// SKU, ProductName, Quantity y ReorderLevel son una foto tomada al disparar la alerta
// y no se re-sincronizan mientras siga abierta.
type Alert struct {
	ID           string
	ItemID       string
	StoreID      string
	SKU          string
	ProductName  string
	Quantity     int
	ReorderLevel int
	Type         string
	TriggeredAt  time.Time
	Resolved     bool
	ResolvedBy   string
	ResolvedAt   *time.Time
}

// IsOpen indica si la alerta sigue sin resolver.
func (a *Alert) IsOpen() bool { return !a.Resolved }
