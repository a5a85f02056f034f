package entity

import "time"

// Tipos de cambio registrados en el historial.
const (
	ChangeTypeCreated    = "created"
	ChangeTypeAdjustment = "adjustment"
	ChangeTypeReorder    = "reorder"
	ChangeTypeSale       = "sale"
	ChangeTypeReturn     = "return"
	ChangeTypeDamage     = "damage"
)

// IsAdjustmentChangeType indica si t puede usarse en un ajuste manual.
// "created" queda reservado para la creación del ítem.
func IsAdjustmentChangeType(t string) bool {
	switch t {
	case ChangeTypeAdjustment, ChangeTypeReorder, ChangeTypeSale, ChangeTypeReturn, ChangeTypeDamage:
		return true
	}
	return false
}

// HistoryEntry es una entrada inmutable del historial de cantidades.
// UserID vacío significa cambio automático (actor sistema).
type HistoryEntry struct {
	ID          string
	ItemID      string
	ChangeType  string
	Delta       int
	PreviousQty int
	NewQty      int
	UserID      string
	Notes       string
	Timestamp   time.Time
}
