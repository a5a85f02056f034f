package entity

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MaxQuantity tope de Quantity y ReorderLevel; coincide con las columnas INTEGER de postgres.
const MaxQuantity = math.MaxInt32

// InventoryItem es el estado autoritativo de un SKU en una tienda.
// (SKU, StoreID) es único; Quantity y ReorderLevel nunca son negativos.
type InventoryItem struct {
	ID           string
	SKU          string
	ProductName  string
	Quantity     int
	ReorderLevel int
	UnitCost     decimal.Decimal
	StoreID      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NeedsReorder es la regla única de reposición: stock en o por debajo del nivel.
// La usan el motor de alertas y la exportación; no duplicar la comparación.
func NeedsReorder(quantity, reorderLevel int) bool {
	return quantity <= reorderLevel
}

// NeedsReorder aplica la regla al ítem.
func (i *InventoryItem) NeedsReorder() bool {
	return NeedsReorder(i.Quantity, i.ReorderLevel)
}

// TotalValue devuelve Quantity * UnitCost.
func (i *InventoryItem) TotalValue() decimal.Decimal {
	return i.UnitCost.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
