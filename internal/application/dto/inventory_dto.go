package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body para POST /api/inventory. quantity y reorder_level son
// obligatorios (nil = ausente); unit_cost vale 0 si se omite.
type CreateItemRequest struct {
	SKU          string          `json:"sku"`
	ProductName  string          `json:"product_name"`
	Quantity     *int            `json:"quantity"`
	ReorderLevel *int            `json:"reorder_level"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	StoreID      string          `json:"store_id"`
}

// UpdateItemRequest body para PUT /api/inventory/:id; solo se aplican los campos presentes.
type UpdateItemRequest struct {
	SKU          *string          `json:"sku"`
	ProductName  *string          `json:"product_name"`
	Quantity     *int             `json:"quantity"`
	ReorderLevel *int             `json:"reorder_level"`
	UnitCost     *decimal.Decimal `json:"unit_cost"`
	StoreID      *string          `json:"store_id"`
}

// AdjustRequest body para POST /api/inventory/adjust.
type AdjustRequest struct {
	ItemID         string `json:"item_id"`
	QuantityChange *int   `json:"quantity_change"`       // obligatorio; 0 es un ajuste válido
	ChangeType     string `json:"change_type,omitempty"` // adjustment|reorder|sale|return|damage
	Notes          string `json:"notes,omitempty"`
}

// AdjustResponse cantidades antes y después del ajuste.
type AdjustResponse struct {
	Success     bool `json:"success"`
	PreviousQty int  `json:"previous_qty"`
	NewQty      int  `json:"new_qty"`
}

// ItemResponse ítem de inventario con el nombre de su tienda.
type ItemResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	ProductName  string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	ReorderLevel int             `json:"reorder_level"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	StoreID      string          `json:"store_id"`
	StoreName    string          `json:"store_name"`
	NeedsReorder bool            `json:"needs_reorder"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// DeleteItemResponse filas eliminadas junto al ítem.
type DeleteItemResponse struct {
	Success        bool  `json:"success"`
	HistoryRemoved int64 `json:"history_removed"`
	AlertsRemoved  int64 `json:"alerts_removed"`
}

// HistoryEntryResponse entrada del historial con el usuario resuelto ("System" si no hay).
type HistoryEntryResponse struct {
	ID          string    `json:"id"`
	ItemID      string    `json:"item_id"`
	ChangeType  string    `json:"change_type"`
	Delta       int       `json:"quantity_change"`
	PreviousQty int       `json:"previous_quantity"`
	NewQty      int       `json:"new_quantity"`
	UserID      string    `json:"user_id,omitempty"`
	Username    string    `json:"username"`
	Notes       string    `json:"notes,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// ImportRequest body JSON para POST /api/inventory/import.
type ImportRequest struct {
	CSVData string `json:"csv_data"`
	StoreID string `json:"store_id"`
}

// ImportResponse resumen de una importación.
type ImportResponse struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un ítem en o bajo su nivel de reorden.
type ReplenishmentSuggestionDTO struct {
	ItemID             string          `json:"item_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	StoreID            string          `json:"store_id"`
	StoreName          string          `json:"store_name"`
	CurrentStock       int             `json:"current_stock"`
	ReorderLevel       int             `json:"reorder_level"`
	IdealStock         int             `json:"ideal_stock"`          // ceil(ReorderLevel * 1.5)
	SuggestedOrderQty  int             `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	RecentUnitsSold    int             `json:"recent_units_sold"`    // ventas en la ventana reciente del historial
	Priority           int             `json:"priority"`             // 1 = más urgente
}
