package dto

import "time"

// AlertResponse alerta de reposición con la foto tomada al abrirse.
type AlertResponse struct {
	ID           string     `json:"id"`
	ItemID       string     `json:"item_id"`
	StoreID      string     `json:"store_id"`
	StoreName    string     `json:"store_name"`
	SKU          string     `json:"sku"`
	ProductName  string     `json:"product_name"`
	Quantity     int        `json:"current_quantity"`
	ReorderLevel int        `json:"reorder_level"`
	AlertType    string     `json:"alert_type"`
	TriggeredAt  time.Time  `json:"triggered_at"`
	Resolved     bool       `json:"resolved"`
	ResolvedBy   string     `json:"resolved_by,omitempty"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
}
