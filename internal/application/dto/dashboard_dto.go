package dto

import "github.com/shopspring/decimal"

// DashboardStatsDTO respuesta de GET /api/dashboard/stats.
type DashboardStatsDTO struct {
	TotalItems    int             `json:"total_items"`
	TotalStores   int             `json:"total_stores"`
	ActiveAlerts  int             `json:"active_alerts"`
	TotalValue    decimal.Decimal `json:"total_value"` // redondeado a 2 decimales
	LowStockCount int             `json:"low_stock_count"`
}
